// Package harness runs a batch of factorizations under a selectable
// scheduling model (sequential, thread-pool, process-pool) and partitioning
// (dynamic queue or static chunks), and reports the results with the wall
// time from first dispatch to last collected result.
package harness

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/fermatbench/internal/errors"
	"github.com/agbru/fermatbench/internal/fermat"
	"github.com/agbru/fermatbench/internal/logging"
	"github.com/agbru/fermatbench/internal/metrics"
	"github.com/agbru/fermatbench/internal/parallel"
	"github.com/agbru/fermatbench/internal/worker"
)

// Harness dispatches work items to workers. It holds no per-run state and
// may serve concurrent runs.
type Harness struct {
	registry *fermat.Registry
	spawner  worker.Spawner
	retry    worker.RetryPolicy
	logger   logging.Logger
	onResult func(WorkResult)
}

// Option configures a Harness.
type Option func(*Harness)

// WithSpawner sets how process-pool workers are started. The default
// re-executes the running binary.
func WithSpawner(s worker.Spawner) Option {
	return func(h *Harness) { h.spawner = s }
}

// WithRetryPolicy sets the spawn retry policy.
func WithRetryPolicy(p worker.RetryPolicy) Option {
	return func(h *Harness) { h.retry = p }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// WithResultHook registers fn to be called, from a single goroutine, for
// every collected result.
func WithResultHook(fn func(WorkResult)) Option {
	return func(h *Harness) { h.onResult = fn }
}

// New creates a harness that resolves variants against registry.
func New(registry *fermat.Registry, opts ...Option) *Harness {
	h := &Harness{
		registry: registry,
		spawner:  worker.ExecSpawner{},
		retry:    worker.DefaultRetryPolicy,
		logger:   logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run processes every item exactly once under cfg and returns the results
// in completion order together with the elapsed wall time.
//
// Under FailFast the first failing item aborts the run with a
// apperrors.WorkerFailure and no results. Under Isolate the full result set
// is returned; if any item failed the error is a *apperrors.BatchError.
// Spawn failures, worker crashes and cancellation abort the run under both
// policies, as does a process-pool worker that fails to shut down cleanly.
// ctx is observed between items only.
func (h *Harness) Run(ctx context.Context, items []WorkItem, cfg ExecutionConfig) ([]WorkResult, time.Duration, error) {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, 0, err
	}
	f, err := h.registry.Get(cfg.Variant)
	if err != nil {
		return nil, 0, apperrors.NewConfigError("%v", err)
	}

	ctx, span := otel.Tracer("harness").Start(ctx, "harness.Run", trace.WithAttributes(
		attribute.String("model", string(cfg.Model)),
		attribute.String("variant", cfg.Variant),
		attribute.String("partition", string(cfg.Partition)),
		attribute.Int("workers", cfg.Workers),
		attribute.Int("items", len(items)),
	))
	defer span.End()

	results, elapsed, err := h.run(ctx, f, items, cfg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return results, elapsed, err
}

func (h *Harness) run(ctx context.Context, f fermat.Factorizer, items []WorkItem, cfg ExecutionConfig) ([]WorkResult, time.Duration, error) {
	logger := h.logger.With(logging.String("config", cfg.Label()))
	sources := h.partition(items, cfg)

	collected := make([]WorkResult, 0, len(items))
	resultCh := make(chan WorkResult)
	collectDone := make(chan struct{})
	go func() {
		defer close(collectDone)
		for r := range resultCh {
			collected = append(collected, r)
			metrics.ObserveItem(string(cfg.Model), cfg.Variant, r.Err)
			if h.onResult != nil {
				h.onResult(r)
			}
		}
	}()
	emit := func(r WorkResult) { resultCh <- r }

	var shutdown parallel.ErrorCollector
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	var slots *execSlots
	if cfg.Model == ThreadPool {
		slots = newExecSlots(cfg.ExecSlots)
	}
	for id, src := range sources {
		g.Go(func() error {
			wctx, span := otel.Tracer("harness").Start(gctx, "harness.worker",
				trace.WithAttributes(attribute.Int("worker", id)))
			defer span.End()

			var err error
			if cfg.Model == ProcessPool {
				err = h.runIsolated(wctx, id, src, cfg, emit, &shutdown)
			} else {
				err = runLocal(wctx, id, f, src, cfg, slots, emit)
			}
			if err != nil {
				span.RecordError(err)
			}
			return err
		})
	}
	err := g.Wait()
	close(resultCh)
	<-collectDone
	elapsed := time.Since(start)

	if err != nil {
		logger.Debug("run aborted", logging.Err(err), logging.Duration("elapsed", elapsed))
		// Prefer the caller's cancellation over the errors it provoked.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, elapsed, ctxErr
		}
		return nil, elapsed, err
	}
	if err := verifyComplete(items, collected); err != nil {
		return nil, elapsed, err
	}
	if err := shutdown.Err(); err != nil {
		return nil, elapsed, fmt.Errorf("harness: %d worker(s) failed to shut down: %w", shutdown.Count(), err)
	}

	metrics.ObserveRun(string(cfg.Model), cfg.Variant, elapsed)
	logger.Debug("run completed",
		logging.Int("items", len(collected)),
		logging.Duration("elapsed", elapsed))

	if failures := collectFailures(collected); len(failures) > 0 {
		return collected, elapsed, &apperrors.BatchError{Failures: failures}
	}
	return collected, elapsed, nil
}

// partition builds one item source per worker that has work to do.
func (h *Harness) partition(items []WorkItem, cfg ExecutionConfig) []source {
	if len(items) == 0 {
		return nil
	}
	if cfg.Model == Sequential {
		return []source{&chunkSource{items: items}}
	}
	if cfg.Partition == Static {
		var sources []source
		for _, chunk := range parallel.Chunk(items, cfg.Workers, cfg.Chunking) {
			if len(chunk) > 0 {
				sources = append(sources, &chunkSource{items: chunk})
			}
		}
		return sources
	}
	q := parallel.NewQueueFrom(items)
	n := min(cfg.Workers, len(items))
	sources := make([]source, n)
	for i := range sources {
		sources[i] = queueSource{q: q}
	}
	return sources
}

// verifyComplete checks that every submitted item produced exactly one
// result.
func verifyComplete(items []WorkItem, results []WorkResult) error {
	if len(results) != len(items) {
		return fmt.Errorf("harness: %d result(s) for %d item(s)", len(results), len(items))
	}
	seen := make(map[int]bool, len(items))
	for _, it := range items {
		seen[it.ID] = false
	}
	for _, r := range results {
		done, ok := seen[r.ID]
		if !ok {
			return fmt.Errorf("harness: result for unknown item %d", r.ID)
		}
		if done {
			return fmt.Errorf("harness: duplicate result for item %d", r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}

func collectFailures(results []WorkResult) []apperrors.WorkerFailure {
	var failures []apperrors.WorkerFailure
	for _, r := range results {
		if r.Err != nil {
			failures = append(failures, apperrors.WorkerFailure{ItemID: r.ID, WorkerID: r.WorkerID, Cause: r.Err})
		}
	}
	slices.SortFunc(failures, func(a, b apperrors.WorkerFailure) int { return a.ItemID - b.ItemID })
	return failures
}

func sortResults(results []WorkResult) {
	slices.SortFunc(results, func(a, b WorkResult) int { return a.ID - b.ID })
}
