// Package bench times harness configurations best-of-k, computes speedups
// against a baseline, and produces the label to duration mapping consumed by
// external chart renderers.
package bench

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/agbru/fermatbench/internal/errors"
	"github.com/agbru/fermatbench/internal/harness"
	"github.com/agbru/fermatbench/internal/logging"
	"github.com/agbru/fermatbench/internal/metrics"
)

// Runner executes one harness run. *harness.Harness satisfies it.
type Runner interface {
	Run(ctx context.Context, items []harness.WorkItem, cfg harness.ExecutionConfig) ([]harness.WorkResult, time.Duration, error)
}

// Gate is consulted before any timing. A non-nil error aborts the session.
type Gate func(ctx context.Context) error

// Reporter runs benchmark plans.
type Reporter struct {
	runner   Runner
	gate     Gate
	observer Observer
	logger   logging.Logger
	memory   *metrics.MemoryCollector
	newID    func() string
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithGate installs the correctness gate, typically the oracle.
func WithGate(g Gate) Option {
	return func(r *Reporter) { r.gate = g }
}

// WithObserver sets the progress observer.
func WithObserver(o Observer) Option {
	return func(r *Reporter) { r.observer = o }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(r *Reporter) { r.logger = l }
}

// NewReporter creates a reporter that times runs of runner.
func NewReporter(runner Runner, opts ...Option) *Reporter {
	r := &Reporter{
		runner:   runner,
		observer: NullObserver{},
		logger:   logging.NewNopLogger(),
		memory:   metrics.NewMemoryCollector(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the plan. Each configuration runs Trials trials of Loops
// consecutive harness runs under its own deadline; the best trial is kept.
// A failing configuration is recorded with its error and the session moves
// on. Run returns an error only for an invalid plan, a failed gate, or
// cancellation of ctx, in which case the records gathered so far are
// returned too.
func (r *Reporter) Run(ctx context.Context, plan Plan) (Session, error) {
	if err := plan.Validate(); err != nil {
		return Session{}, err
	}
	if r.gate != nil {
		if err := r.gate(ctx); err != nil {
			return Session{}, err
		}
	}

	session := Session{
		ID:       r.newID(),
		Started:  time.Now(),
		Baseline: plan.Baseline,
		Items:    len(plan.Items),
	}
	logger := r.logger.With(logging.String("session", session.ID))
	items := harness.NewWorkItems(plan.Items)

	for i, cfg := range plan.Configs {
		if err := ctx.Err(); err != nil {
			return session, err
		}
		r.observer.ConfigStarted(i, len(plan.Configs), cfg)
		rec := r.runConfig(ctx, i, items, cfg, plan)
		rec.SessionID = session.ID
		session.Records = append(session.Records, rec)
		r.observer.ConfigFinished(i, rec)

		if rec.OK() {
			metrics.ObserveBest(rec.Label, rec.Best)
			logger.Info("configuration timed",
				logging.String("config", rec.Label),
				logging.Duration("best", rec.Best),
				logging.Int("trials", len(rec.Trials)))
		} else {
			logger.Warn("configuration failed",
				logging.String("config", rec.Label),
				logging.Err(rec.Err))
		}
		if err := ctx.Err(); err != nil {
			return session, err
		}
	}
	return session, nil
}

func (r *Reporter) runConfig(ctx context.Context, index int, items []harness.WorkItem, cfg harness.ExecutionConfig, plan Plan) (rec Record) {
	rec = Record{Label: cfg.Label(), Config: cfg}
	cctx, cancel := ctx, context.CancelFunc(func() {})
	if plan.Timeout > 0 {
		cctx, cancel = context.WithTimeout(ctx, plan.Timeout)
	}
	defer cancel()

	before := r.memory.Snapshot()
	defer func() { rec.Memory = r.memory.Snapshot().Since(before) }()

	for trial := 0; trial < plan.Trials; trial++ {
		var total time.Duration
		var err error
		for loop := 0; loop < plan.Loops && err == nil; loop++ {
			var elapsed time.Duration
			_, elapsed, err = r.runner.Run(cctx, items, cfg)
			total += elapsed
		}
		if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = apperrors.TimeoutError{Operation: rec.Label, Limit: plan.Timeout}
		}
		r.observer.TrialFinished(index, trial, total, err)
		if err != nil {
			rec.Err = err
			return rec
		}
		rec.Trials = append(rec.Trials, total)
		if trial == 0 || total < rec.Best {
			rec.Best = total
		}
	}
	return rec
}
