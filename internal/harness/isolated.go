package harness

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/agbru/fermatbench/internal/errors"
	"github.com/agbru/fermatbench/internal/fermat"
	"github.com/agbru/fermatbench/internal/logging"
	"github.com/agbru/fermatbench/internal/parallel"
	"github.com/agbru/fermatbench/internal/worker"
)

// runIsolated drives one process-pool worker. Items cross the boundary as
// decimal strings; results come back the same way. A static chunk travels
// as a single request, so a worker lost mid-request is blamed on the first
// item of the chunk that has no result.
func (h *Harness) runIsolated(ctx context.Context, id int, src source, cfg ExecutionConfig, emit func(WorkResult), shutdown *parallel.ErrorCollector) error {
	conn, err := worker.SpawnWithRetry(ctx, h.spawner, id, h.retry, h.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			h.logger.Warn("worker shutdown failed", logging.Int("worker", id), logging.Err(err))
			shutdown.SetError(err)
		}
	}()

	failFast := cfg.FailurePolicy == FailFast
	var seq uint64
	for {
		batch, err := src.next(ctx)
		if err != nil {
			return err
		}
		if batch == nil {
			return nil
		}

		seq++
		req := worker.Request{Seq: seq, Variant: cfg.Variant, Items: toWire(batch), StopOnError: failFast}
		resp, err := conn.Do(ctx, req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return apperrors.WorkerFailure{ItemID: firstUnanswered(batch, nil), WorkerID: id, Cause: err}
		}
		if resp.Failure != nil {
			return apperrors.WorkerFailure{ItemID: batch[0].ID, WorkerID: id, Cause: resp.Failure.Err()}
		}

		for _, r := range resp.Results {
			res := fromWire(r, id)
			emit(res)
			if res.Err != nil && failFast {
				return apperrors.WorkerFailure{ItemID: res.ID, WorkerID: id, Cause: res.Err}
			}
		}
		if len(resp.Results) != len(batch) {
			return apperrors.WorkerFailure{
				ItemID:   firstUnanswered(batch, resp.Results),
				WorkerID: id,
				Cause:    fmt.Errorf("worker returned %d result(s) for %d item(s)", len(resp.Results), len(batch)),
			}
		}
	}
}

// firstUnanswered returns the ID of the first item in batch without a
// result, or the first item when every one was answered.
func firstUnanswered(batch []WorkItem, results []worker.Result) int {
	answered := make(map[int]bool, len(results))
	for _, r := range results {
		answered[r.ID] = true
	}
	for _, it := range batch {
		if !answered[it.ID] {
			return it.ID
		}
	}
	return batch[0].ID
}

func toWire(batch []WorkItem) []worker.Item {
	items := make([]worker.Item, len(batch))
	for i, it := range batch {
		n := "<nil>"
		if it.N != nil {
			n = it.N.String()
		}
		items[i] = worker.Item{ID: it.ID, N: n}
	}
	return items
}

func fromWire(r worker.Result, workerID int) WorkResult {
	res := WorkResult{ID: r.ID, WorkerID: workerID, Duration: time.Duration(r.Nanos)}
	if r.Err != nil {
		res.Err = r.Err.Err()
		return res
	}
	p, errP := fermat.ParseNumber(r.P)
	q, errQ := fermat.ParseNumber(r.Q)
	if errP != nil || errQ != nil {
		res.Err = fmt.Errorf("malformed factor pair (%q, %q) from worker %d", r.P, r.Q, workerID)
		return res
	}
	res.Pair = fermat.FactorPair{P: p, Q: q}
	return res
}
