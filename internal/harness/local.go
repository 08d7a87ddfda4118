package harness

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	apperrors "github.com/agbru/fermatbench/internal/errors"
	"github.com/agbru/fermatbench/internal/fermat"
)

// execSlots gates computation across thread-pool workers. A nil gate admits
// everyone.
type execSlots struct {
	sem *semaphore.Weighted
}

func newExecSlots(n int) *execSlots {
	if n <= 0 {
		return nil
	}
	return &execSlots{sem: semaphore.NewWeighted(int64(n))}
}

func (s *execSlots) acquire(ctx context.Context) error {
	if s == nil {
		return nil
	}
	return s.sem.Acquire(ctx, 1)
}

func (s *execSlots) release() {
	if s != nil {
		s.sem.Release(1)
	}
}

// runLocal drives one in-process worker sharing f with its peers. Variants
// are pure, so sharing needs no synchronization.
func runLocal(ctx context.Context, id int, f fermat.Factorizer, src source, cfg ExecutionConfig, slots *execSlots, emit func(WorkResult)) error {
	for {
		batch, err := src.next(ctx)
		if err != nil {
			return err
		}
		if batch == nil {
			return nil
		}
		for _, item := range batch {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := slots.acquire(ctx); err != nil {
				return err
			}
			res := factorizeLocal(f, id, item)
			slots.release()

			emit(res)
			if res.Err != nil && cfg.FailurePolicy == FailFast {
				return apperrors.WorkerFailure{ItemID: item.ID, WorkerID: id, Cause: res.Err}
			}
		}
	}
}

// factorizeLocal runs one item, turning a panic into an item error.
func factorizeLocal(f fermat.Factorizer, workerID int, item WorkItem) (res WorkResult) {
	res = WorkResult{ID: item.ID, WorkerID: workerID}
	start := time.Now()
	defer func() {
		res.Duration = time.Since(start)
		if r := recover(); r != nil {
			res.Pair = fermat.FactorPair{}
			res.Err = fmt.Errorf("worker panic: %v", r)
		}
	}()
	pair, err := f.Factorize(item.N)
	if err != nil {
		res.Err = err
		return res
	}
	res.Pair = pair
	return res
}
