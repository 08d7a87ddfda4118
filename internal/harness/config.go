package harness

import (
	"fmt"
	"math/big"
	"time"

	apperrors "github.com/agbru/fermatbench/internal/errors"
	"github.com/agbru/fermatbench/internal/fermat"
	"github.com/agbru/fermatbench/internal/parallel"
)

// Model is a scheduling model.
type Model string

const (
	// Sequential runs every item on one worker in input order.
	Sequential Model = "sequential"
	// ThreadPool runs goroutine workers sharing the variant instance.
	ThreadPool Model = "thread-pool"
	// ProcessPool runs isolated workers that exchange plain values with the
	// dispatcher.
	ProcessPool Model = "process-pool"
)

// Models lists the supported models in display order.
var Models = []Model{Sequential, ThreadPool, ProcessPool}

// Partition selects how items reach pool workers.
type Partition string

const (
	// Dynamic lets each worker pull the next item from a shared queue.
	Dynamic Partition = "dynamic"
	// Static splits the batch into one contiguous chunk per worker up front.
	Static Partition = "static"
)

// FailurePolicy decides what a failing item does to the rest of the batch.
type FailurePolicy string

const (
	// FailFast aborts the run on the first failing item with a
	// apperrors.WorkerFailure.
	FailFast FailurePolicy = "fail-fast"
	// Isolate keeps going: every item yields a WorkResult and Run returns
	// a *apperrors.BatchError alongside the complete result set.
	Isolate FailurePolicy = "isolate"
)

// ExecutionConfig describes one harness run. It is a value: callers copy
// it, the harness never mutates it.
type ExecutionConfig struct {
	Model         Model
	Workers       int
	Variant       string
	Partition     Partition
	Chunking      parallel.ChunkPolicy
	FailurePolicy FailurePolicy
	// ExecSlots caps how many thread-pool workers may compute at once.
	// 1 serializes computation across workers; 0 leaves it unrestricted.
	ExecSlots int
}

// Normalize fills in the defaults: one worker for Sequential, dynamic
// partitioning for ThreadPool, static for ProcessPool, balanced chunks and
// fail-fast.
func (c ExecutionConfig) Normalize() ExecutionConfig {
	if c.Model == Sequential {
		c.Workers = 1
		c.Partition = ""
		c.ExecSlots = 0
	}
	if c.Partition == "" {
		switch c.Model {
		case ThreadPool:
			c.Partition = Dynamic
		case ProcessPool:
			c.Partition = Static
		}
	}
	if c.Chunking == "" {
		c.Chunking = parallel.ChunkBalanced
	}
	if c.FailurePolicy == "" {
		c.FailurePolicy = FailFast
	}
	if c.Variant == "" {
		c.Variant = fermat.VariantReference
	}
	return c
}

// Validate checks a normalized configuration.
func (c ExecutionConfig) Validate() error {
	switch c.Model {
	case Sequential, ThreadPool, ProcessPool:
	default:
		return apperrors.NewConfigError("unknown execution model %q", c.Model)
	}
	if c.Workers <= 0 {
		return apperrors.NewConfigError("worker count must be > 0, got %d", c.Workers)
	}
	if c.Model != Sequential && c.Partition != Dynamic && c.Partition != Static {
		return apperrors.NewConfigError("unknown partitioning %q", c.Partition)
	}
	if _, err := parallel.ParseChunkPolicy(string(c.Chunking)); err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	if c.FailurePolicy != FailFast && c.FailurePolicy != Isolate {
		return apperrors.NewConfigError("unknown failure policy %q", c.FailurePolicy)
	}
	if c.ExecSlots < 0 {
		return apperrors.NewConfigError("exec slots must be >= 0, got %d", c.ExecSlots)
	}
	return nil
}

// Label names the configuration in reports, e.g.
// "process-pool[4,static]/optimized".
func (c ExecutionConfig) Label() string {
	if c.Model == Sequential {
		return fmt.Sprintf("%s/%s", c.Model, c.Variant)
	}
	return fmt.Sprintf("%s[%d,%s]/%s", c.Model, c.Workers, c.Partition, c.Variant)
}

// WorkItem is a number tagged with its position in the batch.
type WorkItem struct {
	ID int
	N  *big.Int
}

// WorkResult is the outcome of one WorkItem. Err is only set under the
// Isolate policy; Pair is zero in that case.
type WorkResult struct {
	ID       int
	Pair     fermat.FactorPair
	WorkerID int
	Duration time.Duration
	Err      error
}

// NewWorkItems tags numbers with their index.
func NewWorkItems(nums []*big.Int) []WorkItem {
	items := make([]WorkItem, len(nums))
	for i, n := range nums {
		items[i] = WorkItem{ID: i, N: n}
	}
	return items
}

// SortByID orders results by item identifier, restoring input order.
func SortByID(results []WorkResult) {
	sortResults(results)
}
