package harness

import (
	"context"
	"errors"

	"github.com/agbru/fermatbench/internal/parallel"
)

// source hands batches of items to one worker. next returns nil once the
// worker has nothing left to do.
type source interface {
	next(ctx context.Context) ([]WorkItem, error)
}

// chunkSource yields its whole chunk once.
type chunkSource struct {
	items []WorkItem
	taken bool
}

func (s *chunkSource) next(context.Context) ([]WorkItem, error) {
	if s.taken {
		return nil, nil
	}
	s.taken = true
	return s.items, nil
}

// queueSource yields one item at a time from a queue shared by all workers.
type queueSource struct {
	q *parallel.Queue[WorkItem]
}

func (s queueSource) next(ctx context.Context) ([]WorkItem, error) {
	item, err := s.q.Pop(ctx)
	if errors.Is(err, parallel.ErrQueueDrained) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []WorkItem{item}, nil
}
