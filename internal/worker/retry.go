package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	apperrors "github.com/agbru/fermatbench/internal/errors"
	"github.com/agbru/fermatbench/internal/logging"
	"github.com/agbru/fermatbench/internal/metrics"
)

// RetryPolicy bounds the attempts made to start a worker. Only spawn
// failures are retried; item failures never are.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// DefaultRetryPolicy makes three attempts with exponential backoff from 10ms.
var DefaultRetryPolicy = RetryPolicy{Attempts: 3, BaseDelay: 10 * time.Millisecond, MaxDelay: time.Second}

// backOff builds the schedule between attempts: doubling from BaseDelay,
// capped at MaxDelay, without jitter, stopping after Attempts-1 retries or
// when ctx is done.
func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.BaseDelay
	exp.RandomizationFactor = 0
	exp.Multiplier = 2
	exp.MaxElapsedTime = 0
	if p.MaxDelay > 0 {
		exp.MaxInterval = p.MaxDelay
	}
	exp.Reset()
	return backoff.WithMaxRetries(backoff.WithContext(exp, ctx), uint64(p.Attempts-1))
}

// SpawnWithRetry starts worker id, retrying transient failures. When every
// attempt fails it returns apperrors.ResourceExhaustionError wrapping the
// last cause.
func SpawnWithRetry(ctx context.Context, s Spawner, id int, policy RetryPolicy, logger logging.Logger) (Conn, error) {
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	var conn Conn
	attempt := 0
	spawn := func() error {
		attempt++
		c, err := s.Spawn(ctx, id)
		if err == nil {
			conn = c
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return backoff.Permanent(ctxErr)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		metrics.ObserveSpawn(metrics.SpawnRetry)
		logger.Warn("worker spawn failed, retrying",
			logging.Int("worker", id),
			logging.Int("attempt", attempt),
			logging.Duration("backoff", wait),
			logging.Err(err))
	}

	err := backoff.RetryNotify(spawn, policy.backOff(ctx), notify)
	if err == nil {
		metrics.ObserveSpawn(metrics.SpawnOK)
		return conn, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	metrics.ObserveSpawn(metrics.SpawnExhausted)
	return nil, apperrors.ResourceExhaustionError{
		Operation: fmt.Sprintf("spawn worker %d", id),
		Attempts:  attempt,
		Cause:     err,
	}
}
