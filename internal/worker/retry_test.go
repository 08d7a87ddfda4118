package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/fermatbench/internal/errors"
	"github.com/agbru/fermatbench/internal/fermat"
)

func flakySpawner(failures int, cause error) (Spawner, *int) {
	calls := 0
	pipe := PipeSpawner{Registry: fermat.NewDefaultRegistry()}
	return SpawnerFunc(func(ctx context.Context, id int) (Conn, error) {
		calls++
		if calls <= failures {
			return nil, cause
		}
		return pipe.Spawn(ctx, id)
	}), &calls
}

func TestSpawnWithRetry_RecoversFromTransientFailure(t *testing.T) {
	t.Parallel()
	s, calls := flakySpawner(2, errors.New("fork: resource temporarily unavailable"))
	policy := RetryPolicy{Attempts: 3, BaseDelay: time.Millisecond}

	conn, err := SpawnWithRetry(context.Background(), s, 0, policy, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, 3, *calls)
}

func TestSpawnWithRetry_Exhaustion(t *testing.T) {
	t.Parallel()
	cause := errors.New("too many open files")
	s, calls := flakySpawner(10, cause)
	policy := RetryPolicy{Attempts: 3, BaseDelay: time.Millisecond}

	_, err := SpawnWithRetry(context.Background(), s, 4, policy, nil)
	var exhausted apperrors.ResourceExhaustionError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.Equal(t, "spawn worker 4", exhausted.Operation)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 3, *calls)
}

func TestSpawnWithRetry_StopsOnCancel(t *testing.T) {
	t.Parallel()
	s, calls := flakySpawner(10, errors.New("transient"))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := SpawnWithRetry(ctx, s, 0, RetryPolicy{Attempts: 5, BaseDelay: time.Hour}, nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, *calls)
}

func TestRetryPolicy_BackOffSchedule(t *testing.T) {
	t.Parallel()
	p := RetryPolicy{Attempts: 5, BaseDelay: 10 * time.Millisecond, MaxDelay: 30 * time.Millisecond}
	b := p.backOff(context.Background())
	assert.Equal(t, 10*time.Millisecond, b.NextBackOff())
	assert.Equal(t, 20*time.Millisecond, b.NextBackOff())
	assert.Equal(t, 30*time.Millisecond, b.NextBackOff())
	assert.Equal(t, 30*time.Millisecond, b.NextBackOff())
	assert.Equal(t, backoff.Stop, b.NextBackOff(), "Attempts-1 retries at most")
	assert.Equal(t, DefaultRetryPolicy.Attempts, 3)
}

func TestSpawnWithRetry_SingleAttempt(t *testing.T) {
	t.Parallel()
	s, calls := flakySpawner(1, errors.New("transient"))

	_, err := SpawnWithRetry(context.Background(), s, 1, RetryPolicy{Attempts: 1, BaseDelay: time.Millisecond}, nil)
	var exhausted apperrors.ResourceExhaustionError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 1, exhausted.Attempts)
	assert.Equal(t, 1, *calls)
}
