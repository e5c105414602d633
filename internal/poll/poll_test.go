package poll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUntil(t *testing.T) {
	t.Parallel()

	t.Run("returns immediately on first success", func(t *testing.T) {
		t.Parallel()
		calls := 0
		err := Until(context.Background(), time.Hour, 5, func(int) (bool, error) {
			calls++
			return true, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("succeeds after retries", func(t *testing.T) {
		t.Parallel()
		calls := 0
		err := Until(context.Background(), time.Millisecond, 5, func(int) (bool, error) {
			calls++
			return calls == 3, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("runs exactly the configured number of attempts", func(t *testing.T) {
		t.Parallel()
		calls := 0
		err := Until(context.Background(), time.Millisecond, 4, func(int) (bool, error) {
			calls++
			return false, nil
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrAttemptsExhausted)
		assert.Equal(t, 4, calls)
	})

	t.Run("passes the attempt number", func(t *testing.T) {
		t.Parallel()
		var seen []int
		_ = Until(context.Background(), time.Millisecond, 3, func(attempt int) (bool, error) {
			seen = append(seen, attempt)
			return false, nil
		})
		assert.Equal(t, []int{1, 2, 3}, seen)
	})

	t.Run("condition error stops the loop", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		calls := 0
		err := Until(context.Background(), time.Millisecond, 5, func(int) (bool, error) {
			calls++
			return false, boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})

	t.Run("honors context cancellation during sleep", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		go func() {
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()
		err := Until(ctx, time.Hour, 5, func(int) (bool, error) {
			calls++
			return false, nil
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})

	t.Run("rejects non-positive attempts", func(t *testing.T) {
		t.Parallel()
		err := Until(context.Background(), time.Millisecond, 0, func(int) (bool, error) {
			return true, nil
		})
		assert.Error(t, err)
	})
}
