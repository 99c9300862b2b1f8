package async_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/notify/pkg/async"
)

func TestGo(t *testing.T) {
	t.Run("returns result", func(t *testing.T) {
		f := async.Go(context.Background(), 21, func(ctx context.Context, n int) (int, error) {
			return n * 2, nil
		})

		got, err := f.Await()
		require.NoError(t, err)
		assert.Equal(t, 42, got)
	})

	t.Run("propagates error", func(t *testing.T) {
		wantErr := errors.New("send failed")
		f := async.Go(context.Background(), "x", func(ctx context.Context, s string) (string, error) {
			return "", wantErr
		})

		_, err := f.Await()
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("pre-cancelled context short-circuits", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		called := false
		f := async.Go(ctx, 0, func(ctx context.Context, n int) (int, error) {
			called = true
			return n, nil
		})

		_, err := f.Await()
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})
}

func TestAwaitWithTimeout(t *testing.T) {
	f := async.Go(context.Background(), 0, func(ctx context.Context, n int) (int, error) {
		time.Sleep(200 * time.Millisecond)
		return n, nil
	})

	_, err := f.AwaitWithTimeout(10 * time.Millisecond)
	assert.ErrorIs(t, err, async.ErrTimeout)

	// The future still completes after the timeout.
	_, err = f.Await()
	assert.NoError(t, err)
}

func TestWaitAll(t *testing.T) {
	t.Run("collects results in order", func(t *testing.T) {
		double := func(ctx context.Context, n int) (int, error) { return n * 2, nil }

		f1 := async.Go(context.Background(), 1, double)
		f2 := async.Go(context.Background(), 2, double)
		f3 := async.Go(context.Background(), 3, double)

		results, err := async.WaitAll(f1, f2, f3)
		require.NoError(t, err)
		assert.Equal(t, []int{2, 4, 6}, results)
	})

	t.Run("one failure does not discard sibling results", func(t *testing.T) {
		wantErr := errors.New("sms gateway down")

		ok := async.Go(context.Background(), "a", func(ctx context.Context, s string) (string, error) {
			return s, nil
		})
		bad := async.Go(context.Background(), "b", func(ctx context.Context, s string) (string, error) {
			return "", wantErr
		})

		results, err := async.WaitAll(ok, bad)
		assert.ErrorIs(t, err, wantErr)
		assert.Equal(t, "a", results[0])
	})
}
