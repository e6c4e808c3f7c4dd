package views

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLazy_LoadOnce(t *testing.T) {
	var calls atomic.Int32
	l := NewLazy("answer", func(ctx context.Context) (*int, error) {
		calls.Add(1)
		v := 42
		return &v, nil
	})

	assert.Equal(t, Unrequested, l.State())
	assert.Equal(t, 0, l.Loads())

	first, err := l.Get(context.Background())
	require.NoError(t, err)
	second, err := l.Get(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, Ready, l.State())
	assert.Equal(t, 1, l.Loads())
}

// TestLazy_ConcurrentFirstRequests checks single-flight under concurrent
// first requests
func TestLazy_ConcurrentFirstRequests(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	l := NewLazy("slow", func(ctx context.Context) (*string, error) {
		calls.Add(1)
		<-release
		v := "loaded"
		return &v, nil
	})

	const requesters = 16
	results := make([]*string, requesters)
	var started, done sync.WaitGroup
	for i := 0; i < requesters; i++ {
		started.Add(1)
		done.Add(1)
		go func(i int) {
			defer done.Done()
			started.Done()
			v, err := l.Get(context.Background())
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	started.Wait()

	require.Eventually(t, func() bool { return l.State() == Loading }, time.Second, time.Millisecond)
	close(release)
	done.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestLazy_FailureIsTerminal(t *testing.T) {
	var calls atomic.Int32
	boom := errors.New("artifact missing")
	l := NewLazy("broken", func(ctx context.Context) (int, error) {
		calls.Add(1)
		return 0, boom
	})

	_, err := l.Get(context.Background())
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "broken", loadErr.Name)
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, Failed, l.State())

	_, err2 := l.Get(context.Background())
	assert.Same(t, loadErr, err2)
	assert.Equal(t, int32(1), calls.Load())
}

func TestLazy_PanicBecomesFailure(t *testing.T) {
	l := NewLazy("panics", func(ctx context.Context) (int, error) {
		panic("bad module")
	})

	_, err := l.Get(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad module")
	assert.Equal(t, Failed, l.State())
}

// TestLazy_RequesterCancelled checks that a requester giving up does not
// cancel the shared load
func TestLazy_RequesterCancelled(t *testing.T) {
	release := make(chan struct{})
	l := NewLazy("slow", func(ctx context.Context) (string, error) {
		<-release
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "done", nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := l.Get(ctx)
		errc <- err
	}()

	require.Eventually(t, func() bool { return l.State() == Loading }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)

	close(release)
	v, err := l.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "done", v)
	assert.Equal(t, 1, l.Loads())
}

func TestThen(t *testing.T) {
	base := func(ctx context.Context) (map[string]string, error) {
		return map[string]string{"Dashboard": "d", "default": "d"}, nil
	}
	pick := Then(base, func(m map[string]string) (string, error) {
		return m["Dashboard"], nil
	})

	v, err := pick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "d", v)

	failing := Then(func(ctx context.Context) (int, error) { return 0, errors.New("nope") },
		func(int) (string, error) {
			t.Fatal("transform must not run after a failed load")
			return "", nil
		})
	_, err = failing(context.Background())
	assert.EqualError(t, err, "nope")
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "unrequested", Unrequested.String())
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "ready", Ready.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "State(9)", State(9).String())
}
