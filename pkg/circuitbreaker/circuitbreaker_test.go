package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBroker = errors.New("broker unavailable")

func tripAfter(n uint32) func(Counts) bool {
	return func(c Counts) bool { return c.ConsecutiveFailures >= n }
}

func TestClosedState(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{Interval: 10 * time.Second, Timeout: 30 * time.Second})

	for i := 0; i < 10; i++ {
		require.NoError(t, cb.Execute(func() error { return nil }))
	}

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(10), cb.Counts().TotalSuccesses)
}

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{Timeout: 30 * time.Second, ReadyToTrip: tripAfter(3)})

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(func() error { return errBroker }), errBroker)
	}
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpenState)
	assert.False(t, called, "打开状态不应调用下游")
}

func TestDefaultReadyToTrip(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{Timeout: time.Minute})

	for i := 0; i < 4; i++ {
		_ = cb.Execute(func() error { return errBroker })
	}
	assert.Equal(t, StateClosed, cb.State())

	_ = cb.Execute(func() error { return errBroker })
	assert.Equal(t, StateOpen, cb.State())
}

func TestHalfOpenRecovers(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{Timeout: 50 * time.Millisecond, ReadyToTrip: tripAfter(1)})

	_ = cb.Execute(func() error { return errBroker })
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())
}

func TestHalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{Timeout: 50 * time.Millisecond, ReadyToTrip: tripAfter(1)})

	_ = cb.Execute(func() error { return errBroker })
	time.Sleep(80 * time.Millisecond)

	_ = cb.Execute(func() error { return errBroker })
	assert.Equal(t, StateOpen, cb.State())
}

func TestHalfOpenLimitsProbes(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{MaxRequests: 1, Timeout: 20 * time.Millisecond, ReadyToTrip: tripAfter(1)})

	_ = cb.Execute(func() error { return errBroker })
	time.Sleep(40 * time.Millisecond)

	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = cb.Execute(func() error {
			<-release
			return nil
		})
	}()

	// 等待探测请求占用名额
	require.Eventually(t, func() bool { return cb.Counts().Requests == 1 }, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, cb.Execute(func() error { return nil }), ErrOpenState)

	close(release)
	wg.Wait()
	assert.Equal(t, StateClosed, cb.State())
}

func TestStateChangeCallback(t *testing.T) {
	cb := NewCircuitBreaker("events", Config{Timeout: 20 * time.Millisecond, ReadyToTrip: tripAfter(2)})

	var transitions []string
	cb.SetStateChangeCallback(func(name string, from, to State) {
		assert.Equal(t, "events", name)
		transitions = append(transitions, from.String()+"->"+to.String())
	})

	_ = cb.Execute(func() error { return errBroker })
	_ = cb.Execute(func() error { return errBroker })
	time.Sleep(40 * time.Millisecond)
	_ = cb.Execute(func() error { return nil })

	assert.Equal(t, []string{"CLOSED->OPEN", "OPEN->HALF_OPEN", "HALF_OPEN->CLOSED"}, transitions)
}

func TestCancelledContextIsNotAFailure(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{ReadyToTrip: tripAfter(1)})

	ctx, cancel := context.WithCancel(context.Background())
	err := cb.ExecuteContext(ctx, func(ctx context.Context) error {
		cancel()
		return ctx.Err()
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(0), cb.Counts().TotalFailures)

	assert.ErrorIs(t, cb.ExecuteContext(ctx, func(context.Context) error { return nil }), context.Canceled)
}

func TestFailureRate(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{
		ReadyToTrip: func(c Counts) bool { return c.Requests >= 4 && c.FailureRate() >= 0.5 },
	})

	_ = cb.Execute(func() error { return nil })
	_ = cb.Execute(func() error { return errBroker })
	_ = cb.Execute(func() error { return nil })
	assert.Equal(t, StateClosed, cb.State())

	_ = cb.Execute(func() error { return errBroker })
	assert.Equal(t, StateOpen, cb.State())
}

func BenchmarkExecute(b *testing.B) {
	cb := NewCircuitBreaker("bench", Config{})
	for i := 0; i < b.N; i++ {
		_ = cb.Execute(func() error { return nil })
	}
}
