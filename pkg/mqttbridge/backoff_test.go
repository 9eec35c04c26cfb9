package mqttbridge

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBackoff(t *testing.T) {
	t.Run("Sequence", func(t *testing.T) {
		b := NewBackoff(BackoffConfig{Initial: time.Second, Max: 8 * time.Second, Jitter: 0})

		expected := []time.Duration{
			1 * time.Second,
			2 * time.Second,
			4 * time.Second,
			8 * time.Second,
			8 * time.Second, // Should stay at max
		}
		for i, exp := range expected {
			if got := b.Next(); got != exp {
				t.Errorf("Attempt %d: delay = %v, want %v", i, got, exp)
			}
		}
		if b.Attempts() != len(expected) {
			t.Errorf("Attempts() = %d, want %d", b.Attempts(), len(expected))
		}
	})

	t.Run("Jitter", func(t *testing.T) {
		b := NewBackoff(BackoffConfig{Initial: time.Second, Jitter: 0.25})
		d := b.Next()
		if d < time.Second || d > 1250*time.Millisecond {
			t.Errorf("delay %v out of expected range [1s, 1.25s]", d)
		}
	})

	t.Run("Reset", func(t *testing.T) {
		b := NewBackoff(BackoffConfig{Jitter: -1})
		for i := 0; i < 5; i++ {
			b.Next()
		}
		b.Reset()
		if b.Attempts() != 0 {
			t.Errorf("Attempts() after reset = %d, want 0", b.Attempts())
		}
		if got := b.Next(); got != InitialBackoff {
			t.Errorf("delay after reset = %v, want %v", got, InitialBackoff)
		}
	})
}

func TestRetry(t *testing.T) {
	fast := BackoffConfig{Initial: time.Millisecond, Max: time.Millisecond, Jitter: -1}

	t.Run("SucceedsAfterFailures", func(t *testing.T) {
		calls := 0
		err := retry(context.Background(), NewBackoff(fast), 5, func() error {
			calls++
			if calls < 3 {
				return errors.New("refused")
			}
			return nil
		})
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if calls != 3 {
			t.Errorf("calls = %d, want 3", calls)
		}
	})

	t.Run("GivesUp", func(t *testing.T) {
		refused := errors.New("refused")
		calls := 0
		err := retry(context.Background(), NewBackoff(fast), 3, func() error {
			calls++
			return refused
		})
		if !errors.Is(err, refused) {
			t.Errorf("err = %v, want %v", err, refused)
		}
		if calls != 3 {
			t.Errorf("calls = %d, want 3", calls)
		}
	})

	t.Run("ContextCancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		slow := BackoffConfig{Initial: time.Hour, Jitter: -1}
		err := retry(ctx, NewBackoff(slow), 3, func() error {
			return errors.New("refused")
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})
}
