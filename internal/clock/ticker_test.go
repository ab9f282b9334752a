package clock

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTicker(t *testing.T) {
	t.Run("fires repeatedly", func(t *testing.T) {
		var count atomic.Int64
		fired := make(chan struct{}, 16)

		tk := Start(5*time.Millisecond, func(time.Time) {
			count.Add(1)
			select {
			case fired <- struct{}{}:
			default:
			}
		})
		defer tk.Stop()

		for i := 0; i < 3; i++ {
			select {
			case <-fired:
			case <-time.After(time.Second):
				t.Fatal("timed out waiting for tick")
			}
		}
		if count.Load() < 3 {
			t.Errorf("got %d ticks, want at least 3", count.Load())
		}
	})

	t.Run("stop prevents further fires", func(t *testing.T) {
		var count atomic.Int64
		tk := Start(5*time.Millisecond, func(time.Time) {
			count.Add(1)
		})

		time.Sleep(20 * time.Millisecond)
		tk.Stop()

		after := count.Load()
		time.Sleep(30 * time.Millisecond)
		if count.Load() != after {
			t.Errorf("ticker fired after Stop: %d -> %d", after, count.Load())
		}
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		tk := Start(time.Millisecond, func(time.Time) {})
		tk.Stop()
		tk.Stop()
	})

	t.Run("stop waits for in-flight callback", func(t *testing.T) {
		started := make(chan struct{})
		var finished atomic.Bool

		tk := Start(time.Millisecond, func(time.Time) {
			select {
			case started <- struct{}{}:
				time.Sleep(20 * time.Millisecond)
				finished.Store(true)
			default:
			}
		})

		<-started
		tk.Stop()
		if !finished.Load() {
			t.Error("Stop returned before the in-flight callback finished")
		}
	})
}
