package clock

import (
	"sync"
	"time"
)

// Ticker invokes a callback on a fixed cadence from a single goroutine.
// The callback runs inline on that goroutine, so invocations never
// overlap: a tick that arrives while the previous callback is still
// running is coalesced away by the underlying time.Ticker. Stop blocks
// until the goroutine has exited, after which no further invocations
// occur.
type Ticker struct {
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// Start begins firing fn every interval until Stop is called.
func Start(interval time.Duration, fn func(now time.Time)) *Ticker {
	t := &Ticker{
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	go t.run(interval, fn)
	return t
}

func (t *Ticker) run(interval time.Duration, fn func(time.Time)) {
	defer close(t.doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stopCh:
			return
		case now := <-ticker.C:
			fn(now)
		}
	}
}

// Stop halts the ticker and waits for any in-flight callback to return.
// Safe to call more than once.
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() { close(t.stopCh) })
	<-t.doneCh
}
