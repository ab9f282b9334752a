package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hudo-ng/ShoppingList/internal/clock"
)

// FiredMsg is a tea.Msg delivered when a scheduled notification fires.
type FiredMsg struct {
	Notification Notification
}

// pendingEntry is a scheduled notification waiting to fire.
type pendingEntry struct {
	content Content
	fireAt  time.Time
}

// LocalScheduler keeps scheduled notifications in memory and fires them
// into a result channel while the application runs. Permission is a
// configuration switch rather than a system dialog. Pending entries do
// not survive a restart; the persisted countdown record only keeps the
// handle so a stale entry can be cancelled.
type LocalScheduler struct {
	granted   bool
	firedCh   chan Notification
	ticker    *clock.Ticker
	log       zerolog.Logger
	closeOnce sync.Once

	mu      sync.Mutex
	pending map[string]pendingEntry
}

// NewLocalScheduler creates a scheduler. granted controls the outcome of
// RequestPermission.
func NewLocalScheduler(granted bool, log zerolog.Logger) *LocalScheduler {
	s := &LocalScheduler{
		granted: granted,
		firedCh: make(chan Notification, 16),
		log:     log,
		pending: make(map[string]pendingEntry),
	}
	s.ticker = clock.Start(time.Second, s.fireDue)
	return s
}

// RequestPermission reports whether local notifications are enabled.
func (s *LocalScheduler) RequestPermission(ctx context.Context) (bool, error) {
	return s.granted, nil
}

// Schedule registers a notification to fire at fireAt and returns its
// opaque handle.
func (s *LocalScheduler) Schedule(ctx context.Context, content Content, fireAt time.Time) (string, error) {
	if !s.granted {
		return "", fmt.Errorf("notifications are disabled")
	}

	handle := uuid.NewString()

	s.mu.Lock()
	s.pending[handle] = pendingEntry{content: content, fireAt: fireAt}
	s.mu.Unlock()

	s.log.Debug().
		Str("handle", handle).
		Time("fire_at", fireAt).
		Str("title", content.Title).
		Msg("scheduled notification")

	return handle, nil
}

// Cancel removes a pending notification by handle. Cancelling a handle
// that already fired (or never existed) returns an error; callers treat
// cancellation as best-effort.
func (s *LocalScheduler) Cancel(ctx context.Context, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pending[handle]; !ok {
		return fmt.Errorf("notification %s not pending", handle)
	}
	delete(s.pending, handle)
	return nil
}

// PendingCount returns the number of notifications waiting to fire.
func (s *LocalScheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Stop halts the firing loop and closes the fired channel so waiting
// listeners unblock. Pending entries are discarded. Safe to call more
// than once.
func (s *LocalScheduler) Stop() {
	s.ticker.Stop()
	// The ticker goroutine has exited, so nothing can send anymore.
	s.closeOnce.Do(func() { close(s.firedCh) })
}

// fireDue moves every due entry onto the result channel.
func (s *LocalScheduler) fireDue(now time.Time) {
	s.mu.Lock()
	var due []Notification
	for handle, entry := range s.pending {
		if entry.fireAt.After(now) {
			continue
		}
		due = append(due, Notification{
			Handle:  handle,
			Content: entry.content,
			FiredAt: now,
		})
		delete(s.pending, handle)
	}
	s.mu.Unlock()

	for _, n := range due {
		select {
		case s.firedCh <- n:
		default:
			// Drop if the channel is full to avoid blocking the loop
			s.log.Warn().Str("handle", n.Handle).Msg("dropping fired notification")
		}
	}
}

// WaitForFired returns a tea.Cmd that waits for the next fired
// notification. After receiving a FiredMsg the caller should invoke
// WaitForFired again to keep listening.
func (s *LocalScheduler) WaitForFired() tea.Cmd {
	return func() tea.Msg {
		n, ok := <-s.firedCh
		if !ok {
			return nil
		}
		return FiredMsg{Notification: n}
	}
}
