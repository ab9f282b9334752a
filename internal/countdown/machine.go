package countdown

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hudo-ng/ShoppingList/internal/model"
	"github.com/hudo-ng/ShoppingList/internal/notify"
	"github.com/hudo-ng/ShoppingList/internal/store"
)

// ErrPermissionDenied reports that the notification permission request
// was refused. The caller surfaces a warning; for completions the event
// is still recorded.
var ErrPermissionDenied = errors.New("notification permission denied")

// ErrEmptyTaskName rejects a set-reminder request without a task name.
var ErrEmptyTaskName = errors.New("task name must not be empty")

// Machine tracks one recurring task's countdown cycle. It owns the
// persisted countdown record: every transition reads the in-memory copy,
// derives the next record, and writes it back wholesale.
type Machine struct {
	store     store.Store
	scheduler notify.Scheduler
	profile   model.TaskProfile
	log       zerolog.Logger

	state  *model.CountdownState
	loaded bool
}

// NewMachine creates a countdown machine for the given task profile.
func NewMachine(s store.Store, sched notify.Scheduler, profile model.TaskProfile, log zerolog.Logger) *Machine {
	return &Machine{
		store:     s,
		scheduler: sched,
		profile:   profile,
		log:       log,
	}
}

// Load reads the persisted countdown record. Absent or malformed state
// leaves the machine empty (first run).
func (m *Machine) Load(ctx context.Context) error {
	state, err := m.store.Countdown(ctx)
	if err != nil {
		return fmt.Errorf("loading countdown state: %w", err)
	}
	m.state = state
	m.loaded = true
	return nil
}

// Loading reports whether the screen should still show the loading
// indicator: either the persisted record has not been read yet, or it
// has and no completion exists. The indicator clears the first time a
// prior completion exists, so a fresh install never flashes "due now".
func (m *Machine) Loading() bool {
	if !m.loaded {
		return true
	}
	if m.state == nil {
		return true
	}
	_, ok := m.state.LastCompleted()
	return !ok
}

// Frequency returns the repeat interval of the tracked task.
func (m *Machine) Frequency() time.Duration {
	return time.Duration(m.profile.FrequencyMS) * time.Millisecond
}

// TaskName returns the persisted task label, falling back to the
// profile's name.
func (m *Machine) TaskName() string {
	if m.state != nil && m.state.TaskName != "" {
		return m.state.TaskName
	}
	return m.profile.Name
}

// History returns the completion timestamps, newest first.
func (m *Machine) History() []int64 {
	if m.state == nil {
		return nil
	}
	return m.state.CompletedAtTimestamps
}

// Status derives the countdown status at now. With no completion history
// the task is immediately due.
func (m *Machine) Status(now time.Time) Status {
	var last *int64
	if m.state != nil {
		if ts, ok := m.state.LastCompleted(); ok {
			last = &ts
		}
	}
	return StatusAt(now, last, m.Frequency())
}

// HandleCompletion records a completion "now": it schedules the next
// cycle's notification (when permission allows), cancels the previous
// one best-effort, prepends the completion timestamp, and persists the
// new record. A non-empty taskName overwrites the stored label.
//
// A permission denial does not abort the completion; the returned error
// is ErrPermissionDenied so the caller can show a warning.
func (m *Machine) HandleCompletion(ctx context.Context, taskName string) error {
	now := model.NowMillis()

	var handle string
	var scheduleErr error

	granted, err := m.scheduler.RequestPermission(ctx)
	switch {
	case err != nil:
		scheduleErr = fmt.Errorf("requesting notification permission: %w", err)
	case !granted:
		scheduleErr = ErrPermissionDenied
	default:
		handle, err = m.scheduler.Schedule(ctx, notify.Content{
			Title: "Great job!",
			Body:  "Your reminder is up!",
		}, time.Now().Add(m.Frequency()))
		if err != nil {
			handle = ""
			scheduleErr = fmt.Errorf("scheduling cycle notification: %w", err)
		}
	}

	// Cancel the previous cycle's notification. Best-effort: a failure
	// here is logged, never surfaced.
	if m.state != nil && m.state.CurrentNotificationID != "" {
		if err := m.scheduler.Cancel(ctx, m.state.CurrentNotificationID); err != nil {
			m.log.Debug().
				Err(err).
				Str("handle", m.state.CurrentNotificationID).
				Msg("cancelling previous notification")
		}
	}

	next := model.CountdownState{
		CurrentNotificationID: handle,
		CompletedAtTimestamps: []int64{now},
	}
	if m.state != nil {
		next.CompletedAtTimestamps = append(next.CompletedAtTimestamps, m.state.CompletedAtTimestamps...)
		next.TaskName = m.state.TaskName
	}
	if name := strings.TrimSpace(taskName); name != "" {
		next.TaskName = name
	}

	m.state = &next
	if err := m.store.SaveCountdown(ctx, next); err != nil {
		return fmt.Errorf("saving countdown state: %w", err)
	}

	return scheduleErr
}

// HandleSetReminder schedules a one-off reminder at an explicit fire
// time and records the task name. It is independent of the completion
// cycle: the pending cycle notification is neither cancelled nor
// replaced, and the completion history is untouched.
func (m *Machine) HandleSetReminder(ctx context.Context, taskName string, fireAt time.Time) error {
	taskName = strings.TrimSpace(taskName)
	if taskName == "" {
		return ErrEmptyTaskName
	}

	granted, err := m.scheduler.RequestPermission(ctx)
	if err != nil {
		return fmt.Errorf("requesting notification permission: %w", err)
	}
	if !granted {
		return ErrPermissionDenied
	}

	if _, err := m.scheduler.Schedule(ctx, notify.Content{
		Title: "Reminder",
		Body:  taskName,
	}, fireAt); err != nil {
		return fmt.Errorf("scheduling reminder: %w", err)
	}

	var next model.CountdownState
	if m.state != nil {
		next = *m.state
	}
	next.TaskName = taskName

	m.state = &next
	if err := m.store.SaveCountdown(ctx, next); err != nil {
		return fmt.Errorf("saving countdown state: %w", err)
	}

	return nil
}
