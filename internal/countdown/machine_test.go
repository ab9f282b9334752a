package countdown

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hudo-ng/ShoppingList/internal/model"
	"github.com/hudo-ng/ShoppingList/internal/notify"
	"github.com/hudo-ng/ShoppingList/tests/testutil"
)

// fakeScheduler records scheduling calls and lets tests flip permission.
type fakeScheduler struct {
	granted   bool
	nextID    int
	scheduled []scheduledCall
	cancelled []string
}

type scheduledCall struct {
	content notify.Content
	fireAt  time.Time
	handle  string
}

func (f *fakeScheduler) RequestPermission(ctx context.Context) (bool, error) {
	return f.granted, nil
}

func (f *fakeScheduler) Schedule(ctx context.Context, content notify.Content, fireAt time.Time) (string, error) {
	f.nextID++
	handle := fmt.Sprintf("note-%d", f.nextID)
	f.scheduled = append(f.scheduled, scheduledCall{content: content, fireAt: fireAt, handle: handle})
	return handle, nil
}

func (f *fakeScheduler) Cancel(ctx context.Context, handle string) error {
	f.cancelled = append(f.cancelled, handle)
	return nil
}

var weekly = model.TaskProfile{Name: "Car wash", FrequencyMS: 7 * 24 * 3600 * 1000}

func newMachine(t *testing.T, granted bool) (*Machine, *fakeScheduler) {
	t.Helper()
	sched := &fakeScheduler{granted: granted}
	m := NewMachine(testutil.NewTestStore(t), sched, weekly, zerolog.Nop())
	return m, sched
}

func TestMachineLoading(t *testing.T) {
	ctx := context.Background()

	m, _ := newMachine(t, true)
	if !m.Loading() {
		t.Error("machine should be loading before the record is read")
	}

	if err := m.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !m.Loading() {
		t.Error("machine should stay loading with no completion history")
	}

	if err := m.HandleCompletion(ctx, ""); err != nil {
		t.Fatalf("HandleCompletion: %v", err)
	}
	if m.Loading() {
		t.Error("machine should leave loading after the first completion")
	}
}

func TestHandleCompletion(t *testing.T) {
	ctx := context.Background()

	t.Run("schedules, cancels previous, prepends", func(t *testing.T) {
		m, sched := newMachine(t, true)
		if err := m.Load(ctx); err != nil {
			t.Fatalf("Load: %v", err)
		}

		if err := m.HandleCompletion(ctx, ""); err != nil {
			t.Fatalf("first completion: %v", err)
		}
		if len(sched.scheduled) != 1 {
			t.Fatalf("got %d scheduled, want 1", len(sched.scheduled))
		}
		if len(sched.cancelled) != 0 {
			t.Errorf("first completion cancelled %v", sched.cancelled)
		}

		wantFire := time.Now().Add(m.Frequency())
		gotFire := sched.scheduled[0].fireAt
		if gotFire.Before(wantFire.Add(-time.Minute)) || gotFire.After(wantFire.Add(time.Minute)) {
			t.Errorf("fire time %v not about one frequency from now", gotFire)
		}

		time.Sleep(2 * time.Millisecond)
		if err := m.HandleCompletion(ctx, ""); err != nil {
			t.Fatalf("second completion: %v", err)
		}
		if len(sched.cancelled) != 1 || sched.cancelled[0] != "note-1" {
			t.Errorf("got cancelled %v, want [note-1]", sched.cancelled)
		}

		history := m.History()
		if len(history) != 2 {
			t.Fatalf("got %d history entries, want 2", len(history))
		}
		if history[0] <= history[1] {
			t.Errorf("history not newest-first: %v", history)
		}
	})

	t.Run("denied permission still records the completion", func(t *testing.T) {
		m, sched := newMachine(t, false)
		if err := m.Load(ctx); err != nil {
			t.Fatalf("Load: %v", err)
		}

		err := m.HandleCompletion(ctx, "")
		if !errors.Is(err, ErrPermissionDenied) {
			t.Fatalf("got %v, want ErrPermissionDenied", err)
		}
		if len(sched.scheduled) != 0 {
			t.Errorf("scheduled despite denial: %v", sched.scheduled)
		}
		if len(m.History()) != 1 {
			t.Errorf("completion not recorded: %v", m.History())
		}
	})

	t.Run("persists across reload", func(t *testing.T) {
		sched := &fakeScheduler{granted: true}
		st := testutil.NewTestStore(t)

		m := NewMachine(st, sched, weekly, zerolog.Nop())
		if err := m.Load(ctx); err != nil {
			t.Fatalf("Load: %v", err)
		}
		if err := m.HandleCompletion(ctx, "Water plants"); err != nil {
			t.Fatalf("HandleCompletion: %v", err)
		}

		m2 := NewMachine(st, sched, weekly, zerolog.Nop())
		if err := m2.Load(ctx); err != nil {
			t.Fatalf("Load: %v", err)
		}
		if len(m2.History()) != 1 {
			t.Errorf("got %d history entries after reload, want 1", len(m2.History()))
		}
		if m2.TaskName() != "Water plants" {
			t.Errorf("got task name %q", m2.TaskName())
		}
	})

	t.Run("status moves through the cycle", func(t *testing.T) {
		m, _ := newMachine(t, true)
		if err := m.Load(ctx); err != nil {
			t.Fatalf("Load: %v", err)
		}

		// No history: immediately due.
		st := m.Status(time.Now())
		if st.Distance.Days != 0 || st.Distance.Hours != 0 {
			t.Errorf("fresh machine distance %+v, want near zero", st.Distance)
		}

		if err := m.HandleCompletion(ctx, ""); err != nil {
			t.Fatalf("HandleCompletion: %v", err)
		}

		time.Sleep(2 * time.Millisecond)
		st = m.Status(time.Now())
		if st.IsOverdue {
			t.Error("just-completed task reported overdue")
		}
		if st.Distance.Days != 6 {
			t.Errorf("got %+v, want just under 7 days", st.Distance)
		}

		st = m.Status(time.Now().Add(8 * 24 * time.Hour))
		if !st.IsOverdue {
			t.Error("task not overdue one day past due time")
		}
	})
}

func TestHandleSetReminder(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects empty task name", func(t *testing.T) {
		m, sched := newMachine(t, true)
		if err := m.Load(ctx); err != nil {
			t.Fatalf("Load: %v", err)
		}

		err := m.HandleSetReminder(ctx, "  ", time.Now().Add(time.Hour))
		if !errors.Is(err, ErrEmptyTaskName) {
			t.Fatalf("got %v, want ErrEmptyTaskName", err)
		}
		if len(sched.scheduled) != 0 {
			t.Error("scheduled despite validation failure")
		}
	})

	t.Run("denied permission changes nothing", func(t *testing.T) {
		m, sched := newMachine(t, false)
		if err := m.Load(ctx); err != nil {
			t.Fatalf("Load: %v", err)
		}

		err := m.HandleSetReminder(ctx, "Laundry", time.Now().Add(time.Hour))
		if !errors.Is(err, ErrPermissionDenied) {
			t.Fatalf("got %v, want ErrPermissionDenied", err)
		}
		if len(sched.scheduled) != 0 {
			t.Error("scheduled despite denial")
		}
		if m.TaskName() != "Car wash" {
			t.Errorf("task name changed to %q", m.TaskName())
		}
	})

	t.Run("independent of the completion cycle", func(t *testing.T) {
		m, sched := newMachine(t, true)
		if err := m.Load(ctx); err != nil {
			t.Fatalf("Load: %v", err)
		}

		if err := m.HandleCompletion(ctx, ""); err != nil {
			t.Fatalf("HandleCompletion: %v", err)
		}
		cycleHandle := sched.scheduled[0].handle
		historyBefore := len(m.History())

		fireAt := time.Now().Add(2 * time.Hour)
		if err := m.HandleSetReminder(ctx, "Laundry", fireAt); err != nil {
			t.Fatalf("HandleSetReminder: %v", err)
		}

		// The explicit reminder is a second track: nothing cancelled,
		// history untouched, only the task name updated.
		if len(sched.cancelled) != 0 {
			t.Errorf("set-reminder cancelled %v", sched.cancelled)
		}
		if len(m.History()) != historyBefore {
			t.Errorf("set-reminder touched completion history")
		}
		if len(sched.scheduled) != 2 {
			t.Fatalf("got %d scheduled, want 2", len(sched.scheduled))
		}
		if !sched.scheduled[1].fireAt.Equal(fireAt) {
			t.Errorf("reminder fire time %v, want %v", sched.scheduled[1].fireAt, fireAt)
		}
		if sched.scheduled[1].content.Body != "Laundry" {
			t.Errorf("reminder body %q", sched.scheduled[1].content.Body)
		}
		if m.TaskName() != "Laundry" {
			t.Errorf("task name %q, want Laundry", m.TaskName())
		}

		// The stored cycle handle survives for the next completion.
		if err := m.HandleCompletion(ctx, ""); err != nil {
			t.Fatalf("HandleCompletion: %v", err)
		}
		if len(sched.cancelled) != 1 || sched.cancelled[0] != cycleHandle {
			t.Errorf("got cancelled %v, want [%s]", sched.cancelled, cycleHandle)
		}
	})
}
