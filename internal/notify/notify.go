package notify

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Content is the user-visible payload of a scheduled notification.
type Content struct {
	Title string
	Body  string
}

// Notification is a fired alert delivered back to the UI.
type Notification struct {
	Handle  string
	Content Content
	FiredAt time.Time
}

// Scheduler is the device-level notification collaborator: it schedules
// an alert to fire at a future time and returns an opaque handle that can
// later be passed back to Cancel. Cancellation is best-effort.
type Scheduler interface {
	RequestPermission(ctx context.Context) (bool, error)
	Schedule(ctx context.Context, content Content, fireAt time.Time) (string, error)
	Cancel(ctx context.Context, handle string) error
}

// Feedback signals the outcome of a user action. It stands in for the
// haptic feedback of the mobile app; implementations are cosmetic and
// never affect correctness.
type Feedback interface {
	// Success fires on a positive action (completing an item or task).
	Success()

	// Impact fires on a neutral action (un-completing, deleting).
	Impact()
}

// TerminalFeedback implements Feedback with the terminal bell.
type TerminalFeedback struct {
	w io.Writer
}

// NewTerminalFeedback creates a Feedback that writes bell characters to w.
func NewTerminalFeedback(w io.Writer) *TerminalFeedback {
	return &TerminalFeedback{w: w}
}

func (f *TerminalFeedback) Success() {
	fmt.Fprint(f.w, "\a")
}

func (f *TerminalFeedback) Impact() {
	fmt.Fprint(f.w, "\a\a")
}

// NopFeedback discards all feedback signals.
type NopFeedback struct{}

func (NopFeedback) Success() {}
func (NopFeedback) Impact()  {}
