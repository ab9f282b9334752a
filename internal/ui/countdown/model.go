package countdown

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	engine "github.com/hudo-ng/ShoppingList/internal/countdown"
	"github.com/hudo-ng/ShoppingList/internal/keys"
	"github.com/hudo-ng/ShoppingList/internal/model"
	"github.com/hudo-ng/ShoppingList/internal/theme"
)

// fireTimeLayout is the absolute fire time format of the reminder form.
const fireTimeLayout = "2006-01-02 15:04"

// TickMsg drives the once-per-second countdown refresh.
type TickMsg time.Time

// LoadedMsg is sent when the persisted countdown record has been read.
type LoadedMsg struct {
	Err error
}

// CompletionMsg is sent after a completion attempt.
type CompletionMsg struct {
	Err error
}

// ReminderSetMsg is sent after a set-reminder attempt.
type ReminderSetMsg struct {
	Err error
}

// reminderBindings holds reminder form values on the heap so huh's
// Value() pointers stay valid across Bubble Tea model copies.
type reminderBindings struct {
	taskName string
	fireTime string
}

// Model is the countdown screen component.
type Model struct {
	machine *engine.Machine
	profile model.TaskProfile
	keys    *keys.KeyMap

	spinner   spinner.Model
	form      *huh.Form
	fb        *reminderBindings
	statusMsg string
	statusErr bool
	width     int
	height    int
}

// New creates a new countdown model.
func New(m *engine.Machine, profile model.TaskProfile, k *keys.KeyMap, width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorBlue)

	return Model{
		machine: m,
		profile: profile,
		keys:    k,
		spinner: sp,
		fb:      &reminderBindings{},
		width:   width,
		height:  height,
	}
}

// FormActive reports whether the reminder form currently owns key input.
func (m Model) FormActive() bool {
	return m.form != nil
}

// Init loads the persisted record and starts the spinner and tick loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.spinner.Tick, tick())
}

// tick schedules the next once-per-second refresh.
func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Update handles messages for the countdown screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		// The status is re-derived in View; the tick only forces a render
		// and schedules the next one.
		return m, tick()

	case LoadedMsg:
		if msg.Err != nil {
			m.statusMsg = msg.Err.Error()
			m.statusErr = true
		}
		return m, nil

	case CompletionMsg:
		switch {
		case msg.Err == nil:
			m.statusMsg = "Completion recorded."
			m.statusErr = false
		case errors.Is(msg.Err, engine.ErrPermissionDenied):
			m.statusMsg = "Completion recorded, but notifications are disabled."
			m.statusErr = true
		default:
			m.statusMsg = msg.Err.Error()
			m.statusErr = true
		}
		return m, nil

	case ReminderSetMsg:
		if msg.Err != nil {
			m.statusMsg = msg.Err.Error()
			m.statusErr = true
		} else {
			m.statusMsg = "Reminder scheduled."
			m.statusErr = false
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.form != nil {
			return m.updateForm(msg)
		}
		return m.handleKeys(msg)
	}

	if m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

// handleKeys processes key input outside the reminder form.
func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Done):
		m.statusMsg = ""
		return m, m.complete()

	case key.Matches(msg, m.keys.Reminder):
		if !m.profile.ReminderPicker {
			return m, nil
		}
		m.fb.taskName = m.machine.TaskName()
		m.fb.fireTime = time.Now().Add(time.Hour).Format(fireTimeLayout)
		m.form = m.buildReminderForm()
		m.statusMsg = ""
		return m, m.form.Init()
	}
	return m, nil
}

// updateForm routes messages into the active reminder form.
func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		name := m.fb.taskName
		fireAt, err := time.ParseInLocation(fireTimeLayout, strings.TrimSpace(m.fb.fireTime), time.Local)
		m.form = nil
		if err != nil {
			m.statusMsg = "invalid fire time"
			m.statusErr = true
			return m, nil
		}
		return m, m.setReminder(name, fireAt)
	}
	if m.form.State == huh.StateAborted {
		m.form = nil
		return m, nil
	}

	return m, cmd
}

func (m *Model) buildReminderForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Task name").
				Placeholder("What should the reminder say?").
				Value(&m.fb.taskName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("task name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Remind at").
				Placeholder(fireTimeLayout).
				Value(&m.fb.fireTime).
				Validate(func(s string) error {
					_, err := time.ParseInLocation(fireTimeLayout, strings.TrimSpace(s), time.Local)
					if err != nil {
						return fmt.Errorf("use the format %s", fireTimeLayout)
					}
					return nil
				}),
		),
	).WithWidth(m.formWidth())
}

// View renders the countdown screen.
func (m Model) View() string {
	if m.form != nil {
		title := lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorWhite).
			MarginBottom(1).
			Render("Set Reminder")
		return lipgloss.NewStyle().Padding(1, 2).Render(title + "\n" + m.form.View())
	}

	if m.machine.Loading() {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(m.spinner.View() + " Loading...")
	}

	st := m.machine.Status(time.Now())

	heading := fmt.Sprintf("%s due in...", m.machine.TaskName())
	if st.IsOverdue {
		heading = fmt.Sprintf("%s overdue by...", m.machine.TaskName())
	}

	panel := theme.CountdownPanelStyle
	if st.IsOverdue {
		panel = theme.OverduePanelStyle
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().Bold(true).MarginBottom(1).Render(heading),
		renderDistance(st.Distance),
		"",
		theme.HelpStyle.Render(m.hint()),
	)

	body := panel.Render(content)
	if m.statusMsg != "" {
		style := theme.SuccessStyle
		if m.statusErr {
			style = theme.ErrorStyle
		}
		body = lipgloss.JoinVertical(lipgloss.Center, body, style.Render(m.statusMsg))
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(body)
}

func (m Model) hint() string {
	if m.profile.ReminderPicker {
		return "d mark done · r set reminder"
	}
	return "d mark done"
}

// renderDistance draws the time breakdown as number/label segment pairs.
// Years and months only appear when non-zero.
func renderDistance(d engine.Distance) string {
	type segment struct {
		value int
		label string
	}

	segments := []segment{}
	if d.Years > 0 {
		segments = append(segments, segment{d.Years, "Years"})
	}
	if d.Months > 0 || d.Years > 0 {
		segments = append(segments, segment{d.Months, "Months"})
	}
	segments = append(segments,
		segment{d.Days, "Days"},
		segment{d.Hours, "Hours"},
		segment{d.Minutes, "Minutes"},
		segment{d.Seconds, "Seconds"},
	)

	cols := make([]string, len(segments))
	for i, s := range segments {
		cols[i] = lipgloss.JoinVertical(lipgloss.Center,
			theme.SegmentNumberStyle.Render(fmt.Sprintf("%d", s.value)),
			theme.SegmentLabelStyle.Render(s.label),
		)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, joinWithGap(cols)...)
}

// joinWithGap interleaves a two-space gap between rendered columns.
func joinWithGap(cols []string) []string {
	out := make([]string, 0, len(cols)*2)
	for i, c := range cols {
		if i > 0 {
			out = append(out, "  ")
		}
		out = append(out, c)
	}
	return out
}

func (m Model) load() tea.Cmd {
	machine := m.machine
	return func() tea.Msg {
		return LoadedMsg{Err: machine.Load(context.Background())}
	}
}

func (m Model) complete() tea.Cmd {
	machine := m.machine
	return func() tea.Msg {
		return CompletionMsg{Err: machine.HandleCompletion(context.Background(), "")}
	}
}

func (m Model) setReminder(taskName string, fireAt time.Time) tea.Cmd {
	machine := m.machine
	return func() tea.Msg {
		return ReminderSetMsg{Err: machine.HandleSetReminder(context.Background(), taskName, fireAt)}
	}
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
