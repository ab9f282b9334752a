package app

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/hudo-ng/ShoppingList/internal/auth"
	engine "github.com/hudo-ng/ShoppingList/internal/countdown"
	"github.com/hudo-ng/ShoppingList/internal/keys"
	shopping "github.com/hudo-ng/ShoppingList/internal/list"
	"github.com/hudo-ng/ShoppingList/internal/model"
	"github.com/hudo-ng/ShoppingList/internal/notify"
	"github.com/hudo-ng/ShoppingList/internal/store"
	"github.com/hudo-ng/ShoppingList/internal/theme"
	"github.com/hudo-ng/ShoppingList/internal/ui"
	countdownview "github.com/hudo-ng/ShoppingList/internal/ui/countdown"
	historyview "github.com/hudo-ng/ShoppingList/internal/ui/history"
	profileview "github.com/hudo-ng/ShoppingList/internal/ui/profile"
	"github.com/hudo-ng/ShoppingList/internal/ui/shoplist"
)

// Screen identifies one of the top-level tabs.
type Screen int

const (
	ScreenShopList Screen = iota
	ScreenCountdown
	ScreenHistory
	ScreenProfile
)

// screenTitles are the tab labels, indexed by Screen.
var screenTitles = []string{"Shopping List", "Countdown", "History", "Profile"}

// Model is the root Bubble Tea model that manages screen routing, layout,
// and the fired-notification subscription.
type Model struct {
	currentScreen Screen
	layout        ui.Layout
	keys          *keys.KeyMap
	scheduler     *notify.LocalScheduler

	shopList  shoplist.Model
	countdown countdownview.Model
	history   historyview.Model
	profile   profileview.Model

	toast string
	ready bool
}

// New creates the root application model with its collaborators wired.
func New(
	s *store.SQLiteStore,
	scheduler *notify.LocalScheduler,
	authn *auth.Authenticator,
	cfg *model.AppConfig,
	log zerolog.Logger,
) Model {
	k := keys.DefaultKeyMap()

	feedback := notify.NewTerminalFeedback(os.Stdout)
	svc := shopping.NewService(s, feedback, shopping.Policy{})
	machine := engine.NewMachine(s, scheduler, cfg.Task, log)
	session := authn.Restore()

	return Model{
		currentScreen: ScreenShopList,
		keys:          k,
		scheduler:     scheduler,
		shopList:      shoplist.New(svc, k, 80, 24),
		countdown:     countdownview.New(machine, cfg.Task, k, 80, 24),
		history:       historyview.New(machine, k, 80, 24),
		profile:       profileview.New(authn, session, k, 80, 24),
	}
}

// Init loads every screen's initial data and starts listening for fired
// notifications.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.shopList.Init(),
		m.countdown.Init(),
		m.profile.Init(),
		m.scheduler.WaitForFired(),
	)
}

// Update handles messages and dispatches to the active screen.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.shopList.SetSize(contentWidth, contentHeight)
		m.countdown.SetSize(contentWidth, contentHeight)
		m.history.SetSize(contentWidth, contentHeight)
		m.profile.SetSize(contentWidth, contentHeight)
		// Forward to the active screen so huh forms can lay out.
		return m.updateActiveScreen(msg)

	case notify.FiredMsg:
		m.toast = fmt.Sprintf("%s %s", msg.Notification.Content.Title, msg.Notification.Content.Body)
		return m, m.scheduler.WaitForFired()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			// Text inputs and forms on the active screen own their keys.
			if m.screenCapturesInput() {
				break
			}
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextScreen):
			if m.screenCapturesInput() {
				break
			}
			m.toast = ""
			m.currentScreen = (m.currentScreen + 1) % Screen(len(screenTitles))
			return m, nil

		case key.Matches(msg, m.keys.PrevScreen):
			if m.screenCapturesInput() {
				break
			}
			m.toast = ""
			m.currentScreen = (m.currentScreen + Screen(len(screenTitles)) - 1) % Screen(len(screenTitles))
			return m, nil
		}
	}

	return m.updateActiveScreen(msg)
}

// screenCapturesInput reports whether the active screen is in a mode
// where plain letter keys belong to a text field or form.
func (m Model) screenCapturesInput() bool {
	switch m.currentScreen {
	case ScreenShopList:
		return m.shopList.CapturesInput()
	case ScreenCountdown:
		return m.countdown.FormActive()
	case ScreenProfile:
		return m.profile.FormActive()
	}
	return false
}

// updateActiveScreen routes a message to the current screen only.
func (m Model) updateActiveScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScreen {
	case ScreenShopList:
		m.shopList, cmd = m.shopList.Update(msg)
	case ScreenCountdown:
		m.countdown, cmd = m.countdown.Update(msg)
	case ScreenHistory:
		m.history, cmd = m.history.Update(msg)
	case ScreenProfile:
		m.profile, cmd = m.profile.Update(msg)
	}

	// The countdown tick keeps running even while another tab is shown so
	// the machine state stays fresh when the user switches back.
	if _, isTick := msg.(countdownview.TickMsg); isTick && m.currentScreen != ScreenCountdown {
		m.countdown, cmd = m.countdown.Update(msg)
	}

	return m, cmd
}

// View renders the tab bar, the active screen, and the status bar.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	tabBar := m.layout.RenderTabBar(screenTitles, int(m.currentScreen))

	hints := "tab switch screen · q quit"
	if m.toast != "" {
		hints = theme.SuccessStyle.Render(m.toast)
	}
	statusBar := m.layout.RenderStatusBar(hints)

	var content string
	switch m.currentScreen {
	case ScreenShopList:
		content = m.shopList.View()
	case ScreenCountdown:
		content = m.countdown.View()
	case ScreenHistory:
		content = m.history.View()
	case ScreenProfile:
		content = m.profile.View()
	}

	return m.layout.RenderWithFrame(tabBar, content, statusBar)
}
