package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen represents the current screen being displayed
type Screen int

const (
	ScreenLoading Screen = iota
	ScreenBrowser
	ScreenError
)

// AppModel is the main application model
type AppModel struct {
	screen  Screen
	width   int
	height  int
	loading *LoadingModel
	browser *BrowserModel
	state   HeaderState
	opts    Options
	cancel  context.CancelFunc
	err     error
}

// blinkTickMsg for status bar blinking
type blinkTickMsg time.Time

// NewAppModel creates the application model for src
func NewAppModel(ctx context.Context, src Source, opts Options) *AppModel {
	ctx, cancel := context.WithCancel(ctx)
	return &AppModel{
		screen:  ScreenLoading,
		loading: NewLoadingModel(ctx, src),
		state:   HeaderState{Source: src.Name, Status: "Loading", BlinkOn: true},
		opts:    opts,
		cancel:  cancel,
	}
}

// Init initializes the application
func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.loading.Init(),
		m.startBlinkTicker(),
	)
}

func (m *AppModel) startBlinkTicker() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return blinkTickMsg(t)
	})
}

// Err returns the error that stopped loading, if any
func (m *AppModel) Err() error {
	return m.err
}

// Update handles all messages for the application
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.loading, _ = m.loading.Update(msg)
		if m.browser != nil {
			m.browser, _ = m.browser.Update(msg)
		}
		return m, nil

	case blinkTickMsg:
		if m.state.Status == "" {
			return m, nil
		}
		m.state.BlinkOn = !m.state.BlinkOn
		return m, m.startBlinkTicker()

	case loadCancelledMsg:
		m.cancel()
		return m, tea.Quit

	case vectorLoadedMsg:
		m.state.Status = ""
		if msg.err != nil {
			m.err = msg.err
			m.screen = ScreenError
			return m, nil
		}

		m.state.Class = msg.vector.Class()[0]
		m.state.Elements = msg.vector.Len()
		if msg.report != nil {
			m.state.Absent = len(msg.report.Absent) + len(msg.report.Unsupported)
			m.state.Failed = len(msg.report.Failures)
		}

		m.browser = NewBrowserModel(msg.vector, msg.report, m.opts)
		m.browser.width = m.width
		m.browser.height = m.height
		m.screen = ScreenBrowser
		return m, m.browser.Init()
	}

	var cmd tea.Cmd
	switch m.screen {
	case ScreenLoading:
		m.loading, cmd = m.loading.Update(msg)
	case ScreenBrowser:
		m.browser, cmd = m.browser.Update(msg)
	case ScreenError:
		if _, ok := msg.(tea.KeyMsg); ok {
			cmd = tea.Quit
		}
	}
	return m, cmd
}

// View renders the current screen
func (m *AppModel) View() string {
	switch m.screen {
	case ScreenBrowser:
		return m.browser.View(m.state)
	case ScreenError:
		header := RenderHeader("Error", m.state)
		content := ErrorStyle.Render(m.err.Error())
		footer := RenderHelpFooter("any key: quit", m.width)
		return LayoutWithHeaderFooter(header, lipgloss.NewStyle().Width(min(80, max(m.width-4, 20))).Render(content), footer, m.width, m.height)
	default:
		return m.loading.View(m.state)
	}
}

// Run shows the browser over src until the user quits
func Run(ctx context.Context, src Source, opts Options) error {
	m := NewAppModel(ctx, src, opts)
	defer m.cancel()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return m.Err()
}
