package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kartoza/kartoza-sfgeo/internal/sf"
)

// ProgressFunc reports loading progress. total is negative when unknown.
type ProgressFunc func(current, total int, message string)

// Source loads the vector shown by the browser
type Source struct {
	Name string
	Load func(ctx context.Context, progress ProgressFunc) (*sf.Vector, *sf.Report, error)
}

// loadProgressMsg is sent while the source is loading
type loadProgressMsg struct {
	Current int
	Total   int
	Message string
}

// vectorLoadedMsg carries the loaded vector, or the error that stopped loading
type vectorLoadedMsg struct {
	vector *sf.Vector
	report *sf.Report
	err    error
}

// loadCancelledMsg indicates the user cancelled loading
type loadCancelledMsg struct{}

// LoadingModel shows progress while a Source loads
type LoadingModel struct {
	width    int
	height   int
	ctx      context.Context
	source   Source
	progress progress.Model
	spinner  spinner.Model
	current  int
	total    int
	message  string
	progChan chan loadProgressMsg
}

// NewLoadingModel creates a loading screen for src
func NewLoadingModel(ctx context.Context, src Source) *LoadingModel {
	prog := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
		progress.WithoutPercentage(),
	)
	// Override the default colors with Kartoza colors
	prog.FullColor = string(ColorOrange)
	prog.EmptyColor = string(ColorDarkGray)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorOrange)

	return &LoadingModel{
		ctx:      ctx,
		source:   src,
		progress: prog,
		spinner:  s,
		total:    -1,
		message:  "Loading " + src.Name + "...",
		progChan: make(chan loadProgressMsg, 100),
	}
}

// Init starts loading and listening for progress
func (m *LoadingModel) Init() tea.Cmd {
	return tea.Batch(
		m.startLoad(),
		m.listenForProgress(),
		m.spinner.Tick,
	)
}

func (m *LoadingModel) listenForProgress() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.progChan
		if !ok {
			return nil
		}
		return msg
	}
}

func (m *LoadingModel) startLoad() tea.Cmd {
	return func() tea.Msg {
		v, report, err := m.source.Load(m.ctx, func(current, total int, message string) {
			select {
			case m.progChan <- loadProgressMsg{Current: current, Total: total, Message: message}:
			default:
				// Channel full, skip this update
			}
		})
		close(m.progChan)
		return vectorLoadedMsg{vector: v, report: report, err: err}
	}
}

// Update handles messages for the loading screen
func (m *LoadingModel) Update(msg tea.Msg) (*LoadingModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(min(50, msg.Width-20), 10)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEscape {
			return m, func() tea.Msg {
				return loadCancelledMsg{}
			}
		}

	case loadProgressMsg:
		m.current = msg.Current
		m.total = msg.Total
		if msg.Message != "" {
			m.message = msg.Message
		}
		return m, m.listenForProgress()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

// View renders the loading screen
func (m *LoadingModel) View(state HeaderState) string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := RenderHeader("Loading", state)

	container := lipgloss.NewStyle().
		Width(60).
		Align(lipgloss.Center)

	messageStyle := lipgloss.NewStyle().
		Foreground(ColorOrange).
		Bold(true)

	lines := []string{""}
	if m.total > 0 {
		percent := float64(m.current) / float64(m.total)
		lines = append(lines,
			container.Render(m.progress.ViewAs(percent)),
			"",
			container.Render(fmt.Sprintf("%d / %d rows", m.current, m.total)),
		)
	} else {
		counter := ""
		if m.current > 0 {
			counter = fmt.Sprintf(" %d rows", m.current)
		}
		lines = append(lines, container.Render(m.spinner.View()+counter))
	}
	lines = append(lines, "", container.Render(messageStyle.Render(m.message)))

	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	footer := RenderHelpFooter("ctrl+c/esc: cancel", m.width)

	return LayoutWithHeaderFooter(header, content, footer, m.width, m.height)
}
