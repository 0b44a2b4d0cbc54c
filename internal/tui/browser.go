package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kartoza/kartoza-sfgeo/internal/geometry"
	"github.com/kartoza/kartoza-sfgeo/internal/render"
	"github.com/kartoza/kartoza-sfgeo/internal/sf"
)

// Options configures the browser
type Options struct {
	Format  geometry.Format
	Preview bool
	Width   int // preview image size in pixels
	Height  int
	Padding int
}

const (
	maxVisible    = 15
	previewCols   = 40
	previewRows   = 15
	maxDetailText = 480
)

var formats = []geometry.Format{geometry.FormatWKT, geometry.FormatGeoJSON, geometry.FormatWKB}

// BrowserModel lists the elements of a geometry vector
type BrowserModel struct {
	width    int
	height   int
	vector   *sf.Vector
	report   *sf.Report
	problems map[int]string
	selected int
	offset   int
	opts     Options

	preview    string
	previewFor int
	imageNum   int
}

// NewBrowserModel creates a browser over v. report may be nil.
func NewBrowserModel(v *sf.Vector, report *sf.Report, opts Options) *BrowserModel {
	m := &BrowserModel{
		vector:     v,
		report:     report,
		problems:   problemsByIndex(report),
		opts:       opts,
		previewFor: -1,
		imageNum:   1000,
	}
	m.updatePreview()
	return m
}

// problemsByIndex describes every element the report says was replaced
func problemsByIndex(report *sf.Report) map[int]string {
	problems := make(map[int]string)
	if report == nil {
		return problems
	}
	for _, i := range report.Unsupported {
		problems[i] = "unsupported geometry kind"
	}
	for _, err := range report.Failures {
		var shape *sf.ShapeError
		var rings *sf.EmptyRingsError
		switch {
		case errors.As(err, &shape):
			problems[shape.Index] = err.Error()
		case errors.As(err, &rings):
			problems[rings.Index] = err.Error()
		}
	}
	return problems
}

// Selected returns the index of the highlighted element
func (m *BrowserModel) Selected() int {
	return m.selected
}

// Init initializes the browser model
func (m *BrowserModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the browser model
func (m *BrowserModel) Update(msg tea.Msg) (*BrowserModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		n := m.vector.Len()
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("esc", "q", "ctrl+c"))):
			return m, tea.Quit

		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if n > 0 {
				m.selected--
				if m.selected < 0 {
					m.selected = n - 1
				}
			}

		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if n > 0 {
				m.selected++
				if m.selected >= n {
					m.selected = 0
				}
			}

		case key.Matches(msg, key.NewBinding(key.WithKeys("pgup"))):
			m.selected = max(m.selected-maxVisible, 0)

		case key.Matches(msg, key.NewBinding(key.WithKeys("pgdown"))):
			m.selected = max(min(m.selected+maxVisible, n-1), 0)

		case key.Matches(msg, key.NewBinding(key.WithKeys("home", "g"))):
			m.selected = 0

		case key.Matches(msg, key.NewBinding(key.WithKeys("end", "G"))):
			m.selected = max(n-1, 0)

		case key.Matches(msg, key.NewBinding(key.WithKeys("f"))):
			m.opts.Format = nextFormat(m.opts.Format)

		case key.Matches(msg, key.NewBinding(key.WithKeys("p"))):
			m.opts.Preview = !m.opts.Preview
			m.previewFor = -1
		}

		m.scroll()
		m.updatePreview()
	}

	return m, nil
}

func nextFormat(f geometry.Format) geometry.Format {
	for i, candidate := range formats {
		if candidate == f {
			return formats[(i+1)%len(formats)]
		}
	}
	return formats[0]
}

// scroll keeps the selection inside the visible window
func (m *BrowserModel) scroll() {
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+maxVisible {
		m.offset = m.selected - maxVisible + 1
	}
}

// updatePreview re-renders the terminal image when the selection changed
func (m *BrowserModel) updatePreview() {
	if !m.opts.Preview {
		m.preview = ""
		return
	}
	if m.previewFor == m.selected || !render.SupportsKitty() {
		return
	}

	r := render.New(m.opts.Width, m.opts.Height, m.opts.Padding)
	r.Highlight = m.selected
	img, err := r.Render(m.vector.Geometries())
	if err != nil {
		slog.Debug("preview unavailable", "error", err)
		m.preview = ""
		m.previewFor = m.selected
		return
	}

	m.imageNum++
	out, err := render.Terminal(img, previewCols, previewRows, m.imageNum)
	if err != nil {
		slog.Debug("preview unavailable", "error", err)
		out = ""
	}
	m.preview = out
	m.previewFor = m.selected
}

// View renders the browser screen
func (m *BrowserModel) View(state HeaderState) string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := RenderHeader("Browse", state)
	content := m.renderContent()
	helpText := "↑/k: up • ↓/j: down • pgup/pgdn: page • f: format • p: preview • q/esc: quit"
	footer := RenderHelpFooter(helpText, m.width)

	view := LayoutWithHeaderFooter(header, content, footer, m.width, m.height)
	if m.preview != "" {
		col := max(m.width-previewCols-1, 1)
		view = render.ClearImages + view + fmt.Sprintf("\033[%d;%dH%s", 2, col, m.preview)
	}
	return view
}

func (m *BrowserModel) renderContent() string {
	if m.vector.Len() == 0 {
		return lipgloss.NewStyle().
			Foreground(ColorGray).
			Italic(true).
			Render("The vector has no elements")
	}

	borderStyle := lipgloss.NewStyle().Foreground(ColorOrange)
	headerStyle := lipgloss.NewStyle().Foreground(ColorOrange).Bold(true)

	widths := []int{7, 20, 9, 26}
	line := func(left, mid, right string) string {
		parts := make([]string, len(widths))
		for i, w := range widths {
			parts[i] = strings.Repeat("─", w)
		}
		return borderStyle.Render(left + strings.Join(parts, mid) + right)
	}
	bar := borderStyle.Render("│")

	titles := []string{" #", " Kind", " Coords", " Node"}
	var headerCells []string
	for i, title := range titles {
		headerCells = append(headerCells, headerStyle.Render(padRight(title, widths[i])))
	}

	rows := []string{
		line("┌", "┬", "┐"),
		bar + strings.Join(headerCells, bar) + bar,
		line("├", "┼", "┤"),
	}

	end := min(m.offset+maxVisible, m.vector.Len())
	for i := m.offset; i < end; i++ {
		rows = append(rows, m.renderRow(i, widths, bar))
	}
	rows = append(rows, line("└", "┴", "┘"))

	if m.vector.Len() > maxVisible {
		moreStyle := lipgloss.NewStyle().Foreground(ColorGray).Italic(true)
		rows = append(rows, moreStyle.Render(fmt.Sprintf("showing %d-%d of %d", m.offset+1, end, m.vector.Len())))
	}

	rows = append(rows, "", m.renderDetail())
	return lipgloss.JoinVertical(lipgloss.Center, rows...)
}

func (m *BrowserModel) renderRow(i int, widths []int, bar string) string {
	h := m.vector.At(i)
	isSelected := i == m.selected

	selector := " "
	if isSelected {
		selector = "▶"
	}

	kind := "absent"
	kindColor := ColorGray
	if _, failed := m.problems[i]; failed {
		kind = "failed"
		kindColor = ColorRed
	}
	coords := "-"
	node := "NULL"
	if h != nil {
		kind = h.Kind()
		kindColor = ColorWhite
		coords = fmt.Sprint(geometry.NumCoords(h.Geometry()))
		node = sf.Serialize(h.Geometry()).String()
	}

	textStyle := lipgloss.NewStyle().Foreground(kindColor)
	if isSelected {
		textStyle = lipgloss.NewStyle().Foreground(ColorOrange).Bold(true)
	}

	cells := []string{
		textStyle.Render(padRight(fmt.Sprintf("%s%d", selector, i), widths[0])),
		textStyle.Render(padRight(" "+kind, widths[1])),
		lipgloss.NewStyle().Foreground(ColorBlue).Render(padRight(" "+coords, widths[2])),
		lipgloss.NewStyle().Foreground(ColorGray).Render(padRight(" "+truncateStr(node, widths[3]-2), widths[3])),
	}
	return bar + strings.Join(cells, bar) + bar
}

func (m *BrowserModel) renderDetail() string {
	detailBox := BoxStyle.
		BorderForeground(ColorBlue).
		Width(max(min(80, m.width-10), 20))

	h := m.vector.At(m.selected)
	var lines []string
	if h == nil {
		lines = append(lines, LabelStyle.Render(fmt.Sprintf("Element %d is absent", m.selected)))
		if problem, ok := m.problems[m.selected]; ok {
			lines = append(lines, "", ErrorStyle.Render(problem))
		}
		return detailBox.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	}

	text, err := geometry.FormatGeometry(h.Geometry(), m.opts.Format)
	if err != nil {
		text = "cannot format: " + err.Error()
	}
	if len(text) > maxDetailText {
		text = text[:maxDetailText] + "..."
	}

	lines = append(lines,
		LabelStyle.Render("Class: ")+ValueStyle.Render(strings.Join(h.Class(), ", ")),
		LabelStyle.Render("Node: ")+ValueStyle.Render(sf.Serialize(h.Geometry()).String()),
		"",
		LabelStyle.Render(m.opts.Format.String()+":"),
		GeometryStyle.Render(text),
	)
	return detailBox.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
