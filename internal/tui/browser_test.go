package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartoza/kartoza-sfgeo/internal/geometry"
	"github.com/kartoza/kartoza-sfgeo/internal/sf"
)

func testVector(t *testing.T, n int) (*sf.Vector, *sf.Report) {
	t.Helper()
	nodes := make([]*sf.Node, n)
	for i := range nodes {
		if i%4 == 3 {
			continue
		}
		nodes[i] = sf.Serialize(geometry.LineString{{X: float64(i), Y: 0}, {X: float64(i), Y: 1}})
	}
	if n > 5 {
		nodes[5] = sf.NewList(sf.Class(sf.TagPolygon), nil)
	}
	v, report, err := sf.BuildVector(nodes, sf.DefaultBuildOptions())
	require.NoError(t, err)
	return v, report
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newBrowser(t *testing.T, n int) *BrowserModel {
	v, report := testVector(t, n)
	m := NewBrowserModel(v, report, Options{Format: geometry.FormatWKT})
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 50})
	return m
}

func TestBrowserNavigation(t *testing.T) {
	m := newBrowser(t, 40)

	m, _ = m.Update(keyMsg("down"))
	m, _ = m.Update(keyMsg("j"))
	assert.Equal(t, 2, m.Selected())

	m, _ = m.Update(keyMsg("k"))
	assert.Equal(t, 1, m.Selected())

	m, _ = m.Update(keyMsg("G"))
	assert.Equal(t, 39, m.Selected())
	assert.Equal(t, 39-maxVisible+1, m.offset)

	// wraps around
	m, _ = m.Update(keyMsg("down"))
	assert.Equal(t, 0, m.Selected())
	assert.Equal(t, 0, m.offset)

	m, _ = m.Update(keyMsg("up"))
	assert.Equal(t, 39, m.Selected())

	m, _ = m.Update(keyMsg("g"))
	m, _ = m.Update(keyMsg("pgdown"))
	assert.Equal(t, maxVisible, m.Selected())
}

func TestBrowserQuit(t *testing.T) {
	m := newBrowser(t, 3)

	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(keyMsg("esc"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestBrowserView(t *testing.T) {
	m := newBrowser(t, 8)
	state := HeaderState{Source: "lines.json", Class: "sfgeo_LINESTRING", Elements: 8}

	view := m.View(state)
	assert.Contains(t, view, "Kartoza SFGeo - Browse")
	assert.Contains(t, view, "sfgeo_LINESTRING")
	assert.Contains(t, view, "linestring")
	assert.Contains(t, view, "LINESTRING matrix [2 2]")
	assert.Contains(t, view, "LINESTRING (0 0, 0 1)")

	m, _ = m.Update(keyMsg("f"))
	assert.Contains(t, m.View(state), "geojson:")
}

func TestBrowserAbsentDetail(t *testing.T) {
	m := newBrowser(t, 8)

	for range 3 {
		m, _ = m.Update(keyMsg("down"))
	}
	view := m.View(HeaderState{})
	assert.Contains(t, view, "Element 3 is absent")

	m, _ = m.Update(keyMsg("down"))
	m, _ = m.Update(keyMsg("down"))
	view = m.View(HeaderState{})
	assert.Contains(t, view, "Element 5 is absent")
	assert.Contains(t, view, "polygon has no rings")
}

func TestBrowserEmptyVector(t *testing.T) {
	m := NewBrowserModel(sf.NewVector(nil), nil, Options{})
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m, _ = m.Update(keyMsg("down"))

	assert.Equal(t, 0, m.Selected())
	assert.Contains(t, m.View(HeaderState{}), "no elements")
}

func TestNextFormat(t *testing.T) {
	assert.Equal(t, geometry.FormatGeoJSON, nextFormat(geometry.FormatWKT))
	assert.Equal(t, geometry.FormatWKB, nextFormat(geometry.FormatGeoJSON))
	assert.Equal(t, geometry.FormatWKT, nextFormat(geometry.FormatWKB))
}

func TestAppLoadsIntoBrowser(t *testing.T) {
	v, report := testVector(t, 4)
	src := Source{Name: "test", Load: func(context.Context, ProgressFunc) (*sf.Vector, *sf.Report, error) {
		return v, report, nil
	}}

	m := NewAppModel(context.Background(), src, Options{})
	model, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = model.(*AppModel)
	assert.Contains(t, m.View(), "Loading")

	model, _ = m.Update(vectorLoadedMsg{vector: v, report: report})
	m = model.(*AppModel)
	assert.Equal(t, ScreenBrowser, m.screen)
	assert.Equal(t, "sfgeo_LINESTRING", m.state.Class)
	assert.Equal(t, 1, m.state.Absent)
	assert.Contains(t, m.View(), "Browse")
}

func TestAppLoadError(t *testing.T) {
	src := Source{Name: "broken"}
	m := NewAppModel(context.Background(), src, Options{})
	model, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = model.(*AppModel)

	model, _ = m.Update(vectorLoadedMsg{err: errors.New("connection refused")})
	m = model.(*AppModel)
	assert.Equal(t, ScreenError, m.screen)
	assert.EqualError(t, m.Err(), "connection refused")
	assert.True(t, strings.Contains(m.View(), "connection refused"))

	_, cmd := m.Update(keyMsg("x"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestLoadingProgress(t *testing.T) {
	lm := NewLoadingModel(context.Background(), Source{Name: "roads"})
	lm, _ = lm.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	lm, _ = lm.Update(loadProgressMsg{Current: 5, Total: 10, Message: "roads"})

	assert.Contains(t, lm.View(HeaderState{}), "5 / 10 rows")
}

func TestRenderHeaderShowsFailures(t *testing.T) {
	header := RenderHeader("Browse", HeaderState{Source: "x", Failed: 2})
	assert.Contains(t, header, "2 failed")
	assert.Contains(t, header, "Class: -")
}
