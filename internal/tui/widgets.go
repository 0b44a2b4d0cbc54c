package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ========================================
// Brand Colors - Kartoza standard palette
// ========================================

var (
	ColorOrange   = lipgloss.Color("#DDA036") // Primary/Active
	ColorBlue     = lipgloss.Color("#569FC6") // Secondary/Links
	ColorGray     = lipgloss.Color("#9A9EA0") // Inactive/Subtle
	ColorWhite    = lipgloss.Color("#FFFFFF") // Text
	ColorDarkGray = lipgloss.Color("#3A3A3A") // Background
	ColorRed      = lipgloss.Color("#E95420") // Error
	ColorGreen    = lipgloss.Color("#4CAF50") // Success
	ColorCyan     = lipgloss.Color("#00BCD4") // Info
)

// HeaderWidth is the standard width for the header
const HeaderWidth = 64

// HeaderState is the vector summary shown in every header
type HeaderState struct {
	Source   string
	Class    string
	Elements int
	Absent   int
	Failed   int
	Status   string // e.g. "Loading", "Ready"
	BlinkOn  bool
}

// RenderHeader renders the standard application header
//
// Format:
//
//	Kartoza SFGeo - Page Title
//	Simple Features Geometry Browser
//	────────────────────────────────────────────────────────────────
//	Source: roads.json | Class: sfgeo_LINESTRING | 120 elements | 2 absent
//	────────────────────────────────────────────────────────────────
func RenderHeader(pageTitle string, state HeaderState) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorOrange).
		Align(lipgloss.Center).
		Width(HeaderWidth)

	mottoStyle := lipgloss.NewStyle().
		Italic(true).
		Foreground(ColorGray).
		Align(lipgloss.Center).
		Width(HeaderWidth)

	dividerStyle := lipgloss.NewStyle().
		Foreground(ColorGray).
		Align(lipgloss.Center).
		Width(HeaderWidth)

	statusStyle := lipgloss.NewStyle().
		Foreground(ColorWhite).
		Align(lipgloss.Center).
		Width(HeaderWidth)

	title := titleStyle.Render(fmt.Sprintf("Kartoza SFGeo - %s", pageTitle))
	motto := mottoStyle.Render("Simple Features Geometry Browser")
	divider := dividerStyle.Render(strings.Repeat("─", HeaderWidth))

	class := "-"
	classColor := ColorGray
	if state.Class != "" {
		class = state.Class
		classColor = ColorGreen
	}
	classStyled := lipgloss.NewStyle().Foreground(classColor).Bold(state.Class != "").Render(class)

	failedColor := ColorGray
	if state.Failed > 0 {
		failedColor = ColorRed
	}
	failedStyled := lipgloss.NewStyle().Foreground(failedColor).Render(fmt.Sprintf("%d failed", state.Failed))

	statusLine := fmt.Sprintf("Source: %s | Class: %s | %d elements | %d absent | %s",
		truncateStr(state.Source, 20),
		classStyled,
		state.Elements,
		state.Absent,
		failedStyled,
	)
	if state.Status != "" && state.BlinkOn {
		statusLine += " " + lipgloss.NewStyle().Foreground(ColorOrange).Render("●")
	}

	return lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		motto,
		divider,
		statusStyle.Render(statusLine),
		divider,
	)
}

// RenderHelpFooter renders the standard help footer at the bottom of the screen
func RenderHelpFooter(helpText string, width int) string {
	helpStyle := lipgloss.NewStyle().
		Foreground(ColorGray).
		Italic(true)

	footerStyle := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center)

	return footerStyle.Render(helpStyle.Render(helpText))
}

// LayoutWithHeaderFooter creates a standard layout with header at top and footer at bottom
func LayoutWithHeaderFooter(header, content, footer string, width, height int) string {
	centeredHeader := lipgloss.PlaceHorizontal(width, lipgloss.Center, header)
	centeredContent := lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
	centeredFooter := lipgloss.PlaceHorizontal(width, lipgloss.Center, footer)

	headerHeight := lipgloss.Height(centeredHeader)
	footerHeight := lipgloss.Height(centeredFooter)
	contentAreaHeight := max(height-headerHeight-footerHeight-2, 1) // 2 for spacing

	// Place content in its area (top-aligned within content area)
	contentArea := lipgloss.Place(
		width,
		contentAreaHeight,
		lipgloss.Center,
		lipgloss.Top,
		centeredContent,
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		centeredHeader,
		"",
		contentArea,
		centeredFooter,
	)
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s[:length]
	}
	return s + strings.Repeat(" ", length-len(s))
}

func truncateStr(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen-2] + ".."
	}
	return s
}

// ========================================
// Common Styles
// ========================================

// Box style for content areas
var BoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorOrange).
	Padding(1, 2)

// Label style for form labels
var LabelStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// Value style for displaying values
var ValueStyle = lipgloss.NewStyle().
	Foreground(ColorWhite)

// Error style for error messages
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorRed).
	Bold(true)

// Geometry style for formatted geometry text
var GeometryStyle = lipgloss.NewStyle().
	Foreground(ColorCyan)
