// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/aurora-tui/internal/model"
)

// Layout constants.
const (
	// SidebarWidth is the sidebar's outer width in columns.
	SidebarWidth = 30

	// MinWidthForSidebar is the narrowest terminal that still shows the sidebar.
	MinWidthForSidebar = 72
)

var (
	terminalDarkOnce sync.Once
	terminalDark     bool
)

// TerminalIsDark reports whether the terminal has a dark background. The
// terminal is queried once; later calls return the cached answer.
func TerminalIsDark() bool {
	terminalDarkOnce.Do(func() {
		terminalDark = termenv.HasDarkBackground()
	})
	return terminalDark
}

// ResolveDark decides the background mode for a theme setting.
func ResolveDark(mode model.Theme, terminalIsDark bool) bool {
	switch mode {
	case model.ThemeDark:
		return true
	case model.ThemeLight:
		return false
	default:
		return terminalIsDark
	}
}

// Theme holds all the styled components for the application.
type Theme struct {
	Mode         model.Theme
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	renderer *lipgloss.Renderer

	// ==========================================================================
	// HEADER
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderModel lipgloss.Style
	Tag         lipgloss.Style

	// ==========================================================================
	// SIDEBAR
	// ==========================================================================

	Sidebar           lipgloss.Style
	SidebarTitle      lipgloss.Style
	SidebarItem       lipgloss.Style
	SidebarItemActive lipgloss.Style
	SidebarCursor     lipgloss.Style
	SidebarHint       lipgloss.Style

	// ==========================================================================
	// MESSAGES
	// ==========================================================================

	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	UserMessage    lipgloss.Style
	AssistantBody  lipgloss.Style
	ErrorMessage   lipgloss.Style
	ThinkingText   lipgloss.Style
	Spinner        lipgloss.Style
	MessageDivider lipgloss.Style

	// ==========================================================================
	// INPUT AREA
	// ==========================================================================

	InputContainer lipgloss.Style
	InputFocused   lipgloss.Style
	Hint           lipgloss.Style
	Disclaimer     lipgloss.Style

	// ==========================================================================
	// WELCOME SCREEN
	// ==========================================================================

	WelcomeTitle lipgloss.Style
	WelcomeText  lipgloss.Style
	FeatureTitle lipgloss.Style
	FeatureDesc  lipgloss.Style

	// ==========================================================================
	// OVERLAYS
	// ==========================================================================

	Dialog           lipgloss.Style
	DialogTitle      lipgloss.Style
	DialogItem       lipgloss.Style
	DialogItemActive lipgloss.Style
	DialogValue      lipgloss.Style

	// ==========================================================================
	// STATUS
	// ==========================================================================

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	InfoStyle    lipgloss.Style
	Muted        lipgloss.Style
}

// NewTheme creates a theme on the default Lip Gloss renderer, so bubbles
// components pick up the same background mode.
func NewTheme(mode model.Theme) *Theme {
	return Build(mode, lipgloss.DefaultRenderer(), TerminalIsDark())
}

// Build creates a theme on r. terminalIsDark is consulted only for
// ThemeSystem.
func Build(mode model.Theme, r *lipgloss.Renderer, terminalIsDark bool) *Theme {
	isDark := ResolveDark(mode, terminalIsDark)
	r.SetHasDarkBackground(isDark)

	t := &Theme{
		Mode:         mode,
		IsDark:       isDark,
		ColorProfile: r.ColorProfile(),
		renderer:     r,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the Lip Gloss styles.
func (t *Theme) initStyles() {
	s := t.renderer.NewStyle

	// Header
	t.Header = s().
		Background(SurfaceDim).
		Padding(0, 1)
	t.HeaderTitle = s().
		Bold(true).
		Foreground(Aurora)
	t.HeaderModel = s().
		Foreground(TextSecondary)
	t.Tag = s().
		Foreground(Violet).
		Bold(true)

	// Sidebar
	t.Sidebar = s().
		Width(SidebarWidth-1).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.SidebarTitle = s().
		Bold(true).
		Foreground(TextSecondary).
		MarginBottom(1)
	t.SidebarItem = s().
		Foreground(TextSecondary)
	t.SidebarItemActive = s().
		Foreground(TextPrimary).
		Background(SurfaceBright).
		Bold(true)
	t.SidebarCursor = s().
		Foreground(Aurora).
		Bold(true)
	t.SidebarHint = s().
		Foreground(TextMuted)

	// Messages
	t.UserLabel = s().
		Bold(true).
		Foreground(Sky)
	t.AssistantLabel = s().
		Bold(true).
		Foreground(Aurora)
	t.UserMessage = s().
		Foreground(TextPrimary).
		PaddingLeft(2)
	t.AssistantBody = s()
	t.ErrorMessage = s().
		Foreground(Rose).
		PaddingLeft(2)
	t.ThinkingText = s().
		Foreground(Amber).
		Italic(true)
	t.Spinner = s().
		Foreground(Amber)
	t.MessageDivider = s().
		Foreground(Overlay)

	// Input
	t.InputContainer = s().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.InputFocused = t.InputContainer.
		BorderForeground(Aurora)
	t.Hint = s().
		Foreground(TextMuted)
	t.Disclaimer = s().
		Foreground(TextMuted).
		Italic(true)

	// Welcome
	t.WelcomeTitle = s().
		Bold(true).
		Foreground(Aurora).
		MarginBottom(1)
	t.WelcomeText = s().
		Foreground(TextSecondary)
	t.FeatureTitle = s().
		Bold(true).
		Foreground(Violet)
	t.FeatureDesc = s().
		Foreground(TextMuted).
		PaddingLeft(2)

	// Overlays
	t.Dialog = s().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Aurora).
		Padding(1, 2)
	t.DialogTitle = s().
		Bold(true).
		Foreground(Aurora).
		MarginBottom(1)
	t.DialogItem = s().
		Foreground(TextSecondary)
	t.DialogItemActive = s().
		Foreground(TextInverse).
		Background(Aurora).
		Bold(true)
	t.DialogValue = s().
		Foreground(Violet)

	// Status
	t.SuccessStyle = s().
		Foreground(Emerald).
		Bold(true)
	t.ErrorStyle = s().
		Foreground(Rose).
		Bold(true)
	t.InfoStyle = s().
		Foreground(Sky)
	t.Muted = s().
		Foreground(TextMuted)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// SidebarVisible reports whether the terminal is wide enough for the sidebar.
func (t *Theme) SidebarVisible() bool {
	return t.Width >= MinWidthForSidebar
}

// MainWidth returns the width left for the conversation pane.
func (t *Theme) MainWidth() int {
	if t.SidebarVisible() {
		return t.Width - SidebarWidth
	}
	return t.Width
}

// RenderStatus renders a status line with its text indicator.
func (t *Theme) RenderStatus(success bool, message string) string {
	if success {
		return t.SuccessStyle.Render(StatusIndicators.Success + " " + message)
	}
	return t.ErrorStyle.Render(StatusIndicators.Error + " " + message)
}

// RenderInfo renders an informational status line.
func (t *Theme) RenderInfo(message string) string {
	return t.InfoStyle.Render(StatusIndicators.Info + " " + message)
}
