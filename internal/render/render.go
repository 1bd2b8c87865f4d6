// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns assistant markdown into styled terminal text.
package render

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/jeranaias/aurora-tui/internal/model"
)

// Glamour standard style names used by aurora.
const (
	StyleDark  = "dark"
	StyleLight = "light"
	StylePlain = "notty"
)

// StyleFor resolves a theme setting to a glamour style. ThemeSystem follows
// the terminal background.
func StyleFor(theme model.Theme, darkBackground bool) string {
	switch theme {
	case model.ThemeDark:
		return StyleDark
	case model.ThemeLight:
		return StyleLight
	default:
		if darkBackground {
			return StyleDark
		}
		return StyleLight
	}
}

// DetectStyle resolves theme against the live terminal. Output that is not
// a terminal gets the plain style.
func DetectStyle(theme model.Theme) string {
	out := termenv.NewOutput(os.Stdout)
	if out.Profile == termenv.Ascii {
		return StylePlain
	}
	return StyleFor(theme, out.HasDarkBackground())
}

// Renderer wraps a glamour renderer and rebuilds it when the style or wrap
// width changes. Safe for concurrent use.
type Renderer struct {
	mu    sync.Mutex
	style string
	width int
	tr    *glamour.TermRenderer
}

// New creates a renderer with the given glamour style and wrap width.
func New(style string, width int) *Renderer {
	r := &Renderer{}
	r.Configure(style, width)
	return r
}

// ForSettings creates a renderer from user settings.
func ForSettings(s model.Settings) *Renderer {
	return New(DetectStyle(s.Theme), s.FontSize.WrapWidth())
}

// Configure changes style and width. A failed rebuild leaves the renderer
// in plain-text mode.
func (r *Renderer) Configure(style string, width int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if width <= 0 {
		width = model.FontSizeBase.WrapWidth()
	}
	if r.tr != nil && style == r.style && width == r.width {
		return
	}
	r.style, r.width = style, width

	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		r.tr = nil
		return
	}
	r.tr = tr
}

// Width returns the current wrap width.
func (r *Renderer) Width() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width
}

// Style returns the current glamour style name.
func (r *Renderer) Style() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.style
}

// Render returns content rendered as markdown, or content unchanged if
// rendering fails. Surrounding blank lines are trimmed.
func (r *Renderer) Render(content string) string {
	if strings.TrimSpace(content) == "" {
		return content
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tr == nil {
		return content
	}
	out, err := r.tr.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
