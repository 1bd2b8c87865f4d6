// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the aurora TUI.

# Color System (colors.go)

All colors are Lip Gloss AdaptiveColor values. Which half of each pair is used
is decided by the renderer a Theme is built on:

  - ThemeDark and ThemeLight force the renderer's background mode
  - ThemeSystem follows the terminal background, queried once per process

# Theme (theme.go)

A Theme holds every Lip Gloss style the chat view draws with, plus the layout
helpers that decide when the sidebar fits:

	theme := styles.NewTheme(settings.Theme)
	theme.SetSize(msg.Width, msg.Height)
	if theme.SidebarVisible() { ... }

# Spinner (spinner.go)

ThinkingSpinner is the frame set shown while waiting for the first token.
*/
package styles
