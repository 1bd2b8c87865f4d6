// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// init aligns fatih/color with NO_COLOR, FORCE_COLOR and TTY detection.
func init() {
	color.NoColor = !ColorsEnabled()
}

// =============================================================================
// SHARED STYLES FOR ALL CLI COMMANDS
// =============================================================================

var (
	// titleColor is used for command titles and section headers
	titleColor = color.New(color.Bold, color.FgCyan)

	// userColor labels the user's messages
	userColor = color.New(color.Bold, color.FgBlue)

	// aiColor labels the assistant's messages
	aiColor = color.New(color.Bold, color.FgMagenta)

	// labelColor is used for field labels
	labelColor = color.New(color.FgHiBlack)

	// successColor marks completed operations
	successColor = color.New(color.FgGreen, color.Bold)

	// errorColor marks failures
	errorColor = color.New(color.FgRed, color.Bold)

	// warningColor marks cancellations and cautions
	warningColor = color.New(color.FgYellow)

	// dimColor is used for hints and metadata
	dimColor = color.New(color.Faint)
)

const separator = "────────────────────────────────────────"

// =============================================================================
// OUTPUT HELPERS
// =============================================================================

// printSuccess prints "[OK] msg".
func printSuccess(w io.Writer, format string, args ...any) {
	successColor.Fprint(w, "[OK] ")
	fmt.Fprintf(w, format+"\n", args...)
}

// printError prints "[X] msg".
func printError(w io.Writer, err error) {
	errorColor.Fprint(w, "[X] ")
	fmt.Fprintln(w, err)
}

// printField prints an aligned "label  value" line.
func printField(w io.Writer, label, value string) {
	labelColor.Fprintf(w, "  %-14s", label)
	fmt.Fprintln(w, value)
}

// printTitle prints a bold header followed by a rule of the same width.
func printTitle(w io.Writer, title string) {
	titleColor.Fprintln(w, title)
	dimColor.Fprintln(w, strings.Repeat("─", min(len([]rune(title)), len([]rune(separator)))))
}
