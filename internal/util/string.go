// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Ellipsis is appended by Abbreviate when it shortens a string.
const Ellipsis = "..."

// Abbreviate returns the first maxRunes characters of s, followed by Ellipsis
// when s is longer than that. Counting is by rune, so multi-byte characters
// are never split.
func Abbreviate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + Ellipsis
}

// FitWidth truncates s to at most width terminal columns, accounting for
// double-width (CJK) characters. A trailing "…" marks truncation.
func FitWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// PadWidth right-pads s with spaces to exactly width columns, truncating first
// when it is too wide.
func PadWidth(s string, width int) string {
	return runewidth.FillRight(FitWidth(s, width), width)
}

// SingleLine collapses CR/LF runs into single spaces.
func SingleLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}
