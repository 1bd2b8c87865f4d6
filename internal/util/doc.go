// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across aurora packages.
//
// # Key Functions
//
// String Utilities:
//   - Abbreviate: rune-safe prefix with an ellipsis marker
//   - FitWidth: display-width truncation for terminal columns
//   - SingleLine: collapse line breaks for one-line previews
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	title := util.Abbreviate(firstMessage, 30)
//	cell := util.FitWidth(util.SingleLine(title), 24)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
