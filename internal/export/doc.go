// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes conversations to files for sharing or archiving.
//
// # Supported Formats
//
//   - Markdown: readable transcript with a YAML front matter block
//   - JSON: the conversation record plus export metadata
//   - YAML: the same document as JSON, for hand editing
//
// # Usage
//
//	exporter, err := export.ForFormat("md", nil)
//	path, err := export.ExportToFile(conv, exporter, opts)
package export
