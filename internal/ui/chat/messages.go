// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "time"

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// StateChangedMsg signals that the holder's state changed and the view may
// need a refresh.
type StateChangedMsg struct{}

// RenderTickMsg fires when a paced re-render is due.
type RenderTickMsg struct {
	Time time.Time
}

// SubmitDoneMsg is returned when a submission has settled.
type SubmitDoneMsg struct {
	Err error
}

// =============================================================================
// ACTION RESULTS
// =============================================================================

// CopiedMsg reports the result of a clipboard copy.
type CopiedMsg struct {
	Err error
}

// ExportedMsg reports the result of a conversation export.
type ExportedMsg struct {
	Path string
	Err  error
}

// ToastExpiredMsg clears the status toast with the matching id.
type ToastExpiredMsg struct {
	ID int
}
