// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the conversation state of a running client.
//
// A Holder owns the ordered list of conversations, the current selection, the
// selected model and the settings. It drives one submission at a time
// through idle → awaiting → streaming → settled, folding streamed deltas into
// the trailing assistant message. Every mutation is saved through a Store
// before the mutating call returns.
//
// # Key Types
//
//   - Holder: mutex-guarded state, safe to share between the UI and a stream
//   - Submission: one in-progress request (chat id, history sent, model)
//   - Snapshot: an immutable view handed to renderers
//   - Streamer: the transport contract, implemented by *groq.Client
//
// # Usage
//
//	h := session.NewHolder(repo, session.Config{Chats: chats, Settings: settings})
//	err := h.Submit(ctx, client, "Hello!", func() { program.Send(refreshMsg{}) })
package session
