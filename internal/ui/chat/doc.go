// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the full-screen chat interface for aurora.

The package implements a Bubble Tea program model on top of a
session.Holder. The holder owns all conversation state; this package only
reads snapshots of it and translates key presses into holder operations.

# Layout

	+----------------+-------------------------------------+
	| Chats          | Aurora AI  Llama 3.3 70B            |
	| + New Chat     |                                     |
	| > Go channels  |  You                                |
	|   Hello        |    How do channels work?            |
	|                |  Aurora                             |
	|                |    They pass values ...             |
	|                | +---------------------------------+ |
	|                | | Send a message...               | |
	|                | +---------------------------------+ |
	|                | Enter send . Alt+Enter newline      |
	+----------------+-------------------------------------+

The sidebar is hidden on terminals narrower than styles.MinWidthForSidebar.

# Streaming

A submission runs in a tea.Cmd that calls Holder.Submit. Every state change
the holder reports is coalesced into a single pending notification, and
re-renders are paced with a token bucket so a fast stream cannot render more
than maxRenderFPS frames per second.

# Overlays

Model picker (bubbles/list), settings, confirmations and help are drawn as
centered dialogs over the conversation. Only one is open at a time.
*/
package chat
