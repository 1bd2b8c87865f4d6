// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the aurora command tree.
//
// Running aurora with no subcommand opens the full-screen chat interface.
// The subcommands cover scripted and line-oriented use:
//
//	aurora                       Start the chat interface
//	aurora ask "question"        Stream one answer to stdout
//	aurora chat                  Line-based chat with input history
//	aurora models                List selectable models
//	aurora chats list            List stored conversations
//	aurora chats show <id>       Print a conversation
//	aurora chats delete <id>     Delete a conversation
//	aurora chats clear           Delete every conversation
//	aurora chats export <id>     Export to Markdown, JSON or YAML
//	aurora config show|path|get|set|set-key
//	aurora setup                 Guided first-run configuration
//	aurora version
//
// Conversation ids may be abbreviated to any unique prefix.
//
// Output colors follow the terminal: they are disabled when stdout is not a
// TTY or NO_COLOR is set, and forced on by FORCE_COLOR.
package cli
