// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, messages,
// settings and the model catalog.
//
// # Key Types
//
//   - Conversation: a chat with its id, title, messages, creation time and model
//   - Message: a single user or assistant message (value type)
//   - Settings: user preferences (theme, font size, enter-to-send, language)
//   - ModelInfo: a selectable model with localized description
//
// Messages are values. Code that updates a conversation builds a new message
// slice instead of mutating an element that a renderer may still hold.
//
// # Usage
//
//	conv := model.NewConversation("New Chat", model.DefaultModelID)
//	conv = conv.Append(model.NewUserMessage("Hello!"), model.NewAssistantMessage(""))
//	conv = conv.ReplaceLast(model.NewAssistantMessage("Hi there"))
package model
