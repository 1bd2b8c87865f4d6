// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/aurora-tui/internal/util"
)

// TitleMaxRunes is the number of characters of the first message kept in a
// conversation title.
const TitleMaxRunes = 30

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds a chat with its message history and metadata.
//
// The JSON field names match the persisted "chats" blob.
type Conversation struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Messages  []Message `json:"messages" yaml:"messages"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`

	// Model is the model that was selected when the conversation was created.
	Model string `json:"model" yaml:"model"`
}

// NewConversation creates an empty conversation with a random UUID.
func NewConversation(title, modelID string) Conversation {
	return Conversation{
		ID:        uuid.NewString(),
		Title:     title,
		Messages:  []Message{},
		CreatedAt: time.Now(),
		Model:     modelID,
	}
}

// =============================================================================
// COPY-ON-WRITE UPDATES
// =============================================================================

// Append returns a copy of c with msgs added. The receiver's message slice is
// never written to.
func (c Conversation) Append(msgs ...Message) Conversation {
	next := make([]Message, 0, len(c.Messages)+len(msgs))
	next = append(next, c.Messages...)
	next = append(next, msgs...)
	c.Messages = next
	return c
}

// ReplaceLast returns a copy of c whose trailing message is msg. On an empty
// conversation msg is appended.
func (c Conversation) ReplaceLast(msg Message) Conversation {
	if len(c.Messages) == 0 {
		return c.Append(msg)
	}
	next := make([]Message, len(c.Messages))
	copy(next, c.Messages[:len(c.Messages)-1])
	next[len(next)-1] = msg
	c.Messages = next
	return c
}

// WithTitle returns a copy of c with the given title.
func (c Conversation) WithTitle(title string) Conversation {
	c.Title = title
	return c
}

// =============================================================================
// QUERIES
// =============================================================================

// LastMessage returns the trailing message, if any.
func (c Conversation) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// LastAssistantContent returns the content of the most recent non-empty
// assistant message.
func (c Conversation) LastAssistantContent() (string, bool) {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].IsAssistant() && c.Messages[i].Content != "" {
			return c.Messages[i].Content, true
		}
	}
	return "", false
}

// IsEmpty returns true if there are no messages.
func (c Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// EstimateTokens estimates the total token count of the conversation,
// including about 4 tokens of structure per message.
func (c Conversation) EstimateTokens() int {
	total := 0
	for _, msg := range c.Messages {
		total += msg.EstimateTokens() + 4
	}
	return total
}

// Alternates reports whether messages strictly alternate user, assistant,
// user, ... starting with a user message.
func (c Conversation) Alternates() bool {
	for i, msg := range c.Messages {
		want := RoleUser
		if i%2 == 1 {
			want = RoleAssistant
		}
		if msg.Role != want {
			return false
		}
	}
	return true
}

// =============================================================================
// TITLES
// =============================================================================

// TitleFromHistory derives a title from a history consisting of exactly one
// user message: its first TitleMaxRunes characters, with "..." appended when
// the message is longer. ok is false for any other history.
func TitleFromHistory(history []Message) (title string, ok bool) {
	if len(history) != 1 || !history[0].IsUser() {
		return "", false
	}
	return util.Abbreviate(history[0].Content, TitleMaxRunes), true
}
