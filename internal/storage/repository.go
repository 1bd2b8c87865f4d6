// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"fmt"

	"github.com/samber/lo"

	"github.com/jeranaias/aurora-tui/internal/model"
)

// Repository loads and saves the typed application state over a KV.
type Repository struct {
	kv KV
}

// NewRepository wraps kv.
func NewRepository(kv KV) *Repository {
	return &Repository{kv: kv}
}

// KV returns the underlying store.
func (r *Repository) KV() KV {
	return r.kv
}

// Close closes the underlying store.
func (r *Repository) Close() error {
	return r.kv.Close()
}

// =============================================================================
// CONVERSATIONS
// =============================================================================

// LoadChats returns the stored conversations, newest first as saved. A missing
// entry yields an empty list. An undecodable entry yields ErrCorrupt.
func (r *Repository) LoadChats() ([]model.Conversation, error) {
	raw, ok, err := r.kv.Get(KeyChats)
	if err != nil {
		return nil, fmt.Errorf("failed to read chats: %w", err)
	}
	if !ok || raw == "" {
		return []model.Conversation{}, nil
	}

	var chats []model.Conversation
	if err := json.Unmarshal([]byte(raw), &chats); err != nil {
		return nil, fmt.Errorf("%w: chats: %w", ErrCorrupt, err)
	}
	for i := range chats {
		if chats[i].Messages == nil {
			chats[i].Messages = []model.Message{}
		}
	}
	return chats, nil
}

// SaveChats replaces the stored conversation list.
func (r *Repository) SaveChats(chats []model.Conversation) error {
	if chats == nil {
		chats = []model.Conversation{}
	}
	data, err := json.Marshal(chats)
	if err != nil {
		return fmt.Errorf("failed to encode chats: %w", err)
	}
	if err := r.kv.Set(KeyChats, string(data)); err != nil {
		return fmt.Errorf("failed to write chats: %w", err)
	}
	return nil
}

// LoadChat returns the stored conversation with the given ID. A unique ID
// prefix is accepted too.
func (r *Repository) LoadChat(id string) (model.Conversation, error) {
	chats, err := r.LoadChats()
	if err != nil {
		return model.Conversation{}, err
	}
	if conv, ok := lo.Find(chats, func(c model.Conversation) bool { return c.ID == id }); ok {
		return conv, nil
	}

	matches := lo.Filter(chats, func(c model.Conversation, _ int) bool {
		return id != "" && len(c.ID) > len(id) && c.ID[:len(id)] == id
	})
	if len(matches) == 1 {
		return matches[0], nil
	}
	return model.Conversation{}, fmt.Errorf("%w: %s", ErrConversationNotFound, id)
}

// =============================================================================
// SETTINGS
// =============================================================================

// LoadSettings builds the settings from the defaults, then the separate
// avatar entries, then the stored settings object, each layer overriding the
// previous one. Unknown enum values fall back to their defaults.
func (r *Repository) LoadSettings() (model.Settings, error) {
	settings := model.DefaultSettings()

	if v, ok, err := r.kv.Get(KeyUserProfileImage); err != nil {
		return settings, fmt.Errorf("failed to read %s: %w", KeyUserProfileImage, err)
	} else if ok && v != "" {
		settings.UserProfileImage = v
	}
	if v, ok, err := r.kv.Get(KeyAssistantProfileImage); err != nil {
		return settings, fmt.Errorf("failed to read %s: %w", KeyAssistantProfileImage, err)
	} else if ok && v != "" {
		settings.AssistantProfileImage = v
	}

	raw, ok, err := r.kv.Get(KeySettings)
	if err != nil {
		return settings, fmt.Errorf("failed to read settings: %w", err)
	}
	if ok && raw != "" {
		merged := settings
		if err := json.Unmarshal([]byte(raw), &merged); err != nil {
			return settings, fmt.Errorf("%w: settings: %w", ErrCorrupt, err)
		}
		settings = merged
	}

	return settings.Normalize(), nil
}

// SaveSettings replaces the stored settings object.
func (r *Repository) SaveSettings(settings model.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := r.kv.Set(KeySettings, string(data)); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}
