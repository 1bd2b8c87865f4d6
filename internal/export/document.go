// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"time"

	"github.com/jeranaias/aurora-tui/internal/model"
)

// document is the structured export shape shared by JSON and YAML.
type document struct {
	ID         string          `json:"id" yaml:"id"`
	Title      string          `json:"title" yaml:"title"`
	Model      string          `json:"model" yaml:"model"`
	ModelName  string          `json:"modelName" yaml:"model_name"`
	CreatedAt  time.Time       `json:"createdAt" yaml:"created_at"`
	ExportedAt time.Time       `json:"exportedAt" yaml:"exported_at"`
	Generator  string          `json:"generator" yaml:"generator"`
	Messages   []model.Message `json:"messages" yaml:"messages"`
}

func newDocument(conv model.Conversation) document {
	return document{
		ID:         conv.ID,
		Title:      conv.Title,
		Model:      conv.Model,
		ModelName:  model.DisplayName(conv.Model),
		CreatedAt:  conv.CreatedAt,
		ExportedAt: time.Now(),
		Generator:  Generator,
		Messages:   conv.Messages,
	}
}
