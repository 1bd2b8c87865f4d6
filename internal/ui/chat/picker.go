// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/samber/lo"

	"github.com/jeranaias/aurora-tui/internal/model"
)

// modelItem adapts a catalog entry to list.DefaultItem.
type modelItem struct {
	info model.ModelInfo
	lang model.Language
}

func (i modelItem) Title() string {
	if i.info.Tag == "" {
		return i.info.Name
	}
	return i.info.Name + "  " + i.info.TagIcon() + " " + i.info.Tag
}

func (i modelItem) Description() string {
	return i.info.Performance + " · " + i.info.Description(i.lang)
}

func (i modelItem) FilterValue() string { return i.info.Name }

// modelItems lists the catalog in display order.
func modelItems(lang model.Language) []list.Item {
	return lo.Map(model.Catalog, func(info model.ModelInfo, _ int) list.Item {
		return modelItem{info: info, lang: lang}
	})
}
