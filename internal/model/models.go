// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"

	"github.com/samber/lo"
)

// DefaultModelID is the model selected at startup.
const DefaultModelID = "llama-3.3-70b-versatile"

// =============================================================================
// MODEL INFO TYPE
// =============================================================================

// ModelInfo describes a selectable model. This is used for model selection
// and display in the UI; it has no effect on requests beyond the ID.
type ModelInfo struct {
	// ID is the model identifier used in API calls
	ID string `json:"id"`

	// Name is the human-readable display name
	Name string `json:"name"`

	// DescriptionKO and DescriptionEN are short localized summaries
	DescriptionKO string `json:"description_ko"`
	DescriptionEN string `json:"description_en"`

	// Performance is a size or context label such as "70B" or "32K Context"
	Performance string `json:"performance"`

	// Tag is an optional badge ("Recommended", "New")
	Tag string `json:"tag,omitempty"`
}

// Description returns the description in the given language.
func (m ModelInfo) Description(lang Language) string {
	if lang == LanguageEnglish {
		return m.DescriptionEN
	}
	return m.DescriptionKO
}

// TagIcon returns an icon character for the badge.
func (m ModelInfo) TagIcon() string {
	switch m.Tag {
	case "Recommended":
		return "*"
	case "New":
		return "+"
	default:
		return " "
	}
}

// =============================================================================
// MODEL CATALOG
// =============================================================================

// Catalog lists the selectable models in display order.
var Catalog = []ModelInfo{
	{
		ID:            "llama-3.3-70b-versatile",
		Name:          "Llama 3.3 70B",
		DescriptionKO: "다목적 대형 언어 모델",
		DescriptionEN: "Versatile large language model",
		Performance:   "70B",
		Tag:           "Recommended",
	},
	{
		ID:            "qwen-2.5-32b",
		Name:          "Qwen 2.5 32B",
		DescriptionKO: "강력한 다국어 지원",
		DescriptionEN: "Powerful multilingual support",
		Performance:   "32B",
		Tag:           "New",
	},
	{
		ID:            "qwen-2.5-coder-32b",
		Name:          "Qwen Coder 32B",
		DescriptionKO: "코딩 특화 모델",
		DescriptionEN: "Specialized in coding",
		Performance:   "32B",
		Tag:           "New",
	},
	{
		ID:            "deepseek-r1-distill-qwen-32b",
		Name:          "DeepSeek Qwen 32B",
		DescriptionKO: "최적화된 Qwen 모델",
		DescriptionEN: "Optimized Qwen model",
		Performance:   "32B",
	},
	{
		ID:            "deepseek-r1-distill-llama-70b",
		Name:          "DeepSeek Llama 70B",
		DescriptionKO: "최적화된 Llama 모델",
		DescriptionEN: "Optimized Llama model",
		Performance:   "70B",
	},
	{
		ID:            "llama-3.3-70b-specdec",
		Name:          "Llama 3.3 SpecDec",
		DescriptionKO: "특화된 추론 능력",
		DescriptionEN: "Specialized deduction capabilities",
		Performance:   "70B",
	},
	{
		ID:            "mixtral-8x7b-32768",
		Name:          "Mixtral 8x7B",
		DescriptionKO: "초장문 처리 전문",
		DescriptionEN: "Long context specialist",
		Performance:   "32K Context",
	},
	{
		ID:            "gemma2-9b-it",
		Name:          "Gemma 2",
		DescriptionKO: "IT 특화 모델",
		DescriptionEN: "IT specialized model",
		Performance:   "9B",
	},
}

// =============================================================================
// MODEL LOOKUP FUNCTIONS
// =============================================================================

// GetModelInfo looks up a model by ID, then by case-insensitive name.
// Returns the ModelInfo and true if found, otherwise empty ModelInfo and false.
func GetModelInfo(nameOrID string) (ModelInfo, bool) {
	if info, ok := lo.Find(Catalog, func(m ModelInfo) bool { return m.ID == nameOrID }); ok {
		return info, true
	}
	return lo.Find(Catalog, func(m ModelInfo) bool {
		return strings.EqualFold(m.Name, nameOrID)
	})
}

// IsKnownModel reports whether id is in the catalog.
func IsKnownModel(id string) bool {
	_, ok := GetModelInfo(id)
	return ok
}

// DisplayName returns the catalog name for id, or id itself when unknown.
func DisplayName(id string) string {
	if info, ok := GetModelInfo(id); ok {
		return info.Name
	}
	return id
}

// ModelIDs returns the catalog IDs in display order.
func ModelIDs() []string {
	return lo.Map(Catalog, func(m ModelInfo, _ int) string { return m.ID })
}

// CatalogIndex returns the position of id in the catalog, or -1.
func CatalogIndex(id string) int {
	_, idx, ok := lo.FindIndexOf(Catalog, func(m ModelInfo) bool { return m.ID == id })
	if !ok {
		return -1
	}
	return idx
}
