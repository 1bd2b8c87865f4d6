// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// SETTING VALUE TYPES
// =============================================================================

// Theme selects the color scheme.
type Theme string

const (
	ThemeSystem Theme = "system" // follow the terminal background
	ThemeDark   Theme = "dark"
	ThemeLight  Theme = "light"
)

// IsValid reports whether t is a known theme.
func (t Theme) IsValid() bool {
	switch t {
	case ThemeSystem, ThemeDark, ThemeLight:
		return true
	}
	return false
}

// FontSize is the text size preference. In a terminal it controls how wide
// rendered messages are wrapped.
type FontSize string

const (
	FontSizeSmall FontSize = "sm"
	FontSizeBase  FontSize = "base"
	FontSizeLarge FontSize = "lg"
)

// IsValid reports whether f is a known font size.
func (f FontSize) IsValid() bool {
	switch f {
	case FontSizeSmall, FontSizeBase, FontSizeLarge:
		return true
	}
	return false
}

// WrapWidth returns the preferred markdown wrap width in columns. Smaller
// text fits more per line.
func (f FontSize) WrapWidth() int {
	switch f {
	case FontSizeSmall:
		return 100
	case FontSizeLarge:
		return 64
	default:
		return 80
	}
}

// Language is a UI language.
type Language string

const (
	LanguageKorean  Language = "ko"
	LanguageEnglish Language = "en"
)

// IsValid reports whether l is a supported language.
func (l Language) IsValid() bool {
	return l == LanguageKorean || l == LanguageEnglish
}

// DisplayName returns the language's name in that language.
func (l Language) DisplayName() string {
	switch l {
	case LanguageKorean:
		return "한국어"
	case LanguageEnglish:
		return "English"
	default:
		return string(l)
	}
}

// =============================================================================
// SETTINGS
// =============================================================================

// Settings holds the user preferences. The JSON field names match the
// persisted "settings" blob.
type Settings struct {
	Theme       Theme    `json:"theme"`
	FontSize    FontSize `json:"fontSize"`
	EnterToSend bool     `json:"enterToSend"`
	Language    Language `json:"language"`

	UserProfileImage      string `json:"userProfileImage,omitempty"`
	AssistantProfileImage string `json:"assistantProfileImage,omitempty"`
}

// DefaultSettings returns the settings used before anything is stored.
func DefaultSettings() Settings {
	return Settings{
		Theme:       ThemeSystem,
		FontSize:    FontSizeBase,
		EnterToSend: true,
		Language:    LanguageKorean,
	}
}

// Normalize replaces unknown enum values with their defaults.
func (s Settings) Normalize() Settings {
	def := DefaultSettings()
	if !s.Theme.IsValid() {
		s.Theme = def.Theme
	}
	if !s.FontSize.IsValid() {
		s.FontSize = def.FontSize
	}
	if !s.Language.IsValid() {
		s.Language = def.Language
	}
	return s
}

// Next cycles system → dark → light → system.
func (t Theme) Next() Theme {
	switch t {
	case ThemeSystem:
		return ThemeDark
	case ThemeDark:
		return ThemeLight
	default:
		return ThemeSystem
	}
}

// Next cycles sm → base → lg → sm.
func (f FontSize) Next() FontSize {
	switch f {
	case FontSizeSmall:
		return FontSizeBase
	case FontSizeBase:
		return FontSizeLarge
	default:
		return FontSizeSmall
	}
}

// Next toggles between Korean and English.
func (l Language) Next() Language {
	if l == LanguageKorean {
		return LanguageEnglish
	}
	return LanguageKorean
}
