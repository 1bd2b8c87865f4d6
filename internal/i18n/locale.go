// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package i18n

import (
	"os"
	"strings"

	"golang.org/x/text/language"

	"github.com/jeranaias/aurora-tui/internal/model"
)

// supported is ordered so that index 0 is the fallback.
var supported = []model.Language{model.LanguageKorean, model.LanguageEnglish}

var matcher = language.NewMatcher([]language.Tag{language.Korean, language.English})

// Match picks the supported language closest to the given BCP 47 or POSIX
// locale strings (for example "en-US", "ko_KR.UTF-8", "en;q=0.8"). Korean is
// returned when nothing matches.
func Match(locales ...string) model.Language {
	cleaned := make([]string, 0, len(locales))
	for _, l := range locales {
		if l = cleanLocale(l); l != "" {
			cleaned = append(cleaned, l)
		}
	}
	if len(cleaned) == 0 {
		return supported[0]
	}

	_, idx := language.MatchStrings(matcher, cleaned...)
	if idx < 0 || idx >= len(supported) {
		return supported[0]
	}
	return supported[idx]
}

// FromEnvironment matches the POSIX locale variables in precedence order.
func FromEnvironment() model.Language {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := cleanLocale(os.Getenv(name)); v != "" {
			return Match(v)
		}
	}
	return supported[0]
}

// cleanLocale strips the codeset and modifier from POSIX locales and drops
// the C/POSIX pseudo-locales.
func cleanLocale(l string) string {
	if i := strings.IndexAny(l, ".@"); i >= 0 {
		l = l[:i]
	}
	l = strings.TrimSpace(strings.ReplaceAll(l, "_", "-"))
	if l == "C" || l == "POSIX" {
		return ""
	}
	return l
}
