// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package i18n holds the Korean and English user-facing strings, the
// localized error explanations shown in place of a failed response, and
// locale detection.
//
// Strings are looked up by Key:
//
//	i18n.T(model.LanguageEnglish, i18n.KeyPlaceholder) // "Send a message..."
//
// Errors from the transport are turned into the message shown to the user:
//
//	content := i18n.FailureMessage(err, settings.Language)
package i18n
