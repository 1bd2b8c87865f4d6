// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package i18n

import (
	"errors"
	"fmt"

	"github.com/jeranaias/aurora-tui/internal/groq"
	"github.com/jeranaias/aurora-tui/internal/model"
)

// Short explanations for each failure category, Korean then English.
var (
	errTextAuth = [2]string{
		"API 키가 유효하지 않습니다.",
		"Invalid API key.",
	}
	errTextRateLimit = [2]string{
		"요청이 너무 많습니다. 잠시 후 다시 시도해주세요.",
		"Too many requests. Please try again later.",
	}
	errTextGeneric = [2]string{
		"요청 처리 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요.",
		"An error occurred while processing the request. Please try again later.",
	}
	errTextNoBody = [2]string{
		"응답을 받을 수 없습니다.",
		"Could not receive a response.",
	}
	errTextNotConfigured = [2]string{
		"API 키가 설정되지 않았습니다.",
		"API key is not configured.",
	}
	errTextBusy = [2]string{
		"이미 응답을 생성하는 중입니다.",
		"A response is already being generated.",
	}
)

// failureTemplate wraps the short explanation into the text that replaces a
// failed assistant response.
var failureTemplate = [2]string{
	"오류: API 연결 실패\n\n상세 내용: %s\n\n다음을 확인해주세요:\n1. API 키가 올바른지 확인\n2. 인터넷 연결 상태 확인\n3. API 요청 한도 확인",
	"Error: Failed to connect to API\n\nDetails: %s\n\nPlease check:\n1. Verify API key is correct\n2. Check internet connection\n3. Verify API rate limits",
}

func pick(pair [2]string, lang model.Language) string {
	if lang == model.LanguageEnglish {
		return pair[1]
	}
	return pair[0]
}

// ErrorText returns the short localized explanation for a transport error.
// Authentication and rate-limit failures have fixed texts; every other status
// or network failure gets the generic text.
func ErrorText(err error, lang model.Language) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, groq.ErrAuthFailed):
		return pick(errTextAuth, lang)
	case errors.Is(err, groq.ErrRateLimited):
		return pick(errTextRateLimit, lang)
	case errors.Is(err, groq.ErrNoBody):
		return pick(errTextNoBody, lang)
	case errors.Is(err, groq.ErrNotConfigured):
		return pick(errTextNotConfigured, lang)
	case errors.Is(err, groq.ErrBusy):
		return pick(errTextBusy, lang)
	default:
		return pick(errTextGeneric, lang)
	}
}

// FailureMessage returns the full assistant message shown in place of a
// response that failed with err.
func FailureMessage(err error, lang model.Language) string {
	return fmt.Sprintf(pick(failureTemplate, lang), ErrorText(err, lang))
}
