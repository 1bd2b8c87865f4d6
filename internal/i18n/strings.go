// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package i18n

import (
	"fmt"

	"github.com/jeranaias/aurora-tui/internal/model"
)

// Key identifies a localized string.
type Key string

// UI string keys.
const (
	KeyAppName           Key = "app_name"
	KeyNewChat           Key = "new_chat"
	KeyPlaceholder       Key = "placeholder"
	KeySendMessage       Key = "send_message"
	KeyStopGenerating    Key = "stop_generating"
	KeyThinking          Key = "thinking"
	KeyDisclaimer        Key = "disclaimer"
	KeyWelcome           Key = "welcome"
	KeyKeyFeatures       Key = "key_features"
	KeyFeatureNLTitle    Key = "feature_nl_title"
	KeyFeatureNLDesc     Key = "feature_nl_desc"
	KeyFeatureCodeTitle  Key = "feature_code_title"
	KeyFeatureCodeDesc   Key = "feature_code_desc"
	KeyFeatureSolveTitle Key = "feature_solve_title"
	KeyFeatureSolveDesc  Key = "feature_solve_desc"
	KeyFeatureKBTitle    Key = "feature_kb_title"
	KeyFeatureKBDesc     Key = "feature_kb_desc"
	KeySelectModel       Key = "select_model"
	KeyChats             Key = "chats"
	KeyNoChats           Key = "no_chats"
	KeyDeleteChat        Key = "delete_chat"
	KeyClearChats        Key = "clear_chats"
	KeyConfirmClear      Key = "confirm_clear"
	KeyConfirmDelete     Key = "confirm_delete"
	KeySettings          Key = "settings"
	KeyTheme             Key = "theme"
	KeyFontSize          Key = "font_size"
	KeyEnterToSend       Key = "enter_to_send"
	KeyLanguage          Key = "language"
	KeyOn                Key = "on"
	KeyOff               Key = "off"
	KeyCopied            Key = "copied"
	KeyNothingToCopy     Key = "nothing_to_copy"
	KeyCopyFailed        Key = "copy_failed"
	KeyExported          Key = "exported"
	KeyExportFailed      Key = "export_failed"
	KeyNothingToExport   Key = "nothing_to_export"
	KeyBusy              Key = "busy"
	KeyHelpEnterSends    Key = "help_enter_sends"
	KeyHelpCtrlSSends    Key = "help_ctrl_s_sends"
	KeyNotConfigured     Key = "not_configured"
)

// catalog maps each key to its Korean and English text.
var catalog = map[Key][2]string{
	KeyAppName:        {"Aurora AI", "Aurora AI"},
	KeyNewChat:        {"새로운 채팅", "New Chat"},
	KeyPlaceholder:    {"메시지 보내기...", "Send a message..."},
	KeySendMessage:    {"메시지 전송", "Send message"},
	KeyStopGenerating: {"생성 중지", "Stop generating"},
	KeyThinking:       {"생각하는 중", "Thinking"},
	KeyDisclaimer: {
		"무료 연구 프리뷰. AI는 사람, 장소 또는 사실에 대한 부정확한 정보를 생성할 수 있습니다.",
		"Free Research Preview. AI may produce inaccurate information about people, places, or facts.",
	},
	KeyWelcome: {
		"Aurora AI와 함께 더 빠르고 강력한 AI 경험을 시작하세요. Groq의 초고속 추론 엔진을 기반으로 한 Aurora AI는 자연어 처리, 코드 생성, 분석 및 창의적인 작업을 즉각적으로 처리합니다.",
		"Welcome to Aurora AI, powered by Groq's ultra-fast inference engine. Experience lightning-fast responses for natural language processing, code generation, analysis, and creative tasks.",
	},
	KeyKeyFeatures:    {"주요 기능", "Key Features"},
	KeyFeatureNLTitle: {"자연어 처리", "Natural Language"},
	KeyFeatureNLDesc: {
		"고급 자연어 이해 및 생성 능력으로 자연스러운 대화와 텍스트 생성",
		"Advanced language understanding for natural conversations and text generation",
	},
	KeyFeatureCodeTitle: {"코드 생성", "Code Generation"},
	KeyFeatureCodeDesc: {
		"다양한 프로그래밍 언어에 대한 코드 작성 및 최적화 제안",
		"Write, explain, and optimize code across multiple programming languages",
	},
	KeyFeatureSolveTitle: {"문제 해결", "Problem Solving"},
	KeyFeatureSolveDesc: {
		"복잡한 문제를 단계별로 분석하고 효율적인 해결책 제시",
		"Analyze complex problems and provide step-by-step solutions",
	},
	KeyFeatureKBTitle: {"지식 베이스", "Knowledge Base"},
	KeyFeatureKBDesc: {
		"광범위한 분야의 최신 지식과 정보를 활용한 답변 제공",
		"Leverage extensive knowledge across various domains for informed responses",
	},
	KeySelectModel:     {"모델 선택", "Select Model"},
	KeyChats:           {"채팅 목록", "Chats"},
	KeyNoChats:         {"채팅이 없습니다", "No chats yet"},
	KeyDeleteChat:      {"채팅 삭제", "Delete chat"},
	KeyClearChats:      {"모든 채팅 삭제", "Clear all chats"},
	KeyConfirmClear:    {"모든 채팅을 삭제할까요?", "Delete all chats?"},
	KeyConfirmDelete:   {"%q 채팅을 삭제할까요?", "Delete chat %q?"},
	KeySettings:        {"설정", "Settings"},
	KeyTheme:           {"테마", "Theme"},
	KeyFontSize:        {"글자 크기", "Font size"},
	KeyEnterToSend:     {"Enter로 전송", "Enter to send"},
	KeyLanguage:        {"언어", "Language"},
	KeyOn:              {"켜짐", "On"},
	KeyOff:             {"꺼짐", "Off"},
	KeyCopied:          {"복사되었습니다", "Copied!"},
	KeyNothingToCopy:   {"복사할 응답이 없습니다", "No response to copy"},
	KeyCopyFailed:      {"복사 실패: %v", "Copy failed: %v"},
	KeyExported:        {"내보내기 완료: %s", "Exported to %s"},
	KeyExportFailed:    {"내보내기 실패: %v", "Export failed: %v"},
	KeyNothingToExport: {"내보낼 대화가 없습니다", "Nothing to export"},
	KeyBusy:            {"이미 응답을 생성하는 중입니다.", "A response is already being generated."},
	KeyHelpEnterSends:  {"Enter 전송 · Alt+Enter 줄바꿈", "Enter send · Alt+Enter newline"},
	KeyHelpCtrlSSends:  {"Ctrl+S 전송 · Enter 줄바꿈", "Ctrl+S send · Enter newline"},
	KeyNotConfigured: {
		"API 키가 설정되지 않았습니다. GROQ_API_KEY 환경 변수를 설정하거나 'aurora config set-key'를 실행하세요.",
		"API key is not configured. Set GROQ_API_KEY or run 'aurora config set-key'.",
	},
}

// T returns the text for key in lang. Unknown keys return the key itself.
func T(lang model.Language, key Key) string {
	pair, ok := catalog[key]
	if !ok {
		return string(key)
	}
	if lang == model.LanguageEnglish {
		return pair[1]
	}
	return pair[0]
}

// Tf formats the text for key in lang with args.
func Tf(lang model.Language, key Key, args ...any) string {
	return fmt.Sprintf(T(lang, key), args...)
}
