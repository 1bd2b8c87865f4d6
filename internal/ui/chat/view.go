// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/aurora-tui/internal/i18n"
	"github.com/jeranaias/aurora-tui/internal/model"
	"github.com/jeranaias/aurora-tui/internal/session"
	"github.com/jeranaias/aurora-tui/internal/ui/styles"
	"github.com/jeranaias/aurora-tui/internal/util"
)

// View renders the whole screen.
func (m Model) View() string {
	if !m.ready {
		return ""
	}

	if m.overlay != overlayNone {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderOverlay())
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderInput(),
		m.renderHintLine(),
		m.theme.Disclaimer.Render(util.FitWidth(i18n.T(m.lang(), i18n.KeyDisclaimer), m.theme.MainWidth())),
	)

	if !m.theme.SidebarVisible() {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), main)
}

// =============================================================================
// HEADER AND FOOTER
// =============================================================================

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render(i18n.T(m.lang(), i18n.KeyAppName))
	name := m.theme.HeaderModel.Render(model.DisplayName(m.snap.Model))

	line := title + "  " + name
	if info, ok := model.GetModelInfo(m.snap.Model); ok && info.Tag != "" {
		line += " " + m.theme.Tag.Render(info.TagIcon()+" "+info.Tag)
	}
	return m.theme.Header.Width(m.theme.MainWidth()).Render(line)
}

func (m Model) renderInput() string {
	style := m.theme.InputContainer
	if m.focus == focusInput {
		style = m.theme.InputFocused
	}
	return style.Render(m.input.View())
}

func (m Model) renderHintLine() string {
	width := m.theme.MainWidth()

	var hint string
	switch {
	case m.snap.Loading():
		hint = "esc: " + i18n.T(m.lang(), i18n.KeyStopGenerating)
	case m.snap.Settings.EnterToSend:
		hint = i18n.T(m.lang(), i18n.KeyHelpEnterSends)
	default:
		hint = i18n.T(m.lang(), i18n.KeyHelpCtrlSSends)
	}
	hint += " · F1"

	if m.toast.text == "" {
		return m.theme.Hint.Render(util.FitWidth(hint, width))
	}

	status := m.theme.RenderStatus(m.toast.success, m.toast.text)
	room := width - lipgloss.Width(status) - 1
	if room <= 0 {
		return status
	}
	left := m.theme.Hint.Render(util.PadWidth(hint, room))
	return left + " " + status
}

// =============================================================================
// SIDEBAR
// =============================================================================

func (m Model) renderSidebar() string {
	inner := styles.SidebarWidth - 3
	lang := m.lang()

	var b strings.Builder
	b.WriteString(m.theme.SidebarTitle.Render(i18n.T(lang, i18n.KeyChats)))
	b.WriteString("\n")
	b.WriteString(m.theme.SidebarCursor.Render(util.FitWidth("+ "+i18n.T(lang, i18n.KeyNewChat)+"  C-n", inner)))
	b.WriteString("\n\n")

	// Title (2 lines), new chat (2 lines), footer hint (2 lines).
	rows := max(m.height-6, 1)

	if len(m.snap.Chats) == 0 {
		b.WriteString(m.theme.SidebarHint.Render(i18n.T(lang, i18n.KeyNoChats)))
		b.WriteString("\n")
	}

	start, end := visibleWindow(len(m.snap.Chats), m.sidebarCursor, rows)
	for i := start; i < end; i++ {
		conv := m.snap.Chats[i]

		prefix := "  "
		if m.focus == focusSidebar && i == m.sidebarCursor {
			prefix = m.theme.SidebarCursor.Render("›") + " "
		}

		title := util.SingleLine(conv.Title)
		if strings.TrimSpace(title) == "" {
			title = i18n.T(lang, i18n.KeyNewChat)
		}
		title = util.PadWidth(title, inner-2)

		style := m.theme.SidebarItem
		if conv.ID == m.snap.CurrentID {
			style = m.theme.SidebarItemActive
		}
		b.WriteString(prefix + style.Render(title) + "\n")
	}

	content := strings.TrimRight(b.String(), "\n")
	used := lipgloss.Height(content)
	if pad := m.height - used - 1; pad > 0 {
		content += strings.Repeat("\n", pad)
	}
	content += "\n" + m.theme.SidebarHint.Render(util.FitWidth("C-o "+i18n.T(lang, i18n.KeySelectModel)+" · C-g "+i18n.T(lang, i18n.KeySettings), inner))

	return m.theme.Sidebar.Height(m.height).MaxHeight(m.height).Render(content)
}

// visibleWindow returns the [start, end) range of n rows that keeps cursor
// inside a window of size rows.
func visibleWindow(n, cursor, rows int) (int, int) {
	if n <= rows {
		return 0, n
	}
	start := cursor - rows/2
	start = max(start, 0)
	start = min(start, n-rows)
	return start, start + rows
}

// =============================================================================
// CONVERSATION
// =============================================================================

// renderMain renders the scrollable pane: the current conversation, or the
// welcome screen when there is nothing to show.
func (m Model) renderMain(width int) string {
	conv, ok := m.snap.Current()
	if !ok || conv.IsEmpty() {
		return m.renderWelcome(width)
	}
	return m.renderConversation(conv, width)
}

func (m Model) renderConversation(conv model.Conversation, width int) string {
	var b strings.Builder
	last := len(conv.Messages) - 1

	for i, msg := range conv.Messages {
		if i > 0 {
			b.WriteString("\n")
		}

		if msg.IsUser() {
			b.WriteString(m.theme.UserLabel.Render(msg.Role.DisplayName()))
			b.WriteString("\n")
			b.WriteString(m.theme.UserMessage.Width(width - 2).Render(msg.Content))
			b.WriteString("\n")
			continue
		}

		b.WriteString(m.theme.AssistantLabel.Render(msg.Role.DisplayName()))
		b.WriteString("\n")

		switch {
		case i == last && m.snap.Thinking() && msg.Content == "":
			b.WriteString("  " + m.spinner.View() + " " + m.theme.ThinkingText.Render(i18n.T(m.lang(), i18n.KeyThinking)))
		case i == last && m.snap.Loading():
			// Still streaming; not worth caching.
			b.WriteString(m.renderer.Render(msg.Content))
		case i == last && m.snap.Phase == session.PhaseIdle && m.snap.Outcome == session.OutcomeError:
			b.WriteString(m.theme.ErrorMessage.Width(width - 2).Render(msg.Content))
		default:
			b.WriteString(m.cache.Get(msg.Content, m.renderer.Render))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderWelcome(width int) string {
	lang := m.lang()
	text := width - 4

	features := []struct{ title, desc i18n.Key }{
		{i18n.KeyFeatureNLTitle, i18n.KeyFeatureNLDesc},
		{i18n.KeyFeatureCodeTitle, i18n.KeyFeatureCodeDesc},
		{i18n.KeyFeatureSolveTitle, i18n.KeyFeatureSolveDesc},
		{i18n.KeyFeatureKBTitle, i18n.KeyFeatureKBDesc},
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(m.theme.WelcomeTitle.Render(i18n.T(lang, i18n.KeyAppName)))
	b.WriteString("\n")
	b.WriteString(m.theme.WelcomeText.Width(text).Render(i18n.T(lang, i18n.KeyWelcome)))
	b.WriteString("\n\n")
	b.WriteString(m.theme.FeatureTitle.Render(i18n.T(lang, i18n.KeyKeyFeatures)))
	b.WriteString("\n\n")
	for _, f := range features {
		b.WriteString(m.theme.FeatureTitle.Render("◆ " + i18n.T(lang, f.title)))
		b.WriteString("\n")
		b.WriteString(m.theme.FeatureDesc.Width(text).Render(i18n.T(lang, f.desc)))
		b.WriteString("\n")
	}
	return lipgloss.NewStyle().PaddingLeft(2).Render(b.String())
}

// =============================================================================
// OVERLAYS
// =============================================================================

func (m Model) renderOverlay() string {
	var body string
	switch m.overlay {
	case overlayModels:
		body = m.models.View()
	case overlaySettings:
		body = m.renderSettings()
	case overlayConfirm:
		body = m.theme.DialogTitle.Render(m.confirm.prompt) + "\n" + m.theme.Hint.Render("[y/N]")
	case overlayHelp:
		body = m.help.FullHelpView(m.keys.FullHelp())
	}
	return m.theme.Dialog.Render(body)
}

// settingRow is one editable line in the settings dialog.
type settingRow struct {
	label i18n.Key
	value string
}

func (m Model) settingRows() []settingRow {
	s := m.snap.Settings
	lang := m.lang()

	onOff := i18n.T(lang, i18n.KeyOff)
	if s.EnterToSend {
		onOff = i18n.T(lang, i18n.KeyOn)
	}
	return []settingRow{
		{i18n.KeyTheme, string(s.Theme)},
		{i18n.KeyFontSize, string(s.FontSize)},
		{i18n.KeyEnterToSend, onOff},
		{i18n.KeyLanguage, s.Language.DisplayName()},
	}
}

func (m Model) renderSettings() string {
	lang := m.lang()

	var b strings.Builder
	b.WriteString(m.theme.DialogTitle.Render(i18n.T(lang, i18n.KeySettings)))
	b.WriteString("\n")
	for i, row := range m.settingRows() {
		line := fmt.Sprintf("%s  %s",
			util.PadWidth(i18n.T(lang, row.label), 16),
			m.theme.DialogValue.Render(row.value))
		if i == m.settingsCursor {
			line = m.theme.DialogItemActive.Render("›") + " " + line
		} else {
			line = "  " + m.theme.DialogItem.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + m.theme.Hint.Render("enter: change · esc: close"))
	return b.String()
}
