// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/aurora-tui/internal/export"
	"github.com/jeranaias/aurora-tui/internal/i18n"
	"github.com/jeranaias/aurora-tui/internal/model"
	"github.com/jeranaias/aurora-tui/internal/session"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StateChangedMsg:
		cmds = append(cmds, m.notifier.Wait())
		if ok, tick := m.pacer.Allow(); ok {
			m.refresh()
		} else if tick != nil {
			cmds = append(cmds, tick)
		}
		cmds = append(cmds, m.syncSpinner())

	case RenderTickMsg:
		m.pacer.Fired()
		m.refresh()

	case SubmitDoneMsg:
		m.refresh()
		switch {
		case msg.Err == nil:
		case errors.Is(msg.Err, session.ErrBusy):
			cmds = append(cmds, m.showToast(i18n.T(m.lang(), i18n.KeyBusy), false))
		case errors.Is(msg.Err, session.ErrEmptyInput):
		default:
			// Already written into the conversation by the holder.
			m.logger.Warn("submission failed", "error", msg.Err)
		}

	case spinner.TickMsg:
		if !m.snap.Thinking() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		cmds = append(cmds, cmd)

	case CopiedMsg:
		if msg.Err != nil {
			cmds = append(cmds, m.showToast(i18n.Tf(m.lang(), i18n.KeyCopyFailed, msg.Err), false))
		} else {
			cmds = append(cmds, m.showToast(i18n.T(m.lang(), i18n.KeyCopied), true))
		}

	case ExportedMsg:
		if msg.Err != nil {
			m.logger.Warn("export failed", "error", msg.Err)
			cmds = append(cmds, m.showToast(i18n.Tf(m.lang(), i18n.KeyExportFailed, msg.Err), false))
		} else {
			cmds = append(cmds, m.showToast(i18n.Tf(m.lang(), i18n.KeyExported, msg.Path), true))
		}

	case ToastExpiredMsg:
		if msg.ID == m.toast.id {
			m.toast.text = ""
		}

	default:
		// Cursor blink and other component messages.
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// syncSpinner starts the spinner when a submission is waiting for its first
// token. The spinner stops itself once thinking ends.
func (m *Model) syncSpinner() tea.Cmd {
	if m.snap.Thinking() && !m.spinning {
		m.spinning = true
		return m.spinner.Tick
	}
	return nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.holder.Cancel()
		return m, tea.Quit
	}
	if m.overlay != overlayNone {
		return m.handleOverlayKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Cancel):
		if m.holder.Phase() != session.PhaseIdle {
			m.holder.Cancel()
		} else if m.focus == focusSidebar {
			m.focusInput()
		}
		return m, nil

	case key.Matches(msg, m.keys.NewChat):
		m.holder.NewChat()
		m.sidebarCursor = 0
		m.focusInput()
		m.refresh()
		m.viewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.FocusNext):
		if m.focus == focusInput && m.theme.SidebarVisible() {
			m.focus = focusSidebar
			m.input.Blur()
			m.sidebarCursor = m.currentIndex()
		} else {
			m.focusInput()
		}
		return m, nil

	case key.Matches(msg, m.keys.ClearAll):
		if len(m.snap.Chats) > 0 {
			m.openConfirm(confirmation{
				kind:   confirmClear,
				prompt: i18n.T(m.lang(), i18n.KeyConfirmClear),
			})
		}
		return m, nil

	case key.Matches(msg, m.keys.Models):
		m.openModelPicker()
		return m, nil

	case key.Matches(msg, m.keys.Settings):
		m.overlay = overlaySettings
		m.settingsCursor = 0
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		return m, m.copyLastResponse()

	case key.Matches(msg, m.keys.Export):
		return m, m.exportCurrent()

	case key.Matches(msg, m.keys.Help):
		m.overlay = overlayHelp
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}

	if key.Matches(msg, m.keys.Send) {
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.snap.Chats)

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.sidebarCursor > 0 {
			m.sidebarCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.sidebarCursor < n-1 {
			m.sidebarCursor++
		}
	case key.Matches(msg, m.keys.Open):
		if n > 0 {
			if err := m.holder.SelectChat(m.snap.Chats[m.sidebarCursor].ID); err == nil {
				m.focusInput()
				m.refresh()
				m.viewport.GotoBottom()
			}
		}
	case key.Matches(msg, m.keys.Delete):
		if n > 0 {
			conv := m.snap.Chats[m.sidebarCursor]
			m.openConfirm(confirmation{
				kind:   confirmDelete,
				chatID: conv.ID,
				prompt: i18n.Tf(m.lang(), i18n.KeyConfirmDelete, conv.Title),
			})
		}
	}
	return m, nil
}

func (m Model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.overlay {
	case overlayModels:
		switch msg.String() {
		case "esc":
			m.overlay = overlayNone
			return m, nil
		case "enter":
			if item, ok := m.models.SelectedItem().(modelItem); ok {
				m.holder.SetModel(item.info.ID)
				m.refresh()
			}
			m.overlay = overlayNone
			return m, nil
		}
		var cmd tea.Cmd
		m.models, cmd = m.models.Update(msg)
		return m, cmd

	case overlaySettings:
		rows := len(m.settingRows())
		switch {
		case key.Matches(msg, m.keys.Up):
			m.settingsCursor = (m.settingsCursor + rows - 1) % rows
		case key.Matches(msg, m.keys.Down):
			m.settingsCursor = (m.settingsCursor + 1) % rows
		case key.Matches(msg, m.keys.CycleValue):
			m.cycleSetting(m.settingsCursor)
		case key.Matches(msg, m.keys.Dismiss):
			m.overlay = overlayNone
		}
		return m, nil

	case overlayConfirm:
		m.overlay = overlayNone
		if key.Matches(msg, m.keys.Confirm) {
			m.runConfirmed()
		}
		return m, nil

	default:
		m.overlay = overlayNone
		return m, nil
	}
}

// =============================================================================
// ACTIONS
// =============================================================================

// submit sends the input text. Blank input is ignored; input typed while a
// response is streaming is kept in the box.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		return m, nil
	}
	if m.holder.Phase() != session.PhaseIdle {
		return m, m.showToast(i18n.T(m.lang(), i18n.KeyBusy), false)
	}

	m.input.Reset()
	m.viewport.GotoBottom()
	return m, submitCmd(m.holder, m.streamer, text, m.notifier.Notify)
}

func (m *Model) focusInput() {
	m.focus = focusInput
	m.input.Focus()
}

// currentIndex returns the sidebar row of the current chat, or 0.
func (m *Model) currentIndex() int {
	for i, c := range m.snap.Chats {
		if c.ID == m.snap.CurrentID {
			return i
		}
	}
	return 0
}

func (m *Model) openConfirm(c confirmation) {
	m.confirm = c
	m.overlay = overlayConfirm
}

func (m *Model) runConfirmed() {
	switch m.confirm.kind {
	case confirmDelete:
		if err := m.holder.DeleteChat(m.confirm.chatID); err != nil {
			m.logger.Warn("delete chat", "id", m.confirm.chatID, "error", err)
		}
	case confirmClear:
		m.holder.ClearChats()
		m.focusInput()
	}
	m.refresh()
}

func (m *Model) openModelPicker() {
	m.models.SetItems(modelItems(m.lang()))
	if idx := model.CatalogIndex(m.snap.Model); idx >= 0 {
		m.models.Select(idx)
	}
	m.overlay = overlayModels
}

// cycleSetting advances the setting on the given row to its next value.
func (m *Model) cycleSetting(row int) {
	s := m.holder.Settings()
	switch row {
	case 0:
		s.Theme = s.Theme.Next()
	case 1:
		s.FontSize = s.FontSize.Next()
	case 2:
		s.EnterToSend = !s.EnterToSend
	case 3:
		s.Language = s.Language.Next()
	}
	m.holder.UpdateSettings(s)
	m.refresh()
}

// copyLastResponse copies the latest finished assistant response. The
// message still being streamed is never copied.
func (m *Model) copyLastResponse() tea.Cmd {
	conv, ok := m.snap.Current()
	if ok && m.snap.Loading() && len(conv.Messages) > 0 {
		conv.Messages = conv.Messages[:len(conv.Messages)-1]
	}

	var text string
	if ok {
		text, ok = conv.LastAssistantContent()
	}
	if !ok {
		return m.showToast(i18n.T(m.lang(), i18n.KeyNothingToCopy), false)
	}

	write := m.clipboard
	return func() tea.Msg {
		return CopiedMsg{Err: write(text)}
	}
}

// exportCurrent writes the current conversation as Markdown to the export
// directory.
func (m *Model) exportCurrent() tea.Cmd {
	conv, ok := m.snap.Current()
	if !ok || conv.IsEmpty() {
		return m.showToast(i18n.T(m.lang(), i18n.KeyNothingToExport), false)
	}

	opts := export.DefaultOptions()
	opts.OutputDir = m.exportDir
	exporter := export.NewMarkdownExporter(opts)
	return func() tea.Msg {
		path, err := export.ExportToFile(conv, exporter, opts)
		return ExportedMsg{Path: path, Err: err}
	}
}
