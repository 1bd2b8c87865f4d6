// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/aurora-tui/internal/i18n"
	"github.com/jeranaias/aurora-tui/internal/model"
	"github.com/jeranaias/aurora-tui/internal/render"
	"github.com/jeranaias/aurora-tui/internal/session"
	"github.com/jeranaias/aurora-tui/internal/ui/styles"
)

// toastDuration is how long a status message stays visible.
const toastDuration = 3 * time.Second

// Layout rows outside the viewport: header, input box (3 lines plus
// border), hint and disclaimer.
const (
	headerHeight = 1
	inputHeight  = 3
	footerHeight = inputHeight + 2 + 2
)

// focusArea is the pane that receives key presses.
type focusArea int

const (
	focusInput focusArea = iota
	focusSidebar
)

// overlayKind is the dialog drawn over the conversation.
type overlayKind int

const (
	overlayNone overlayKind = iota
	overlayModels
	overlaySettings
	overlayConfirm
	overlayHelp
)

// confirmKind is the action awaiting confirmation.
type confirmKind int

const (
	confirmDelete confirmKind = iota
	confirmClear
)

type confirmation struct {
	kind   confirmKind
	chatID string
	prompt string
}

type toast struct {
	id      int
	text    string
	success bool
}

// Options configures a chat model.
type Options struct {
	Holder   *session.Holder
	Streamer session.Streamer

	// ExportDir receives Ctrl+E exports.
	ExportDir string

	// Clipboard writes text to the system clipboard. Defaults to
	// clipboard.WriteAll.
	Clipboard func(string) error

	// Theme overrides the theme built from settings. Used by tests.
	Theme *styles.Theme

	// MarkdownStyle overrides the glamour style derived from the theme,
	// e.g. render.StylePlain when NO_COLOR is set.
	MarkdownStyle string

	Logger *slog.Logger
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat interface.
type Model struct {
	holder    *session.Holder
	streamer  session.Streamer
	exportDir string
	clipboard func(string) error
	logger    *slog.Logger

	// Styling
	theme         *styles.Theme
	fixedTheme    bool
	markdownStyle string
	renderer      *render.Renderer
	cache         *renderCache

	// Dimensions
	width  int
	height int
	ready  bool

	// UI Components
	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model
	help     help.Model
	models   list.Model
	keys     KeyMap

	// Latest holder state
	snap session.Snapshot

	focus          focusArea
	overlay        overlayKind
	sidebarCursor  int
	settingsCursor int
	confirm        confirmation
	toast          toast
	spinning       bool

	notifier *changeNotifier
	pacer    *renderPacer
}

// New creates a chat model.
func New(opts Options) Model {
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}

	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.SetHeight(inputHeight)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = styles.ThinkingSpinner

	picker := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	picker.SetShowStatusBar(false)
	picker.SetShowHelp(false)
	picker.SetFilteringEnabled(false)
	picker.KeyMap.Quit.SetEnabled(false)
	picker.KeyMap.ForceQuit.SetEnabled(false)

	m := Model{
		holder:        opts.Holder,
		streamer:      opts.Streamer,
		exportDir:     opts.ExportDir,
		clipboard:     opts.Clipboard,
		logger:        opts.Logger,
		theme:         opts.Theme,
		fixedTheme:    opts.Theme != nil,
		markdownStyle: opts.MarkdownStyle,
		cache:         newRenderCache(),
		viewport:      viewport.New(0, 0),
		input:         ta,
		spinner:       sp,
		help:          help.New(),
		models:        picker,
		keys:          DefaultKeyMap(),
		snap:          opts.Holder.Snapshot(),
		notifier:      newChangeNotifier(),
		pacer:         newRenderPacer(maxRenderFPS),
	}
	m.applySettings(m.snap.Settings)
	return m
}

// Init starts the cursor blink and the change listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.notifier.Wait())
}

// =============================================================================
// STATE HELPERS
// =============================================================================

// lang returns the UI language.
func (m *Model) lang() model.Language {
	return m.snap.Settings.Language
}

// applySettings rebuilds everything that depends on user settings.
func (m *Model) applySettings(s model.Settings) {
	if !m.fixedTheme {
		m.theme = styles.NewTheme(s.Theme)
	}
	m.theme.SetSize(m.width, m.height)

	style := m.markdownStyle
	if style == "" {
		style = render.StyleFor(s.Theme, m.theme.IsDark)
	}
	if m.renderer == nil {
		m.renderer = render.New(style, m.wrapWidth(s))
	} else {
		m.renderer.Configure(style, m.wrapWidth(s))
	}
	m.cache.Reset()

	m.keys.SetEnterToSend(s.EnterToSend)
	if s.EnterToSend {
		m.input.KeyMap.InsertNewline.SetKeys("alt+enter")
	} else {
		m.input.KeyMap.InsertNewline.SetKeys("enter", "ctrl+m")
	}
	m.input.Placeholder = i18n.T(s.Language, i18n.KeyPlaceholder)
	m.spinner.Style = m.theme.Spinner
	m.models.Title = i18n.T(s.Language, i18n.KeySelectModel)
}

// wrapWidth is the markdown wrap width: the font size setting, narrowed to
// fit the conversation pane.
func (m *Model) wrapWidth(s model.Settings) int {
	w := s.FontSize.WrapWidth()
	if pane := m.theme.MainWidth() - 4; m.width > 0 && pane < w {
		w = pane
	}
	if w < 20 {
		w = 20
	}
	return w
}

// resize lays out all components for a new terminal size.
func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.theme.SetSize(width, height)

	main := m.theme.MainWidth()
	m.input.SetWidth(main - 4)
	m.viewport.Width = main
	m.viewport.Height = max(height-headerHeight-footerHeight, 1)
	m.models.SetSize(min(main, 70)-6, max(height-8, 6))
	m.help.Width = main

	m.renderer.Configure(m.renderer.Style(), m.wrapWidth(m.snap.Settings))
	m.ready = true
}

// refresh re-reads the holder and rebuilds the viewport content.
func (m *Model) refresh() {
	prev := m.snap.Settings
	m.snap = m.holder.Snapshot()
	if m.snap.Settings != prev {
		m.applySettings(m.snap.Settings)
	}

	if n := len(m.snap.Chats); m.sidebarCursor >= n {
		m.sidebarCursor = max(n-1, 0)
	}
	if !m.ready {
		return
	}

	follow := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderMain(m.viewport.Width))
	if follow {
		m.viewport.GotoBottom()
	}
}

// showToast sets the status message and schedules its expiry.
func (m *Model) showToast(text string, success bool) tea.Cmd {
	id := m.toast.id + 1
	m.toast = toast{id: id, text: text, success: success}
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return ToastExpiredMsg{ID: id}
	})
}
