// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"
	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/aurora-tui/internal/groq"
	"github.com/jeranaias/aurora-tui/internal/i18n"
	"github.com/jeranaias/aurora-tui/internal/model"
)

// Errors returned by the holder.
var (
	// ErrEmptyInput is returned when the submitted text is blank.
	ErrEmptyInput = errors.New("message is empty")

	// ErrBusy is returned when a submission is already in progress.
	ErrBusy = errors.New("a response is already being generated")

	// ErrChatNotFound is returned for an unknown conversation ID.
	ErrChatNotFound = errors.New("chat not found")

	// ErrStaleSubmission is returned when a submission is no longer active.
	ErrStaleSubmission = errors.New("submission is no longer active")
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// Store persists the holder's state. *storage.Repository implements it.
type Store interface {
	SaveChats(chats []model.Conversation) error
	SaveSettings(settings model.Settings) error
}

// Streamer starts streaming completions. *groq.Client implements it.
type Streamer interface {
	NewRequest(model string, messages []groq.ChatMessage) groq.ChatRequest
	Stream(ctx context.Context, req groq.ChatRequest) (<-chan groq.Delta, error)
}

// =============================================================================
// PHASES
// =============================================================================

// Phase is the state of the current submission.
type Phase int

const (
	// PhaseIdle means no submission is running.
	PhaseIdle Phase = iota

	// PhaseAwaiting means the request is out and no delta has arrived yet.
	PhaseAwaiting

	// PhaseStreaming means at least one delta has arrived.
	PhaseStreaming
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaiting:
		return "awaiting"
	case PhaseStreaming:
		return "streaming"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Outcome is how the most recent submission settled.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeSuccess
	OutcomeError
)

// =============================================================================
// SUBMISSION
// =============================================================================

// Submission is one in-progress request.
type Submission struct {
	// ChatID is the conversation receiving the response.
	ChatID string

	// History is the message list sent to the API, ending with the new
	// user message. It excludes the assistant placeholder.
	History []model.Message

	// Model is the model the request was sent to.
	Model string

	ctx    context.Context
	cancel context.CancelFunc
}

// Context returns the submission's context. It is cancelled by
// Holder.Cancel and when the submission settles.
func (s *Submission) Context() context.Context {
	return s.ctx
}

// =============================================================================
// HOLDER
// =============================================================================

// Config is the initial state of a Holder.
type Config struct {
	// Chats is the stored conversation list, newest first.
	Chats []model.Conversation

	// Settings are the loaded user settings.
	Settings model.Settings

	// Model is the model selected at startup (default: model.DefaultModelID).
	Model string

	// Logger receives save failures (default: slog.Default()).
	Logger *slog.Logger
}

// Holder owns the conversations, selection, model and settings.
type Holder struct {
	mu sync.Mutex

	store  Store
	logger *slog.Logger

	chats     []model.Conversation
	currentID string
	model     string
	settings  model.Settings

	phase   Phase
	outcome Outcome
	active  *Submission
	saveErr error
}

// NewHolder creates a holder over store with the given initial state.
func NewHolder(store Store, cfg Config) *Holder {
	if cfg.Model == "" {
		cfg.Model = model.DefaultModelID
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	chats := cfg.Chats
	if chats == nil {
		chats = []model.Conversation{}
	}
	return &Holder{
		store:    store,
		logger:   cfg.Logger,
		chats:    chats,
		model:    cfg.Model,
		settings: cfg.Settings.Normalize(),
	}
}

// =============================================================================
// SUBMISSION LIFECYCLE
// =============================================================================

// Begin starts a submission for input. It creates a conversation when none is
// selected, appends the user message and an empty assistant placeholder,
// titles the conversation when this is its first message, and saves.
//
// Begin returns ErrEmptyInput for blank input and ErrBusy while another
// submission is active.
func (h *Holder) Begin(ctx context.Context, input string) (*Submission, error) {
	input = norm.NFC.String(input)
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmptyInput
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.active != nil {
		return nil, ErrBusy
	}

	idx := h.indexOf(h.currentID)
	if idx < 0 {
		h.newChatLocked()
		idx = 0
	}
	conv := h.chats[idx]

	user := model.NewUserMessage(input)
	history := append(slices.Clone(conv.Messages), user)

	conv = conv.Append(user, model.NewAssistantMessage(""))
	if title, ok := model.TitleFromHistory(history); ok {
		conv = conv.WithTitle(title)
	}
	h.replaceLocked(idx, conv)

	subCtx, cancel := context.WithCancel(ctx)
	sub := &Submission{
		ChatID:  conv.ID,
		History: history,
		Model:   h.model,
		ctx:     subCtx,
		cancel:  cancel,
	}
	h.active = sub
	h.phase = PhaseAwaiting
	h.outcome = OutcomeNone

	h.saveChatsLocked()
	return sub, nil
}

// Apply folds delta into the trailing assistant message of the submission's
// conversation. The message is replaced by a new value; the previous value
// is left untouched for anyone still holding it.
func (h *Holder) Apply(sub *Submission, delta string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub == nil || sub != h.active {
		return ErrStaleSubmission
	}
	h.phase = PhaseStreaming

	idx := h.indexOf(sub.ChatID)
	if idx < 0 {
		return nil
	}
	conv := h.chats[idx]
	last, _ := conv.LastMessage()
	h.replaceLocked(idx, conv.ReplaceLast(model.NewAssistantMessage(last.Content+delta)))

	h.saveChatsLocked()
	return nil
}

// Fail replaces the trailing assistant message with the localized
// explanation of err, discarding any partial output, and settles the
// submission.
func (h *Holder) Fail(sub *Submission, err error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub == nil || sub != h.active {
		return ErrStaleSubmission
	}

	if idx := h.indexOf(sub.ChatID); idx >= 0 {
		text := i18n.FailureMessage(err, h.settings.Language)
		h.replaceLocked(idx, h.chats[idx].ReplaceLast(model.NewAssistantMessage(text)))
		h.saveChatsLocked()
	}

	h.settleLocked(OutcomeError)
	return nil
}

// Finish settles the submission successfully. The accumulated content is
// kept as is.
func (h *Holder) Finish(sub *Submission) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub == nil || sub != h.active {
		return ErrStaleSubmission
	}
	h.settleLocked(OutcomeSuccess)
	return nil
}

// Cancel aborts the active submission, if any. Its stream ends without an
// error and the submission settles with whatever content arrived.
func (h *Holder) Cancel() {
	h.mu.Lock()
	sub := h.active
	h.mu.Unlock()
	if sub != nil {
		sub.cancel()
	}
}

// Submit runs a complete submission against streamer, calling onChange (if
// non-nil) after every state change. It blocks until the stream settles.
//
// The returned error is ErrEmptyInput or ErrBusy when nothing was started,
// or the stream failure that was written into the conversation. Cancellation
// returns nil.
func (h *Holder) Submit(ctx context.Context, streamer Streamer, input string, onChange func()) error {
	notify := func() {
		if onChange != nil {
			onChange()
		}
	}

	sub, err := h.Begin(ctx, input)
	if err != nil {
		return err
	}
	notify()

	req := streamer.NewRequest(sub.Model, model.ToChatMessages(sub.History))
	deltas, err := streamer.Stream(sub.ctx, req)
	if err != nil {
		h.Fail(sub, err)
		notify()
		return err
	}

	for d := range deltas {
		if d.Err != nil {
			h.Fail(sub, d.Err)
			notify()
			return d.Err
		}
		if h.Apply(sub, d.Text) == nil {
			notify()
		}
	}

	h.Finish(sub)
	notify()
	return nil
}

// settleLocked ends the active submission.
func (h *Holder) settleLocked(outcome Outcome) {
	if h.active != nil {
		h.active.cancel()
	}
	h.active = nil
	h.phase = PhaseIdle
	h.outcome = outcome
}

// =============================================================================
// CONVERSATION MANAGEMENT
// =============================================================================

// NewChat creates an empty conversation at the top of the list, selects it,
// saves, and returns it.
func (h *Holder) NewChat() model.Conversation {
	h.mu.Lock()
	defer h.mu.Unlock()

	conv := h.newChatLocked()
	h.saveChatsLocked()
	return conv
}

func (h *Holder) newChatLocked() model.Conversation {
	conv := model.NewConversation(i18n.T(h.settings.Language, i18n.KeyNewChat), h.model)
	next := make([]model.Conversation, 0, len(h.chats)+1)
	next = append(next, conv)
	h.chats = append(next, h.chats...)
	h.currentID = conv.ID
	return conv
}

// SelectChat makes id the current conversation.
func (h *Holder) SelectChat(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.indexOf(id) < 0 {
		return fmt.Errorf("%w: %s", ErrChatNotFound, id)
	}
	h.currentID = id
	return nil
}

// DeleteChat removes a conversation. When it was current, the first
// remaining conversation becomes current (or none). A submission streaming
// into it is cancelled.
func (h *Holder) DeleteChat(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.indexOf(id) < 0 {
		return fmt.Errorf("%w: %s", ErrChatNotFound, id)
	}
	h.chats = lo.Filter(h.chats, func(c model.Conversation, _ int) bool { return c.ID != id })

	if h.currentID == id {
		h.currentID = ""
		if len(h.chats) > 0 {
			h.currentID = h.chats[0].ID
		}
	}
	if h.active != nil && h.active.ChatID == id {
		h.active.cancel()
	}

	h.saveChatsLocked()
	return nil
}

// ClearChats removes every conversation and cancels any active submission.
func (h *Holder) ClearChats() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.chats = []model.Conversation{}
	h.currentID = ""
	if h.active != nil {
		h.active.cancel()
	}
	h.saveChatsLocked()
}

// SetModel selects the model used for subsequent submissions.
func (h *Holder) SetModel(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if id != "" {
		h.model = id
	}
}

// UpdateSettings replaces the settings and saves them.
func (h *Holder) UpdateSettings(settings model.Settings) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.settings = settings.Normalize()
	if err := h.store.SaveSettings(h.settings); err != nil {
		h.saveErr = err
		h.logger.Warn("failed to save settings", "error", err)
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Snapshot is a point-in-time view of the holder. Its slices must not be
// modified.
type Snapshot struct {
	Chats     []model.Conversation
	CurrentID string
	Model     string
	Settings  model.Settings
	Phase     Phase
	Outcome   Outcome
}

// Current returns the selected conversation.
func (s Snapshot) Current() (model.Conversation, bool) {
	return lo.Find(s.Chats, func(c model.Conversation) bool { return c.ID == s.CurrentID })
}

// Loading reports whether a submission is in progress.
func (s Snapshot) Loading() bool {
	return s.Phase == PhaseAwaiting || s.Phase == PhaseStreaming
}

// Thinking reports whether a submission is waiting for its first delta.
func (s Snapshot) Thinking() bool {
	return s.Phase == PhaseAwaiting
}

// Snapshot returns the current state.
func (h *Holder) Snapshot() Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Snapshot{
		Chats:     h.chats,
		CurrentID: h.currentID,
		Model:     h.model,
		Settings:  h.settings,
		Phase:     h.phase,
		Outcome:   h.outcome,
	}
}

// Settings returns the current settings.
func (h *Holder) Settings() model.Settings {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.settings
}

// Model returns the selected model.
func (h *Holder) Model() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.model
}

// Phase returns the phase of the current submission.
func (h *Holder) Phase() Phase {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.phase
}

// LastSaveError returns the most recent persistence failure, if any.
func (h *Holder) LastSaveError() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.saveErr
}

// =============================================================================
// INTERNAL HELPERS
// =============================================================================

func (h *Holder) indexOf(id string) int {
	if id == "" {
		return -1
	}
	_, idx, ok := lo.FindIndexOf(h.chats, func(c model.Conversation) bool { return c.ID == id })
	if !ok {
		return -1
	}
	return idx
}

// replaceLocked swaps in conv at idx on a fresh slice so that snapshots
// already handed out keep their view.
func (h *Holder) replaceLocked(idx int, conv model.Conversation) {
	next := slices.Clone(h.chats)
	next[idx] = conv
	h.chats = next
}

// saveChatsLocked persists the conversation list. Failures are logged and
// remembered; the in-memory state stays authoritative.
func (h *Holder) saveChatsLocked() {
	if err := h.store.SaveChats(h.chats); err != nil {
		h.saveErr = err
		h.logger.Warn("failed to save chats", "error", err)
		return
	}
	h.saveErr = nil
}
