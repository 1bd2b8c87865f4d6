// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"

	"github.com/jeranaias/aurora-tui/internal/session"
)

// maxRenderFPS caps stream re-renders.
const maxRenderFPS = 30

// =============================================================================
// CHANGE NOTIFIER
// =============================================================================

// changeNotifier coalesces holder change callbacks into at most one pending
// StateChangedMsg. Notify never blocks the stream consumer.
type changeNotifier struct {
	ch chan struct{}
}

func newChangeNotifier() *changeNotifier {
	return &changeNotifier{ch: make(chan struct{}, 1)}
}

// Notify records a change. Called from the submission goroutine.
func (n *changeNotifier) Notify() {
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

// Wait returns a command that blocks until the next change.
func (n *changeNotifier) Wait() tea.Cmd {
	return func() tea.Msg {
		<-n.ch
		return StateChangedMsg{}
	}
}

// =============================================================================
// RENDER PACER
// =============================================================================

// renderPacer decides whether a change may be rendered now or must wait for
// a RenderTickMsg.
type renderPacer struct {
	limiter *rate.Limiter
	pending bool
}

func newRenderPacer(fps int) *renderPacer {
	return &renderPacer{limiter: rate.NewLimiter(rate.Limit(fps), 1)}
}

// Allow reports whether to render immediately. When it returns false and no
// tick is scheduled yet, the returned command schedules one.
func (p *renderPacer) Allow() (bool, tea.Cmd) {
	if p.limiter.Allow() {
		return true, nil
	}
	if p.pending {
		return false, nil
	}
	p.pending = true

	r := p.limiter.Reserve()
	delay := r.Delay()
	r.Cancel()
	if delay <= 0 {
		delay = time.Second / maxRenderFPS
	}
	return false, tea.Tick(delay, func(t time.Time) tea.Msg {
		return RenderTickMsg{Time: t}
	})
}

// Fired marks the scheduled tick as delivered.
func (p *renderPacer) Fired() {
	p.pending = false
}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// submitCmd runs a full submission and reports when it settles.
func submitCmd(h *session.Holder, s session.Streamer, input string, notify func()) tea.Cmd {
	return func() tea.Msg {
		err := h.Submit(context.Background(), s, input, notify)
		return SubmitDoneMsg{Err: err}
	}
}
