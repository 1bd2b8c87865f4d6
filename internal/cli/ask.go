// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/aurora-tui/internal/groq"
	"github.com/jeranaias/aurora-tui/internal/i18n"
	"github.com/jeranaias/aurora-tui/internal/model"
	"github.com/jeranaias/aurora-tui/internal/render"
	"github.com/jeranaias/aurora-tui/internal/session"
	"github.com/jeranaias/aurora-tui/internal/storage"
)

// askOptions holds the flags of the ask command.
type askOptions struct {
	save   bool
	chatID string
	render bool
}

func newAskCmd() *cobra.Command {
	var opts askOptions
	cmd := &cobra.Command{
		Use:   "ask [prompt...]",
		Short: "Stream one answer to stdout",
		Long: `Send a single prompt and stream the answer to stdout.

Piped stdin is appended to the prompt, so files can be passed in:

  cat main.go | aurora ask "explain this"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := readPrompt(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			holder, err := a.askHolder(opts, modelFlag(cmd))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return runAsk(ctx, holder, a.client, prompt, cmd.OutOrStdout(), opts.render)
		},
	}
	cmd.Flags().BoolVarP(&opts.save, "save", "s", false, "store the exchange as a new conversation")
	cmd.Flags().StringVarP(&opts.chatID, "chat", "c", "", "continue a stored conversation (implies --save)")
	cmd.Flags().BoolVarP(&opts.render, "render", "r", false, "render the finished answer as Markdown instead of streaming it")
	return cmd
}

// readPrompt joins args and appends stdin when it is not a terminal.
func readPrompt(in io.Reader, args []string) (string, error) {
	prompt := strings.Join(args, " ")

	if f, ok := in.(*os.File); !ok || !isTerminalFile(f) {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		if piped := strings.TrimSpace(string(data)); piped != "" {
			if prompt != "" {
				prompt += "\n\n"
			}
			prompt += piped
		}
	}

	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("no prompt given; pass it as arguments or on stdin")
	}
	return prompt, nil
}

// askHolder returns a holder backed by the store when the exchange is kept,
// and by a throwaway memory store otherwise.
func (a *app) askHolder(opts askOptions, modelFlag string) (*session.Holder, error) {
	if opts.save || opts.chatID != "" {
		holder, err := a.newHolder(modelFlag)
		if err != nil {
			return nil, err
		}
		if opts.chatID != "" {
			conv, err := a.repo.LoadChat(opts.chatID)
			if err != nil {
				return nil, err
			}
			if err := holder.SelectChat(conv.ID); err != nil {
				return nil, err
			}
		}
		return holder, nil
	}

	settings, err := a.loadSettings()
	if err != nil {
		return nil, err
	}
	return session.NewHolder(storage.NewRepository(storage.NewMemoryKV()), session.Config{
		Settings: settings,
		Model:    resolveModel(modelFlag, a.cfg.DefaultModel),
		Logger:   a.logger,
	}), nil
}

// runAsk streams one answer to w, or renders it once complete when
// renderMarkdown is set.
func runAsk(ctx context.Context, h *session.Holder, s session.Streamer, prompt string, w io.Writer, renderMarkdown bool) error {
	live := w
	if renderMarkdown {
		live = nil
	}

	answer, err := streamAnswer(ctx, h, s, prompt, live)
	if live != nil && answer != "" && !strings.HasSuffix(answer, "\n") {
		fmt.Fprintln(w)
	}
	if err != nil && !errors.Is(err, errCancelled) {
		return localize(err, h.Settings().Language)
	}

	if renderMarkdown {
		settings := h.Settings()
		style := render.StylePlain
		if ColorsEnabled() {
			style = render.DetectStyle(settings.Theme)
		}
		fmt.Fprintln(w, render.New(style, min(GetTerminalWidth(), settings.FontSize.WrapWidth())).Render(answer))
	}

	if err != nil {
		warningColor.Fprintln(os.Stderr, "[Cancelled]")
	}
	return err
}

// streamAnswer submits prompt through the holder and copies every delta to
// w (when non-nil). It returns the accumulated answer, and errCancelled when
// ctx or Holder.Cancel ended the stream early.
func streamAnswer(ctx context.Context, h *session.Holder, s session.Streamer, prompt string, w io.Writer) (string, error) {
	sub, err := h.Begin(ctx, prompt)
	if err != nil {
		return "", err
	}

	deltas, err := s.Stream(sub.Context(), s.NewRequest(sub.Model, model.ToChatMessages(sub.History)))
	if err != nil {
		h.Fail(sub, err)
		return "", err
	}

	var answer strings.Builder
	for d := range deltas {
		if d.Err != nil {
			h.Fail(sub, d.Err)
			return answer.String(), d.Err
		}
		h.Apply(sub, d.Text)
		answer.WriteString(d.Text)
		if w != nil {
			io.WriteString(w, d.Text)
		}
	}
	// Read before Finish, which releases the submission context.
	cancelled := sub.Context().Err() != nil
	h.Finish(sub)

	if cancelled {
		return answer.String(), errCancelled
	}
	return answer.String(), nil
}

// =============================================================================
// LOCALIZED ERRORS
// =============================================================================

// localizedError shows the user-facing text for a transport error while
// keeping the original for errors.Is and exit codes.
type localizedError struct {
	text string
	err  error
}

func (e *localizedError) Error() string { return e.text }
func (e *localizedError) Unwrap() error { return e.err }

func localize(err error, lang model.Language) error {
	switch {
	case errors.Is(err, groq.ErrNotConfigured):
		return &localizedError{text: i18n.T(lang, i18n.KeyNotConfigured), err: err}
	case errors.Is(err, groq.ErrAuthFailed), errors.Is(err, groq.ErrRateLimited),
		errors.Is(err, groq.ErrRequestFailed), errors.Is(err, groq.ErrNoBody):
		return &localizedError{text: i18n.ErrorText(err, lang) + " (" + err.Error() + ")", err: err}
	}
	var apiErr *groq.APIError
	if errors.As(err, &apiErr) {
		return &localizedError{text: i18n.ErrorText(err, lang) + " (" + err.Error() + ")", err: err}
	}
	return err
}
