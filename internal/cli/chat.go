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
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/aurora-tui/internal/i18n"
	"github.com/jeranaias/aurora-tui/internal/model"
	"github.com/jeranaias/aurora-tui/internal/session"
	"github.com/jeranaias/aurora-tui/internal/util"
)

func newChatCmd() *cobra.Command {
	var chatID string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Line-based chat with input history",
		Long: `Chat in the terminal without the full-screen interface.

Conversations are stored like those of the chat interface. Type /help for
the available commands and exit or Ctrl+D to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			holder, err := a.newHolder(modelFlag(cmd))
			if err != nil {
				return err
			}
			if chatID != "" {
				conv, err := a.repo.LoadChat(chatID)
				if err != nil {
					return err
				}
				if err := holder.SelectChat(conv.ID); err != nil {
					return err
				}
			}

			input := NewChatCLI(a.cfg.HistoryPath())
			defer input.Close()

			// Ctrl+C while a response streams stops it; at the prompt liner
			// reports it as ErrPromptAborted instead.
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)
			go func() {
				for range sigChan {
					holder.Cancel()
				}
			}()

			repl := &replSession{
				holder:   holder,
				streamer: a.client,
				out:      cmd.OutOrStdout(),
			}
			return repl.Run(cmd.Context(), input)
		},
	}
	cmd.Flags().StringVarP(&chatID, "chat", "c", "", "continue a stored conversation")
	return cmd
}

// =============================================================================
// LINE EDITOR
// =============================================================================

// lineReader reads one line of input for the REPL. *ChatCLI implements it.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a line editor whose history lives in historyFile.
func NewChatCLI(historyFile string) *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	c := &ChatCLI{line: line, historyFile: historyFile}
	c.LoadHistory()
	return c
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// Prompt reads a line of input. Non-blank lines are added to the history.
func (c *ChatCLI) Prompt(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists command history with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// REPL
// =============================================================================

// replSession is one run of the line-based chat.
type replSession struct {
	holder   *session.Holder
	streamer session.Streamer
	out      io.Writer
}

// Run reads lines from in until exit, EOF or Ctrl+C at the prompt.
func (r *replSession) Run(ctx context.Context, in lineReader) error {
	r.printWelcome()

	for {
		input, err := in.Prompt("> ")
		if err != nil {
			// ErrPromptAborted (Ctrl+C), io.EOF (Ctrl+D) and read errors
			// all end the session.
			fmt.Fprintln(r.out)
			return nil
		}

		input = strings.TrimSpace(input)
		switch {
		case input == "":
			continue
		case strings.EqualFold(input, "exit"), strings.EqualFold(input, "quit"):
			return nil
		case strings.HasPrefix(input, "/"):
			more, err := r.handleSlashCommand(input)
			if err != nil {
				printError(r.out, err)
			}
			if !more {
				return nil
			}
			continue
		}

		if err := r.send(ctx, input); err != nil {
			printError(r.out, err)
		}
	}
}

// send streams the answer to input below an "Aurora" label.
func (r *replSession) send(ctx context.Context, input string) error {
	aiColor.Fprintln(r.out, model.RoleAssistant.DisplayName())

	answer, err := streamAnswer(ctx, r.holder, r.streamer, input, r.out)
	if answer != "" && !strings.HasSuffix(answer, "\n") {
		fmt.Fprintln(r.out)
	}
	switch {
	case errors.Is(err, errCancelled):
		warningColor.Fprintln(r.out, "[Cancelled]")
		err = nil
	case err != nil:
		err = localize(err, r.lang())
	}
	fmt.Fprintln(r.out)
	return err
}

func (r *replSession) lang() model.Language {
	return r.holder.Settings().Language
}

func (r *replSession) printWelcome() {
	titleColor.Fprintln(r.out, i18n.T(r.lang(), i18n.KeyAppName))
	printField(r.out, "Model", model.DisplayName(r.holder.Model()))
	if conv, ok := r.holder.Snapshot().Current(); ok {
		printField(r.out, "Chat", conv.Title)
	}
	dimColor.Fprintln(r.out, "Type /help for commands, exit to quit.")
	fmt.Fprintln(r.out)
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand runs a /command. It returns false when the session
// should end.
func (r *replSession) handleSlashCommand(input string) (bool, error) {
	fields := strings.Fields(input)
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "/exit", "/quit", "/q":
		return false, nil

	case "/help", "/?":
		r.printHelp()

	case "/new":
		r.holder.NewChat()
		printSuccess(r.out, "%s", i18n.T(r.lang(), i18n.KeyNewChat))

	case "/chats":
		snap := r.holder.Snapshot()
		if len(snap.Chats) == 0 {
			dimColor.Fprintln(r.out, i18n.T(r.lang(), i18n.KeyNoChats))
			break
		}
		for _, c := range snap.Chats {
			marker := " "
			if c.ID == snap.CurrentID {
				marker = "*"
			}
			fmt.Fprintf(r.out, "%s %s  %s\n", marker, shortID(c.ID), util.FitWidth(c.Title, 50))
		}

	case "/open":
		if len(args) != 1 {
			return true, errors.New("usage: /open <chat id>")
		}
		id, err := r.findChat(args[0])
		if err != nil {
			return true, err
		}
		if err := r.holder.SelectChat(id); err != nil {
			return true, err
		}
		conv, _ := r.holder.Snapshot().Current()
		printTranscript(r.out, conv, nil)

	case "/model":
		if len(args) == 0 {
			printField(r.out, "Model", r.holder.Model())
			break
		}
		id := resolveModel(strings.Join(args, " "), r.holder.Model())
		r.holder.SetModel(id)
		printSuccess(r.out, "Model set to %s", model.DisplayName(id))

	case "/models":
		printModels(r.out, r.holder.Model(), r.lang())

	default:
		return true, fmt.Errorf("unknown command %s (try /help)", name)
	}
	return true, nil
}

// findChat resolves an id or unique id prefix among the holder's chats.
func (r *replSession) findChat(prefix string) (string, error) {
	var found []string
	for _, c := range r.holder.Snapshot().Chats {
		if c.ID == prefix {
			return c.ID, nil
		}
		if strings.HasPrefix(c.ID, prefix) {
			found = append(found, c.ID)
		}
	}
	if len(found) != 1 {
		return "", fmt.Errorf("%w: %s", session.ErrChatNotFound, prefix)
	}
	return found[0], nil
}

func (r *replSession) printHelp() {
	titleColor.Fprintln(r.out, "Commands")
	for _, row := range [][2]string{
		{"/new", "start a new conversation"},
		{"/chats", "list conversations"},
		{"/open <id>", "switch to a conversation"},
		{"/model [id]", "show or change the model"},
		{"/models", "list selectable models"},
		{"/help", "show this help"},
		{"/exit", "leave (also exit, Ctrl+D)"},
	} {
		printField(r.out, row[0], row[1])
	}
	dimColor.Fprintln(r.out, "Ctrl+C stops a response while it streams.")
}
