// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/jeranaias/aurora-tui/internal/export"
	"github.com/jeranaias/aurora-tui/internal/i18n"
	"github.com/jeranaias/aurora-tui/internal/model"
	"github.com/jeranaias/aurora-tui/internal/render"
	"github.com/jeranaias/aurora-tui/internal/util"
)

func newChatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "chats",
		Aliases: []string{"chat-history"},
		Short:   "Manage stored conversations",
	}
	cmd.AddCommand(
		newChatsListCmd(),
		newChatsShowCmd(),
		newChatsDeleteCmd(),
		newChatsClearCmd(),
		newChatsExportCmd(),
	)
	return cmd
}

// shortID returns the first eight characters of a conversation id.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// confirm asks a yes/no question. yes skips the prompt; without a terminal
// the answer cannot be read and an error is returned.
func confirm(message string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	if !IsTTY() {
		return false, fmt.Errorf("%w (pass --yes to skip the prompt)", &TTYRequiredError{Operation: "confirmation"})
	}
	ok := false
	if err := survey.AskOne(&survey.Confirm{Message: message}, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

// =============================================================================
// LIST / SHOW
// =============================================================================

func newChatsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored conversations, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			chats, err := a.repo.LoadChats()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(chats) == 0 {
				dimColor.Fprintln(w, "No conversations stored.")
				return nil
			}
			for _, c := range chats {
				fmt.Fprintf(w, "%s  %s  ", shortID(c.ID), util.PadWidth(c.Title, 40))
				dimColor.Fprintf(w, "%3d msgs  %s  %s\n",
					len(c.Messages), c.CreatedAt.Local().Format("2006-01-02 15:04"), model.DisplayName(c.Model))
			}
			return nil
		},
	}
}

func newChatsShowCmd() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			conv, err := a.repo.LoadChat(args[0])
			if err != nil {
				return err
			}

			var r *render.Renderer
			if !raw && ColorsEnabled() {
				settings, err := a.loadSettings()
				if err != nil {
					return err
				}
				r = render.New(render.DetectStyle(settings.Theme), min(GetTerminalWidth(), settings.FontSize.WrapWidth()))
			}
			printTranscript(cmd.OutOrStdout(), conv, r)
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print assistant Markdown without rendering")
	return cmd
}

// printTranscript prints every message under its role label. Assistant
// messages go through r when it is non-nil.
func printTranscript(w io.Writer, conv model.Conversation, r *render.Renderer) {
	printTitle(w, conv.Title)
	for _, m := range conv.Messages {
		if m.IsUser() {
			userColor.Fprintln(w, m.Role.DisplayName())
			fmt.Fprintln(w, m.Content)
		} else {
			aiColor.Fprintln(w, m.Role.DisplayName())
			content := m.Content
			if r != nil {
				content = r.Render(content)
			}
			fmt.Fprintln(w, strings.TrimRight(content, "\n"))
		}
		fmt.Fprintln(w)
	}
}

// =============================================================================
// DELETE / CLEAR
// =============================================================================

func newChatsDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a conversation",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			conv, err := a.repo.LoadChat(args[0])
			if err != nil {
				return err
			}
			holder, err := a.newHolder("")
			if err != nil {
				return err
			}

			lang := holder.Settings().Language
			ok, err := confirm(i18n.Tf(lang, i18n.KeyConfirmDelete, conv.Title), yes)
			if err != nil || !ok {
				return err
			}
			if err := holder.DeleteChat(conv.ID); err != nil {
				return err
			}
			if err := holder.LastSaveError(); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Deleted %s", shortID(conv.ID))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newChatsClearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			holder, err := a.newHolder("")
			if err != nil {
				return err
			}
			ok, err := confirm(i18n.T(holder.Settings().Language, i18n.KeyConfirmClear), yes)
			if err != nil || !ok {
				return err
			}
			n := len(holder.Snapshot().Chats)
			holder.ClearChats()
			if err := holder.LastSaveError(); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Deleted %d conversations", n)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// =============================================================================
// EXPORT
// =============================================================================

func newChatsExportCmd() *cobra.Command {
	var (
		format   string
		output   string
		toStdout bool
		open     bool
		noMeta   bool
	)
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a conversation to Markdown, JSON or YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			conv, err := a.repo.LoadChat(args[0])
			if err != nil {
				return err
			}

			opts := export.DefaultOptions()
			opts.OutputDir = output
			opts.OpenAfterExport = open
			opts.IncludeMetadata = !noMeta
			exporter, err := export.ForFormat(format, opts)
			if err != nil {
				return err
			}

			if toStdout {
				data, err := exporter.Export(conv)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			path, err := export.ExportToFile(conv, exporter, opts)
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "%s", i18n.Tf(model.LanguageEnglish, i18n.KeyExported, path))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "output format: markdown, json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", ".", "output directory")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "write to stdout instead of a file")
	cmd.Flags().BoolVar(&open, "open", false, "open the file after exporting")
	cmd.Flags().BoolVar(&noMeta, "no-metadata", false, "omit Markdown front matter and session details")
	return cmd
}
