// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeranaias/aurora-tui/internal/config"
	"github.com/jeranaias/aurora-tui/internal/groq"
	"github.com/jeranaias/aurora-tui/internal/i18n"
	"github.com/jeranaias/aurora-tui/internal/logging"
	"github.com/jeranaias/aurora-tui/internal/model"
	"github.com/jeranaias/aurora-tui/internal/render"
	"github.com/jeranaias/aurora-tui/internal/session"
	"github.com/jeranaias/aurora-tui/internal/storage"
	"github.com/jeranaias/aurora-tui/internal/ui/chat"
)

// Version information, set by main from build flags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// COMMAND TREE
// =============================================================================

// NewRootCmd builds the aurora command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "aurora",
		Short: "Streaming chat client for Groq-hosted models",
		Long: `aurora is a terminal chat client for Groq's OpenAI-compatible API.

Run it without a subcommand to open the chat interface.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}
	root.PersistentFlags().StringP("model", "m", "", "model id or name (default from config)")

	root.AddCommand(
		newAskCmd(),
		newChatCmd(),
		newModelsCmd(),
		newChatsCmd(),
		newConfigCmd(),
		newSetupCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command tree against os.Args and returns the exit code.
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errCancelled) {
			printError(os.Stderr, err)
		}
		return GetExitCode(err)
	}
	return ExitSuccess
}

// =============================================================================
// APPLICATION WIRING
// =============================================================================

// app is the state shared by commands that talk to the store or the API.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	repo   *storage.Repository
	client *groq.Client
	logs   io.Closer
}

// loadApp loads the configuration, opens the log file and the store, and
// builds the API client.
func loadApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, logs, err := logging.Setup(cfg.LogPath(), cfg.LogLevel)
	if err != nil {
		// Logging is best effort; the commands still work without it.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		logger, logs = logging.Discard(), io.NopCloser(nil)
	}

	kv, err := storage.Open(cfg.Storage, cfg.DataDir)
	if err != nil {
		logs.Close()
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Storage, err)
	}

	client := groq.NewClient(cfg.APIKey).
		WithBaseURL(cfg.APIURL).
		WithTemperature(cfg.Temperature).
		WithMaxTokens(cfg.MaxTokens).
		WithLogger(logger)

	logger.Debug("aurora started", "version", Version, "storage", cfg.Storage, "model", cfg.DefaultModel)
	return &app{
		cfg:    cfg,
		logger: logger,
		repo:   storage.NewRepository(kv),
		client: client,
		logs:   logs,
	}, nil
}

// Close releases the store and the log file.
func (a *app) Close() error {
	return errors.Join(a.repo.Close(), a.logs.Close())
}

// newHolder loads the stored chats and settings into a session holder.
// modelFlag, when set, overrides the configured default model.
func (a *app) newHolder(modelFlag string) (*session.Holder, error) {
	chats, err := a.repo.LoadChats()
	if err != nil {
		return nil, err
	}
	settings, err := a.loadSettings()
	if err != nil {
		return nil, err
	}
	return session.NewHolder(a.repo, session.Config{
		Chats:    chats,
		Settings: settings,
		Model:    resolveModel(modelFlag, a.cfg.DefaultModel),
		Logger:   a.logger,
	}), nil
}

// loadSettings returns the stored settings. Before anything is stored the
// interface language follows the locale.
func (a *app) loadSettings() (model.Settings, error) {
	settings, err := a.repo.LoadSettings()
	if err != nil {
		return settings, err
	}
	if _, stored, err := a.repo.KV().Get(storage.KeySettings); err == nil && !stored {
		settings.Language = i18n.FromEnvironment()
	}
	return settings, nil
}

// resolveModel maps a model id or catalog name to an id. Unknown values are
// passed through so models outside the catalog can still be used.
func resolveModel(flag, fallback string) string {
	name := strings.TrimSpace(flag)
	if name == "" {
		name = fallback
	}
	if info, ok := model.GetModelInfo(name); ok {
		return info.ID
	}
	return name
}

// modelFlag returns the value of the persistent --model flag.
func modelFlag(cmd *cobra.Command) string {
	v, _ := cmd.Flags().GetString("model")
	return v
}

// =============================================================================
// CHAT INTERFACE
// =============================================================================

func runTUI(cmd *cobra.Command, _ []string) error {
	if err := RequiresTTY("the chat interface"); err != nil {
		return fmt.Errorf("%w; use 'aurora ask' or 'aurora chat' instead", err)
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	holder, err := a.newHolder(modelFlag(cmd))
	if err != nil {
		return err
	}

	opts := chat.Options{
		Holder:   holder,
		Streamer: a.client,
		Logger:   a.logger,
	}
	if !ColorsEnabled() {
		opts.MarkdownStyle = render.StylePlain
	}

	p := tea.NewProgram(chat.New(opts), tea.WithAltScreen())
	_, err = p.Run()
	holder.Cancel()
	if err != nil {
		return fmt.Errorf("chat interface failed: %w", err)
	}
	return holder.LastSaveError()
}
