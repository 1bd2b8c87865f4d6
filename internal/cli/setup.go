// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"runtime"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/jeranaias/aurora-tui/internal/config"
	"github.com/jeranaias/aurora-tui/internal/model"
	"github.com/jeranaias/aurora-tui/internal/storage"
)

// dialTimeout bounds the API reachability check.
const dialTimeout = 3 * time.Second

func newSetupCmd() *cobra.Command {
	var checkOnly bool
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Guided first-run configuration",
		Long: `Check the environment, then ask for the API key, default model, chat
storage and interface language, and write them to the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()

			cfg, path, err := loadFileConfig()
			if err != nil {
				return err
			}
			effective, err := config.Load()
			if err != nil {
				return err
			}

			printTitle(w, "System check")
			printChecks(w, runChecks(effective))
			if checkOnly {
				return nil
			}
			fmt.Fprintln(w)

			if err := RequiresTTY("setup"); err != nil {
				return fmt.Errorf("%w; use 'aurora config set' and 'aurora config set-key' instead", err)
			}

			answers, err := askSetup(cfg)
			if err != nil {
				return err
			}
			if err := applySetup(cfg, path, answers); err != nil {
				return err
			}
			printSuccess(w, "Configuration written to %s", path)
			dimColor.Fprintln(w, "Run 'aurora' to start chatting.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&checkOnly, "check", false, "only run the system check")
	return cmd
}

// =============================================================================
// SYSTEM CHECK
// =============================================================================

// CheckResult is the outcome of one setup check.
type CheckResult struct {
	Name    string
	Status  string // "pass", "warn", "fail"
	Message string
}

// runChecks inspects the platform, the data directory, the API key and the
// API endpoint.
func runChecks(cfg *config.Config) []CheckResult {
	return []CheckResult{
		{Name: "Operating System", Status: "pass", Message: runtime.GOOS + "/" + runtime.GOARCH},
		checkDataDir(cfg.DataDir),
		checkAPIKey(cfg),
		checkNetwork(cfg.APIURL),
	}
}

func checkDataDir(dir string) CheckResult {
	r := CheckResult{Name: "Data Directory"}
	if err := os.MkdirAll(dir, 0700); err != nil {
		r.Status, r.Message = "fail", err.Error()
		return r
	}
	f, err := os.CreateTemp(dir, ".check-")
	if err != nil {
		r.Status, r.Message = "fail", "not writable: "+err.Error()
		return r
	}
	f.Close()
	os.Remove(f.Name())
	r.Status, r.Message = "pass", dir
	return r
}

func checkAPIKey(cfg *config.Config) CheckResult {
	if cfg.APIKey == "" {
		return CheckResult{Name: "API Key", Status: "warn", Message: "not set"}
	}
	return CheckResult{Name: "API Key", Status: "pass", Message: cfg.MaskedKey()}
}

// checkNetwork opens a TCP connection to the API host.
func checkNetwork(apiURL string) CheckResult {
	r := CheckResult{Name: "Network Access"}
	u, err := url.Parse(apiURL)
	if err != nil || u.Host == "" {
		r.Status, r.Message = "fail", "invalid API URL "+apiURL
		return r
	}
	host := u.Host
	if u.Port() == "" {
		port := "443"
		if u.Scheme == "http" {
			port = "80"
		}
		host = net.JoinHostPort(u.Hostname(), port)
	}

	conn, err := net.DialTimeout("tcp", host, dialTimeout)
	if err != nil {
		r.Status, r.Message = "warn", "cannot reach "+u.Hostname()
		return r
	}
	conn.Close()
	r.Status, r.Message = "pass", "reached "+u.Hostname()
	return r
}

func printChecks(w io.Writer, results []CheckResult) {
	for _, r := range results {
		switch r.Status {
		case "pass":
			successColor.Fprint(w, "  [OK] ")
		case "warn":
			warningColor.Fprint(w, "  [!!] ")
		default:
			errorColor.Fprint(w, "  [X]  ")
		}
		fmt.Fprintf(w, "%s: %s\n", r.Name, r.Message)
	}
}

// =============================================================================
// WIZARD
// =============================================================================

// setupAnswers are the values collected by the wizard.
type setupAnswers struct {
	APIKey   string `survey:"apikey"`
	Model    string `survey:"model"`
	Storage  string `survey:"storage"`
	Language string `survey:"language"`
}

var (
	setupStorageOptions  = []string{storage.BackendFile, storage.BackendSQLite}
	setupLanguageOptions = []string{string(model.LanguageKorean), string(model.LanguageEnglish)}
)

// askSetup prompts for the setup answers, defaulting to cfg's values.
func askSetup(cfg *config.Config) (setupAnswers, error) {
	modelPrompt := &survey.Select{
		Message: "Default model:",
		Options: model.ModelIDs(),
		Description: func(_ string, i int) string {
			return model.Catalog[i].Name + " · " + model.Catalog[i].Performance
		},
	}
	if model.IsKnownModel(cfg.DefaultModel) {
		modelPrompt.Default = cfg.DefaultModel
	}

	storagePrompt := &survey.Select{
		Message: "Chat storage:",
		Options: setupStorageOptions,
		Description: func(v string, _ int) string {
			if v == storage.BackendSQLite {
				return "single aurora.db file"
			}
			return "one JSON file per key"
		},
	}
	if cfg.Storage == storage.BackendSQLite {
		storagePrompt.Default = storage.BackendSQLite
	}

	qs := []*survey.Question{
		{
			Name:   "apikey",
			Prompt: &survey.Password{Message: "Groq API key (empty keeps the current one):"},
		},
		{Name: "model", Prompt: modelPrompt},
		{Name: "storage", Prompt: storagePrompt},
		{
			Name: "language",
			Prompt: &survey.Select{
				Message: "Interface language:",
				Options: setupLanguageOptions,
				Description: func(v string, _ int) string {
					return model.Language(v).DisplayName()
				},
			},
		},
	}

	var answers setupAnswers
	if err := survey.Ask(qs, &answers); err != nil {
		return answers, err
	}
	return answers, nil
}

// applySetup writes the answers to the config file at path and stores the
// language in the selected backend's settings.
func applySetup(cfg *config.Config, path string, a setupAnswers) error {
	if a.APIKey != "" {
		cfg.APIKey = a.APIKey
	}
	if a.Model != "" {
		cfg.DefaultModel = a.Model
	}
	if a.Storage != "" {
		cfg.Storage = a.Storage
	}
	if err := saveFileConfig(cfg, path); err != nil {
		return err
	}

	if a.Language == "" {
		return nil
	}
	effective, err := config.Load()
	if err != nil {
		return err
	}
	kv, err := storage.Open(effective.Storage, effective.DataDir)
	if err != nil {
		return err
	}
	repo := storage.NewRepository(kv)
	defer repo.Close()

	settings, err := repo.LoadSettings()
	if err != nil {
		return err
	}
	settings.Language = model.Language(a.Language)
	return repo.SaveSettings(settings.Normalize())
}
