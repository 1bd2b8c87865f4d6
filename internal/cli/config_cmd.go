// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/aurora-tui/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the configuration",
		Long: `Show or change ~/.aurora/config.toml (AURORA_HOME moves it).

Keys: ` + strings.Join(config.Keys(), ", ") + `

Environment variables such as GROQ_API_KEY override the file; show and get
report the effective values, set only writes the file.`,
	}
	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigPathCmd(),
		newConfigGetCmd(),
		newConfigSetCmd(),
		newConfigSetKeyCmd(),
	)
	return cmd
}

// loadFileConfig reads the config file over the defaults without applying
// environment overrides, so that saving it back does not persist them.
func loadFileConfig() (*config.Config, string, error) {
	path, err := config.ConfigPath()
	if err != nil {
		return nil, "", err
	}
	cfg := config.Default()
	if _, err := os.Stat(path); err == nil {
		if err := config.LoadTOML(cfg, path); err != nil {
			return nil, "", err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, "", err
	}
	return cfg, path, nil
}

// saveFileConfig validates cfg as it would be loaded and writes it to path.
func saveFileConfig(cfg *config.Config, path string) error {
	check := *cfg
	if err := check.SetDefaults(); err != nil {
		return err
	}
	if err := check.Validate(); err != nil {
		return err
	}
	return config.SaveTOML(cfg, path)
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printTitle(w, "Configuration")
			for _, key := range config.Keys() {
				value, err := cfg.Get(key)
				if err != nil {
					return err
				}
				if key == "api_key" {
					value = cfg.MaskedKey()
				}
				printField(w, key, value)
			}
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.ConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	var reveal bool
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print one effective value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			value, err := cfg.Get(args[0])
			if err != nil {
				return err
			}
			if isAPIKey(args[0]) && !reveal {
				value = cfg.MaskedKey()
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reveal, "reveal", false, "print the API key unmasked")
	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Write one value to the config file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if isAPIKey(args[0]) {
				return errors.New("use 'aurora config set-key' so the key stays out of shell history")
			}
			cfg, path, err := loadFileConfig()
			if err != nil {
				return err
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := saveFileConfig(cfg, path); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "%s = %s", args[0], args[1])
			return nil
		},
	}
}

func newConfigSetKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-key",
		Short: "Store the API key (read without echo)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := readSecret(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if key == "" {
				return errors.New("no key entered")
			}

			cfg, path, err := loadFileConfig()
			if err != nil {
				return err
			}
			cfg.APIKey = key
			if err := saveFileConfig(cfg, path); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "API key saved to %s (%s)", path, cfg.MaskedKey())
			return nil
		},
	}
}

func isAPIKey(key string) bool {
	k := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
	return k == "api_key"
}
