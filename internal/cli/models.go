// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/jeranaias/aurora-tui/internal/config"
	"github.com/jeranaias/aurora-tui/internal/i18n"
	"github.com/jeranaias/aurora-tui/internal/model"
	"github.com/jeranaias/aurora-tui/internal/util"
)

func newModelsCmd() *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List selectable models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			l := model.LanguageEnglish
			if lang != "" {
				l = i18n.Match(lang)
			}
			printModels(cmd.OutOrStdout(), resolveModel(modelFlag(cmd), cfg.DefaultModel), l)
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "", "description language (en, ko)")
	return cmd
}

// printModels prints the catalog as a table, marking current with "*".
func printModels(w io.Writer, current string, lang model.Language) {
	idWidth := lo.Max(lo.Map(model.Catalog, func(m model.ModelInfo, _ int) int { return len(m.ID) }))
	nameWidth := lo.Max(lo.Map(model.Catalog, func(m model.ModelInfo, _ int) int { return len(m.Name) }))

	titleColor.Fprintln(w, i18n.T(lang, i18n.KeySelectModel))
	for _, m := range model.Catalog {
		marker := "  "
		if m.ID == current {
			marker = successColor.Sprint("* ")
		}
		fmt.Fprintf(w, "%s%s  %s  %s",
			marker,
			util.PadWidth(m.ID, idWidth),
			util.PadWidth(m.Name, nameWidth),
			util.PadWidth(m.Performance, 11),
		)
		dimColor.Fprint(w, "  "+m.Description(lang))
		if m.Tag != "" {
			warningColor.Fprint(w, "  ["+m.Tag+"]")
		}
		fmt.Fprintln(w)
	}
}
