// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			titleColor.Fprintf(w, "aurora %s\n", Version)
			printField(w, "Commit", GitCommit)
			printField(w, "Built", BuildDate)
			printField(w, "Go", runtime.Version())
			printField(w, "Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH))
		},
	}
}
