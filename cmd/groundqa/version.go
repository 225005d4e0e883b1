package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"groundqa/internal/version"
)

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "groundqa %s (%s, built %s)\n", version.Version, version.Commit, version.BuildDate)
		},
	}
}
