package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/beetflow"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of beetflow",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "beetflow version %s\n", strings.TrimSpace(beetflow.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
