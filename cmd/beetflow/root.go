package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "beetflow",
	Short: "Beetflow runs event-driven behavior trees",
	Long: `Beetflow loads behavior trees from YAML or JSON definitions and runs them
on a fixed tick, reporting traces and metrics along the way.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing tree definitions")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
	rootCmd.PersistentFlags().String("tools", "", "Process allow-list (defaults to tools.yaml in --dir)")
}
