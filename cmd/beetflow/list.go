package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/beetflow"
	"github.com/aretw0/beetflow/internal/cli"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the trees found in --dir",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")

		eng, err := beetflow.New(beetflow.WithDir(dir))
		if err != nil {
			return err
		}
		names, err := eng.Trees()
		if err != nil {
			return err
		}
		for _, n := range names {
			if n == strings.TrimSuffix(cli.DefaultToolsFile, filepath.Ext(cli.DefaultToolsFile)) {
				continue
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
