package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/beetflow/internal/cli"
	"github.com/aretw0/beetflow/internal/presentation/tui"
)

var describeCmd = &cobra.Command{
	Use:   "describe <file|name>",
	Short: "Print an outline of the tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		tools, _ := cmd.Flags().GetString("tools")
		raw, _ := cmd.Flags().GetBool("raw")

		md, err := cli.Describe(cmd.Context(), args[0], dir, tools)
		if err != nil {
			return err
		}
		if !raw && term.IsTerminal(int(os.Stdout.Fd())) {
			if rendered, err := tui.NewRenderer()(md); err == nil {
				md = rendered
			}
		}
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)

	describeCmd.Flags().Bool("raw", false, "Print markdown without rendering")
}
