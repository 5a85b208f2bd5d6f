package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/beetflow"
	"github.com/aretw0/beetflow/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|name>...",
	Short: "Check tree definitions for consistency",
	Long: `Parses each definition and reports unknown actions or markers, bad params,
misplaced loops and RunNext jumps to undeclared states.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		tools, _ := cmd.Flags().GetString("tools")

		opts, err := cli.EngineOptions(dir, tools)
		if err != nil {
			return err
		}
		eng, err := beetflow.New(opts...)
		if err != nil {
			return err
		}
		failed := 0
		for _, arg := range args {
			data, name, err := cli.ReadSource(arg, dir)
			if err == nil {
				_, err = eng.Validate(data)
			}
			if err != nil {
				failed++
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", arg, err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", name)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d trees are invalid", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
