package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/beetflow/internal/cli"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <file|name>",
	Short: "Export the tree as a Mermaid diagram",
	Long: `Inspects the tree and outputs a Mermaid diagram (graph TD). With --run the
tree is run first and the nodes it visited are styled by outcome.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		tools, _ := cmd.Flags().GetString("tools")
		execute, _ := cmd.Flags().GetBool("run")
		maxTicks, _ := cmd.Flags().GetInt("max-ticks")

		out, err := cli.Graph(cmd.Context(), args[0], cli.GraphOptions{
			Dir:      dir,
			Tools:    tools,
			Execute:  execute,
			MaxTicks: maxTicks,
		})
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().Bool("run", false, "Run the tree and overlay the result")
	graphCmd.Flags().Int("max-ticks", 1000, "Tick budget for --run")
}
