package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/beetflow/internal/cli"
	"github.com/aretw0/beetflow/internal/presentation/tui"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <file|name>",
	Short: "Run a behavior tree until its root ends",
	Long: `Spawns the tree read from a file, or by name from --dir, and ticks it until
the root ends. Interrupting the process interrupts the tree.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		dir, _ := flags.GetString("dir")
		tools, _ := flags.GetString("tools")
		debug, _ := flags.GetBool("debug")
		tick, _ := flags.GetDuration("tick")
		delta, _ := flags.GetDuration("delta")
		maxTicks, _ := flags.GetInt("max-ticks")
		trace, _ := flags.GetBool("trace")
		traceDir, _ := flags.GetString("trace-dir")
		redisAddr, _ := flags.GetString("redis")
		metricsAddr, _ := flags.GetString("metrics-addr")
		set, _ := flags.GetStringToString("set")
		redact, _ := flags.GetStringSlice("redact")
		traceKey, _ := flags.GetString("trace-key")
		exclusive, _ := flags.GetBool("exclusive")
		if traceKey == "" {
			traceKey = os.Getenv("BEETFLOW_TRACE_KEY")
		}

		out := cmd.OutOrStdout()
		if trace && term.IsTerminal(int(os.Stdout.Fd())) {
			tui.PrintBanner(out)
		}

		sig := cli.NewSignalContext(cmd.Context())
		defer sig.Cancel()

		outcome, err := cli.Run(sig, args[0], cli.RunOptions{
			Dir:         dir,
			Tools:       tools,
			Tick:        tick,
			Delta:       delta,
			MaxTicks:    maxTicks,
			Trace:       trace,
			TraceDir:    traceDir,
			RedisAddr:   redisAddr,
			MetricsAddr: metricsAddr,
			Logger:      cli.NewLogger(debug),
			Out:         out,
			TraceKey:    traceKey,
			Redact:      redact,
			Set:         set,
			Exclusive:   exclusive,
		})
		if err != nil {
			if s := sig.Signal(); s != nil {
				return fmt.Errorf("interrupted by %s: %w", s, err)
			}
			return err
		}
		fmt.Fprintf(out, "outcome: %s\n", outcome)
		if !outcome.IsPass() {
			return fmt.Errorf("tree %s ended with %s", args[0], outcome)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Duration("tick", 16*time.Millisecond, "Wall-clock time between ticks (0 ticks as fast as possible)")
	runCmd.Flags().Duration("delta", 0, "Simulated time per tick (defaults to --tick)")
	runCmd.Flags().Int("max-ticks", 0, "Interrupt the tree after this many ticks (0 is unbounded)")
	runCmd.Flags().Bool("trace", false, "Print lifecycle events as they happen")
	runCmd.Flags().String("trace-dir", "", "Save run traces as JSON files in this directory")
	runCmd.Flags().String("redis", "", "Save run traces to the Redis server at this address")
	runCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics and /healthz on this address")
	runCmd.Flags().StringToString("set", nil, "Blackboard values, also passed as the run payload (key=value)")
	runCmd.Flags().StringSlice("redact", nil, "Mask payload keys matching these patterns in stored traces")
	runCmd.Flags().String("trace-key", "", "Hex AES-256 key sealing stored traces (or BEETFLOW_TRACE_KEY)")
	runCmd.Flags().Bool("exclusive", false, "Hold a Redis lock on the tree name while it runs (needs --redis)")
}
