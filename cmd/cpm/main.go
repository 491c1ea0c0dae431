package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mad-cpm/internal/core"
	"mad-cpm/internal/logging"
	_ "mad-cpm/internal/sims/potts"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cpm",
		Short: "Cellular Potts Model simulator",
		Long: `cpm simulates cells on a lattice with the Cellular Potts Model.

Parameters come from an embedded default scenario (migrating cells among
round obstacles) which a YAML file given with --config can override.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "YAML parameter file layered over the defaults")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: warn, info, debug or trace")

	rootCmd.AddCommand(
		newVersionCmd(),
		newListCmd(),
		newRunCmd(),
		newSweepCmd(),
		newViewCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cpm version %s\n", version)
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the registered simulations",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range core.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}

// setupLogger installs the process-wide logger tagged with a fresh run id.
func setupLogger(cmd *cobra.Command) (*slog.Logger, string) {
	level, _ := cmd.Flags().GetString("log-level")
	runID := uuid.NewString()
	var w io.Writer = cmd.ErrOrStderr()
	log := logging.NewLogger(level, w).With("run", runID)
	slog.SetDefault(log)
	return log, runID
}
