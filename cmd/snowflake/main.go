package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"

	"snowflake-ca/internal/logging"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "snowflake",
		Short: "Hexagonal snowflake growth simulator",
		Long: `snowflake grows a crystal on a hexagonal lattice from a single seed cell
by diffusing vapour, freezing it along the crystal border and melting back
whatever does not attach.

Runs are headless: frames are written as PNG files for later assembly.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "YAML config file layered over the defaults")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (info, debug, trace, warn, error)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable coloured output")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newSweepCmd(),
		newParamsCmd(),
	)
	return rootCmd
}

func colors(cmd *cobra.Command) aurora.Aurora {
	noColor, _ := cmd.Flags().GetBool("no-color")
	return aurora.NewAurora(!noColor)
}

func stateColor(au aurora.Aurora, state fmt.Stringer) aurora.Value {
	switch state.String() {
	case "completed":
		return au.Green(state)
	case "exhausted":
		return au.Cyan(state)
	case "stopped":
		return au.Yellow(state)
	case "failed":
		return au.Red(state)
	default:
		return au.Blue(state)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "snowflake version %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	return logging.NewLogger(level, cmd.ErrOrStderr())
}
