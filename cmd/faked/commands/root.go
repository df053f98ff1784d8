// Package commands implements the faked command line.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/teranos/faked/am"
	"github.com/teranos/faked/errors"
	"github.com/teranos/faked/logger"
)

// RootCmd is the faked command
var RootCmd = &cobra.Command{
	Use:   "faked",
	Short: "Generate Empty protocols, default extensions and Null stubs",
	Long: `faked expands @Faked protocol declarations described in manifests.

For every annotated protocol P it generates:
  protocol EmptyP: P     - the requirements of P
  extension EmptyP       - a default for every requirement
  struct|class NullP     - a ready-made stub conforming to EmptyP

Available commands:
  generate - Expand manifests to Swift
  check    - Verify committed output is up to date
  watch    - Regenerate whenever a manifest changes
  handlers - List annotation handlers
  config   - Show or validate configuration
  version  - Show version information

Examples:
  faked generate Models/thing.yaml              # Print to stdout
  faked generate Models/*.yaml -o Generated     # Write Generated/thing+Faked.swift
  faked check Models/*.yaml -o Generated        # Fail when Generated is stale
  faked config show --format yaml`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

var (
	verbosity  int
	jsonLog    bool
	configFile string

	// loaded is the configuration resolved by setup.
	loaded *am.Loaded
)

func init() {
	RootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	RootCmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "Write logs as JSON")
	RootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: faked.toml searched upward)")

	RootCmd.AddCommand(GenerateCmd)
	RootCmd.AddCommand(CheckCmd)
	RootCmd.AddCommand(WatchCmd)
	RootCmd.AddCommand(HandlersCmd)
	RootCmd.AddCommand(ConfigCmd)
	RootCmd.AddCommand(VersionCmd)
}

// setup loads configuration and initializes the global logger before any
// command runs.
func setup(cmd *cobra.Command, args []string) error {
	l, err := am.Load(am.LoadOptions{ConfigFile: configFile})
	if err != nil {
		return err
	}
	loaded = l

	opts := logger.Options{
		JSON:      jsonLog || l.Log.JSON,
		Verbosity: verbosity,
		Theme:     l.Log.Theme,
		Writer:    cmd.ErrOrStderr(),
	}
	if err := logger.Initialize(opts); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	logger.SetColor(isTerminal(cmd.ErrOrStderr()))
	logger.Debugw("configuration loaded", "files", l.Files, "verbosity", logger.LevelName(verbosity))
	return nil
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := RootCmd.ExecuteContext(ctx); err != nil {
		printError(RootCmd.ErrOrStderr(), err)
		return 1
	}
	return 0
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	for _, hint := range errors.Hints(err) {
		fmt.Fprintf(w, "  hint: %s\n", hint)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) && os.Getenv("NO_COLOR") == ""
}
