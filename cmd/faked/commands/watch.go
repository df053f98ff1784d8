package commands

import (
	"context"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/faked/am"
	"github.com/teranos/faked/errors"
	"github.com/teranos/faked/gencheck"
	"github.com/teranos/faked/logger"
)

// WatchCmd regenerates output whenever a manifest changes
var WatchCmd = &cobra.Command{
	Use:   "watch <manifest|dir>...",
	Short: "Regenerate Swift whenever a manifest changes",
	Long: `Generate once, then watch the manifests and regenerate on every change.

Changes are debounced by watch.debounce_ms. When watch.exec is set, the
command runs after every successful regeneration (for example a build or
a test run). Press Ctrl+C to stop.

Examples:
  faked watch Models -o Generated
  FAKED_WATCH_EXEC="swift build" faked watch Models -o Generated`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	WatchCmd.Flags().StringP("output", "o", "", "Output directory (default: output.dir from config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := validConfig()
	if err != nil {
		return err
	}
	dir, _ := cmd.Flags().GetString("output")
	if dir == "" {
		dir = cfg.Output.Dir
	}
	if dir == "" {
		return errors.WithHint(
			errors.NewInvalidRequestError("watch needs an output directory"),
			"pass --output or set output.dir in faked.toml")
	}
	command, err := cfg.Watch.Command()
	if err != nil {
		return err
	}

	manifests, err := expandPaths(args)
	if err != nil {
		return err
	}
	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	log := logger.ComponentLogger("watch")
	success := pterm.Success.WithWriter(cmd.OutOrStdout())
	warning := pterm.Warning.WithWriter(cmd.ErrOrStderr())

	regenerate := func(changed []string) error {
		outputs, run, err := gen.generate(ctx, manifests)
		if err != nil {
			warning.Printfln("Generation failed: %v", err)
			return err
		}
		printDiagnostics(cmd.ErrOrStderr(), run.Diagnostics())
		if err := run.Err(); err != nil {
			warning.Printfln("%v", err)
			return err
		}
		if err := gencheck.Write(dir, outputs); err != nil {
			return err
		}
		success.Printfln("Generated %d file(s) in %s", len(outputs), dir)
		log.Debugw("regenerated", logger.FieldRunID, run.ID, logger.FieldOutput, dir, "changed", changed)
		return runAfter(ctx, cmd, run.ID, command)
	}

	// An initial failure is reported but does not stop the watch.
	_ = regenerate(nil)

	w, err := am.NewWatcher(manifests, time.Duration(cfg.Watch.DebounceMS)*time.Millisecond)
	if err != nil {
		return err
	}
	w.OnChange(regenerate)
	w.Start(ctx)

	pterm.Info.WithWriter(cmd.OutOrStdout()).Printfln("Watching %d manifest(s). Press Ctrl+C to stop.", len(manifests))
	<-ctx.Done()
	return nil
}

// runAfter runs the watch.exec command, if any, in the current directory.
// runID ties the hook to the regeneration that triggered it.
func runAfter(ctx context.Context, cmd *cobra.Command, runID string, command []string) error {
	if len(command) == 0 {
		return nil
	}
	logger.ComponentLogger("watch").Infow("running watch.exec", logger.FieldRunID, runID, "command", command)
	c := exec.CommandContext(ctx, command[0], command[1:]...)
	c.Stdout = cmd.OutOrStdout()
	c.Stderr = cmd.ErrOrStderr()
	if err := c.Run(); err != nil {
		return errors.Wrapf(err, "%s failed", filepath.Base(command[0]))
	}
	return nil
}
