package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/faked/errors"
	"github.com/teranos/faked/gencheck"
)

// CheckCmd verifies committed output against a fresh generation
var CheckCmd = &cobra.Command{
	Use:   "check <manifest|dir>...",
	Short: "Check that generated Swift is up to date",
	Long: `Check that the files in the output directory match what generate
would write now.

The manifests are expanded into a temporary directory and compared with the
output directory, ignoring the faked version header line. Generated files
with no manifest are reported as stale.

Examples:
  faked check Models -o Generated    # Fail in CI when Generated is stale`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	CheckCmd.Flags().StringP("output", "o", "", "Directory holding committed output (default: output.dir from config)")
	CheckCmd.Flags().Bool("diff", true, "Show a line diff for changed files")
}

func runCheck(cmd *cobra.Command, args []string) error {
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
			errors.NewInvalidRequestError("no output directory to check"),
			"pass --output or set output.dir in faked.toml")
	}
	showDiff, _ := cmd.Flags().GetBool("diff")
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Checking generated Swift...")

	tempDir, err := os.MkdirTemp("", "faked-check-*")
	if err != nil {
		return errors.Wrap(err, "failed to create temp directory")
	}
	defer os.RemoveAll(tempDir)

	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}
	outputs, run, err := gen.generate(cmd.Context(), args)
	if err != nil {
		return err
	}
	printDiagnostics(cmd.ErrOrStderr(), run.Diagnostics())
	if err := run.Err(); err != nil {
		return err
	}
	if err := gencheck.Write(tempDir, outputs); err != nil {
		return err
	}

	result, err := gencheck.CompareDirectories(tempDir, dir, cfg.Output.Suffix)
	if err != nil {
		return errors.Wrap(err, "failed to compare directories")
	}

	if result.UpToDate {
		fmt.Fprintln(out, "✓ Generated Swift is up to date")
		return nil
	}

	fmt.Fprintln(out, "✗ Generated Swift is out of date.")
	for _, d := range result.Differences {
		fmt.Fprintf(out, "  - %s (%s)\n", d.Path, d.Status)
		if showDiff && d.Diff != "" {
			fmt.Fprintln(out)
			fmt.Fprintln(out, d.Diff)
		}
	}
	return result.Err()
}
