package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/teranos/faked/am"
	"github.com/teranos/faked/errors"
)

// ConfigCmd shows and validates configuration
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or validate faked configuration",
	Long: `Display and check faked configuration.

Configuration sources (later overrides earlier):
1. Default values
2. User config (~/.config/faked/faked.toml)
3. Project config (faked.toml, searched upward from the working directory)
4. Environment variables (FAKED_* prefix, e.g. FAKED_OUTPUT_INDENT)

--config replaces the user and project files with a single file.

Examples:
  faked config show                  # Show configuration as TOML
  faked config show --format json    # Show configuration as JSON
  faked config show --sources        # Show where each setting came from
  faked config get output.indent     # Get one value
  faked config validate              # Validate configuration`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a configuration value using dot notation (e.g., output.suffix, pipeline.concurrency)",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	RunE:  runConfigValidate,
}

var configWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show which files configuration is loaded from",
	RunE:  runConfigWhere,
}

func init() {
	configShowCmd.Flags().String("format", "toml", "Output format: toml, json, yaml")
	configShowCmd.Flags().Bool("sources", false, "Show each setting with its source")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configGetCmd)
	ConfigCmd.AddCommand(configValidateCmd)
	ConfigCmd.AddCommand(configWhereCmd)
}

// settingsDocument wraps settings so every format has a top-level key.
type settingsDocument struct {
	Settings []am.SettingInfo `json:"settings" yaml:"settings" toml:"settings"`
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	sources, _ := cmd.Flags().GetBool("sources")

	var v interface{} = loaded.Config
	if sources {
		v = settingsDocument{Settings: loaded.Settings()}
	}
	data, err := am.Encode(v, format)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if format != "json" {
		fmt.Fprintln(out, "# faked configuration")
	}
	_, err = out.Write(data)
	return err
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	value, ok := loaded.Get(args[0])
	if !ok {
		return errors.NewNotFoundError("configuration key %q", args[0])
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if err := loaded.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
	return nil
}

func runConfigWhere(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(out, "  1. [DEFAULT]  Built-in defaults")
	fmt.Fprintln(out, "  2. [USER]     ~/.config/faked/faked.toml")
	fmt.Fprintln(out, "  3. [PROJECT]  ./faked.toml (searches up directories)")
	fmt.Fprintln(out, "  4. [ENV]      FAKED_* environment variables")
	fmt.Fprintln(out)

	if len(loaded.Files) == 0 {
		fmt.Fprintln(out, "No config files found; using defaults.")
	} else {
		fmt.Fprintln(out, "Files merged:")
		for _, f := range loaded.Files {
			fmt.Fprintf(out, "  %s\n", f)
		}
	}

	counts := make(map[am.ConfigSource]int)
	for _, s := range loaded.Settings() {
		counts[s.Source]++
	}
	sources := make([]string, 0, len(counts))
	for src := range counts {
		sources = append(sources, string(src))
	}
	sort.Strings(sources)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Settings by source:")
	for _, src := range sources {
		fmt.Fprintf(out, "  %-12s %d\n", src, counts[am.ConfigSource(src)])
	}
	return nil
}
