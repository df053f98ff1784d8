package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/faked/am"
	"github.com/teranos/faked/errors"
	"github.com/teranos/faked/faked/diag"
	"github.com/teranos/faked/gencheck"
	"github.com/teranos/faked/host"
	"github.com/teranos/faked/logger"
	"github.com/teranos/faked/manifest"
	"github.com/teranos/faked/syntax"
	"github.com/teranos/faked/version"
)

// GenerateCmd expands manifests to Swift
var GenerateCmd = &cobra.Command{
	Use:   "generate <manifest|dir>...",
	Short: "Expand manifests to Swift",
	Long: `Expand every @Faked declaration in the given manifests.

Directories are searched (non-recursively) for .yaml, .yml, .json and .toml
manifests. Without --output the generated code is printed to stdout; with
--output each manifest gets its own <name>+Faked.swift file.

Diagnostics are printed to stderr. The command fails when any declaration
produced an error.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	GenerateCmd.Flags().StringP("output", "o", "", "Output directory (default: output.dir from config, or stdout)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := validConfig()
	if err != nil {
		return err
	}
	dir, _ := cmd.Flags().GetString("output")
	if dir == "" {
		dir = cfg.Output.Dir
	}

	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}
	outputs, run, err := gen.generate(cmd.Context(), args)
	if err != nil {
		return err
	}
	printDiagnostics(cmd.ErrOrStderr(), run.Diagnostics())

	if dir == "" {
		if err := writeStdout(cmd.OutOrStdout(), outputs); err != nil {
			return err
		}
	} else {
		if err := gencheck.Write(dir, outputs); err != nil {
			return err
		}
		for _, out := range outputs {
			pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Generated %s", filepath.Join(dir, out.Name))
			if logger.ShouldLogTrace(verbosity) {
				fmt.Fprintf(cmd.ErrOrStderr(), "// File: %s\n%s", out.Name, out.Content)
			}
		}
	}
	return run.Err()
}

// validConfig returns the configuration loaded by setup after validating it.
func validConfig() (*am.Config, error) {
	if loaded == nil {
		return nil, errors.New("configuration not loaded")
	}
	if err := loaded.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return loaded.Config, nil
}

// generator turns manifests into rendered output files.
type generator struct {
	cfg      *am.Config
	pipeline *host.Pipeline
}

func newGenerator(cfg *am.Config) (*generator, error) {
	reg, err := host.NewDefaultRegistry(version.Version)
	if err != nil {
		return nil, errors.Wrap(err, "failed to register handlers")
	}
	return &generator{
		cfg: cfg,
		pipeline: host.NewPipeline(reg,
			host.WithDefaults(cfg.ExpansionDefaults()),
			host.WithConcurrency(cfg.Pipeline.Concurrency)),
	}, nil
}

// generate loads the manifests named by paths, expands them, and renders
// one output per manifest. A manifest that yields nothing still gets an
// output so that check notices when every declaration is removed.
func (g *generator) generate(ctx context.Context, paths []string) ([]*gencheck.Output, *host.Run, error) {
	manifests, err := expandPaths(paths)
	if err != nil {
		return nil, nil, err
	}

	files := make([]*syntax.File, len(manifests))
	for i, path := range manifests {
		f, err := manifest.Load(path)
		if err != nil {
			return nil, nil, err
		}
		files[i] = f
	}

	run, err := g.pipeline.Run(ctx, files)
	if err != nil {
		return nil, nil, err
	}

	opts := gencheck.RenderOptions{
		Indent:  g.cfg.Output.Indent,
		Header:  g.cfg.Output.Header,
		Version: version.Version,
	}
	outputs := make([]*gencheck.Output, len(manifests))
	seen := make(map[string]string)
	for i, path := range manifests {
		name := gencheck.OutputName(path, g.cfg.Output.Suffix)
		if prev, ok := seen[name]; ok {
			return nil, nil, errors.NewInvalidRequestError("%s and %s both generate %s", prev, path, name)
		}
		seen[name] = path
		outputs[i] = &gencheck.Output{
			Name:    name,
			Source:  path,
			Content: gencheck.Render(path, run.Files[i].Generated(), opts),
		}
	}
	logger.Debugw("rendered outputs", logger.FieldRunID, run.ID, logger.FieldCount, len(outputs))
	return outputs, run, nil
}

// expandPaths replaces directories with the manifests they contain. A
// faked.toml in a scanned directory is configuration, not a manifest.
func expandPaths(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.NewNotFoundError("manifest %s", p)
			}
			return nil, errors.Wrapf(err, "failed to stat %s", p)
		}
		if !info.IsDir() {
			if _, err := manifest.DetectFormat(p); err != nil {
				return nil, err
			}
			out = append(out, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", p)
		}
		var found []string
		for _, e := range entries {
			if !e.IsDir() && e.Name() != am.ProjectFileName && manifest.IsManifest(e.Name()) {
				found = append(found, filepath.Join(p, e.Name()))
			}
		}
		sort.Strings(found)
		out = append(out, found...)
	}
	if len(out) == 0 {
		return nil, errors.WithHint(
			errors.NewNotFoundError("no manifests in %v", paths),
			"manifests end in .yaml, .yml, .json or .toml")
	}
	return out, nil
}

func writeStdout(w io.Writer, outputs []*gencheck.Output) error {
	for i, out := range outputs {
		if len(outputs) > 1 {
			sep := fmt.Sprintf("// File: %s\n", out.Name)
			if i > 0 {
				sep = "\n" + sep
			}
			if _, err := io.WriteString(w, sep); err != nil {
				return errors.Wrap(err, "failed to write output")
			}
		}
		if _, err := w.Write(out.Content); err != nil {
			return errors.Wrapf(err, "failed to write %s", out.Name)
		}
	}
	return nil
}

// printDiagnostics writes diags to w, or emits them as log records when
// logs are JSON.
func printDiagnostics(w io.Writer, diags []*diag.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	if logger.JSONOutput {
		for _, d := range diags {
			fields := []interface{}{
				logger.FieldDiagnostic, d.ID(),
				logger.FieldSeverity, d.Severity,
				logger.FieldPath, d.Anchor.String(),
			}
			if d.Fatal() {
				logger.Errorw(d.Message, fields...)
			} else {
				logger.Warnw(d.Message, fields...)
			}
		}
		return
	}
	ctx := diag.ContextPlain
	if isTerminal(w) {
		ctx = diag.ContextTerminal
	}
	fmt.Fprintln(w, diag.FormatAll(diags, ctx))
}
