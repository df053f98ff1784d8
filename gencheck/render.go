// Package gencheck renders generated Swift files and checks committed
// output against a fresh generation.
package gencheck

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/teranos/faked/errors"
	"github.com/teranos/faked/syntax"
)

const (
	// VersionPrefix starts the header line that changes with every release.
	// Comparisons ignore it.
	VersionPrefix = "// faked version:"

	DefaultSuffix = "+Faked.swift"

	dirPermissions  = 0o755
	filePermissions = 0o644
)

// RenderOptions controls the text of a generated file.
type RenderOptions struct {
	Indent  int
	Header  bool
	Version string
}

// Output is one generated file.
type Output struct {
	// Name is the file name relative to the output directory.
	Name    string
	Source  string
	Content []byte
}

// Render prints decls as a complete file generated from source.
func Render(source string, decls []syntax.Decl, opts RenderOptions) []byte {
	var b strings.Builder
	if opts.Header {
		fmt.Fprintf(&b, "// Generated by faked from %s. Do not edit.\n", filepath.Base(source))
		fmt.Fprintf(&b, "%s %s\n", VersionPrefix, opts.Version)
		if len(decls) > 0 {
			b.WriteString("\n")
		}
	}
	if len(decls) > 0 {
		b.WriteString(syntax.FormatAll(decls, syntax.PrintOptions{Indent: opts.Indent}))
	}
	return []byte(b.String())
}

// OutputName maps a manifest path to its generated file name:
// Models/thing.yaml with suffix "+Faked.swift" becomes thing+Faked.swift.
func OutputName(manifestPath, suffix string) string {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	base := filepath.Base(manifestPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + suffix
}

// Write stores outputs under dir, creating it when needed.
func Write(dir string, outputs []*Output) error {
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}
	for _, out := range outputs {
		path := filepath.Join(dir, out.Name)
		if err := os.WriteFile(path, out.Content, filePermissions); err != nil {
			return errors.Wrapf(err, "failed to write %s", path)
		}
	}
	return nil
}
