// Package host drives expansions: it owns the table of named annotation
// handlers and runs them over every declaration of a set of files.
package host

import (
	"context"

	"github.com/teranos/faked/faked/diag"
	"github.com/teranos/faked/faked/options"
	"github.com/teranos/faked/syntax"
)

// Metadata describes a handler.
type Metadata struct {
	// Name is the annotation the handler is registered under, without '@'.
	Name        string
	Version     string
	Description string
	// Requires is a semver constraint on the faked version, e.g. ">= 0.2.0". Empty means any.
	Requires string
	// Produces names the kinds of declaration the handler emits.
	Produces []string
}

// Invocation is one annotation application.
type Invocation struct {
	File      string
	Decl      syntax.Decl
	Attribute *syntax.Attribute
	Defaults  options.Defaults
}

// Expansion is what a handler returns on success.
type Expansion struct {
	Decls       []syntax.Decl
	Diagnostics []*diag.Diagnostic
	// UnmatchedSkips are skip entries naming no member.
	UnmatchedSkips []string
}

// Handler expands one kind of annotation.
type Handler interface {
	Metadata() Metadata
	// Expand returns the generated declarations. A fatal diagnostic is
	// returned as the error; the Expansion may still carry diagnostics.
	Expand(ctx context.Context, inv Invocation) (*Expansion, error)
}
