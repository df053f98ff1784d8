// Package options parses the arguments of a @Faked annotation into a
// validated Configuration.
package options

import (
	"bitbucket.org/creachadair/stringset"

	"github.com/teranos/faked/faked/diag"
	"github.com/teranos/faked/syntax"
)

// Argument labels accepted on @Faked.
const (
	LabelTypes      = "types"
	LabelInherit    = "inherit"
	LabelAnyObject  = "anyObject"
	LabelSkip       = "skip"
	LabelCreateNull = "createNull"
)

// NullPrefix names the default concrete type for an unbound placeholder.
const NullPrefix = "Null"

// Defaults are the project-wide values used when an argument is omitted.
type Defaults struct {
	CreateNull bool
	AnyObject  bool
	Inherit    []string
}

// DefaultSettings returns the built-in defaults: create the stub, value semantics, no extra parents.
func DefaultSettings() Defaults {
	return Defaults{CreateNull: true}
}

// TypeBinding is one placeholder-to-concrete entry as written.
type TypeBinding struct {
	Pos      syntax.Pos
	Name     string
	Concrete string
}

// Raw is the decoded but unvalidated argument set.
type Raw struct {
	Bindings   []TypeBinding
	Inherit    []string
	AnyObject  bool
	Skip       []string
	CreateNull bool
}

// Resolved binds one placeholder to the type the stub aliases it to.
type Resolved struct {
	Placeholder string
	Concrete    string
	// Defaulted is set when no binding named the placeholder.
	Defaulted bool
}

// Configuration is the validated, immutable configuration for one expansion.
type Configuration struct {
	Types      []Resolved
	Inherit    []string
	AnyObject  bool
	Skip       stringset.Set
	CreateNull bool
	// UnmatchedSkips lists skip entries naming no member, sorted.
	UnmatchedSkips []string
}

// Skips reports whether the member name is excluded.
func (c *Configuration) Skips(name string) bool {
	return c.Skip.Contains(name)
}

// Validate checks raw against the interface's placeholders and member
// names. A non-empty binding list must cover the placeholders exactly in
// count; bindings naming an unknown placeholder are warned about and
// ignored. anchor positions diagnostics that have no better home.
func Validate(raw *Raw, anchor syntax.Pos, placeholders, memberNames []string, rep *diag.Reporter) (*Configuration, error) {
	if len(raw.Bindings) > 0 && len(raw.Bindings) != len(placeholders) {
		return nil, rep.Report(diag.Newf(diag.TypesMismatch, anchor,
			"%d bound, %d declared", len(raw.Bindings), len(placeholders)))
	}

	declared := stringset.New(placeholders...)
	bound := make(map[string]string, len(raw.Bindings))
	for _, b := range raw.Bindings {
		if !declared.Contains(b.Name) {
			if err := rep.Report(diag.New(diag.TypeNotFound, b.Pos, b.Name)); err != nil {
				return nil, err
			}
			continue
		}
		bound[b.Name] = b.Concrete
	}

	cfg := &Configuration{
		Inherit:    raw.Inherit,
		AnyObject:  raw.AnyObject,
		Skip:       stringset.New(raw.Skip...),
		CreateNull: raw.CreateNull,
	}
	for _, name := range placeholders {
		concrete, ok := bound[name]
		if !ok {
			cfg.Types = append(cfg.Types, Resolved{Placeholder: name, Concrete: NullPrefix + name, Defaulted: true})
			continue
		}
		cfg.Types = append(cfg.Types, Resolved{Placeholder: name, Concrete: concrete})
	}
	cfg.UnmatchedSkips = cfg.Skip.Diff(stringset.New(memberNames...)).Elements()
	return cfg, nil
}

// Parse is Decode followed by Validate.
func Parse(attr *syntax.Attribute, anchor syntax.Pos, defs Defaults, placeholders, memberNames []string, rep *diag.Reporter) (*Configuration, error) {
	var args []*syntax.Argument
	if attr != nil {
		args = attr.Args
	}
	raw, err := Decode(args, defs)
	if err != nil {
		return nil, err
	}
	return Validate(raw, anchor, placeholders, memberNames, rep)
}
