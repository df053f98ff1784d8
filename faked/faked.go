// Package faked expands @Faked protocol declarations into an Empty
// protocol, a default-implementation extension and a Null stub.
//
// Expansion is a pure function of its inputs: the same declaration and
// arguments always yield the same declarations and diagnostics.
package faked

import (
	"github.com/teranos/faked/faked/diag"
	"github.com/teranos/faked/faked/members"
	"github.com/teranos/faked/faked/options"
	"github.com/teranos/faked/faked/synth"
	"github.com/teranos/faked/syntax"
)

// Result is the outcome of one expansion. Declarations is nil when a fatal
// diagnostic was raised; Diagnostics always carries everything reported.
type Result struct {
	Declarations []syntax.Decl
	Diagnostics  []*diag.Diagnostic
	Output       *synth.Output
	// UnmatchedSkips are skip entries that named no member.
	UnmatchedSkips []string
}

// Expand runs a @Faked expansion with the built-in defaults. attr may be
// nil, which is the same as an annotation without arguments.
func Expand(decl syntax.Decl, attr *syntax.Attribute) (*Result, error) {
	return ExpandWith(decl, attr, options.DefaultSettings())
}

// ExpandWith runs a @Faked expansion. defs supply values for omitted
// arguments. On a fatal diagnostic the returned error wraps it and the
// Result holds diagnostics only.
func ExpandWith(decl syntax.Decl, attr *syntax.Attribute, defs options.Defaults) (*Result, error) {
	var rep diag.Reporter
	res := &Result{}
	fail := func(err error) (*Result, error) {
		if d, ok := diag.From(err); ok && !contains(rep.Diagnostics(), d) {
			_ = rep.Report(d)
		}
		res.Diagnostics = rep.Diagnostics()
		return res, err
	}

	anchor := decl.Position()
	if attr != nil && attr.Pos.IsValid() {
		anchor = attr.Pos
	}

	p, ok := decl.(*syntax.ProtocolDecl)
	if !ok {
		return fail(rep.Report(diag.New(diag.NotAnInterface, anchor, syntax.Describe(decl)).In(decl)))
	}

	var args []*syntax.Argument
	if attr != nil {
		args = attr.Args
	}
	raw, err := options.Decode(args, defs)
	if err != nil {
		return fail(err)
	}

	cls, err := members.Classify(p)
	if err != nil {
		return fail(err)
	}

	cfg, err := options.Validate(raw, anchor, cls.PlaceholderNames(), cls.Names(), &rep)
	if err != nil {
		return fail(err)
	}
	cls.MarkSkipped(cfg.Skips)

	out, err := synth.Synthesize(p, cls, cfg)
	if err != nil {
		return fail(err)
	}

	res.Output = out
	res.Declarations = out.Decls()
	res.Diagnostics = rep.Diagnostics()
	res.UnmatchedSkips = cfg.UnmatchedSkips
	return res, nil
}

// ExpandDefaults runs the extension-only expansion used by @Faked_Imp: a
// default-implementation extension of the annotated protocol itself.
func ExpandDefaults(decl syntax.Decl) (*Result, error) {
	var rep diag.Reporter
	res := &Result{}

	p, ok := decl.(*syntax.ProtocolDecl)
	if !ok {
		err := rep.Report(diag.New(diag.NotAnInterface, decl.Position(), syntax.Describe(decl)).In(decl))
		res.Diagnostics = rep.Diagnostics()
		return res, err
	}

	cls, err := members.Classify(p)
	if err == nil {
		var ext *syntax.ExtensionDecl
		if ext, err = synth.Augmentation(syntax.Named(p.Name), cls); err == nil {
			res.Declarations = []syntax.Decl{ext}
			return res, nil
		}
	}
	if d, ok := diag.From(err); ok {
		_ = rep.Report(d)
	}
	res.Diagnostics = rep.Diagnostics()
	return res, err
}

// CheckDefault validates a @FakeDefault annotation in isolation. It is an
// error on anything but a var or func, and on a malformed value.
func CheckDefault(decl syntax.Decl, attr *syntax.Attribute) error {
	var rep diag.Reporter
	switch decl.(type) {
	case *syntax.VarDecl, *syntax.FuncDecl:
		_, err := members.OverrideValue(attr, decl)
		return err
	}
	return rep.Report(diag.New(diag.DefaultMisplaced, attr.Pos, "").In(decl))
}

func contains(diags []*diag.Diagnostic, d *diag.Diagnostic) bool {
	for _, x := range diags {
		if x == d {
			return true
		}
	}
	return false
}
