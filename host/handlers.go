package host

import (
	"context"

	"github.com/teranos/faked/faked"
	"github.com/teranos/faked/faked/diag"
	"github.com/teranos/faked/faked/members"
	"github.com/teranos/faked/logger"
	"github.com/teranos/faked/syntax"
	"github.com/teranos/faked/version"
)

// trace logs an invocation with the run ID the pipeline put in ctx.
func trace(ctx context.Context, inv Invocation) {
	logger.FromContext(ctx).Debugw("invoking handler",
		logger.FieldHandler, inv.Attribute.Name,
		logger.FieldFile, inv.File,
		logger.FieldDecl, syntax.Describe(inv.Decl))
}

// fakedHandler runs the full expansion for @Faked.
type fakedHandler struct{}

func (fakedHandler) Metadata() Metadata {
	return Metadata{
		Name:        members.FakedAttribute,
		Version:     version.Version,
		Description: "Empty protocol, default extension and Null stub for a protocol",
		Produces:    []string{"protocol", "extension", "struct|class"},
	}
}

func (fakedHandler) Expand(ctx context.Context, inv Invocation) (*Expansion, error) {
	trace(ctx, inv)
	res, err := faked.ExpandWith(inv.Decl, inv.Attribute, inv.Defaults)
	return &Expansion{Decls: res.Declarations, Diagnostics: res.Diagnostics, UnmatchedSkips: res.UnmatchedSkips}, err
}

// fakedImpHandler emits only the default-implementation extension.
type fakedImpHandler struct{}

func (fakedImpHandler) Metadata() Metadata {
	return Metadata{
		Name:        members.FakedImpAttribute,
		Version:     version.Version,
		Description: "default-implementation extension of the annotated protocol",
		Produces:    []string{"extension"},
	}
}

func (fakedImpHandler) Expand(ctx context.Context, inv Invocation) (*Expansion, error) {
	trace(ctx, inv)
	res, err := faked.ExpandDefaults(inv.Decl)
	return &Expansion{Decls: res.Declarations, Diagnostics: res.Diagnostics}, err
}

// fakeDefaultHandler validates @FakeDefault placement; it never generates code.
type fakeDefaultHandler struct{}

func (fakeDefaultHandler) Metadata() Metadata {
	return Metadata{
		Name:        members.FakeDefaultAttribute,
		Version:     version.Version,
		Description: "explicit default value for a var or func requirement",
	}
}

func (fakeDefaultHandler) Expand(ctx context.Context, inv Invocation) (*Expansion, error) {
	trace(ctx, inv)
	exp := &Expansion{}
	if err := faked.CheckDefault(inv.Decl, inv.Attribute); err != nil {
		if d, ok := diag.From(err); ok {
			exp.Diagnostics = append(exp.Diagnostics, d)
		}
		return exp, err
	}
	return exp, nil
}

// Builtin returns the handlers faked ships with.
func Builtin() []Handler {
	return []Handler{fakedHandler{}, fakedImpHandler{}, fakeDefaultHandler{}}
}

// NewDefaultRegistry returns a registry holding the built-in handlers.
func NewDefaultRegistry(fakedVersion string) (*Registry, error) {
	r := NewRegistry(fakedVersion)
	for _, h := range Builtin() {
		if err := r.Register(h); err != nil {
			return nil, err
		}
	}
	return r, nil
}
