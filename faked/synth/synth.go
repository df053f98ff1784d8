// Package synth builds the three generated declarations for a classified
// protocol: the Empty-prefixed protocol, its default-implementation
// extension and the Null-prefixed stub.
package synth

import (
	"github.com/teranos/faked/faked/defaults"
	"github.com/teranos/faked/faked/diag"
	"github.com/teranos/faked/faked/members"
	"github.com/teranos/faked/faked/options"
	"github.com/teranos/faked/syntax"
)

// EmptyPrefix names the extended protocol.
const EmptyPrefix = "Empty"

// EmptyName returns the extended protocol name for an interface.
func EmptyName(name string) string { return EmptyPrefix + name }

// NullName returns the stub type name for an interface.
func NullName(name string) string { return options.NullPrefix + name }

// Output holds the generated declarations. Stub is nil when disabled.
type Output struct {
	Protocol  *syntax.ProtocolDecl
	Extension *syntax.ExtensionDecl
	Stub      *syntax.NominalDecl
}

// Decls returns the declarations in emission order: protocol, extension, stub.
func (o *Output) Decls() []syntax.Decl {
	decls := []syntax.Decl{o.Protocol, o.Extension}
	if o.Stub != nil {
		decls = append(decls, o.Stub)
	}
	return decls
}

// Synthesize produces all generated declarations or none.
func Synthesize(p *syntax.ProtocolDecl, c *members.Classification, cfg *options.Configuration) (*Output, error) {
	ext, err := Augmentation(syntax.Named(EmptyName(p.Name)), c)
	if err != nil {
		return nil, err
	}
	out := &Output{
		Protocol:  ExtendedProtocol(p, c, cfg),
		Extension: ext,
	}
	if cfg.CreateNull {
		out.Stub = Stub(p.Name, c, cfg)
	}
	return out, nil
}

// ExtendedProtocol builds `protocol EmptyP: P, <inherit...> { requirements }`.
// Skipped members are left out; access modifiers are never added.
func ExtendedProtocol(p *syntax.ProtocolDecl, c *members.Classification, cfg *options.Configuration) *syntax.ProtocolDecl {
	inherits := []syntax.TypeRef{syntax.Named(p.Name)}
	for _, name := range cfg.Inherit {
		inherits = append(inherits, syntax.ParseType(name))
	}

	out := &syntax.ProtocolDecl{
		Pos:      p.Pos,
		Name:     EmptyName(p.Name),
		Inherits: inherits,
	}
	for _, m := range c.Members {
		if members.Skipped(m) {
			continue
		}
		out.Members = append(out.Members, requirement(m))
	}
	return out
}

// requirement copies a member without its default annotation or docs.
func requirement(m members.Member) syntax.Decl {
	switch m := m.(type) {
	case *members.Property:
		v := *m.Decl
		v.Doc = nil
		v.Attrs = syntax.WithoutAttribute(v.Attrs, members.FakeDefaultAttribute)
		return &v
	case *members.Method:
		f := *m.Decl
		f.Doc = nil
		f.Attrs = syntax.WithoutAttribute(f.Attrs, members.FakeDefaultAttribute)
		f.Body = nil
		return &f
	}
	return m.Source()
}

// Augmentation builds `extension <extended> { defaults }` for every
// non-skipped member. Any member whose value cannot be decided aborts the
// whole extension.
func Augmentation(extended syntax.TypeRef, c *members.Classification) (*syntax.ExtensionDecl, error) {
	var rep diag.Reporter
	ext := &syntax.ExtensionDecl{Extended: extended}

	for _, m := range c.Members {
		if members.Skipped(m) {
			continue
		}
		switch m := m.(type) {
		case *members.Property:
			d := defaults.For(m.Type, m.Override)
			if !d.OK() {
				return nil, rep.Report(diag.New(diag.UnhandledType, m.Decl.Pos, m.Type.String()).At(m.Decl))
			}
			ext.Members = append(ext.Members, &syntax.VarDecl{
				Pos:       m.Decl.Pos,
				Attrs:     syntax.WithoutAttribute(m.Decl.Attrs, members.FakeDefaultAttribute),
				Modifiers: m.Decl.Modifiers,
				Keyword:   "var",
				Bindings: []*syntax.Binding{{
					Name: m.Name,
					Type: m.Type,
					Body: &syntax.AccessorBody{Getter: d.Expr, Setter: m.Access == members.ReadWrite},
				}},
			})

		case *members.Method:
			f := *m.Decl
			f.Doc = nil
			f.Attrs = syntax.WithoutAttribute(f.Attrs, members.FakeDefaultAttribute)
			f.Body = &syntax.Block{}
			if !defaults.IsVoid(m.Result) {
				d := defaults.For(m.Result, m.Override)
				if !d.OK() {
					return nil, rep.Report(diag.New(diag.UnhandledType, m.Decl.Pos, m.Result.String()).At(m.Decl))
				}
				f.Body.Result = d.Expr
			}
			ext.Members = append(ext.Members, &f)
		}
	}
	return ext, nil
}

// Stub builds the concrete Null type: a class when the protocol or the
// configuration asks for reference semantics, a struct otherwise. Its body
// aliases every placeholder.
func Stub(name string, c *members.Classification, cfg *options.Configuration) *syntax.NominalDecl {
	flavor := syntax.KindStruct
	if c.RequiresReference || cfg.AnyObject {
		flavor = syntax.KindClass
	}
	stub := &syntax.NominalDecl{
		Flavor:   flavor,
		Name:     NullName(name),
		Inherits: []syntax.TypeRef{syntax.Named(EmptyName(name))},
	}
	for _, t := range cfg.Types {
		stub.Members = append(stub.Members, &syntax.TypeAliasDecl{
			Name:   t.Placeholder,
			Target: syntax.ParseType(t.Concrete),
		})
	}
	return stub
}
