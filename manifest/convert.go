package manifest

import (
	"github.com/teranos/faked/errors"
	"github.com/teranos/faked/syntax"
)

// Convert builds the syntax tree for the document. fallback names the file
// when the document does not.
func (doc *Document) Convert(fallback string) (*syntax.File, error) {
	name := doc.File
	if name == "" {
		name = fallback
	}
	c := converter{file: name}
	f := &syntax.File{Name: name}
	for i, d := range doc.Declarations {
		decl, err := c.decl(d)
		if err != nil {
			return nil, errors.Wrapf(err, "declaration %d", i+1)
		}
		f.Decls = append(f.Decls, decl)
	}
	return f, nil
}

type converter struct {
	file string
}

func (c converter) pos(line, column int) syntax.Pos {
	return syntax.Pos{File: c.file, Line: line, Column: column}
}

func (c converter) decl(d *Decl) (syntax.Decl, error) {
	if d == nil {
		return nil, errors.NewInvalidRequestError("empty declaration")
	}
	pos := c.pos(d.line, d.column)
	attrs := c.attributes(d.Attributes)

	switch syntax.DeclKind(d.Kind) {
	case syntax.KindProtocol:
		if err := requireName(d); err != nil {
			return nil, err
		}
		members, err := c.members(d)
		if err != nil {
			return nil, err
		}
		return &syntax.ProtocolDecl{Pos: pos, Doc: d.Doc, Attrs: attrs, Modifiers: d.Modifiers,
			Name: d.Name, Inherits: types(d.Inherits), Members: members}, nil

	case syntax.KindExtension:
		if err := requireName(d); err != nil {
			return nil, err
		}
		members, err := c.members(d)
		if err != nil {
			return nil, err
		}
		return &syntax.ExtensionDecl{Pos: pos, Attrs: attrs, Modifiers: d.Modifiers,
			Extended: syntax.ParseType(d.Name), Inherits: types(d.Inherits), Members: members}, nil

	case syntax.KindStruct, syntax.KindClass, syntax.KindEnum, syntax.KindActor:
		if err := requireName(d); err != nil {
			return nil, err
		}
		members, err := c.members(d)
		if err != nil {
			return nil, err
		}
		return &syntax.NominalDecl{Pos: pos, Doc: d.Doc, Attrs: attrs, Modifiers: d.Modifiers,
			Flavor: syntax.DeclKind(d.Kind), Name: d.Name, Inherits: types(d.Inherits), Members: members}, nil

	case syntax.KindVar, "let":
		v := &syntax.VarDecl{Pos: pos, Doc: d.Doc, Attrs: attrs, Modifiers: d.Modifiers, Keyword: d.Kind}
		if len(d.Bindings) == 0 {
			v.Bindings = []*syntax.Binding{{Pos: pos, Name: d.Name, Type: optionalType(d.Type), Accessors: d.Accessors}}
		}
		for _, b := range d.Bindings {
			v.Bindings = append(v.Bindings, &syntax.Binding{Pos: pos, Name: b.Name, Type: optionalType(b.Type), Accessors: b.Accessors})
		}
		return v, nil

	case syntax.KindFunc:
		if err := requireName(d); err != nil {
			return nil, err
		}
		params, err := c.params(d.Params)
		if err != nil {
			return nil, err
		}
		return &syntax.FuncDecl{Pos: pos, Doc: d.Doc, Attrs: attrs, Modifiers: d.Modifiers, Name: d.Name,
			Generics: d.Generics, Params: params, Effects: d.Effects, Result: optionalType(d.Returns)}, nil

	case syntax.KindAssociatedType:
		if err := requireName(d); err != nil {
			return nil, err
		}
		return &syntax.AssociatedTypeDecl{Pos: pos, Doc: d.Doc, Attrs: attrs, Name: d.Name,
			Inherits: types(d.Inherits), Default: optionalType(d.Default)}, nil

	case syntax.KindTypeAlias:
		if err := requireName(d); err != nil {
			return nil, err
		}
		return &syntax.TypeAliasDecl{Pos: pos, Attrs: attrs, Modifiers: d.Modifiers, Name: d.Name,
			Target: syntax.ParseType(d.Target)}, nil

	case syntax.KindSubscript:
		params, err := c.params(d.Params)
		if err != nil {
			return nil, err
		}
		return &syntax.SubscriptDecl{Pos: pos, Attrs: attrs, Modifiers: d.Modifiers, Params: params,
			Result: optionalType(d.Returns), Accessors: d.Accessors}, nil

	case syntax.KindInit:
		params, err := c.params(d.Params)
		if err != nil {
			return nil, err
		}
		return &syntax.InitDecl{Pos: pos, Attrs: attrs, Modifiers: d.Modifiers, Failable: d.Failable,
			Params: params, Effects: d.Effects}, nil
	}

	return nil, errors.WithHint(
		errors.NewInvalidRequestError("unknown declaration kind %q at %s", d.Kind, pos),
		"kind must be one of protocol, extension, struct, class, enum, actor, var, let, func, associatedtype, typealias, subscript, init")
}

func (c converter) members(d *Decl) ([]syntax.Decl, error) {
	var out []syntax.Decl
	for _, m := range d.Members {
		decl, err := c.decl(m)
		if err != nil {
			return nil, errors.Wrapf(err, "in %s %s", d.Kind, d.Name)
		}
		out = append(out, decl)
	}
	return out, nil
}

func (c converter) params(ps []*Param) ([]*syntax.Param, error) {
	var out []*syntax.Param
	for _, p := range ps {
		if p.Name == "" || p.Type == "" {
			return nil, errors.NewInvalidRequestError("parameter needs a name and a type")
		}
		param := &syntax.Param{Label: p.Label, Name: p.Name, Type: syntax.ParseType(p.Type)}
		if p.Default != "" {
			param.Default = exprFromString(p.Default)
		}
		out = append(out, param)
	}
	return out, nil
}

func (c converter) attributes(as []*Attribute) []*syntax.Attribute {
	var out []*syntax.Attribute
	for _, a := range as {
		attr := &syntax.Attribute{Pos: c.pos(a.line, a.column), Name: a.Name}
		for _, arg := range a.Args {
			attr.Args = append(attr.Args, &syntax.Argument{
				Pos:   c.pos(arg.Pos.Line, arg.Pos.Column),
				Label: arg.Label,
				Value: c.placeExpr(arg.Value),
			})
		}
		out = append(out, attr)
	}
	return out
}

// placeExpr stamps the file name on every position inside e.
func (c converter) placeExpr(e syntax.Expr) syntax.Expr {
	switch e := e.(type) {
	case *syntax.ArrayLiteral:
		for i, el := range e.Elems {
			e.Elems[i] = c.placeExpr(el)
		}
	case *syntax.DictLiteral:
		for _, entry := range e.Entries {
			entry.Pos.File = c.file
			entry.Key = c.placeExpr(entry.Key)
			entry.Value = c.placeExpr(entry.Value)
		}
	case *syntax.Call:
		for _, arg := range e.Args {
			arg.Pos.File = c.file
			arg.Value = c.placeExpr(arg.Value)
		}
	}
	return e
}

func requireName(d *Decl) error {
	if d.Name == "" {
		return errors.NewInvalidRequestError("%s declaration needs a name", d.Kind)
	}
	return nil
}

func types(names []string) []syntax.TypeRef {
	var out []syntax.TypeRef
	for _, n := range names {
		out = append(out, syntax.ParseType(n))
	}
	return out
}

func optionalType(text string) syntax.TypeRef {
	if text == "" {
		return nil
	}
	return syntax.ParseType(text)
}
