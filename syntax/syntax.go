// Package syntax is the declaration model faked reads and writes.
//
// It covers the subset of Swift declaration syntax that appears in
// protocol requirements and in the code faked generates: protocols,
// extensions, nominal types, stored and computed properties, methods,
// associated types, type aliases, subscripts and initializers. Types and
// expressions are structured where faked needs to reason about them and
// fall back to verbatim text everywhere else.
package syntax

import "fmt"

// Pos is a source anchor. Line and Column are 1-based; zero means unknown.
type Pos struct {
	File   string
	Line   int
	Column int
}

// IsValid reports whether the position names a line.
func (p Pos) IsValid() bool { return p.Line > 0 }

func (p Pos) String() string {
	file := p.File
	if file == "" {
		file = "<input>"
	}
	switch {
	case p.Line == 0:
		return file
	case p.Column == 0:
		return fmt.Sprintf("%s:%d", file, p.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", file, p.Line, p.Column)
	}
}

// DeclKind names the flavor of a declaration.
type DeclKind string

const (
	KindProtocol       DeclKind = "protocol"
	KindExtension      DeclKind = "extension"
	KindStruct         DeclKind = "struct"
	KindClass          DeclKind = "class"
	KindEnum           DeclKind = "enum"
	KindActor          DeclKind = "actor"
	KindVar            DeclKind = "var"
	KindFunc           DeclKind = "func"
	KindAssociatedType DeclKind = "associatedtype"
	KindTypeAlias      DeclKind = "typealias"
	KindSubscript      DeclKind = "subscript"
	KindInit           DeclKind = "init"
)

// Decl is any declaration node.
type Decl interface {
	Position() Pos
	Kind() DeclKind
	// DeclName is the declared identifier, or the extended type for extensions.
	DeclName() string
	Attributes() []*Attribute
}

// File is an ordered list of top-level declarations read from one source.
type File struct {
	Name  string
	Decls []Decl
}

// Attribute is an annotation such as @Faked(types: ["A": Int.self]).
type Attribute struct {
	Pos  Pos
	Name string
	Args []*Argument
}

// Argument is one optionally labelled argument of an attribute or call.
type Argument struct {
	Pos   Pos
	Label string
	Value Expr
}

// Arg returns the first argument with the given label, or nil.
func (a *Attribute) Arg(label string) *Argument {
	if a == nil {
		return nil
	}
	for _, arg := range a.Args {
		if arg.Label == label {
			return arg
		}
	}
	return nil
}

// FindAttribute returns the first attribute named name, or nil.
func FindAttribute(attrs []*Attribute, name string) *Attribute {
	for _, a := range attrs {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// WithoutAttribute returns attrs minus every attribute named name.
func WithoutAttribute(attrs []*Attribute, name string) []*Attribute {
	var out []*Attribute
	for _, a := range attrs {
		if a.Name != name {
			out = append(out, a)
		}
	}
	return out
}

// ProtocolDecl is an interface declaration.
type ProtocolDecl struct {
	Pos       Pos
	Doc       []string
	Attrs     []*Attribute
	Modifiers []string
	Name      string
	Inherits  []TypeRef
	Members   []Decl
}

func (d *ProtocolDecl) Position() Pos            { return d.Pos }
func (d *ProtocolDecl) Kind() DeclKind           { return KindProtocol }
func (d *ProtocolDecl) DeclName() string         { return d.Name }
func (d *ProtocolDecl) Attributes() []*Attribute { return d.Attrs }

// ExtensionDecl adds members to an existing type.
type ExtensionDecl struct {
	Pos       Pos
	Attrs     []*Attribute
	Modifiers []string
	Extended  TypeRef
	Inherits  []TypeRef
	Members   []Decl
}

func (d *ExtensionDecl) Position() Pos            { return d.Pos }
func (d *ExtensionDecl) Kind() DeclKind           { return KindExtension }
func (d *ExtensionDecl) DeclName() string         { return typeString(d.Extended) }
func (d *ExtensionDecl) Attributes() []*Attribute { return d.Attrs }

// NominalDecl is a struct, class, enum or actor.
type NominalDecl struct {
	Pos       Pos
	Doc       []string
	Attrs     []*Attribute
	Modifiers []string
	Flavor    DeclKind
	Name      string
	Inherits  []TypeRef
	Members   []Decl
}

func (d *NominalDecl) Position() Pos            { return d.Pos }
func (d *NominalDecl) Kind() DeclKind           { return d.Flavor }
func (d *NominalDecl) DeclName() string         { return d.Name }
func (d *NominalDecl) Attributes() []*Attribute { return d.Attrs }

// VarDecl is a var or let with one or more bindings.
type VarDecl struct {
	Pos       Pos
	Doc       []string
	Attrs     []*Attribute
	Modifiers []string
	// Keyword is "var" or "let".
	Keyword  string
	Bindings []*Binding
}

func (d *VarDecl) Position() Pos            { return d.Pos }
func (d *VarDecl) Kind() DeclKind           { return KindVar }
func (d *VarDecl) Attributes() []*Attribute { return d.Attrs }

func (d *VarDecl) DeclName() string {
	if len(d.Bindings) == 0 {
		return ""
	}
	return d.Bindings[0].Name
}

// Binding is a single name in a VarDecl.
type Binding struct {
	Pos  Pos
	Name string
	Type TypeRef
	// Accessors are requirement accessors such as "get" and "set".
	Accessors []string
	// Body is a computed-property implementation. Nil for requirements.
	Body *AccessorBody
}

// HasAccessor reports whether the binding declares the named accessor.
func (b *Binding) HasAccessor(name string) bool {
	for _, a := range b.Accessors {
		if a == name {
			return true
		}
	}
	return false
}

// AccessorBody is a computed getter, optionally paired with an empty setter.
type AccessorBody struct {
	Getter Expr
	Setter bool
}

// FuncDecl is a method or free function.
type FuncDecl struct {
	Pos       Pos
	Doc       []string
	Attrs     []*Attribute
	Modifiers []string
	Name      string
	Generics  string
	Params    []*Param
	// Effects holds "async", "throws" and friends in source order.
	Effects []string
	Result  TypeRef
	Body    *Block
}

func (d *FuncDecl) Position() Pos            { return d.Pos }
func (d *FuncDecl) Kind() DeclKind           { return KindFunc }
func (d *FuncDecl) DeclName() string         { return d.Name }
func (d *FuncDecl) Attributes() []*Attribute { return d.Attrs }

// Param is a function parameter. Label is the external name; "_" suppresses it.
type Param struct {
	Label   string
	Name    string
	Type    TypeRef
	Default Expr
}

// Block is a function body. A nil Result is an empty body.
type Block struct {
	Result Expr
}

// AssociatedTypeDecl is a placeholder type inside a protocol.
type AssociatedTypeDecl struct {
	Pos      Pos
	Doc      []string
	Attrs    []*Attribute
	Name     string
	Inherits []TypeRef
	Default  TypeRef
}

func (d *AssociatedTypeDecl) Position() Pos            { return d.Pos }
func (d *AssociatedTypeDecl) Kind() DeclKind           { return KindAssociatedType }
func (d *AssociatedTypeDecl) DeclName() string         { return d.Name }
func (d *AssociatedTypeDecl) Attributes() []*Attribute { return d.Attrs }

// TypeAliasDecl binds a name to a type.
type TypeAliasDecl struct {
	Pos       Pos
	Attrs     []*Attribute
	Modifiers []string
	Name      string
	Target    TypeRef
}

func (d *TypeAliasDecl) Position() Pos            { return d.Pos }
func (d *TypeAliasDecl) Kind() DeclKind           { return KindTypeAlias }
func (d *TypeAliasDecl) DeclName() string         { return d.Name }
func (d *TypeAliasDecl) Attributes() []*Attribute { return d.Attrs }

// SubscriptDecl is a subscript requirement.
type SubscriptDecl struct {
	Pos       Pos
	Attrs     []*Attribute
	Modifiers []string
	Params    []*Param
	Result    TypeRef
	Accessors []string
}

func (d *SubscriptDecl) Position() Pos            { return d.Pos }
func (d *SubscriptDecl) Kind() DeclKind           { return KindSubscript }
func (d *SubscriptDecl) DeclName() string         { return "subscript" }
func (d *SubscriptDecl) Attributes() []*Attribute { return d.Attrs }

// InitDecl is an initializer requirement.
type InitDecl struct {
	Pos       Pos
	Attrs     []*Attribute
	Modifiers []string
	Failable  bool
	Params    []*Param
	Effects   []string
}

func (d *InitDecl) Position() Pos            { return d.Pos }
func (d *InitDecl) Kind() DeclKind           { return KindInit }
func (d *InitDecl) DeclName() string         { return "init" }
func (d *InitDecl) Attributes() []*Attribute { return d.Attrs }

// Describe renders a short human label such as "var count" or "func load".
func Describe(d Decl) string {
	if d == nil {
		return ""
	}
	name := d.DeclName()
	if name == "" || d.Kind() == KindSubscript || d.Kind() == KindInit {
		return string(d.Kind())
	}
	return string(d.Kind()) + " " + name
}

func typeString(t TypeRef) string {
	if t == nil {
		return ""
	}
	return t.String()
}
