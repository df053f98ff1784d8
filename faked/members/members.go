// Package members classifies the requirements of a protocol.
package members

import (
	"github.com/teranos/faked/faked/diag"
	"github.com/teranos/faked/syntax"
)

// Attribute names recognised on protocols and their members.
const (
	FakedAttribute       = "Faked"
	FakedImpAttribute    = "Faked_Imp"
	FakeDefaultAttribute = "FakeDefault"
)

// referenceMarkers in a protocol's inheritance list force a class stub.
var referenceMarkers = map[string]bool{
	"AnyObject": true,
	"class":     true,
}

// Access is the mutability of a property requirement
type Access int

const (
	ReadOnly Access = iota
	ReadWrite
)

// Member is a classified property or method requirement.
type Member interface {
	MemberName() string
	Source() syntax.Decl
}

// Property is a var or let requirement with exactly one binding.
type Property struct {
	Name     string
	Type     syntax.TypeRef
	Access   Access
	Override syntax.Expr
	Skip     bool
	Decl     *syntax.VarDecl
}

// Method is a func requirement.
type Method struct {
	Name     string
	Result   syntax.TypeRef
	Override syntax.Expr
	Skip     bool
	Decl     *syntax.FuncDecl
}

func (p *Property) MemberName() string  { return p.Name }
func (p *Property) Source() syntax.Decl { return p.Decl }
func (m *Method) MemberName() string    { return m.Name }
func (m *Method) Source() syntax.Decl   { return m.Decl }

// Placeholder is an associated type.
type Placeholder struct {
	Name string
	Decl *syntax.AssociatedTypeDecl
}

// Classification is the result of Classify. Members keep declaration order.
type Classification struct {
	Members      []Member
	Placeholders []Placeholder
	// RequiresReference is set when the protocol inherits from AnyObject.
	RequiresReference bool
}

// Names returns member names in declaration order.
func (c *Classification) Names() []string {
	names := make([]string, len(c.Members))
	for i, m := range c.Members {
		names[i] = m.MemberName()
	}
	return names
}

// PlaceholderNames returns associated type names in declaration order.
func (c *Classification) PlaceholderNames() []string {
	names := make([]string, len(c.Placeholders))
	for i, p := range c.Placeholders {
		names[i] = p.Name
	}
	return names
}

// MarkSkipped flags every member whose name satisfies skip.
func (c *Classification) MarkSkipped(skip func(name string) bool) {
	for _, m := range c.Members {
		switch m := m.(type) {
		case *Property:
			m.Skip = skip(m.Name)
		case *Method:
			m.Skip = skip(m.Name)
		}
	}
}

// Skipped reports whether m has been excluded.
func Skipped(m Member) bool {
	switch m := m.(type) {
	case *Property:
		return m.Skip
	case *Method:
		return m.Skip
	}
	return false
}

// Classify sorts a protocol's members into properties, methods and
// placeholders. The first unsupported member aborts with a fatal diagnostic.
func Classify(p *syntax.ProtocolDecl) (*Classification, error) {
	var rep diag.Reporter
	c := &Classification{RequiresReference: requiresReference(p.Inherits)}

	for _, decl := range p.Members {
		switch d := decl.(type) {
		case *syntax.VarDecl:
			if len(d.Bindings) != 1 {
				return nil, rep.Report(diag.Newf(diag.BindingCount, d.Pos, "found %d", len(d.Bindings)).At(d))
			}
			if d.Bindings[0].Name == "" || d.Bindings[0].Type == nil {
				return nil, rep.Report(diag.New(diag.BindingCount, d.Pos, "binding needs a name and a type").At(d))
			}
			override, err := Override(d)
			if err != nil {
				return nil, err
			}
			b := d.Bindings[0]
			access := ReadOnly
			if d.Keyword != "let" && b.HasAccessor("set") {
				access = ReadWrite
			}
			c.Members = append(c.Members, &Property{
				Name:     b.Name,
				Type:     b.Type,
				Access:   access,
				Override: override,
				Decl:     d,
			})

		case *syntax.FuncDecl:
			override, err := Override(d)
			if err != nil {
				return nil, err
			}
			c.Members = append(c.Members, &Method{
				Name:     d.Name,
				Result:   d.Result,
				Override: override,
				Decl:     d,
			})

		case *syntax.AssociatedTypeDecl:
			if a := syntax.FindAttribute(d.Attrs, FakeDefaultAttribute); a != nil {
				return nil, rep.Report(diag.New(diag.DefaultMisplaced, a.Pos, "").In(d))
			}
			c.Placeholders = append(c.Placeholders, Placeholder{Name: d.Name, Decl: d})

		default:
			return nil, rep.Report(diag.New(diag.InvalidMember, decl.Position(), syntax.Describe(decl)).At(decl))
		}
	}
	return c, nil
}

func requiresReference(inherits []syntax.TypeRef) bool {
	for _, t := range inherits {
		switch t := t.(type) {
		case *syntax.NamedType:
			if referenceMarkers[t.Name] {
				return true
			}
		case *syntax.MemberType:
			if referenceMarkers[t.Name] {
				return true
			}
		}
	}
	return false
}
