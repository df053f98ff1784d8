package syntax

import (
	"io"
	"strings"

	"github.com/teranos/faked/errors"
)

// DefaultIndent is the number of spaces per nesting level.
const DefaultIndent = 2

// PrintOptions controls rendering.
type PrintOptions struct {
	// Indent is spaces per nesting level; zero means DefaultIndent.
	Indent int
}

// Format renders a single declaration with default options.
func Format(d Decl) string {
	p := newPrinter(PrintOptions{})
	p.decl(d)
	return p.b.String()
}

// FormatAll renders declarations separated by blank lines, with a trailing newline.
func FormatAll(decls []Decl, opts PrintOptions) string {
	p := newPrinter(opts)
	for i, d := range decls {
		if i > 0 {
			p.b.WriteString("\n")
		}
		p.decl(d)
		p.b.WriteString("\n")
	}
	return p.b.String()
}

// Print writes FormatAll's output to w.
func Print(w io.Writer, decls []Decl, opts PrintOptions) error {
	if _, err := io.WriteString(w, FormatAll(decls, opts)); err != nil {
		return errors.Wrap(err, "failed to write declarations")
	}
	return nil
}

type printer struct {
	b      strings.Builder
	indent string
	depth  int
}

func newPrinter(opts PrintOptions) *printer {
	n := opts.Indent
	if n <= 0 {
		n = DefaultIndent
	}
	return &printer{indent: strings.Repeat(" ", n)}
}

func (p *printer) pad() {
	for i := 0; i < p.depth; i++ {
		p.b.WriteString(p.indent)
	}
}

func (p *printer) doc(lines []string) {
	for _, l := range lines {
		p.pad()
		if l == "" {
			p.b.WriteString("///\n")
			continue
		}
		p.b.WriteString("/// " + l + "\n")
	}
}

// head writes indentation, attributes and modifiers for a declaration line.
func (p *printer) head(attrs []*Attribute, modifiers []string) {
	p.pad()
	for _, a := range attrs {
		p.b.WriteString(AttributeString(a))
		p.b.WriteString(" ")
	}
	for _, m := range modifiers {
		p.b.WriteString(m)
		p.b.WriteString(" ")
	}
}

func (p *printer) inherits(ts []TypeRef) {
	if len(ts) == 0 {
		return
	}
	p.b.WriteString(": ")
	p.b.WriteString(joinTypes(ts))
}

func (p *printer) members(ms []Decl) {
	if len(ms) == 0 {
		p.b.WriteString(" {}")
		return
	}
	p.b.WriteString(" {\n")
	p.depth++
	for _, m := range ms {
		p.decl(m)
		p.b.WriteString("\n")
	}
	p.depth--
	p.pad()
	p.b.WriteString("}")
}

func (p *printer) decl(d Decl) {
	switch d := d.(type) {
	case *ProtocolDecl:
		p.doc(d.Doc)
		p.head(d.Attrs, d.Modifiers)
		p.b.WriteString("protocol " + d.Name)
		p.inherits(d.Inherits)
		p.members(d.Members)

	case *ExtensionDecl:
		p.head(d.Attrs, d.Modifiers)
		p.b.WriteString("extension " + d.Extended.String())
		p.inherits(d.Inherits)
		p.members(d.Members)

	case *NominalDecl:
		p.doc(d.Doc)
		p.head(d.Attrs, d.Modifiers)
		p.b.WriteString(string(d.Flavor) + " " + d.Name)
		p.inherits(d.Inherits)
		p.members(d.Members)

	case *VarDecl:
		p.doc(d.Doc)
		p.head(d.Attrs, d.Modifiers)
		keyword := d.Keyword
		if keyword == "" {
			keyword = "var"
		}
		p.b.WriteString(keyword + " ")
		for i, b := range d.Bindings {
			if i > 0 {
				p.b.WriteString(", ")
			}
			p.binding(b)
		}

	case *FuncDecl:
		p.doc(d.Doc)
		p.head(d.Attrs, d.Modifiers)
		p.b.WriteString("func " + d.Name + d.Generics + "(" + paramsString(d.Params) + ")")
		p.effects(d.Effects)
		if d.Result != nil {
			p.b.WriteString(" -> " + d.Result.String())
		}
		if d.Body != nil {
			if d.Body.Result == nil {
				p.b.WriteString(" {}")
			} else {
				p.b.WriteString(" { " + d.Body.Result.String() + " }")
			}
		}

	case *AssociatedTypeDecl:
		p.doc(d.Doc)
		p.head(d.Attrs, nil)
		p.b.WriteString("associatedtype " + d.Name)
		p.inherits(d.Inherits)
		if d.Default != nil {
			p.b.WriteString(" = " + d.Default.String())
		}

	case *TypeAliasDecl:
		p.head(d.Attrs, d.Modifiers)
		p.b.WriteString("typealias " + d.Name + " = " + d.Target.String())

	case *SubscriptDecl:
		p.head(d.Attrs, d.Modifiers)
		p.b.WriteString("subscript(" + paramsString(d.Params) + ")")
		if d.Result != nil {
			p.b.WriteString(" -> " + d.Result.String())
		}
		p.accessors(d.Accessors)

	case *InitDecl:
		p.head(d.Attrs, d.Modifiers)
		p.b.WriteString("init")
		if d.Failable {
			p.b.WriteString("?")
		}
		p.b.WriteString("(" + paramsString(d.Params) + ")")
		p.effects(d.Effects)
	}
}

func (p *printer) binding(b *Binding) {
	p.b.WriteString(b.Name)
	if b.Type != nil {
		p.b.WriteString(": " + b.Type.String())
	}
	switch {
	case b.Body != nil && b.Body.Setter:
		p.b.WriteString(" { get { " + exprString(b.Body.Getter) + " } set {} }")
	case b.Body != nil:
		p.b.WriteString(" { " + exprString(b.Body.Getter) + " }")
	default:
		p.accessors(b.Accessors)
	}
}

func (p *printer) accessors(names []string) {
	if len(names) == 0 {
		return
	}
	p.b.WriteString(" { " + strings.Join(names, " ") + " }")
}

func (p *printer) effects(effects []string) {
	for _, e := range effects {
		p.b.WriteString(" " + e)
	}
}

func exprString(e Expr) string {
	if e == nil {
		return ""
	}
	return e.String()
}

func paramsString(params []*Param) string {
	parts := make([]string, len(params))
	for i, prm := range params {
		var s string
		switch {
		case prm.Label == "" || prm.Label == prm.Name:
			s = prm.Name
		default:
			s = prm.Label + " " + prm.Name
		}
		if prm.Type != nil {
			s += ": " + prm.Type.String()
		}
		if prm.Default != nil {
			s += " = " + prm.Default.String()
		}
		parts[i] = s
	}
	return strings.Join(parts, ", ")
}

// AttributeString renders an attribute as @Name or @Name(args).
func AttributeString(a *Attribute) string {
	if len(a.Args) == 0 {
		return "@" + a.Name
	}
	return "@" + a.Name + "(" + argumentsString(a.Args) + ")"
}
