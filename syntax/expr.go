package syntax

import (
	"strconv"
	"strings"
	"text/scanner"

	"github.com/teranos/faked/errors"
)

// Expr is an expression as it appears in attribute arguments and in
// generated default values.
type Expr interface {
	String() string
	expr()
}

type (
	// StringLiteral holds the unescaped value.
	StringLiteral struct{ Value string }
	// IntegerLiteral keeps the source spelling, sign included.
	IntegerLiteral struct{ Text string }
	FloatLiteral   struct{ Text string }
	BooleanLiteral struct{ Value bool }
	NilLiteral     struct{}

	// DeclRef is a bare identifier.
	DeclRef struct{ Name string }

	// MemberAccess is Base.Name; a nil Base is the implicit-member form .Name.
	MemberAccess struct {
		Base Expr
		Name string
	}

	// Call is Callee(Args...).
	Call struct {
		Callee Expr
		Args   []*Argument
	}

	ArrayLiteral struct{ Elems []Expr }

	DictLiteral struct{ Entries []*DictEntry }

	// TypeExpr uses a type in expression position, as in Array<Int>().
	TypeExpr struct{ Type TypeRef }

	// RawExpr is emitted verbatim.
	RawExpr struct{ Text string }
)

// DictEntry is one key: value pair of a DictLiteral.
type DictEntry struct {
	Pos   Pos
	Key   Expr
	Value Expr
}

func (*StringLiteral) expr()  {}
func (*IntegerLiteral) expr() {}
func (*FloatLiteral) expr()   {}
func (*BooleanLiteral) expr() {}
func (*NilLiteral) expr()     {}
func (*DeclRef) expr()        {}
func (*MemberAccess) expr()   {}
func (*Call) expr()           {}
func (*ArrayLiteral) expr()   {}
func (*DictLiteral) expr()    {}
func (*TypeExpr) expr()       {}
func (*RawExpr) expr()        {}

func (e *StringLiteral) String() string  { return strconv.Quote(e.Value) }
func (e *IntegerLiteral) String() string { return e.Text }
func (e *FloatLiteral) String() string   { return e.Text }
func (e *BooleanLiteral) String() string { return strconv.FormatBool(e.Value) }
func (e *NilLiteral) String() string     { return "nil" }
func (e *DeclRef) String() string        { return e.Name }
func (e *TypeExpr) String() string       { return e.Type.String() }
func (e *RawExpr) String() string        { return e.Text }

func (e *MemberAccess) String() string {
	if e.Base == nil {
		return "." + e.Name
	}
	return e.Base.String() + "." + e.Name
}

func (e *Call) String() string {
	return e.Callee.String() + "(" + argumentsString(e.Args) + ")"
}

func (e *ArrayLiteral) String() string {
	parts := make([]string, len(e.Elems))
	for i, el := range e.Elems {
		parts[i] = el.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (e *DictLiteral) String() string {
	if len(e.Entries) == 0 {
		return "[:]"
	}
	parts := make([]string, len(e.Entries))
	for i, en := range e.Entries {
		parts[i] = en.Key.String() + ": " + en.Value.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func argumentsString(args []*Argument) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if a.Label != "" {
			parts[i] = a.Label + ": " + a.Value.String()
		} else {
			parts[i] = a.Value.String()
		}
	}
	return strings.Join(parts, ", ")
}

// IsLiteral reports whether e is a string, number, boolean or nil literal,
// or an array or dictionary literal whose elements, keys and values are
// literals or identifier chains.
func IsLiteral(e Expr) bool {
	switch e := e.(type) {
	case *StringLiteral, *IntegerLiteral, *FloatLiteral, *BooleanLiteral, *NilLiteral:
		return true
	case *ArrayLiteral:
		for _, el := range e.Elems {
			if !isLiteralOrChain(el) {
				return false
			}
		}
		return true
	case *DictLiteral:
		for _, en := range e.Entries {
			if !isLiteralOrChain(en.Key) || !isLiteralOrChain(en.Value) {
				return false
			}
		}
		return true
	}
	return false
}

func isLiteralOrChain(e Expr) bool {
	return IsLiteral(e) || IsIdentifierChain(e)
}

// IsIdentifierChain reports whether e is a name optionally followed by
// member accesses and calls: count, Date.distantPast, .init(), Foo.make(1).
func IsIdentifierChain(e Expr) bool {
	switch e := e.(type) {
	case *DeclRef:
		return true
	case *MemberAccess:
		return e.Base == nil || IsIdentifierChain(e.Base)
	case *Call:
		return IsIdentifierChain(e.Callee)
	}
	return false
}

// SelfType returns the type named by a `T.self` expression.
func SelfType(e Expr) (string, bool) {
	m, ok := e.(*MemberAccess)
	if !ok || m.Name != "self" || m.Base == nil {
		return "", false
	}
	if !isNameChain(m.Base) {
		return "", false
	}
	return m.Base.String(), true
}

func isNameChain(e Expr) bool {
	switch e := e.(type) {
	case *DeclRef:
		return true
	case *MemberAccess:
		return e.Base != nil && isNameChain(e.Base)
	}
	return false
}

// ParseExpr reads a literal, identifier chain, call, array or dictionary
// literal. Anything else is an error.
func ParseExpr(src string) (Expr, error) {
	text := strings.TrimSpace(src)
	toks, err := tokenize(text)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid expression %q", text)
	}
	if len(toks) == 0 {
		return nil, errors.Newf("empty expression")
	}
	p := &exprParser{tokens: tokens{src: text, list: toks}}
	e, err := p.parseExpr()
	if err != nil {
		return nil, errors.Wrapf(err, "invalid expression %q", text)
	}
	if !p.done() {
		return nil, errors.Newf("invalid expression %q: unexpected %s", text, describeToken(p.peek()))
	}
	return e, nil
}

type exprParser struct {
	tokens
}

func (p *exprParser) parseExpr() (Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return p.parsePostfix(e)
}

func (p *exprParser) parsePrimary() (Expr, error) {
	tok := p.next()
	switch tok.kind {
	case scanner.String:
		v, err := strconv.Unquote(tok.text)
		if err != nil {
			return nil, errors.Newf("offset %d: unsupported string literal %s", tok.off, tok.text)
		}
		return &StringLiteral{Value: v}, nil
	case scanner.Int:
		return &IntegerLiteral{Text: tok.text}, nil
	case scanner.Float:
		return &FloatLiteral{Text: tok.text}, nil
	case '-':
		num := p.next()
		switch num.kind {
		case scanner.Int:
			return &IntegerLiteral{Text: "-" + num.text}, nil
		case scanner.Float:
			return &FloatLiteral{Text: "-" + num.text}, nil
		}
		return nil, errors.Newf("offset %d: expected number after '-'", num.off)
	case scanner.Ident:
		switch tok.text {
		case "true":
			return &BooleanLiteral{Value: true}, nil
		case "false":
			return &BooleanLiteral{Value: false}, nil
		case "nil":
			return &NilLiteral{}, nil
		}
		return &DeclRef{Name: tok.text}, nil
	case '.':
		name, err := p.expect(scanner.Ident)
		if err != nil {
			return nil, err
		}
		return &MemberAccess{Name: name.text}, nil
	case '[':
		return p.parseCollection()
	}
	return nil, errors.Newf("offset %d: unexpected %s", tok.off, describeToken(tok))
}

func (p *exprParser) parsePostfix(e Expr) (Expr, error) {
	for {
		switch p.peek().kind {
		case '.':
			p.next()
			name, err := p.expect(scanner.Ident)
			if err != nil {
				return nil, err
			}
			e = &MemberAccess{Base: e, Name: name.text}
		case '(':
			p.next()
			args, err := p.parseArguments(')')
			if err != nil {
				return nil, err
			}
			e = &Call{Callee: e, Args: args}
		default:
			return e, nil
		}
	}
}

// parseArguments reads label-optional arguments up to the closing rune.
func (p *exprParser) parseArguments(closing rune) ([]*Argument, error) {
	var args []*Argument
	if p.accept(closing) {
		return args, nil
	}
	for {
		arg := &Argument{}
		if p.peek().kind == scanner.Ident && p.i+1 < len(p.list) && p.list[p.i+1].kind == ':' {
			arg.Label = p.next().text
			p.next()
		}
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		arg.Value = v
		args = append(args, arg)
		if p.accept(',') {
			continue
		}
		if _, err := p.expect(closing); err != nil {
			return nil, err
		}
		return args, nil
	}
}

func (p *exprParser) parseCollection() (Expr, error) {
	if p.accept(']') {
		return &ArrayLiteral{}, nil
	}
	if p.accept(':') {
		if _, err := p.expect(']'); err != nil {
			return nil, err
		}
		return &DictLiteral{}, nil
	}

	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if p.accept(':') {
		dict := &DictLiteral{}
		key := first
		for {
			value, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			dict.Entries = append(dict.Entries, &DictEntry{Key: key, Value: value})
			if !p.accept(',') {
				break
			}
			if p.peek().kind == ']' {
				break
			}
			if key, err = p.parseExpr(); err != nil {
				return nil, err
			}
			if _, err := p.expect(':'); err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(']'); err != nil {
			return nil, err
		}
		return dict, nil
	}

	arr := &ArrayLiteral{Elems: []Expr{first}}
	for p.accept(',') {
		if p.peek().kind == ']' {
			break
		}
		el, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		arr.Elems = append(arr.Elems, el)
	}
	if _, err := p.expect(']'); err != nil {
		return nil, err
	}
	return arr, nil
}
