package syntax

import (
	"strings"
	"text/scanner"

	"github.com/teranos/faked/errors"
)

// TypeRef is a type as written in a declaration.
type TypeRef interface {
	String() string
	typeRef()
}

// NamedType is an identifier type with optional generic arguments: Int, Set<String>.
type NamedType struct {
	Name    string
	Generic []TypeRef
}

// MemberType is a qualified type: Swift.Sequence, Outer.Inner<T>.
type MemberType struct {
	Base    TypeRef
	Name    string
	Generic []TypeRef
}

// ArrayType is the sugared [Elem] form.
type ArrayType struct {
	Elem TypeRef
}

// DictionaryType is the sugared [Key: Value] form.
type DictionaryType struct {
	Key   TypeRef
	Value TypeRef
}

// OptionalType is Wrapped? (or Wrapped! when Implicit is set).
type OptionalType struct {
	Wrapped  TypeRef
	Implicit bool
}

// TupleType is a parenthesized list; a single element is a parenthesized type.
type TupleType struct {
	Elems []TypeRef
}

// RawType carries type text faked does not model: function types,
// existentials, opaque types, compositions.
type RawType struct {
	Text string
}

func (*NamedType) typeRef()      {}
func (*MemberType) typeRef()     {}
func (*ArrayType) typeRef()      {}
func (*DictionaryType) typeRef() {}
func (*OptionalType) typeRef()   {}
func (*TupleType) typeRef()      {}
func (*RawType) typeRef()        {}

func (t *NamedType) String() string { return t.Name + genericString(t.Generic) }

func (t *MemberType) String() string {
	return t.Base.String() + "." + t.Name + genericString(t.Generic)
}

func (t *ArrayType) String() string { return "[" + t.Elem.String() + "]" }

func (t *DictionaryType) String() string {
	return "[" + t.Key.String() + ": " + t.Value.String() + "]"
}

func (t *OptionalType) String() string {
	if t.Implicit {
		return t.Wrapped.String() + "!"
	}
	return t.Wrapped.String() + "?"
}

func (t *TupleType) String() string { return "(" + joinTypes(t.Elems) + ")" }

func (t *RawType) String() string { return t.Text }

func genericString(args []TypeRef) string {
	if len(args) == 0 {
		return ""
	}
	return "<" + joinTypes(args) + ">"
}

func joinTypes(ts []TypeRef) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

// Named returns a NamedType without generic arguments.
func Named(name string) *NamedType { return &NamedType{Name: name} }

// ParseType reads type text. It never fails: anything outside the modelled
// grammar comes back as a RawType holding the trimmed text.
func ParseType(src string) TypeRef {
	text := strings.TrimSpace(src)
	toks, err := tokenize(text)
	if err != nil || len(toks) == 0 {
		return &RawType{Text: text}
	}
	p := &typeParser{tokens: tokens{src: text, list: toks}}
	t, err := p.parseType()
	if err != nil || !p.done() {
		return &RawType{Text: text}
	}
	return t
}

// IsTypeName reports whether src parses to a named or qualified type.
func IsTypeName(src string) bool {
	switch ParseType(src).(type) {
	case *NamedType, *MemberType:
		return true
	}
	return false
}

type typeParser struct {
	tokens
}

func (p *typeParser) parseType() (TypeRef, error) {
	t, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.accept('?'):
			t = &OptionalType{Wrapped: t}
		case p.accept('!'):
			t = &OptionalType{Wrapped: t, Implicit: true}
		default:
			return t, nil
		}
	}
}

func (p *typeParser) parsePrimary() (TypeRef, error) {
	tok := p.next()
	switch tok.kind {
	case '[':
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if p.accept(':') {
			value, err := p.parseType()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(']'); err != nil {
				return nil, err
			}
			return &DictionaryType{Key: elem, Value: value}, nil
		}
		if _, err := p.expect(']'); err != nil {
			return nil, err
		}
		return &ArrayType{Elem: elem}, nil

	case '(':
		return p.parseTuple(tok)

	case scanner.Ident:
		if isTypeKeyword(tok.text) {
			return nil, errors.Newf("offset %d: %q is not modelled", tok.off, tok.text)
		}
		var t TypeRef
		named := &NamedType{Name: tok.text}
		if err := p.parseGeneric(&named.Generic); err != nil {
			return nil, err
		}
		t = named
		for p.peek().kind == '.' {
			p.next()
			name, err := p.expect(scanner.Ident)
			if err != nil {
				return nil, err
			}
			member := &MemberType{Base: t, Name: name.text}
			if err := p.parseGeneric(&member.Generic); err != nil {
				return nil, err
			}
			t = member
		}
		return t, nil
	}
	return nil, errors.Newf("offset %d: unexpected %s in type", tok.off, describeToken(tok))
}

// parseTuple parses the remainder of a parenthesized group. Groups whose
// contents are outside the grammar keep their inner text verbatim so
// `(any Identifiable)?` still reads as an optional.
func (p *typeParser) parseTuple(open token) (TypeRef, error) {
	start := p.i
	if p.accept(')') {
		return &TupleType{}, nil
	}
	var elems []TypeRef
	for {
		elem, err := p.parseType()
		if err != nil {
			break
		}
		elems = append(elems, elem)
		if p.accept(',') {
			continue
		}
		if p.accept(')') {
			return &TupleType{Elems: elems}, nil
		}
		break
	}

	p.i = start
	closing, err := p.skipGroup('(', ')')
	if err != nil {
		return nil, err
	}
	inner := strings.TrimSpace(p.src[open.off+1 : closing.off])
	return &TupleType{Elems: []TypeRef{&RawType{Text: inner}}}, nil
}

func (p *typeParser) parseGeneric(dst *[]TypeRef) error {
	if !p.accept('<') {
		return nil
	}
	for {
		arg, err := p.parseType()
		if err != nil {
			return err
		}
		*dst = append(*dst, arg)
		if p.accept(',') {
			continue
		}
		_, err = p.expect('>')
		return err
	}
}

func isTypeKeyword(s string) bool {
	switch s {
	case "any", "some", "inout", "borrowing", "consuming", "throws", "async", "rethrows":
		return true
	}
	return false
}
