package defaults

import (
	"github.com/teranos/faked/syntax"
)

// HookName is the overridable factory used for named types with no literal.
const HookName = "fakeDefault"

// Source says where a decided value came from
type Source int

const (
	// Unresolvable means no value can be produced; the caller raises UnhandledType.
	Unresolvable Source = iota
	FromOverride
	FromLiteral
	FromHook
)

func (s Source) String() string {
	switch s {
	case FromOverride:
		return "override"
	case FromLiteral:
		return "literal"
	case FromHook:
		return "hook"
	}
	return "unresolvable"
}

// Decision is the resolved default for one member.
type Decision struct {
	Source Source
	Expr   syntax.Expr
}

// OK reports whether a value was decided.
func (d Decision) OK() bool { return d.Source != Unresolvable }

// wrappers are type-erased collections initialisable from an empty array.
var wrappers = map[string]bool{
	"AnySequence":                true,
	"AnyCollection":              true,
	"AnyBidirectionalCollection": true,
	"AnyRandomAccessCollection":  true,
}

// Resolve decides the value for a member of the given shape. A non-nil
// override always wins and is used verbatim.
func Resolve(s Shape, override syntax.Expr) Decision {
	if override != nil {
		return Decision{Source: FromOverride, Expr: override}
	}
	switch s := s.(type) {
	case Scalar:
		switch KindOf(s.Name) {
		case Numeric:
			return literal(&syntax.IntegerLiteral{Text: "0"})
		case Text:
			return literal(&syntax.StringLiteral{})
		case Boolean:
			return literal(&syntax.BooleanLiteral{})
		case Void:
			return literal(&syntax.RawExpr{Text: "()"})
		}
	case Sequence, SetLike:
		return literal(&syntax.ArrayLiteral{})
	case Mapping:
		return literal(&syntax.DictLiteral{})
	case Optional:
		return literal(&syntax.NilLiteral{})
	case Unknown:
		if !s.Named() {
			return Decision{Source: Unresolvable}
		}
		if e, ok := wrapperInit(s); ok {
			return literal(e)
		}
		return Decision{Source: FromHook, Expr: Hook()}
	}
	return Decision{Source: Unresolvable}
}

// Hook returns the `.fakeDefault()` call expression.
func Hook() syntax.Expr {
	return &syntax.Call{Callee: &syntax.MemberAccess{Name: HookName}}
}

// wrapperInit builds `.init(Array<T>())` for a type-erased wrapper whose
// single generic argument is a plain type name.
func wrapperInit(s Unknown) (syntax.Expr, bool) {
	if !wrappers[s.Name] || len(s.Args) != 1 {
		return nil, false
	}
	elem, ok := s.Args[0].(*syntax.NamedType)
	if !ok {
		return nil, false
	}
	array := &syntax.NamedType{Name: "Array", Generic: []syntax.TypeRef{syntax.Named(elem.Name)}}
	return &syntax.Call{
		Callee: &syntax.MemberAccess{Name: "init"},
		Args:   []*syntax.Argument{{Value: &syntax.Call{Callee: &syntax.TypeExpr{Type: array}}}},
	}, true
}

func literal(e syntax.Expr) Decision {
	return Decision{Source: FromLiteral, Expr: e}
}

// For is ShapeOf followed by Resolve.
func For(t syntax.TypeRef, override syntax.Expr) Decision {
	return Resolve(ShapeOf(t), override)
}
