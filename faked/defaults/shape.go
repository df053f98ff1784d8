// Package defaults decides the value a generated member returns.
//
// Resolution is a two-step affair: ShapeOf classifies a declared type into
// a Shape, and Resolve maps the shape (plus any per-member override) to a
// Decision. Both are pure functions.
package defaults

import (
	"github.com/teranos/faked/syntax"
)

// Shape is the structural classification of a declared type.
type Shape interface {
	String() string
	shape()
}

// Scalar is a numeric, string, boolean or void type.
type Scalar struct {
	Name string
}

// Sequence is an array, in sugared or generic form.
type Sequence struct {
	Elem syntax.TypeRef
}

// Mapping is a dictionary, in sugared or generic form.
type Mapping struct {
	Key, Value syntax.TypeRef
}

// Optional wraps any type.
type Optional struct {
	Wrapped syntax.TypeRef
}

// SetLike is Set<T>.
type SetLike struct {
	Elem syntax.TypeRef
}

// Unknown is everything else. A named unknown has Name set; structural
// types faked cannot name (functions, existentials, tuples) have Name == "".
type Unknown struct {
	Name string
	Args []syntax.TypeRef
	Type syntax.TypeRef
}

func (Scalar) shape()   {}
func (Sequence) shape() {}
func (Mapping) shape()  {}
func (Optional) shape() {}
func (SetLike) shape()  {}
func (Unknown) shape()  {}

func (s Scalar) String() string   { return "scalar " + s.Name }
func (s Sequence) String() string { return "sequence" }
func (s Mapping) String() string  { return "mapping" }
func (s Optional) String() string { return "optional" }
func (s SetLike) String() string  { return "set" }

func (s Unknown) String() string {
	if s.Name == "" {
		return "unnamed"
	}
	return "unknown " + s.Name
}

// Named reports whether the unknown type has a nominal name.
func (s Unknown) Named() bool { return s.Name != "" }

// ScalarKind groups scalar names by their zero literal.
type ScalarKind int

const (
	NotScalar ScalarKind = iota
	Numeric
	Text
	Boolean
	Void
)

var scalars = map[string]ScalarKind{
	"Int": Numeric, "Int8": Numeric, "Int16": Numeric, "Int32": Numeric, "Int64": Numeric, "Int128": Numeric,
	"UInt": Numeric, "UInt8": Numeric, "UInt16": Numeric, "UInt32": Numeric, "UInt64": Numeric, "UInt128": Numeric,
	"Float": Numeric, "Float16": Numeric, "Float32": Numeric, "Float64": Numeric, "Float80": Numeric,
	"Double": Numeric, "CGFloat": Numeric,
	"String": Text, "Bool": Boolean, "Void": Void,
}

// KindOf returns the scalar kind of a type name.
func KindOf(name string) ScalarKind {
	return scalars[name]
}

// stdlibModule is the module qualifier stripped before matching.
const stdlibModule = "Swift"

// ShapeOf classifies t. A nil type is void.
func ShapeOf(t syntax.TypeRef) Shape {
	switch t := t.(type) {
	case nil:
		return Scalar{Name: "Void"}
	case *syntax.NamedType:
		return namedShape(t.Name, t.Generic, t)
	case *syntax.MemberType:
		if base, ok := t.Base.(*syntax.NamedType); ok && base.Name == stdlibModule && len(base.Generic) == 0 {
			return namedShape(t.Name, t.Generic, t)
		}
		return Unknown{Name: t.String(), Args: t.Generic, Type: t}
	case *syntax.ArrayType:
		return Sequence{Elem: t.Elem}
	case *syntax.DictionaryType:
		return Mapping{Key: t.Key, Value: t.Value}
	case *syntax.OptionalType:
		return Optional{Wrapped: t.Wrapped}
	case *syntax.TupleType:
		switch len(t.Elems) {
		case 0:
			return Scalar{Name: "Void"}
		case 1:
			return ShapeOf(t.Elems[0])
		}
	}
	return Unknown{Type: t}
}

func namedShape(name string, args []syntax.TypeRef, t syntax.TypeRef) Shape {
	switch {
	case len(args) == 0 && KindOf(name) != NotScalar:
		return Scalar{Name: name}
	case name == "Array" && len(args) == 1:
		return Sequence{Elem: args[0]}
	case name == "Dictionary" && len(args) == 2:
		return Mapping{Key: args[0], Value: args[1]}
	case name == "Optional" && len(args) == 1:
		return Optional{Wrapped: args[0]}
	case name == "Set" && len(args) <= 1:
		s := SetLike{}
		if len(args) == 1 {
			s.Elem = args[0]
		}
		return s
	}
	return Unknown{Name: name, Args: args, Type: t}
}

// IsVoid reports whether t declares no meaningful result.
func IsVoid(t syntax.TypeRef) bool {
	s, ok := ShapeOf(t).(Scalar)
	return ok && KindOf(s.Name) == Void
}
