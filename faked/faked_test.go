package faked

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/faked/faked/diag"
	"github.com/teranos/faked/faked/options"
	"github.com/teranos/faked/syntax"
)

func getter(name, typ string, accessors ...string) *syntax.VarDecl {
	if len(accessors) == 0 {
		accessors = []string{"get"}
	}
	return &syntax.VarDecl{Keyword: "var", Bindings: []*syntax.Binding{{Name: name, Type: syntax.ParseType(typ), Accessors: accessors}}}
}

func fn(name, result string) *syntax.FuncDecl {
	f := &syntax.FuncDecl{Name: name}
	if result != "" {
		f.Result = syntax.ParseType(result)
	}
	return f
}

func faked(t *testing.T, args ...string) *syntax.Attribute {
	t.Helper()
	a := &syntax.Attribute{Name: "Faked", Pos: syntax.Pos{File: "Thing.swift", Line: 1, Column: 1}}
	for i := 0; i < len(args); i += 2 {
		v, err := syntax.ParseExpr(args[i+1])
		require.NoError(t, err)
		a.Args = append(a.Args, &syntax.Argument{Label: args[i], Value: v})
	}
	return a
}

func render(r *Result) string {
	return syntax.FormatAll(r.Declarations, syntax.PrintOptions{})
}

func TestExpandThing(t *testing.T) {
	p := &syntax.ProtocolDecl{Name: "Thing", Members: []syntax.Decl{getter("x", "Int"), fn("perform", "")}}
	res, err := Expand(p, faked(t))
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, `protocol EmptyThing: Thing {
  var x: Int { get }
  func perform()
}

extension EmptyThing {
  var x: Int { 0 }
  func perform() {}
}

struct NullThing: EmptyThing {}
`, render(res))
}

func TestExpandReferenceMarker(t *testing.T) {
	p := &syntax.ProtocolDecl{
		Name:     "Thing",
		Inherits: []syntax.TypeRef{syntax.Named("AnyObject")},
		Members:  []syntax.Decl{fn("intFunc", "Int")},
	}
	res, err := Expand(p, faked(t, "anyObject", "false"))
	require.NoError(t, err)
	assert.Equal(t, `protocol EmptyThing: Thing {
  func intFunc() -> Int
}

extension EmptyThing {
  func intFunc() -> Int { 0 }
}

class NullThing: EmptyThing {}
`, render(res))
}

func TestExpandMissingBindingWarns(t *testing.T) {
	p := &syntax.ProtocolDecl{Name: "Thing", Members: []syntax.Decl{
		&syntax.AssociatedTypeDecl{Name: "Sequence", Inherits: []syntax.TypeRef{syntax.ParseType("Swift.Sequence")}},
	}}
	res, err := Expand(p, faked(t, "types", `["Missing": Int.self]`))
	require.NoError(t, err)
	assert.Equal(t, `protocol EmptyThing: Thing {}

extension EmptyThing {}

struct NullThing: EmptyThing {
  typealias Sequence = NullSequence
}
`, render(res))

	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, diag.TypeNotFound, d.Kind)
	assert.Equal(t, diag.SeverityWarning, d.Severity)
	assert.Contains(t, d.Message, "Missing")
}

func TestExpandExplicitDefault(t *testing.T) {
	v := getter("x", "Int")
	v.Attrs = []*syntax.Attribute{{Name: "FakeDefault", Args: []*syntax.Argument{{Value: &syntax.IntegerLiteral{Text: "1"}}}}}
	p := &syntax.ProtocolDecl{Name: "Thing", Members: []syntax.Decl{v}}

	res, err := Expand(p, nil)
	require.NoError(t, err)
	assert.Equal(t, "extension EmptyThing {\n  var x: Int { 1 }\n}", syntax.Format(res.Output.Extension))
	assert.Equal(t, "protocol EmptyThing: Thing {\n  var x: Int { get }\n}", syntax.Format(res.Output.Protocol))
}

func TestExpandAllDefaults(t *testing.T) {
	p := &syntax.ProtocolDecl{Name: "Thing", Members: []syntax.Decl{
		getter("text", "String", "get", "set"),
		getter("flag", "Bool"),
		getter("items", "[Int]"),
		getter("lookup", "[String: Int]"),
		getter("maybe", "Int?"),
		getter("tags", "Set<String>"),
		getter("when", "Date"),
		fn("seq", "AnySequence<Int>"),
		fn("existential", "(any Identifiable)?"),
	}}
	res, err := Expand(p, faked(t, "createNull", "false"))
	require.NoError(t, err)
	assert.Nil(t, res.Output.Stub)
	assert.Equal(t, `extension EmptyThing {
  var text: String { get { "" } set {} }
  var flag: Bool { false }
  var items: [Int] { [] }
  var lookup: [String: Int] { [:] }
  var maybe: Int? { nil }
  var tags: Set<String> { [] }
  var when: Date { .fakeDefault() }
  func seq() -> AnySequence<Int> { .init(Array<Int>()) }
  func existential() -> (any Identifiable)? { nil }
}`, syntax.Format(res.Output.Extension))
}

func TestExpandAssociatedTypes(t *testing.T) {
	p := &syntax.ProtocolDecl{Name: "Store", Members: []syntax.Decl{
		&syntax.AssociatedTypeDecl{Name: "Key"},
		&syntax.AssociatedTypeDecl{Name: "Value"},
		fn("get", "Value?"),
	}}

	res, err := Expand(p, faked(t, "types", `["Value": "String", "Key": Int.self]`))
	require.NoError(t, err)
	assert.Equal(t, "struct NullStore: EmptyStore {\n  typealias Key = Int\n  typealias Value = String\n}", syntax.Format(res.Output.Stub))

	res, err = Expand(p, faked(t, "types", `["Key": Int.self]`))
	require.Error(t, err)
	assert.True(t, diag.IsKind(err, diag.TypesMismatch))
	assert.Nil(t, res.Declarations)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, 1, res.Diagnostics[0].Anchor.Line)
}

func TestExpandSkip(t *testing.T) {
	for pos := 0; pos < 3; pos++ {
		t.Run(fmt.Sprintf("position %d", pos), func(t *testing.T) {
			ms := []syntax.Decl{getter("a", "Int"), getter("b", "Int"), getter("c", "Int")}
			skipped := ms[pos].DeclName()
			p := &syntax.ProtocolDecl{Name: "P", Members: ms}

			res, err := Expand(p, faked(t, "skip", fmt.Sprintf(`[%q, "ghost"]`, skipped)))
			require.NoError(t, err)
			for _, m := range res.Output.Protocol.Members {
				assert.NotEqual(t, skipped, m.DeclName())
			}
			for _, m := range res.Output.Extension.Members {
				assert.NotEqual(t, skipped, m.DeclName())
			}
			assert.Len(t, res.Output.Protocol.Members, 2)
			assert.Equal(t, []string{"ghost"}, res.UnmatchedSkips)
			assert.Empty(t, res.Diagnostics)
		})
	}
}

func TestExpandSkipUnhandled(t *testing.T) {
	p := &syntax.ProtocolDecl{Name: "P", Members: []syntax.Decl{fn("callback", "() -> Void")}}

	_, err := Expand(p, nil)
	assert.True(t, diag.IsKind(err, diag.UnhandledType))

	res, err := Expand(p, faked(t, "skip", `["callback"]`))
	require.NoError(t, err)
	assert.Empty(t, res.Output.Extension.Members)
}

func TestExpandReferenceDecision(t *testing.T) {
	tests := []struct {
		marker    bool
		anyObject string
		want      syntax.DeclKind
	}{
		{false, "false", syntax.KindStruct},
		{false, "true", syntax.KindClass},
		{true, "false", syntax.KindClass},
		{true, "true", syntax.KindClass},
	}
	for _, tt := range tests {
		p := &syntax.ProtocolDecl{Name: "P"}
		if tt.marker {
			p.Inherits = []syntax.TypeRef{syntax.Named("AnyObject")}
		}
		res, err := Expand(p, faked(t, "anyObject", tt.anyObject))
		require.NoError(t, err)
		assert.Equal(t, tt.want, res.Output.Stub.Kind(), "marker=%v anyObject=%s", tt.marker, tt.anyObject)
	}
}

func TestExpandInheritance(t *testing.T) {
	parent := &syntax.ProtocolDecl{Name: "Parent", Members: []syntax.Decl{getter("x", "Int")}}
	child := &syntax.ProtocolDecl{Name: "Child", Inherits: []syntax.TypeRef{syntax.Named("Parent")}, Members: []syntax.Decl{getter("y", "Int")}}

	_, err := Expand(parent, nil)
	require.NoError(t, err)

	res, err := Expand(child, faked(t, "inherit", `["EmptyParent"]`))
	require.NoError(t, err)
	assert.Equal(t, "protocol EmptyChild: Child, EmptyParent {\n  var y: Int { get }\n}", syntax.Format(res.Output.Protocol))
}

func TestExpandWithDefaults(t *testing.T) {
	p := &syntax.ProtocolDecl{Name: "P"}
	defs := options.Defaults{CreateNull: false, Inherit: []string{"Sendable"}}

	res, err := ExpandWith(p, nil, defs)
	require.NoError(t, err)
	assert.Nil(t, res.Output.Stub)
	assert.Equal(t, "protocol EmptyP: P, Sendable {}", syntax.Format(res.Output.Protocol))

	res, err = ExpandWith(p, faked(t, "createNull", "true", "inherit", "[]"), defs)
	require.NoError(t, err)
	assert.NotNil(t, res.Output.Stub)
	assert.Equal(t, "protocol EmptyP: P {}", syntax.Format(res.Output.Protocol))
}

func TestExpandFatal(t *testing.T) {
	tests := []struct {
		name string
		decl syntax.Decl
		attr *syntax.Attribute
		kind diag.Kind
	}{
		{"struct target", &syntax.NominalDecl{Flavor: syntax.KindStruct, Name: "Wrong"}, nil, diag.NotAnInterface},
		{"subscript member", &syntax.ProtocolDecl{Name: "P", Members: []syntax.Decl{&syntax.SubscriptDecl{}}}, nil, diag.InvalidMember},
		{"two bindings", &syntax.ProtocolDecl{Name: "P", Members: []syntax.Decl{&syntax.VarDecl{Bindings: []*syntax.Binding{
			{Name: "a", Type: syntax.Named("Int")}, {Name: "b", Type: syntax.Named("Int")},
		}}}}, nil, diag.BindingCount},
		{"bad binding", &syntax.ProtocolDecl{Name: "P", Members: []syntax.Decl{&syntax.AssociatedTypeDecl{Name: "A"}}}, faked(t, "types", `["A": 1]`), diag.WrongTypeSpecifier},
		{"invalid default", &syntax.ProtocolDecl{Name: "P", Members: []syntax.Decl{&syntax.FuncDecl{
			Name: "f", Result: syntax.Named("Int"),
			Attrs: []*syntax.Attribute{{Name: "FakeDefault"}},
		}}}, nil, diag.InvalidDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Expand(tt.decl, tt.attr)
			require.Error(t, err)
			require.NotNil(t, res)
			assert.Nil(t, res.Declarations, "no partial output")
			assert.Nil(t, res.Output)
			require.Len(t, res.Diagnostics, 1)
			assert.Equal(t, tt.kind, res.Diagnostics[0].Kind)
			assert.True(t, diag.IsKind(err, tt.kind))
		})
	}
}

func TestExpandIsDeterministic(t *testing.T) {
	p := &syntax.ProtocolDecl{Name: "P", Members: []syntax.Decl{
		&syntax.AssociatedTypeDecl{Name: "A"},
		getter("a", "[String: Set<Int>]"),
		fn("b", "Date"),
	}}
	first, err := Expand(p, faked(t, "types", `["A": Int.self]`))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Expand(p, faked(t, "types", `["A": Int.self]`))
		require.NoError(t, err)
		assert.Equal(t, render(first), render(again))
	}
}

func TestExpandDefaults(t *testing.T) {
	p := &syntax.ProtocolDecl{Name: "EmptyThing", Members: []syntax.Decl{getter("x", "Int"), fn("perform", "")}}
	res, err := ExpandDefaults(p)
	require.NoError(t, err)
	assert.Equal(t, "extension EmptyThing {\n  var x: Int { 0 }\n  func perform() {}\n}\n", render(res))

	res, err = ExpandDefaults(&syntax.NominalDecl{Flavor: syntax.KindClass, Name: "C"})
	assert.True(t, diag.IsKind(err, diag.NotAnInterface))
	assert.Len(t, res.Diagnostics, 1)

	res, err = ExpandDefaults(&syntax.ProtocolDecl{Name: "P", Members: []syntax.Decl{fn("f", "() -> Int")}})
	assert.True(t, diag.IsKind(err, diag.UnhandledType))
	assert.Nil(t, res.Declarations)
}

func TestCheckDefault(t *testing.T) {
	attr := &syntax.Attribute{Name: "FakeDefault", Pos: syntax.Pos{Line: 2}, Args: []*syntax.Argument{{Value: &syntax.IntegerLiteral{Text: "1"}}}}

	assert.NoError(t, CheckDefault(getter("x", "Int"), attr))
	assert.NoError(t, CheckDefault(fn("f", "Int"), attr))

	err := CheckDefault(&syntax.NominalDecl{Flavor: syntax.KindStruct, Name: "Wrong"}, attr)
	d, ok := diag.From(err)
	require.True(t, ok)
	assert.Equal(t, diag.DefaultMisplaced, d.Kind)
	assert.Equal(t, 2, d.Anchor.Line)
	assert.Equal(t, "struct Wrong", d.Node)

	err = CheckDefault(getter("x", "Int"), &syntax.Attribute{Name: "FakeDefault"})
	assert.True(t, diag.IsKind(err, diag.InvalidDefault))
}
