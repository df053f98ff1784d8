package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/faked/faked/diag"
	"github.com/teranos/faked/syntax"
)

var anchor = syntax.Pos{File: "Thing.yaml", Line: 1, Column: 1}

func args(t *testing.T, kv ...string) []*syntax.Argument {
	t.Helper()
	require.Zero(t, len(kv)%2)
	var out []*syntax.Argument
	for i := 0; i < len(kv); i += 2 {
		v, err := syntax.ParseExpr(kv[i+1])
		require.NoError(t, err)
		out = append(out, &syntax.Argument{Label: kv[i], Value: v, Pos: syntax.Pos{Line: 1, Column: 8}})
	}
	return out
}

func TestDecodeDefaults(t *testing.T) {
	raw, err := Decode(nil, DefaultSettings())
	require.NoError(t, err)
	assert.True(t, raw.CreateNull)
	assert.False(t, raw.AnyObject)
	assert.Empty(t, raw.Inherit)
	assert.Empty(t, raw.Bindings)

	raw, err = Decode(nil, Defaults{Inherit: []string{"Sendable"}, AnyObject: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Sendable"}, raw.Inherit)
	assert.True(t, raw.AnyObject)
	assert.False(t, raw.CreateNull)
}

func TestDecodeAll(t *testing.T) {
	raw, err := Decode(args(t,
		"types", `["Item": Int.self, "Key": "String"]`,
		"inherit", `["EmptyParent", "EmptyParent"]`,
		"anyObject", `true`,
		"skip", `["load"]`,
		"createNull", `false`,
	), Defaults{Inherit: []string{"Ignored"}, CreateNull: true})
	require.NoError(t, err)

	require.Len(t, raw.Bindings, 2)
	assert.Equal(t, "Item", raw.Bindings[0].Name)
	assert.Equal(t, "Int", raw.Bindings[0].Concrete)
	assert.Equal(t, "String", raw.Bindings[1].Concrete)
	assert.Equal(t, []string{"EmptyParent", "EmptyParent"}, raw.Inherit, "duplicates are kept")
	assert.True(t, raw.AnyObject)
	assert.Equal(t, []string{"load"}, raw.Skip)
	assert.False(t, raw.CreateNull)
}

func TestDecodeEmptyTypes(t *testing.T) {
	for _, v := range []string{`[:]`, `[]`} {
		raw, err := Decode(args(t, "types", v), DefaultSettings())
		require.NoError(t, err, v)
		assert.Empty(t, raw.Bindings, v)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		kind diag.Kind
	}{
		{"types not a dictionary", []string{"types", `"Int"`}, diag.WrongTypeSpecifier},
		{"types array", []string{"types", `[Int.self]`}, diag.WrongTypeSpecifier},
		{"non-string key", []string{"types", `[Item: Int.self]`}, diag.WrongTypeSpecifier},
		{"bare identifier value", []string{"types", `["Item": Int]`}, diag.WrongTypeSpecifier},
		{"number value", []string{"types", `["Item": 1]`}, diag.WrongTypeSpecifier},
		{"string that is not a type", []string{"types", `["Item": "not a type"]`}, diag.WrongTypeSpecifier},
		{"duplicate key", []string{"types", `["Item": Int.self, "Item": String.self]`}, diag.WrongTypeSpecifier},
		{"inherit not array", []string{"inherit", `"Parent"`}, diag.InvalidArgument},
		{"skip entry not string", []string{"skip", `[load]`}, diag.InvalidArgument},
		{"anyObject not bool", []string{"anyObject", `"yes"`}, diag.InvalidArgument},
		{"unknown label", []string{"mode", `true`}, diag.InvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := Decode(args(t, tt.args...), DefaultSettings())
			require.Error(t, err)
			assert.Nil(t, raw)
			assert.True(t, diag.IsKind(err, tt.kind), err.Error())
		})
	}
}

func TestValidateBindings(t *testing.T) {
	t.Run("all bound", func(t *testing.T) {
		var rep diag.Reporter
		raw := &Raw{Bindings: []TypeBinding{{Name: "Key", Concrete: "String"}, {Name: "Item", Concrete: "Int"}}}
		cfg, err := Validate(raw, anchor, []string{"Item", "Key"}, nil, &rep)
		require.NoError(t, err)
		assert.Equal(t, []Resolved{
			{Placeholder: "Item", Concrete: "Int"},
			{Placeholder: "Key", Concrete: "String"},
		}, cfg.Types, "placeholder order wins over binding order")
		assert.Empty(t, rep.Diagnostics())
	})

	t.Run("none bound", func(t *testing.T) {
		var rep diag.Reporter
		cfg, err := Validate(&Raw{}, anchor, []string{"Item"}, nil, &rep)
		require.NoError(t, err)
		assert.Equal(t, []Resolved{{Placeholder: "Item", Concrete: "NullItem", Defaulted: true}}, cfg.Types)
	})

	t.Run("count mismatch", func(t *testing.T) {
		var rep diag.Reporter
		raw := &Raw{Bindings: []TypeBinding{{Name: "Item", Concrete: "Int"}}}
		cfg, err := Validate(raw, anchor, []string{"Item", "Key"}, nil, &rep)
		require.Error(t, err)
		assert.Nil(t, cfg)
		d, ok := diag.From(err)
		require.True(t, ok)
		assert.Equal(t, diag.TypesMismatch, d.Kind)
		assert.Equal(t, anchor, d.Anchor)
	})

	t.Run("bindings without placeholders", func(t *testing.T) {
		var rep diag.Reporter
		raw := &Raw{Bindings: []TypeBinding{{Name: "Item", Concrete: "Int"}}}
		_, err := Validate(raw, anchor, nil, nil, &rep)
		assert.True(t, diag.IsKind(err, diag.TypesMismatch))
	})

	t.Run("unknown name warns", func(t *testing.T) {
		var rep diag.Reporter
		raw := &Raw{Bindings: []TypeBinding{
			{Name: "Item", Concrete: "Int"},
			{Name: "Missing", Concrete: "String", Pos: syntax.Pos{Line: 4}},
		}}
		cfg, err := Validate(raw, anchor, []string{"Item", "Key"}, nil, &rep)
		require.NoError(t, err)
		assert.Equal(t, []Resolved{
			{Placeholder: "Item", Concrete: "Int"},
			{Placeholder: "Key", Concrete: "NullKey", Defaulted: true},
		}, cfg.Types)

		warnings := rep.Warnings()
		require.Len(t, warnings, 1)
		assert.Equal(t, diag.TypeNotFound, warnings[0].Kind)
		assert.Equal(t, "faked.warn-typeNotFound", warnings[0].ID())
		assert.Equal(t, 4, warnings[0].Anchor.Line)
		assert.Contains(t, warnings[0].Message, "Missing")
	})
}

func TestValidateSkip(t *testing.T) {
	var rep diag.Reporter
	cfg, err := Validate(&Raw{Skip: []string{"load", "ghost", "count"}}, anchor, nil, []string{"count", "load", "name"}, &rep)
	require.NoError(t, err)
	assert.True(t, cfg.Skips("load"))
	assert.True(t, cfg.Skips("ghost"))
	assert.False(t, cfg.Skips("name"))
	assert.Equal(t, []string{"ghost"}, cfg.UnmatchedSkips)
	assert.Empty(t, rep.Diagnostics(), "unmatched skips are inert")
}

func TestParse(t *testing.T) {
	var rep diag.Reporter
	attr := &syntax.Attribute{Name: "Faked", Args: args(t, "types", `["A": "Foundation.Date"]`)}
	cfg, err := Parse(attr, anchor, DefaultSettings(), []string{"A"}, nil, &rep)
	require.NoError(t, err)
	assert.Equal(t, "Foundation.Date", cfg.Types[0].Concrete)
	assert.True(t, cfg.CreateNull)

	cfg, err = Parse(nil, anchor, DefaultSettings(), nil, nil, &rep)
	require.NoError(t, err)
	assert.Empty(t, cfg.Types)
}
