package diag

import (
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/faked/errors"
	"github.com/teranos/faked/syntax"
)

var pos = syntax.Pos{File: "Thing.yaml", Line: 3, Column: 5}

func TestNew(t *testing.T) {
	d := New(UnhandledType, pos, "(any Identifiable)")
	assert.Equal(t, SeverityError, d.Severity)
	assert.Equal(t, "Result type not supported: (any Identifiable)", d.Message)
	assert.True(t, d.Fatal())
	assert.Equal(t, "faked.unhandledType", d.ID())
	assert.NotEmpty(t, d.Hint)

	w := Newf(TypeNotFound, pos, "%s", "Missing")
	assert.False(t, w.Fatal())
	assert.Equal(t, "faked.warn-typeNotFound", w.ID())
	assert.Equal(t, "Associated type not found: Missing", w.Message)
}

func TestAt(t *testing.T) {
	v := &syntax.VarDecl{Pos: pos, Bindings: []*syntax.Binding{{Name: "a"}, {Name: "b"}}}
	d := New(BindingCount, syntax.Pos{}, "").At(v)
	assert.Equal(t, pos, d.Anchor)
	assert.Equal(t, "var a", d.Node)
}

func TestErrRoundTrip(t *testing.T) {
	d := New(TypesMismatch, pos, "")
	err := errors.Wrap(d.Err(), "expanding Thing")

	got, ok := From(err)
	require.True(t, ok)
	assert.Same(t, d, got)
	assert.True(t, IsKind(err, TypesMismatch))
	assert.False(t, IsKind(err, InvalidMember))
	assert.Contains(t, errors.Hints(err), "bind every associated type, or none of them")

	_, ok = From(errors.New("plain"))
	assert.False(t, ok)
	_, ok = From(nil)
	assert.False(t, ok)
}

func TestReporter(t *testing.T) {
	var rep Reporter
	assert.NoError(t, rep.Report(New(TypeNotFound, pos, "A")))
	assert.False(t, rep.HasFatal())

	err := rep.Report(New(InvalidMember, pos, "subscript"))
	require.Error(t, err)
	assert.True(t, IsKind(err, InvalidMember))
	assert.True(t, rep.HasFatal())

	assert.Len(t, rep.Diagnostics(), 2)
	warnings := rep.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, TypeNotFound, warnings[0].Kind)
}

func TestFormatPlain(t *testing.T) {
	d := New(TypeNotFound, pos, "Missing")
	assert.Equal(t,
		"Thing.yaml:3:5: warning: Associated type not found: Missing [faked.warn-typeNotFound]",
		d.Format(ContextPlain))

	d = New(NotAnInterface, syntax.Pos{}, "")
	assert.Equal(t,
		"<input>: error: Faked must be attached to a protocol [faked.notAnInterface]",
		d.Format(ContextPlain))
}

func TestFormatTerminal(t *testing.T) {
	pterm.DisableColor()
	defer pterm.EnableColor()

	d := New(UnhandledType, pos, "() -> Void")
	d.Node = "func make"
	out := d.Format(ContextTerminal)
	assert.Contains(t, out, "Thing.yaml:3:5")
	assert.Contains(t, out, "error")
	assert.Contains(t, out, "[faked.unhandledType]")
	assert.Contains(t, out, "in func make")
	assert.Contains(t, out, "hint: annotate the member")

	all := FormatAll([]*Diagnostic{d, New(TypeNotFound, pos, "X")}, ContextPlain)
	assert.Contains(t, all, "\n")
}
