package host

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/faked/errors"
	"github.com/teranos/faked/faked/diag"
	"github.com/teranos/faked/faked/options"
	"github.com/teranos/faked/logger"
	"github.com/teranos/faked/syntax"
)

func protocol(name string, attrs []*syntax.Attribute, members ...syntax.Decl) *syntax.ProtocolDecl {
	return &syntax.ProtocolDecl{Name: name, Attrs: attrs, Members: members}
}

func attr(name string) *syntax.Attribute {
	return &syntax.Attribute{Name: name, Pos: syntax.Pos{File: "Input.swift", Line: 1, Column: 1}}
}

func getter(name, typ string) *syntax.VarDecl {
	return &syntax.VarDecl{Keyword: "var", Bindings: []*syntax.Binding{{Name: name, Type: syntax.ParseType(typ), Accessors: []string{"get"}}}}
}

func newPipeline(t *testing.T, opts ...Option) *Pipeline {
	t.Helper()
	reg, err := NewDefaultRegistry("dev")
	require.NoError(t, err)
	return NewPipeline(reg, opts...)
}

func TestPipelineOrdering(t *testing.T) {
	var decls []syntax.Decl
	for i := 0; i < 20; i++ {
		decls = append(decls, protocol(fmt.Sprintf("P%02d", i), []*syntax.Attribute{attr("Faked")}, getter("x", "Int")))
	}
	files := []*syntax.File{{Name: "A.swift", Decls: decls[:10]}, {Name: "B.swift", Decls: decls[10:]}}

	run, err := newPipeline(t, WithConcurrency(8)).Run(context.Background(), files)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.False(t, run.Failed())
	assert.NoError(t, run.Err())

	require.Len(t, run.Files, 2)
	for fi, fr := range run.Files {
		gen := fr.Generated()
		require.Len(t, gen, 30)
		for i := 0; i < 10; i++ {
			want := fmt.Sprintf("EmptyP%02d", fi*10+i)
			assert.Equal(t, want, gen[i*3].DeclName())
		}
	}
}

func TestPipelineUnannotatedDeclsProduceNothing(t *testing.T) {
	files := []*syntax.File{{Name: "A.swift", Decls: []syntax.Decl{
		protocol("Plain", nil, getter("x", "Int")),
		protocol("Other", []*syntax.Attribute{attr("objc")}),
	}}}
	run, err := newPipeline(t).Run(context.Background(), files)
	require.NoError(t, err)
	assert.Empty(t, run.Files[0].Generated())
	assert.Empty(t, run.Diagnostics())
}

func TestPipelineFatalIsolatedPerUnit(t *testing.T) {
	bad := &syntax.NominalDecl{Flavor: syntax.KindStruct, Name: "NotAProtocol", Attrs: []*syntax.Attribute{attr("Faked")}}
	good := protocol("Good", []*syntax.Attribute{attr("Faked")}, getter("x", "Int"))
	files := []*syntax.File{{Name: "A.swift", Decls: []syntax.Decl{bad, good}}}

	run, err := newPipeline(t).Run(context.Background(), files)
	require.NoError(t, err)
	assert.True(t, run.Failed())
	assert.True(t, errors.Is(run.Err(), errors.ErrExpansionFailed))

	units := run.Files[0].Units
	require.Len(t, units, 2)
	require.Error(t, units[0].Err)
	assert.True(t, diag.IsKind(units[0].Err, diag.NotAnInterface))
	assert.Empty(t, units[0].Generated)
	require.Len(t, units[0].Diagnostics, 1)

	assert.NoError(t, units[1].Err)
	assert.Len(t, units[1].Generated, 3)
}

func TestPipelineMemberAnnotationFailureDiscardsUnit(t *testing.T) {
	misplaced := &syntax.AssociatedTypeDecl{Name: "Element", Attrs: []*syntax.Attribute{attr("FakeDefault")}}
	host := &syntax.NominalDecl{Flavor: syntax.KindStruct, Name: "Box", Members: []syntax.Decl{misplaced}}
	files := []*syntax.File{{Name: "A.swift", Decls: []syntax.Decl{host}}}

	run, err := newPipeline(t).Run(context.Background(), files)
	require.NoError(t, err)
	u := run.Files[0].Units[0]
	require.Error(t, u.Err)
	assert.True(t, diag.IsKind(u.Err, diag.DefaultMisplaced))
	assert.Len(t, run.Diagnostics(), 1)
}

func TestPipelineDefaults(t *testing.T) {
	p := protocol("Thing", []*syntax.Attribute{attr("Faked")}, getter("x", "Int"))
	files := []*syntax.File{{Name: "A.swift", Decls: []syntax.Decl{p}}}

	defs := options.DefaultSettings()
	defs.CreateNull = false
	run, err := newPipeline(t, WithDefaults(defs)).Run(context.Background(), files)
	require.NoError(t, err)
	assert.Len(t, run.Files[0].Generated(), 2)
}

type slowHandler struct {
	active, peak *int32
}

func (slowHandler) Metadata() Metadata { return Metadata{Name: "Slow"} }

func (s slowHandler) Expand(context.Context, Invocation) (*Expansion, error) {
	n := atomic.AddInt32(s.active, 1)
	for {
		p := atomic.LoadInt32(s.peak)
		if n <= p || atomic.CompareAndSwapInt32(s.peak, p, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	atomic.AddInt32(s.active, -1)
	return &Expansion{}, nil
}

func TestPipelineConcurrencyLimit(t *testing.T) {
	var active, peak int32
	reg := NewRegistry("dev")
	require.NoError(t, reg.Register(slowHandler{&active, &peak}))

	var decls []syntax.Decl
	for i := 0; i < 16; i++ {
		decls = append(decls, protocol(fmt.Sprintf("P%d", i), []*syntax.Attribute{attr("Slow")}))
	}
	_, err := NewPipeline(reg, WithConcurrency(2)).Run(context.Background(), []*syntax.File{{Name: "A.swift", Decls: decls}})
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&peak), int32(1))
}

func TestPipelineCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	files := []*syntax.File{{Name: "A.swift", Decls: []syntax.Decl{protocol("P", []*syntax.Attribute{attr("Faked")})}}}
	_, err := newPipeline(t).Run(ctx, files)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestPipelineRunIDReachesHandlers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := logger.Logger
	logger.Logger = zap.New(core).Sugar()
	defer func() { logger.Logger = prev }()

	file := &syntax.File{Name: "A.swift", Decls: []syntax.Decl{
		protocol("Thing", []*syntax.Attribute{attr("Faked")}, getter("x", "Int")),
	}}
	run, err := newPipeline(t).Run(context.Background(), []*syntax.File{file})
	require.NoError(t, err)

	entries := logs.FilterMessage("invoking handler").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, run.ID, fields[logger.FieldRunID])
	assert.Equal(t, "Faked", fields[logger.FieldHandler])
	assert.Equal(t, "A.swift", fields[logger.FieldFile])
}
