package host

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/faked/errors"
	"github.com/teranos/faked/faked/diag"
	"github.com/teranos/faked/faked/options"
	"github.com/teranos/faked/logger"
	"github.com/teranos/faked/syntax"
)

// DefaultConcurrency bounds how many declarations expand at once.
const DefaultConcurrency = 4

// Pipeline expands every annotated declaration of a set of files.
// Declarations are independent, so they run concurrently; results keep
// source order.
type Pipeline struct {
	registry    *Registry
	defaults    options.Defaults
	concurrency int
	log         *zap.SugaredLogger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDefaults sets the values used for omitted @Faked arguments.
func WithDefaults(d options.Defaults) Option {
	return func(p *Pipeline) { p.defaults = d }
}

// WithConcurrency bounds parallel expansions. Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n >= 1 {
			p.concurrency = n
		}
	}
}

// WithLogger replaces the component logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(p *Pipeline) { p.log = l }
}

// NewPipeline creates a pipeline over reg.
func NewPipeline(reg *Registry, opts ...Option) *Pipeline {
	p := &Pipeline{
		registry:    reg,
		defaults:    options.DefaultSettings(),
		concurrency: DefaultConcurrency,
		log:         logger.ComponentLogger("host.pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Unit is the outcome for one top-level declaration.
type Unit struct {
	Decl        syntax.Decl
	Generated   []syntax.Decl
	Diagnostics []*diag.Diagnostic
	// Err is the fatal error that discarded this unit's output, if any.
	Err error
}

// FileResult groups units by source file, in declaration order.
type FileResult struct {
	File  *syntax.File
	Units []*Unit
}

// Generated returns the declarations produced for the file, in order.
func (f *FileResult) Generated() []syntax.Decl {
	var out []syntax.Decl
	for _, u := range f.Units {
		out = append(out, u.Generated...)
	}
	return out
}

// Diagnostics returns every diagnostic raised for the file, in order.
func (f *FileResult) Diagnostics() []*diag.Diagnostic {
	var out []*diag.Diagnostic
	for _, u := range f.Units {
		out = append(out, u.Diagnostics...)
	}
	return out
}

// Failed reports whether any unit hit a fatal error.
func (f *FileResult) Failed() bool {
	for _, u := range f.Units {
		if u.Err != nil {
			return true
		}
	}
	return false
}

// Run is the result of one pipeline invocation.
type Run struct {
	ID       string
	Files    []*FileResult
	Duration time.Duration
}

// Failed reports whether any file failed.
func (r *Run) Failed() bool {
	for _, f := range r.Files {
		if f.Failed() {
			return true
		}
	}
	return false
}

// Diagnostics returns every diagnostic of the run, file by file.
func (r *Run) Diagnostics() []*diag.Diagnostic {
	var out []*diag.Diagnostic
	for _, f := range r.Files {
		out = append(out, f.Diagnostics()...)
	}
	return out
}

// Err returns ErrExpansionFailed when any unit failed, annotated with the
// count of fatal diagnostics.
func (r *Run) Err() error {
	n := 0
	for _, f := range r.Files {
		for _, u := range f.Units {
			if u.Err != nil {
				n++
			}
		}
	}
	if n == 0 {
		return nil
	}
	return errors.Wrapf(errors.ErrExpansionFailed, "%d declaration(s) failed", n)
}

// Run expands every declaration in files. Expansion failures are recorded
// per unit and do not stop the run; only context cancellation does.
func (p *Pipeline) Run(ctx context.Context, files []*syntax.File) (*Run, error) {
	start := time.Now()
	run := &Run{ID: uuid.NewString(), Files: make([]*FileResult, len(files))}
	ctx = logger.WithRunID(ctx, run.ID)
	log := p.log.With(logger.FieldRunID, run.ID)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, f := range files {
		fr := &FileResult{File: f, Units: make([]*Unit, len(f.Decls))}
		run.Files[i] = fr
		for j, decl := range f.Decls {
			j, decl, name := j, decl, f.Name
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				fr.Units[j] = p.expandUnit(gctx, log, name, decl)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "expansion cancelled")
	}

	run.Duration = time.Since(start)
	log.Infow("run complete",
		logger.FieldCount, len(files),
		logger.FieldDurationMS, run.Duration.Milliseconds())
	return run, nil
}

// ExpandFile runs the pipeline over a single file.
func (p *Pipeline) ExpandFile(ctx context.Context, f *syntax.File) (*FileResult, error) {
	run, err := p.Run(ctx, []*syntax.File{f})
	if err != nil {
		return nil, err
	}
	return run.Files[0], nil
}

// expandUnit applies the handlers for every annotation on decl and on its
// direct members. The first fatal error discards everything generated for
// the unit.
func (p *Pipeline) expandUnit(ctx context.Context, log *zap.SugaredLogger, file string, decl syntax.Decl) *Unit {
	u := &Unit{Decl: decl}
	log = log.With(logger.FieldFile, file, logger.FieldDecl, syntax.Describe(decl))

	targets := append([]syntax.Decl{decl}, membersOf(decl)...)
	for _, target := range targets {
		for _, attr := range target.Attributes() {
			h, ok := p.registry.Get(attr.Name)
			if !ok {
				log.Debugw("no handler for annotation", logger.FieldHandler, attr.Name)
				continue
			}

			exp, err := h.Expand(ctx, Invocation{File: file, Decl: target, Attribute: attr, Defaults: p.defaults})
			if exp != nil {
				for _, d := range exp.Diagnostics {
					log.Debugw("diagnostic", logger.FieldDiagnostic, d.ID(), logger.FieldSeverity, d.Severity)
				}
				u.Diagnostics = append(u.Diagnostics, exp.Diagnostics...)
			}
			if err != nil {
				u.Err = err
				u.Generated = nil
				log.Debugw("expansion failed", logger.FieldHandler, attr.Name, logger.FieldError, err)
				return u
			}
			for _, skip := range exp.UnmatchedSkips {
				log.Debugw("skip entry matches no member", logger.FieldHandler, attr.Name, "skip", skip)
			}
			u.Generated = append(u.Generated, exp.Decls...)
			log.Debugw("expanded", logger.FieldHandler, attr.Name, logger.FieldCount, len(exp.Decls))
		}
	}
	return u
}

func membersOf(d syntax.Decl) []syntax.Decl {
	switch d := d.(type) {
	case *syntax.ProtocolDecl:
		return d.Members
	case *syntax.NominalDecl:
		return d.Members
	case *syntax.ExtensionDecl:
		return d.Members
	}
	return nil
}
