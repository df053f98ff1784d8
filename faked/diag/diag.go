// Package diag defines the diagnostics raised while expanding a declaration.
//
// A fatal Diagnostic aborts the expansion of the declaration it anchors to
// and is returned as an error; warnings accumulate in a Reporter and ride
// along with successful output.
package diag

import (
	"fmt"

	"github.com/teranos/faked/errors"
	"github.com/teranos/faked/syntax"
)

// Domain prefixes every diagnostic ID.
const Domain = "faked"

// Severity of a diagnostic
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Kind identifies a diagnostic for programmatic handling
type Kind string

const (
	NotAnInterface     Kind = "notAnInterface"
	InvalidMember      Kind = "invalidMember"
	BindingCount       Kind = "bindingCount"
	UnhandledType      Kind = "unhandledType"
	WrongTypeSpecifier Kind = "wrongTypeSpecifier"
	TypesMismatch      Kind = "typesMismatch"
	InvalidDefault     Kind = "invalidDefault"
	DefaultMisplaced   Kind = "defaultMisplaced"
	InvalidArgument    Kind = "invalidArgument"
	TypeNotFound       Kind = "typeNotFound"
)

type kindInfo struct {
	severity Severity
	message  string
	hint     string
}

var kinds = map[Kind]kindInfo{
	NotAnInterface: {SeverityError,
		"Faked must be attached to a protocol",
		"move the annotation onto a protocol declaration"},
	InvalidMember: {SeverityError,
		"Unsupported protocol member found",
		"only var, let, func and associatedtype requirements can be faked"},
	BindingCount: {SeverityError,
		"Each `var` must have exactly one binding",
		"declare each property on its own line with an explicit type"},
	UnhandledType: {SeverityError,
		"Result type not supported",
		"annotate the member with @FakeDefault(exp: \"...\") to supply a value"},
	WrongTypeSpecifier: {SeverityError,
		"Types must be specified as a string literal and a type such as `Int.self`",
		`write types as ["Name": Concrete.self]`},
	TypesMismatch: {SeverityError,
		"Types count does not match associated types count",
		"bind every associated type, or none of them"},
	InvalidDefault: {SeverityError,
		"Invalid default value",
		`use a literal, an identifier chain, or exp: "<expression>"`},
	DefaultMisplaced: {SeverityError,
		"FakeDefault must be attached to a var or func declaration",
		""},
	InvalidArgument: {SeverityError,
		"Invalid Faked argument",
		"inherit and skip take string arrays; anyObject and createNull take booleans"},
	TypeNotFound: {SeverityWarning,
		"Associated type not found",
		""},
}

// Diagnostic is a single message anchored to a source node.
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	// Message is the human-readable text, including any detail.
	Message string
	Anchor  syntax.Pos
	// Node is a short description of the anchored declaration, e.g. "var count".
	Node string
	Hint string
}

// New creates a diagnostic of the given kind. A non-empty detail is
// appended to the kind's base message.
func New(kind Kind, anchor syntax.Pos, detail string) *Diagnostic {
	info, ok := kinds[kind]
	if !ok {
		info = kindInfo{severity: SeverityError, message: string(kind)}
	}
	msg := info.message
	if detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, detail)
	}
	return &Diagnostic{
		Kind:     kind,
		Severity: info.severity,
		Message:  msg,
		Anchor:   anchor,
		Hint:     info.hint,
	}
}

// Newf is New with a formatted detail.
func Newf(kind Kind, anchor syntax.Pos, format string, args ...interface{}) *Diagnostic {
	return New(kind, anchor, fmt.Sprintf(format, args...))
}

// At anchors the diagnostic to a declaration and records its description.
func (d *Diagnostic) At(decl syntax.Decl) *Diagnostic {
	d.Anchor = decl.Position()
	d.Node = syntax.Describe(decl)
	return d
}

// In records the anchored declaration's description without moving the anchor.
func (d *Diagnostic) In(decl syntax.Decl) *Diagnostic {
	d.Node = syntax.Describe(decl)
	return d
}

// ID is the stable identifier, e.g. "faked.unhandledType" or "faked.warn-typeNotFound".
func (d *Diagnostic) ID() string {
	if d.Severity == SeverityWarning {
		return Domain + ".warn-" + string(d.Kind)
	}
	return Domain + "." + string(d.Kind)
}

// Fatal reports whether the diagnostic aborts expansion.
func (d *Diagnostic) Fatal() bool { return d.Severity == SeverityError }

func (d *Diagnostic) Error() string { return d.Message }

// Err wraps the diagnostic into an error chain carrying a stack and its hint.
func (d *Diagnostic) Err() error {
	err := errors.WithStack(d)
	if d.Hint != "" {
		err = errors.WithHint(err, d.Hint)
	}
	return err
}

// From recovers the diagnostic from an error chain.
func From(err error) (*Diagnostic, bool) {
	var d *Diagnostic
	if err != nil && errors.As(err, &d) {
		return d, true
	}
	return nil, false
}

// IsKind reports whether err carries a diagnostic of the given kind.
func IsKind(err error, kind Kind) bool {
	d, ok := From(err)
	return ok && d.Kind == kind
}

// Reporter collects diagnostics for one expansion.
type Reporter struct {
	diags []*Diagnostic
}

// Report records d. Fatal diagnostics are also returned as an error so
// callers can abort with a single `return rep.Report(...)`.
func (r *Reporter) Report(d *Diagnostic) error {
	r.diags = append(r.diags, d)
	if d.Fatal() {
		return d.Err()
	}
	return nil
}

// Diagnostics returns everything reported, in order.
func (r *Reporter) Diagnostics() []*Diagnostic {
	return append([]*Diagnostic(nil), r.diags...)
}

// Warnings returns the non-fatal diagnostics, in order.
func (r *Reporter) Warnings() []*Diagnostic {
	var out []*Diagnostic
	for _, d := range r.diags {
		if !d.Fatal() {
			out = append(out, d)
		}
	}
	return out
}

// HasFatal reports whether any fatal diagnostic was recorded.
func (r *Reporter) HasFatal() bool {
	for _, d := range r.diags {
		if d.Fatal() {
			return true
		}
	}
	return false
}
