// Package errors is the error vocabulary shared by every faked package.
//
// It re-exports github.com/cockroachdb/errors so call sites get stack
// traces, hints and details without importing the upstream package
// directly:
//
//	if err := manifest.LoadFile(path); err != nil {
//	    return errors.Wrapf(err, "failed to load %s", path)
//	}
//
//	return errors.WithHint(err, "run `faked generate` to refresh the output")
//
// Expansion diagnostics (see package faked/diag) travel through the same
// chain, so errors.As recovers them after any amount of wrapping.
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessagef = crdb.WithMessagef
)

// User-facing annotations
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Sentinel errors. Wrap them to add context; test with errors.Is.
var (
	// ErrNotFound is returned when a manifest, handler or config file does not exist.
	ErrNotFound = New("not found")

	// ErrInvalidRequest marks malformed host input (bad manifest, bad flag, bad config value).
	ErrInvalidRequest = New("invalid request")

	// ErrUnsupportedFormat is returned for manifest or output formats faked cannot read or write.
	ErrUnsupportedFormat = New("unsupported format")

	// ErrOutOfDate is returned by `faked check` when committed output differs from a fresh generation.
	ErrOutOfDate = New("generated output is out of date")

	// ErrExpansionFailed marks a run in which at least one declaration produced a fatal diagnostic.
	ErrExpansionFailed = New("expansion failed")
)

// IsNotFoundError reports whether err is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidRequestError reports whether err is or wraps ErrInvalidRequest.
func IsInvalidRequestError(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// NewInvalidRequestError creates an invalid-request error with a formatted message.
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidRequest, Newf(format, args...).Error())
}

// NewNotFoundError creates a not-found error with a formatted message.
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}

// Hints returns every hint attached anywhere in err's chain, outermost first.
func Hints(err error) []string {
	if err == nil {
		return nil
	}
	return GetAllHints(err)
}
