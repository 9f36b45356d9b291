// Package errors provides error handling for astbuild.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for the command line
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := resolve(kind); err != nil {
//	    return errors.Wrapf(err, "failed to resolve %s", kind)
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "pass --provider probe to discover signatures at runtime")
//
//	// Check errors
//	if errors.Is(err, errors.ErrSchemaDiscovery) {
//	    // handle unknown builder
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New   = crdb.New
	Newf  = crdb.Newf
	Wrap  = crdb.Wrap
	Wrapf = crdb.Wrapf
)

// User-facing messages and details
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
)

// Error inspection
var (
	Is             = crdb.Is
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Sentinel errors for the generator pipeline.
// Use these with errors.Is(); wrap them with errors.Wrapf() to add context.
var (
	// ErrSchemaDiscovery indicates a builder signature could not be determined
	ErrSchemaDiscovery = New("schema discovery failed")

	// ErrUnrecognizedNode indicates a value that is neither a node, a list nor a regex
	ErrUnrecognizedNode = New("unrecognized node")

	// ErrUnsupportedLayout indicates a construction expression the layout engine does not know
	ErrUnsupportedLayout = New("unsupported layout")

	// ErrReplacementParse indicates a replacement fragment is not a single expression
	ErrReplacementParse = New("replacement parse failed")

	// ErrSyntax indicates malformed source text
	ErrSyntax = New("syntax error")

	// ErrBuild indicates a builder was called with invalid arguments
	ErrBuild = New("build failed")

	// ErrVerifyMismatch indicates the generated code does not reproduce its input
	ErrVerifyMismatch = New("verification mismatch")
)

// IsSchemaDiscoveryError checks if an error is or wraps ErrSchemaDiscovery
func IsSchemaDiscoveryError(err error) bool {
	return err != nil && Is(err, ErrSchemaDiscovery)
}

// IsUnrecognizedNodeError checks if an error is or wraps ErrUnrecognizedNode
func IsUnrecognizedNodeError(err error) bool {
	return err != nil && Is(err, ErrUnrecognizedNode)
}

// NewSchemaDiscoveryError creates a schema-discovery error with a formatted message
func NewSchemaDiscoveryError(format string, args ...interface{}) error {
	return Wrap(ErrSchemaDiscovery, Newf(format, args...).Error())
}

// NewSyntaxError creates a syntax error with a formatted message
func NewSyntaxError(format string, args ...interface{}) error {
	return Wrap(ErrSyntax, Newf(format, args...).Error())
}
