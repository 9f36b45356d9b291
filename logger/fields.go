package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components
	FieldComponent = "component"
	FieldProvider  = "provider"

	// Tree vocabulary
	FieldKind      = "kind"
	FieldParams    = "params"
	FieldName      = "name"
	FieldFragment  = "fragment"
	FieldNamespace = "namespace"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount = "count"
	FieldBytes = "bytes"

	// Files and paths
	FieldFile   = "file"
	FieldFormat = "format"
	FieldOp     = "op"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Resolver struct {
//	    log *zap.SugaredLogger
//	}
//
//	func NewResolver(p Provider) *Resolver {
//	    return &Resolver{log: logger.ComponentLogger("signature")}
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
