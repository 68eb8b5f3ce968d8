package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode   Phase = "decode"   // bytes to coverage data
	PhaseEncode   Phase = "encode"   // coverage data to bytes
	PhaseValidate Phase = "validate" // invariant checks
	PhaseTrace    Phase = "trace"    // coverage recording
)

// Kind categorizes the error
type Kind string

const (
	KindIO                 Kind = "io"
	KindInvalidFormat      Kind = "invalid_format"
	KindUnsupportedVersion Kind = "unsupported_version"
	KindInvalidModuleTable Kind = "invalid_module_table"
	KindInvalidBBTable     Kind = "invalid_bb_table"
	KindValidation         Kind = "validation"
	KindRuntime            Kind = "runtime" // guest trap or non-zero exit while tracing
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Line   int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Line > 0 {
		b.WriteString(" at line ")
		b.WriteString(fmt.Sprint(e.Line))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// An empty Phase on the target matches any phase.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		if t.Phase != "" && t.Phase != e.Phase {
			return false
		}
		return e.Kind == t.Kind
	}
	return false
}

// IsKind reports whether any error in err's chain is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Line sets the 1-based input line the error refers to
func (b *Builder) Line(n int) *Builder {
	b.err.Line = n
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// IO wraps a failed read or write
func IO(phase Phase, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIO,
		Detail: detail,
		Cause:  cause,
	}
}

// InvalidFormat creates an error for a missing or malformed header line
func InvalidFormat(phase Phase, detail string, args ...any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidFormat,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// UnsupportedVersion creates an error for a well-formed but unsupported file version
func UnsupportedVersion(phase Phase, version uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupportedVersion,
		Detail: fmt.Sprintf("unsupported drcov version %d", version),
		Value:  version,
	}
}

// InvalidModuleTable creates a module table error
func InvalidModuleTable(phase Phase, detail string, args ...any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidModuleTable,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// InvalidBBTable creates a basic block table error
func InvalidBBTable(phase Phase, detail string, args ...any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidBBTable,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// Validation creates an invariant violation error
func Validation(value any, detail string, args ...any) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindValidation,
		Detail: fmt.Sprintf(detail, args...),
		Value:  value,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
