package errors

import (
	stderrors "errors"
	"fmt"
)

// SimplError defines the base interface for all simpl errors
type SimplError interface {
	error
	ErrorCode() ErrorCode
	Location() SourceLocation
	Context() map[string]interface{}
	Suggestions() []string
	Unwrap() error
}

// ErrorCode represents the type of error that occurred
type ErrorCode int

const (
	UnknownErrorCode ErrorCode = iota

	// Manifest resolution
	ManifestNotFoundCode
	MalformedManifestCode
	CyclicDependencyCode
	DependencyDepthExceededCode

	// Interface extraction
	EntityNotFoundCode
	NoPortClauseCode
	UnparsablePortEntryCode
	UnsupportedDirectionCode

	// Scaffold generation
	AmbiguousClockPortCode
	TemplateErrorCode

	// Ambient
	FileSystemErrorCode
	ConfigurationErrorCode
	UsageErrorCode
)

// String returns the string representation of the error code
func (e ErrorCode) String() string {
	switch e {
	case ManifestNotFoundCode:
		return "ManifestNotFound"
	case MalformedManifestCode:
		return "MalformedManifest"
	case CyclicDependencyCode:
		return "CyclicDependency"
	case DependencyDepthExceededCode:
		return "DependencyDepthExceeded"
	case EntityNotFoundCode:
		return "EntityNotFound"
	case NoPortClauseCode:
		return "NoPortClause"
	case UnparsablePortEntryCode:
		return "UnparsablePortEntry"
	case UnsupportedDirectionCode:
		return "UnsupportedDirection"
	case AmbiguousClockPortCode:
		return "AmbiguousClockPort"
	case TemplateErrorCode:
		return "TemplateError"
	case FileSystemErrorCode:
		return "FileSystemError"
	case ConfigurationErrorCode:
		return "ConfigurationError"
	case UsageErrorCode:
		return "UsageError"
	default:
		return "UnknownError"
	}
}

// Sentinels for use with the standard errors.Is. Any BaseError matches the
// sentinel carrying the same code.
var (
	ErrManifestNotFound        = New(ManifestNotFoundCode, "manifest not found")
	ErrMalformedManifest       = New(MalformedManifestCode, "malformed manifest")
	ErrCyclicDependency        = New(CyclicDependencyCode, "cyclic dependency")
	ErrDependencyDepthExceeded = New(DependencyDepthExceededCode, "dependency depth exceeded")
	ErrEntityNotFound          = New(EntityNotFoundCode, "entity not found")
	ErrNoPortClause            = New(NoPortClauseCode, "no port clause")
	ErrUnparsablePortEntry     = New(UnparsablePortEntryCode, "unparsable port entry")
	ErrUnsupportedDirection    = New(UnsupportedDirectionCode, "unsupported port direction")
	ErrAmbiguousClockPort      = New(AmbiguousClockPortCode, "ambiguous clock port")
)

// SourceLocation represents where an error occurred
type SourceLocation struct {
	File   string // file path where error occurred
	Line   int    // line number (1-based)
	Column int    // column number (1-based)
}

// String returns a formatted string representation of the location
func (s SourceLocation) String() string {
	if s.File == "" {
		return "unknown location"
	}
	if s.Line == 0 {
		return s.File
	}
	if s.Column == 0 {
		return fmt.Sprintf("%s:%d", s.File, s.Line)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// IsEmpty returns true if the location has no useful information
func (s SourceLocation) IsEmpty() bool {
	return s.File == ""
}

// BaseError provides a common implementation of the SimplError interface
type BaseError struct {
	Code        ErrorCode              // type of error
	Message     string                 // error message
	Loc         SourceLocation         // where the error occurred
	Cause       error                  // underlying error cause
	ContextData map[string]interface{} // additional context information
	Hints       []string               // helpful suggestions for fixing the error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	msg := e.Message
	if !e.Loc.IsEmpty() {
		msg = fmt.Sprintf("%s: %s", e.Loc.String(), msg)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// ErrorCode returns the error code
func (e *BaseError) ErrorCode() ErrorCode {
	return e.Code
}

// Location returns the source location where the error occurred
func (e *BaseError) Location() SourceLocation {
	return e.Loc
}

// Context returns the error context data
func (e *BaseError) Context() map[string]interface{} {
	if e.ContextData == nil {
		return make(map[string]interface{})
	}
	return e.ContextData
}

// Suggestions returns helpful suggestions for fixing the error
func (e *BaseError) Suggestions() []string {
	return e.Hints
}

// Unwrap returns the underlying error cause for error chain inspection
func (e *BaseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a BaseError with the same code.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithLocation adds location information to the error
func (e *BaseError) WithLocation(loc SourceLocation) *BaseError {
	e.Loc = loc
	return e
}

// WithCause adds an underlying error cause
func (e *BaseError) WithCause(cause error) *BaseError {
	e.Cause = cause
	return e
}

// WithContext adds context data to the error
func (e *BaseError) WithContext(key string, value interface{}) *BaseError {
	if e.ContextData == nil {
		e.ContextData = make(map[string]interface{})
	}
	e.ContextData[key] = value
	return e
}

// WithSuggestion adds a helpful suggestion for fixing the error
func (e *BaseError) WithSuggestion(suggestion string) *BaseError {
	e.Hints = append(e.Hints, suggestion)
	return e
}

// WithSuggestions adds multiple helpful suggestions
func (e *BaseError) WithSuggestions(suggestions ...string) *BaseError {
	e.Hints = append(e.Hints, suggestions...)
	return e
}

// New creates a new BaseError with the specified code and message
func New(code ErrorCode, message string) *BaseError {
	return &BaseError{
		Code:    code,
		Message: message,
		Hints:   make([]string, 0),
	}
}

// Newf creates a new BaseError with formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *BaseError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap creates a new error that wraps another error
func Wrap(code ErrorCode, message string, cause error) *BaseError {
	return &BaseError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Hints:   make([]string, 0),
	}
}

// Wrapf creates a new error that wraps another error with formatted message
func Wrapf(code ErrorCode, cause error, format string, args ...interface{}) *BaseError {
	return Wrap(code, fmt.Sprintf(format, args...), cause)
}

// CodeOf returns the code of the first SimplError in err's chain, or
// UnknownErrorCode.
func CodeOf(err error) ErrorCode {
	var se SimplError
	if stderrors.As(err, &se) {
		return se.ErrorCode()
	}
	return UnknownErrorCode
}

// HasCode reports whether any error in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		if se, ok := err.(SimplError); ok && se.ErrorCode() == code {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}
