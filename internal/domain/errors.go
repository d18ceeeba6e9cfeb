package domain

import "fmt"

// ErrorKind categorizes a failure by how far it is allowed to propagate.
type ErrorKind int

const (
	// ErrKindConfiguration covers a malformed or empty linter registry and
	// unusable run settings. Fatal before any file is processed.
	ErrKindConfiguration ErrorKind = iota
	// ErrKindHistoryResolution covers a reference revision or file path
	// that cannot be resolved in version history. Fatal for the whole run.
	ErrKindHistoryResolution
	// ErrKindLinterExecution covers an external command that failed to
	// start, timed out, or exited abnormally. Recoverable per pair.
	ErrKindLinterExecution
	// ErrKindDiffParse covers diff text that does not conform to the hunk
	// grammar. Degrades to treating every working-side issue as new.
	ErrKindDiffParse
)

// String returns a human-readable description of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrKindConfiguration:
		return "configuration error"
	case ErrKindHistoryResolution:
		return "history resolution error"
	case ErrKindLinterExecution:
		return "linter execution error"
	case ErrKindDiffParse:
		return "diff parse error"
	default:
		return "unknown error"
	}
}

// Error is a classified failure with the (file, linter) scope it applies
// to, where relevant.
type Error struct {
	Kind    ErrorKind
	Message string
	File    string
	Linter  string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind.String(), e.Message)
	if e.Linter != "" {
		msg = fmt.Sprintf("%s (linter: %s)", msg, e.Linter)
	}
	if e.File != "" {
		msg = fmt.Sprintf("%s (file: %s)", msg, e.File)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements error equality checking for errors.Is: two Errors match
// when their kinds match.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Fatal reports whether the error must terminate the run before any
// per-file work begins.
func (e *Error) Fatal() bool {
	return e.Kind == ErrKindConfiguration || e.Kind == ErrKindHistoryResolution
}

// NewConfigurationError creates a fatal configuration error.
func NewConfigurationError(message string, err error) *Error {
	return &Error{
		Kind:    ErrKindConfiguration,
		Message: message,
		Err:     err,
	}
}

// NewHistoryResolutionError creates a fatal history resolution error.
func NewHistoryResolutionError(message string, err error) *Error {
	return &Error{
		Kind:    ErrKindHistoryResolution,
		Message: message,
		Err:     err,
	}
}

// NewLinterExecutionError creates a recoverable execution error scoped to
// one (file, linter) pair.
func NewLinterExecutionError(file, linter, message string, err error) *Error {
	return &Error{
		Kind:    ErrKindLinterExecution,
		Message: message,
		File:    file,
		Linter:  linter,
		Err:     err,
	}
}

// NewDiffParseError creates a degradable diff parse error scoped to one
// file.
func NewDiffParseError(file string, err error) *Error {
	return &Error{
		Kind:    ErrKindDiffParse,
		Message: "malformed unified diff",
		File:    file,
		Err:     err,
	}
}
