// Package fault defines the error kinds surfaced at the fppm command boundary.
// Every fatal condition in the core is reported as a *Error carrying one Kind,
// so commands can print a diagnostic and tests can assert on the kind with Is.
package fault

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a failure.
type Kind int

const (
	// PathFormat indicates a malformed config object path or shortname.
	PathFormat Kind = iota + 1
	// MissingPackage indicates a package that is not installed or has no package.yaml.
	MissingPackage
	// InvalidFillable indicates an unparsable or mismatched fillable descriptor,
	// or a variable name that would collide with its protected keys.
	InvalidFillable
	// HookNotFound indicates a declared hook script that does not exist.
	HookNotFound
	// HookExecution indicates a hook script that exited nonzero or could not start.
	HookExecution
	// TemplateRender indicates a failure of the templating engine or staging area.
	TemplateRender
	// RegistryFetch indicates a registry document that could not be retrieved.
	RegistryFetch
	// RegistryValidation indicates a registry document missing required fields.
	RegistryValidation
	// ResolutionNotFound indicates a shortname with no match in any registry.
	ResolutionNotFound
	// ResolutionAmbiguous indicates an invalid selection among several matches.
	ResolutionAmbiguous
	// UserAbortedOverwrite indicates the operator declined to replace an existing file.
	UserAbortedOverwrite
)

// String returns the diagnostic name of the kind.
func (k Kind) String() string {
	switch k {
	case PathFormat:
		return "PathFormatError"
	case MissingPackage:
		return "MissingPackageError"
	case InvalidFillable:
		return "InvalidFillableError"
	case HookNotFound:
		return "HookNotFoundError"
	case HookExecution:
		return "HookExecutionError"
	case TemplateRender:
		return "TemplateRenderError"
	case RegistryFetch:
		return "RegistryFetchError"
	case RegistryValidation:
		return "RegistryValidationError"
	case ResolutionNotFound:
		return "ResolutionNotFoundError"
	case ResolutionAmbiguous:
		return "ResolutionAmbiguousError"
	case UserAbortedOverwrite:
		return "UserAbortedOverwrite"
	default:
		return "UnknownError"
	}
}

// Error is a categorized failure with optional path context.
type Error struct {
	// Kind is the failure category.
	Kind Kind
	// Message is the human-readable description.
	Message string
	// Path is the file, registry or shortname the failure relates to (optional).
	Path string
	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Path)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error of the given kind.
func New(kind Kind, path, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Path:    path,
	}
}

// Wrap creates an Error of the given kind around cause.
func Wrap(kind Kind, path string, cause error, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Path:    path,
		Cause:   cause,
	}
}

// Is reports whether any error in err's chain is a *Error of the given kind.
// Joined errors are searched branch by branch.
func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	if fe, ok := err.(*Error); ok && fe.Kind == kind {
		return true
	}
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			if Is(e, kind) {
				return true
			}
		}
	case interface{ Unwrap() error }:
		return Is(u.Unwrap(), kind)
	}
	return false
}

// KindOf returns the kind of the outermost *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}
