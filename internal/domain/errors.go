package domain

import "errors"

// Kind classifies a failure by the action that produced it, independent of transport.
type Kind string

const (
	KindConfiguration Kind = "configuration_error"
	KindValidation    Kind = "validation_error"
	KindEngine        Kind = "engine_error"
	KindRender        Kind = "render_error"
)

// Error carries a stable Kind plus a user-facing message and optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same Kind, so errors.Is(err, &Error{Kind: KindEngine}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap attaches a kind and message to err. An existing domain kind in the chain wins.
func Wrap(err error, kind Kind, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		return &Error{Kind: existing.Kind, Message: msg, Err: err}
	}
	return &Error{Kind: kind, Message: msg, Err: err}
}

// HasKind reports whether err is, or wraps, a domain error of the given kind.
func HasKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf returns the kind of the first domain error in the chain, or "" for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func ConfigurationError(msg string, cause error) error {
	return &Error{Kind: KindConfiguration, Message: msg, Err: cause}
}

func ValidationError(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

func EngineError(msg string, cause error) error {
	return &Error{Kind: KindEngine, Message: msg, Err: cause}
}

func RenderError(msg string, cause error) error {
	return &Error{Kind: KindRender, Message: msg, Err: cause}
}
