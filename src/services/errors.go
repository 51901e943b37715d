package services

import "errors"

// ErrorKind classifies a domain failure so the transport layer can map it to
// a status code without inspecting message text.
type ErrorKind int

const (
	KindInvalid ErrorKind = iota
	KindNotFound
	KindConflict
	KindInvalidRange
	KindTypeMismatch
	KindUnauthorized
)

// Error is a synchronous domain failure. These are logic errors, never
// retried internally.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

func NotFoundError(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }
func ConflictError(msg string) *Error     { return &Error{Kind: KindConflict, Message: msg} }
func InvalidError(msg string) *Error      { return &Error{Kind: KindInvalid, Message: msg} }
func InvalidRangeError(msg string) *Error { return &Error{Kind: KindInvalidRange, Message: msg} }
func TypeMismatchError(msg string) *Error { return &Error{Kind: KindTypeMismatch, Message: msg} }
func UnauthorizedError(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }

// KindOf returns the domain kind of err, or ok=false for unclassified
// (infrastructure) errors.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
