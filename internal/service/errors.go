package service

// ErrorKind classifies a service failure for translation into a
// transport-level status. Every operation returns either a *Error with
// one of these kinds or an opaque internal error.
type ErrorKind int

const (
	KindBadRequest ErrorKind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

// Error is the (kind, message) failure pair exposed to the boundary layer.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// BadRequestError reports a precondition or state violation.
func BadRequestError(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message}
}

// UnauthorizedError reports a failed or missing credential.
func UnauthorizedError(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// ForbiddenError reports an authorization failure.
func ForbiddenError(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NotFoundError reports a missing record.
func NotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// ConflictError reports a uniqueness violation.
func ConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}
