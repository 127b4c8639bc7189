package supabaseauth

import "fmt"

// ErrorKind classifies every failure this package can return. The set is
// closed for matching purposes but new kinds may be added over time; callers
// should treat an unrecognized kind like KindServerError.
type ErrorKind string

const (
	// KindInvalidParameters marks locally-detectable bad input (empty
	// required string, malformed URL). No request was sent.
	KindInvalidParameters ErrorKind = "invalid_parameters"
	// KindNotAuthorized marks server-reported invalid, expired or revoked
	// credentials or tokens.
	KindNotAuthorized ErrorKind = "not_authorized"
	// KindMissingServiceRoleKey marks an admin operation attempted on a
	// client built without a service role key. No request was sent.
	KindMissingServiceRoleKey ErrorKind = "missing_service_role_key"
	// KindNotFound marks a server report that the referenced user or
	// resource does not exist.
	KindNotFound ErrorKind = "not_found"
	// KindConflict marks a server report of a duplicate identifier on
	// signup.
	KindConflict ErrorKind = "conflict"
	// KindRateLimited marks server-side request throttling.
	KindRateLimited ErrorKind = "rate_limited"
	// KindTransportFailure marks a failure below HTTP: connection refused,
	// timeout, TLS failure, cancelled context. The cause is always wrapped.
	KindTransportFailure ErrorKind = "transport_failure"
	// KindServerError is the catch-all for any other non-2xx response; the
	// status code and raw body are retained for diagnostics.
	KindServerError ErrorKind = "server_error"
	// KindDecodeError marks a 2xx response whose body does not match the
	// expected shape.
	KindDecodeError ErrorKind = "decode_error"
)

// Error is the only error type returned by Client methods.
//
// Match on the kind with errors.Is and the exported sentinels:
//
//	if errors.Is(err, supabaseauth.ErrNotAuthorized) {
//	    // re-authenticate
//	}
type Error struct {
	Kind    ErrorKind
	Message string // server-provided or local detail, may be empty
	Status  int    // HTTP status code, 0 when no response was received
	Body    string // raw response body, set for KindServerError
	cause   error
}

// Sentinels for errors.Is checks, one per kind.
var (
	ErrInvalidParameters     = &Error{Kind: KindInvalidParameters}
	ErrNotAuthorized         = &Error{Kind: KindNotAuthorized}
	ErrMissingServiceRoleKey = &Error{Kind: KindMissingServiceRoleKey}
	ErrNotFound              = &Error{Kind: KindNotFound}
	ErrConflict              = &Error{Kind: KindConflict}
	ErrRateLimited           = &Error{Kind: KindRateLimited}
	ErrTransportFailure      = &Error{Kind: KindTransportFailure}
	ErrServerError           = &Error{Kind: KindServerError}
	ErrDecodeError           = &Error{Kind: KindDecodeError}
)

func (e *Error) Error() string {
	switch {
	case e.cause != nil:
		return fmt.Sprintf("supabase auth: %s: %v", e.Kind, e.cause)
	case e.Message != "" && e.Status != 0:
		return fmt.Sprintf("supabase auth: %s (status %d): %s", e.Kind, e.Status, e.Message)
	case e.Message != "":
		return fmt.Sprintf("supabase auth: %s: %s", e.Kind, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("supabase auth: %s (status %d)", e.Kind, e.Status)
	default:
		return fmt.Sprintf("supabase auth: %s", e.Kind)
	}
}

// Unwrap exposes the underlying cause, if any. Transport failures always
// carry one.
func (e *Error) Unwrap() error { return e.cause }

// Is reports kind equality so errors.Is(err, ErrNotAuthorized) works
// regardless of the message, status or cause attached to err.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func invalidParams(msg string) *Error {
	return &Error{Kind: KindInvalidParameters, Message: msg}
}

func transportFailure(cause error) *Error {
	return &Error{Kind: KindTransportFailure, cause: cause}
}

func decodeFailure(msg string, cause error) *Error {
	return &Error{Kind: KindDecodeError, Message: msg, cause: cause}
}
