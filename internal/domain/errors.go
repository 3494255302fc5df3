package domain

import "errors"

// ErrorKind classifies failures so the HTTP layer can pick a status code
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotAuthenticated
	KindSessionInvalid
	KindBotNotReady
	KindNotFound
	KindNotConfigured
	KindForbidden
	KindValidationFailed
	KindAuthExchangeFailed
	KindUpstreamFailure
	KindRateLimited
	KindUnavailable
)

var kindNames = map[ErrorKind]string{
	KindInternal:           "internal",
	KindNotAuthenticated:   "not_authenticated",
	KindSessionInvalid:     "session_invalid",
	KindBotNotReady:        "bot_not_ready",
	KindNotFound:           "not_found",
	KindNotConfigured:      "not_configured",
	KindForbidden:          "forbidden",
	KindValidationFailed:   "validation_failed",
	KindAuthExchangeFailed: "auth_exchange_failed",
	KindUpstreamFailure:    "upstream_failure",
	KindRateLimited:        "rate_limited",
	KindUnavailable:        "unavailable",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Error is a classified failure. Message is safe to show to the operator;
// Details carries provider output (e.g. a token endpoint error body).
type Error struct {
	Kind    ErrorKind
	Message string
	Details string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NewError creates a classified error
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError classifies an underlying error
func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the first classified error in err's chain, KindInternal otherwise
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// IsKind reports whether err is classified as kind
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
