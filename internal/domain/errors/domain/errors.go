// Package domain provides the classified error type shared by the dispatcher and the signing client.
package domain

import (
	"errors"
	"fmt"
)

// Kind discriminates the failure classes a command can end with.
type Kind int

const (
	// KindArity means the command line had the wrong number of positional arguments.
	KindArity Kind = iota + 1
	// KindConfiguration means local configuration (private key, proxy, URL) is unusable.
	KindConfiguration
	// KindDomain means the backend answered 404 or 409.
	KindDomain
	// KindTransport means no connection to the backend could be established.
	KindTransport
	// KindHTTP means the backend answered with any other non-2xx status.
	KindHTTP
)

// String returns the lower-case name of the kind, used as a metric and log label.
func (k Kind) String() string {
	switch k {
	case KindArity:
		return "arity"
	case KindConfiguration:
		return "configuration"
	case KindDomain:
		return "domain"
	case KindTransport:
		return "transport"
	case KindHTTP:
		return "http"
	}
	return "unknown"
}

// Sentinel errors wrapped by the classified error constructors.
var (
	ErrIncorrectArgumentCount = errors.New("incorrect number of arguments provided")
	ErrNoIdentifier           = errors.New("no identifier available")
	ErrPrivateKeyNotFound     = errors.New("private key not found")
	ErrImproperProxy          = errors.New("proxy must have the form scheme://host:port")
)

// Error is the single failure type returned across the CLI. Exactly one Kind is set;
// the remaining fields are populated as the kind requires.
type Error struct {
	Kind    Kind
	Message string

	// StatusCode is set for KindDomain and KindHTTP.
	StatusCode int
	// URL and Proxy are set for KindTransport.
	URL   string
	Proxy string

	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	}
	return e.Kind.String() + " error"
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewArityError reports a positional argument count mismatch.
func NewArityError(format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindArity,
		Message: fmt.Sprintf(format, args...),
		Err:     ErrIncorrectArgumentCount,
	}
}

// NewArityCountError reports that a verb expected want positional arguments but got got.
func NewArityCountError(verb string, want, got int) *Error {
	return NewArityError("%s expects %d argument(s), got %d", verb, want, got)
}

// NewConfigurationError reports unusable local configuration.
func NewConfigurationError(message string, err error) *Error {
	return &Error{Kind: KindConfiguration, Message: message, Err: err}
}

// NewDomainError reports a backend 404/409 carrying the backend-provided message.
func NewDomainError(statusCode int, message string) *Error {
	return &Error{Kind: KindDomain, StatusCode: statusCode, Message: message}
}

// NewTransportError reports a failure to reach the backend at url, optionally through proxy.
func NewTransportError(url, proxy string, err error) *Error {
	return &Error{Kind: KindTransport, URL: url, Proxy: proxy, Err: err}
}

// NewHTTPError reports an unexpected non-2xx status.
func NewHTTPError(statusCode int, status string) *Error {
	return &Error{Kind: KindHTTP, StatusCode: statusCode, Message: status}
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) (Kind, bool) {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind, true
	}
	return 0, false
}

// IsKind reports whether err's chain holds a classified error of kind k.
func IsKind(err error, k Kind) bool {
	kind, ok := KindOf(err)
	return ok && kind == k
}
