package provider

import "errors"

// Typed failures. The raw provider vocabulary is decoded exactly once,
// here at the adapter boundary; callers only ever see these.
var (
	// ErrNoNumbers: the provider has no numbers for the requested
	// service/country right now.
	ErrNoNumbers = errors.New("provider: no numbers available")
	// ErrBadKey: the configured API key was rejected.
	ErrBadKey = errors.New("provider: invalid api key")
	// ErrNotFound: the activation id is unknown to the provider.
	ErrNotFound = errors.New("provider: activation not found")
	// ErrEarlyCancelDenied: the provider refused the cancellation
	// because its own cooldown has not elapsed.
	ErrEarlyCancelDenied = errors.New("provider: early cancel denied")
	// ErrUnexpectedResponse: the response token was outside the known
	// vocabulary.
	ErrUnexpectedResponse = errors.New("provider: unexpected response")
	// ErrUnavailable: network-class failure after retries were
	// exhausted, or the circuit breaker is open.
	ErrUnavailable = errors.New("provider: unavailable")
)

// Acquisition is the parsed ACCESS_NUMBER token.
type Acquisition struct {
	ActivationId string
	PhoneNumber  string
}

// StatusKind enumerates the closed set of poll outcomes.
type StatusKind int

const (
	StatusWaiting StatusKind = iota
	StatusCodeReceived
	StatusRetryRequested
	StatusResendRequested
	StatusCancelled
)

func (k StatusKind) String() string {
	switch k {
	case StatusWaiting:
		return "waiting"
	case StatusCodeReceived:
		return "success"
	case StatusRetryRequested:
		return "retry"
	case StatusResendRequested:
		return "resend"
	case StatusCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Status is the tagged poll result. Code is set for StatusCodeReceived;
// LastCode for StatusRetryRequested.
type Status struct {
	Kind     StatusKind
	Code     string
	LastCode string
}
