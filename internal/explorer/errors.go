package explorer

import (
	"errors"
	"fmt"
)

// ErrNetworkUnsupported is returned when a lookup targets a network the
// explorer does not serve.
var ErrNetworkUnsupported = errors.New("network unsupported")

// TransportError is a failure below the explorer API: connection, timeout,
// unexpected HTTP status or an undecodable body.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProviderError is a failure reported by the explorer in its response
// envelope. Message is the explorer's text, unchanged.
type ProviderError struct {
	Status  string
	Message string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// HTTPError represents a non-2xx HTTP response.
type HTTPError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for URL %s: %s", e.StatusCode, e.URL, e.Message)
}
