package shopify

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportError is any failure talking to the admin API. A sync pass stops
// on the first one.
type TransportError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("shopify %s (%d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("shopify %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsAuth reports a rejected or insufficient access token.
func (e *TransportError) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsNotFound reports a missing endpoint or resource.
func (e *TransportError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// AsTransportError unwraps err to a *TransportError.
func AsTransportError(err error) (*TransportError, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
