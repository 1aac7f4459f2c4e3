package adapter

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// AdapterError carries the provider HTTP status so callers can distinguish
// transient failures from misconfiguration.
type AdapterError struct {
	Adapter string
	Status  int
	Err     error
}

func (e *AdapterError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s API error (status %d): %v", e.Adapter, e.Status, e.Err)
	}
	return fmt.Sprintf("%s API error (status %d)", e.Adapter, e.Status)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

func apiError(adapter string, status int, err error) *AdapterError {
	return &AdapterError{Adapter: adapter, Status: status, Err: err}
}

// IsTransient reports whether a generation failure is worth one retry:
// timeouts, rate limits and provider 5xx. Cancellation and 4xx are not.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var adapterErr *AdapterError
	if errors.As(err, &adapterErr) {
		return adapterErr.Status == 429 || (adapterErr.Status >= 500 && adapterErr.Status <= 599)
	}
	return false
}
