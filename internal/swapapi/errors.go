package swapapi

import (
	"errors"
	"fmt"
)

// ErrRetriesExhausted is returned when every request attempt failed.
// The error returned by Swap wraps both this sentinel and the last
// observed attempt error.
var ErrRetriesExhausted = errors.New("swap request failed after all attempts")

// APIError is a non-2xx response from the routing service. Transient:
// the client retries these up to its attempt bound.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("swap API error: %s (status %d)", e.Body, e.Status)
}

// ProtocolError means the routing service returned a payload that does
// not decode into a transaction. Never retried: the service is violating
// its contract, not flaking.
type ProtocolError struct {
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("swap API protocol error: %s: %v", e.Reason, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// SubmissionError is a failure during or after signed submission to the
// RPC node. Never retried automatically: the transaction may have
// partially succeeded, and resubmitting risks duplicate on-chain effects.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("transaction submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }
