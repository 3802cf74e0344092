package request

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthExpired is returned when the gateway answers 401.
	ErrAuthExpired = errors.New("session expired")
	// ErrHeaderInjection marks a failure while attaching auth headers. It is
	// logged and the request continues unauthenticated.
	ErrHeaderInjection = errors.New("auth header injection failed")
)

// FailureKind classifies a non-401 failure.
type FailureKind string

const (
	KindNone       FailureKind = ""
	KindNetwork    FailureKind = "network"
	KindTimeout    FailureKind = "timeout"
	KindHTTPStatus FailureKind = "http_status"
)

// TransportError describes a failed exchange with the gateway.
type TransportError struct {
	Kind    FailureKind
	Status  int
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	switch {
	case e.Status > 0 && e.Message != "":
		return fmt.Sprintf("gateway returned %d: %s", e.Status, e.Message)
	case e.Status > 0:
		return fmt.Sprintf("gateway returned %d", e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	default:
		return string(e.Kind) + " error"
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
