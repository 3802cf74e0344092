package request

// Outcome is the terminal state of a request.
type Outcome string

const (
	Success      Outcome = "success"
	AuthExpired  Outcome = "auth_expired"
	OtherFailure Outcome = "other_failure"
)

// State is one step of a request's lifecycle.
type State string

const (
	StatePending         State = "pending"
	StateHeadersInjected State = "headers_injected"
	StateHeadersSkipped  State = "headers_skipped"
	StateSent            State = "sent"
	StateSuccess         State = State(Success)
	StateAuthExpired     State = State(AuthExpired)
	StateOtherFailure    State = State(OtherFailure)
)

// Result is the tagged outcome of Send.
type Result struct {
	Outcome Outcome
	// Body is the raw response body on success.
	Body []byte
	// Status is the HTTP status, zero when no response arrived.
	Status int
	Kind   FailureKind
	// Message is the text published to the operator on failure.
	Message string
	Err     error
	// RequestID is the X-Request-ID sent with the request.
	RequestID string
	Trace     []State
}

// OK reports whether the request succeeded.
func (r Result) OK() bool {
	return r.Outcome == Success
}
