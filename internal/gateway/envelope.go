package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrRejected marks a response whose envelope code is not "0".
var ErrRejected = errors.New("gateway rejected request")

// RejectedError carries the envelope's code and message.
type RejectedError struct {
	Code string
	Msg  string
}

func (e *RejectedError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s (code %s)", ErrRejected, e.Code)
	}
	return fmt.Sprintf("%s: %s (code %s)", ErrRejected, e.Msg, e.Code)
}

func (e *RejectedError) Unwrap() error {
	return ErrRejected
}

type envelope struct {
	Code    json.RawMessage `json:"code"`
	Msg     string          `json:"msg"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e envelope) code() string {
	return strings.Trim(string(bytes.TrimSpace(e.Code)), `"`)
}

func (e envelope) message() string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.Message
}

// decodeEnvelope parses body and, when out is non-nil, its data member.
// A missing code is accepted for endpoints that answer without one.
func decodeEnvelope(body []byte, out any, requireCode bool) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return env, fmt.Errorf("decode gateway response: %w", err)
	}
	code := env.code()
	if code == "" && requireCode {
		return env, fmt.Errorf("decode gateway response: missing code")
	}
	if code != "" && code != "0" {
		return env, &RejectedError{Code: code, Msg: env.message()}
	}
	if out != nil {
		if len(env.Data) == 0 || string(env.Data) == "null" {
			return env, fmt.Errorf("decode gateway response: missing data")
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return env, fmt.Errorf("decode gateway data: %w", err)
		}
	}
	return env, nil
}
