package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Outcome is the normalized result of a completed HTTP exchange, whether the
// remote reported success or an application-level error.
type Outcome struct {
	Method string `json:"method" yaml:"method"`
	URL    string `json:"url" yaml:"url"`
	Status int    `json:"status" yaml:"status"`
	OK     bool   `json:"ok" yaml:"ok"`
	// Body is the decoded JSON value, or the raw response text when the
	// response was not valid JSON.
	Body any `json:"body" yaml:"body"`
}

// FailureKind tags a Failure as transport or application level.
type FailureKind string

const (
	// FailureTransport means the exchange never completed.
	FailureTransport FailureKind = "transport"
	// FailureApplication means the exchange completed with a non-2xx status.
	FailureApplication FailureKind = "application"
)

// Failure is the error returned by Client.Invoke.
//
// Transport failures carry only Message (and the underlying error in Err).
// Application failures carry the full Outcome so status and body stay
// visible to whoever renders them.
type Failure struct {
	Kind    FailureKind
	Message string
	Outcome *Outcome
	Err     error
}

func (f *Failure) Error() string {
	if f.Kind == FailureApplication && f.Outcome != nil {
		return fmt.Sprintf("%s %s: status %d", f.Outcome.Method, f.Outcome.URL, f.Outcome.Status)
	}
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func transportFailure(err error) *Failure {
	return &Failure{Kind: FailureTransport, Message: err.Error(), Err: err}
}

func applicationFailure(o *Outcome) *Failure {
	return &Failure{
		Kind:    FailureApplication,
		Message: fmt.Sprintf("remote returned status %d", o.Status),
		Outcome: o,
	}
}

// AsFailure unwraps err into a *Failure if it holds one.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	f, ok := AsFailure(err)
	return ok && f.Kind == FailureTransport
}

// IsApplication reports whether err is an application failure.
func IsApplication(err error) bool {
	f, ok := AsFailure(err)
	return ok && f.Kind == FailureApplication
}

// Succeeded reports whether status is in the 2xx range.
func Succeeded(status int) bool {
	return status >= 200 && status < 300
}

// DecodeBody decodes a response body leniently. An empty body becomes an
// empty object, valid JSON becomes its value, and anything else is returned
// as the raw text unchanged.
func DecodeBody(raw []byte) any {
	if len(raw) == 0 {
		return map[string]any{}
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}
