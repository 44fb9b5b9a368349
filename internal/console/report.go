package console

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ErrorSuffix is appended to the title of a report produced by a failed action.
const ErrorSuffix = " (ERROR)"

// Report is the single renderable result of one console action.
type Report struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Failed    bool      `json:"failed" yaml:"failed"`
	// Payload is an *api.Outcome, an ErrorPayload, raw text, or whatever
	// value the action returned.
	Payload any `json:"payload" yaml:"payload"`
}

// ErrorPayload is the payload for failures that carry only a message:
// transport failures, precondition errors and unexpected errors.
type ErrorPayload struct {
	Error string `json:"error" yaml:"error"`
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// newReportID returns a ULID so that report ids sort by creation time.
func newReportID(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}
