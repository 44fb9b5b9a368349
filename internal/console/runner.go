package console

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/thruflo/stackconsole/internal/api"
	"github.com/thruflo/stackconsole/internal/logging"
)

// Operation is the body of a console action. It returns the value to report.
type Operation func(ctx context.Context) (any, error)

// Renderer displays reports.
type Renderer interface {
	Render(r *Report) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(r *Report) error

// Render calls f(r).
func (f RendererFunc) Render(r *Report) error {
	return f(r)
}

// Runner executes operations and turns every result into exactly one Report.
// It is the only place where action errors are caught.
type Runner struct {
	renderer Renderer
	logger   *logging.Logger
	now      func() time.Time
	newID    func(time.Time) string

	mu   sync.RWMutex
	last *Report
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRenderer sets where reports are emitted. Without one, reports are only
// returned and recorded.
func WithRenderer(renderer Renderer) RunnerOption {
	return func(r *Runner) {
		r.renderer = renderer
	}
}

// WithLogger sets the runner's logger.
func WithLogger(logger *logging.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithClock overrides the report timestamp source.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		r.now = now
	}
}

// WithIDFunc overrides report id generation.
func WithIDFunc(fn func(time.Time) string) RunnerOption {
	return func(r *Runner) {
		r.newID = fn
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		logger: logging.Default(),
		now:    time.Now,
		newID:  newReportID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes op and reports its result under title.
//
//   - success: payload is the returned value
//   - transport failure: title gets ErrorSuffix, payload is ErrorPayload
//   - application failure: title gets ErrorSuffix, payload is the Outcome
//   - any other error or panic: title gets ErrorSuffix, payload is ErrorPayload
//
// Once started an operation runs to completion: cancelling ctx does not
// abort it.
func (r *Runner) Run(ctx context.Context, title string, op Operation) *Report {
	payload, err := r.call(context.WithoutCancel(ctx), op)

	ts := r.now()
	report := &Report{
		ID:        r.newID(ts),
		Title:     title,
		Timestamp: ts,
		Payload:   payload,
	}

	if err != nil {
		report.Title = title + ErrorSuffix
		report.Failed = true
		report.Payload = failurePayload(err)
		r.logger.Warn("action failed", "title", title, "error", err)
	}

	r.mu.Lock()
	r.last = report
	r.mu.Unlock()

	if r.renderer != nil {
		if rerr := r.renderer.Render(report); rerr != nil {
			r.logger.Error("failed to render report", "title", report.Title, "error", rerr)
		}
	}

	return report
}

// Last returns the most recent report, or nil before the first Run.
func (r *Runner) Last() *Report {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

func (r *Runner) call(ctx context.Context, op Operation) (payload any, err error) {
	defer func() {
		if p := recover(); p != nil {
			payload = nil
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return op(ctx)
}

func failurePayload(err error) any {
	if f, ok := api.AsFailure(err); ok && f.Kind == api.FailureApplication && f.Outcome != nil {
		return f.Outcome
	}
	return ErrorPayload{Error: err.Error()}
}
