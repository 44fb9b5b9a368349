package console

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thruflo/stackconsole/internal/api"
	"github.com/thruflo/stackconsole/internal/logging"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

var fixedTime = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

// recorder collects rendered reports.
type recorder struct {
	reports []*Report
}

func (r *recorder) Render(rep *Report) error {
	r.reports = append(r.reports, rep)
	return nil
}

func newTestRunner(rec *recorder, opts ...RunnerOption) *Runner {
	logger := logging.New()
	logger.SetOutput(log.New(&bytes.Buffer{}, "", 0))

	base := []RunnerOption{
		WithRenderer(rec),
		WithLogger(logger),
		WithClock(func() time.Time { return fixedTime }),
	}
	return NewRunner(append(base, opts...)...)
}

func TestRunSuccess(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	runner := newTestRunner(rec)

	report := runner.Run(context.Background(), "GET /healthz", func(ctx context.Context) (any, error) {
		return map[string]any{"status": "ok"}, nil
	})

	require.Len(t, rec.reports, 1)
	assert.Same(t, report, rec.reports[0])
	assert.Equal(t, "GET /healthz", report.Title)
	assert.False(t, report.Failed)
	assert.Equal(t, fixedTime, report.Timestamp)
	assert.Equal(t, map[string]any{"status": "ok"}, report.Payload)
	assert.Same(t, report, runner.Last())
}

func TestRunTransportFailure(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	runner := newTestRunner(rec)

	failure := &api.Failure{Kind: api.FailureTransport, Message: "dial tcp: connection refused"}
	report := runner.Run(context.Background(), "GET /stacks", func(ctx context.Context) (any, error) {
		return nil, failure
	})

	require.Len(t, rec.reports, 1)
	assert.Equal(t, "GET /stacks (ERROR)", report.Title)
	assert.True(t, report.Failed)
	assert.Equal(t, ErrorPayload{Error: "dial tcp: connection refused"}, report.Payload)
}

func TestRunApplicationFailure(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	runner := newTestRunner(rec)

	outcome := &api.Outcome{
		Method: http.MethodDelete,
		URL:    "http://api/stacks/abc123",
		Status: http.StatusNotFound,
		Body:   map[string]any{"message": "not found"},
	}
	report := runner.Run(context.Background(), "DELETE /stacks/{stack_id}", func(ctx context.Context) (any, error) {
		return nil, &api.Failure{Kind: api.FailureApplication, Outcome: outcome}
	})

	assert.Equal(t, "DELETE /stacks/{stack_id} (ERROR)", report.Title)
	assert.Same(t, outcome, report.Payload)
}

func TestRunWrappedFailureIsStillRecognized(t *testing.T) {
	t.Parallel()

	runner := newTestRunner(&recorder{})
	outcome := &api.Outcome{Status: http.StatusConflict}

	report := runner.Run(context.Background(), "POST /stacks", func(ctx context.Context) (any, error) {
		return nil, errors.Join(errors.New("context"), &api.Failure{Kind: api.FailureApplication, Outcome: outcome})
	})

	assert.Same(t, outcome, report.Payload)
}

func TestRunOtherErrors(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	runner := newTestRunner(rec)

	report := runner.Run(context.Background(), "GET /stacks/{stack_id}", func(ctx context.Context) (any, error) {
		return nil, errors.New("stack_id is required")
	})
	assert.Equal(t, "GET /stacks/{stack_id} (ERROR)", report.Title)
	assert.Equal(t, ErrorPayload{Error: "stack_id is required"}, report.Payload)

	report = runner.Run(context.Background(), "GET /stats", func(ctx context.Context) (any, error) {
		panic("boom")
	})
	assert.Equal(t, "GET /stats (ERROR)", report.Title)
	assert.Equal(t, ErrorPayload{Error: "panic: boom"}, report.Payload)

	assert.Len(t, rec.reports, 2, "exactly one report per run")
}

func TestRunRendererErrorStillReturnsReport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.New()
	logger.SetOutput(log.New(&buf, "", 0))

	runner := NewRunner(
		WithLogger(logger),
		WithRenderer(RendererFunc(func(*Report) error { return errors.New("closed pipe") })),
	)

	report := runner.Run(context.Background(), "GET /healthz", func(ctx context.Context) (any, error) {
		return "pong", nil
	})
	require.NotNil(t, report)
	assert.Equal(t, "pong", report.Payload)
	assert.Contains(t, buf.String(), "failed to render report")
}

func TestRunWithoutRenderer(t *testing.T) {
	t.Parallel()

	runner := NewRunner()
	assert.Nil(t, runner.Last())

	report := runner.Run(context.Background(), "GET /healthz", func(ctx context.Context) (any, error) {
		return nil, nil
	})
	assert.Same(t, report, runner.Last())
}

func TestReportIDs(t *testing.T) {
	t.Parallel()

	runner := NewRunner()
	first := runner.Run(context.Background(), "a", func(context.Context) (any, error) { return nil, nil })
	second := runner.Run(context.Background(), "b", func(context.Context) (any, error) { return nil, nil })

	_, err := ulid.ParseStrict(first.ID)
	require.NoError(t, err)
	assert.Less(t, first.ID, second.ID, "ids sort by creation order")

	custom := NewRunner(WithIDFunc(func(time.Time) string { return "r-1" }))
	assert.Equal(t, "r-1", custom.Run(context.Background(), "c", func(context.Context) (any, error) { return nil, nil }).ID)
}
