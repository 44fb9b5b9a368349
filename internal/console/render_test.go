package console

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thruflo/stackconsole/internal/api"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatJSON, false},
		{"json", FormatJSON, false},
		{" YAML ", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatHeader(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 10, 17, 11, 30, 5, 123_000_000, time.FixedZone("CEST", 2*60*60))
	header := FormatHeader(&Report{Title: "GET /stats", Timestamp: ts})
	assert.Equal(t, "[2026-10-17T09:30:05.123Z] GET /stats", header)
}

func TestFormatPayload(t *testing.T) {
	t.Parallel()

	t.Run("strings are verbatim", func(t *testing.T) {
		t.Parallel()

		got, err := FormatPayload("<html>bad gateway</html>", FormatJSON)
		require.NoError(t, err)
		assert.Equal(t, "<html>bad gateway</html>", got)
	})

	t.Run("json is indented and not html escaped", func(t *testing.T) {
		t.Parallel()

		got, err := FormatPayload(map[string]any{"pod_spec": "<a>", "port": 80}, FormatJSON)
		require.NoError(t, err)
		assert.Equal(t, "{\n  \"pod_spec\": \"<a>\",\n  \"port\": 80\n}\n", got)
	})

	t.Run("outcome as json", func(t *testing.T) {
		t.Parallel()

		got, err := FormatPayload(&api.Outcome{
			Method: "DELETE",
			URL:    "http://api/stacks/abc123",
			Status: 404,
			Body:   map[string]any{"message": "not found"},
		}, FormatJSON)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"method": "DELETE",
			"url": "http://api/stacks/abc123",
			"status": 404,
			"ok": false,
			"body": {"message": "not found"}
		}`, got)
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()

		got, err := FormatPayload(ErrorPayload{Error: "stack_id is required"}, FormatYAML)
		require.NoError(t, err)
		assert.Equal(t, "error: stack_id is required\n", got)
	})

	t.Run("unencodable", func(t *testing.T) {
		t.Parallel()

		_, err := FormatPayload(map[string]any{"c": make(chan int)}, FormatJSON)
		assert.Error(t, err)
	})
}

func TestTextRendererUnstyled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewTextRenderer(&buf, "", false)

	err := r.Render(&Report{
		Title:     "GET /stacks/{stack_id}" + ErrorSuffix,
		Timestamp: fixedTime,
		Failed:    true,
		Payload:   ErrorPayload{Error: "stack_id is required"},
	})
	require.NoError(t, err)

	assert.Equal(t,
		"[2026-10-17T09:30:00.000Z] GET /stacks/{stack_id} (ERROR)\n\n"+
			"{\n  \"error\": \"stack_id is required\"\n}\n\n",
		buf.String())
}

func TestTextRendererStyledKeepsContent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewTextRenderer(&buf, FormatYAML, true)

	require.NoError(t, r.Render(&Report{Title: "GET /healthz", Timestamp: fixedTime, Payload: "ok"}))
	assert.Contains(t, buf.String(), "GET /healthz")
	assert.Contains(t, buf.String(), "2026-10-17T09:30:00.000Z")
	assert.Contains(t, buf.String(), "\n\nok\n\n")
}

func TestTextRendererStyledWritesColorToAnyWriter(t *testing.T) {
	t.Parallel()

	report := &Report{Title: "GET /stats" + ErrorSuffix, Timestamp: fixedTime, Failed: true, Payload: "x"}

	var styled bytes.Buffer
	require.NoError(t, NewTextRenderer(&styled, FormatJSON, true).Render(report))
	assert.Contains(t, styled.String(), "\x1b[", "colors are forced for a non-terminal writer")

	var plain bytes.Buffer
	require.NoError(t, NewTextRenderer(&plain, FormatJSON, false).Render(report))
	assert.NotContains(t, plain.String(), "\x1b[")
}
