package console

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"
)

// Format selects how a report payload is serialized.
type Format string

// Supported payload formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want json or yaml)", s)
	}
}

// TimestampLayout is the report header timestamp: UTC with milliseconds.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// TextRenderer writes reports as
//
//	[<timestamp>] <title>
//
//	<payload>
//
// followed by a blank line. String payloads are written verbatim.
type TextRenderer struct {
	mu     sync.Mutex
	out    io.Writer
	format Format
	styled bool

	title       lipgloss.Style
	failedTitle lipgloss.Style
	timestamp   lipgloss.Style
}

// NewTextRenderer creates a TextRenderer. When styled is true the header is
// decorated with terminal colors whatever out is.
func NewTextRenderer(out io.Writer, format Format, styled bool) *TextRenderer {
	if format == "" {
		format = FormatJSON
	}

	lr := lipgloss.NewRenderer(out)
	if styled {
		lr.SetColorProfile(termenv.ANSI256)
	}

	return &TextRenderer{
		out:         out,
		format:      format,
		styled:      styled,
		title:       lr.NewStyle().Bold(true),
		failedTitle: lr.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		timestamp:   lr.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// Render writes one report.
func (t *TextRenderer) Render(r *Report) error {
	body, err := FormatPayload(r.Payload, t.format)
	if err != nil {
		return err
	}

	header := FormatHeader(r)
	if t.styled {
		title := t.title.Render(r.Title)
		if r.Failed {
			title = t.failedTitle.Render(r.Title)
		}
		header = t.timestamp.Render("["+r.Timestamp.UTC().Format(TimestampLayout)+"]") + " " + title
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	_, err = fmt.Fprintf(t.out, "%s\n\n%s\n\n", header, strings.TrimRight(body, "\n"))
	return err
}

// FormatPayload serializes a payload for display.
func FormatPayload(payload any, format Format) (string, error) {
	if s, ok := payload.(string); ok {
		return s, nil
	}

	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(payload)
		if err != nil {
			return "", fmt.Errorf("failed to encode payload as yaml: %w", err)
		}
		return string(data), nil
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(payload); err != nil {
			return "", fmt.Errorf("failed to encode payload as json: %w", err)
		}
		return buf.String(), nil
	}
}

// FormatHeader returns the unstyled report header line.
func FormatHeader(r *Report) string {
	return fmt.Sprintf("[%s] %s", r.Timestamp.UTC().Format(TimestampLayout), r.Title)
}
