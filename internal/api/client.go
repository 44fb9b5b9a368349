// Package api is the transport layer for the remote stack-management
// service. Every call performs exactly one HTTP exchange and normalizes the
// result into an *Outcome (2xx) or a *Failure (everything else).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/thruflo/stackconsole/internal/logging"
)

// HeaderRequestID carries a per-exchange correlation id.
const HeaderRequestID = "X-Request-Id"

// ErrUnsupportedMethod is wrapped in a transport failure when Invoke is
// given a verb outside the supported set.
var ErrUnsupportedMethod = errors.New("unsupported method")

var supportedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// Client issues requests against a base URL.
type Client struct {
	// baseURL is a plain string prefix, e.g. "http://localhost:8081"
	baseURL string

	httpClient *http.Client
	logger     *logging.Logger

	// newRequestID generates the X-Request-Id value
	newRequestID func() string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithLogger sets the logger used for per-exchange debug output.
func WithLogger(logger *logging.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRequestIDFunc overrides how correlation ids are generated.
func WithRequestIDFunc(fn func() string) ClientOption {
	return func(c *Client) {
		c.newRequestID = fn
	}
}

// NewClient creates a Client for the given base URL. Trailing slashes are
// trimmed so that paths can always start with "/".
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{
			Timeout: 0, // single attempt, transport defaults only
		},
		logger:       logging.Default(),
		newRequestID: uuid.NewString,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Invoke performs one exchange. When body is non-nil it is sent as JSON.
//
// A completed exchange with a 2xx status returns its Outcome. A completed
// exchange with any other status returns an application *Failure holding the
// Outcome. If the exchange cannot complete, a transport *Failure is returned.
func (c *Client) Invoke(ctx context.Context, method, path string, body any) (*Outcome, error) {
	method = strings.ToUpper(method)
	url := c.baseURL + path

	if !supportedMethods[method] {
		return nil, transportFailure(fmt.Errorf("%w: %q", ErrUnsupportedMethod, method))
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, transportFailure(fmt.Errorf("failed to encode request body: %w", err))
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, transportFailure(fmt.Errorf("failed to create request: %w", err))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	requestID := c.newRequestID()
	req.Header.Set(HeaderRequestID, requestID)

	log := c.logger.WithFields(map[string]interface{}{
		"method":     method,
		"url":        url,
		"request_id": requestID,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug("exchange failed", "error", err)
		return nil, transportFailure(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Debug("failed to read response body", "status", resp.StatusCode, "error", err)
		return nil, transportFailure(fmt.Errorf("failed to read response body: %w", err))
	}

	outcome := &Outcome{
		Method: method,
		URL:    url,
		Status: resp.StatusCode,
		OK:     Succeeded(resp.StatusCode),
		Body:   DecodeBody(raw),
	}
	log.Debug("exchange completed", "status", resp.StatusCode, "bytes", len(raw))

	if !outcome.OK {
		return nil, applicationFailure(outcome)
	}

	return outcome, nil
}
