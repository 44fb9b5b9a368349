package api

import (
	"context"
	"net/http"
	"net/url"
)

// CreateStackRequest is the POST /stacks request body. PodSpec is an opaque
// workload document passed through unmodified.
type CreateStackRequest struct {
	TargetPort int    `json:"target_port"`
	PodSpec    string `json:"pod_spec"`
	UserID     int64  `json:"user_id,omitempty"`
	ProblemID  int64  `json:"problem_id,omitempty"`
}

// StackPath returns the resource path for a stack, with optional suffix
// segments such as "status".
func StackPath(stackID string, suffix ...string) string {
	p := "/stacks/" + url.PathEscape(stackID)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

// Health calls GET /healthz.
func (c *Client) Health(ctx context.Context) (*Outcome, error) {
	return c.Invoke(ctx, http.MethodGet, "/healthz", nil)
}

// ListStacks calls GET /stacks.
func (c *Client) ListStacks(ctx context.Context) (*Outcome, error) {
	return c.Invoke(ctx, http.MethodGet, "/stacks", nil)
}

// Stats calls GET /stats.
func (c *Client) Stats(ctx context.Context) (*Outcome, error) {
	return c.Invoke(ctx, http.MethodGet, "/stats", nil)
}

// CreateStack calls POST /stacks.
func (c *Client) CreateStack(ctx context.Context, req CreateStackRequest) (*Outcome, error) {
	return c.Invoke(ctx, http.MethodPost, "/stacks", req)
}

// GetStack calls GET /stacks/{stack_id}.
func (c *Client) GetStack(ctx context.Context, stackID string) (*Outcome, error) {
	return c.Invoke(ctx, http.MethodGet, StackPath(stackID), nil)
}

// StackStatus calls GET /stacks/{stack_id}/status.
func (c *Client) StackStatus(ctx context.Context, stackID string) (*Outcome, error) {
	return c.Invoke(ctx, http.MethodGet, StackPath(stackID, "status"), nil)
}

// DeleteStack calls DELETE /stacks/{stack_id}.
func (c *Client) DeleteStack(ctx context.Context, stackID string) (*Outcome, error) {
	return c.Invoke(ctx, http.MethodDelete, StackPath(stackID), nil)
}

// StackIDFrom extracts the stack_id string from a create Outcome body.
// It returns "" when the body is not an object or the field is missing,
// empty or not a string.
func StackIDFrom(o *Outcome) string {
	if o == nil {
		return ""
	}
	body, ok := o.Body.(map[string]any)
	if !ok {
		return ""
	}
	id, _ := body["stack_id"].(string)
	return id
}
