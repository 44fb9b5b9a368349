// Package fakestack is an in-memory stand-in for the remote
// stack-management service. It backs the console's tests and the fakestack
// command used for local runs.
package fakestack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"
)

// RecordedRequest is a request observed by API.
type RecordedRequest struct {
	Method      string
	Path        string
	ContentType string
	RequestID   string
	Body        string
}

// API implements every endpoint the console calls and records each request
// so callers can assert on what was (or was not) sent.
type API struct {
	mu       sync.Mutex
	stacks   map[string]map[string]any
	requests []RecordedRequest
	seq      int

	// NextID generates stack ids. Defaults to "stack-<n>".
	NextID func(seq int) string
}

// New creates an empty API.
func New() *API {
	return &API{
		stacks: make(map[string]map[string]any),
		NextID: func(seq int) string { return fmt.Sprintf("stack-%d", seq) },
	}
}

// Requests returns a copy of the recorded requests.
func (a *API) Requests() []RecordedRequest {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]RecordedRequest, len(a.requests))
	copy(out, a.requests)
	return out
}

// Seed stores a stack directly, bypassing POST /stacks.
func (a *API) Seed(stackID string, targetPort int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stacks[stackID] = newStack(stackID, targetPort)
}

// Handler returns the HTTP handler implementing the remote API.
func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", a.handleHealth)
	mux.HandleFunc("GET /stacks", a.handleList)
	mux.HandleFunc("POST /stacks", a.handleCreate)
	mux.HandleFunc("GET /stats", a.handleStats)
	mux.HandleFunc("GET /stacks/{stack_id}", a.handleGet)
	mux.HandleFunc("GET /stacks/{stack_id}/status", a.handleStatus)
	mux.HandleFunc("DELETE /stacks/{stack_id}", a.handleDelete)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		a.mu.Lock()
		a.requests = append(a.requests, RecordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			ContentType: r.Header.Get("Content-Type"),
			RequestID:   r.Header.Get("X-Request-Id"),
			Body:        string(body),
		})
		a.mu.Unlock()

		r.Body = io.NopCloser(bytes.NewReader(body))
		mux.ServeHTTP(w, r)
	})
}

func newStack(stackID string, targetPort int) map[string]any {
	return map[string]any{
		"stack_id":    stackID,
		"target_port": targetPort,
		"status":      "running",
		"created_at":  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339),
	}
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (a *API) handleList(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	ids := make([]string, 0, len(a.stacks))
	for id := range a.stacks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	items := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		items = append(items, a.stacks[id])
	}
	a.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"stacks": items})
}

func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	total := len(a.stacks)
	a.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"total_stacks": total})
}

func (a *API) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TargetPort int    `json:"target_port"`
		PodSpec    string `json:"pod_spec"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json body"})
		return
	}
	if req.TargetPort <= 0 || req.TargetPort > 65535 || req.PodSpec == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid input"})
		return
	}

	a.mu.Lock()
	a.seq++
	id := a.NextID(a.seq)
	st := newStack(id, req.TargetPort)
	a.stacks[id] = st
	a.mu.Unlock()

	writeJSON(w, http.StatusCreated, st)
}

func (a *API) lookup(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	id := r.PathValue("stack_id")

	a.mu.Lock()
	st, ok := a.stacks[id]
	a.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "stack not found"})
	}
	return st, ok
}

func (a *API) handleGet(w http.ResponseWriter, r *http.Request) {
	if st, ok := a.lookup(w, r); ok {
		writeJSON(w, http.StatusOK, st)
	}
}

func (a *API) handleStatus(w http.ResponseWriter, r *http.Request) {
	if st, ok := a.lookup(w, r); ok {
		writeJSON(w, http.StatusOK, map[string]any{
			"stack_id": st["stack_id"],
			"status":   st["status"],
		})
	}
}

func (a *API) handleDelete(w http.ResponseWriter, r *http.Request) {
	st, ok := a.lookup(w, r)
	if !ok {
		return
	}

	id, _ := st["stack_id"].(string)
	a.mu.Lock()
	delete(a.stacks, id)
	a.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"deleted": true, "stack_id": id})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
