package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/thruflo/stackconsole/internal/api"
	"github.com/thruflo/stackconsole/internal/config"
	"github.com/thruflo/stackconsole/internal/console"
	"github.com/thruflo/stackconsole/internal/logging"
)

// maxActionBody caps the size of an action request; pod specs are small.
const maxActionBody = 1 << 20

// Server serves the browser console and runs actions on its behalf.
type Server struct {
	port              int
	actions           *console.Actions
	assets            fs.FS
	defaultPodSpec    string
	defaultTargetPort int
	newClient         func(baseURL string) *api.Client
	limiter           *rateLimiter
	logger            *logging.Logger

	// HTTP server
	mu       sync.RWMutex
	server   *http.Server
	listener net.Listener
	done     chan struct{}

	// Lifecycle
	started bool
}

// Config holds server configuration options.
type Config struct {
	Port int

	// Actions runs every console action. Its session cell is the one
	// reported as the active stack.
	Actions *console.Actions

	// Assets is the browser console. When nil only the JSON endpoints are
	// served.
	Assets fs.FS

	DefaultPodSpec    string
	DefaultTargetPort int

	// NewClient builds a client for a base URL supplied with a request.
	// Defaults to api.NewClient.
	NewClient func(baseURL string) *api.Client

	RateLimit RateLimitConfig
	Logger    *logging.Logger
}

// NewServer creates a new Server instance.
func NewServer(cfg *Config) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if cfg.Actions == nil {
		return nil, errors.New("actions are required")
	}

	s := &Server{
		port:              cfg.Port,
		actions:           cfg.Actions,
		assets:            cfg.Assets,
		defaultPodSpec:    cfg.DefaultPodSpec,
		defaultTargetPort: cfg.DefaultTargetPort,
		newClient:         cfg.NewClient,
		limiter:           newRateLimiter(cfg.RateLimit),
		logger:            cfg.Logger,
	}
	if s.defaultPodSpec == "" {
		s.defaultPodSpec = console.DefaultPodSpec
	}
	if s.defaultTargetPort == 0 {
		s.defaultTargetPort = console.DefaultTargetPort
	}
	if s.logger == nil {
		s.logger = logging.Default()
	}
	if s.newClient == nil {
		logger := s.logger
		s.newClient = func(baseURL string) *api.Client {
			return api.NewClient(baseURL, api.WithLogger(logger))
		}
	}
	return s, nil
}

// NewServerFromConfig creates a Server from the loaded configuration.
func NewServerFromConfig(cfg *config.Config, actions *console.Actions, assets fs.FS, podSpec string, logger *logging.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server config is required")
	}
	return NewServer(&Config{
		Port:              cfg.Server.Port,
		Actions:           actions,
		Assets:            assets,
		DefaultPodSpec:    podSpec,
		DefaultTargetPort: cfg.Create.TargetPort,
		Logger:            logger,
	})
}

// Port returns the configured port.
func (s *Server) Port() int {
	return s.port
}

// Start starts the HTTP server.
// The server runs until ctx is cancelled or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.New("server already started")
	}

	addr := fmt.Sprintf(":%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}
	s.done = make(chan struct{})
	s.started = true
	done := s.done
	s.mu.Unlock()

	go s.watch(ctx, done)

	s.logger.Info("console server listening", "addr", listener.Addr().String())

	// Run server (blocks until error or server closed)
	err = s.server.Serve(listener)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// watch stops the server when ctx ends and prunes the rate limiter until
// then.
func (s *Server) watch(ctx context.Context, done <-chan struct{}) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := s.Stop(); err != nil {
				s.logger.Error("failed to stop console server", "error", err)
			}
			return
		case <-done:
			return
		case <-ticker.C:
			s.limiter.cleanup()
		}
	}
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || s.server == nil {
		return nil
	}

	close(s.done)
	s.started = false

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	s.logger.Info("console server stopped")
	return nil
}

// ListenAddr returns the actual address the server is listening on.
// Useful when port 0 is used to get an available port.
// Returns empty string if not started.
func (s *Server) ListenAddr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/console", s.handleConsole)
	mux.HandleFunc("POST /api/actions/{action}", s.withRateLimit(s.handleAction))
	// GET patterns below would otherwise fall through to the assets.
	mux.HandleFunc("GET /api/actions/{action}", s.handleActionMethod)
	mux.HandleFunc("GET /api/", s.handleAPINotFound)
	if s.assets != nil {
		mux.Handle("GET /", http.FileServerFS(s.assets))
	}
	return mux
}

// ConsoleState is the body of GET /api/console.
type ConsoleState struct {
	BaseURL           string `json:"base_url"`
	DefaultPodSpec    string `json:"default_pod_spec"`
	DefaultTargetPort int    `json:"default_target_port"`
	ActiveStackID     string `json:"active_stack_id,omitempty"`
}

// ActionRequest is the body of POST /api/actions/{action}. Absent fields
// fall back to the console defaults.
type ActionRequest struct {
	BaseURL    string  `json:"base_url,omitempty"`
	StackID    string  `json:"stack_id,omitempty"`
	TargetPort *int    `json:"target_port,omitempty"`
	PodSpec    *string `json:"pod_spec,omitempty"`
	UserID     int64   `json:"user_id,omitempty"`
	ProblemID  int64   `json:"problem_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleConsole(w http.ResponseWriter, r *http.Request) {
	active, _ := s.actions.Session().Active()
	writeJSON(w, http.StatusOK, ConsoleState{
		BaseURL:           s.actions.Client().BaseURL(),
		DefaultPodSpec:    s.defaultPodSpec,
		DefaultTargetPort: s.defaultTargetPort,
		ActiveStackID:     active,
	})
}

func (s *Server) handleActionMethod(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", http.MethodPost)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func (s *Server) handleAPINotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

// handleAction runs one action and responds with its Report. Failed
// actions are still 200: the failure is in the report.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("action")
	if !isAction(name) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown action %q", name))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxActionBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	var req ActionRequest
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
	}

	actions := s.actions
	if base := strings.TrimSpace(req.BaseURL); base != "" && base != actions.Client().BaseURL() {
		actions = actions.WithClient(s.newClient(base))
	}

	report, err := actions.Dispatch(r.Context(), name, s.input(req))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (s *Server) input(req ActionRequest) console.Input {
	in := console.Input{
		StackID: req.StackID,
		Create: console.CreateInput{
			TargetPort: s.defaultTargetPort,
			PodSpec:    s.defaultPodSpec,
			UserID:     req.UserID,
			ProblemID:  req.ProblemID,
		},
	}
	if req.TargetPort != nil {
		in.Create.TargetPort = *req.TargetPort
	}
	if req.PodSpec != nil {
		in.Create.PodSpec = *req.PodSpec
	}
	return in
}

func isAction(name string) bool {
	for _, a := range console.ActionNames {
		if a == name {
			return true
		}
	}
	return false
}

// withRateLimit rejects clients that exceed the action rate.
func (s *Server) withRateLimit(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r)
		result := s.limiter.check(ip)
		if !result.Allowed {
			s.logger.Warn("action rate limited", "ip", ip, "retry_after", result.RetryAfter)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(result.RetryAfter)))
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		handler(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
