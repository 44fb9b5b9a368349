package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimitConfig bounds how many actions one client may run.
type RateLimitConfig struct {
	MaxRequests int           // Maximum actions per window (default: 120)
	Window      time.Duration // Sliding window length (default: 1 minute)
}

// DefaultRateLimitConfig returns the default rate limiting configuration.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxRequests: 120,
		Window:      time.Minute,
	}
}

// rateLimiter implements a per-IP sliding window.
type rateLimiter struct {
	mu     sync.Mutex
	config RateLimitConfig
	now    func() time.Time

	// requests tracks timestamps of requests per IP
	requests map[string][]time.Time
}

// newRateLimiter creates a rate limiter, filling unset fields with defaults.
func newRateLimiter(config RateLimitConfig) *rateLimiter {
	defaults := DefaultRateLimitConfig()
	if config.MaxRequests <= 0 {
		config.MaxRequests = defaults.MaxRequests
	}
	if config.Window <= 0 {
		config.Window = defaults.Window
	}

	return &rateLimiter{
		config:   config,
		now:      time.Now,
		requests: make(map[string][]time.Time),
	}
}

// checkResult represents the result of a rate limit check.
type checkResult struct {
	Allowed    bool
	RetryAfter time.Duration // How long until the client can retry
}

// check records a request from ip if it is within the limit.
func (rl *rateLimiter) check(ip string) checkResult {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	recent := rl.prune(ip, now)

	if len(recent) >= rl.config.MaxRequests {
		// The oldest request in the window frees the next slot.
		retryAfter := recent[0].Add(rl.config.Window).Sub(now)
		if retryAfter <= 0 {
			retryAfter = time.Second
		}
		return checkResult{Allowed: false, RetryAfter: retryAfter}
	}

	rl.requests[ip] = append(recent, now)
	return checkResult{Allowed: true}
}

// prune drops timestamps outside the window. Caller holds mu.
func (rl *rateLimiter) prune(ip string, now time.Time) []time.Time {
	windowStart := now.Add(-rl.config.Window)
	timestamps := rl.requests[ip]

	valid := timestamps[:0]
	for _, ts := range timestamps {
		if ts.After(windowStart) {
			valid = append(valid, ts)
		}
	}
	if len(valid) == 0 {
		delete(rl.requests, ip)
		return nil
	}
	rl.requests[ip] = valid
	return valid
}

// cleanup removes expired entries. Called periodically by the server.
func (rl *rateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for ip := range rl.requests {
		rl.prune(ip, now)
	}
}

// retryAfterSeconds rounds d up to whole seconds for the Retry-After header.
func retryAfterSeconds(d time.Duration) int {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}

// extractIP extracts the client IP from the request.
// It checks X-Forwarded-For and X-Real-IP headers first (for reverse proxy scenarios),
// then falls back to the remote address.
func extractIP(r *http.Request) string {
	// X-Forwarded-For can be "client, proxy1, proxy2"
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr might not have a port
		return r.RemoteAddr
	}
	return ip
}
