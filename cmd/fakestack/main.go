// Standalone in-memory stack service for trying the console locally.
// Run with: go run ./cmd/fakestack
// Then: go run ./cmd/stackconsole serve
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thruflo/stackconsole/internal/fakestack"
	"github.com/thruflo/stackconsole/internal/logging"
)

func main() {
	addr := flag.String("addr", ":8081", "listen address")
	seed := flag.Int("seed", 0, "number of stacks to create at startup")
	flag.Parse()

	logger := logging.Default()
	logger.SetLevel(logging.LevelInfo)

	api := fakestack.New()
	for i := 1; i <= *seed; i++ {
		api.Seed(fmt.Sprintf("seed-%d", i), 80)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           logRequests(logger, api.Handler()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		fmt.Println("\nShutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	fmt.Printf("Fake stack API running on http://localhost%s\n", *addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
		os.Exit(1)
	}
}

func logRequests(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info("request", "method", r.Method, "path", r.URL.Path, "request_id", r.Header.Get("X-Request-Id"))
		next.ServeHTTP(w, r)
	})
}
