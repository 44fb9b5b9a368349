package testutil

import (
	"net/http/httptest"
	"testing"

	"github.com/thruflo/stackconsole/internal/fakestack"
)

// StackAPI is the in-memory stack service used by tests.
type StackAPI = fakestack.API

// RecordedRequest is a request observed by StackAPI.
type RecordedRequest = fakestack.RecordedRequest

// NewStackAPI creates an empty StackAPI.
func NewStackAPI() *StackAPI {
	return fakestack.New()
}

// StartStackAPI starts a StackAPI behind an httptest server that is closed
// when the test completes. It returns the API and the server's base URL.
func StartStackAPI(t *testing.T) (*StackAPI, string) {
	t.Helper()

	api := NewStackAPI()
	return api, Serve(t, api)
}

// Serve runs an already configured StackAPI behind an httptest server and
// returns the base URL. Configure NextID before calling Serve.
func Serve(t *testing.T, api *StackAPI) string {
	t.Helper()

	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}
