// Package testutil provides shared test helpers for stackconsole.
//
// # Fake remote API
//
// StackAPI (an alias of fakestack.API) is an in-memory implementation of the
// remote stack-management service. StartStackAPI(t) runs it behind an httptest
// server and returns its base URL; Requests() lists every request it saw,
// which lets tests assert that a precondition failure made no call at all.
//
// # Fixtures and environment
//
//   - SamplePodSpec - a small pod document
//   - SetupTestDir(t) - temp dir with a .stackconsole directory
//   - WriteTestFile(t, base, path, content) - writes a file in a test dir
//   - MustUnmarshalJSON(t, data) - decodes JSON or fails the test
//
// # Timeouts
//
//   - ContextWithTestDeadline(t, fallback) - context ending before the test deadline
//   - ExchangeContext(t) - context for one HTTP exchange
package testutil
