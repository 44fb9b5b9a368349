// Package server provides the browser console: a small web server that
// serves the embedded page and runs stack actions on its behalf.
//
// The page never talks to the stack-management service directly. It posts
// its inputs to the server, which runs the action through the same
// console.Actions the CLI uses and answers with the resulting Report. The
// active stack therefore lives in the server process and is shared by every
// open page.
//
// # Endpoints
//
//   - GET /healthz - liveness of the console itself
//   - GET /api/console - configured base URL, create defaults and the active stack
//   - POST /api/actions/{action} - run health, list, stats, create, get, status or delete
//   - GET / - embedded web assets
//
// Action requests are rate limited per client IP.
package server
