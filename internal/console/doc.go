// Package console runs operator actions against the stack-management API
// and reduces each one to a single Report.
//
// A Runner executes an Operation and catches every error it produces:
// transport failures and precondition errors become an ErrorPayload, and
// application failures (non-2xx responses) keep their full api.Outcome so
// the status and body remain visible. Actions wires the seven console
// actions to an api.Client and a session.Cell; only a successful create
// writes the cell.
package console
