package console

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/thruflo/stackconsole/internal/api"
	"github.com/thruflo/stackconsole/internal/logging"
	"github.com/thruflo/stackconsole/internal/session"
)

// Report titles, one per console action.
const (
	TitleHealth      = "GET /healthz"
	TitleListStacks  = "GET /stacks"
	TitleStats       = "GET /stats"
	TitleCreateStack = "POST /stacks"
	TitleGetStack    = "GET /stacks/{stack_id}"
	TitleStackStatus = "GET /stacks/{stack_id}/status"
	TitleDeleteStack = "DELETE /stacks/{stack_id}"
)

// Action names accepted by Dispatch.
const (
	ActionHealth = "health"
	ActionList   = "list"
	ActionStats  = "stats"
	ActionCreate = "create"
	ActionGet    = "get"
	ActionStatus = "status"
	ActionDelete = "delete"
)

// ActionNames lists every action in display order.
var ActionNames = []string{
	ActionHealth, ActionList, ActionStats, ActionCreate, ActionGet, ActionStatus, ActionDelete,
}

// ErrUnknownAction is returned by Dispatch for names outside ActionNames.
var ErrUnknownAction = errors.New("unknown action")

// CreateInput holds the operator's create-stack inputs.
type CreateInput struct {
	TargetPort int
	PodSpec    string
	UserID     int64
	ProblemID  int64
}

// Input is the union of inputs any action may need.
type Input struct {
	// StackID is the operator-typed identifier; blank means "use the active one".
	StackID string
	Create  CreateInput
}

// Actions binds the console actions to a client, a session cell and a runner.
type Actions struct {
	client *api.Client
	cell   *session.Cell
	runner *Runner
	logger *logging.Logger
}

// NewActions creates Actions.
func NewActions(client *api.Client, cell *session.Cell, runner *Runner) *Actions {
	return &Actions{
		client: client,
		cell:   cell,
		runner: runner,
		logger: runner.logger,
	}
}

// WithClient returns a copy of a that targets a different client while
// sharing the same session cell and runner.
func (a *Actions) WithClient(client *api.Client) *Actions {
	cp := *a
	cp.client = client
	return &cp
}

// Client returns the client actions are issued through.
func (a *Actions) Client() *api.Client {
	return a.client
}

// Session returns the shared session cell.
func (a *Actions) Session() *session.Cell {
	return a.cell
}

// Runner returns the shared runner.
func (a *Actions) Runner() *Runner {
	return a.runner
}

// Health reports GET /healthz.
func (a *Actions) Health(ctx context.Context) *Report {
	return a.runner.Run(ctx, TitleHealth, func(ctx context.Context) (any, error) {
		return outcome(a.client.Health(ctx))
	})
}

// ListStacks reports GET /stacks.
func (a *Actions) ListStacks(ctx context.Context) *Report {
	return a.runner.Run(ctx, TitleListStacks, func(ctx context.Context) (any, error) {
		return outcome(a.client.ListStacks(ctx))
	})
}

// Stats reports GET /stats.
func (a *Actions) Stats(ctx context.Context) *Report {
	return a.runner.Run(ctx, TitleStats, func(ctx context.Context) (any, error) {
		return outcome(a.client.Stats(ctx))
	})
}

// CreateStack reports POST /stacks. On success the returned stack_id, if
// any, becomes the active identifier.
func (a *Actions) CreateStack(ctx context.Context, in CreateInput) *Report {
	return a.runner.Run(ctx, TitleCreateStack, func(ctx context.Context) (any, error) {
		o, err := a.client.CreateStack(ctx, api.CreateStackRequest{
			TargetPort: in.TargetPort,
			PodSpec:    in.PodSpec,
			UserID:     in.UserID,
			ProblemID:  in.ProblemID,
		})
		if err != nil {
			return nil, err
		}

		if _, err := a.cell.Set(api.StackIDFrom(o)); err != nil {
			// the stack exists remotely; only the local copy of its id is lost
			a.logger.Warn("failed to persist active stack", "error", err)
		}
		return o, nil
	})
}

// GetStack reports GET /stacks/{stack_id}.
func (a *Actions) GetStack(ctx context.Context, stackID string) *Report {
	return a.runner.Run(ctx, TitleGetStack, func(ctx context.Context) (any, error) {
		id, err := a.cell.Resolve(stackID)
		if err != nil {
			return nil, err
		}
		return outcome(a.client.GetStack(ctx, id))
	})
}

// StackStatus reports GET /stacks/{stack_id}/status.
func (a *Actions) StackStatus(ctx context.Context, stackID string) *Report {
	return a.runner.Run(ctx, TitleStackStatus, func(ctx context.Context) (any, error) {
		id, err := a.cell.Resolve(stackID)
		if err != nil {
			return nil, err
		}
		return outcome(a.client.StackStatus(ctx, id))
	})
}

// DeleteStack reports DELETE /stacks/{stack_id}. The active identifier is
// left as is after a successful delete.
func (a *Actions) DeleteStack(ctx context.Context, stackID string) *Report {
	return a.runner.Run(ctx, TitleDeleteStack, func(ctx context.Context) (any, error) {
		id, err := a.cell.Resolve(stackID)
		if err != nil {
			return nil, err
		}
		return outcome(a.client.DeleteStack(ctx, id))
	})
}

// Dispatch runs the action called name.
func (a *Actions) Dispatch(ctx context.Context, name string, in Input) (*Report, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ActionHealth:
		return a.Health(ctx), nil
	case ActionList:
		return a.ListStacks(ctx), nil
	case ActionStats:
		return a.Stats(ctx), nil
	case ActionCreate:
		return a.CreateStack(ctx, in.Create), nil
	case ActionGet:
		return a.GetStack(ctx, in.StackID), nil
	case ActionStatus:
		return a.StackStatus(ctx, in.StackID), nil
	case ActionDelete:
		return a.DeleteStack(ctx, in.StackID), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
}

// outcome drops the typed nil so a failed call never yields a non-nil payload.
func outcome(o *api.Outcome, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return o, nil
}
