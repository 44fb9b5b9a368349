// Package session holds the console's active stack identifier.
//
// The identifier is written only by a successful create and read by every
// action that targets an existing stack. A Cell is an explicitly owned value
// so that each console (and each test) has its own independent state.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrStackIDRequired is returned when an action needs a stack identifier and
// none is available.
var ErrStackIDRequired = errors.New("stack_id is required")

// Store persists the active identifier outside the process.
type Store interface {
	Load() (string, error)
	Save(stackID string) error
}

// Cell is the active stack identifier. It is either unset or a non-blank
// string; it is never cleared once set. Safe for concurrent use; concurrent
// writers resolve last-write-wins.
type Cell struct {
	mu     sync.RWMutex
	active string
	store  Store
}

// NewCell returns an unset, in-memory Cell.
func NewCell() *Cell {
	return &Cell{}
}

// NewPersistentCell returns a Cell initialized from store that writes every
// update back to it.
func NewPersistentCell(store Store) (*Cell, error) {
	id, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &Cell{active: strings.TrimSpace(id), store: store}, nil
}

// Set makes stackID the active identifier. A blank stackID leaves the cell
// unchanged and returns false.
func (c *Cell) Set(stackID string) (bool, error) {
	stackID = strings.TrimSpace(stackID)
	if stackID == "" {
		return false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.active = stackID
	if c.store != nil {
		if err := c.store.Save(stackID); err != nil {
			return true, fmt.Errorf("failed to save session: %w", err)
		}
	}
	return true, nil
}

// Get returns the active identifier, or ErrStackIDRequired if none was ever set.
func (c *Cell) Get() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.active == "" {
		return "", ErrStackIDRequired
	}
	return c.active, nil
}

// Resolve picks the identifier an action should target. An explicit
// operator-supplied input wins; otherwise the active identifier is used.
// If both are blank, ErrStackIDRequired is returned.
func (c *Cell) Resolve(input string) (string, error) {
	if id := strings.TrimSpace(input); id != "" {
		return id, nil
	}
	return c.Get()
}

// Active returns the active identifier and whether one is set.
func (c *Cell) Active() (string, bool) {
	id, err := c.Get()
	return id, err == nil
}
