package store

import (
	"context"
	"errors"
	"fmt"

	"todos/internal/models"
)

// ErrNotFound is returned when no todo exists with the requested id.
var ErrNotFound = errors.New("todo not found")

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Store defines the interface for todo storage operations.
//
// Every method is atomic with respect to the others: callers never observe
// a partially applied mutation.
type Store interface {
	ListTodos(ctx context.Context) ([]models.Todo, error)
	CreateTodo(ctx context.Context, task string) (*models.Todo, error)
	GetTodo(ctx context.Context, id string) (*models.Todo, error)
	// UpdateTodo replaces the task of the todo with the given id. An empty
	// task leaves the todo unchanged. The resulting todo is returned.
	UpdateTodo(ctx context.Context, id, task string) (*models.Todo, error)
	DeleteTodo(ctx context.Context, id string) error

	// Lifecycle
	Close() error
}

// Open creates a store for the named backend. Both backends are volatile:
// the sqlite backend runs against an in-memory database.
func Open(backend string) (Store, error) {
	switch backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendSQLite:
		return NewSQLiteStore(":memory:")
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
