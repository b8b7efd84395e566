package store

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"todos/internal/models"
)

// MemoryStore is an in-memory implementation of [Store].
//
// Todos are keyed by id. Insertion order is tracked so that listings are
// stable, although callers must not depend on it.
type MemoryStore struct {
	mu    sync.RWMutex
	todos map[string]*models.Todo
	order []string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		todos: make(map[string]*models.Todo),
	}
}

// ListTodos returns a snapshot of all todos. The returned slice is a copy.
func (m *MemoryStore) ListTodos(ctx context.Context) ([]models.Todo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	todos := make([]models.Todo, 0, len(m.order))
	for _, id := range m.order {
		todos = append(todos, *m.todos[id])
	}
	return todos, nil
}

// CreateTodo inserts a new todo with a freshly generated id.
func (m *MemoryStore) CreateTodo(ctx context.Context, task string) (*models.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	for m.todos[id] != nil {
		id = uuid.NewString()
	}

	todo := &models.Todo{ID: id, Task: task}
	m.todos[id] = todo
	m.order = append(m.order, id)

	out := *todo
	return &out, nil
}

// GetTodo retrieves a todo by id.
func (m *MemoryStore) GetTodo(ctx context.Context, id string) (*models.Todo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	todo, ok := m.todos[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *todo
	return &out, nil
}

// UpdateTodo replaces the task in place when task is non-empty.
func (m *MemoryStore) UpdateTodo(ctx context.Context, id, task string) (*models.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	todo, ok := m.todos[id]
	if !ok {
		return nil, ErrNotFound
	}
	if task != "" {
		todo.Task = task
	}
	out := *todo
	return &out, nil
}

// DeleteTodo removes a todo by id.
func (m *MemoryStore) DeleteTodo(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.todos[id]; !ok {
		return ErrNotFound
	}
	delete(m.todos, id)
	if i := slices.Index(m.order, id); i >= 0 {
		m.order = slices.Delete(m.order, i, i+1)
	}
	return nil
}

// Close is a no-op; the store holds no external resources.
func (m *MemoryStore) Close() error {
	return nil
}
