// Package view holds the client-side state of the todo list: a local cache
// mirroring the server, the load state, and the last error.
//
// The view moves from Loading to Ready or Error on the first fetch and never
// returns to Loading afterwards. Mutations are fire-and-forget: a failed
// update or delete is logged and surfaced as Error, but cache changes already
// made are not rolled back.
package view

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"todos/internal/client"
	"todos/internal/models"
)

// State is the load state of the view.
type State int

const (
	StateLoading State = iota
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// ErrorMessage is shown to the user when any request fails.
const ErrorMessage = "Something went wrong"

// API is the subset of the todo client the view needs.
type API interface {
	ListTodos(ctx context.Context) ([]models.Todo, error)
	CreateTodo(ctx context.Context, task string) (*models.Todo, error)
	UpdateTodo(ctx context.Context, id, task string) (*models.Todo, error)
	DeleteTodo(ctx context.Context, id string) error
}

// Snapshot is an immutable copy of the view for rendering.
type Snapshot struct {
	State State
	Todos []models.Todo
	Err   string
}

// View is the client-side state container. It is safe for concurrent use;
// operations may complete in any order and the cache reflects response
// order.
type View struct {
	api    API
	logger *log.Logger

	mu     sync.Mutex
	state  State
	loaded bool // a full list has been received at least once
	todos  []models.Todo
	err    string
	notify func(Snapshot)
}

// New creates a View in the Loading state. notify, if non-nil, is called
// once after every state change with a fresh snapshot.
func New(api API, logger *log.Logger, notify func(Snapshot)) *View {
	return &View{
		api:    api,
		logger: logger,
		state:  StateLoading,
		todos:  []models.Todo{},
		notify: notify,
	}
}

// Snapshot returns a copy of the current state.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

func (v *View) snapshotLocked() Snapshot {
	return Snapshot{
		State: v.state,
		Todos: slices.Clone(v.todos),
		Err:   v.err,
	}
}

// change applies fn under the lock and fires a single notification.
func (v *View) change(fn func()) {
	v.mu.Lock()
	fn()
	snap := v.snapshotLocked()
	v.mu.Unlock()

	if v.notify != nil {
		v.notify(snap)
	}
}

func (v *View) fail(op string, err error) {
	v.logger.Error("request failed", "op", op, "error", err)
	v.change(func() {
		v.state = StateError
		v.err = ErrorMessage
	})
}

// succeed applies fn to the cache. The view only becomes Ready once a full
// list has been received; before that the state is left as it is.
func (v *View) succeed(fn func()) {
	v.change(func() {
		if fn != nil {
			fn()
		}
		if v.loaded {
			v.state = StateReady
			v.err = ""
		}
	})
}

// Load fetches the full list and replaces the cache.
func (v *View) Load(ctx context.Context) {
	todos, err := v.api.ListTodos(ctx)
	if err != nil {
		v.fail("list", err)
		return
	}
	v.succeed(func() {
		v.loaded = true
		v.todos = todos
	})
}

// Add creates a todo and appends the server's copy to the cache.
func (v *View) Add(ctx context.Context, task string) {
	todo, err := v.api.CreateTodo(ctx, task)
	if err != nil {
		v.fail("create", err)
		return
	}
	v.succeed(func() {
		v.todos = append(v.todos, *todo)
	})
}

// Update merges task into the cached todo before sending it to the server.
// The merge is not rolled back when the request fails. An empty task is
// sent but not merged, since the server keeps the old value.
func (v *View) Update(ctx context.Context, id, task string) {
	if task != "" {
		v.change(func() {
			for i := range v.todos {
				if v.todos[i].ID == id {
					v.todos[i].Task = task
				}
			}
		})
	}

	if _, err := v.api.UpdateTodo(ctx, id, task); err != nil {
		v.fail("update", err)
		return
	}
	v.succeed(nil)
}

// Delete removes a todo on the server and then from the cache. A todo the
// server no longer knows about is removed from the cache as well.
func (v *View) Delete(ctx context.Context, id string) {
	err := v.api.DeleteTodo(ctx, id)
	if err != nil {
		var apiErr *client.APIError
		if !errors.As(err, &apiErr) || !apiErr.NotFound() {
			v.fail("delete", err)
			return
		}
		v.logger.Warn("todo already deleted", "id", id)
	}

	v.succeed(func() {
		v.todos = slices.DeleteFunc(v.todos, func(t models.Todo) bool {
			return t.ID == id
		})
	})
}
