package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"todos/internal/models"
)

// ListTodos returns every todo.
func (h *Handlers) ListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.store.ListTodos(r.Context())
	if err != nil {
		h.respondServerError(w, err)
		return
	}
	if todos == nil {
		todos = []models.Todo{}
	}

	h.respondJSON(w, http.StatusOK, todos)
}

// CreateTodo creates a new todo from {"task": "..."}.
func (h *Handlers) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTodoRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondStoreError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.respondStoreError(w, err)
		return
	}

	todo, err := h.store.CreateTodo(r.Context(), *req.Task)
	if err != nil {
		h.respondServerError(w, err)
		return
	}

	h.logger.Debug("todo created", "id", todo.ID)
	h.respondJSON(w, http.StatusCreated, todo)
}

// UpdateTodo replaces the task of an existing todo. A missing or empty task
// leaves the todo unchanged.
func (h *Handlers) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.UpdateTodoRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondStoreError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.respondStoreError(w, err)
		return
	}

	todo, err := h.store.UpdateTodo(r.Context(), id, req.NewTask())
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, todo)
}

// DeleteTodo deletes a todo.
func (h *Handlers) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteTodo(r.Context(), id); err != nil {
		h.respondStoreError(w, err)
		return
	}

	h.logger.Debug("todo deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}
