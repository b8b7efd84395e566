package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"todos/internal/logging"
	"todos/internal/models"
	"todos/internal/store"
)

func setupTestHandlers(t *testing.T) (*Handlers, *store.MemoryStore) {
	t.Helper()
	s := store.NewMemoryStore()
	t.Cleanup(func() { s.Close() })

	h := New(s, logging.Discard())
	return h, s
}

// do sends a request through the full router.
func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeTodo(t *testing.T, rec *httptest.ResponseRecorder) models.Todo {
	t.Helper()
	var todo models.Todo
	if err := json.Unmarshal(rec.Body.Bytes(), &todo); err != nil {
		t.Fatalf("failed to decode todo from %q: %v", rec.Body.String(), err)
	}
	return todo
}

func decodeTodos(t *testing.T, rec *httptest.ResponseRecorder) []models.Todo {
	t.Helper()
	var todos []models.Todo
	if err := json.Unmarshal(rec.Body.Bytes(), &todos); err != nil {
		t.Fatalf("failed to decode todos from %q: %v", rec.Body.String(), err)
	}
	return todos
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error from %q: %v", rec.Body.String(), err)
	}
	return resp.Error
}

func withID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestListTodosHandler_Empty(t *testing.T) {
	h, _ := setupTestHandlers(t)

	rec := do(t, h.Routes(), "GET", "/todos", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %q", ct)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected empty array, got %q", body)
	}
}

func TestListTodosHandler_ReturnsAll(t *testing.T) {
	h, s := setupTestHandlers(t)
	ctx := context.Background()
	s.CreateTodo(ctx, "a")
	s.CreateTodo(ctx, "b")

	rec := do(t, h.Routes(), "GET", "/todos", "")

	todos := decodeTodos(t, rec)
	if len(todos) != 2 {
		t.Errorf("expected 2 todos, got %d", len(todos))
	}
}

func TestCreateTodoHandler_Success(t *testing.T) {
	h, s := setupTestHandlers(t)

	rec := do(t, h.Routes(), "POST", "/todos", `{"task":"buy milk"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}
	todo := decodeTodo(t, rec)
	if todo.ID == "" || todo.Task != "buy milk" {
		t.Errorf("unexpected todo %+v", todo)
	}

	stored, err := s.GetTodo(context.Background(), todo.ID)
	if err != nil {
		t.Fatalf("created todo not stored: %v", err)
	}
	if stored.Task != "buy milk" {
		t.Errorf("expected stored task %q, got %q", "buy milk", stored.Task)
	}
}

func TestCreateTodoHandler_ValidationError(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		errMsg string
	}{
		{name: "missing task", body: `{}`, errMsg: "task is required"},
		{name: "empty task", body: `{"task":""}`, errMsg: "task is required"},
		{name: "empty body", body: "", errMsg: "task is required"},
		{name: "non-string task", body: `{"task":7}`},
		{name: "malformed json", body: `{"task"`, errMsg: "invalid json"},
		{name: "array body", body: `["buy milk"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s := setupTestHandlers(t)

			rec := do(t, h.Routes(), "POST", "/todos", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
			}
			msg := decodeError(t, rec)
			if tt.errMsg != "" && msg != tt.errMsg {
				t.Errorf("expected error %q, got %q", tt.errMsg, msg)
			}

			todos, _ := s.ListTodos(context.Background())
			if len(todos) != 0 {
				t.Errorf("store was mutated: %+v", todos)
			}
		})
	}
}

func TestUpdateTodoHandler_Success(t *testing.T) {
	h, s := setupTestHandlers(t)
	created, _ := s.CreateTodo(context.Background(), "buy milk")

	req := httptest.NewRequest("PUT", "/todos/"+created.ID, strings.NewReader(`{"task":"buy oat milk"}`))
	req = withID(req, created.ID)
	rec := httptest.NewRecorder()

	h.UpdateTodo(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	todo := decodeTodo(t, rec)
	if todo.ID != created.ID || todo.Task != "buy oat milk" {
		t.Errorf("unexpected todo %+v", todo)
	}
}

func TestUpdateTodoHandler_NoTaskLeavesUnchanged(t *testing.T) {
	for _, body := range []string{"", `{}`, `{"task":""}`} {
		t.Run(body, func(t *testing.T) {
			h, s := setupTestHandlers(t)
			created, _ := s.CreateTodo(context.Background(), "buy milk")

			rec := do(t, h.Routes(), "PUT", "/todos/"+created.ID, body)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
			}
			if todo := decodeTodo(t, rec); todo.Task != "buy milk" {
				t.Errorf("expected task unchanged, got %q", todo.Task)
			}
		})
	}
}

func TestUpdateTodoHandler_NotFound(t *testing.T) {
	h, s := setupTestHandlers(t)
	existing, _ := s.CreateTodo(context.Background(), "keep")

	rec := do(t, h.Routes(), "PUT", "/todos/unknown", `{"task":"x"}`)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
	if msg := decodeError(t, rec); msg != "todo not found" {
		t.Errorf("expected error %q, got %q", "todo not found", msg)
	}

	got, _ := s.GetTodo(context.Background(), existing.ID)
	if got.Task != "keep" {
		t.Errorf("store was mutated: %+v", got)
	}
}

func TestUpdateTodoHandler_InvalidTaskType(t *testing.T) {
	h, s := setupTestHandlers(t)
	created, _ := s.CreateTodo(context.Background(), "buy milk")

	rec := do(t, h.Routes(), "PUT", "/todos/"+created.ID, `{"task":["x"]}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestDeleteTodoHandler_Success(t *testing.T) {
	h, s := setupTestHandlers(t)
	created, _ := s.CreateTodo(context.Background(), "drop")

	req := withID(httptest.NewRequest("DELETE", "/todos/"+created.ID, nil), created.ID)
	rec := httptest.NewRecorder()

	h.DeleteTodo(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}
	if _, err := s.GetTodo(context.Background(), created.ID); err == nil {
		t.Error("expected todo to be deleted")
	}
}

func TestDeleteTodoHandler_NotFoundIsRepeatable(t *testing.T) {
	h, s := setupTestHandlers(t)
	created, _ := s.CreateTodo(context.Background(), "drop")
	router := h.Routes()

	if rec := do(t, router, "DELETE", "/todos/"+created.ID, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected first delete to succeed, got %d", rec.Code)
	}
	for i := 0; i < 3; i++ {
		if rec := do(t, router, "DELETE", "/todos/"+created.ID, ""); rec.Code != http.StatusNotFound {
			t.Errorf("attempt %d: expected status %d, got %d", i+1, http.StatusNotFound, rec.Code)
		}
	}
	if rec := do(t, router, "PUT", "/todos/"+created.ID, `{"task":"x"}`); rec.Code != http.StatusNotFound {
		t.Errorf("expected update after delete to 404, got %d", rec.Code)
	}
}

func TestRoutes_Scenario(t *testing.T) {
	h, _ := setupTestHandlers(t)
	router := h.Routes()

	rec := do(t, router, "POST", "/todos", `{"task":"buy milk"}`)
	created := decodeTodo(t, rec)

	todos := decodeTodos(t, do(t, router, "GET", "/todos", ""))
	if len(todos) != 1 || todos[0] != created {
		t.Fatalf("expected [%+v], got %+v", created, todos)
	}

	do(t, router, "PUT", "/todos/"+created.ID, `{"task":"buy oat milk"}`)
	todos = decodeTodos(t, do(t, router, "GET", "/todos", ""))
	want := models.Todo{ID: created.ID, Task: "buy oat milk"}
	if len(todos) != 1 || todos[0] != want {
		t.Fatalf("expected [%+v], got %+v", want, todos)
	}

	do(t, router, "DELETE", "/todos/"+created.ID, "")
	if body := strings.TrimSpace(do(t, router, "GET", "/todos", "").Body.String()); body != "[]" {
		t.Fatalf("expected empty list, got %q", body)
	}
}

func TestRoutes_CORS(t *testing.T) {
	h, _ := setupTestHandlers(t)
	router := h.Routes()

	req := httptest.NewRequest("GET", "/todos", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected Access-Control-Allow-Origin *, got %q", got)
	}

	preflight := httptest.NewRequest("OPTIONS", "/todos/abc", nil)
	preflight.Header.Set("Origin", "http://example.com")
	preflight.Header.Set("Access-Control-Request-Method", "PUT")
	preflight.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, preflight)

	if rec.Code >= 300 {
		t.Errorf("expected preflight success, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected preflight Access-Control-Allow-Origin *, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "PUT") {
		t.Errorf("expected PUT to be allowed, got %q", got)
	}
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	h, _ := setupTestHandlers(t)

	rec := do(t, h.Routes(), "PATCH", "/todos/abc", `{"task":"x"}`)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
