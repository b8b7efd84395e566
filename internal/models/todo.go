package models

// Todo represents a single work item.
type Todo struct {
	ID   string `json:"id"`
	Task string `json:"task"`
}

// CreateTodoRequest is the body of POST /todos.
//
// Task is a pointer so that an absent field can be told apart from an
// empty string when reporting errors.
type CreateTodoRequest struct {
	Task *string `json:"task"`
}

// Validate checks that the request carries a non-empty task.
func (r *CreateTodoRequest) Validate() error {
	if r.Task == nil {
		return &ValidationError{Field: "task", Message: "task is required"}
	}
	if *r.Task == "" {
		return &ValidationError{Field: "task", Message: "task is required"}
	}
	return nil
}

// UpdateTodoRequest is the body of PUT /todos/{id}. Task is optional.
type UpdateTodoRequest struct {
	Task *string `json:"task,omitempty"`
}

// Validate always succeeds; a missing or empty task means "leave unchanged".
func (r *UpdateTodoRequest) Validate() error {
	return nil
}

// NewTask returns the replacement task, or "" when the todo should be left
// unchanged.
func (r *UpdateTodoRequest) NewTask() string {
	if r.Task == nil {
		return ""
	}
	return *r.Task
}
