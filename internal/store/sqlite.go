package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"todos/internal/models"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given data source name.
//
// The pool is pinned to a single connection so that ":memory:" databases are
// shared by every query instead of one database per connection.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := createSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ListTodos retrieves all todos in insertion order.
func (s *SQLiteStore) ListTodos(ctx context.Context) ([]models.Todo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, task FROM todos ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := []models.Todo{}
	for rows.Next() {
		var todo models.Todo
		if err := rows.Scan(&todo.ID, &todo.Task); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}

	return todos, rows.Err()
}

// CreateTodo inserts a new todo with a freshly generated id.
func (s *SQLiteStore) CreateTodo(ctx context.Context, task string) (*models.Todo, error) {
	todo := &models.Todo{ID: uuid.NewString(), Task: task}
	now := time.Now()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO todos (id, task, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, todo.ID, todo.Task, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	return todo, nil
}

// GetTodo retrieves a todo by id.
func (s *SQLiteStore) GetTodo(ctx context.Context, id string) (*models.Todo, error) {
	return getTodo(ctx, s.db, id)
}

// UpdateTodo replaces the task of an existing todo inside one transaction.
func (s *SQLiteStore) UpdateTodo(ctx context.Context, id, task string) (*models.Todo, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if task != "" {
		result, err := tx.ExecContext(ctx, `
			UPDATE todos SET task = ?, updated_at = ? WHERE id = ?
		`, task, time.Now(), id)
		if err != nil {
			return nil, fmt.Errorf("failed to update todo: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to get rows affected: %w", err)
		}
		if n == 0 {
			return nil, ErrNotFound
		}
	}

	todo, err := getTodo(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit update: %w", err)
	}
	return todo, nil
}

// DeleteTodo deletes a todo by id.
func (s *SQLiteStore) DeleteTodo(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getTodo(ctx context.Context, q queryRower, id string) (*models.Todo, error) {
	todo := &models.Todo{}
	err := q.QueryRowContext(ctx, `SELECT id, task FROM todos WHERE id = ?`, id).
		Scan(&todo.ID, &todo.Task)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}
	return todo, nil
}
