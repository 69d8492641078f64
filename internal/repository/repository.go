package repository

import (
	"context"
	"errors"
	"time"

	"github.com/avelichko/todoflow/internal/models"
)

var (
	ErrTodoNotFound = errors.New("todo not found")
	ErrEmptyTitle   = errors.New("todo title must not be empty")
)

// TodoRepository owns the canonical todo collection.
//
// Implementations serialize mutations and persist the whole collection
// to the backing medium before a mutating call returns, so the caller
// either observes a fully applied change or an error and no change.
// Reads observe a consistent snapshot and never a partially applied
// mutation.
type TodoRepository interface {
	// ListAll returns every todo, newest-created first.
	// It returns an empty slice when the collection is empty.
	ListAll(ctx context.Context) ([]*models.Todo, error)

	// Get returns ErrTodoNotFound if no todo has the given id.
	Get(ctx context.Context, id int64) (*models.Todo, error)

	// Create assigns the id and creation time, applies field defaults
	// and persists the collection.
	//
	// It returns ErrEmptyTitle if the title is empty after trimming
	// surrounding whitespace.
	Create(ctx context.Context, params CreateParams) (*models.Todo, error)

	// Update merges the non-nil fields of params onto the stored
	// record. The id and creation time are immutable.
	//
	// It returns ErrTodoNotFound if no todo has the given id, or
	// ErrEmptyTitle if a supplied title trims to the empty string.
	Update(ctx context.Context, id int64, params UpdateParams) (*models.Todo, error)

	// Delete returns ErrTodoNotFound if no todo has the given id.
	// Deletion is permanent.
	Delete(ctx context.Context, id int64) error

	// ClearCompleted removes every completed todo and returns the
	// number of removed items. It never fails on an empty match.
	ClearCompleted(ctx context.Context) (int64, error)
}

type CreateParams struct {
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
	Category    string
}

// UpdateParams is a partial update. A nil field keeps the stored value.
type UpdateParams struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    *string
	DueDate     *time.Time
	Category    *string
	Notified    *bool
}
