package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/avelichko/todoflow/internal/models"
	"github.com/avelichko/todoflow/internal/storage"
)

// storedTodo is the shape of one record inside the slot's JSON array.
type storedTodo struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Category    string     `json:"category"`
	CreatedAt   time.Time  `json:"createdAt"`
	Notified    bool       `json:"notified,omitempty"`
}

// kvRepository keeps the canonical collection in memory, newest first,
// and writes the whole collection back to the slot after every
// mutation. A failed write rolls the in-memory state back, so callers
// never observe a mutation that did not reach the backing medium.
type kvRepository struct {
	logger zerolog.Logger
	store  storage.Store

	mu     sync.RWMutex
	todos  []*models.Todo
	lastID int64
}

// NewKV loads the existing collection from the slot. An empty or
// never-written slot yields an empty collection.
func NewKV(ctx context.Context, logger zerolog.Logger, store storage.Store) (TodoRepository, error) {
	b, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load todo collection: %w", err)
	}

	var stored []storedTodo
	if len(b) > 0 {
		if err = json.Unmarshal(b, &stored); err != nil {
			return nil, fmt.Errorf("decode todo collection: %w", err)
		}
	}

	repo := &kvRepository{
		logger: logger,
		store:  store,
		todos:  make([]*models.Todo, 0, len(stored)),
	}
	for _, st := range stored {
		todo := &models.Todo{
			ID:          st.ID,
			Title:       st.Title,
			Description: st.Description,
			Completed:   st.Completed,
			Priority:    st.Priority,
			DueDate:     st.DueDate,
			Category:    st.Category,
			CreatedAt:   st.CreatedAt,
			Notified:    st.Notified,
		}
		repo.todos = append(repo.todos, todo)
		if st.ID > repo.lastID {
			repo.lastID = st.ID
		}
	}
	sortNewestFirst(repo.todos)

	logger.Info().
		Int("count", len(repo.todos)).
		Msg("loaded todo collection")
	return repo, nil
}

func sortNewestFirst(todos []*models.Todo) {
	sort.SliceStable(todos, func(i, j int) bool {
		if todos[i].CreatedAt.Equal(todos[j].CreatedAt) {
			return todos[i].ID > todos[j].ID
		}
		return todos[i].CreatedAt.After(todos[j].CreatedAt)
	})
}

func (r *kvRepository) ListAll(_ context.Context) ([]*models.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	todos := make([]*models.Todo, len(r.todos))
	for i, todo := range r.todos {
		todos[i] = todo.Clone()
	}
	return todos, nil
}

func (r *kvRepository) Get(_ context.Context, id int64) (*models.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.todos[i].Clone(), nil
	}
	return nil, ErrTodoNotFound
}

func (r *kvRepository) Create(ctx context.Context, params CreateParams) (*models.Todo, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	todo := &models.Todo{
		ID:          r.nextID(),
		Title:       title,
		Description: params.Description,
		Priority:    params.Priority,
		DueDate:     params.DueDate,
		Category:    strings.TrimSpace(params.Category),
		CreatedAt:   time.Now(),
	}
	if todo.Priority == "" {
		todo.Priority = models.PriorityMedium
	}
	if todo.Category == "" {
		todo.Category = models.DefaultCategory
	}

	r.todos = append([]*models.Todo{todo}, r.todos...)
	if err := r.persist(ctx); err != nil {
		r.todos = r.todos[1:]
		r.logger.Error().
			Err(err).
			Msg("failed to persist created todo")
		return nil, err
	}

	r.logger.Info().
		Int64("todo_id", todo.ID).
		Msg("created todo")
	return todo.Clone(), nil
}

func (r *kvRepository) Update(ctx context.Context, id int64, params UpdateParams) (*models.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrTodoNotFound
	}

	prev := r.todos[i]
	next := prev.Clone()
	if err := mergeUpdate(next, params); err != nil {
		return nil, err
	}

	r.todos[i] = next
	if err := r.persist(ctx); err != nil {
		r.todos[i] = prev
		r.logger.Error().
			Err(err).
			Int64("todo_id", id).
			Msg("failed to persist updated todo")
		return nil, err
	}

	r.logger.Info().
		Int64("todo_id", id).
		Msg("updated todo")
	return next.Clone(), nil
}

func (r *kvRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrTodoNotFound
	}

	prev := r.todos
	todos := make([]*models.Todo, 0, len(prev)-1)
	todos = append(todos, prev[:i]...)
	todos = append(todos, prev[i+1:]...)

	r.todos = todos
	if err := r.persist(ctx); err != nil {
		r.todos = prev
		r.logger.Error().
			Err(err).
			Int64("todo_id", id).
			Msg("failed to persist after delete")
		return err
	}

	r.logger.Info().
		Int64("todo_id", id).
		Msg("deleted todo")
	return nil
}

func (r *kvRepository) ClearCompleted(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.todos
	active := make([]*models.Todo, 0, len(prev))
	for _, todo := range prev {
		if !todo.Completed {
			active = append(active, todo)
		}
	}

	removed := int64(len(prev) - len(active))
	if removed == 0 {
		return 0, nil
	}

	r.todos = active
	if err := r.persist(ctx); err != nil {
		r.todos = prev
		r.logger.Error().
			Err(err).
			Msg("failed to persist after clearing completed todos")
		return 0, err
	}

	r.logger.Info().
		Int64("count", removed).
		Msg("cleared completed todos")
	return removed, nil
}

// nextID assigns millisecond-clock ids the way the original slot did,
// bumping past the last assigned id when two creates land on the same
// millisecond. Callers must hold the write lock.
func (r *kvRepository) nextID() int64 {
	id := time.Now().UnixMilli()
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id
	return id
}

func (r *kvRepository) indexOf(id int64) int {
	for i, todo := range r.todos {
		if todo.ID == id {
			return i
		}
	}
	return -1
}

func (r *kvRepository) persist(ctx context.Context) error {
	stored := make([]storedTodo, len(r.todos))
	for i, todo := range r.todos {
		stored[i] = storedTodo{
			ID:          todo.ID,
			Title:       todo.Title,
			Description: todo.Description,
			Completed:   todo.Completed,
			Priority:    todo.Priority,
			DueDate:     todo.DueDate,
			Category:    todo.Category,
			CreatedAt:   todo.CreatedAt,
			Notified:    todo.Notified,
		}
	}

	b, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode todo collection: %w", err)
	}
	if err = r.store.Save(ctx, b); err != nil {
		return fmt.Errorf("save todo collection: %w", err)
	}
	return nil
}

func mergeUpdate(todo *models.Todo, params UpdateParams) error {
	if params.Title != nil {
		title := strings.TrimSpace(*params.Title)
		if title == "" {
			return ErrEmptyTitle
		}
		todo.Title = title
	}
	if params.Description != nil {
		todo.Description = *params.Description
	}
	if params.Completed != nil {
		todo.Completed = *params.Completed
	}
	if params.Priority != nil && *params.Priority != "" {
		todo.Priority = *params.Priority
	}
	if params.DueDate != nil {
		due := *params.DueDate
		todo.DueDate = &due
	}
	if params.Category != nil {
		category := strings.TrimSpace(*params.Category)
		if category == "" {
			category = models.DefaultCategory
		}
		todo.Category = category
	}
	if params.Notified != nil {
		todo.Notified = *params.Notified
	}
	return nil
}
