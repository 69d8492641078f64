package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/avelichko/todoflow/internal/models"
)

// todoRecord is the relational row shape. Column names follow the
// original single-file schema, so an existing todos.db keeps working.
type todoRecord struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Title       string     `gorm:"column:title;not null"`
	Description string     `gorm:"column:description"`
	Completed   bool       `gorm:"column:completed"`
	Priority    string     `gorm:"column:priority"`
	DueDate     *time.Time `gorm:"column:dueDate"`
	Category    string     `gorm:"column:category"`
	CreatedAt   time.Time  `gorm:"column:createdAt"`
	Notified    bool       `gorm:"column:notified"`
}

func (todoRecord) TableName() string {
	return "todos"
}

func (rec *todoRecord) toModel() *models.Todo {
	return &models.Todo{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		Completed:   rec.Completed,
		Priority:    rec.Priority,
		DueDate:     rec.DueDate,
		Category:    rec.Category,
		CreatedAt:   rec.CreatedAt,
		Notified:    rec.Notified,
	}
}

func newTodoRecord(todo *models.Todo) *todoRecord {
	return &todoRecord{
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

type sqliteRepository struct {
	logger zerolog.Logger
	db     *gorm.DB
	// The workload is low-volume, so a single global mutation lock
	// keeps read-modify-write updates serialized.
	mu sync.Mutex
}

// NewSQLite migrates the todos table and returns a repository backed
// by the single-file relational store.
func NewSQLite(logger zerolog.Logger, db *gorm.DB) (TodoRepository, error) {
	if err := db.AutoMigrate(&todoRecord{}); err != nil {
		return nil, fmt.Errorf("migrate todos table: %w", err)
	}
	return &sqliteRepository{
		logger: logger,
		db:     db,
	}, nil
}

func (r *sqliteRepository) ListAll(ctx context.Context) ([]*models.Todo, error) {
	var recs []todoRecord
	err := r.db.WithContext(ctx).
		Order("createdAt DESC, id DESC").
		Find(&recs).Error
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to select todos")
		return nil, fmt.Errorf("select todos: %w", err)
	}

	todos := make([]*models.Todo, len(recs))
	for i := range recs {
		todos[i] = recs[i].toModel()
	}
	return todos, nil
}

func (r *sqliteRepository) Get(ctx context.Context, id int64) (*models.Todo, error) {
	rec, err := r.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return rec.toModel(), nil
}

func (r *sqliteRepository) Create(ctx context.Context, params CreateParams) (*models.Todo, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	todo := &models.Todo{
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

	rec := newTodoRecord(todo)
	rec.ID = 0
	err := r.db.WithContext(ctx).Create(rec).Error
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to insert todo")
		return nil, fmt.Errorf("insert todo: %w", err)
	}

	r.logger.Info().
		Int64("todo_id", rec.ID).
		Msg("created todo")
	return rec.toModel(), nil
}

func (r *sqliteRepository) Update(ctx context.Context, id int64, params UpdateParams) (*models.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.find(ctx, id)
	if err != nil {
		return nil, err
	}

	todo := rec.toModel()
	if err = mergeUpdate(todo, params); err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Save(newTodoRecord(todo)).Error
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("todo_id", id).
			Msg("failed to update todo")
		return nil, fmt.Errorf("update todo: %w", err)
	}

	r.logger.Info().
		Int64("todo_id", id).
		Msg("updated todo")
	return todo, nil
}

func (r *sqliteRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&todoRecord{}, "id = ?", id)
	if result.Error != nil {
		r.logger.Error().
			Err(result.Error).
			Int64("todo_id", id).
			Msg("failed to delete todo")
		return fmt.Errorf("delete todo: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTodoNotFound
	}

	r.logger.Info().
		Int64("todo_id", id).
		Msg("deleted todo")
	return nil
}

func (r *sqliteRepository) ClearCompleted(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := r.db.WithContext(ctx).
		Where("completed = ?", true).
		Delete(&todoRecord{})
	if result.Error != nil {
		r.logger.Error().
			Err(result.Error).
			Msg("failed to clear completed todos")
		return 0, fmt.Errorf("clear completed todos: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		r.logger.Info().
			Int64("count", result.RowsAffected).
			Msg("cleared completed todos")
	}
	return result.RowsAffected, nil
}

func (r *sqliteRepository) find(ctx context.Context, id int64) (*todoRecord, error) {
	var rec todoRecord
	err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		r.logger.Error().
			Err(err).
			Int64("todo_id", id).
			Msg("failed to select todo")
		return nil, fmt.Errorf("select todo: %w", err)
	}
	return &rec, nil
}
