package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avelichko/todoflow/internal/models"
	"github.com/avelichko/todoflow/internal/query"
	"github.com/avelichko/todoflow/internal/repository"
)

const (
	msgTitleRequired = "Title is required"
	msgTodoNotFound  = "Todo not found"
)

type todoResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Category    string     `json:"category"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func newTodoResponse(todo *models.Todo) todoResponse {
	return todoResponse{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		Completed:   todo.Completed,
		Priority:    todo.Priority,
		DueDate:     todo.DueDate,
		Category:    todo.Category,
		CreatedAt:   todo.CreatedAt,
	}
}

func newTodoListResponse(todos []*models.Todo) []todoResponse {
	response := make([]todoResponse, len(todos))
	for i, todo := range todos {
		response[i] = newTodoResponse(todo)
	}
	return response
}

// HandleListTodos returns the collection newest-created first. The
// optional status, category, search and grouped query parameters run
// the filter engine server-side.
func (h *handlerImpl) HandleListTodos(c *gin.Context) {
	todos, err := h.todos.ListAll(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list todos")
		abort(c, newInternalError())
		return
	}

	view := query.View{
		Status:   query.Status(c.Query("status")),
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	todos = query.Filter(todos, view)

	if c.Query("grouped") == "true" {
		groups := query.GroupByCategory(todos)
		response := make(map[string][]todoResponse, len(groups))
		for category, group := range groups {
			response[category] = newTodoListResponse(group)
		}
		c.JSON(http.StatusOK, response)
		return
	}

	c.JSON(http.StatusOK, newTodoListResponse(todos))
}

func (h *handlerImpl) HandleGetTodo(c *gin.Context) {
	id, ok := todoIDParam(c)
	if !ok {
		return
	}

	todo, err := h.todos.Get(c, id)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			abort(c, newNotFoundError(msgTodoNotFound))
			return
		}

		h.logger.Error().
			Err(err).
			Int64("todo_id", id).
			Msg("failed to get todo")
		abort(c, newInternalError())
		return
	}

	c.JSON(http.StatusOK, newTodoResponse(todo))
}

type createTodoRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	Category    string     `json:"category"`
}

func (h *handlerImpl) HandleCreateTodo(c *gin.Context) {
	var req createTodoRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	todo, err := h.todos.Create(c, repository.CreateParams{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Category:    req.Category,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmptyTitle) {
			abort(c, newBadRequestError(msgTitleRequired))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to create todo")
		abort(c, newInternalError())
		return
	}

	c.JSON(http.StatusCreated, newTodoResponse(todo))
}

type updateTodoRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Category    *string    `json:"category,omitempty"`
}

// HandleUpdateTodo merges the supplied fields onto the stored record.
// Omitted fields keep their value; id and createdAt are immutable.
func (h *handlerImpl) HandleUpdateTodo(c *gin.Context) {
	id, ok := todoIDParam(c)
	if !ok {
		return
	}

	var req updateTodoRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	todo, err := h.todos.Update(c, id, repository.UpdateParams{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Category:    req.Category,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTodoNotFound):
			abort(c, newNotFoundError(msgTodoNotFound))
		case errors.Is(err, repository.ErrEmptyTitle):
			abort(c, newBadRequestError(msgTitleRequired))
		default:
			h.logger.Error().
				Err(err).
				Int64("todo_id", id).
				Msg("failed to update todo")
			abort(c, newInternalError())
		}
		return
	}

	c.JSON(http.StatusOK, newTodoResponse(todo))
}

func (h *handlerImpl) HandleDeleteTodo(c *gin.Context) {
	id, ok := todoIDParam(c)
	if !ok {
		return
	}

	err := h.todos.Delete(c, id)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			abort(c, newNotFoundError(msgTodoNotFound))
			return
		}

		h.logger.Error().
			Err(err).
			Int64("todo_id", id).
			Msg("failed to delete todo")
		abort(c, newInternalError())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Todo deleted successfully"})
}

func (h *handlerImpl) HandleClearCompleted(c *gin.Context) {
	count, err := h.todos.ClearCompleted(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to clear completed todos")
		abort(c, newInternalError())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Deleted %d completed todos", count),
	})
}

type statsResponse struct {
	Total          int            `json:"total"`
	Completed      int            `json:"completed"`
	Active         int            `json:"active"`
	CompletionRate int            `json:"completionRate"`
	ByCategory     map[string]int `json:"byCategory"`
	ByPriority     map[string]int `json:"byPriority"`
	Upcoming       []todoResponse `json:"upcoming"`
}

// HandleGetStats aggregates the full, unfiltered collection.
func (h *handlerImpl) HandleGetStats(c *gin.Context) {
	todos, err := h.todos.ListAll(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list todos")
		abort(c, newInternalError())
		return
	}

	stats := query.Collect(todos, time.Now())
	c.JSON(http.StatusOK, statsResponse{
		Total:          stats.Total,
		Completed:      stats.Completed,
		Active:         stats.Active,
		CompletionRate: stats.CompletionRate,
		ByCategory:     stats.ByCategory,
		ByPriority:     stats.ByPriority,
		Upcoming:       newTodoListResponse(stats.Upcoming),
	})
}

// todoIDParam parses the :id path segment. A non-numeric id cannot
// name any stored todo, so it reports not found rather than a bind
// error.
func todoIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abort(c, newNotFoundError(msgTodoNotFound))
		return 0, false
	}
	return id, true
}
