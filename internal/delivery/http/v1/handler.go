package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/avelichko/todoflow/internal/repository"
)

type Handler interface {
	HandleListTodos(c *gin.Context)
	HandleGetTodo(c *gin.Context)
	HandleCreateTodo(c *gin.Context)
	HandleUpdateTodo(c *gin.Context)
	HandleDeleteTodo(c *gin.Context)
	HandleClearCompleted(c *gin.Context)
	HandleGetStats(c *gin.Context)

	HandleRequestIDMiddleware(c *gin.Context)
	HandleAccessLogMiddleware(c *gin.Context)
}

type handlerImpl struct {
	logger zerolog.Logger
	todos  repository.TodoRepository
}

func New(
	logger zerolog.Logger,
	todoRepository repository.TodoRepository,
) Handler {
	return &handlerImpl{
		logger: logger,
		todos:  todoRepository,
	}
}
