package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"tasktracker/internal/notify"
	"tasktracker/internal/repository"
	"tasktracker/internal/service"
)

// Server exposes the CRUD surface over the task store. Identity comes from
// the path; authentication is handled upstream.
type Server struct {
	tasks    *service.TaskService
	users    *repository.UserRepository
	tokens   *repository.TokenRepository
	dispatch notify.Dispatcher
	log      zerolog.Logger
}

func NewServer(tasks *service.TaskService, users *repository.UserRepository, tokens *repository.TokenRepository, dispatch notify.Dispatcher, log zerolog.Logger) *Server {
	return &Server{tasks: tasks, users: users, tokens: tokens, dispatch: dispatch, log: log}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.POST("/users", s.createUser)

	user := api.Group("/users/:userID")
	user.POST("/tasks", s.createTask)
	user.GET("/tasks", s.listTasks)
	user.GET("/tasks/:taskID", s.getTask)
	user.DELETE("/tasks/:taskID", s.deleteTask)
	user.PATCH("/tasks/:taskID/status", s.setStatus)
	user.PATCH("/tasks/:taskID/priority", s.setPriority)
	user.POST("/tasks/:taskID/timer", s.startTimer)
	user.DELETE("/tasks/:taskID/timer", s.clearTimer)
	user.PATCH("/tasks/:taskID/recurrence", s.setRecurrence)
	user.POST("/tasks/:taskID/subtasks", s.addSubTask)
	user.PATCH("/tasks/:taskID/subtasks/:index", s.setSubTaskState)

	user.POST("/tokens", s.registerToken)
	user.DELETE("/tokens", s.revokeToken)
	user.POST("/push-test", s.pushTest)

	return r
}

// respondErr maps store errors to HTTP statuses.
func (s *Server) respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
