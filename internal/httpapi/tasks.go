package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"tasktracker/internal/service"
)

type createTaskRequest struct {
	Title             string   `json:"title" binding:"required"`
	Comment           string   `json:"comment"`
	Priority          string   `json:"priority"`
	SubTasks          []string `json:"subTasks"`
	Recurring         bool     `json:"recurring"`
	RecurringInterval int      `json:"recurringInterval"`
}

func (s *Server) createTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task, err := s.tasks.CreateTask(c.Request.Context(), c.Param("userID"), service.TaskInput{
		Title:             req.Title,
		Comment:           req.Comment,
		Priority:          req.Priority,
		SubTaskTitles:     req.SubTasks,
		Recurring:         req.Recurring,
		RecurringInterval: req.RecurringInterval,
	})
	if err != nil {
		s.respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) listTasks(c *gin.Context) {
	tasks, err := s.tasks.ListTasks(c.Request.Context(), c.Param("userID"))
	if err != nil {
		s.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) getTask(c *gin.Context) {
	task, err := s.tasks.GetTask(c.Request.Context(), c.Param("userID"), c.Param("taskID"))
	if err != nil {
		s.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) deleteTask(c *gin.Context) {
	if err := s.tasks.DeleteTask(c.Request.Context(), c.Param("userID"), c.Param("taskID")); err != nil {
		s.respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) setStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task, err := s.tasks.SetStatus(c.Request.Context(), c.Param("userID"), c.Param("taskID"), req.Status)
	if err != nil {
		s.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) setPriority(c *gin.Context) {
	var req struct {
		Priority string `json:"priority" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task, err := s.tasks.SetPriority(c.Request.Context(), c.Param("userID"), c.Param("taskID"), req.Priority)
	if err != nil {
		s.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) startTimer(c *gin.Context) {
	var req struct {
		DurationMs int64 `json:"durationMs" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task, err := s.tasks.StartTimer(c.Request.Context(), c.Param("userID"), c.Param("taskID"),
		time.Duration(req.DurationMs)*time.Millisecond, time.Now())
	if err != nil {
		s.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) clearTimer(c *gin.Context) {
	task, err := s.tasks.ClearTimer(c.Request.Context(), c.Param("userID"), c.Param("taskID"))
	if err != nil {
		s.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) setRecurrence(c *gin.Context) {
	var req struct {
		IntervalDays int `json:"intervalDays"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task, err := s.tasks.SetRecurrence(c.Request.Context(), c.Param("userID"), c.Param("taskID"), req.IntervalDays)
	if err != nil {
		s.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) addSubTask(c *gin.Context) {
	var req struct {
		Title string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task, err := s.tasks.AddSubTask(c.Request.Context(), c.Param("userID"), c.Param("taskID"), req.Title)
	if err != nil {
		s.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) setSubTaskState(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subtask index"})
		return
	}
	var req struct {
		Done       bool `json:"done"`
		InProgress bool `json:"inProgress"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task, err := s.tasks.SetSubTaskState(c.Request.Context(), c.Param("userID"), c.Param("taskID"), index, req.Done, req.InProgress)
	if err != nil {
		s.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}
