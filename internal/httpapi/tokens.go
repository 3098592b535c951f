package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tasktracker/internal/notify"
)

func (s *Server) createUser(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		DisplayName string `json:"displayName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := s.users.GetOrCreate(c.Request.Context(), req.Email, req.DisplayName)
	if err != nil {
		s.respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (s *Server) registerToken(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token, err := s.tokens.Register(c.Request.Context(), c.Param("userID"), req.Token)
	if err != nil {
		s.respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, token)
}

func (s *Server) revokeToken(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.tokens.Revoke(c.Request.Context(), c.Param("userID"), req.Token); err != nil {
		s.respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// pushTest sends a fixed notification to every registered device of the
// user, through the live dispatcher.
func (s *Server) pushTest(c *gin.Context) {
	userID := c.Param("userID")
	tokens, err := s.tokens.ActiveTokens(c.Request.Context(), userID)
	if err != nil {
		s.respondErr(c, err)
		return
	}
	if len(tokens) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no registered devices"})
		return
	}
	res, err := s.dispatch.Send(c.Request.Context(), tokens, notify.Notification{
		Title: "🚀 Test Push",
		Body:  "This is a test push notification.",
	})
	if err != nil {
		s.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": res.Success, "failure": res.Failure})
}
