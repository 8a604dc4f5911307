package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallretail/tillpoint/internal/session"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" || req.Password == "" {
		AbortWithError(c, newValidationError("username", "invalid_credentials_request", "username and password are required"))
		return
	}

	if !s.loginLimiter.Allow(c.Request.Context(), username) {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error": gin.H{
				"type":    "rate_limited",
				"message": "too many login attempts, try again shortly",
			},
		})
		return
	}

	u, err := s.userSvc.Authenticate(c.Request.Context(), username, req.Password)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	token, expiresAt := s.sessions.Issue(session.Cashier{
		ID:          u.ID,
		DisplayName: u.FullName,
		Role:        string(u.Role),
	})

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"token":      token,
			"expires_at": expiresAt,
			"cashier": gin.H{
				"id":           u.ID,
				"username":     u.Username,
				"display_name": u.FullName,
				"role":         u.Role,
			},
		},
	})
}

func (s *Server) Logout(c *gin.Context) {
	if token := bearerToken(c); token != "" {
		s.sessions.Revoke(token)
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"logged_out": true}})
}

func (s *Server) Me(c *gin.Context) {
	cashier, ok := cashierFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cashier})
}
