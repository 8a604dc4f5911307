package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallretail/tillpoint/internal/cart"
	"github.com/smallretail/tillpoint/internal/session"
	userdomain "github.com/smallretail/tillpoint/internal/user/domain"
)

const (
	// HeaderTerminal selects which register's cart a request acts on.
	// Absent header falls back to the single default terminal.
	HeaderTerminal = "X-Terminal-ID"

	contextCashierKey = "cashier"
)

func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		cashier, err := s.sessions.Resolve(token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextCashierKey, cashier)
		c.Next()
	}
}

func (s *Server) RequireRole(roles ...userdomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		cashier, ok := cashierFrom(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		for _, role := range roles {
			if cashier.Role == string(role) {
				c.Next()
				return
			}
		}
		AbortWithError(c, ErrForbidden)
	}
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func cashierFrom(c *gin.Context) (session.Cashier, bool) {
	v, ok := c.Get(contextCashierKey)
	if !ok {
		return session.Cashier{}, false
	}
	cashier, ok := v.(session.Cashier)
	return cashier, ok
}

func terminalFrom(c *gin.Context) string {
	if terminal := strings.TrimSpace(c.GetHeader(HeaderTerminal)); terminal != "" {
		return terminal
	}
	if terminal := strings.TrimSpace(c.Query("terminal")); terminal != "" {
		return terminal
	}
	return cart.DefaultTerminal
}
