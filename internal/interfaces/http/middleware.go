package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/invstore/inventory-approval/internal/domain/entity"
)

const ctxUserKey = "auth.user"

// authRequired resolves the bearer token into a user and attaches it to the
// request context. The workflow engine downstream only ever sees the
// resulting identity string and role.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		const prefix = "Bearer "
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, prefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "missing bearer token",
			})
			return
		}
		token := strings.TrimSpace(header[len(prefix):])
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "missing bearer token",
			})
			return
		}

		user, err := s.authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "invalid or expired token",
			})
			return
		}

		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// requireRole allows the request through when the caller holds one of the
// listed roles. MANAGER implicitly satisfies every requirement.
func (s *Server) requireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "authentication required",
			})
			return
		}

		if user.Role == entity.RoleManager {
			c.Next()
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, Response{
			Success: false,
			Error:   "insufficient role",
		})
	}
}

// currentUser returns the authenticated user attached by authRequired
func currentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	user, ok := v.(*entity.User)
	if !ok {
		return nil
	}
	return user
}
