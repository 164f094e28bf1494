package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/theclubs/clubs-backend/internal/app/models"
)

// Keys JWTAuth stores the caller under.
const (
	ContextUserID = "userID"
	ContextEmail  = "userEmail"
	ContextRole   = "userRole"
)

// CurrentUserID returns the authenticated user id, or "" on public routes.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// CurrentRole returns the authenticated role.
func CurrentRole(c *gin.Context) models.RoleType {
	role, _ := c.Get(ContextRole)
	r, _ := role.(models.RoleType)
	return r
}
