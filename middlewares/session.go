package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/toolhub/toolhub_backend/utils"
)

// Known roles. The gateway in front of this service authenticates the
// user and forwards identity in headers; this middleware only reads
// and enforces them.
const (
	RoleInfosec = "infosec"
	RoleAdmin   = "admin"
	RoleAuditor = "auditor"
	RoleUser    = "user"
)

// SessionMiddleware copies the forwarded identity headers into the
// request context. Requests without X-Auth-User are rejected.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Request.Header.Get("X-Auth-User")
		if username == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		role := c.Request.Header.Get("X-Auth-Role")
		if role == "" {
			role = RoleUser
		}

		ctx := utils.SetUsernameInContext(c.Request.Context(), username)
		ctx = utils.SetRoleInContext(ctx, role)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the session role is one of the
// given roles. Admin passes every check.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := utils.GetRoleFromContext(c.Request.Context())
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		if role == RoleAdmin {
			c.Next()
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		c.Abort()
	}
}
