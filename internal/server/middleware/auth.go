package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	authservice "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/auth/service"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/auth/token"
	userdomain "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/user/domain"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/apperr"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/server/httpx"
)

const (
	principalIDKey   = "principal_id"
	principalRoleKey = "principal_role"
)

// Auth verifies the bearer token and resolves it to the internal user.
// Handlers only ever see the internal numeric id; the external subject
// uuid stops here.
func Auth(verifier *token.Verifier, auth authservice.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			httpx.Error(c, apperr.AuthInvalid("missing bearer token"))
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		principal, err := verifier.Verify(c.Request.Context(), raw)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		user, err := auth.Resolve(c.Request.Context(), principal)
		if err != nil {
			httpx.Error(c, err)
			return
		}

		c.Set(principalIDKey, user.ID)
		c.Set(principalRoleKey, user.Role)
		c.Next()
	}
}

// PrincipalID returns the authenticated internal user id.
func PrincipalID(c *gin.Context) uint {
	id, _ := c.Get(principalIDKey)
	userID, _ := id.(uint)
	return userID
}

// PrincipalRole returns the authenticated user's role.
func PrincipalRole(c *gin.Context) userdomain.Role {
	role, _ := c.Get(principalRoleKey)
	r, _ := role.(userdomain.Role)
	return r
}

// RequireRole gates admin-scoped routes. It runs after Auth.
func RequireRole(role userdomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if PrincipalRole(c) != role {
			httpx.Error(c, apperr.Forbidden("insufficient role"))
			return
		}
		c.Next()
	}
}
