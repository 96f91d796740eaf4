package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sajhathali/sajhathali-api/internal/domain/entity"
	repo "github.com/sajhathali/sajhathali-api/internal/domain/repository"
	"github.com/sajhathali/sajhathali-api/pkg/helpers"
	"github.com/sajhathali/sajhathali-api/pkg/response"
)

// CtxUserKey holds the resolved *entity.AuthUser in the Gin context.
const CtxUserKey = "authUser"

// resolve implements the session resolver: cookie → token → live directory
// re-check. A nil result means unauthenticated; that is the entire
// revocation story for blocked and deleted accounts, since tokens
// themselves cannot be invalidated before expiry.
func resolve(c *gin.Context, jwt *helpers.JWTManager, users repo.UserRepository) *entity.AuthUser {
	token, err := c.Cookie(helpers.AuthCookieName)
	if err != nil || token == "" {
		return nil
	}
	claims, err := jwt.Parse(token)
	if err != nil {
		return nil
	}
	// Live re-check against the directory; a lookup failure of any kind
	// fails closed rather than trusting the token's snapshot.
	u, err := users.GetAuthView(c.Request.Context(), claims.UserID)
	if err != nil {
		return nil
	}
	if u.Status == entity.StatusBlocked {
		return nil
	}
	return u
}

// Authenticate resolves the session and aborts with 401 when there is none.
func Authenticate(jwt *helpers.JWTManager, users repo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := resolve(c, jwt, users)
		if u == nil {
			response.AbortError(c, http.StatusUnauthorized, "not authenticated")
			return
		}
		c.Set(CtxUserKey, u)
		c.Next()
	}
}

// RequireRoles is the authorization gate: the resolved identity must be
// APPROVED and hold one of the allowed roles. Runs after Authenticate.
func RequireRoles(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if !u.Allowed(roles...) {
			response.AbortError(c, http.StatusForbidden, "unauthorized")
			return
		}
		c.Next()
	}
}

// CurrentUser returns the identity set by Authenticate, or nil.
func CurrentUser(c *gin.Context) *entity.AuthUser {
	if v, ok := c.Get(CtxUserKey); ok {
		if u, ok := v.(*entity.AuthUser); ok {
			return u
		}
	}
	return nil
}
