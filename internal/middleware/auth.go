package middleware

import (
	"github.com/deltanitt/clubs-api/internal/authz"
	"github.com/deltanitt/clubs-api/internal/constants"
	apierrors "github.com/deltanitt/clubs-api/internal/errors"
	"github.com/deltanitt/clubs-api/internal/repository"
	"github.com/deltanitt/clubs-api/internal/services"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// RequireAuth resolves the session cookie's token through the session
// manager and loads the caller. A cookie carrying a superseded token is
// rejected, which is what enforces the single-active-session policy. The
// caller's global admin flag comes from the user row, resolved once here.
func RequireAuth(sessionService *services.SessionService, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		token, ok := session.Get(constants.SessionKeyToken).(string)
		if !ok || token == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		userID, err := sessionService.Resolve(token)
		if err != nil {
			apierrors.Unauthorized(c, "Session expired, please log in again")
			c.Abort()
			return
		}

		user, err := userRepo.FindByID(userID)
		if err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyCaller, authz.Caller{
			UserID:  user.ID,
			IsAdmin: user.IsAdmin,
		})
		c.Next()
	}
}

// GetCaller retrieves the authenticated caller from context
func GetCaller(c *gin.Context) (authz.Caller, bool) {
	v, exists := c.Get(constants.ContextKeyCaller)
	if !exists {
		return authz.Caller{}, false
	}
	caller, ok := v.(authz.Caller)
	return caller, ok
}

// RequireGlobalAdmin rejects callers without the overall-admin flag.
// Must run after RequireAuth.
func RequireGlobalAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := GetCaller(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}
		if !caller.IsAdmin {
			apierrors.Forbidden(c, "Only an overall admin can perform this action")
			c.Abort()
			return
		}
		c.Next()
	}
}
