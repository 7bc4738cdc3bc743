package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"musicwebsite/internal/model"
	"musicwebsite/internal/repository"
	"musicwebsite/internal/session"
)

const ContextUserKey = "current_user"

// CurrentUser resolves the session cookie into a user record and stashes it
// in the request context. Requests without a valid session pass through
// anonymous.
func CurrentUser(sessions *session.Manager, users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := sessions.Authenticate(c)
		if err == nil {
			user, err := users.GetByID(claims.UserID)
			if err == nil && user != nil {
				c.Set(ContextUserKey, user)
			}
		}
		c.Next()
	}
}

// RequireAuth bounces anonymous requests to the login page, remembering where
// they were headed.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserFrom(c) == nil {
			target := "/login?next=" + url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserFrom returns the authenticated user for this request, or nil.
func UserFrom(c *gin.Context) *model.User {
	value, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, ok := value.(*model.User)
	if !ok {
		return nil
	}
	return user
}
