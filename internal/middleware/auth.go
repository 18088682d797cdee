package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// SessionUserKey is the session field holding the logged in user's id.
const SessionUserKey = "userId"

// CheckUserKey is the gin context key LoadUser stores the user id under.
const CheckUserKey = "user_id"

// LoadUser copies the user id from the session cookie into the context.
// Requests without a session pass through as anonymous.
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if userID, ok := session.Get(SessionUserKey).(uint); ok && userID != 0 {
			c.Set(CheckUserKey, userID)
		}
		c.Next()
	}
}

// CurrentUserID returns the id LoadUser found, or nil for anonymous requests.
func CurrentUserID(c *gin.Context) *uint {
	v, exists := c.Get(CheckUserKey)
	if !exists {
		return nil
	}
	id, ok := v.(uint)
	if !ok {
		return nil
	}
	return &id
}
