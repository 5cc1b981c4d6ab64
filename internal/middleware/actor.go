package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/flowdeskhq/flowdesk/internal/apperr"
)

const (
	// SessionUserKey is the session field holding the signed-in user id.
	SessionUserKey = "user_id"

	actorContextKey = "actor_id"
)

// RequireActor resolves the current actor from the session. There is no
// credential verification here: sign-in is a simulated roster pick and the
// session only records which user is acting.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		v := session.Get(SessionUserKey)
		id, ok := v.(uint64)
		if !ok || id == 0 {
			apperr.Unauthorized(c, "Sign in required")
			c.Abort()
			return
		}
		c.Set(actorContextKey, id)
		c.Next()
	}
}

// GetActorID returns the acting user's id from the request context.
func GetActorID(c *gin.Context) (uint64, bool) {
	v, exists := c.Get(actorContextKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}
