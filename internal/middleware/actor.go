package middleware

import (
	"github.com/gin-gonic/gin"
)

const actorKey = "actorUserID"

// ActorHeader carries the identity of the operator performing the request.
const ActorHeader = "X-Actor-ID"

// ActorMiddleware resolves the acting user for audit fields. There is no
// authentication layer; the header is trusted intake metadata and falls back
// to the configured system user.
func ActorMiddleware(defaultActor string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := c.GetHeader(ActorHeader)
		if actor == "" {
			actor = defaultActor
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// GetActorFromContext returns the acting user ID set by ActorMiddleware.
func GetActorFromContext(c *gin.Context) (string, bool) {
	actor, ok := c.Get(actorKey)
	if !ok {
		return "", false
	}
	s, ok := actor.(string)
	return s, ok && s != ""
}
