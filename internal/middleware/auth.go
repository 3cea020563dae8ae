package middleware

import (
	"net/http"

	"kedai-be/internal/auth"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware resolves the bearer token into an Actor and stores it in the
// request context. Requests without a token pass through anonymously; guarded
// routes use RequireActor.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := auth.ExtractAccessToken(c.Request)
		if tokenStr == "" {
			c.Next()
			return
		}

		actor, err := auth.ParseActor(tokenStr, secret)
		if err != nil {
			c.Next()
			return
		}

		c.Request = c.Request.WithContext(auth.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}

// RequireActor rejects requests that did not authenticate.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := auth.ActorFrom(c.Request.Context()); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
