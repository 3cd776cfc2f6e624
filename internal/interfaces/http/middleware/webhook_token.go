package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// WebhookTokenHeader carries the shared secret the payment provider sends
// with every delivery.
const WebhookTokenHeader = "asaas-access-token"

// WebhookTokenMiddleware authenticates webhook deliveries against the
// configured shared secret. The comparison is constant-time: this header is
// the endpoint's only authentication, so it must not leak through timing.
// An empty configured token rejects everything (fail closed).
func WebhookTokenMiddleware(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(WebhookTokenHeader)
		if expected == "" || got == "" ||
			subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid webhook token",
			})
			return
		}
		c.Next()
	}
}
