package validation

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BodyLimitMiddleware rejects bodies larger than maxBytes. Declared lengths
// are refused up front with 413; chunked bodies are capped so decoding fails.
// maxBytes <= 0 disables the limit.
func BodyLimitMiddleware(logger *zap.Logger, maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBytes {
			logger.Warn("Request body too large",
				zap.Int64("content_length", c.Request.ContentLength),
				zap.Int64("max", maxBytes),
				zap.String("client_ip", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"errors": []FieldError{{Field: "body", Message: "Request body too large"}},
			})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
