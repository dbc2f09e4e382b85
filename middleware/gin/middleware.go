package ginmw

import (
	"github.com/gin-gonic/gin"

	goserde "github.com/reoring/goserde"
	"github.com/reoring/goserde/middleware"
)

// Bind decodes the request body with s (JSON or CBOR by Content-Type),
// stores the value in the request context, and on failure aborts with the
// Issues payload.
func Bind[T any](s goserde.Serializer[T], f middleware.Formats) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := middleware.Decode(c.Request, s, f)
		if err != nil {
			if iss, ok := goserde.AsIssues(err); ok {
				c.AbortWithStatusJSON(middleware.StatusFor(err), middleware.ErrorPayload(iss))
				return
			}
			c.AbortWithStatusJSON(middleware.StatusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithDecoded(c.Request.Context(), v))
		c.Next()
	}
}

// GetDecoded fetches the value stored by Bind.
func GetDecoded[T any](c *gin.Context) (T, bool) {
	return middleware.DecodedFromContext[T](c.Request.Context())
}

// Respond writes v with s in the format the client accepts. Errors are
// recorded on the context.
func Respond[T any](c *gin.Context, status int, s goserde.Serializer[T], v T, f middleware.Formats) {
	if err := middleware.Encode(c.Writer, c.Request, status, s, v, f); err != nil {
		_ = c.Error(err)
	}
}
