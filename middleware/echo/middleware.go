package echomw

import (
	"github.com/labstack/echo/v4"

	goserde "github.com/reoring/goserde"
	"github.com/reoring/goserde/middleware"
)

// Bind decodes the request body with s (JSON or CBOR by Content-Type),
// stores the value in the request context on success, or answers with the
// Issues payload when decoding fails.
func Bind[T any](s goserde.Serializer[T], f middleware.Formats) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v, err := middleware.Decode(c.Request(), s, f)
			if err != nil {
				if iss, ok := goserde.AsIssues(err); ok {
					return c.JSON(middleware.StatusFor(err), middleware.ErrorPayload(iss))
				}
				return c.JSON(middleware.StatusFor(err), map[string]any{"error": err.Error()})
			}
			ctx := middleware.ContextWithDecoded(c.Request().Context(), v)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetDecoded fetches the value stored by Bind.
func GetDecoded[T any](c echo.Context) (T, bool) {
	return middleware.DecodedFromContext[T](c.Request().Context())
}

// Respond writes v with s in the format the client accepts.
func Respond[T any](c echo.Context, status int, s goserde.Serializer[T], v T, f middleware.Formats) error {
	return middleware.Encode(c.Response(), c.Request(), status, s, v, f)
}
