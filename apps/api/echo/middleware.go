package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	corsAllowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization"
)

// corsMiddleware sets the CORS headers on every response, whether or not the request carries an
// Origin, and answers OPTIONS requests with an empty 200 before routing.
func corsMiddleware(origins string) echo.MiddlewareFunc {
	if origins == "" {
		origins = "*"
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			h := ctx.Response().Header()
			h.Set(echo.HeaderAccessControlAllowOrigin, origins)
			h.Set(echo.HeaderAccessControlAllowMethods, corsAllowMethods)
			h.Set(echo.HeaderAccessControlAllowHeaders, corsAllowHeaders)
			h.Set(echo.HeaderAccessControlAllowCredentials, "true")

			if ctx.Request().Method == http.MethodOptions {
				return ctx.NoContent(http.StatusOK)
			}
			return next(ctx)
		}
	}
}
