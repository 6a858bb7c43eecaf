package echoapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/chamadaweb/chamada/core"
)

const msgInternalError = "Internal server error"

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(conf *core.Config, logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	showDetails := conf.Debug || conf.TestMode

	return func(err error, ctx echo.Context) {
		var (
			code int
			resp ErrorResponse
		)

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			if code == http.StatusNotFound || code == http.StatusMethodNotAllowed {
				// unmatched (path, method) pairs are all "not found"
				code = http.StatusNotFound
				resp.Error = fmt.Sprintf("Route %s not found", routePath(ctx, conf.Server.BasePath))
				break
			}
			resp.Error = fmt.Sprint(origErr.Message)
		case *core.ValidationError:
			code = http.StatusBadRequest
			resp.Error = origErr.Error()
			if len(origErr.Fields) > 0 {
				resp.Fields = make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					resp.Fields[fErr.Field] = fErr.Error
				}
			}
		case *core.ConflictError:
			code = http.StatusConflict
			resp.Error = origErr.Error()
		case *core.NotFoundError:
			code = http.StatusNotFound
			resp.Error = origErr.Error()
		case *core.AuthError:
			code = http.StatusUnauthorized
			resp.Error = origErr.Error()
		default: // any other error is a server error
			code = http.StatusInternalServerError
			resp.Error = msgInternalError
			if showDetails {
				resp.Details = err.Error()
			}
			logger.Error(msgInternalError, errors.Wrap(err, ctx.Request().Method+" "+ctx.Request().URL.Path))

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, resp)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

// routePath is the request path relative to the API base path.
func routePath(ctx echo.Context, basePath string) string {
	path := strings.TrimPrefix(ctx.Request().URL.Path, basePath)
	if path == "" {
		path = "/"
	}
	return path
}
