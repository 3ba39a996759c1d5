package echoapi

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func adminMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsAdmin && contextHasAnyRole(ctx, roles) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// gestorMiddleware allows gestores and admins through.
func gestorMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsAdmin || claims.IsGestor {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

func noCacheMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		ctx.Response().Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		return next(ctx)
	}
}

// timeoutMiddleware cancels the request context after d; handlers that honor
// it bail out and the client gets a 408.
func timeoutMiddleware(d time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), d)
			defer cancel()

			ctx.SetRequest(ctx.Request().WithContext(reqCtx))
			err := next(ctx)
			if reqCtx.Err() == context.DeadlineExceeded {
				return echo.NewHTTPError(http.StatusRequestTimeout, "request timed out")
			}
			return err
		}
	}
}
