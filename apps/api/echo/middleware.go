package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/alumniconnect/alumniconnect/core"
	"github.com/alumniconnect/alumniconnect/core/session"
	"github.com/alumniconnect/alumniconnect/core/user"
)

// sessionMiddleware resolves the session cookie to its user. Any
// failure fails closed: the cookie is purged and the request is
// rejected with 401 so identity probes never leak partial state.
func sessionMiddleware(conf *core.Config, svc *session.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token := getSessionToken(ctx, conf)
			usr, err := svc.Resolve(ctx.Request().Context(), token)
			if err != nil {
				clearSessionCookie(ctx, conf)
				return errUnauthorized
			}
			ctx.Set(contextUserKey, usr)
			ctx.Set(contextTokenKey, token)
			return next(ctx)
		}
	}
}

func roleMiddleware(check func(*user.User) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return err
			}
			if !check(&usr) {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}

func studentMiddleware() echo.MiddlewareFunc {
	return roleMiddleware((*user.User).IsStudent)
}

func alumniMiddleware() echo.MiddlewareFunc {
	return roleMiddleware((*user.User).IsAlumni)
}

func adminMiddleware() echo.MiddlewareFunc {
	return roleMiddleware((*user.User).IsAdmin)
}
