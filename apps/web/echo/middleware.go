package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/darsban/core"
	"github.com/trezcool/darsban/core/i18n"
)

const (
	contextLocaleKey = "locale"
	contextCSRFKey   = "csrf"
	langCookie       = "darsban_lang"
	csrfField        = "_csrf"
)

// roleMiddleware lets through users holding one of roles.
func roleMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}

// localeMiddleware picks the language of the request and remembers an
// explicit ?lang= choice in a cookie.
func localeMiddleware(conf *core.Config) echo.MiddlewareFunc {
	fallback, ok := i18n.Parse(conf.DefaultLang)
	if !ok {
		fallback = i18n.Persian
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			var stored string
			if cookie, err := ctx.Cookie(langCookie); err == nil {
				stored = cookie.Value
			}
			choice := ctx.QueryParam("lang")
			loc := i18n.NewLocale(i18n.Resolve(choice, stored, ctx.Request().Header.Get("Accept-Language"), fallback))

			if _, ok := i18n.Parse(choice); ok && choice != stored {
				ctx.SetCookie(&http.Cookie{
					Name:     langCookie,
					Value:    loc.Lang(),
					Path:     "/",
					MaxAge:   365 * 24 * 60 * 60,
					SameSite: http.SameSiteLaxMode,
				})
			}
			ctx.Set(contextLocaleKey, loc)
			return next(ctx)
		}
	}
}

func contextLocale(ctx echo.Context) i18n.Locale {
	if loc, ok := ctx.Get(contextLocaleKey).(i18n.Locale); ok {
		return loc
	}
	return i18n.NewLocale(i18n.Persian)
}

func csrfMiddleware() echo.MiddlewareFunc {
	return middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "form:" + csrfField,
		ContextKey:     contextCSRFKey,
		CookieName:     csrfField,
		CookiePath:     "/",
		CookieHTTPOnly: true,
	})
}

func contextCSRF(ctx echo.Context) string {
	token, _ := ctx.Get(contextCSRFKey).(string)
	return token
}
