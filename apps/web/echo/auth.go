package echoweb

import (
	"context"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/darsban/core"
	"github.com/trezcool/darsban/core/user"
)

const (
	contextTokenKey = "userToken"
	contextUserKey  = "user"
)

// Claims represents the authorization claims transmitted via a JWT,
// either in the session cookie or as an API bearer token.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64  `json:"oriat,omitempty"`
	Username     string `json:"username,omitempty"`
	Name         string `json:"name,omitempty"`
	Role         string `json:"role,omitempty"`
	School       string `json:"school,omitempty"`
	Student      string `json:"student,omitempty"`
}

type authenticator struct {
	conf    *core.Config
	svc     *user.Service
	nowFunc func() time.Time
}

func newAuthenticator(conf *core.Config, svc *user.Service) *authenticator {
	return &authenticator{conf: conf, svc: svc, nowFunc: time.Now}
}

func (a *authenticator) jwtConfig(lookup string) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(a.conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
		TokenLookup:   lookup,
	}
}

// sessionJWT reads the token from the session cookie.
func (a *authenticator) sessionJWT() echo.MiddlewareFunc {
	return middleware.JWTWithConfig(a.jwtConfig("cookie:" + a.conf.Server.SessionCookie))
}

// bearerJWT reads the token from the Authorization header.
func (a *authenticator) bearerJWT() echo.MiddlewareFunc {
	return middleware.JWTWithConfig(a.jwtConfig("header:" + echo.HeaderAuthorization))
}

func (a *authenticator) claimsFor(usr user.User, origIat ...int64) *Claims {
	now := a.nowFunc()
	nownix := now.Unix()

	oriat := nownix
	if len(origIat) > 0 {
		oriat = origIat[0]
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    a.conf.AppName,
			Subject:   usr.ID,
			Audience:  usr.School,
			ExpiresAt: now.Add(a.conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		Username:     usr.Username,
		Name:         usr.Name,
		Role:         usr.Role,
		School:       usr.School,
		Student:      usr.StudentName(),
	}
}

// login checks the credentials and returns a signed token for the user.
func (a *authenticator) login(ctx context.Context, uname, pwd string) (user.User, string, error) {
	usr, err := a.svc.Authenticate(ctx, uname, pwd)
	if err != nil {
		if err == user.ErrInvalidCredentials {
			return user.User{}, "", errAuthenticationFailed
		}
		return user.User{}, "", errors.Wrap(err, "authenticating")
	}
	token, err := a.generateToken(a.claimsFor(usr))
	if err != nil {
		return user.User{}, "", errors.Wrap(err, "generating token")
	}
	return usr, token, nil
}

// generateToken generates a signed JWT token string representing the user Claims.
func (a *authenticator) generateToken(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(a.conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// parseToken validates a raw token outside of the JWT middleware.
func (a *authenticator) parseToken(raw string) (Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != middleware.AlgorithmHS256 {
			return nil, errors.Errorf("unexpected jwt signing method=%v", t.Header["alg"])
		}
		return []byte(a.conf.SecretKey), nil
	})
	if err != nil || !token.Valid {
		return Claims{}, errUnauthorized
	}
	return *claims, nil
}

// sessionClaims returns the claims of a valid session cookie, if any, on
// routes that are not guarded by the JWT middleware.
func (a *authenticator) sessionClaims(ctx echo.Context) (Claims, bool) {
	cookie, err := ctx.Cookie(a.conf.Server.SessionCookie)
	if err != nil || cookie.Value == "" {
		return Claims{}, false
	}
	claims, err := a.parseToken(cookie.Value)
	return claims, err == nil
}

func (a *authenticator) setSession(ctx echo.Context, token string) {
	ctx.SetCookie(&http.Cookie{
		Name:     a.conf.Server.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  a.nowFunc().Add(a.conf.Server.JWTExpirationDelta),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *authenticator) clearSession(ctx echo.Context) {
	ctx.SetCookie(&http.Cookie{
		Name:     a.conf.Server.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func (a *authenticator) contextUser(ctx echo.Context, clms ...Claims) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}

	var claims Claims
	var err error
	if len(clms) > 0 {
		claims = clms[0]
	} else {
		claims, err = getContextClaims(ctx)
		if err != nil {
			return user.User{}, errors.Wrap(err, "getting context claims")
		}
	}

	usr, err := a.svc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		if err == user.ErrNotFound { // stale token, e.g. issued before a restart
			return user.User{}, errUnauthorized
		}
		return user.User{}, errors.Wrap(err, "finding user by ID")
	}
	ctx.Set(contextUserKey, usr)
	return usr, nil
}

func (a *authenticator) refreshToken(ctx echo.Context) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting context claims")
	}

	usr, err := a.contextUser(ctx, claims)
	if err != nil {
		return "", errors.Wrap(err, "getting context user")
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(a.conf.Server.JWTRefreshExpirationDelta)
	if a.nowFunc().After(expTime) {
		return "", errRefreshExpired
	}

	token, err := a.generateToken(a.claimsFor(usr, claims.OrigIssuedAt))
	return token, errors.Wrap(err, "generating token")
}
