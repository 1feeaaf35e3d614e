package echoapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/alumniconnect/alumniconnect/core"
	"github.com/alumniconnect/alumniconnect/core/user"
)

var (
	contextUserKey  = "user"
	contextTokenKey = "sessionToken"
)

// authenticate checks the given credentials against the user store.
// Credential errors and unknown emails both resolve to the same
// response so an attacker cannot probe for registered addresses.
func authenticate(ctx context.Context, email, pwd string, svc user.ServiceInterface) (user.User, error) {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return user.User{}, errAuthenticationFailed
		}
		return user.User{}, errors.Wrap(err, "finding user by email")
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return user.User{}, errAuthenticationFailed
	}
	if usr.IsActive != nil && !*usr.IsActive {
		return user.User{}, errAccountDeactivated
	}
	usr, err = svc.SetLastLogin(ctx, usr)
	if err != nil {
		return user.User{}, errors.Wrap(err, "setting lastLogin")
	}
	return usr, nil
}

// Session cookie

func setSessionCookie(ctx echo.Context, conf *core.Config, token string, expiresAt time.Time) {
	ctx.SetCookie(&http.Cookie{
		Name:     conf.Server.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !conf.Debug,
	})
}

func clearSessionCookie(ctx echo.Context, conf *core.Config) {
	ctx.SetCookie(&http.Cookie{
		Name:     conf.Server.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !conf.Debug,
	})
}

func getSessionToken(ctx echo.Context, conf *core.Config) string {
	cookie, err := ctx.Cookie(conf.Server.SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func getContextUser(ctx echo.Context) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}
	return user.User{}, errUnauthorized
}

// Admin token

// AdminClaims is the payload of the signed admin token handed to the
// client on admin login. Admin endpoints never trust it; they are
// guarded by the server-side session. The client persists it to drive
// its own admin routing.
type AdminClaims struct {
	jwt.StandardClaims
	Name  string   `json:"name,omitempty"`
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

// AdminToken is the `{value, expiry}` pair persisted by the client;
// Expiry is in epoch milliseconds.
type AdminToken struct {
	Value  string `json:"value"`
	Expiry int64  `json:"expiry"`
}

// GenerateAdminToken signs an AdminToken for the given admin user.
func GenerateAdminToken(conf *core.Config, usr user.User) (AdminToken, error) {
	now := time.Now()
	expiresAt := now.Add(conf.Server.AdminTokenDuration)

	claims := &AdminClaims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   usr.ID,
			ExpiresAt: expiresAt.Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:  usr.Name,
		Email: usr.Email,
		Roles: usr.Roles,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return AdminToken{}, errors.Wrap(err, "signing admin token")
	}
	return AdminToken{Value: ss, Expiry: expiresAt.UnixMilli()}, nil
}

// ParseAdminToken verifies the signature and expiry of a client-held
// admin token value.
func ParseAdminToken(conf *core.Config, value string) (*AdminClaims, error) {
	claims := new(AdminClaims)
	token, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return []byte(conf.SecretKey), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "parsing admin token")
	}
	if !token.Valid {
		return nil, errors.New("invalid admin token")
	}
	return claims, nil
}
