package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	userIDKey = "userID"
	roleKey   = "role"

	RoleUser  = "user"
	RoleAdmin = "admin"
)

func CreateCookie(name, value, path string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func setUserContext(c echo.Context, claims jwt.MapClaims) {
	if sub, ok := claims["sub"].(float64); ok {
		c.Set(userIDKey, uint(sub))
	}
	if role, ok := claims[roleKey].(string); ok {
		c.Set(roleKey, role)
	}
}

// UserID returns the authenticated actor id set by the middleware.
func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(userIDKey).(uint)
	return id, ok
}

// Role returns the actor role, empty for guests.
func Role(c echo.Context) string {
	role, _ := c.Get(roleKey).(string)
	return role
}

func IsAdmin(c echo.Context) bool {
	return Role(c) == RoleAdmin
}

// authenticate resolves the cookie pair into request context, rotating an
// expired access token through the stored refresh token if possible.
func (t *TokenService) authenticate(c echo.Context) error {
	if cookie, err := c.Cookie("accessToken"); err == nil {
		claims, err := ParseAccess(cookie.Value, t.JWTSecret)
		if err == nil {
			setUserContext(c, claims)
			return nil
		}
		if !errors.Is(err, jwt.ErrTokenExpired) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
	}

	rfCookie, err := c.Cookie("refreshToken")
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing auth cookie")
	}

	newAccess, newRefresh, claims, err := t.RotateToken(rfCookie.Value)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	c.SetCookie(CreateCookie("accessToken", newAccess, "/", time.Now().Add(AccessTokenTTL)))
	c.SetCookie(CreateCookie("refreshToken", newRefresh, "/", time.Now().Add(RefreshTokenTTL)))
	setUserContext(c, claims)
	return nil
}

// RequireLogin rejects guests with 401.
func (t *TokenService) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := t.authenticate(c); err != nil {
			return err
		}
		return next(c)
	}
}

// RequireAdmin rejects everything but the admin role.
func (t *TokenService) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := t.authenticate(c); err != nil {
			return err
		}
		if !IsAdmin(c) {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return next(c)
	}
}

// OptionalUser sets the actor context when a valid cookie is present and
// lets guests through untouched. Used by the public checkout routes so an
// order can be attributed to a logged-in customer.
func (t *TokenService) OptionalUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if cookie, err := c.Cookie("accessToken"); err == nil {
			if claims, err := ParseAccess(cookie.Value, t.JWTSecret); err == nil {
				setUserContext(c, claims)
			}
		}
		return next(c)
	}
}
