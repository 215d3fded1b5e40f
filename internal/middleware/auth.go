package middleware // middleware contains reusable HTTP middleware functions

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// HeaderAuthToken is the fixed request header carrying the auth credential.
const HeaderAuthToken = "X-Auth-Token"

// Context keys populated by TokenAuth for downstream middleware and
// handlers.
const (
	CtxUserID    = "user_id"
	CtxFirstName = "first_name"
	CtxLastName  = "last_name"
	CtxIsAdmin   = "is_admin"
)

// TokenAuth returns an Echo middleware that validates the X-Auth-Token
// JWT and injects the token's identity claims into the request context.
// The provided secret must match the one used when issuing tokens. A
// missing, malformed, badly signed or expired token is rejected with 401;
// privilege checks are left to RequireAdmin.
func TokenAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(HeaderAuthToken)
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "access denied, no token provided"})
			}

			// Parse with the HS256 secret; reject tokens signed with any
			// other method so an attacker cannot downgrade to "none".
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			// Numeric JSON claims decode as float64.
			uid, ok := claims["sub"].(float64)
			if !ok || uid <= 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			admin, _ := claims["admin"].(bool)
			first, _ := claims["first_name"].(string)
			last, _ := claims["last_name"].(string)

			c.Set(CtxUserID, uint64(uid))
			c.Set(CtxFirstName, first)
			c.Set(CtxLastName, last)
			c.Set(CtxIsAdmin, admin)
			return next(c)
		}
	}
}
