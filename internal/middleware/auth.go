package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ndanilov/inventory_api/internal/apperror"
	"github.com/ndanilov/inventory_api/internal/token"
)

const (
	ctxUsername = "username"
	ctxRole     = "role"
	ctxEmail    = "email"
)

// Gate enforces the per-route access modes: public routes take no gate,
// RequireAuth demands a valid bearer token, RequireRole additionally demands
// a matching role claim.
type Gate struct {
	Tokens *token.Issuer
}

func (g *Gate) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return err
		}

		claims, err := g.Tokens.Parse(raw)
		if err != nil {
			return err
		}

		c.Set(ctxUsername, claims.Username)
		c.Set(ctxRole, claims.Role)
		c.Set(ctxEmail, claims.Email)
		return next(c)
	}
}

func (g *Gate) RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return g.RequireAuth(func(c echo.Context) error {
			if Role(c) != role {
				return apperror.New(apperror.Forbidden, "insufficient permissions")
			}
			return next(c)
		})
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", apperror.New(apperror.Unauthenticated, "missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", apperror.New(apperror.Unauthenticated, "malformed authorization header")
	}
	raw := strings.TrimSpace(parts[1])
	if raw == "" {
		return "", apperror.New(apperror.Unauthenticated, "malformed authorization header")
	}
	return raw, nil
}

// Username returns the authenticated identity, empty when the route is public.
func Username(c echo.Context) string {
	if v, ok := c.Get(ctxUsername).(string); ok {
		return v
	}
	return ""
}

func Role(c echo.Context) string {
	if v, ok := c.Get(ctxRole).(string); ok {
		return v
	}
	return ""
}
