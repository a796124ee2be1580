package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ndanilov/inventory_api/internal/apperror"
	"github.com/ndanilov/inventory_api/internal/middleware"
	"github.com/ndanilov/inventory_api/internal/service"
	"github.com/ndanilov/inventory_api/internal/transport"
)

type AuthHandler struct {
	Service *service.AuthService
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.Wrap(apperror.InvalidInput, "invalid request body", err)
	}

	res, err := h.Service.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, transport.OK("login successful", transport.LoginResponse{
		Token:      res.Token,
		Expiration: res.Expiration,
		User:       res.User,
	}))
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperror.Wrap(apperror.InvalidInput, "invalid request body", err)
	}

	user, err := h.Service.Register(c.Request().Context(), req.Username, req.Password, req.Email, req.Role)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, transport.OK("user registered", user))
}

func (h *AuthHandler) ListUsers(c echo.Context) error {
	users, err := h.Service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK("users", users))
}

func (h *AuthHandler) Profile(c echo.Context) error {
	user, err := h.Service.Profile(c.Request().Context(), middleware.Username(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK("profile", user))
}
