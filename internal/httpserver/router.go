package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/ndanilov/inventory_api/internal/middleware"
	"github.com/ndanilov/inventory_api/internal/models"
)

type Deps struct {
	AuthHandler    *AuthHandler
	ProductHandler *ProductHandler
	SearchHandler  *SearchHandler
	Gate           *middleware.Gate
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(204) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(204) })

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/register", d.AuthHandler.Register)
	auth.GET("/users", d.AuthHandler.ListUsers, d.Gate.RequireRole(models.RoleAdmin))
	auth.GET("/profile", d.AuthHandler.Profile, d.Gate.RequireAuth)

	products := api.Group("/products")
	products.GET("", d.ProductHandler.List, d.Gate.RequireAuth)
	products.GET("/search", d.SearchHandler.Search, d.Gate.RequireAuth)
	products.GET("/:id", d.ProductHandler.Get, d.Gate.RequireAuth)
	products.POST("", d.ProductHandler.Create, d.Gate.RequireRole(models.RoleAdmin))
	products.PUT("/:id", d.ProductHandler.Update, d.Gate.RequireRole(models.RoleAdmin))
	products.DELETE("/:id", d.ProductHandler.Delete, d.Gate.RequireRole(models.RoleAdmin))
}
