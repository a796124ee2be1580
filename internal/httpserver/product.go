package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ndanilov/inventory_api/internal/apperror"
	"github.com/ndanilov/inventory_api/internal/service"
	"github.com/ndanilov/inventory_api/internal/transport"
)

type ProductHandler struct {
	Service *service.ProductService
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func productID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, apperror.New(apperror.InvalidInput, "id must be an integer")
	}
	return id, nil
}

func (h *ProductHandler) List(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("pageNumber"), 1)
	size := parseIntDefault(c.QueryParam("pageSize"), 0)

	res, err := h.Service.List(c.Request().Context(), page, size,
		c.QueryParam("name"), c.QueryParam("sortByPrice"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK("products", res))
}

func (h *ProductHandler) Get(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	product, err := h.Service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK("product", product))
}

func (h *ProductHandler) Create(c echo.Context) error {
	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return apperror.Wrap(apperror.InvalidInput, "invalid request body", err)
	}

	product, err := h.Service.Create(c.Request().Context(), req.Name, req.Description, req.Price)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, transport.OK("product created", product))
}

func (h *ProductHandler) Update(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return apperror.Wrap(apperror.InvalidInput, "invalid request body", err)
	}

	product, err := h.Service.Update(c.Request().Context(), id, req.Name, req.Description, req.Price)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK("product updated", product))
}

func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	deletedID, err := h.Service.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK("product deleted", transport.DeleteResponse{DeletedID: deletedID}))
}
