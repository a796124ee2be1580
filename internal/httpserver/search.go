package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ndanilov/inventory_api/internal/service"
	"github.com/ndanilov/inventory_api/internal/transport"
)

type SearchHandler struct {
	Service *service.SearchService
}

func (h *SearchHandler) Search(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("pageNumber"), 1)
	size := parseIntDefault(c.QueryParam("pageSize"), 0)

	res, err := h.Service.Search(c.Request().Context(), c.QueryParam("q"), page, size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK("search results", res))
}
