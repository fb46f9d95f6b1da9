package handlers

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/codekart/codekart/internal/es"
	"github.com/codekart/codekart/internal/util"
)

type SearchHandler struct {
	ES *elasticsearch.Client
}

func (h *SearchHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return Fail(c, http.StatusBadRequest, "query is required")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total, products, err := es.SearchProducts(c.Request().Context(), h.ES, q, from, limit)
	if err != nil {
		c.Logger().Errorf("search error: %v", err)
		return Fail(c, http.StatusInternalServerError, "search failed")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"total":   total,
		"data":    products,
	})
}
