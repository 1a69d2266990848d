package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Statistics handles GET /api/products/statistics for the admin dashboard:
// total product count, average option price, the most expensive and
// lowest-stock products, and the most popular product by order rows.
func (h *AdminProductHandler) Statistics(c echo.Context) error {
	st, err := h.Products.GetStatistics(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, st)
}
