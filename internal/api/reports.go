package api

import (
	"github.com/labstack/echo/v4"
	"github.com/safar/storefront/internal/analytics"
)

func (h *Handler) TopZipCodes(c echo.Context) error {
	rows, err := analytics.TopZipCodes(c.Request().Context(), h.db)
	return respond(c, "Error fetching top zip codes", rows, err)
}

func (h *Handler) MostSoldProducts(c echo.Context) error {
	rows, err := analytics.MostSoldProducts(c.Request().Context(), h.db)
	return respond(c, "Error fetching most sold products", rows, err)
}

func (h *Handler) PopularProductsByCategory(c echo.Context) error {
	rows, err := analytics.PopularProductsByCategory(c.Request().Context(), h.db)
	return respond(c, "Error fetching popular products by category", rows, err)
}

func (h *Handler) ProductsSold(c echo.Context) error {
	rows, err := analytics.ProductsSold(c.Request().Context(), h.db)
	return respond(c, "Error fetching sold products", rows, err)
}

func (h *Handler) ProductSalesChart(c echo.Context) error {
	rows, err := analytics.ProductSalesChart(c.Request().Context(), h.db)
	return respond(c, "Error fetching sales chart data", rows, err)
}

func (h *Handler) DailySales(c echo.Context) error {
	rows, err := analytics.DailySales(c.Request().Context(), h.db)
	return respond(c, "Error fetching daily sales", rows, err)
}

func (h *Handler) TopCustomers(c echo.Context) error {
	rows, err := analytics.TopCustomers(c.Request().Context(), h.db)
	return respond(c, "Error fetching top customers", rows, err)
}

func (h *Handler) CustomerRetention(c echo.Context) error {
	result, err := analytics.CustomerRetention(c.Request().Context(), h.db)
	return respond(c, "Error calculating customer retention rate", result, err)
}

func (h *Handler) AverageSales(c echo.Context) error {
	result, err := analytics.AverageSales(c.Request().Context(), h.db)
	return respond(c, "Error fetching average sales", result, err)
}

func (h *Handler) CustomerSegmentation(c echo.Context) error {
	rows, err := analytics.CustomerSegmentation(c.Request().Context(), h.db)
	return respond(c, "Error fetching customer segmentation data", rows, err)
}

func (h *Handler) CrossSell(c echo.Context) error {
	rows, err := analytics.CrossSell(c.Request().Context(), h.db)
	return respond(c, "Error fetching cross-sell data", rows, err)
}

func (h *Handler) LifetimeValue(c echo.Context) error {
	rows, err := analytics.LifetimeValue(c.Request().Context(), h.db)
	return respond(c, "Error fetching customer lifetime value data", rows, err)
}

func (h *Handler) SeasonalSales(c echo.Context) error {
	rows, err := analytics.SeasonalSales(c.Request().Context(), h.db)
	return respond(c, "Error fetching seasonal sales analysis data", rows, err)
}

func (h *Handler) PurchaseFrequency(c echo.Context) error {
	rows, err := analytics.PurchaseFrequency(c.Request().Context(), h.db)
	return respond(c, "Error fetching purchase frequency data", rows, err)
}

func (h *Handler) InactiveCustomers(c echo.Context) error {
	rows, err := analytics.InactiveCustomers(c.Request().Context(), h.db)
	return respond(c, "Error fetching inactive customers", rows, err)
}
