package api

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/safar/storefront/internal/config"
	"github.com/safar/storefront/internal/database"
	"github.com/safar/storefront/internal/events"
	"github.com/safar/storefront/internal/store"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

type Handler struct {
	db        *sql.DB
	cfg       *config.Config
	rdb       *redis.Client
	publisher *events.Publisher
}

func NewHandler(db *sql.DB, cfg *config.Config, rdb *redis.Client, publisher *events.Publisher) *Handler {
	return &Handler{db: db, cfg: cfg, rdb: rdb, publisher: publisher}
}

// Register wires every route onto e.
func (h *Handler) Register(e *echo.Echo) {
	e.POST("/signup", h.Signup)
	e.POST("/login", h.Login)

	e.GET("/products", h.ListProducts)
	e.POST("/products", h.AddProduct)
	e.GET("/products/:id", h.GetProduct)
	e.PUT("/products/:id", h.UpdateProduct)
	e.DELETE("/products/:id", h.DeleteProduct)
	e.GET("/autocomplete", h.Autocomplete)
	e.GET("/accessories", h.ListAccessories)
	e.GET("/store-locations", h.ListStoreLocations)

	e.GET("/inventory/products", h.Inventory)
	e.GET("/inventory/products/bar-chart", h.InventoryBarChart)
	e.GET("/inventory/products/sale", h.ProductsOnSale)
	e.GET("/inventory/products/rebates", h.ProductsWithRebates)

	e.POST("/place-order", h.PlaceOrder)
	e.GET("/past-orders/:userID", h.PastOrders)
	e.DELETE("/cancel-order/:orderID", h.CancelOrder)
	e.GET("/orders", h.ListOrders)
	e.POST("/orders", h.AddOrder)
	e.GET("/orders/:id", h.GetOrder)
	e.PUT("/orders/:id", h.UpdateOrder)
	e.DELETE("/orders/:id", h.DeleteOrder)

	e.GET("/trending/top-zipcodes", h.TopZipCodes)
	e.GET("/trending/most-sold", h.MostSoldProducts)
	e.GET("/trending/popular-products-by-category", h.PopularProductsByCategory)

	e.GET("/sales-report/products-sold", h.ProductsSold)
	e.GET("/sales-report/products-sales-chart", h.ProductSalesChart)
	e.GET("/sales-report/daily-sales", h.DailySales)
	e.GET("/sales-report/top-customers", h.TopCustomers)
	e.GET("/sales-report/customer-retention", h.CustomerRetention)
	e.GET("/sales-report/average-sales", h.AverageSales)

	e.GET("/analytics/customer-segmentation", h.CustomerSegmentation)
	e.GET("/analytics/product-cross-sell", h.CrossSell)
	e.GET("/analytics/customer-lifetime-value", h.LifetimeValue)
	e.GET("/analytics/seasonal-sales-analysis", h.SeasonalSales)
	e.GET("/analytics/purchase-frequency", h.PurchaseFrequency)

	e.GET("/customers/inactive", h.InactiveCustomers)

	e.GET("/health", h.Health)
}

func (h *Handler) Health(c echo.Context) error {
	if err := h.db.PingContext(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// fail maps a core error onto the response contract: 400 validation, 404
// not-found, 409 insufficient stock, 503 when the store is unreachable, 500
// everything else with the underlying cause echoed for diagnostics.
func fail(c echo.Context, message string, err error) error {
	switch {
	case errors.Is(err, store.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	case errors.Is(err, database.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
	case errors.Is(err, database.ErrProductNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
	case errors.Is(err, database.ErrOrderNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Order not found"})
	case errors.Is(err, database.ErrInsufficientStock):
		return c.JSON(http.StatusConflict, echo.Map{"message": "Insufficient stock"})
	case database.IsUnavailable(err):
		logger.Error().Err(err).Msg(message)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"message": "Service unavailable"})
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to write.
		return nil
	default:
		logger.Error().Err(err).Msg(message)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": message, "error": err.Error()})
	}
}

// respond finishes the read-only endpoints, which all share the same shape:
// 200 with rows, or the mapped failure.
func respond(c echo.Context, message string, result any, err error) error {
	if err != nil {
		return fail(c, message, err)
	}
	return c.JSON(http.StatusOK, result)
}
