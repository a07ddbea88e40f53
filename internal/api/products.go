package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/safar/storefront/internal/store"
	"github.com/shopspring/decimal"
)

type productRequest struct {
	Name        string           `json:"name"`
	Price       decimal.Decimal  `json:"price"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Accessories string           `json:"accessories"`
	Image       string           `json:"image"`
	Discount    *decimal.Decimal `json:"discount"`
	Rebate      *decimal.Decimal `json:"rebate"`
	Warranty    string           `json:"warranty"`
	Stock       int              `json:"stock"`
}

func (h *Handler) ListProducts(c echo.Context) error {
	products, err := store.ListProducts(c.Request().Context(), h.db, c.QueryParam("category"))
	return respond(c, "Error fetching products", products, err)
}

func (h *Handler) AddProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request payload"})
	}

	product, err := store.CreateProduct(c.Request().Context(), h.db, store.ProductInput{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Category:    req.Category,
		Accessories: req.Accessories,
		Image:       req.Image,
		Discount:    req.Discount,
		Rebate:      req.Rebate,
		Warranty:    req.Warranty,
		Stock:       req.Stock,
	})
	if err != nil {
		return fail(c, "Error adding product", err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message":   "Product added successfully",
		"productId": product.ID,
	})
}

func (h *Handler) GetProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid product ID"})
	}

	product, err := store.GetProduct(c.Request().Context(), h.db, id)
	return respond(c, "Error fetching product details", product, err)
}

func (h *Handler) UpdateProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid product ID"})
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request payload"})
	}

	err = store.UpdateProduct(c.Request().Context(), h.db, id,
		req.Name, req.Price, req.Description, req.Category, req.Accessories, req.Image)
	if err != nil {
		return fail(c, "Error updating product", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Product updated successfully"})
}

func (h *Handler) DeleteProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid product ID"})
	}

	if err := store.DeleteProduct(c.Request().Context(), h.db, id); err != nil {
		return fail(c, "Error deleting product", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}

func (h *Handler) Autocomplete(c echo.Context) error {
	suggestions, err := store.SearchProducts(c.Request().Context(), h.db, c.QueryParam("q"))
	return respond(c, "Error fetching autocomplete suggestions", suggestions, err)
}

func (h *Handler) ListAccessories(c echo.Context) error {
	productID, _ := strconv.ParseInt(c.QueryParam("productId"), 10, 64)
	accessories, err := store.ListAccessories(c.Request().Context(), h.db, productID)
	return respond(c, "Error fetching accessories", accessories, err)
}

func (h *Handler) ListStoreLocations(c echo.Context) error {
	locations, err := store.ListStoreLocations(c.Request().Context(), h.db)
	return respond(c, "Error fetching store locations", locations, err)
}

func (h *Handler) Inventory(c echo.Context) error {
	inventory, err := store.ListInventory(c.Request().Context(), h.db)
	return respond(c, "Error fetching inventory", inventory, err)
}

// InventoryBarChart serves the same rows as Inventory shaped for charting:
// just names and stock levels.
func (h *Handler) InventoryBarChart(c echo.Context) error {
	inventory, err := store.ListInventory(c.Request().Context(), h.db)
	if err != nil {
		return fail(c, "Error fetching bar chart data", err)
	}

	type barRow struct {
		Name  string `json:"name"`
		Stock int    `json:"stock"`
	}
	bars := make([]barRow, 0, len(inventory))
	for _, row := range inventory {
		bars = append(bars, barRow{Name: row.Name, Stock: row.Stock})
	}

	return c.JSON(http.StatusOK, bars)
}

func (h *Handler) ProductsOnSale(c echo.Context) error {
	products, err := store.ListProductsOnSale(c.Request().Context(), h.db)
	return respond(c, "Error fetching products on sale", products, err)
}

func (h *Handler) ProductsWithRebates(c echo.Context) error {
	products, err := store.ListProductsWithRebates(c.Request().Context(), h.db)
	return respond(c, "Error fetching products with rebates", products, err)
}

func pathID(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
