package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/safar/storefront/internal/models"
	"github.com/safar/storefront/internal/store"
	"github.com/shopspring/decimal"
)

type placeOrderRequest struct {
	UserID         int64             `json:"userId"`
	Name           string            `json:"name"`
	TotalPrice     decimal.Decimal   `json:"totalPrice"`
	DeliveryMethod string            `json:"deliveryMethod"`
	StoreLocation  *string           `json:"storeLocation"`
	DeliveryDate   string            `json:"deliveryDate"`
	CartItems      []models.CartLine `json:"cartItems"`
	Address        string            `json:"address"`
	CreditCard     string            `json:"creditCard"`
}

func (h *Handler) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request payload"})
	}

	key := c.Request().Header.Get("Idempotent-Key")
	if key != "" {
		fresh, err := h.claimIdempotentKey(ctx, key)
		if err != nil {
			return fail(c, "Error placing order", err)
		}
		if !fresh {
			return c.JSON(http.StatusConflict, echo.Map{"message": "Order already submitted"})
		}
	}

	confirmation, err := store.PlaceOrder(ctx, h.db, store.PlaceOrderRequest{
		UserID:         req.UserID,
		Name:           req.Name,
		TotalPrice:     req.TotalPrice,
		DeliveryMethod: req.DeliveryMethod,
		StoreLocation:  req.StoreLocation,
		DeliveryDate:   req.DeliveryDate,
		CartLines:      req.CartItems,
		Address:        req.Address,
		CreditCard:     req.CreditCard,
	})
	if err != nil {
		// Nothing was written, so the key must not block a retry.
		if key != "" {
			h.releaseIdempotentKey(ctx, key)
		}
		return fail(c, "Error placing order", err)
	}

	if err := h.publisher.OrderPlaced(ctx, confirmation.CheckoutID, req.UserID); err != nil {
		// The order is committed; a lost event is log-worthy, not a failure.
		logger.Error().Err(err).Str("checkout_id", confirmation.CheckoutID).Msg("publish order placed event")
	}

	return c.JSON(http.StatusOK, confirmation)
}

const idempotentKeyPrefix = "idempotent-key:"

// claimIdempotentKey reserves key in redis; false means a previous request
// already claimed it. Without redis configured every key is fresh.
func (h *Handler) claimIdempotentKey(ctx context.Context, key string) (bool, error) {
	if h.rdb == nil {
		return true, nil
	}

	ok, err := h.rdb.SetNX(ctx, idempotentKeyPrefix+key, "claimed", h.cfg.Redis.IdempotentTTL).Result()
	if err != nil && err != redis.Nil {
		return false, fmt.Errorf("claim idempotent key: %w", err)
	}

	return ok, nil
}

// releaseIdempotentKey frees a claimed key after a placement that wrote
// nothing. Best effort: a failed delete just expires with the TTL.
func (h *Handler) releaseIdempotentKey(ctx context.Context, key string) {
	if h.rdb == nil {
		return
	}

	if err := h.rdb.Del(ctx, idempotentKeyPrefix+key).Err(); err != nil {
		logger.Error().Err(err).Str("key", key).Msg("release idempotent key")
	}
}

func (h *Handler) PastOrders(c echo.Context) error {
	userID, err := pathID(c, "userID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid user ID"})
	}

	orders, err := store.ListOrdersForUser(c.Request().Context(), h.db, userID)
	return respond(c, "Error fetching past orders", orders, err)
}

func (h *Handler) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := pathID(c, "orderID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid order ID"})
	}

	if err := store.CancelOrder(ctx, h.db, orderID); err != nil {
		return fail(c, "Error deleting order", err)
	}

	if err := h.publisher.OrderCancelled(ctx, orderID); err != nil {
		logger.Error().Err(err).Int64("order_id", orderID).Msg("publish order cancelled event")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Order deleted successfully"})
}

func (h *Handler) ListOrders(c echo.Context) error {
	orders, err := store.ListOrders(c.Request().Context(), h.db)
	return respond(c, "Error fetching orders", orders, err)
}

func (h *Handler) GetOrder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid order ID"})
	}

	order, err := store.GetOrder(c.Request().Context(), h.db, id)
	return respond(c, "Error fetching order", order, err)
}

type orderRequest struct {
	UserID         int64              `json:"user_id"`
	TotalPrice     decimal.Decimal    `json:"total_price"`
	DeliveryMethod string             `json:"delivery_method"`
	StoreLocation  string             `json:"store_location"`
	DeliveryDate   string             `json:"delivery_date"`
	Status         models.OrderStatus `json:"status"`
}

func (h *Handler) AddOrder(c echo.Context) error {
	var req orderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request payload"})
	}

	err := store.CreateOrder(c.Request().Context(), h.db, req.UserID,
		req.TotalPrice, req.DeliveryMethod, req.StoreLocation, req.DeliveryDate)
	if err != nil {
		return fail(c, "Error adding order", err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "Order added successfully"})
}

func (h *Handler) UpdateOrder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid order ID"})
	}

	var req orderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request payload"})
	}

	err = store.UpdateOrder(c.Request().Context(), h.db, id, store.UpdateOrderRequest{
		TotalPrice:     req.TotalPrice,
		DeliveryMethod: req.DeliveryMethod,
		StoreLocation:  req.StoreLocation,
		DeliveryDate:   req.DeliveryDate,
		Status:         req.Status,
	})
	if err != nil {
		return fail(c, "Error updating order", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Order updated successfully"})
}

func (h *Handler) DeleteOrder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid order ID"})
	}

	if err := store.CancelOrder(c.Request().Context(), h.db, id); err != nil {
		return fail(c, "Error deleting order", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Order deleted successfully"})
}
