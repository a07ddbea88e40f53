package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/safar/storefront/internal/database"
	"github.com/safar/storefront/internal/models"
	"github.com/shopspring/decimal"
)

// ErrValidation marks a request rejected before any write happens.
var ErrValidation = errors.New("validation failed")

const deliveryMethodPickup = "inStorePickup"

type PlaceOrderRequest struct {
	UserID         int64
	Name           string
	TotalPrice     decimal.Decimal
	DeliveryMethod string
	StoreLocation  *string
	DeliveryDate   string
	CartLines      []models.CartLine
	Address        string
	CreditCard     string
}

type OrderConfirmation struct {
	Message    string `json:"message"`
	CheckoutID string `json:"checkout_id"`
}

func (r PlaceOrderRequest) validate() error {
	switch {
	case r.UserID == 0:
		return fmt.Errorf("%w: user id is required", ErrValidation)
	case r.Name == "":
		return fmt.Errorf("%w: name is required", ErrValidation)
	case r.TotalPrice.IsZero():
		return fmt.Errorf("%w: total price is required", ErrValidation)
	case r.DeliveryMethod == "":
		return fmt.Errorf("%w: delivery method is required", ErrValidation)
	case len(r.CartLines) == 0:
		return fmt.Errorf("%w: cart is empty", ErrValidation)
	case r.Address == "":
		return fmt.Errorf("%w: address is required", ErrValidation)
	case r.CreditCard == "":
		return fmt.Errorf("%w: credit card is required", ErrValidation)
	case r.DeliveryMethod == deliveryMethodPickup && (r.StoreLocation == nil || *r.StoreLocation == ""):
		return fmt.Errorf("%w: store location is required for in-store pickup", ErrValidation)
	}

	for _, line := range r.CartLines {
		if line.ProductID == 0 || line.Quantity <= 0 {
			return fmt.Errorf("%w: cart line needs a product id and a positive quantity", ErrValidation)
		}
	}

	return nil
}

// PlaceOrder records a whole checkout atomically: one stock decrement, one
// order row and one audit row per cart line, all in a single serializable
// transaction. Any insufficient stock rolls back every line.
func PlaceOrder(ctx context.Context, db *sql.DB, req PlaceOrderRequest) (*OrderConfirmation, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	checkoutID := uuid.NewString()

	err := database.WithRetry(ctx, db, database.TxOptions{
		IsolationLevel: sql.LevelSerializable,
		MaxRetries:     3,
	}, func(tx *sql.Tx) error {
		var exists bool
		err := tx.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)",
			req.UserID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check user exists: %w", err)
		}
		if !exists {
			return database.ErrUserNotFound
		}

		for _, line := range req.CartLines {
			// The decrement runs first: it is also the existence probe, so an
			// unknown product surfaces as not-found instead of the order
			// insert tripping the foreign key.
			result, err := tx.ExecContext(ctx,
				`UPDATE products
				 SET stock = stock - $1
				 WHERE id = $2
				   AND stock >= $1`,
				line.Quantity, line.ProductID)
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}

			rowsAffected, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("get rows affected: %w", err)
			}
			if rowsAffected == 0 {
				// Either the product is gone or the decrement would go
				// negative; both abort the whole checkout.
				var found bool
				if err := tx.QueryRowContext(ctx,
					"SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)",
					line.ProductID).Scan(&found); err != nil {
					return fmt.Errorf("check product exists: %w", err)
				}
				if !found {
					return database.ErrProductNotFound
				}
				return database.ErrInsufficientStock
			}

			_, err = tx.ExecContext(ctx,
				`INSERT INTO orders (checkout_id, user_id, name, total_price, delivery_method, store_location, status, delivery_date, product_id, quantity, order_date)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, CURRENT_DATE)`,
				checkoutID, req.UserID, req.Name, req.TotalPrice, req.DeliveryMethod,
				req.StoreLocation, models.OrderStatusPending, req.DeliveryDate,
				line.ProductID, line.Quantity)
			if err != nil {
				return fmt.Errorf("insert order line: %w", err)
			}

			audit := models.CustomerOrder{
				UserName:     req.Name,
				OrderName:    line.Name,
				OrderPrice:   line.Price,
				UserAddress:  req.Address,
				CreditCardNo: req.CreditCard,
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO customer_orders (user_name, order_name, order_price, user_address, credit_card_no)
				 VALUES ($1, $2, $3, $4, $5)`,
				audit.UserName, audit.OrderName, audit.OrderPrice, audit.UserAddress, audit.CreditCardNo)
			if err != nil {
				return fmt.Errorf("insert audit row: %w", err)
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return &OrderConfirmation{
		Message:    "Order placed successfully",
		CheckoutID: checkoutID,
	}, nil
}

// CancelOrder deletes the order line. A second call with the same id reports
// not found, so retries are safe.
func CancelOrder(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("cancel order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return database.ErrOrderNotFound
	}

	return nil
}

type UpdateOrderRequest struct {
	TotalPrice     decimal.Decimal
	DeliveryMethod string
	StoreLocation  string
	DeliveryDate   string
	Status         models.OrderStatus
}

func UpdateOrder(ctx context.Context, db *sql.DB, id int64, req UpdateOrderRequest) error {
	if req.TotalPrice.IsZero() || req.DeliveryMethod == "" || req.StoreLocation == "" || req.DeliveryDate == "" || req.Status == "" {
		return fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	if !req.Status.Valid() {
		return fmt.Errorf("%w: unknown order status %q", ErrValidation, req.Status)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE orders
		 SET total_price = $1, delivery_method = $2, store_location = $3, delivery_date = $4, status = $5
		 WHERE id = $6`,
		req.TotalPrice, req.DeliveryMethod, req.StoreLocation, req.DeliveryDate, req.Status, id)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return database.ErrOrderNotFound
	}

	return nil
}

// CreateOrder is the operator-tooling insert of a single order row, outside
// the checkout path. Stock and the audit log are untouched.
func CreateOrder(ctx context.Context, db *sql.DB, userID int64, totalPrice decimal.Decimal, deliveryMethod, storeLocation, deliveryDate string) error {
	if userID == 0 || totalPrice.IsZero() || deliveryMethod == "" || storeLocation == "" || deliveryDate == "" {
		return fmt.Errorf("%w: all fields are required", ErrValidation)
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO orders (checkout_id, user_id, name, total_price, delivery_method, store_location, status, delivery_date, product_id, quantity, order_date)
		 VALUES ($1, $2, '', $3, $4, $5, $6, $7, NULL, 0, CURRENT_DATE)`,
		uuid.NewString(), userID, totalPrice, deliveryMethod, storeLocation,
		models.OrderStatusPending, deliveryDate)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	return nil
}

func GetOrder(ctx context.Context, db *sql.DB, id int64) (*models.Order, error) {
	order := &models.Order{}

	query := `
		SELECT id, checkout_id, user_id, name, total_price, delivery_method, store_location, status, delivery_date, COALESCE(product_id, 0), quantity, order_date
		FROM orders
		WHERE id = $1`

	err := db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.CheckoutID,
		&order.UserID,
		&order.Name,
		&order.TotalPrice,
		&order.DeliveryMethod,
		&order.StoreLocation,
		&order.Status,
		&order.DeliveryDate,
		&order.ProductID,
		&order.Quantity,
		&order.OrderDate,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	return order, nil
}

func ListOrders(ctx context.Context, db *sql.DB) ([]models.Order, error) {
	query := `
		SELECT id, checkout_id, user_id, name, total_price, delivery_method, store_location, status, delivery_date, COALESCE(product_id, 0), quantity, order_date
		FROM orders
		ORDER BY id`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var order models.Order
		err := rows.Scan(
			&order.ID,
			&order.CheckoutID,
			&order.UserID,
			&order.Name,
			&order.TotalPrice,
			&order.DeliveryMethod,
			&order.StoreLocation,
			&order.Status,
			&order.DeliveryDate,
			&order.ProductID,
			&order.Quantity,
			&order.OrderDate,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return orders, nil
}

type PastOrder struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	DeliveryMethod string          `json:"delivery_method"`
	Status         string          `json:"status"`
	DeliveryDate   string          `json:"delivery_date"`
}

func ListOrdersForUser(ctx context.Context, db *sql.DB, userID int64) ([]PastOrder, error) {
	query := `
		SELECT id, name, total_price, delivery_method, status, delivery_date
		FROM orders
		WHERE user_id = $1
		ORDER BY id`

	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders for user: %w", err)
	}
	defer rows.Close()

	orders := []PastOrder{}
	for rows.Next() {
		var o PastOrder
		err := rows.Scan(&o.ID, &o.Name, &o.TotalPrice, &o.DeliveryMethod, &o.Status, &o.DeliveryDate)
		if err != nil {
			return nil, fmt.Errorf("scan past order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return orders, nil
}
