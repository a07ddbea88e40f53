package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"-"`
	Role     string `json:"role"`
}

// Product carries the catalog row. Discount and Rebate are NULL-able in the
// schema; absence is modeled as a nil pointer, never a zero sentinel.
type Product struct {
	ID          int64            `json:"id"`
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

// OrderStatus is a closed set; placement only ever produces Pending.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusFulfilled OrderStatus = "fulfilled"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusFulfilled, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is one cart line of a checkout. All lines of the same checkout share
// CheckoutID and the order-level fields; ProductID and Quantity are per line.
type Order struct {
	ID             int64           `json:"id"`
	CheckoutID     string          `json:"checkout_id"`
	UserID         int64           `json:"user_id"`
	Name           string          `json:"name"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	DeliveryMethod string          `json:"delivery_method"`
	StoreLocation  *string         `json:"store_location"`
	Status         OrderStatus     `json:"status"`
	DeliveryDate   string          `json:"delivery_date"`
	ProductID      int64           `json:"product_id"`
	Quantity       int             `json:"quantity"`
	OrderDate      time.Time       `json:"order_date"`
}

// CustomerOrder is the denormalized audit row appended once per cart line.
// It is never updated or deleted.
type CustomerOrder struct {
	ID           int64           `json:"id"`
	UserName     string          `json:"userName"`
	OrderName    string          `json:"orderName"`
	OrderPrice   decimal.Decimal `json:"orderPrice"`
	UserAddress  string          `json:"userAddress"`
	CreditCardNo string          `json:"creditCardNo"`
	CreatedAt    time.Time       `json:"created_at"`
}

type StoreLocation struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	ZipCode string `json:"zip_code"`
}

type Accessory struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}

// CartLine is one (product, quantity) pairing submitted in a checkout
// request. It is transient and never persisted as its own row.
type CartLine struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}
