package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/safar/storefront/internal/api"
	"github.com/safar/storefront/internal/config"
	"github.com/safar/storefront/internal/store"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor: wait.ForLog("Ready to accept connections").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start redis container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Fatalf("Failed to ping redis: %v", err)
	}

	cleanup := func() {
		if err := rdb.Close(); err != nil {
			t.Logf("Failed to close redis client: %v", err)
		}
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return rdb, cleanup
}

func TestPlaceOrderIdempotentKey(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	rdb, redisCleanup := setupTestRedis(t)
	defer redisCleanup()

	cfg := &config.Config{
		Redis: config.RedisConfig{IdempotentTTL: time.Minute},
	}

	e := echo.New()
	api.NewHandler(db, cfg, rdb, nil).Register(e)

	user := seedUser(t, db, "Retry User", "retry@example.com")
	product := seedProduct(t, db, "Scarce Product", decimal.NewFromInt(100), 5)

	payload := func(quantity int) string {
		return fmt.Sprintf(`{
			"userId": %d,
			"name": "Retry User",
			"totalPrice": %d,
			"deliveryMethod": "homeDelivery",
			"deliveryDate": "2026-09-05",
			"cartItems": [{"product_id": %d, "quantity": %d, "name": "Scarce Product", "price": 100}],
			"address": "12 Test Lane",
			"creditCard": "4111111111111111"
		}`, user.ID, 100*quantity, product.ID, quantity)
	}

	placeOrder := func(key, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/place-order", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("Idempotent-Key", key)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	// A failed checkout must release the key so the client can retry it.
	rec := placeOrder("checkout-1", payload(10))
	if rec.Code != http.StatusConflict || !strings.Contains(rec.Body.String(), "Insufficient stock") {
		t.Fatalf("Expected 409 insufficient stock, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = placeOrder("checkout-1", payload(2))
	if rec.Code != http.StatusOK {
		t.Fatalf("Retry after failure should succeed, got %d: %s", rec.Code, rec.Body.String())
	}

	// Replaying a successful checkout stays rejected.
	rec = placeOrder("checkout-1", payload(2))
	if rec.Code != http.StatusConflict || !strings.Contains(rec.Body.String(), "Order already submitted") {
		t.Fatalf("Expected 409 duplicate submission, got %d: %s", rec.Code, rec.Body.String())
	}

	// Only one checkout's worth of stock is gone.
	after, err := store.GetProduct(context.Background(), db, product.ID)
	if err != nil {
		t.Fatalf("Get product: %v", err)
	}
	if after.Stock != 3 {
		t.Errorf("Expected stock 3 after one successful checkout, got %d", after.Stock)
	}
}
