package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/safar/storefront/internal/database"
	"github.com/safar/storefront/internal/store"
)

func TestFailStatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			"validation",
			fmt.Errorf("%w: cart is empty", store.ErrValidation),
			http.StatusBadRequest,
			"cart is empty",
		},
		{
			"user not found",
			database.ErrUserNotFound,
			http.StatusNotFound,
			"User not found",
		},
		{
			// Wrapped deep in the transaction path; errors.Is must still see it.
			"product not found wrapped",
			fmt.Errorf("decrement stock: %w", database.ErrProductNotFound),
			http.StatusNotFound,
			"Product not found",
		},
		{
			"order not found",
			database.ErrOrderNotFound,
			http.StatusNotFound,
			"Order not found",
		},
		{
			"insufficient stock wrapped",
			fmt.Errorf("max retries (3) exceeded: %w", database.ErrInsufficientStock),
			http.StatusConflict,
			"Insufficient stock",
		},
		{
			"store unreachable",
			fmt.Errorf("ping database: dial refused: %w", database.ErrUnavailable),
			http.StatusServiceUnavailable,
			"Service unavailable",
		},
		{
			"unknown error",
			errors.New("disk on fire"),
			http.StatusInternalServerError,
			"disk on fire",
		},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			if err := fail(c, "boom", tt.err); err != nil {
				t.Fatalf("fail returned error: %v", err)
			}
			if rec.Code != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.message) {
				t.Errorf("Expected body to contain %q, got %s", tt.message, rec.Body.String())
			}
		})
	}
}
