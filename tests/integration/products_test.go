package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/safar/storefront/internal/database"
	"github.com/safar/storefront/internal/store"
	"github.com/shopspring/decimal"
)

func TestProductUpdateRoundTrip(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	product, err := store.CreateProduct(ctx, db, store.ProductInput{
		Name:        "Old Name",
		Price:       decimal.NewFromInt(100),
		Description: "Old description",
		Category:    "Cameras",
		Stock:       12,
	})
	if err != nil {
		t.Fatalf("Create product: %v", err)
	}

	err = store.UpdateProduct(ctx, db, product.ID, "New Name", decimal.NewFromFloat(129.99),
		"New description", "Cameras", "lens cap", "new.png")
	if err != nil {
		t.Fatalf("Update product: %v", err)
	}

	after, err := store.GetProduct(ctx, db, product.ID)
	if err != nil {
		t.Fatalf("Get product: %v", err)
	}
	if after.Name != "New Name" {
		t.Errorf("Expected updated name, got %q", after.Name)
	}
	if !after.Price.Equal(decimal.NewFromFloat(129.99)) {
		t.Errorf("Expected price 129.99, got %s", after.Price)
	}
	if after.Stock != 12 {
		t.Errorf("Update must not touch stock; expected 12, got %d", after.Stock)
	}
}

func TestUpdateMissingProduct(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	err := store.UpdateProduct(context.Background(), db, 999999, "Name",
		decimal.NewFromInt(1), "", "Test", "", "")
	if !errors.Is(err, database.ErrProductNotFound) {
		t.Errorf("Expected product not found error, got: %v", err)
	}
}

func TestNullDiscountAndRebateRoundTrip(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	plain, err := store.CreateProduct(ctx, db, store.ProductInput{
		Name:     "Plain Product",
		Price:    decimal.NewFromInt(100),
		Category: "Test",
		Stock:    5,
	})
	if err != nil {
		t.Fatalf("Create plain product: %v", err)
	}
	if plain.Discount != nil {
		t.Errorf("Expected nil discount, got %s", plain.Discount)
	}
	if plain.Rebate != nil {
		t.Errorf("Expected nil rebate, got %s", plain.Rebate)
	}

	discount := decimal.NewFromInt(15)
	rebate := decimal.NewFromInt(20)
	promoted, err := store.CreateProduct(ctx, db, store.ProductInput{
		Name:     "Promoted Product",
		Price:    decimal.NewFromInt(200),
		Category: "Test",
		Stock:    5,
		Discount: &discount,
		Rebate:   &rebate,
	})
	if err != nil {
		t.Fatalf("Create promoted product: %v", err)
	}

	fetched, err := store.GetProduct(ctx, db, promoted.ID)
	if err != nil {
		t.Fatalf("Get product: %v", err)
	}
	if fetched.Discount == nil || !fetched.Discount.Equal(discount) {
		t.Errorf("Expected discount 15, got %v", fetched.Discount)
	}
	if fetched.Rebate == nil || !fetched.Rebate.Equal(rebate) {
		t.Errorf("Expected rebate 20, got %v", fetched.Rebate)
	}

	onSale, err := store.ListProductsOnSale(ctx, db)
	if err != nil {
		t.Fatalf("List products on sale: %v", err)
	}
	if len(onSale) != 1 || onSale[0].Name != "Promoted Product" {
		t.Errorf("Expected only the promoted product on sale, got %+v", onSale)
	}

	withRebates, err := store.ListProductsWithRebates(ctx, db)
	if err != nil {
		t.Fatalf("List products with rebates: %v", err)
	}
	if len(withRebates) != 1 || withRebates[0].Name != "Promoted Product" {
		t.Errorf("Expected only the promoted product with a rebate, got %+v", withRebates)
	}
}

func TestSearchProducts(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	names := []string{"Mirrorless Camera", "Camera Strap", "Laptop Stand"}
	for _, name := range names {
		if _, err := store.CreateProduct(ctx, db, store.ProductInput{
			Name:     name,
			Price:    decimal.NewFromInt(50),
			Category: "Test",
			Stock:    5,
		}); err != nil {
			t.Fatalf("Create product %s: %v", name, err)
		}
	}

	suggestions, err := store.SearchProducts(ctx, db, "camera")
	if err != nil {
		t.Fatalf("Search products: %v", err)
	}
	if len(suggestions) != 2 {
		t.Fatalf("Expected 2 suggestions for %q, got %d", "camera", len(suggestions))
	}
	for _, s := range suggestions {
		if s.ID == 0 || s.Name == "" {
			t.Errorf("Suggestion missing id or name: %+v", s)
		}
	}

	_, err = store.SearchProducts(ctx, db, "")
	if !errors.Is(err, store.ErrValidation) {
		t.Errorf("Expected validation error for empty term, got: %v", err)
	}
}

func TestDeleteProduct(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	product, err := store.CreateProduct(ctx, db, store.ProductInput{
		Name:     "Doomed Product",
		Price:    decimal.NewFromInt(10),
		Category: "Test",
		Stock:    1,
	})
	if err != nil {
		t.Fatalf("Create product: %v", err)
	}

	if err := store.DeleteProduct(ctx, db, product.ID); err != nil {
		t.Fatalf("Delete product: %v", err)
	}

	_, err = store.GetProduct(ctx, db, product.ID)
	if !errors.Is(err, database.ErrProductNotFound) {
		t.Errorf("Expected product not found after delete, got: %v", err)
	}

	err = store.DeleteProduct(ctx, db, product.ID)
	if !errors.Is(err, database.ErrProductNotFound) {
		t.Errorf("Expected product not found on repeat delete, got: %v", err)
	}
}

func TestDuplicateUserEmail(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	_, err := store.CreateUser(ctx, db, "First", "dup@example.com", "secret", "customer")
	if err != nil {
		t.Fatalf("Create user: %v", err)
	}

	_, err = store.CreateUser(ctx, db, "Second", "dup@example.com", "secret", "customer")
	if !errors.Is(err, store.ErrDuplicateEmail) {
		t.Errorf("Expected duplicate email error, got: %v", err)
	}
}
