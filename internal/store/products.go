package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/safar/storefront/internal/database"
	"github.com/safar/storefront/internal/models"
	"github.com/shopspring/decimal"
)

const productColumns = "id, name, price, description, category, accessories, image, discount, rebate, warranty, stock"

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	product := &models.Product{}
	var discount, rebate sql.NullString

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Price,
		&product.Description,
		&product.Category,
		&product.Accessories,
		&product.Image,
		&discount,
		&rebate,
		&product.Warranty,
		&product.Stock,
	)
	if err != nil {
		return nil, err
	}

	if discount.Valid {
		d, err := decimal.NewFromString(discount.String)
		if err != nil {
			return nil, fmt.Errorf("parse discount: %w", err)
		}
		product.Discount = &d
	}
	if rebate.Valid {
		r, err := decimal.NewFromString(rebate.String)
		if err != nil {
			return nil, fmt.Errorf("parse rebate: %w", err)
		}
		product.Rebate = &r
	}

	return product, nil
}

type ProductInput struct {
	Name        string
	Price       decimal.Decimal
	Description string
	Category    string
	Accessories string
	Image       string
	Discount    *decimal.Decimal
	Rebate      *decimal.Decimal
	Warranty    string
	Stock       int
}

func CreateProduct(ctx context.Context, db *sql.DB, in ProductInput) (*models.Product, error) {
	if in.Name == "" || in.Category == "" {
		return nil, fmt.Errorf("%w: name and category are required", ErrValidation)
	}

	query := `
		INSERT INTO products (name, price, description, category, accessories, image, discount, rebate, warranty, stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + productColumns

	row := db.QueryRowContext(ctx, query,
		in.Name, in.Price, in.Description, in.Category, in.Accessories,
		in.Image, nullDecimal(in.Discount), nullDecimal(in.Rebate), in.Warranty, in.Stock)

	product, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	return product, nil
}

func GetProduct(ctx context.Context, db *sql.DB, id int64) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return product, nil
}

// UpdateProduct rewrites the catalog-facing fields; stock is owned by order
// placement and left untouched here.
func UpdateProduct(ctx context.Context, db *sql.DB, id int64, name string, price decimal.Decimal, description, category, accessories, image string) error {
	if name == "" || category == "" {
		return fmt.Errorf("%w: name and category are required", ErrValidation)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE products
		 SET name = $1, price = $2, description = $3, category = $4, accessories = $5, image = $6
		 WHERE id = $7`,
		name, price, description, category, accessories, image, id)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return database.ErrProductNotFound
	}

	return nil
}

func DeleteProduct(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return database.ErrProductNotFound
	}

	return nil
}

// ListProducts returns the whole catalog, or one category when category is
// non-empty.
func ListProducts(ctx context.Context, db *sql.DB, category string) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	var args []any
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return products, nil
}

type Suggestion struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SearchProducts backs autocomplete: case-insensitive containment match,
// capped at 10 suggestions.
func SearchProducts(ctx context.Context, db *sql.DB, term string) ([]Suggestion, error) {
	if term == "" {
		return nil, fmt.Errorf("%w: search term is required", ErrValidation)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, name FROM products WHERE name ILIKE '%' || $1 || '%' LIMIT 10`,
		term)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()

	suggestions := []Suggestion{}
	for rows.Next() {
		var s Suggestion
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		suggestions = append(suggestions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return suggestions, nil
}

type InventoryRow struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

func ListInventory(ctx context.Context, db *sql.DB) ([]InventoryRow, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name, price, stock FROM products ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	inventory := []InventoryRow{}
	for rows.Next() {
		var r InventoryRow
		if err := rows.Scan(&r.Name, &r.Price, &r.Stock); err != nil {
			return nil, fmt.Errorf("scan inventory row: %w", err)
		}
		inventory = append(inventory, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return inventory, nil
}

type SaleRow struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Discount decimal.Decimal `json:"discount"`
}

// ListProductsOnSale returns products whose discount column is non-NULL.
func ListProductsOnSale(ctx context.Context, db *sql.DB) ([]SaleRow, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name, price, discount FROM products WHERE discount IS NOT NULL ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list products on sale: %w", err)
	}
	defer rows.Close()

	result := []SaleRow{}
	for rows.Next() {
		var r SaleRow
		if err := rows.Scan(&r.Name, &r.Price, &r.Discount); err != nil {
			return nil, fmt.Errorf("scan sale row: %w", err)
		}
		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

type RebateRow struct {
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Rebate decimal.Decimal `json:"rebate"`
}

// ListProductsWithRebates returns products whose rebate column is non-NULL.
func ListProductsWithRebates(ctx context.Context, db *sql.DB) ([]RebateRow, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name, price, rebate FROM products WHERE rebate IS NOT NULL ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list products with rebates: %w", err)
	}
	defer rows.Close()

	result := []RebateRow{}
	for rows.Next() {
		var r RebateRow
		if err := rows.Scan(&r.Name, &r.Price, &r.Rebate); err != nil {
			return nil, fmt.Errorf("scan rebate row: %w", err)
		}
		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

func nullDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return *d
}
