package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/safar/storefront/internal/models"
)

func ListStoreLocations(ctx context.Context, db *sql.DB) ([]models.StoreLocation, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, address, zip_code FROM store_locations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list store locations: %w", err)
	}
	defer rows.Close()

	locations := []models.StoreLocation{}
	for rows.Next() {
		var loc models.StoreLocation
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Address, &loc.ZipCode); err != nil {
			return nil, fmt.Errorf("scan store location: %w", err)
		}
		locations = append(locations, loc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return locations, nil
}

func ListAccessories(ctx context.Context, db *sql.DB, productID int64) ([]models.Accessory, error) {
	if productID == 0 {
		return nil, fmt.Errorf("%w: product id is required", ErrValidation)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, product_id, name, price FROM accessories WHERE product_id = $1`,
		productID)
	if err != nil {
		return nil, fmt.Errorf("list accessories: %w", err)
	}
	defer rows.Close()

	accessories := []models.Accessory{}
	for rows.Next() {
		var acc models.Accessory
		if err := rows.Scan(&acc.ID, &acc.ProductID, &acc.Name, &acc.Price); err != nil {
			return nil, fmt.Errorf("scan accessory: %w", err)
		}
		accessories = append(accessories, acc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return accessories, nil
}
