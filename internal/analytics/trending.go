package analytics

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

type ZipCodeRow struct {
	StoreLocation string `json:"store_location"`
	TotalOrders   int    `json:"total_orders"`
}

// TopZipCodes ranks store locations by order count, top 5.
func TopZipCodes(ctx context.Context, db *sql.DB) ([]ZipCodeRow, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT store_location, COUNT(*) AS total_orders
		FROM orders
		WHERE store_location IS NOT NULL
		GROUP BY store_location
		ORDER BY total_orders DESC
		LIMIT 5`)
	if err != nil {
		return nil, fmt.Errorf("top zip codes: %w", err)
	}
	defer rows.Close()

	result := []ZipCodeRow{}
	for rows.Next() {
		var r ZipCodeRow
		if err := rows.Scan(&r.StoreLocation, &r.TotalOrders); err != nil {
			return nil, fmt.Errorf("scan zip code row: %w", err)
		}
		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

type MostSoldRow struct {
	OrderName string `json:"order_name"`
	TotalSold int    `json:"total_sold"`
}

// MostSoldProducts ranks audit rows by line-item name, top 5.
func MostSoldProducts(ctx context.Context, db *sql.DB) ([]MostSoldRow, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT order_name, COUNT(*) AS total_sold
		FROM customer_orders
		GROUP BY order_name
		ORDER BY total_sold DESC
		LIMIT 5`)
	if err != nil {
		return nil, fmt.Errorf("most sold products: %w", err)
	}
	defer rows.Close()

	result := []MostSoldRow{}
	for rows.Next() {
		var r MostSoldRow
		if err := rows.Scan(&r.OrderName, &r.TotalSold); err != nil {
			return nil, fmt.Errorf("scan most sold row: %w", err)
		}
		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

type CategoryProductRow struct {
	Category     string          `json:"category_name"`
	ProductName  string          `json:"product_name"`
	ItemsSold    int             `json:"items_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// PopularProductsByCategory lists products grouped by category, categories
// ascending and best sellers first within each.
func PopularProductsByCategory(ctx context.Context, db *sql.DB) ([]CategoryProductRow, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT p.category, p.name, COUNT(o.id) AS items_sold, SUM(o.total_price) AS total_revenue
		FROM orders o
		JOIN products p ON o.product_id = p.id
		GROUP BY p.category, p.name
		ORDER BY p.category ASC, items_sold DESC`)
	if err != nil {
		return nil, fmt.Errorf("popular products by category: %w", err)
	}
	defer rows.Close()

	result := []CategoryProductRow{}
	for rows.Next() {
		var r CategoryProductRow
		if err := rows.Scan(&r.Category, &r.ProductName, &r.ItemsSold, &r.TotalRevenue); err != nil {
			return nil, fmt.Errorf("scan category product row: %w", err)
		}
		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

type CrossSellRow struct {
	Product1     string `json:"product1"`
	Product2     string `json:"product2"`
	CoOccurrence int    `json:"co_occurrence"`
}

// CrossSell pairs products bought in the same checkout. The product_id <
// product_id join keeps each unordered pair unique.
func CrossSell(ctx context.Context, db *sql.DB) ([]CrossSellRow, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT p1.name, p2.name, COUNT(*) AS co_occurrence
		FROM orders o1
		JOIN orders o2 ON o1.checkout_id = o2.checkout_id AND o1.product_id < o2.product_id
		JOIN products p1 ON o1.product_id = p1.id
		JOIN products p2 ON o2.product_id = p2.id
		GROUP BY p1.name, p2.name, p1.id, p2.id
		ORDER BY co_occurrence DESC
		LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("cross sell: %w", err)
	}
	defer rows.Close()

	result := []CrossSellRow{}
	for rows.Next() {
		var r CrossSellRow
		if err := rows.Scan(&r.Product1, &r.Product2, &r.CoOccurrence); err != nil {
			return nil, fmt.Errorf("scan cross sell row: %w", err)
		}
		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}
