package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type ProductSalesRow struct {
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	ItemsSold  int             `json:"items_sold"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

// ProductsSold joins order lines to their products and sums per product.
func ProductsSold(ctx context.Context, db *sql.DB) ([]ProductSalesRow, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT p.name, p.price, COUNT(o.id) AS items_sold, SUM(o.total_price) AS total_sales
		FROM orders o
		JOIN products p ON o.product_id = p.id
		GROUP BY p.name, p.price`)
	if err != nil {
		return nil, fmt.Errorf("products sold: %w", err)
	}
	defer rows.Close()

	result := []ProductSalesRow{}
	for rows.Next() {
		var r ProductSalesRow
		if err := rows.Scan(&r.Name, &r.Price, &r.ItemsSold, &r.TotalSales); err != nil {
			return nil, fmt.Errorf("scan product sales row: %w", err)
		}
		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

type SalesChartRow struct {
	Name       string          `json:"name"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

func ProductSalesChart(ctx context.Context, db *sql.DB) ([]SalesChartRow, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT p.name, SUM(o.total_price) AS total_sales
		FROM orders o
		JOIN products p ON o.product_id = p.id
		GROUP BY p.name`)
	if err != nil {
		return nil, fmt.Errorf("product sales chart: %w", err)
	}
	defer rows.Close()

	result := []SalesChartRow{}
	for rows.Next() {
		var r SalesChartRow
		if err := rows.Scan(&r.Name, &r.TotalSales); err != nil {
			return nil, fmt.Errorf("scan sales chart row: %w", err)
		}
		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

type DailySalesRow struct {
	Date       time.Time       `json:"date"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

// DailySales sums total_price per calendar day, most recent first.
func DailySales(ctx context.Context, db *sql.DB) ([]DailySalesRow, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT order_date, SUM(total_price) AS total_sales
		FROM orders
		GROUP BY order_date
		ORDER BY order_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("daily sales: %w", err)
	}
	defer rows.Close()

	result := []DailySalesRow{}
	for rows.Next() {
		var r DailySalesRow
		if err := rows.Scan(&r.Date, &r.TotalSales); err != nil {
			return nil, fmt.Errorf("scan daily sales row: %w", err)
		}
		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

type TopCustomerRow struct {
	CustomerName string          `json:"customer_name"`
	Email        string          `json:"email"`
	TotalSpent   decimal.Decimal `json:"total_spent"`
}

func TopCustomers(ctx context.Context, db *sql.DB) ([]TopCustomerRow, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT u.name, u.email, SUM(o.total_price) AS total_spent
		FROM orders o
		JOIN users u ON o.user_id = u.id
		GROUP BY u.id, u.name, u.email
		ORDER BY total_spent DESC
		LIMIT 5`)
	if err != nil {
		return nil, fmt.Errorf("top customers: %w", err)
	}
	defer rows.Close()

	result := []TopCustomerRow{}
	for rows.Next() {
		var r TopCustomerRow
		if err := rows.Scan(&r.CustomerName, &r.Email, &r.TotalSpent); err != nil {
			return nil, fmt.Errorf("scan top customer row: %w", err)
		}
		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

type AverageSalesResult struct {
	AverageSales decimal.Decimal `json:"average_sales"`
}

// AverageSales is the trailing-2-day total divided by 2, zero when the window
// is empty.
func AverageSales(ctx context.Context, db *sql.DB) (*AverageSalesResult, error) {
	var total decimal.Decimal

	err := db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(total_price), 0)
		FROM orders
		WHERE order_date >= CURRENT_DATE - INTERVAL '2 days'`).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("average sales: %w", err)
	}

	return &AverageSalesResult{
		AverageSales: total.Div(decimal.NewFromInt(2)).Round(2),
	}, nil
}

// SeasonalSales sums per quarter and derives the cumulative-within-year
// running total plus a grand-total rollup row.
func SeasonalSales(ctx context.Context, db *sql.DB) ([]SeasonalRow, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT EXTRACT(YEAR FROM order_date)::int AS year,
		       EXTRACT(QUARTER FROM order_date)::int AS quarter,
		       SUM(total_price) AS quarterly_sales
		FROM orders
		GROUP BY year, quarter
		ORDER BY year, quarter`)
	if err != nil {
		return nil, fmt.Errorf("seasonal sales: %w", err)
	}
	defer rows.Close()

	var quarters []quarterSales
	for rows.Next() {
		var q quarterSales
		if err := rows.Scan(&q.year, &q.quarter, &q.sales); err != nil {
			return nil, fmt.Errorf("scan seasonal row: %w", err)
		}
		quarters = append(quarters, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return seasonalRollup(quarters), nil
}
