package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// CustomerSegmentation buckets every customer with at least one order by
// total spend and appends a rollup row. Buckets are exhaustive and disjoint.
func CustomerSegmentation(ctx context.Context, db *sql.DB) ([]SegmentRow, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT SUM(o.total_price) AS total_spent
		FROM users u
		JOIN orders o ON u.id = o.user_id
		GROUP BY u.id`)
	if err != nil {
		return nil, fmt.Errorf("customer segmentation: %w", err)
	}
	defer rows.Close()

	var totals []decimal.Decimal
	for rows.Next() {
		var total decimal.Decimal
		if err := rows.Scan(&total); err != nil {
			return nil, fmt.Errorf("scan spend total: %w", err)
		}
		totals = append(totals, total)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return segmentCustomers(totals), nil
}

// PurchaseFrequency buckets customers by how many orders they have placed,
// ordered by each bucket's minimum order count.
func PurchaseFrequency(ctx context.Context, db *sql.DB) ([]FrequencyRow, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT COUNT(DISTINCT id) AS order_count
		FROM orders
		GROUP BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("purchase frequency: %w", err)
	}
	defer rows.Close()

	var counts []int
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan order count: %w", err)
		}
		counts = append(counts, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return bucketFrequencies(counts), nil
}

type RetentionResult struct {
	RetainedCustomers       int      `json:"retained_customers"`
	PreviousPeriodCustomers int      `json:"previous_period_customers"`
	RetentionRate           float64  `json:"retention_rate"`
	RetainedCustomerNames   []string `json:"retained_customer_names"`
}

// CustomerRetention compares distinct purchasers in the trailing 2-day window
// against the 2 days before it. Retained means present in both. A zero
// previous period yields a zero rate, never an error.
func CustomerRetention(ctx context.Context, db *sql.DB) (*RetentionResult, error) {
	current, err := purchaserSet(ctx, db, `
		SELECT DISTINCT user_id FROM orders
		WHERE order_date >= CURRENT_DATE - INTERVAL '2 days'`)
	if err != nil {
		return nil, fmt.Errorf("current period purchasers: %w", err)
	}

	previous, err := purchaserSet(ctx, db, `
		SELECT DISTINCT user_id FROM orders
		WHERE order_date >= CURRENT_DATE - INTERVAL '4 days'
		  AND order_date < CURRENT_DATE - INTERVAL '2 days'`)
	if err != nil {
		return nil, fmt.Errorf("previous period purchasers: %w", err)
	}

	var retained []int64
	for id := range previous {
		if _, ok := current[id]; ok {
			retained = append(retained, id)
		}
	}

	names, err := userNames(ctx, db, retained)
	if err != nil {
		return nil, err
	}

	return &RetentionResult{
		RetainedCustomers:       len(retained),
		PreviousPeriodCustomers: len(previous),
		RetentionRate:           retentionRate(len(retained), len(previous)),
		RetainedCustomerNames:   names,
	}, nil
}

func purchaserSet(ctx context.Context, db *sql.DB, query string) (map[int64]struct{}, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := map[int64]struct{}{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		set[id] = struct{}{}
	}

	return set, rows.Err()
}

func userNames(ctx context.Context, db *sql.DB, ids []int64) ([]string, error) {
	names := []string{}
	if len(ids) == 0 {
		return names, nil
	}

	rows, err := db.QueryContext(ctx,
		`SELECT name FROM users WHERE id = ANY($1) ORDER BY name`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("retained customer names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan customer name: %w", err)
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

type LifetimeValueRow struct {
	CustomerID    int64           `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	TotalOrders   int             `json:"total_orders"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	AvgOrderValue decimal.Decimal `json:"avg_order_value"`
	YearsActive   float64         `json:"years_active"`
	AnnualValue   decimal.Decimal `json:"annual_value"`
}

// LifetimeValue annualizes each customer's spend over their active span,
// top 10 by annualized value. A single-day span annualizes to zero.
func LifetimeValue(ctx context.Context, db *sql.DB) ([]LifetimeValueRow, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT u.id, u.name, COUNT(DISTINCT o.id), SUM(o.total_price),
		       AVG(o.total_price), MIN(o.order_date), MAX(o.order_date)
		FROM users u
		JOIN orders o ON u.id = o.user_id
		GROUP BY u.id, u.name`)
	if err != nil {
		return nil, fmt.Errorf("lifetime value: %w", err)
	}
	defer rows.Close()

	result := []LifetimeValueRow{}
	for rows.Next() {
		var r LifetimeValueRow
		var first, last time.Time
		if err := rows.Scan(&r.CustomerID, &r.CustomerName, &r.TotalOrders,
			&r.TotalSpent, &r.AvgOrderValue, &first, &last); err != nil {
			return nil, fmt.Errorf("scan lifetime value row: %w", err)
		}
		r.AvgOrderValue = r.AvgOrderValue.Round(2)
		r.YearsActive = yearsActive(first, last)
		r.AnnualValue = annualizedValue(r.TotalSpent, r.YearsActive)
		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].AnnualValue.GreaterThan(result[j].AnnualValue)
	})
	if len(result) > 10 {
		result = result[:10]
	}

	return result, nil
}

type InactiveCustomerRow struct {
	CustomerName string `json:"customer_name"`
	Email        string `json:"email"`
}

// InactiveCustomers lists users with no order in the trailing 30 days.
func InactiveCustomers(ctx context.Context, db *sql.DB) ([]InactiveCustomerRow, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT u.name, u.email
		FROM users u
		LEFT JOIN orders o ON u.id = o.user_id
		      AND o.order_date >= CURRENT_DATE - INTERVAL '30 days'
		WHERE o.id IS NULL`)
	if err != nil {
		return nil, fmt.Errorf("inactive customers: %w", err)
	}
	defer rows.Close()

	result := []InactiveCustomerRow{}
	for rows.Next() {
		var r InactiveCustomerRow
		if err := rows.Scan(&r.CustomerName, &r.Email); err != nil {
			return nil, fmt.Errorf("scan inactive customer row: %w", err)
		}
		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}
