package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Spend segment thresholds. Boundaries are inclusive on the Medium side:
// exactly 1500 and exactly 3500 are both Medium.
var (
	segmentLowMax  = decimal.NewFromInt(1500)
	segmentHighMin = decimal.NewFromInt(3500)
)

const (
	SegmentLow    = "Low Spender"
	SegmentMedium = "Medium Spender"
	SegmentHigh   = "High Spender"
	SegmentTotal  = "Total"
)

func spendSegment(total decimal.Decimal) string {
	switch {
	case total.LessThan(segmentLowMax):
		return SegmentLow
	case total.LessThanOrEqual(segmentHighMin):
		return SegmentMedium
	default:
		return SegmentHigh
	}
}

type SegmentRow struct {
	Segment       string          `json:"customer_segment"`
	CustomerCount int             `json:"customer_count"`
	AvgSpend      decimal.Decimal `json:"avg_spend"`
}

// segmentCustomers buckets per-customer totals and appends a rollup row over
// all customers. Buckets with no customers are omitted; an empty input yields
// just a zero-valued rollup.
func segmentCustomers(totals []decimal.Decimal) []SegmentRow {
	sums := map[string]decimal.Decimal{}
	counts := map[string]int{}
	grand := decimal.Zero

	for _, total := range totals {
		seg := spendSegment(total)
		sums[seg] = sums[seg].Add(total)
		counts[seg]++
		grand = grand.Add(total)
	}

	rows := []SegmentRow{}
	for _, seg := range []string{SegmentLow, SegmentMedium, SegmentHigh} {
		if counts[seg] == 0 {
			continue
		}
		rows = append(rows, SegmentRow{
			Segment:       seg,
			CustomerCount: counts[seg],
			AvgSpend:      sums[seg].Div(decimal.NewFromInt(int64(counts[seg]))).Round(2),
		})
	}

	rollup := SegmentRow{Segment: SegmentTotal, CustomerCount: len(totals), AvgSpend: decimal.Zero}
	if len(totals) > 0 {
		rollup.AvgSpend = grand.Div(decimal.NewFromInt(int64(len(totals)))).Round(2)
	}

	return append(rows, rollup)
}

type FrequencyRow struct {
	Bucket        string  `json:"purchase_frequency"`
	CustomerCount int     `json:"customer_count"`
	AvgOrders     float64 `json:"avg_orders"`
}

// frequencyBucket maps an order count to its bucket label; minOrders gives
// each bucket's lower bound, which fixes the output ordering.
func frequencyBucket(orderCount int) string {
	switch {
	case orderCount <= 1:
		return "One-time"
	case orderCount <= 5:
		return "2-5 times"
	case orderCount <= 10:
		return "6-10 times"
	default:
		return "More than 10 times"
	}
}

func bucketFrequencies(orderCounts []int) []FrequencyRow {
	type agg struct {
		count int
		sum   int
	}
	buckets := map[string]*agg{}

	for _, n := range orderCounts {
		label := frequencyBucket(n)
		b, ok := buckets[label]
		if !ok {
			b = &agg{}
			buckets[label] = b
		}
		b.count++
		b.sum += n
	}

	rows := []FrequencyRow{}
	for label, b := range buckets {
		rows = append(rows, FrequencyRow{
			Bucket:        label,
			CustomerCount: b.count,
			AvgOrders:     float64(b.sum) / float64(b.count),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return minOrders(rows[i].Bucket) < minOrders(rows[j].Bucket)
	})

	return rows
}

func minOrders(label string) int {
	switch label {
	case "One-time":
		return 1
	case "2-5 times":
		return 2
	case "6-10 times":
		return 6
	default:
		return 11
	}
}

// retentionRate guards the divide-by-zero the raw ratio has when the previous
// period had no purchasers.
func retentionRate(retained, previous int) float64 {
	if previous == 0 {
		return 0
	}
	return float64(retained) / float64(previous) * 100
}

// yearsActive is the first-to-last order span in 365-day years.
func yearsActive(first, last time.Time) float64 {
	return last.Sub(first).Hours() / 24 / 365
}

// annualizedValue is total spend per year active, defined as zero when the
// span is zero.
func annualizedValue(totalSpent decimal.Decimal, years float64) decimal.Decimal {
	if years == 0 {
		return decimal.Zero
	}
	return totalSpent.Div(decimal.NewFromFloat(years)).Round(2)
}

type SeasonalRow struct {
	Year            *int            `json:"year"`
	Quarter         *int            `json:"quarter"`
	QuarterlySales  decimal.Decimal `json:"quarterly_sales"`
	CumulativeSales decimal.Decimal `json:"cumulative_yearly_sales"`
}

type quarterSales struct {
	year    int
	quarter int
	sales   decimal.Decimal
}

// seasonalRollup takes quarterly sums ordered by (year, quarter), adds the
// cumulative-within-year running total, and appends a rollup row (nil year
// and quarter) carrying the grand total.
func seasonalRollup(quarters []quarterSales) []SeasonalRow {
	rows := []SeasonalRow{}
	grand := decimal.Zero
	cumulative := decimal.Zero
	currentYear := 0

	for _, q := range quarters {
		if q.year != currentYear {
			currentYear = q.year
			cumulative = decimal.Zero
		}
		cumulative = cumulative.Add(q.sales)
		grand = grand.Add(q.sales)

		year, quarter := q.year, q.quarter
		rows = append(rows, SeasonalRow{
			Year:            &year,
			Quarter:         &quarter,
			QuarterlySales:  q.sales,
			CumulativeSales: cumulative,
		})
	}

	return append(rows, SeasonalRow{
		QuarterlySales:  grand,
		CumulativeSales: grand,
	})
}
