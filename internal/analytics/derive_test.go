package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpendSegmentBoundaries(t *testing.T) {
	tests := []struct {
		total   string
		segment string
	}{
		{"0", SegmentLow},
		{"1499.99", SegmentLow},
		{"1500", SegmentMedium},
		{"2000", SegmentMedium},
		{"3500", SegmentMedium},
		{"3500.01", SegmentHigh},
		{"10000", SegmentHigh},
	}

	for _, tt := range tests {
		total, err := decimal.NewFromString(tt.total)
		require.NoError(t, err)
		assert.Equal(t, tt.segment, spendSegment(total), "total %s", tt.total)
	}
}

func TestSegmentCustomersRollup(t *testing.T) {
	totals := []decimal.Decimal{
		decimal.NewFromInt(100),
		decimal.NewFromInt(1500),
		decimal.NewFromInt(5000),
		decimal.NewFromInt(200),
	}

	rows := segmentCustomers(totals)
	require.Len(t, rows, 4)

	assert.Equal(t, SegmentLow, rows[0].Segment)
	assert.Equal(t, 2, rows[0].CustomerCount)
	assert.True(t, rows[0].AvgSpend.Equal(decimal.NewFromInt(150)))

	assert.Equal(t, SegmentMedium, rows[1].Segment)
	assert.Equal(t, 1, rows[1].CustomerCount)

	assert.Equal(t, SegmentHigh, rows[2].Segment)
	assert.Equal(t, 1, rows[2].CustomerCount)

	rollup := rows[3]
	assert.Equal(t, SegmentTotal, rollup.Segment)
	assert.Equal(t, 4, rollup.CustomerCount)
	assert.True(t, rollup.AvgSpend.Equal(decimal.NewFromInt(1700)))
}

func TestSegmentCustomersEmpty(t *testing.T) {
	rows := segmentCustomers(nil)

	require.Len(t, rows, 1)
	assert.Equal(t, SegmentTotal, rows[0].Segment)
	assert.Equal(t, 0, rows[0].CustomerCount)
	assert.True(t, rows[0].AvgSpend.IsZero())
}

func TestFrequencyBucketEdges(t *testing.T) {
	assert.Equal(t, "One-time", frequencyBucket(1))
	assert.Equal(t, "2-5 times", frequencyBucket(2))
	assert.Equal(t, "2-5 times", frequencyBucket(5))
	assert.Equal(t, "6-10 times", frequencyBucket(6))
	assert.Equal(t, "6-10 times", frequencyBucket(10))
	assert.Equal(t, "More than 10 times", frequencyBucket(11))
}

func TestBucketFrequenciesOrdering(t *testing.T) {
	rows := bucketFrequencies([]int{12, 1, 3, 1, 7, 4})

	require.Len(t, rows, 4)
	assert.Equal(t, "One-time", rows[0].Bucket)
	assert.Equal(t, 2, rows[0].CustomerCount)
	assert.Equal(t, "2-5 times", rows[1].Bucket)
	assert.Equal(t, 3.5, rows[1].AvgOrders)
	assert.Equal(t, "6-10 times", rows[2].Bucket)
	assert.Equal(t, "More than 10 times", rows[3].Bucket)
}

func TestBucketFrequenciesEmpty(t *testing.T) {
	assert.Empty(t, bucketFrequencies(nil))
}

func TestRetentionRateZeroPrevious(t *testing.T) {
	assert.Equal(t, 0.0, retentionRate(0, 0))
	assert.Equal(t, 0.0, retentionRate(5, 0))
	assert.Equal(t, 50.0, retentionRate(1, 2))
	assert.Equal(t, 100.0, retentionRate(3, 3))
}

func TestAnnualizedValueZeroSpan(t *testing.T) {
	spent := decimal.NewFromInt(730)

	assert.True(t, annualizedValue(spent, 0).IsZero())

	value := annualizedValue(spent, 2)
	assert.True(t, value.Equal(decimal.NewFromInt(365)), "got %s", value)
}

func TestYearsActive(t *testing.T) {
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 0, 365)

	assert.InDelta(t, 1.0, yearsActive(first, last), 0.01)
	assert.Equal(t, 0.0, yearsActive(first, first))
}

func TestSeasonalRollup(t *testing.T) {
	d := func(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

	rows := seasonalRollup([]quarterSales{
		{year: 2024, quarter: 3, sales: d(100)},
		{year: 2024, quarter: 4, sales: d(200)},
		{year: 2025, quarter: 1, sales: d(50)},
	})

	require.Len(t, rows, 4)

	assert.True(t, rows[0].CumulativeSales.Equal(d(100)))
	assert.True(t, rows[1].CumulativeSales.Equal(d(300)))
	// Cumulative resets at the year boundary.
	assert.True(t, rows[2].CumulativeSales.Equal(d(50)))

	rollup := rows[3]
	assert.Nil(t, rollup.Year)
	assert.Nil(t, rollup.Quarter)
	assert.True(t, rollup.QuarterlySales.Equal(d(350)))
}

func TestSeasonalRollupEmpty(t *testing.T) {
	rows := seasonalRollup(nil)

	require.Len(t, rows, 1)
	assert.True(t, rows[0].QuarterlySales.IsZero())
}
