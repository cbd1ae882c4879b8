package loans

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openLoanAgedDays(now time.Time, days int) Loan {
	return Loan{CreatedAt: now.AddDate(0, 0, -days)}
}

func TestBucketIndexPartitionIsTotalAndExclusive(t *testing.T) {
	for d := 0; d <= 200; d++ {
		idx := bucketIndex(d)
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, len(agingRanges))

		r := agingRanges[idx]
		require.GreaterOrEqual(t, d, r.Min, "day %d below bucket %q", d, r.Label)
		if r.Max != UnboundedMax {
			require.LessOrEqual(t, d, r.Max, "day %d above bucket %q", d, r.Label)
		}

		// No other range may also claim this day count.
		for i, other := range agingRanges {
			if i == idx {
				continue
			}
			inside := d >= other.Min && (other.Max == UnboundedMax || d <= other.Max)
			require.False(t, inside, "day %d claimed by both %q and %q", d, r.Label, other.Label)
		}
	}
}

func TestBucketBoundaries(t *testing.T) {
	cases := []struct {
		days  int
		label string
	}{
		{0, "<3 días"},
		{2, "<3 días"},
		{3, "+3 días"},
		{6, "+3 días"},
		{7, "+7 días"},
		{14, "+7 días"},
		{15, "+15 días"},
		{29, "+15 días"},
		{30, "+30 días"},
		{59, "+30 días"},
		{60, "+60 días"},
		{89, "+60 días"},
		{90, "+90 días"},
		{365, "+90 días"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.label, agingRanges[bucketIndex(tc.days)].Label, "days=%d", tc.days)
	}
}

func TestClassifyAgingCountsOnlyOpenLoans(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

	closed := openLoanAgedDays(now, 45)
	closed.ReceivedAt = sql.NullTime{Time: now, Valid: true}

	all := []Loan{
		openLoanAgedDays(now, 0),
		openLoanAgedDays(now, 1),
		openLoanAgedDays(now, 7),
		openLoanAgedDays(now, 31),
		openLoanAgedDays(now, 120),
		closed,
	}

	sum := ClassifyAging(all, now)
	require.Equal(t, 5, sum.TotalOpen)

	counts := map[string]int{}
	total := 0
	for _, b := range sum.Buckets {
		counts[b.Label] = b.Count
		total += b.Count
	}
	require.Equal(t, sum.TotalOpen, total)
	require.Equal(t, 2, counts["<3 días"])
	require.Equal(t, 1, counts["+7 días"])
	require.Equal(t, 1, counts["+30 días"])
	require.Equal(t, 1, counts["+90 días"])
}

func TestClassifyAgingEmitsEveryBucket(t *testing.T) {
	sum := ClassifyAging(nil, time.Now())
	require.Len(t, sum.Buckets, len(agingRanges))
	require.Zero(t, sum.TotalOpen)
	for _, b := range sum.Buckets {
		require.Zero(t, b.Count)
		require.NotEmpty(t, b.Color)
	}
}

func TestWholeDaysUsesCalendarDaysNotElapsedHours(t *testing.T) {
	created := time.Date(2026, 8, 26, 23, 30, 0, 0, time.UTC)
	now := time.Date(2026, 8, 27, 0, 10, 0, 0, time.UTC)
	require.Equal(t, 1, wholeDays(created, now))

	// A row stamped "in the future" clamps to zero instead of going negative.
	require.Equal(t, 0, wholeDays(now.AddDate(0, 0, 2), now))
}
