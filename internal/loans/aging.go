package loans

import "time"

// AgingRange is one day-count bucket of the dashboard partition.
// Max == UnboundedMax means no upper bound. The ranges cover every
// non-negative day count exactly once.
type AgingRange struct {
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Color string `json:"color"`
}

const UnboundedMax = -1

// Dashboard partition, highest severity first. Evaluation walks this
// slice top-down and assigns the first range whose lower bound is met.
var agingRanges = []AgingRange{
	{Label: "+90 días", Min: 90, Max: UnboundedMax, Color: "#8B0000"},
	{Label: "+60 días", Min: 60, Max: 89, Color: "#FF0000"},
	{Label: "+30 días", Min: 30, Max: 59, Color: "#FF8C00"},
	{Label: "+15 días", Min: 15, Max: 29, Color: "#FFA500"},
	{Label: "+7 días", Min: 7, Max: 14, Color: "#FFD700"},
	{Label: "+3 días", Min: 3, Max: 6, Color: "#77c2d7"},
	{Label: "<3 días", Min: 0, Max: 2, Color: "#90EE90"},
}

type AgingBucket struct {
	AgingRange
	Count int `json:"count"`
}

type AgingSummary struct {
	Buckets   []AgingBucket `json:"buckets"`
	TotalOpen int           `json:"total_open"`
}

// ClassifyAging buckets the open loans of the given set by whole days
// outstanding. Pure aggregation of (loan set, now); closed loans are
// skipped, every open loan lands in exactly one bucket.
func ClassifyAging(all []Loan, now time.Time) AgingSummary {
	buckets := make([]AgingBucket, len(agingRanges))
	for i, r := range agingRanges {
		buckets[i] = AgingBucket{AgingRange: r}
	}

	total := 0
	for i := range all {
		l := &all[i]
		if !l.Open() {
			continue
		}
		d := wholeDays(l.CreatedAt, now)
		buckets[bucketIndex(d)].Count++
		total++
	}

	return AgingSummary{Buckets: buckets, TotalOpen: total}
}

func bucketIndex(days int) int {
	for i, r := range agingRanges {
		if days >= r.Min {
			return i
		}
	}
	// days < 0 cannot happen for stored rows; clamp to the newest bucket.
	return len(agingRanges) - 1
}

// wholeDays counts elapsed calendar days between the creation instant and
// now, both truncated to midnight UTC.
func wholeDays(created, now time.Time) int {
	c := midnight(created)
	n := midnight(now)
	d := int(n.Sub(c).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

func midnight(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
