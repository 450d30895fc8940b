package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Stats aggregates a set of reviews.
type Stats struct {
	TotalReviews    int
	AverageRating   float64
	InternalReviews int
	ExternalReviews int
	// Distribution counts reviews per star value 1..5.
	Distribution map[int]int
}

// RatingBucket is the review count for one star value.
type RatingBucket struct {
	Rating   int
	Count    int
	Internal int
}

// ComputeStats aggregates reviews. The average is rounded to one decimal.
func ComputeStats(reviews []Review) Stats {
	byRating := map[int]RatingBucket{}
	for _, r := range reviews {
		b := byRating[r.Rating]
		b.Rating = r.Rating
		b.Count++
		if r.IsInternal {
			b.Internal++
		}
		byRating[r.Rating] = b
	}
	buckets := make([]RatingBucket, 0, len(byRating))
	for _, b := range byRating {
		buckets = append(buckets, b)
	}
	return StatsFromBuckets(buckets)
}

// StatsFromBuckets folds per-rating counts, as produced by a storage-side group-by, into Stats.
func StatsFromBuckets(buckets []RatingBucket) Stats {
	stats := Stats{Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	sum := 0
	for _, b := range buckets {
		if b.Count <= 0 {
			continue
		}
		stats.TotalReviews += b.Count
		stats.InternalReviews += b.Internal
		sum += b.Rating * b.Count
		if _, ok := stats.Distribution[b.Rating]; ok {
			stats.Distribution[b.Rating] += b.Count
		}
	}
	if stats.TotalReviews == 0 {
		return stats
	}
	stats.ExternalReviews = stats.TotalReviews - stats.InternalReviews
	stats.AverageRating = roundOneDecimal(float64(sum) / float64(stats.TotalReviews))
	return stats
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

// TimeRange selects the dashboard period.
type TimeRange string

const (
	Range7Days  TimeRange = "7d"
	Range30Days TimeRange = "30d"
	Range90Days TimeRange = "90d"
	RangeAll    TimeRange = "all"
)

// ParseTimeRange accepts 7d, 30d, 90d or all. Empty input selects 30d.
func ParseTimeRange(value string) (TimeRange, error) {
	switch TimeRange(strings.ToLower(strings.TrimSpace(value))) {
	case "":
		return Range30Days, nil
	case Range7Days:
		return Range7Days, nil
	case Range30Days:
		return Range30Days, nil
	case Range90Days:
		return Range90Days, nil
	case RangeAll:
		return RangeAll, nil
	}
	return "", fmt.Errorf("invalid time range %q", value)
}

// Days is the trend length for the range.
func (r TimeRange) Days() int {
	switch r {
	case Range7Days:
		return 7
	case Range30Days:
		return 30
	case Range90Days:
		return 90
	}
	return 365
}

// Since returns the inclusive cutoff, or false for all.
func (r TimeRange) Since(now time.Time) (time.Time, bool) {
	if r == RangeAll {
		return time.Time{}, false
	}
	return now.AddDate(0, 0, -r.Days()), true
}

// Filter keeps reviews created at or after the range cutoff.
func (r TimeRange) Filter(reviews []Review, now time.Time) []Review {
	since, ok := r.Since(now)
	if !ok {
		return reviews
	}
	filtered := make([]Review, 0, len(reviews))
	for _, review := range reviews {
		if !review.CreatedAt.Before(since) {
			filtered = append(filtered, review)
		}
	}
	return filtered
}

// TrendPoint is one calendar day of the trend.
type TrendPoint struct {
	Date  time.Time
	Label string
	Count int
}

// Trend counts reviews per calendar day in loc for the last Days() days, oldest first.
func Trend(reviews []Review, r TimeRange, now time.Time, loc *time.Location) []TrendPoint {
	if loc == nil {
		loc = time.UTC
	}
	days := r.Days()
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	points := make([]TrendPoint, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		day := today.AddDate(0, 0, i-(days-1))
		points[i] = TrendPoint{Date: day, Label: day.Format("02 Jan")}
		index[day.Format(time.DateOnly)] = i
	}
	for _, review := range reviews {
		key := review.CreatedAt.In(loc).Format(time.DateOnly)
		if i, ok := index[key]; ok {
			points[i].Count++
		}
	}
	return points
}
