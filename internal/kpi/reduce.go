// Package kpi computes dashboard tiles as pure reductions over catalog
// records. Nothing is cached: every call recomputes from the slices it is given.
package kpi

import "math"

// Count returns the number of items for which pred is true.
func Count[T any](items []T, pred func(T) bool) int {
	n := 0
	for _, item := range items {
		if pred(item) {
			n++
		}
	}
	return n
}

// Sum adds up value over the items for which pred is true. A nil pred
// includes every item.
func Sum[T any](items []T, value func(T) int64, pred func(T) bool) int64 {
	var total int64
	for _, item := range items {
		if pred != nil && !pred(item) {
			continue
		}
		total += value(item)
	}
	return total
}

// Mean averages value over the items for which pred is true, rounded to two
// decimals. It returns 0 when no item qualifies.
func Mean[T any](items []T, value func(T) float64, pred func(T) bool) float64 {
	var (
		total float64
		n     int
	)
	for _, item := range items {
		if pred != nil && !pred(item) {
			continue
		}
		total += value(item)
		n++
	}
	if n == 0 {
		return 0
	}
	return round2(total / float64(n))
}

// Percent returns part/whole*100 rounded to two decimals, or 0 when whole is 0.
func Percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round2(float64(part) / float64(whole) * 100)
}

// AverageAmount divides a minor-unit amount by n, rounding half away from
// zero. It returns 0 when n is 0.
func AverageAmount(total int64, n int) int64 {
	if n == 0 {
		return 0
	}
	return int64(math.Round(float64(total) / float64(n)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
