package analytics

import (
	"sort"
	"time"

	"budgetwise/internal/core"
)

// MonthTotal is one calendar month's summed spending. Month uses the
// "2006-01" key format; only observed months appear, gaps are not
// zero-filled.
type MonthTotal struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// WeekdayStats aggregates transactions falling on one weekday.
type WeekdayStats struct {
	Total float64
	Count int
	Mean  float64
}

// ThirdTotals buckets spending into the three ten-day ranges of a month.
type ThirdTotals struct {
	Early float64 // days 1-10
	Mid   float64 // days 11-20
	Late  float64 // days 21-31
}

// ByMonth sums amounts per calendar month, ordered chronologically. An empty
// category matches all transactions. Empty input yields an empty series.
func ByMonth(txs []core.Transaction, category string) []MonthTotal {
	totals := make(map[string]float64)
	for _, t := range txs {
		if category != "" && t.Category != category {
			continue
		}
		totals[t.Month()] += t.Amount
	}

	months := make([]string, 0, len(totals))
	for m := range totals {
		months = append(months, m)
	}
	sort.Strings(months)

	series := make([]MonthTotal, len(months))
	for i, m := range months {
		series[i] = MonthTotal{Month: m, Total: totals[m]}
	}
	return series
}

// ByDayOfWeek aggregates total, count and mean amount per weekday.
func ByDayOfWeek(txs []core.Transaction) map[time.Weekday]WeekdayStats {
	out := make(map[time.Weekday]WeekdayStats)
	for _, t := range txs {
		s := out[t.Date.Weekday()]
		s.Total += t.Amount
		s.Count++
		out[t.Date.Weekday()] = s
	}
	for day, s := range out {
		s.Mean = s.Total / float64(s.Count)
		out[day] = s
	}
	return out
}

// ByDayOfMonth sums amounts per day number (1-31).
func ByDayOfMonth(txs []core.Transaction) map[int]float64 {
	out := make(map[int]float64)
	for _, t := range txs {
		out[t.Date.Day()] += t.Amount
	}
	return out
}

// ByMonthThird sums amounts into the early/mid/late ranges of the month.
func ByMonthThird(txs []core.Transaction) ThirdTotals {
	var out ThirdTotals
	for _, t := range txs {
		switch day := t.Date.Day(); {
		case day <= 10:
			out.Early += t.Amount
		case day <= 20:
			out.Mid += t.Amount
		default:
			out.Late += t.Amount
		}
	}
	return out
}
