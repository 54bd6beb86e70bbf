package analytics

import (
	"fmt"
	"sort"
	"time"

	"budgetwise/internal/core"
)

// weekdayOrder matches the original Monday-first presentation order.
var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// FindPeakDays discovers when the user spends: the weekday distribution with
// its peak, days of the month above mean+1 stddev of per-day totals, and the
// dominant month third. Requires at least five transactions.
func FindPeakDays(txs []core.Transaction) (PatternReport, error) {
	if err := core.ValidateAll(txs); err != nil {
		return PatternReport{}, fmt.Errorf("find peak days: %w", err)
	}
	if len(txs) < minPatternTransactions {
		return insufficientPattern(reasonNeedMoreData), nil
	}

	weekly := ByDayOfWeek(txs)
	pattern := make([]WeekdaySpending, 0, len(weekly))
	for _, day := range weekdayOrder {
		stats, ok := weekly[day]
		if !ok {
			continue
		}
		pattern = append(pattern, WeekdaySpending{
			Day:                   day.String(),
			TotalSpent:            core.Round2(stats.Total),
			Transactions:          stats.Count,
			AveragePerTransaction: core.Round2(stats.Mean),
		})
	}

	var peak *WeekdaySpending
	for i := range pattern {
		if peak == nil || pattern[i].TotalSpent > peak.TotalSpent {
			peak = &pattern[i]
		}
	}

	highDates := highSpendingDates(txs)

	thirds := ByMonthThird(txs)
	period := MonthThirdTotals{
		EarlyTotal: core.Round2(thirds.Early),
		MidTotal:   core.Round2(thirds.Mid),
		LateTotal:  core.Round2(thirds.Late),
		PeakPeriod: peakPeriod(thirds),
	}

	report := PatternReport{
		Status:            StatusOK,
		PeakDayOfWeek:     peak,
		WeeklyPattern:     pattern,
		HighSpendingDates: highDates,
		MonthPeriod:       period,
		Insights:          patternInsights(peak, period.PeakPeriod),
	}
	return report, nil
}

// highSpendingDates returns day numbers whose total exceeds the mean plus one
// standard deviation of per-day totals. A zero spread (e.g. a single day of
// data) yields no high dates.
func highSpendingDates(txs []core.Transaction) []int {
	daily := ByDayOfMonth(txs)
	totals := make([]float64, 0, len(daily))
	for _, v := range daily {
		totals = append(totals, v)
	}

	sd := stddev(totals)
	if sd == 0 {
		return []int{}
	}

	threshold := mean(totals) + sd
	var days []int
	for day, total := range daily {
		if total > threshold {
			days = append(days, day)
		}
	}
	sort.Ints(days)
	if days == nil {
		days = []int{}
	}
	return days
}

const (
	periodEarly = "early"
	periodMid   = "mid"
	periodLate  = "late"
)

// peakPeriod picks the third with the highest sum; earlier thirds win ties.
func peakPeriod(t ThirdTotals) string {
	peak := periodEarly
	best := t.Early
	if t.Mid > best {
		peak, best = periodMid, t.Mid
	}
	if t.Late > best {
		peak = periodLate
	}
	return peak
}

func patternInsights(peak *WeekdaySpending, period string) []string {
	insights := []string{}
	if peak != nil {
		insights = append(insights, InsightPeakWeekday)
	}
	switch period {
	case periodEarly:
		insights = append(insights, InsightPeakPeriodEarly, InsightBudgetAfterSalary)
	case periodMid:
		insights = append(insights, InsightPeakPeriodMid)
	case periodLate:
		insights = append(insights, InsightPeakPeriodLate)
	}
	return insights
}
