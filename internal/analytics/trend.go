package analytics

import (
	"fmt"
	"sort"

	"budgetwise/internal/core"
)

// AnalyzeTrends computes month-over-month growth per category. Categories
// with a single observed month are reported as insufficient_data with zero
// growth; fewer than five transactions overall yields an insufficient-data
// report. Results are sorted by growth rate descending, category name
// breaking ties.
func AnalyzeTrends(txs []core.Transaction) (TrendReport, error) {
	if err := core.ValidateAll(txs); err != nil {
		return TrendReport{}, fmt.Errorf("analyze trends: %w", err)
	}
	if len(txs) < minTrendTransactions {
		return insufficientTrend(reasonNeedMoreData), nil
	}

	counts := make(map[string]int)
	for _, t := range txs {
		counts[t.Category]++
	}

	results := make([]CategoryTrend, 0, len(counts))
	for category, count := range counts {
		series := ByMonth(txs, category)

		if len(series) < 2 {
			results = append(results, CategoryTrend{
				Category:        category,
				CurrentSpending: core.Round2(series[len(series)-1].Total),
				Trend:           StatusInsufficientData,
				Transactions:    count,
			})
			continue
		}

		current := series[len(series)-1].Total
		previous := series[len(series)-2].Total
		growth := growthRate(previous, current)

		trend := TrendStable
		switch {
		case growth > growthIncreasingAbove:
			trend = TrendIncreasing
		case growth < growthDecreasingBelow:
			trend = TrendDecreasing
		}

		results = append(results, CategoryTrend{
			Category:         category,
			CurrentSpending:  core.Round2(current),
			PreviousSpending: core.Round2(previous),
			GrowthRate:       core.Round2(growth),
			Trend:            trend,
			Transactions:     count,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].GrowthRate != results[j].GrowthRate {
			return results[i].GrowthRate > results[j].GrowthRate
		}
		return results[i].Category < results[j].Category
	})

	report := TrendReport{Status: StatusOK, Categories: results}
	if len(results) > 0 {
		report.TopGrowingCategory = results[0].Category
	}
	return report, nil
}
