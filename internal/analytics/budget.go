package analytics

import (
	"fmt"
	"sort"

	"budgetwise/internal/core"
)

// RecommendBudgets derives a per-category budget ceiling of mean plus one
// standard deviation of the category's monthly totals. Categories need at
// least two observed months; the whole analysis needs at least ten
// transactions. Results are sorted by variance descending so the worst
// overspenders come first.
func RecommendBudgets(txs []core.Transaction) (BudgetReport, error) {
	if err := core.ValidateAll(txs); err != nil {
		return BudgetReport{}, fmt.Errorf("recommend budgets: %w", err)
	}
	if len(txs) < minBudgetTransactions {
		return insufficientBudget(reasonNeedMoreData), nil
	}

	categories := make(map[string]struct{})
	for _, t := range txs {
		categories[t.Category] = struct{}{}
	}

	var (
		recommendations  []BudgetRecommendation
		totalRecommended float64
		totalCurrent     float64
	)
	for category := range categories {
		series := ByMonth(txs, category)
		if len(series) < 2 {
			continue
		}

		totals := make([]float64, len(series))
		for i, m := range series {
			totals[i] = m.Total
		}

		recommended := mean(totals) + stddev(totals)
		current := series[len(series)-1].Total
		variance := current - recommended

		variancePercent := 0.0
		if recommended > 0 {
			variancePercent = variance / recommended * 100
		}

		status := BudgetUnder
		savings := -variance
		if variance > 0 {
			status = BudgetOver
			savings = 0
		}

		totalRecommended += recommended
		totalCurrent += current

		recommendations = append(recommendations, BudgetRecommendation{
			Category:           category,
			RecommendedBudget:  core.Round2(recommended),
			CurrentSpending:    core.Round2(current),
			Variance:           core.Round2(variance),
			VariancePercent:    core.Round2(variancePercent),
			Status:             status,
			SavingsOpportunity: core.Round2(savings),
		})
	}

	sort.Slice(recommendations, func(i, j int) bool {
		if recommendations[i].Variance != recommendations[j].Variance {
			return recommendations[i].Variance > recommendations[j].Variance
		}
		return recommendations[i].Category < recommendations[j].Category
	})

	if recommendations == nil {
		recommendations = []BudgetRecommendation{}
	}

	return BudgetReport{
		Status:                 StatusOK,
		Recommendations:        recommendations,
		TotalRecommendedBudget: core.Round2(totalRecommended),
		TotalCurrentSpending:   core.Round2(totalCurrent),
	}, nil
}
