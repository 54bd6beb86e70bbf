package analytics

import (
	"fmt"

	"budgetwise/internal/core"
)

// Sub-score weights: consistency 30, trend 25, diversity 20, budget
// adherence 25. The four always sum to the overall score.
const (
	consistencySingle = 15
	trendSingle       = 12
	budgetNoIncome    = 12
	diversityMax      = 20
)

// ScoreHealth computes the 0-100 composite financial-health score from
// spending consistency, trend direction, category diversity and budget
// adherence. Income at or below zero counts as not provided. Fewer than five
// transactions yields a zero score marked insufficient_data.
func ScoreHealth(txs []core.Transaction, income float64) (HealthReport, error) {
	if err := core.ValidateAll(txs); err != nil {
		return HealthReport{}, fmt.Errorf("score health: %w", err)
	}
	if len(txs) < minHealthTransactions {
		return insufficientHealth(reasonNeedMoreData), nil
	}

	series := ByMonth(txs, "")
	totals := make([]float64, len(series))
	for i, m := range series {
		totals[i] = m.Total
	}

	categories := make(map[string]struct{})
	for _, t := range txs {
		categories[t.Category] = struct{}{}
	}

	breakdown := HealthBreakdown{
		Consistency:     consistencyScore(totals),
		Trend:           trendScore(totals),
		Diversity:       diversityScore(len(categories)),
		BudgetAdherence: budgetScore(totals, income),
	}
	overall := breakdown.Consistency + breakdown.Trend + breakdown.Diversity + breakdown.BudgetAdherence
	grade, rating := grade(overall)

	return HealthReport{
		Status:       StatusOK,
		OverallScore: overall,
		Grade:        grade,
		Rating:       rating,
		Breakdown:    breakdown,
		Insights:     healthInsights(overall, breakdown),
	}, nil
}

// consistencyScore maps the coefficient of variation of monthly totals to
// fixed breakpoints; lower volatility scores higher.
func consistencyScore(monthly []float64) int {
	if len(monthly) < 2 {
		return consistencySingle
	}
	m := mean(monthly)
	if m == 0 {
		return consistencySingle
	}

	cv := stddev(monthly) / m * 100
	switch {
	case cv < 25:
		return 30
	case cv < 50:
		return 22
	case cv < 75:
		return 15
	default:
		return 8
	}
}

// trendScore compares the mean of the first half of the monthly series with
// the second half; falling spend scores higher.
func trendScore(monthly []float64) int {
	if len(monthly) < 2 {
		return trendSingle
	}

	half := len(monthly) / 2
	first := mean(monthly[:half])
	second := mean(monthly[half:])
	if first == 0 {
		return trendSingle
	}

	change := (second - first) / first * 100
	switch {
	case change < -10:
		return 25
	case change < 10:
		return 18
	case change < 25:
		return 10
	default:
		return 5
	}
}

func diversityScore(categories int) int {
	score := categories * 4
	if score > diversityMax {
		return diversityMax
	}
	return score
}

// budgetScore maps the ratio of average monthly spend to declared income.
func budgetScore(monthly []float64, income float64) int {
	if income <= 0 {
		return budgetNoIncome
	}

	ratio := mean(monthly) / income * 100
	switch {
	case ratio < 50:
		return 25
	case ratio < 70:
		return 18
	case ratio < 90:
		return 10
	default:
		return 5
	}
}

func grade(score int) (string, string) {
	switch {
	case score >= 85:
		return "A+", "excellent"
	case score >= 70:
		return "A", "good"
	case score >= 55:
		return "B", "fair"
	case score >= 40:
		return "C", "needs_improvement"
	default:
		return "D", "poor"
	}
}

func healthInsights(overall int, b HealthBreakdown) []string {
	var insights []string

	switch {
	case overall >= 75:
		insights = append(insights, InsightStrongDiscipline)
	case overall >= 55:
		insights = append(insights, InsightGoodHabits)
	default:
		insights = append(insights, InsightSpendingAttention)
	}

	if b.Consistency < 15 {
		insights = append(insights, InsightHighVariance)
	}
	if b.Trend < 10 {
		insights = append(insights, InsightRisingTrend)
	}
	if b.BudgetAdherence < 10 {
		insights = append(insights, InsightIncomeConsumed)
	}
	return insights
}
