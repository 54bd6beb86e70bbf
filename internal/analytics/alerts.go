package analytics

import (
	"fmt"
	"sort"
	"time"

	"budgetwise/internal/core"

	"github.com/google/uuid"
)

// Alert rule thresholds as percentages of declared income.
const (
	criticalSpendRatio = 90.0
	warningSpendRatio  = 80.0
	categorySpendRatio = 30.0
)

// GenerateAlerts evaluates the overspending rules against the current
// period's transactions and declared monthly income. Absent transactions or
// income produce an empty list by policy, not an error. All applicable rules
// fire independently.
func GenerateAlerts(txs []core.Transaction, income float64, now time.Time) ([]Alert, error) {
	if err := core.ValidateAll(txs); err != nil {
		return nil, fmt.Errorf("generate alerts: %w", err)
	}

	alerts := []Alert{}
	if len(txs) == 0 || income <= 0 {
		return alerts, nil
	}

	var total float64
	categoryTotals := make(map[string]float64)
	for _, t := range txs {
		total += t.Amount
		categoryTotals[t.Category] += t.Amount
	}

	// Rule 1: total spend against income.
	spendRatio := total / income * 100
	switch {
	case spendRatio > criticalSpendRatio:
		alerts = append(alerts, Alert{
			ID:          uuid.New().String(),
			Type:        AlertCritical,
			Code:        CodeSevereOverspending,
			Message:     fmt.Sprintf("spent %.1f%% of monthly income", spendRatio),
			Suggestion:  SuggestReduceDiscretionary,
			Ratio:       core.Round2(spendRatio),
			GeneratedAt: now,
		})
	case spendRatio > warningSpendRatio:
		alerts = append(alerts, Alert{
			ID:          uuid.New().String(),
			Type:        AlertWarning,
			Code:        CodeHighSpending,
			Message:     fmt.Sprintf("spent %.1f%% of monthly income", spendRatio),
			Suggestion:  SuggestTrackExpenses,
			Ratio:       core.Round2(spendRatio),
			GeneratedAt: now,
		})
	}

	// Rule 2: single categories consuming too much income.
	categories := make([]string, 0, len(categoryTotals))
	for c := range categoryTotals {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	for _, category := range categories {
		ratio := categoryTotals[category] / income * 100
		if ratio <= categorySpendRatio {
			continue
		}
		alerts = append(alerts, Alert{
			ID:          uuid.New().String(),
			Type:        AlertCategory,
			Code:        CodeCategoryOverspending,
			Message:     fmt.Sprintf("%s accounts for %.1f%% of monthly income", category, ratio),
			Suggestion:  SuggestStricterBudget,
			Category:    category,
			Ratio:       core.Round2(ratio),
			GeneratedAt: now,
		})
	}

	// Rule 3: single-transaction spikes against the mean amount.
	meanAmount := total / float64(len(txs))
	spikes := 0
	for _, t := range txs {
		if t.Amount > spikeFactor*meanAmount {
			spikes++
		}
	}
	if spikes > 0 {
		alerts = append(alerts, Alert{
			ID:          uuid.New().String(),
			Type:        AlertAnomaly,
			Code:        CodeSpendingSpike,
			Message:     fmt.Sprintf("%d unusually high transactions found", spikes),
			Suggestion:  SuggestReviewLarge,
			SpikeCount:  spikes,
			GeneratedAt: now,
		})
	}

	return alerts, nil
}
