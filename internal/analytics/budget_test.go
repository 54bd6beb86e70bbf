package analytics

import (
	"testing"
	"time"

	"budgetwise/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func budgetFixture() []core.Transaction {
	return []core.Transaction{
		// Food: Jan 100, Feb 100, Mar 400 — recommended 200+stddev(141.42).
		tx(1, "Food", 100, 2025, time.January, 5),
		tx(2, "Food", 100, 2025, time.February, 5),
		tx(3, "Food", 400, 2025, time.March, 5),
		// Rent: steady 800 — recommended 800, current 800, never over.
		tx(4, "Rent", 800, 2025, time.January, 1),
		tx(5, "Rent", 800, 2025, time.February, 1),
		tx(6, "Rent", 800, 2025, time.March, 1),
		// Travel: a single month, skipped.
		tx(7, "Travel", 999, 2025, time.March, 12),
		tx(8, "Food", 10, 2025, time.January, 20),
		tx(9, "Food", 10, 2025, time.February, 20),
		tx(10, "Food", 10, 2025, time.March, 20),
	}
}

func TestRecommendBudgets_NeedMoreData(t *testing.T) {
	report, err := RecommendBudgets(budgetFixture()[:9])
	require.NoError(t, err)
	assert.Equal(t, StatusInsufficientData, report.Status)
	assert.Empty(t, report.Recommendations)
}

func TestRecommendBudgets_Recommendations(t *testing.T) {
	report, err := RecommendBudgets(budgetFixture())
	require.NoError(t, err)
	require.Equal(t, StatusOK, report.Status)

	// Travel has one observed month and is excluded.
	require.Len(t, report.Recommendations, 2)

	// Food monthly totals 110, 110, 410: mean 210, pop stddev 141.42.
	food := report.Recommendations[0]
	assert.Equal(t, "Food", food.Category)
	assert.InDelta(t, 351.42, food.RecommendedBudget, 0.01)
	assert.Equal(t, 410.0, food.CurrentSpending)
	assert.InDelta(t, 58.58, food.Variance, 0.01)
	assert.Equal(t, BudgetOver, food.Status)
	assert.Equal(t, 0.0, food.SavingsOpportunity)

	rent := report.Recommendations[1]
	assert.Equal(t, "Rent", rent.Category)
	assert.Equal(t, 800.0, rent.RecommendedBudget)
	assert.Equal(t, BudgetUnder, rent.Status)
	assert.Equal(t, 0.0, rent.Variance)
	assert.Equal(t, 0.0, rent.SavingsOpportunity)

	assert.InDelta(t, 1151.42, report.TotalRecommendedBudget, 0.01)
	assert.Equal(t, 1210.0, report.TotalCurrentSpending)
}

func TestRecommendBudgets_SavingsOpportunityNonNegative(t *testing.T) {
	txs := []core.Transaction{
		// Food drops sharply in the latest month.
		tx(1, "Food", 400, 2025, time.January, 5),
		tx(2, "Food", 400, 2025, time.February, 5),
		tx(3, "Food", 50, 2025, time.March, 5),
		tx(4, "Rent", 800, 2025, time.January, 1),
		tx(5, "Rent", 800, 2025, time.February, 1),
		tx(6, "Rent", 800, 2025, time.March, 1),
		tx(7, "Food", 10, 2025, time.January, 7),
		tx(8, "Food", 10, 2025, time.February, 7),
		tx(9, "Food", 10, 2025, time.March, 7),
		tx(10, "Rent", 5, 2025, time.March, 2),
	}

	report, err := RecommendBudgets(txs)
	require.NoError(t, err)

	for _, rec := range report.Recommendations {
		assert.GreaterOrEqual(t, rec.SavingsOpportunity, 0.0)
		if rec.Status == BudgetOver {
			assert.Greater(t, rec.Variance, 0.0)
			assert.Equal(t, 0.0, rec.SavingsOpportunity)
		} else {
			assert.LessOrEqual(t, rec.Variance, 0.0)
		}
	}
}
