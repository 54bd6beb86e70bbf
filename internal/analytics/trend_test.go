package analytics

import (
	"testing"
	"time"

	"budgetwise/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeTrends_NeedMoreData(t *testing.T) {
	txs := []core.Transaction{
		tx(1, "Food", 100, 2025, time.January, 5),
		tx(2, "Food", 120, 2025, time.February, 5),
	}

	report, err := AnalyzeTrends(txs)
	require.NoError(t, err)
	assert.Equal(t, StatusInsufficientData, report.Status)
	assert.Empty(t, report.Categories)
}

func TestAnalyzeTrends_GrowthAndClassification(t *testing.T) {
	txs := []core.Transaction{
		tx(1, "Food", 100, 2025, time.January, 5),
		tx(2, "Food", 120, 2025, time.February, 5),
		tx(3, "Food", 200, 2025, time.March, 5),
		tx(4, "Rent", 800, 2025, time.February, 1),
		tx(5, "Rent", 800, 2025, time.March, 1),
		tx(6, "Fun", 50, 2025, time.February, 14),
		tx(7, "Fun", 30, 2025, time.March, 14),
	}

	report, err := AnalyzeTrends(txs)
	require.NoError(t, err)
	require.Equal(t, StatusOK, report.Status)
	require.Len(t, report.Categories, 3)

	byCat := make(map[string]CategoryTrend)
	for _, c := range report.Categories {
		byCat[c.Category] = c
	}

	// Feb→Mar for Food: (200-120)/120*100 = 66.67, increasing.
	food := byCat["Food"]
	assert.InDelta(t, 66.67, food.GrowthRate, 0.001)
	assert.Equal(t, TrendIncreasing, food.Trend)
	assert.Equal(t, 3, food.Transactions)

	rent := byCat["Rent"]
	assert.Equal(t, 0.0, rent.GrowthRate)
	assert.Equal(t, TrendStable, rent.Trend)

	// (30-50)/50*100 = -40, decreasing.
	fun := byCat["Fun"]
	assert.Equal(t, -40.0, fun.GrowthRate)
	assert.Equal(t, TrendDecreasing, fun.Trend)

	// Sorted by growth descending, top grower surfaced.
	assert.Equal(t, "Food", report.Categories[0].Category)
	assert.Equal(t, "Food", report.TopGrowingCategory)
	assert.Equal(t, "Fun", report.Categories[2].Category)
}

func TestAnalyzeTrends_ZeroPreviousPeriod(t *testing.T) {
	txs := []core.Transaction{
		tx(1, "Food", 0, 2025, time.January, 5),
		tx(2, "Food", 50, 2025, time.February, 5),
		tx(3, "Food", 10, 2025, time.January, 8),
		tx(4, "Food", 0, 2025, time.March, 5),
		tx(5, "Gym", 0, 2025, time.January, 2),
		tx(6, "Gym", 40, 2025, time.February, 2),
	}

	report, err := AnalyzeTrends(txs)
	require.NoError(t, err)

	byCat := make(map[string]CategoryTrend)
	for _, c := range report.Categories {
		byCat[c.Category] = c
	}

	// Gym: previous 0, current 40 → exactly +100.
	assert.Equal(t, 100.0, byCat["Gym"].GrowthRate)
	// Food: previous 50, current 0 → -100.
	assert.Equal(t, -100.0, byCat["Food"].GrowthRate)
}

func TestAnalyzeTrends_SinglePeriodCategory(t *testing.T) {
	txs := []core.Transaction{
		tx(1, "Food", 100, 2025, time.January, 5),
		tx(2, "Food", 120, 2025, time.February, 5),
		tx(3, "Travel", 999, 2025, time.February, 10),
		tx(4, "Food", 90, 2025, time.March, 5),
		tx(5, "Food", 10, 2025, time.March, 20),
	}

	report, err := AnalyzeTrends(txs)
	require.NoError(t, err)

	var travel CategoryTrend
	for _, c := range report.Categories {
		if c.Category == "Travel" {
			travel = c
		}
	}

	assert.Equal(t, StatusInsufficientData, travel.Trend)
	assert.Equal(t, 0.0, travel.GrowthRate)
	assert.Equal(t, 999.0, travel.CurrentSpending)
}

func TestAnalyzeTrends_MalformedRecordIsHardError(t *testing.T) {
	txs := []core.Transaction{
		tx(1, "Food", 100, 2025, time.January, 5),
		{ID: 2, Category: "Food", Amount: -5, Date: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
		tx(3, "Food", 100, 2025, time.March, 5),
		tx(4, "Food", 100, 2025, time.April, 5),
		tx(5, "Food", 100, 2025, time.May, 5),
	}

	_, err := AnalyzeTrends(txs)
	assert.ErrorIs(t, err, core.ErrNegativeAmount)
}
