package analytics

import (
	"testing"
	"time"

	"budgetwise/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alertsNow = time.Date(2025, time.March, 31, 12, 0, 0, 0, time.UTC)

func findAlert(t *testing.T, alerts []Alert, typ string) Alert {
	t.Helper()
	for _, a := range alerts {
		if a.Type == typ {
			return a
		}
	}
	t.Fatalf("no %s alert in %v", typ, alerts)
	return Alert{}
}

func TestGenerateAlerts_NoDataMeansNoAlerts(t *testing.T) {
	alerts, err := GenerateAlerts(nil, 1000, alertsNow)
	require.NoError(t, err)
	assert.Empty(t, alerts)

	alerts, err = GenerateAlerts([]core.Transaction{tx(1, "Food", 50, 2025, time.March, 1)}, 0, alertsNow)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestGenerateAlerts_CriticalOverspending(t *testing.T) {
	txs := []core.Transaction{
		tx(1, "Rent", 500, 2025, time.March, 1),
		tx(2, "Food", 250, 2025, time.March, 10),
		tx(3, "Fun", 200, 2025, time.March, 20),
	}

	alerts, err := GenerateAlerts(txs, 1000, alertsNow)
	require.NoError(t, err)

	// 950 of 1000 spent.
	critical := findAlert(t, alerts, AlertCritical)
	assert.Equal(t, CodeSevereOverspending, critical.Code)
	assert.Equal(t, 95.0, critical.Ratio)
	assert.Equal(t, "spent 95.0% of monthly income", critical.Message)
	assert.Equal(t, SuggestReduceDiscretionary, critical.Suggestion)
	assert.NotEmpty(t, critical.ID)
	assert.Equal(t, alertsNow, critical.GeneratedAt)

	// The warning rule must not fire alongside the critical one.
	for _, a := range alerts {
		assert.NotEqual(t, AlertWarning, a.Type)
	}
}

func TestGenerateAlerts_WarningBand(t *testing.T) {
	txs := []core.Transaction{
		tx(1, "Rent", 290, 2025, time.March, 1),
		tx(2, "Food", 280, 2025, time.March, 10),
		tx(3, "Fun", 280, 2025, time.March, 20),
	}

	// 850 of 1000: above 80, not above 90.
	alerts, err := GenerateAlerts(txs, 1000, alertsNow)
	require.NoError(t, err)

	warning := findAlert(t, alerts, AlertWarning)
	assert.Equal(t, CodeHighSpending, warning.Code)
	assert.Equal(t, 85.0, warning.Ratio)
	for _, a := range alerts {
		assert.NotEqual(t, AlertCritical, a.Type)
	}
}

func TestGenerateAlerts_CategoryRuleFiresPerCategory(t *testing.T) {
	txs := []core.Transaction{
		tx(1, "Rent", 500, 2025, time.March, 1),
		tx(2, "Food", 350, 2025, time.March, 10),
		tx(3, "Fun", 100, 2025, time.March, 20),
	}

	alerts, err := GenerateAlerts(txs, 1000, alertsNow)
	require.NoError(t, err)

	var categoryAlerts []Alert
	for _, a := range alerts {
		if a.Type == AlertCategory {
			categoryAlerts = append(categoryAlerts, a)
		}
	}
	// Rent at 50% and Food at 35% both cross the 30% line; Fun does not.
	// Alphabetical category order.
	require.Len(t, categoryAlerts, 2)
	assert.Equal(t, "Food", categoryAlerts[0].Category)
	assert.Equal(t, 35.0, categoryAlerts[0].Ratio)
	assert.Equal(t, "Rent", categoryAlerts[1].Category)
	assert.Equal(t, 50.0, categoryAlerts[1].Ratio)
	assert.Equal(t, "Rent accounts for 50.0% of monthly income", categoryAlerts[1].Message)
}

func TestGenerateAlerts_SpikeRule(t *testing.T) {
	txs := []core.Transaction{
		tx(1, "Food", 10, 2025, time.March, 1),
		tx(2, "Food", 10, 2025, time.March, 5),
		tx(3, "Food", 10, 2025, time.March, 9),
		tx(4, "Food", 200, 2025, time.March, 12), // mean 57.5, spike line 143.75
	}

	alerts, err := GenerateAlerts(txs, 10000, alertsNow)
	require.NoError(t, err)

	spike := findAlert(t, alerts, AlertAnomaly)
	assert.Equal(t, CodeSpendingSpike, spike.Code)
	assert.Equal(t, 1, spike.SpikeCount)
	assert.Equal(t, "1 unusually high transactions found", spike.Message)
}

func TestGenerateAlerts_QuietMonth(t *testing.T) {
	txs := []core.Transaction{
		tx(1, "Food", 100, 2025, time.March, 1),
		tx(2, "Food", 110, 2025, time.March, 10),
	}

	alerts, err := GenerateAlerts(txs, 1000, alertsNow)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestGenerateAlerts_RulesFireIndependently(t *testing.T) {
	txs := []core.Transaction{
		tx(1, "Rent", 700, 2025, time.March, 1),
		tx(2, "Food", 80, 2025, time.March, 5),
		tx(3, "Food", 80, 2025, time.March, 12),
		tx(4, "Food", 90, 2025, time.March, 19),
	}

	alerts, err := GenerateAlerts(txs, 1000, alertsNow)
	require.NoError(t, err)

	// 950 total -> critical; Rent 70% -> category; 700 > 2.5x mean 237.5 -> spike.
	types := make([]string, len(alerts))
	for i, a := range alerts {
		types[i] = a.Type
	}
	assert.ElementsMatch(t, []string{AlertCritical, AlertCategory, AlertAnomaly}, types)
}

func TestGenerateAlerts_MalformedTransactionIsHardError(t *testing.T) {
	bad := tx(1, "Food", -5, 2025, time.March, 1)

	_, err := GenerateAlerts([]core.Transaction{bad}, 1000, alertsNow)
	assert.ErrorIs(t, err, core.ErrNegativeAmount)
}
