package analytics

import (
	"testing"
	"time"

	"budgetwise/internal/core"

	"github.com/stretchr/testify/assert"
)

func tx(id int64, category string, amount float64, year int, month time.Month, day int) core.Transaction {
	return core.Transaction{
		ID:       id,
		Category: category,
		Amount:   amount,
		Date:     time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
	}
}

func TestByMonth(t *testing.T) {
	txs := []core.Transaction{
		tx(1, "Food", 100, 2025, time.January, 5),
		tx(2, "Food", 50, 2025, time.January, 20),
		tx(3, "Rent", 800, 2025, time.January, 1),
		tx(4, "Food", 120, 2025, time.February, 3),
		// A gap: no March, then April. Gaps stay absent from the series.
		tx(5, "Food", 200, 2025, time.April, 9),
	}

	all := ByMonth(txs, "")
	assert.Equal(t, []MonthTotal{
		{Month: "2025-01", Total: 950},
		{Month: "2025-02", Total: 120},
		{Month: "2025-04", Total: 200},
	}, all)

	food := ByMonth(txs, "Food")
	assert.Equal(t, []MonthTotal{
		{Month: "2025-01", Total: 150},
		{Month: "2025-02", Total: 120},
		{Month: "2025-04", Total: 200},
	}, food)

	assert.Empty(t, ByMonth(nil, ""))
	assert.Empty(t, ByMonth(txs, "Travel"))
}

func TestByDayOfWeek(t *testing.T) {
	// 2025-03-03 is a Monday.
	txs := []core.Transaction{
		tx(1, "Food", 10, 2025, time.March, 3),
		tx(2, "Food", 30, 2025, time.March, 10), // also Monday
		tx(3, "Food", 5, 2025, time.March, 4),   // Tuesday
	}

	stats := ByDayOfWeek(txs)
	assert.Len(t, stats, 2)
	assert.Equal(t, WeekdayStats{Total: 40, Count: 2, Mean: 20}, stats[time.Monday])
	assert.Equal(t, WeekdayStats{Total: 5, Count: 1, Mean: 5}, stats[time.Tuesday])

	assert.Empty(t, ByDayOfWeek(nil))
}

func TestByDayOfMonth(t *testing.T) {
	txs := []core.Transaction{
		tx(1, "Food", 10, 2025, time.January, 5),
		tx(2, "Food", 20, 2025, time.February, 5),
		tx(3, "Food", 7, 2025, time.January, 28),
	}

	daily := ByDayOfMonth(txs)
	assert.Equal(t, map[int]float64{5: 30, 28: 7}, daily)
}

func TestByMonthThird(t *testing.T) {
	txs := []core.Transaction{
		tx(1, "Food", 10, 2025, time.January, 1),
		tx(2, "Food", 20, 2025, time.January, 10),
		tx(3, "Food", 40, 2025, time.January, 11),
		tx(4, "Food", 80, 2025, time.January, 20),
		tx(5, "Food", 160, 2025, time.January, 21),
		tx(6, "Food", 320, 2025, time.January, 31),
	}

	thirds := ByMonthThird(txs)
	assert.Equal(t, ThirdTotals{Early: 30, Mid: 120, Late: 480}, thirds)

	assert.Equal(t, ThirdTotals{}, ByMonthThird(nil))
}
