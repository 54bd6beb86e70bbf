package analytics

import (
	"context"
	"testing"
	"time"

	"budgetwise/internal/core"
	"budgetwise/internal/model"
	"budgetwise/internal/modelcache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForecaster_InsufficientMonths(t *testing.T) {
	f := NewForecaster(modelcache.New(modelcache.NewMemoryStore()))

	txs := []core.Transaction{
		tx(1, "Food", 100, 2025, time.January, 5),
		tx(2, "Food", 50, 2025, time.January, 25),
	}

	report, err := f.Forecast(context.Background(), 1, txs)
	require.NoError(t, err)
	assert.Equal(t, StatusInsufficientData, report.Status)
	assert.Equal(t, 0.0, report.PredictedSpending)
}

func TestForecaster_PredictsRisingSeries(t *testing.T) {
	f := NewForecaster(modelcache.New(modelcache.NewMemoryStore()))

	txs := []core.Transaction{
		tx(1, "Food", 100, 2025, time.January, 5),
		tx(2, "Food", 110, 2025, time.February, 5),
		tx(3, "Food", 120, 2025, time.March, 5),
	}

	report, err := f.Forecast(context.Background(), 1, txs)
	require.NoError(t, err)
	require.Equal(t, StatusOK, report.Status)

	// A clean 100/110/120 line extends to 130.
	assert.InDelta(t, 130, report.PredictedSpending, 0.01)
	assert.Equal(t, TrendIncreasing, report.Trend)
	assert.Equal(t, "high", report.Confidence)
}

func TestForecaster_NeverNegative(t *testing.T) {
	f := NewForecaster(modelcache.New(modelcache.NewMemoryStore()))

	// Steeply falling series whose trend line crosses zero.
	txs := []core.Transaction{
		tx(1, "Food", 500, 2025, time.January, 5),
		tx(2, "Food", 200, 2025, time.February, 5),
		tx(3, "Food", 10, 2025, time.March, 5),
	}

	report, err := f.Forecast(context.Background(), 1, txs)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, report.PredictedSpending, 0.0)
	assert.Equal(t, TrendDecreasing, report.Trend)
}

func TestForecaster_CachedModelReusedVerbatim(t *testing.T) {
	store := modelcache.NewMemoryStore()
	f := NewForecaster(modelcache.New(store))
	ctx := context.Background()

	txs := []core.Transaction{
		tx(1, "Food", 100, 2025, time.January, 5),
		tx(2, "Food", 150, 2025, time.February, 5),
		tx(3, "Food", 130, 2025, time.March, 5),
	}

	first, err := f.Forecast(ctx, 42, txs)
	require.NoError(t, err)

	second, err := f.Forecast(ctx, 42, txs)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// New data does not retrain: the stored model keeps answering.
	more := append(txs, tx(4, "Food", 9000, 2025, time.April, 5))
	third, err := f.Forecast(ctx, 42, more)
	require.NoError(t, err)
	assert.Equal(t, first.PredictedSpending, third.PredictedSpending)
	assert.Equal(t, 1, store.Len())
}

func TestForecaster_SeparateUsersTrainSeparately(t *testing.T) {
	store := modelcache.NewMemoryStore()
	f := NewForecaster(modelcache.New(store))
	ctx := context.Background()

	base := []core.Transaction{
		tx(1, "Food", 100, 2025, time.January, 5),
		tx(2, "Food", 200, 2025, time.February, 5),
	}

	_, err := f.Forecast(ctx, 1, base)
	require.NoError(t, err)
	_, err = f.Forecast(ctx, 2, base)
	require.NoError(t, err)

	assert.Equal(t, 2, store.Len())
}

func TestForecaster_CorruptBlobIsHardError(t *testing.T) {
	store := modelcache.NewMemoryStore()
	require.NoError(t, store.PutModel(context.Background(), modelcache.ForecastKey(5), []byte("not json")))

	f := NewForecaster(modelcache.New(store))
	txs := []core.Transaction{
		tx(1, "Food", 100, 2025, time.January, 5),
		tx(2, "Food", 200, 2025, time.February, 5),
	}

	_, err := f.Forecast(context.Background(), 5, txs)
	assert.Error(t, err)
}

func TestToSeriesPoints(t *testing.T) {
	points, err := toSeriesPoints([]MonthTotal{
		{Month: "2025-11", Total: 10},
		{Month: "2025-12", Total: 20},
	})
	require.NoError(t, err)
	assert.Equal(t, []model.SeriesPoint{
		{Month: time.November, Total: 10},
		{Month: time.December, Total: 20},
	}, points)

	_, err = toSeriesPoints([]MonthTotal{{Month: "late-2025", Total: 10}})
	assert.Error(t, err)
}
