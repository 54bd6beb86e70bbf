package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitForecast_TooFewPoints(t *testing.T) {
	_, err := FitForecast([]SeriesPoint{{Month: time.January, Total: 100}})
	assert.ErrorIs(t, err, ErrTooFewPoints)

	_, err = FitForecast(nil)
	assert.ErrorIs(t, err, ErrTooFewPoints)
}

func TestFitForecast_LinearSeries(t *testing.T) {
	// 100, 110, 120: slope 10, intercept 100, zero residuals.
	m, err := FitForecast([]SeriesPoint{
		{Month: time.January, Total: 100},
		{Month: time.February, Total: 110},
		{Month: time.March, Total: 120},
	})
	require.NoError(t, err)

	assert.InDelta(t, 10, m.Slope, 1e-9)
	assert.InDelta(t, 100, m.Intercept, 1e-9)
	assert.InDelta(t, 0, m.Seasonal[time.February], 1e-9)
	assert.Equal(t, time.March, m.LastMonth)
	assert.Equal(t, 3, m.Points)

	// Next point continues the line: 100 + 10*3 + seasonal(April)=0.
	assert.InDelta(t, 130, m.PredictNext(), 1e-9)
	assert.Equal(t, "increasing", m.TrendDirection())
}

func TestForecastModel_TrendDirection(t *testing.T) {
	decreasing, err := FitForecast([]SeriesPoint{
		{Month: time.January, Total: 300},
		{Month: time.February, Total: 200},
		{Month: time.March, Total: 100},
	})
	require.NoError(t, err)
	assert.Equal(t, "decreasing", decreasing.TrendDirection())

	flat, err := FitForecast([]SeriesPoint{
		{Month: time.January, Total: 100},
		{Month: time.February, Total: 100},
	})
	require.NoError(t, err)
	assert.Equal(t, "stable", flat.TrendDirection())
}

func TestForecastModel_DecemberWrapsToJanuary(t *testing.T) {
	m, err := FitForecast([]SeriesPoint{
		{Month: time.November, Total: 100},
		{Month: time.December, Total: 100},
	})
	require.NoError(t, err)

	// Prediction for January must not panic and uses the January seasonal
	// offset (absent here, so zero).
	assert.InDelta(t, 100, m.PredictNext(), 1e-9)
}

func TestForecastModel_RoundTrip(t *testing.T) {
	m, err := FitForecast([]SeriesPoint{
		{Month: time.January, Total: 120},
		{Month: time.February, Total: 80},
		{Month: time.March, Total: 140},
	})
	require.NoError(t, err)

	blob, err := m.Marshal()
	require.NoError(t, err)

	restored, err := UnmarshalForecast(blob)
	require.NoError(t, err)
	assert.InDelta(t, m.PredictNext(), restored.PredictNext(), 1e-9)
	assert.Equal(t, m.TrendDirection(), restored.TrendDirection())
}

func TestFitOutlier_Validation(t *testing.T) {
	_, err := FitOutlier(nil, 0.15)
	assert.ErrorIs(t, err, ErrEmptySample)

	_, err = FitOutlier([]float64{1, 2, 3}, 0)
	assert.Error(t, err)

	_, err = FitOutlier([]float64{1, 2, 3}, 0.7)
	assert.Error(t, err)
}

func TestFitOutlier_FlagsExtremes(t *testing.T) {
	amounts := []float64{10, 11, 9, 10, 12, 10, 11, 9, 10, 500}
	m, err := FitOutlier(amounts, 0.15)
	require.NoError(t, err)

	assert.True(t, m.IsOutlier(500))
	assert.False(t, m.IsOutlier(10))
	assert.False(t, m.IsOutlier(11))
}

func TestFitOutlier_DegenerateDistribution(t *testing.T) {
	m, err := FitOutlier([]float64{50, 50, 50, 50, 50}, 0.15)
	require.NoError(t, err)

	assert.False(t, m.IsOutlier(50))
	assert.False(t, m.IsOutlier(5000))
}

func TestOutlierModel_RoundTrip(t *testing.T) {
	m, err := FitOutlier([]float64{10, 12, 9, 14, 11, 300}, 0.15)
	require.NoError(t, err)

	blob, err := m.Marshal()
	require.NoError(t, err)

	restored, err := UnmarshalOutlier(blob)
	require.NoError(t, err)
	assert.Equal(t, m.IsOutlier(300), restored.IsOutlier(300))
	assert.Equal(t, m.IsOutlier(11), restored.IsOutlier(11))
}
