package analytics

import (
	"context"
	"fmt"
	"time"

	"budgetwise/internal/core"
	"budgetwise/internal/model"
	"budgetwise/internal/modelcache"
)

// Forecaster projects next-month total spending from the user's monthly
// series. The fitted model is cached per user and reused verbatim on later
// calls even when new data has arrived — a deliberate stability-over-recency
// trade-off.
type Forecaster struct {
	cache *modelcache.Cache
}

func NewForecaster(cache *modelcache.Cache) *Forecaster {
	return &Forecaster{cache: cache}
}

// Forecast returns the one-month-ahead spending estimate, floored at zero,
// with a trend label derived from the fitted trend endpoints. Fewer than two
// observed months yields an insufficient-data report.
func (f *Forecaster) Forecast(ctx context.Context, userID int64, txs []core.Transaction) (ForecastReport, error) {
	if err := core.ValidateAll(txs); err != nil {
		return ForecastReport{}, fmt.Errorf("forecast: %w", err)
	}

	series := ByMonth(txs, "")
	if len(series) < minForecastMonths {
		return insufficientForecast("need at least 2 monthly periods"), nil
	}

	points, err := toSeriesPoints(series)
	if err != nil {
		return ForecastReport{}, fmt.Errorf("forecast: %w", err)
	}

	blob, err := f.cache.GetOrCreate(ctx, modelcache.ForecastKey(userID), func() ([]byte, error) {
		fitted, err := model.FitForecast(points)
		if err != nil {
			return nil, err
		}
		return fitted.Marshal()
	})
	if err != nil {
		return ForecastReport{}, fmt.Errorf("forecast: %w", err)
	}

	m, err := model.UnmarshalForecast(blob)
	if err != nil {
		return ForecastReport{}, fmt.Errorf("forecast: %w", err)
	}

	predicted := m.PredictNext()
	if predicted < 0 {
		predicted = 0
	}

	return ForecastReport{
		Status:            StatusOK,
		PredictedSpending: core.Round2(predicted),
		Trend:             m.TrendDirection(),
		Confidence:        "high",
	}, nil
}

func toSeriesPoints(series []MonthTotal) ([]model.SeriesPoint, error) {
	points := make([]model.SeriesPoint, len(series))
	for i, mt := range series {
		parsed, err := time.Parse("2006-01", mt.Month)
		if err != nil {
			return nil, fmt.Errorf("parse month %q: %w", mt.Month, err)
		}
		points[i] = model.SeriesPoint{Month: parsed.Month(), Total: mt.Total}
	}
	return points, nil
}
