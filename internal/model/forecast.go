// Package model holds the trained statistical models behind the forecaster
// and the anomaly detector. Models are deterministic, fitted once from a
// training sample, serialized as JSON blobs for the model cache, and reused
// verbatim on later calls: pipeline code only sees fit and predict.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrTooFewPoints = errors.New("too few points to fit")
	ErrEmptySample  = errors.New("empty training sample")
)

// SeriesPoint is one month of observed spending in a training series.
type SeriesPoint struct {
	Month time.Month
	Total float64
}

// ForecastModel is a seasonal/trend decomposition of a monthly spending
// series: a least-squares linear trend over the observation index plus a
// mean-residual seasonal offset per calendar month.
type ForecastModel struct {
	Intercept  float64                `json:"intercept"`
	Slope      float64                `json:"slope"`
	Seasonal   map[time.Month]float64 `json:"seasonal"`
	Points     int                    `json:"points"`
	LastMonth  time.Month             `json:"last_month"`
	TrendStart float64                `json:"trend_start"`
	TrendEnd   float64                `json:"trend_end"`
}

// FitForecast trains a forecast model on an ordered monthly series. At least
// two points are required.
func FitForecast(series []SeriesPoint) (*ForecastModel, error) {
	n := len(series)
	if n < 2 {
		return nil, ErrTooFewPoints
	}

	// Least-squares fit of total against the observation index.
	var sumX, sumY, sumXY, sumX2 float64
	for i, p := range series {
		x := float64(i)
		sumX += x
		sumY += p.Total
		sumXY += x * p.Total
		sumX2 += x * x
	}
	nf := float64(n)
	denom := nf*sumX2 - sumX*sumX
	var slope float64
	if denom != 0 {
		slope = (nf*sumXY - sumX*sumY) / denom
	}
	intercept := (sumY - slope*sumX) / nf

	// Seasonal component: mean residual per calendar month.
	residualSum := make(map[time.Month]float64)
	residualCount := make(map[time.Month]int)
	for i, p := range series {
		residual := p.Total - (intercept + slope*float64(i))
		residualSum[p.Month] += residual
		residualCount[p.Month]++
	}
	seasonal := make(map[time.Month]float64, len(residualSum))
	for m, sum := range residualSum {
		seasonal[m] = sum / float64(residualCount[m])
	}

	return &ForecastModel{
		Intercept:  intercept,
		Slope:      slope,
		Seasonal:   seasonal,
		Points:     n,
		LastMonth:  series[n-1].Month,
		TrendStart: intercept,
		TrendEnd:   intercept + slope*float64(n-1),
	}, nil
}

// PredictNext projects the fitted trend one observation past the training
// range and adds the next calendar month's seasonal offset. The caller owns
// flooring at zero.
func (m *ForecastModel) PredictNext() float64 {
	next := m.LastMonth%12 + 1
	return m.Intercept + m.Slope*float64(m.Points) + m.Seasonal[next]
}

// TrendDirection compares the fitted trend at the start and end of the
// observed range.
func (m *ForecastModel) TrendDirection() string {
	switch {
	case m.TrendEnd > m.TrendStart:
		return "increasing"
	case m.TrendEnd < m.TrendStart:
		return "decreasing"
	default:
		return "stable"
	}
}

// Marshal serializes the model for blob storage.
func (m *ForecastModel) Marshal() ([]byte, error) {
	blob, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal forecast model: %w", err)
	}
	return blob, nil
}

// UnmarshalForecast restores a model from its stored blob.
func UnmarshalForecast(blob []byte) (*ForecastModel, error) {
	var m ForecastModel
	if err := json.Unmarshal(blob, &m); err != nil {
		return nil, fmt.Errorf("unmarshal forecast model: %w", err)
	}
	if m.Seasonal == nil {
		m.Seasonal = make(map[time.Month]float64)
	}
	return &m, nil
}
