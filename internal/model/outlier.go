package model

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// OutlierModel labels amounts as inliers or outliers within one category's
// historical distribution. Fitting stores the sample mean, population
// standard deviation and an absolute z-score cutoff placed at the
// (1-contamination) quantile of the training scores, so roughly the
// contamination fraction of the training sample is flagged.
type OutlierModel struct {
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"std_dev"`
	Threshold float64 `json:"threshold"`
	Samples   int     `json:"samples"`
}

// FitOutlier trains an outlier model on a category's amounts. Contamination
// must be in (0, 0.5).
func FitOutlier(amounts []float64, contamination float64) (*OutlierModel, error) {
	if len(amounts) == 0 {
		return nil, ErrEmptySample
	}
	if contamination <= 0 || contamination >= 0.5 {
		return nil, fmt.Errorf("contamination %v out of range", contamination)
	}

	var sum float64
	for _, a := range amounts {
		sum += a
	}
	m := sum / float64(len(amounts))

	var varianceSum float64
	for _, a := range amounts {
		diff := a - m
		varianceSum += diff * diff
	}
	sd := math.Sqrt(varianceSum / float64(len(amounts)))

	out := &OutlierModel{Mean: m, StdDev: sd, Samples: len(amounts)}
	if sd == 0 {
		// Degenerate distribution: nothing is ever an outlier.
		return out, nil
	}

	scores := make([]float64, len(amounts))
	for i, a := range amounts {
		scores[i] = math.Abs((a - m) / sd)
	}
	sort.Float64s(scores)

	idx := int(math.Ceil(float64(len(scores))*(1-contamination))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(scores) {
		idx = len(scores) - 1
	}
	out.Threshold = scores[idx]
	return out, nil
}

// IsOutlier reports whether an amount falls outside the fitted distribution.
func (m *OutlierModel) IsOutlier(amount float64) bool {
	if m.StdDev == 0 {
		return false
	}
	return math.Abs((amount-m.Mean)/m.StdDev) > m.Threshold
}

// Marshal serializes the model for blob storage.
func (m *OutlierModel) Marshal() ([]byte, error) {
	blob, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal outlier model: %w", err)
	}
	return blob, nil
}

// UnmarshalOutlier restores a model from its stored blob.
func UnmarshalOutlier(blob []byte) (*OutlierModel, error) {
	var m OutlierModel
	if err := json.Unmarshal(blob, &m); err != nil {
		return nil, fmt.Errorf("unmarshal outlier model: %w", err)
	}
	return &m, nil
}
