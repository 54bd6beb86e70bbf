package analytics

import "math"

// Thresholds shared across the pipeline. Gates count all transactions in the
// input; per-category rules apply on top of them.
const (
	minTrendTransactions   = 5
	minPatternTransactions = 5
	minBudgetTransactions  = 10
	minAnomalyTransactions = 10
	minHealthTransactions  = 5

	minForecastMonths    = 2
	minCategoryAnomalyTx = 5

	outlierContamination = 0.15
	severityHighFactor   = 1.6
	spikeFactor          = 2.5

	growthIncreasingAbove = 15.0
	growthDecreasingBelow = -15.0
)

const reasonNeedMoreData = "need more data"

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev is the population standard deviation, used consistently for every
// spread computation in the pipeline.
func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var varianceSum float64
	for _, v := range values {
		diff := v - m
		varianceSum += diff * diff
	}
	return math.Sqrt(varianceSum / float64(len(values)))
}

// growthRate returns the month-over-month percentage change, with the
// previous==0 special case mapping to +100 when current is positive.
func growthRate(previous, current float64) float64 {
	if previous > 0 {
		return (current - previous) / previous * 100
	}
	if current > 0 {
		return 100
	}
	return 0
}
