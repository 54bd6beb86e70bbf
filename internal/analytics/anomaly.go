package analytics

import (
	"context"
	"fmt"
	"sort"

	"budgetwise/internal/core"
	"budgetwise/internal/model"
	"budgetwise/internal/modelcache"
)

// AnomalyDetector flags outlier transactions per category using a persisted
// outlier model per (user, category) key. Categories with fewer than five
// transactions are skipped entirely; the scan itself needs at least ten
// transactions overall.
type AnomalyDetector struct {
	cache *modelcache.Cache
}

func NewAnomalyDetector(cache *modelcache.Cache) *AnomalyDetector {
	return &AnomalyDetector{cache: cache}
}

// Detect labels every transaction in each eligible category and reports the
// outliers. Severity is high when the amount exceeds 1.6 times the overall
// mean transaction amount, medium otherwise.
func (d *AnomalyDetector) Detect(ctx context.Context, userID int64, txs []core.Transaction) (AnomalyReport, error) {
	if err := core.ValidateAll(txs); err != nil {
		return AnomalyReport{}, fmt.Errorf("detect anomalies: %w", err)
	}
	if len(txs) < minAnomalyTransactions {
		return insufficientAnomaly(reasonNeedMoreData), nil
	}

	amounts := make([]float64, len(txs))
	byCategory := make(map[string][]core.Transaction)
	for i, t := range txs {
		amounts[i] = t.Amount
		byCategory[t.Category] = append(byCategory[t.Category], t)
	}
	overallMean := mean(amounts)

	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var anomalies []Anomaly
	for _, category := range categories {
		catTxs := byCategory[category]
		if len(catTxs) < minCategoryAnomalyTx {
			continue
		}

		m, err := d.categoryModel(ctx, userID, category, catTxs)
		if err != nil {
			return AnomalyReport{}, fmt.Errorf("detect anomalies: %w", err)
		}

		for _, t := range catTxs {
			if !m.IsOutlier(t.Amount) {
				continue
			}
			severity := SeverityMedium
			if t.Amount > overallMean*severityHighFactor {
				severity = SeverityHigh
			}
			anomalies = append(anomalies, Anomaly{
				TransactionID: t.ID,
				Category:      category,
				Amount:        core.Round2(t.Amount),
				Date:          t.Date.Format("2006-01-02"),
				Severity:      severity,
			})
		}
	}

	if anomalies == nil {
		anomalies = []Anomaly{}
	}

	summary := SummarySpendingNormal
	if len(anomalies) > 0 {
		summary = SummaryAnomaliesFound
	}

	return AnomalyReport{
		Status:         StatusOK,
		TotalAnomalies: len(anomalies),
		Anomalies:      anomalies,
		Summary:        summary,
	}, nil
}

// categoryModel loads the persisted outlier model for (user, category) or
// trains and stores one from the category's current amounts.
func (d *AnomalyDetector) categoryModel(ctx context.Context, userID int64, category string, txs []core.Transaction) (*model.OutlierModel, error) {
	key := modelcache.OutlierKey(userID, category)

	blob, err := d.cache.GetOrCreate(ctx, key, func() ([]byte, error) {
		amounts := make([]float64, len(txs))
		for i, t := range txs {
			amounts[i] = t.Amount
		}
		fitted, err := model.FitOutlier(amounts, outlierContamination)
		if err != nil {
			return nil, err
		}
		return fitted.Marshal()
	})
	if err != nil {
		return nil, err
	}

	return model.UnmarshalOutlier(blob)
}
