package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"budgetwise/internal/amqp"
	"budgetwise/internal/analytics"
	"budgetwise/internal/core"
	"budgetwise/internal/modelcache"
	"budgetwise/internal/storage"
)

// DefaultMonths is the lookback window applied when a caller does not pick one.
const DefaultMonths = 6

const fullInsightsKind = "full_insights"

// FullInsights is the combined report covering every analyzer in one pass
// over a single fetch of the user's transactions.
type FullInsights struct {
	UserID            int64                    `json:"user_id"`
	GeneratedAt       time.Time                `json:"generated_at"`
	Months            int                      `json:"months"`
	TotalTransactions int                      `json:"total_transactions"`
	TotalSpending     float64                  `json:"total_spending"`
	MonthlyIncome     float64                  `json:"monthly_income"`
	Trends            analytics.TrendReport    `json:"trends"`
	Patterns          analytics.PatternReport  `json:"patterns"`
	Forecast          analytics.ForecastReport `json:"forecast"`
	Budget            analytics.BudgetReport   `json:"budget"`
	Anomalies         analytics.AnomalyReport  `json:"anomalies"`
	Health            analytics.HealthReport   `json:"health"`
	Alerts            []analytics.Alert        `json:"alerts"`
}

// InsightService orchestrates the analyzers over SQLite-backed transactions
// and publishes recompute requests over AMQP. The AMQP client is optional;
// without it, analysis requests are computed inline only.
type InsightService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
	forecaster *analytics.Forecaster
	detector   *analytics.AnomalyDetector

	now func() time.Time
}

func NewInsightService(repo *storage.SQLiteRepository, amqpClient *amqp.Client) *InsightService {
	cache := modelcache.New(repo)
	return &InsightService{
		storage:    repo,
		amqpClient: amqpClient,
		forecaster: analytics.NewForecaster(cache),
		detector:   analytics.NewAnomalyDetector(cache),
		now:        time.Now,
	}
}

// CreateTransaction stores a transaction and asks the worker to refresh the
// user's insights. A publish failure never fails the write.
func (s *InsightService) CreateTransaction(ctx context.Context, userID int64, t core.Transaction) (int64, error) {
	id, err := s.storage.CreateTransaction(ctx, userID, t)
	if err != nil {
		return 0, fmt.Errorf("save transaction: %w", err)
	}

	if err := s.publishAnalysisRequest(ctx, userID, DefaultMonths); err != nil {
		slog.ErrorContext(ctx, "Failed to publish analysis request",
			"user_id", userID, "error", err)
	}

	return id, nil
}

// SetMonthlyIncome records the user's declared income.
func (s *InsightService) SetMonthlyIncome(ctx context.Context, userID int64, income float64) error {
	return s.storage.SetMonthlyIncome(ctx, userID, income)
}

// RequestAnalysis enqueues an asynchronous recompute for the user.
func (s *InsightService) RequestAnalysis(ctx context.Context, userID int64, months int) error {
	return s.publishAnalysisRequest(ctx, userID, normalizeMonths(months))
}

// Trends runs the month-over-month growth analysis.
func (s *InsightService) Trends(ctx context.Context, userID int64, months int) (analytics.TrendReport, error) {
	txs, err := s.transactions(ctx, userID, months)
	if err != nil {
		return analytics.TrendReport{}, err
	}
	return analytics.AnalyzeTrends(txs)
}

// Patterns runs the weekday and month-period analysis.
func (s *InsightService) Patterns(ctx context.Context, userID int64, months int) (analytics.PatternReport, error) {
	txs, err := s.transactions(ctx, userID, months)
	if err != nil {
		return analytics.PatternReport{}, err
	}
	return analytics.FindPeakDays(txs)
}

// Forecast predicts next month's spending from the user's trained model.
func (s *InsightService) Forecast(ctx context.Context, userID int64, months int) (analytics.ForecastReport, error) {
	txs, err := s.transactions(ctx, userID, months)
	if err != nil {
		return analytics.ForecastReport{}, err
	}
	return s.forecaster.Forecast(ctx, userID, txs)
}

// Budget recommends per-category monthly budgets.
func (s *InsightService) Budget(ctx context.Context, userID int64, months int) (analytics.BudgetReport, error) {
	txs, err := s.transactions(ctx, userID, months)
	if err != nil {
		return analytics.BudgetReport{}, err
	}
	return analytics.RecommendBudgets(txs)
}

// Anomalies scans for outlier transactions per category.
func (s *InsightService) Anomalies(ctx context.Context, userID int64, months int) (analytics.AnomalyReport, error) {
	txs, err := s.transactions(ctx, userID, months)
	if err != nil {
		return analytics.AnomalyReport{}, err
	}
	return s.detector.Detect(ctx, userID, txs)
}

// Health scores the user's overall financial health.
func (s *InsightService) Health(ctx context.Context, userID int64, months int) (analytics.HealthReport, error) {
	txs, err := s.transactions(ctx, userID, months)
	if err != nil {
		return analytics.HealthReport{}, err
	}

	income, err := s.storage.MonthlyIncome(ctx, userID)
	if err != nil {
		return analytics.HealthReport{}, err
	}

	return analytics.ScoreHealth(txs, income)
}

// Alerts evaluates the overspending rules for the window.
func (s *InsightService) Alerts(ctx context.Context, userID int64, months int) ([]analytics.Alert, error) {
	txs, err := s.transactions(ctx, userID, months)
	if err != nil {
		return nil, err
	}

	income, err := s.storage.MonthlyIncome(ctx, userID)
	if err != nil {
		return nil, err
	}

	return analytics.GenerateAlerts(txs, income, s.now())
}

// FullInsights fetches the window once and runs every analyzer over it. The
// assembled report is persisted for later retrieval; a persistence failure is
// logged, not returned.
func (s *InsightService) FullInsights(ctx context.Context, userID int64, months int) (FullInsights, error) {
	months = normalizeMonths(months)

	txs, err := s.transactions(ctx, userID, months)
	if err != nil {
		return FullInsights{}, err
	}

	income, err := s.storage.MonthlyIncome(ctx, userID)
	if err != nil {
		return FullInsights{}, err
	}

	report := FullInsights{
		UserID:            userID,
		GeneratedAt:       s.now().UTC(),
		Months:            months,
		TotalTransactions: len(txs),
		MonthlyIncome:     income,
	}
	for _, t := range txs {
		report.TotalSpending += t.Amount
	}
	report.TotalSpending = core.Round2(report.TotalSpending)

	if report.Trends, err = analytics.AnalyzeTrends(txs); err != nil {
		return FullInsights{}, fmt.Errorf("trends: %w", err)
	}
	if report.Patterns, err = analytics.FindPeakDays(txs); err != nil {
		return FullInsights{}, fmt.Errorf("patterns: %w", err)
	}
	if report.Forecast, err = s.forecaster.Forecast(ctx, userID, txs); err != nil {
		return FullInsights{}, fmt.Errorf("forecast: %w", err)
	}
	if report.Budget, err = analytics.RecommendBudgets(txs); err != nil {
		return FullInsights{}, fmt.Errorf("budget: %w", err)
	}
	if report.Anomalies, err = s.detector.Detect(ctx, userID, txs); err != nil {
		return FullInsights{}, fmt.Errorf("anomalies: %w", err)
	}
	if report.Health, err = analytics.ScoreHealth(txs, income); err != nil {
		return FullInsights{}, fmt.Errorf("health: %w", err)
	}
	if report.Alerts, err = analytics.GenerateAlerts(txs, income, s.now()); err != nil {
		return FullInsights{}, fmt.Errorf("alerts: %w", err)
	}

	s.persistReport(ctx, userID, report)

	return report, nil
}

// LatestFullInsights returns the most recently persisted combined report.
func (s *InsightService) LatestFullInsights(ctx context.Context, userID int64) (FullInsights, bool, error) {
	payload, ok, err := s.storage.LatestReport(ctx, userID, fullInsightsKind)
	if err != nil || !ok {
		return FullInsights{}, false, err
	}

	var report FullInsights
	if err := json.Unmarshal(payload, &report); err != nil {
		return FullInsights{}, false, fmt.Errorf("decode stored report: %w", err)
	}
	return report, true, nil
}

func (s *InsightService) transactions(ctx context.Context, userID int64, months int) ([]core.Transaction, error) {
	since := s.now().AddDate(0, -normalizeMonths(months), 0)
	txs, err := s.storage.ListTransactions(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	return txs, nil
}

func (s *InsightService) persistReport(ctx context.Context, userID int64, report FullInsights) {
	payload, err := json.Marshal(report)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to encode insights report",
			"user_id", userID, "error", err)
		return
	}
	if err := s.storage.SaveReport(ctx, userID, fullInsightsKind, payload); err != nil {
		slog.ErrorContext(ctx, "Failed to persist insights report",
			"user_id", userID, "error", err)
	}
}

func (s *InsightService) publishAnalysisRequest(ctx context.Context, userID int64, months int) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping analysis request")
		return nil
	}
	return s.amqpClient.PublishAnalysisRequest(ctx, userID, months)
}

func normalizeMonths(months int) int {
	if months <= 0 {
		return DefaultMonths
	}
	return months
}

// Close closes both storage and AMQP connections.
func (s *InsightService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close insight service: %v", errs)
	}

	return nil
}
