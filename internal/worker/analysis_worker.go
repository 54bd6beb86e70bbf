package worker

import (
	"context"
	"fmt"
	"log/slog"

	"budgetwise/internal/amqp"
	"budgetwise/internal/log"
	"budgetwise/internal/services"
)

// InsightsExporter ships a finished report to an external sink. The Google
// Sheets exporter implements it; a nil exporter disables shipping.
type InsightsExporter interface {
	ExportFullInsights(ctx context.Context, report services.FullInsights) error
}

// AnalysisWorker recomputes user insights in response to AMQP requests. The
// heavy lifting (model training, full report assembly) happens here so the
// HTTP handlers stay fast.
type AnalysisWorker struct {
	insights *services.InsightService
	exporter InsightsExporter
}

func NewAnalysisWorker(insights *services.InsightService, exporter InsightsExporter) *AnalysisWorker {
	return &AnalysisWorker{
		insights: insights,
		exporter: exporter,
	}
}

// HandleAnalysisRequest processes one request: compute and persist the full
// report, then export it if an exporter is configured. An export failure does
// not fail the message; the report is already persisted.
func (w *AnalysisWorker) HandleAnalysisRequest(ctx context.Context, msg *amqp.AnalysisRequestMessage) error {
	slog.InfoContext(ctx, "Processing analysis request",
		log.FieldComponent, log.ComponentWorker,
		log.FieldUserID, msg.UserID,
		log.FieldMonths, msg.Months)

	report, err := w.insights.FullInsights(ctx, msg.UserID, msg.Months)
	if err != nil {
		return fmt.Errorf("compute insights for user %d: %w", msg.UserID, err)
	}

	slog.InfoContext(ctx, "Insights computed",
		"user_id", msg.UserID,
		"transactions", report.TotalTransactions,
		"health_score", report.Health.OverallScore,
		"alerts", len(report.Alerts))

	if w.exporter == nil {
		return nil
	}

	if err := w.exporter.ExportFullInsights(ctx, report); err != nil {
		slog.ErrorContext(ctx, "Failed to export insights",
			"user_id", msg.UserID, "error", err)
	}

	return nil
}

// StartupRecomputeCheck warms the trained-model store for the given users at
// worker startup. Useful after a database restore, when models may be missing
// while transactions are not.
func (w *AnalysisWorker) StartupRecomputeCheck(ctx context.Context, userIDs []int64, months int) error {
	if len(userIDs) == 0 {
		slog.InfoContext(ctx, "No users to recompute on startup")
		return nil
	}

	slog.InfoContext(ctx, "Recomputing insights on startup", "users", len(userIDs))

	successCount := 0
	errorCount := 0

	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return err
		}

		if _, err := w.insights.FullInsights(ctx, userID, months); err != nil {
			slog.ErrorContext(ctx, "Failed to recompute insights during startup",
				"user_id", userID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup recompute completed",
		"total", len(userIDs),
		"succeeded", successCount,
		"errors", errorCount)

	return nil
}
