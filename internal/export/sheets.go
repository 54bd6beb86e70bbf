// Package export appends generated insight reports to a Google Sheet so
// non-technical reviewers can follow a user's analysis history without
// touching the database.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"budgetwise/internal/services"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Options configures the Sheets exporter. Exactly one of CredentialsJSON or
// CredentialsFile must be set.
type Options struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsFile string
	CredentialsJSON string
}

type Exporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

func New(ctx context.Context, opts Options) (*Exporter, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}

	sheetName := strings.TrimSpace(opts.SheetName)
	if sheetName == "" {
		sheetName = "Insights"
	}

	svc, err := newSheetsService(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Exporter{
		svc:           svc,
		spreadsheetID: opts.SpreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials, inline JSON first, then the file path.
func newSheetsService(ctx context.Context, opts Options) (*gsheet.Service, error) {
	var credentialsJSON []byte

	switch {
	case strings.TrimSpace(opts.CredentialsJSON) != "":
		credentialsJSON = []byte(opts.CredentialsJSON)
	case strings.TrimSpace(opts.CredentialsFile) != "":
		data, err := os.ReadFile(opts.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// ExportFullInsights appends one report as a block of rows at the bottom of
// the configured sheet.
func (e *Exporter) ExportFullInsights(ctx context.Context, report services.FullInsights) error {
	if e.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:F", e.sheetName)
	vr := &gsheet.ValueRange{Values: insightRows(report)}

	_, err := e.svc.Spreadsheets.Values.Append(e.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append insights to sheet %s: %w", e.sheetName, err)
	}

	slog.InfoContext(ctx, "Insights exported to Google Sheets",
		"user_id", report.UserID,
		"spreadsheet_id", e.spreadsheetID,
		"sheet", e.sheetName)

	return nil
}

// insightRows flattens a report into spreadsheet rows. The first cell of each
// row labels the record type so the sheet stays filterable.
func insightRows(report services.FullInsights) [][]any {
	rows := [][]any{
		{"report", report.UserID, report.GeneratedAt.Format(time.RFC3339), report.Months, report.TotalTransactions, report.TotalSpending},
		{"health", report.Health.OverallScore, report.Health.Grade, report.Health.Rating},
		{"forecast", report.Forecast.PredictedSpending, report.Forecast.Trend, report.Forecast.Confidence},
	}

	for _, rec := range report.Budget.Recommendations {
		rows = append(rows, []any{"budget", rec.Category, rec.RecommendedBudget, rec.CurrentSpending, rec.Status})
	}
	for _, a := range report.Anomalies.Anomalies {
		rows = append(rows, []any{"anomaly", a.Category, a.Amount, a.Severity})
	}
	for _, alert := range report.Alerts {
		rows = append(rows, []any{"alert", alert.Type, alert.Code, alert.Message})
	}

	return rows
}
