package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"budgetwise/internal/core"
)

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.insights.Trends(r.Context(), userID, parseMonths(r))
	if err != nil {
		slog.ErrorContext(r.Context(), "Trend analysis failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "trend analysis failed")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.insights.Patterns(r.Context(), userID, parseMonths(r))
	if err != nil {
		slog.ErrorContext(r.Context(), "Pattern analysis failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "pattern analysis failed")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.insights.Forecast(r.Context(), userID, parseMonths(r))
	if err != nil {
		slog.ErrorContext(r.Context(), "Forecast failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "forecast failed")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.insights.Budget(r.Context(), userID, parseMonths(r))
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget recommendation failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "budget recommendation failed")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleAnomalies(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.insights.Anomalies(r.Context(), userID, parseMonths(r))
	if err != nil {
		slog.ErrorContext(r.Context(), "Anomaly detection failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "anomaly detection failed")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleHealthScore(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.insights.Health(r.Context(), userID, parseMonths(r))
	if err != nil {
		slog.ErrorContext(r.Context(), "Health scoring failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "health scoring failed")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	alerts, err := s.insights.Alerts(r.Context(), userID, parseMonths(r))
	if err != nil {
		slog.ErrorContext(r.Context(), "Alert generation failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "alert generation failed")
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

// handleFullInsights serves the combined report, memoized for a few minutes
// per user and window.
func (s *Server) handleFullInsights(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	months := parseMonths(r)

	key := reportCacheKey(userID, months)
	if report, found := s.reportCache.Get(key); found {
		slog.DebugContext(r.Context(), "Report cache hit", "user_id", userID, "months", months)
		writeJSON(w, http.StatusOK, report)
		return
	}

	report, err := s.insights.FullInsights(r.Context(), userID, months)
	if err != nil {
		slog.ErrorContext(r.Context(), "Full insights failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "insight computation failed")
		return
	}

	s.reportCache.Set(key, report)
	writeJSON(w, http.StatusOK, report)
}

// handleLatestReport serves the most recently persisted combined report
// without recomputing anything, so a stored report survives broker and model
// trouble.
func (s *Server) handleLatestReport(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, ok, err := s.insights.LatestFullInsights(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Stored report lookup failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "stored report lookup failed")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "no stored report for user")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleRefresh enqueues an asynchronous recompute via AMQP.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	months := parseMonths(r)

	if err := s.insights.RequestAnalysis(r.Context(), userID, months); err != nil {
		slog.ErrorContext(r.Context(), "Analysis request failed", "user_id", userID, "error", err)
		writeError(w, http.StatusServiceUnavailable, "analysis request could not be queued")
		return
	}

	s.invalidateUser(userID)
	writeJSON(w, http.StatusAccepted, map[string]any{"user_id": userID, "queued": true})
}

type createTransactionRequest struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date, expected YYYY-MM-DD")
		return
	}

	id, err := s.insights.CreateTransaction(r.Context(), userID, core.Transaction{
		Category: req.Category,
		Amount:   req.Amount,
		Date:     date,
	})
	if err != nil {
		switch {
		case isValidationError(err):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			slog.ErrorContext(r.Context(), "Transaction create failed", "user_id", userID, "error", err)
			writeError(w, http.StatusInternalServerError, "could not save transaction")
		}
		return
	}

	s.invalidateUser(userID)
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

type setIncomeRequest struct {
	MonthlyIncome float64 `json:"monthly_income"`
}

func (s *Server) handleSetIncome(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req setIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.insights.SetMonthlyIncome(r.Context(), userID, req.MonthlyIncome); err != nil {
		switch {
		case isValidationError(err):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			slog.ErrorContext(r.Context(), "Income update failed", "user_id", userID, "error", err)
			writeError(w, http.StatusInternalServerError, "could not save income")
		}
		return
	}

	s.invalidateUser(userID)
	writeJSON(w, http.StatusOK, map[string]any{"user_id": userID, "monthly_income": req.MonthlyIncome})
}
