package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"budgetwise/internal/core"
)

// apiResponse is the envelope every JSON endpoint answers with.
type apiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(apiResponse{Success: true, Data: data}); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(apiResponse{Success: false, Error: msg}); err != nil {
		slog.Error("Failed to encode error response", "error", err)
	}
}

// parseUserID extracts the user ID path segment.
func parseUserID(r *http.Request) (int64, error) {
	raw := r.PathValue("userID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user ID %q", raw)
	}
	return id, nil
}

// parseMonths reads the optional months query parameter. Zero means "use the
// service default"; out-of-range values are clamped there too.
func parseMonths(r *http.Request) int {
	v := strings.TrimSpace(r.URL.Query().Get("months"))
	if v == "" {
		return 0
	}
	months, err := strconv.Atoi(v)
	if err != nil || months < 1 || months > 36 {
		return 0
	}
	return months
}

// isValidationError reports whether err stems from bad caller input rather
// than an internal failure.
func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrNegativeAmount) ||
		errors.Is(err, core.ErrZeroDate) ||
		errors.Is(err, core.ErrInvalidID)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
