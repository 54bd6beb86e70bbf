package amqp

import (
	"encoding/json"
	"time"
)

// AnalysisRequestMessage asks the worker to recompute a user's insights.
// It carries only the user ID and the lookback window; the worker fetches the
// transactions from the database itself.
type AnalysisRequestMessage struct {
	UserID    int64     `json:"user_id"`
	Months    int       `json:"months"`
	Timestamp time.Time `json:"timestamp"`
}

func NewAnalysisRequestMessage(userID int64, months int) *AnalysisRequestMessage {
	return &AnalysisRequestMessage{
		UserID:    userID,
		Months:    months,
		Timestamp: time.Now(),
	}
}

func (m *AnalysisRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func AnalysisRequestMessageFromJSON(data []byte) (*AnalysisRequestMessage, error) {
	var msg AnalysisRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
