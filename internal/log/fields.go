// Package log holds shared field names for structured logging, so the same
// attribute keys show up across the HTTP layer, the worker, and the broker
// client.
package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldUserID     = "user_id"
	FieldMonths     = "months"
)

// Components defines standard component names
const (
	ComponentHTTP   = "http"
	ComponentWorker = "worker"
	ComponentAMQP   = "amqp"
)
