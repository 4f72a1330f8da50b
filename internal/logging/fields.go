package logging

import "log/slog"

// Common field names for consistent logging across the service.
const (
	FieldService        = "service"
	FieldAccountID      = "account_id"
	FieldClassification = "classification"
	FieldScore          = "score"
	FieldTaskID         = "task_id"
	FieldStage          = "stage"
	FieldEndpoint       = "endpoint"
	FieldStatus         = "status"
	FieldRequestID      = "request_id"
	FieldError          = "error"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// AccountID returns a slog attribute for the CRM account identifier.
func AccountID(id string) slog.Attr {
	return slog.String(FieldAccountID, id)
}

// Classification returns a slog attribute for the ABC classification.
func Classification(code string) slog.Attr {
	return slog.String(FieldClassification, code)
}

// Score returns a slog attribute for the computed score.
func Score(score int) slog.Attr {
	return slog.Int(FieldScore, score)
}

// TaskID returns a slog attribute for a background task ID.
func TaskID(id string) slog.Attr {
	return slog.String(FieldTaskID, id)
}

// Stage returns a slog attribute for a background task stage.
func Stage(stage string) slog.Attr {
	return slog.String(FieldStage, stage)
}

// Endpoint returns a slog attribute for the webhook endpoint name.
func Endpoint(name string) slog.Attr {
	return slog.String(FieldEndpoint, name)
}

// Status returns a slog attribute for the HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int(FieldStatus, code)
}

// RequestID returns a slog attribute for the request correlation ID.
func RequestID(id string) slog.Attr {
	return slog.String(FieldRequestID, id)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}
