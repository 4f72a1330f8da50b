package models

// SyncResponse is the body returned by the synchronous webhook: the inbound
// account snapshot with the derived score applied.
type SyncResponse struct {
	Data AccountSnapshot `json:"data"`
}

// AsyncResponse acknowledges an event accepted for background processing.
type AsyncResponse struct {
	Accepted bool   `json:"accepted"`
	Message  string `json:"message"`
}

// ErrorResponse is the body of every error the webhook surface returns.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}
