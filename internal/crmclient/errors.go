package crmclient

import (
	"fmt"
	"net/http"
)

// Operations reported in APIError and the request duration metric.
const (
	opFetch  = "fetch"
	opUpdate = "update"
)

// ReasonMissingETag marks a fetch that succeeded but carried no concurrency
// token, leaving nothing to guard an update with.
const ReasonMissingETag = "response carried no ETag header"

// APIError is a failed exchange with the account API.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
	Reason     string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("crm %s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("crm %s failed: %d - %s", e.Op, e.StatusCode, e.Body)
}

// Conflict reports whether the store rejected a conditional update because
// the record changed after its token was issued. Stores signal this as 412
// (failed If-Match precondition) or 409.
func (e *APIError) Conflict() bool {
	return e.StatusCode == http.StatusPreconditionFailed || e.StatusCode == http.StatusConflict
}
