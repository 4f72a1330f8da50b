// Package normalizer turns raw webhook bodies into validated account
// snapshots. SSv2 delivers change events either wrapped in a {"data": ...}
// envelope or with the payload at the top level; both forms are accepted and
// produce the same canonical snapshot.
package normalizer

import (
	"bytes"
	"encoding/json"

	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/models"
)

var jsonNull = []byte("null")

// Normalize extracts the account snapshot from a raw event body. The body
// may be the bare payload or a {"data": ...} envelope around it; a present,
// non-null data field wins. Every failure is a *ValidationError.
func Normalize(body []byte) (models.AccountSnapshot, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &ValidationError{Kind: KindEmptyBody, Message: "request body is empty"}
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		if !json.Valid(body) {
			return nil, &ValidationError{Kind: KindMalformedBody, Message: "request body is not valid JSON"}
		}
		// Valid JSON, but not an object: there is no record in it.
		return nil, missingRecord()
	}

	payload := body
	if len(envelope.Data) > 0 && !bytes.Equal(envelope.Data, jsonNull) {
		payload = envelope.Data
	}

	var event struct {
		CurrentImage json.RawMessage `json:"currentImage"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, missingRecord()
	}
	if len(event.CurrentImage) == 0 || bytes.Equal(event.CurrentImage, jsonNull) {
		return nil, missingRecord()
	}

	var snapshot models.AccountSnapshot
	if err := json.Unmarshal(event.CurrentImage, &snapshot); err != nil {
		// currentImage was not an object, so it cannot carry an id.
		return nil, missingIdentifier()
	}
	if snapshot.ID() == "" {
		return nil, missingIdentifier()
	}

	return snapshot, nil
}

func missingRecord() *ValidationError {
	return &ValidationError{Kind: KindMissingRecord, Message: "event payload has no currentImage record"}
}

func missingIdentifier() *ValidationError {
	return &ValidationError{Kind: KindMissingIdentifier, Message: "account record has no id"}
}
