package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/models"
)

// mockScheduler records scheduled events.
type mockScheduler struct {
	events []models.AccountSnapshot
	closed bool
}

func (m *mockScheduler) Schedule(event models.AccountSnapshot) (string, bool) {
	if m.closed {
		return "", false
	}
	m.events = append(m.events, event)
	return "task-1", true
}

func newTestHandler(scheduler Scheduler) *WebhookHandler {
	if scheduler == nil {
		scheduler = &mockScheduler{}
	}
	return NewWebhookHandler(scheduler, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func postSync(h *WebhookHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/calculate-score-sync", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.CalculateScoreSync(rr, req)
	return rr
}

func postAsync(h *WebhookHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/calculate-score-async", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.CalculateScoreAsync(rr, req)
	return rr
}

func TestCalculateScoreSync_AppliesScore(t *testing.T) {
	body := `{"data":{"currentImage":{
		"id":"x1",
		"displayId":"ACC-1001",
		"customerABCClassification":"A",
		"industry":"utilities",
		"extensions":{"CustomScore":10,"Region":"EMEA"}
	}}}`

	rr := postSync(newTestHandler(nil), body)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var resp models.SyncResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	ext := resp.Data.Extensions()
	if got := ext["CustomScore"]; got != float64(90) {
		t.Errorf("CustomScore = %v, want 90 (stale inbound value must be overwritten)", got)
	}
	if got := ext["Region"]; got != "EMEA" {
		t.Errorf("extension Region = %v, want preserved", got)
	}
	if got := resp.Data["industry"]; got != "utilities" {
		t.Errorf("industry = %v, want preserved", got)
	}
	if got := resp.Data.DisplayID(); got != "ACC-1001" {
		t.Errorf("displayId = %q, want preserved", got)
	}
}

func TestCalculateScoreSync_UnwrappedPayload(t *testing.T) {
	body := `{"currentImage":{"id":"x2","customerABCClassification":"B"}}`

	rr := postSync(newTestHandler(nil), body)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rr.Code, rr.Body.String())
	}

	var resp models.SyncResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got := resp.Data.Extensions()["CustomScore"]; got != float64(70) {
		t.Errorf("CustomScore = %v, want 70", got)
	}
}

func TestCalculateScoreSync_Idempotent(t *testing.T) {
	body := `{"data":{"currentImage":{"id":"x1","customerABCClassification":"C","extensions":{"CustomScore":99}}}}`
	h := newTestHandler(nil)

	first := postSync(h, body)
	second := postSync(h, body)

	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("status codes = %d, %d, want 200, 200", first.Code, second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Errorf("responses differ between identical requests:\n%s\n%s", first.Body.String(), second.Body.String())
	}
}

func TestCalculateScoreSync_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"whitespace body", "   "},
		{"malformed json", `{"data":`},
		{"no record", `{"data":{}}`},
		{"record not object", `{"data":{"currentImage":42}}`},
		{"missing identifier", `{"data":{"currentImage":{"customerABCClassification":"A"}}}`},
		{"empty identifier", `{"data":{"currentImage":{"id":""}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postSync(newTestHandler(nil), tt.body)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400, body: %s", rr.Code, rr.Body.String())
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if resp.Error == "" {
				t.Error("error message is empty")
			}
		})
	}
}

func TestCalculateScoreAsync_Accepted(t *testing.T) {
	scheduler := &mockScheduler{}
	h := newTestHandler(scheduler)

	rr := postAsync(h, `{"data":{"currentImage":{"id":"x1","customerABCClassification":"A"}}}`)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202, body: %s", rr.Code, rr.Body.String())
	}

	want := `{"accepted":true,"message":"Processing in background"}`
	if got := strings.TrimSpace(rr.Body.String()); got != want {
		t.Errorf("body = %s, want %s", got, want)
	}

	if len(scheduler.events) != 1 {
		t.Fatalf("scheduled events = %d, want 1", len(scheduler.events))
	}
	if got := scheduler.events[0].ID(); got != "x1" {
		t.Errorf("scheduled event id = %q, want x1", got)
	}
	if got := scheduler.events[0].Classification(); got != "A" {
		t.Errorf("scheduled event classification = %q, want A", got)
	}
}

func TestCalculateScoreAsync_ValidationFailureNotScheduled(t *testing.T) {
	scheduler := &mockScheduler{}
	h := newTestHandler(scheduler)

	rr := postAsync(h, `{"data":{"currentImage":{"customerABCClassification":"A"}}}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if len(scheduler.events) != 0 {
		t.Errorf("scheduled events = %d, want 0 (invalid events must never reach the scheduler)", len(scheduler.events))
	}
}

func TestCalculateScoreAsync_SchedulerClosed(t *testing.T) {
	scheduler := &mockScheduler{closed: true}
	h := newTestHandler(scheduler)

	rr := postAsync(h, `{"data":{"currentImage":{"id":"x1"}}}`)

	// Acknowledgment semantics are best effort; a closed scheduler still
	// yields a 202 while the drop is logged.
	if rr.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rr.Code)
	}
}

func TestHealth(t *testing.T) {
	h := newTestHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	h.Health(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp models.HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
	if resp.Service != "scorehook" {
		t.Errorf("service = %q, want scorehook", resp.Service)
	}
	if _, err := time.Parse(time.RFC3339, resp.Timestamp); err != nil {
		t.Errorf("timestamp %q is not RFC3339: %v", resp.Timestamp, err)
	}
}
