package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/logging"
	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/metrics"
	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/models"
	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/normalizer"
	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/scoring"
)

const serviceName = "scorehook"

// Endpoint labels used for logs and metrics.
const (
	endpointSync  = "sync"
	endpointAsync = "async"
)

// Scheduler accepts a validated event for deferred processing.
type Scheduler interface {
	Schedule(event models.AccountSnapshot) (taskID string, ok bool)
}

// WebhookHandler serves the score calculation webhooks.
type WebhookHandler struct {
	scheduler Scheduler
	logger    *slog.Logger
}

// NewWebhookHandler creates a webhook handler backed by the given scheduler.
func NewWebhookHandler(scheduler Scheduler, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		scheduler: scheduler,
		logger:    logger,
	}
}

// CalculateScoreSync computes the score inline and echoes the full record
// back with the score applied. Nothing is written to the CRM.
func (h *WebhookHandler) CalculateScoreSync(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithRequestID(r.Context(), h.logger)

	event, ok := h.readEvent(w, r, endpointSync)
	if !ok {
		return
	}

	score := scoring.CalculateLogged(logger, event.Classification())

	logger.Info("sync score computed",
		logging.AccountID(event.ID()),
		logging.Classification(event.Classification()),
		logging.Score(score))

	recordEvent(endpointSync, http.StatusOK)
	writeJSON(w, http.StatusOK, models.SyncResponse{Data: event.WithScore(score)})
}

// CalculateScoreAsync validates the event, hands it to the orchestrator, and
// acknowledges immediately. The deferred update runs detached; its outcome is
// only logged, never reported back to the caller.
func (h *WebhookHandler) CalculateScoreAsync(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithRequestID(r.Context(), h.logger)

	event, ok := h.readEvent(w, r, endpointAsync)
	if !ok {
		return
	}

	taskID, accepted := h.scheduler.Schedule(event)
	if !accepted {
		logger.Warn("event dropped, scheduler is shut down",
			logging.AccountID(event.ID()))
	} else {
		logger.Info("event accepted for deferred processing",
			logging.AccountID(event.ID()),
			logging.TaskID(taskID))
	}

	recordEvent(endpointAsync, http.StatusAccepted)
	writeJSON(w, http.StatusAccepted, models.AsyncResponse{
		Accepted: true,
		Message:  "Processing in background",
	})
}

// Health reports service liveness.
func (h *WebhookHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:    "ok",
		Service:   serviceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// readEvent reads and normalizes the request body. On failure it writes the
// error response and returns ok=false.
func (h *WebhookHandler) readEvent(w http.ResponseWriter, r *http.Request, endpoint string) (models.AccountSnapshot, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.rejectEvent(w, r, endpoint, &normalizer.ValidationError{
			Kind:    normalizer.KindMalformedBody,
			Message: "unable to read request body",
		})
		return nil, false
	}
	defer r.Body.Close()

	event, err := normalizer.Normalize(body)
	if err != nil {
		h.rejectEvent(w, r, endpoint, err)
		return nil, false
	}

	return event, true
}

// rejectEvent maps a normalization failure to 400 and anything else to an
// opaque 500.
func (h *WebhookHandler) rejectEvent(w http.ResponseWriter, r *http.Request, endpoint string, err error) {
	logger := logging.WithRequestID(r.Context(), h.logger)

	var validationErr *normalizer.ValidationError
	if errors.As(err, &validationErr) {
		logger.Warn("event rejected",
			logging.Endpoint(endpoint),
			logging.Status(http.StatusBadRequest),
			slog.String("kind", string(validationErr.Kind)),
			logging.Error(validationErr))

		recordEvent(endpoint, http.StatusBadRequest)
		writeError(w, http.StatusBadRequest, validationErr.Message)
		return
	}

	logger.Error("event processing failed",
		logging.Endpoint(endpoint),
		logging.Status(http.StatusInternalServerError),
		logging.Error(err))

	recordEvent(endpoint, http.StatusInternalServerError)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func recordEvent(endpoint string, status int) {
	metrics.WebhookEventsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}
