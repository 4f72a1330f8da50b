// Package orchestrator runs the deferred score updates triggered by the
// async webhook. Every scheduled event becomes one detached task that waits
// a configured delay, computes the score from the classification carried on
// the event, fetches the account to obtain a fresh concurrency token, and
// applies a conditional update against the CRM.
//
// Delivery is at-most-once and best effort. A task that fails at any stage
// (including an ETag conflict) logs its outcome and stops; there is no retry,
// no durable queue, and no notification back to the webhook caller.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/crmclient"
	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/logging"
	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/metrics"
	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/models"
	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/scoring"
)

// DefaultDelay is the wait applied before a task touches the CRM, simulating
// upstream processing cost.
const DefaultDelay = 10 * time.Second

// Task stages reported on results and attached to log lines.
const (
	StageDelay      = "delay"
	StageScoring    = "scoring"
	StageTokenFetch = "token_fetch"
	StageUpdate     = "update"
	StageSucceeded  = "succeeded"
)

// CRMClient is the remote store surface a task needs.
type CRMClient interface {
	FetchAccount(ctx context.Context, id string) (models.AccountSnapshot, string, error)
	UpdateScore(ctx context.Context, id, etag string, score int) error
}

// SleepFunc suspends a task for the configured delay. Tests inject a fake to
// avoid real wall-clock waits.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Result is the terminal outcome of one task. Err is nil on success.
type Result struct {
	TaskID         string
	AccountID      string
	Classification string
	Score          int
	Stage          string
	Err            error
}

// Config configures the orchestrator.
type Config struct {
	// Delay is the fixed wait before each task runs. Zero means DefaultDelay.
	Delay time.Duration
	// Sleep overrides the delay mechanism. Nil means a timer-based wait.
	Sleep SleepFunc
}

// Orchestrator schedules and tracks detached update tasks. Tasks are fully
// independent: they share no state, never queue behind each other, and an
// unbounded number may be in flight at once.
type Orchestrator struct {
	crm    CRMClient
	logger *slog.Logger
	delay  time.Duration
	sleep  SleepFunc

	mu     sync.Mutex
	closed bool

	wg       sync.WaitGroup
	inFlight atomic.Int64

	results chan Result
	drained chan struct{}
}

type task struct {
	id             string
	accountID      string
	classification string
}

// New creates an orchestrator and starts its result drain loop.
func New(crm CRMClient, logger *slog.Logger, cfg Config) *Orchestrator {
	if cfg.Delay == 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.Sleep == nil {
		cfg.Sleep = sleepContext
	}

	o := &Orchestrator{
		crm:     crm,
		logger:  logger,
		delay:   cfg.Delay,
		sleep:   cfg.Sleep,
		results: make(chan Result, 64),
		drained: make(chan struct{}),
	}

	go o.drain()

	return o
}

// Schedule registers one detached update task for a validated event and
// returns its task id without waiting on the task. After Close the event is
// dropped and ok is false.
func (o *Orchestrator) Schedule(event models.AccountSnapshot) (string, bool) {
	t := task{
		id:             uuid.NewString(),
		accountID:      event.ID(),
		classification: event.Classification(),
	}

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return "", false
	}
	o.wg.Add(1)
	o.mu.Unlock()

	o.inFlight.Add(1)
	metrics.AsyncTasksInFlight.Inc()

	o.logger.Debug("update task scheduled",
		logging.TaskID(t.id),
		logging.AccountID(t.accountID),
		logging.Classification(t.classification))

	go o.run(t)

	return t.id, true
}

// InFlight reports the number of tasks that have been scheduled but not yet
// finished.
func (o *Orchestrator) InFlight() int64 {
	return o.inFlight.Load()
}

// Close stops accepting new events and blocks until every in-flight task has
// finished and its result has been logged. Tasks are never cancelled
// mid-flight; Close waits them out.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	o.mu.Unlock()

	o.wg.Wait()
	close(o.results)
	<-o.drained
}

func (o *Orchestrator) run(t task) {
	defer o.wg.Done()
	defer o.inFlight.Add(-1)
	defer metrics.AsyncTasksInFlight.Dec()

	res := Result{
		TaskID:         t.id,
		AccountID:      t.accountID,
		Classification: t.classification,
		Stage:          StageDelay,
	}

	// The result send must happen before wg.Done so Close never races a
	// send against closing the channel.
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("task panic: %v", r)
		}
		o.results <- res
	}()

	logger := o.logger.With(logging.TaskID(t.id), logging.AccountID(t.accountID))

	logger.Debug("task waiting", slog.Duration("delay", o.delay))
	if err := o.sleep(context.Background(), o.delay); err != nil {
		res.Err = fmt.Errorf("delay interrupted: %w", err)
		return
	}

	res.Stage = StageScoring
	res.Score = scoring.CalculateLogged(logger, t.classification)
	logger.Debug("score computed", logging.Score(res.Score))

	ctx := context.Background()

	res.Stage = StageTokenFetch
	_, etag, err := o.crm.FetchAccount(ctx, t.accountID)
	if err != nil {
		res.Err = err
		return
	}
	logger.Debug("concurrency token fetched", slog.String("etag", etag))

	res.Stage = StageUpdate
	if err := o.crm.UpdateScore(ctx, t.accountID, etag, res.Score); err != nil {
		res.Err = err
		return
	}

	res.Stage = StageSucceeded
}

// drain logs every task outcome from a single goroutine so result handling
// never slows the tasks themselves.
func (o *Orchestrator) drain() {
	defer close(o.drained)

	for res := range o.results {
		if res.Err == nil {
			metrics.AsyncTaskResultsTotal.WithLabelValues("success").Inc()
			o.logger.Info("async score update applied",
				logging.TaskID(res.TaskID),
				logging.AccountID(res.AccountID),
				logging.Score(res.Score))
			continue
		}

		var apiErr *crmclient.APIError
		if errors.As(res.Err, &apiErr) && apiErr.Conflict() {
			metrics.AsyncTaskResultsTotal.WithLabelValues("conflict").Inc()
			o.logger.Warn("async score update abandoned, record changed concurrently",
				logging.TaskID(res.TaskID),
				logging.AccountID(res.AccountID),
				logging.Classification(res.Classification),
				logging.Stage(res.Stage),
				logging.Error(res.Err))
			continue
		}

		metrics.AsyncTaskResultsTotal.WithLabelValues("failure").Inc()
		o.logger.Error("async score update failed",
			logging.TaskID(res.TaskID),
			logging.AccountID(res.AccountID),
			logging.Classification(res.Classification),
			logging.Stage(res.Stage),
			logging.Error(res.Err))
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
