package seeder

import (
	"log"
	"time"
)

// SendFunc delivers one encoded event to the service.
type SendFunc func(body []byte) error

// Config controls a seeding run.
type Config struct {
	Count    int
	Interval time.Duration
	Seed     int64
}

// Summary reports the outcome of a run.
type Summary struct {
	Sent   int
	Failed int
}

// Runner drives a generator against the webhook service.
type Runner struct {
	generator *Generator
	send      SendFunc
	config    Config
}

func NewRunner(cfg Config, send SendFunc) *Runner {
	return &Runner{
		generator: NewGenerator(cfg.Seed),
		send:      send,
		config:    cfg,
	}
}

// Run generates and sends the configured number of events, pausing Interval
// between sends.
func (r *Runner) Run() Summary {
	log.Printf("Starting event seeder:")
	log.Printf("  Event count: %d", r.config.Count)
	log.Printf("  Interval: %v", r.config.Interval)
	if r.config.Seed != 0 {
		log.Printf("  Seed: %d (reproducible)", r.config.Seed)
	}

	var summary Summary
	for i := 0; i < r.config.Count; i++ {
		event, err := r.generator.Generate()
		if err != nil {
			log.Printf("Failed to generate event: %v", err)
			summary.Failed++
			continue
		}

		if err := r.send(event.Body); err != nil {
			log.Printf("Failed to send event for account %s: %v", event.AccountID, err)
			summary.Failed++
		} else {
			summary.Sent++
		}

		if r.config.Interval > 0 && i < r.config.Count-1 {
			time.Sleep(r.config.Interval)
		}
	}

	log.Printf("Seeding complete:")
	log.Printf("  Success: %d events", summary.Sent)
	log.Printf("  Failed: %d events", summary.Failed)

	return summary
}
