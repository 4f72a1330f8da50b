// Package seeder generates synthetic account-changed events for exercising a
// running scorehook service.
package seeder

import (
	"encoding/json"
	"fmt"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/models"
)

// Event is one generated webhook payload ready to send.
type Event struct {
	Body           []byte
	AccountID      string
	Classification string
	Wrapped        bool
}

// Generator produces synthetic account events. A fixed seed yields a
// reproducible stream; seed 0 randomizes.
type Generator struct {
	faker *gofakeit.Faker
}

func NewGenerator(seed int64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

var industries = []string{
	"utilities",
	"manufacturing",
	"retail",
	"logistics",
	"financial services",
	"healthcare",
}

// classification mimics real CRM data: mostly A/B/C, a few records carrying
// legacy codes the calculator does not recognize, and a few missing the
// field entirely.
func (g *Generator) classification() string {
	roll := g.faker.Number(1, 100)
	switch {
	case roll <= 30:
		return "A"
	case roll <= 60:
		return "B"
	case roll <= 85:
		return "C"
	case roll <= 93:
		return g.faker.RandomString([]string{"PROSPECT", "D", "VIP"})
	default:
		return ""
	}
}

// Generate builds one event. Roughly one in five payloads is sent bare,
// without the data envelope, matching how upstream systems actually deliver.
func (g *Generator) Generate() (Event, error) {
	id := g.faker.UUID()
	classification := g.classification()

	record := map[string]interface{}{
		models.FieldID:        id,
		models.FieldDisplayID: fmt.Sprintf("ACC-%d", g.faker.Number(10000, 99999)),
		"name":                g.faker.Company(),
		"industry":            g.faker.RandomString(industries),
		"city":                g.faker.City(),
	}
	if classification != "" {
		record[models.FieldClassification] = classification
	}

	// Some records already carry a stale score from an earlier run.
	if g.faker.Number(1, 4) == 1 {
		record[models.FieldExtensions] = map[string]interface{}{
			models.FieldCustomScore: g.faker.Number(0, 100),
		}
	}

	payload := map[string]interface{}{"currentImage": record}

	wrapped := g.faker.Number(1, 5) != 1
	var envelope interface{} = map[string]interface{}{"data": payload}
	if !wrapped {
		envelope = payload
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return Event{}, fmt.Errorf("failed to encode event: %w", err)
	}

	return Event{
		Body:           body,
		AccountID:      id,
		Classification: classification,
		Wrapped:        wrapped,
	}, nil
}
