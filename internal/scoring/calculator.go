// Package scoring derives the account score from its ABC classification.
package scoring

import (
	"log/slog"
	"strings"

	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/logging"
)

// Scores by classification. The derived score is always one of these values.
const (
	ScoreA       = 90
	ScoreB       = 70
	ScoreC       = 50
	ScoreDefault = ScoreC
)

// Calculate maps an ABC classification to its score. Matching is
// case-insensitive; anything that is not A, B or C is worth the default
// score. It never fails: an unknown classification is a policy decision,
// not an error.
func Calculate(classification string) int {
	switch strings.ToUpper(classification) {
	case "A":
		return ScoreA
	case "B":
		return ScoreB
	case "C":
		return ScoreC
	default:
		return ScoreDefault
	}
}

// CalculateLogged is Calculate plus an advisory log entry whenever the
// default is taken for anything other than an actual "C". A missing
// classification and an unrecognized one score the same, but they should
// read differently in the logs.
func CalculateLogged(logger *slog.Logger, classification string) int {
	score := Calculate(classification)
	if score == ScoreDefault && !strings.EqualFold(classification, "C") {
		if classification == "" {
			logger.Info("classification missing, using default score",
				logging.Score(score),
			)
		} else {
			logger.Info("classification not recognized, using default score",
				logging.Classification(classification),
				logging.Score(score),
			)
		}
	}
	return score
}
