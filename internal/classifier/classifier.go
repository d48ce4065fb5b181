// Package classifier derives the discrete safety state from the pH stream.
// Absolute bounds catch steady-state excursions; the rate-of-change check
// catches fast swings while the value is still inside nominal bounds.
package classifier

import (
	"math"

	"github.com/Vixylora/Blast-Hackathon/internal/models"
)

// Thresholds are the tunable classification bounds. They come from
// configuration, not from literals in the decision logic.
type Thresholds struct {
	PHHigh     float64 // at or above: critical
	PHLow      float64 // at or below: critical
	PHWarnHigh float64 // above: warning
	PHWarnLow  float64 // below: warning
	RateDelta  float64 // |current-previous| above: warning
}

// DefaultThresholds returns the production bounds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		PHHigh:     8.5,
		PHLow:      6.5,
		PHWarnHigh: 8.0,
		PHWarnLow:  6.8,
		RateDelta:  0.5,
	}
}

// Classify maps a (previous, current) pH pair to a safety state.
// Pure function: same inputs and thresholds always give the same state.
func (t Thresholds) Classify(previous, current float64) models.SystemState {
	delta := math.Abs(current - previous)

	switch {
	case current >= t.PHHigh || current <= t.PHLow:
		return models.StateCritical
	case delta > t.RateDelta || current > t.PHWarnHigh || current < t.PHWarnLow:
		return models.StateWarning
	default:
		return models.StateSafe
	}
}
