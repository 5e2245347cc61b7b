// Package risk turns a location's recent hazard history into a safety tier.
package risk

import (
	"time"

	"github.com/mr1hm/go-saferoute/internal/hazardlog"
	"github.com/mr1hm/go-saferoute/internal/models"
)

// DefaultLookback is how far back events count towards a score.
const DefaultLookback = 730 * 24 * time.Hour

// Per-event weights.
const (
	DisasterWeight = 5
	DiseaseWeight  = 3
	HeatWeight     = 1
	RainWeight     = 2
)

// Observation thresholds, exclusive.
const (
	HeatThreshold      = 34.0 // °C
	HeavyRainThreshold = 60.0 // mm
)

// Tier cut points. A score strictly above a cut point falls in the next tier.
const (
	SafeCutoff     = 0
	ModerateCutoff = 18
	RiskyCutoff    = 45
)

// NeutralScore is reported when there is no hazard log to score against.
const NeutralScore = 20

// Score rates a district/place from events dated strictly after now-lookback.
// An empty place scores the whole district.
func Score(store *hazardlog.Store, district, place string, now time.Time, lookback time.Duration) models.RiskAssessment {
	if !store.Available() {
		return models.RiskAssessment{Tier: models.TierModerate, Score: NeutralScore}
	}

	since := now.Add(-lookback)
	score := 0
	for ev := range store.Events(district, place, since) {
		score += eventScore(&ev)
	}

	return models.RiskAssessment{Tier: TierFor(score), Score: score}
}

func eventScore(ev *models.HazardEvent) int {
	score := 0
	if ev.IsDisaster() {
		score += DisasterWeight
	}
	if ev.DiseaseCases != nil && *ev.DiseaseCases > 0 {
		score += DiseaseWeight
	}
	if ev.TemperatureC != nil && *ev.TemperatureC > HeatThreshold {
		score += HeatWeight
	}
	if ev.RainfallMM != nil && *ev.RainfallMM > HeavyRainThreshold {
		score += RainWeight
	}
	return score
}

// TierFor maps an accumulated score onto a tier.
func TierFor(score int) models.SafetyTier {
	switch {
	case score > RiskyCutoff:
		return models.TierRisky
	case score > ModerateCutoff:
		return models.TierModerate
	case score > SafeCutoff:
		return models.TierSafe
	default:
		return models.TierVerySafe
	}
}

// Scorer binds Score to a clock and lookback window.
type Scorer struct {
	Now      func() time.Time
	Lookback time.Duration
}

func NewScorer(lookback time.Duration) *Scorer {
	if lookback <= 0 {
		lookback = DefaultLookback
	}
	return &Scorer{Now: time.Now, Lookback: lookback}
}

func (s *Scorer) Score(store *hazardlog.Store, district, place string) models.RiskAssessment {
	return Score(store, district, place, s.Now(), s.Lookback)
}
