// Package advisor wraps the optional text generator with deterministic
// fallbacks, so callers always get an answer.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/mr1hm/go-saferoute/internal/hazardlog"
	"github.com/mr1hm/go-saferoute/internal/metrics"
	"github.com/mr1hm/go-saferoute/internal/planner"
)

var ErrNotConfigured = errors.New("text generator is not configured")

type Source string

const (
	SourceGenerated Source = "gemini"
	SourceFallback  Source = "fallback"
)

// Prediction is a forward-looking advisory for a destination district.
type Prediction struct {
	DisasterAlert string `json:"disaster_alert"`
	DiseaseAlert  string `json:"disease_alert"`
}

var (
	predictionUnavailable = Prediction{
		DisasterAlert: "AI analysis not available.",
		DiseaseAlert:  "AI analysis not available.",
	}
	predictionNoHistory = Prediction{
		DisasterAlert: "Historical data is unavailable for analysis.",
		DiseaseAlert:  "Historical data is unavailable for analysis.",
	}
	predictionFailed = Prediction{
		DisasterAlert: "Could not generate a prediction. Always check local news and weather reports.",
		DiseaseAlert:  "General health precautions are recommended.",
	}
)

type Advisor struct {
	gen Generator
}

// New returns an Advisor. A nil generator makes every call use its fallback.
func New(gen Generator) *Advisor {
	return &Advisor{gen: gen}
}

func (a *Advisor) Enabled() bool {
	return a != nil && a.gen != nil
}

// Tip returns a travel safety tip for the given stops, generated when
// possible and the planner's fallback tip otherwise.
func (a *Advisor) Tip(ctx context.Context, stops []string) (string, Source) {
	fallback := planner.FallbackTip(stops)
	if !a.Enabled() {
		metrics.AdviceRequestsTotal.WithLabelValues("tip", string(SourceFallback)).Inc()
		return fallback, SourceFallback
	}

	locations := "your destinations"
	if len(stops) > 0 {
		locations = strings.Join(stops, ", ")
	}
	prompt := fmt.Sprintf(`Create a short, friendly, practical travel safety tip for a trip in Kerala through %s.
Include a 1-2 sentence summary, up to 3 short bullet points, and a packing/precaution sentence.
Return plain text only, no markdown.`, locations)

	tip, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		slog.Warn("tip generation failed, using fallback", "error", err)
		metrics.AdviceRequestsTotal.WithLabelValues("tip", string(SourceFallback)).Inc()
		return fallback, SourceFallback
	}

	metrics.AdviceRequestsTotal.WithLabelValues("tip", string(SourceGenerated)).Inc()
	return tip, SourceGenerated
}

// Chat answers a free-form travel question.
func (a *Advisor) Chat(ctx context.Context, message string) (string, error) {
	if !a.Enabled() {
		return "", ErrNotConfigured
	}

	prompt := fmt.Sprintf(`You are a friendly travel assistant for Kerala, India. Provide safe and useful advice.
Format answers using Markdown (lists, bold text, etc.).
User question: %q`, message)

	reply, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		metrics.AdviceRequestsTotal.WithLabelValues("chat", string(SourceFallback)).Inc()
		return "", fmt.Errorf("error generating chat reply: %w", err)
	}
	metrics.AdviceRequestsTotal.WithLabelValues("chat", string(SourceGenerated)).Inc()
	return reply, nil
}

// History summarizes a district's hazard log over the lookback window.
type History struct {
	District       string
	DisasterCounts map[string]int
	DiseaseCases   int
	MostRecent     time.Time
	Events         int
}

func Summarize(store *hazardlog.Store, district string, now time.Time, lookback time.Duration) History {
	h := History{District: district, DisasterCounts: map[string]int{}}
	for ev := range store.Events(district, "", now.Add(-lookback)) {
		h.Events++
		if ev.IsDisaster() {
			h.DisasterCounts[strings.TrimSpace(ev.DisasterEvent)]++
		}
		if ev.DiseaseCases != nil {
			h.DiseaseCases += *ev.DiseaseCases
		}
		if ev.Date.After(h.MostRecent) {
			h.MostRecent = ev.Date
		}
	}
	return h
}

func (h History) String() string {
	disasters := "None significant"
	if len(h.DisasterCounts) > 0 {
		parts := make([]string, 0, len(h.DisasterCounts))
		for _, label := range slices.Sorted(maps.Keys(h.DisasterCounts)) {
			parts = append(parts, fmt.Sprintf("%s: %d", label, h.DisasterCounts[label]))
		}
		disasters = strings.Join(parts, ", ")
	}

	return fmt.Sprintf(`Historical data for %s, Kerala:
- Recent disaster events: %s.
- Total disease cases in 2 years: %d.
- Most recent event was in: %s.`, h.District, disasters, h.DiseaseCases, h.MostRecent.Format("January 2006"))
}

// Predict asks the generator for a short disaster and disease outlook for
// district based on its hazard history. Any failure yields a fixed advisory.
func (a *Advisor) Predict(ctx context.Context, store *hazardlog.Store, district string, now time.Time, lookback time.Duration) Prediction {
	if !a.Enabled() {
		return predictionUnavailable
	}
	if !store.Available() {
		return predictionNoHistory
	}

	history := Summarize(store, district, now, lookback)
	if history.Events == 0 {
		return Prediction{
			DisasterAlert: fmt.Sprintf("No significant events recorded for %s in the last two years. General caution is advised.", district),
			DiseaseAlert:  "No specific disease outbreaks reported recently.",
		}
	}

	prompt := fmt.Sprintf(`You are a travel risk assessment AI for Kerala, India. Analyze the provided historical data summary and consider common seasonal patterns (e.g., monsoon is June-September).
Based on this data: %q
The current month is %s.
Generate a short, helpful, predictive alert for a traveler visiting %s.
Your response MUST be a simple JSON object with two keys: "disaster_alert" and "disease_alert", each 1-2 sentences.`,
		history.String(), now.Format("January"), district)

	text, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		slog.Warn("prediction failed, using fallback", "district", district, "error", err)
		metrics.AdviceRequestsTotal.WithLabelValues("prediction", string(SourceFallback)).Inc()
		return predictionFailed
	}

	p, err := parsePrediction(text)
	if err != nil {
		slog.Warn("prediction response unreadable, using fallback", "district", district, "error", err)
		metrics.AdviceRequestsTotal.WithLabelValues("prediction", string(SourceFallback)).Inc()
		return predictionFailed
	}

	metrics.AdviceRequestsTotal.WithLabelValues("prediction", string(SourceGenerated)).Inc()
	return p
}

func parsePrediction(text string) (Prediction, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	var p Prediction
	if err := json.Unmarshal([]byte(strings.TrimSpace(cleaned)), &p); err != nil {
		return Prediction{}, fmt.Errorf("error decoding prediction: %w", err)
	}
	if p.DisasterAlert == "" || p.DiseaseAlert == "" {
		return Prediction{}, fmt.Errorf("prediction is missing fields")
	}
	return p, nil
}
