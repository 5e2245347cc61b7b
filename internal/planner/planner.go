// Package planner builds safety-annotated routes between two districts.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mr1hm/go-saferoute/internal/geography"
	"github.com/mr1hm/go-saferoute/internal/hazardlog"
	"github.com/mr1hm/go-saferoute/internal/metrics"
	"github.com/mr1hm/go-saferoute/internal/models"
	"github.com/mr1hm/go-saferoute/internal/risk"
)

type RouteRequest struct {
	Source      string
	Destination string
	Interest    string
	Budget      int
}

// RouteResult is the outcome of a route request. Success is false, with a
// user-facing Message, when no stop fits the request.
type RouteResult struct {
	Success bool
	Message string
	Route   *models.Route
}

type Planner struct {
	catalog Catalog
	hazards *hazardlog.Source
	scorer  *risk.Scorer
}

func New(catalog Catalog, hazards *hazardlog.Source, scorer *risk.Scorer) *Planner {
	if hazards == nil {
		hazards = hazardlog.StaticSource(nil)
	}
	if scorer == nil {
		scorer = risk.NewScorer(risk.DefaultLookback)
	}
	return &Planner{
		catalog: catalog,
		hazards: hazards,
		scorer:  scorer,
	}
}

// BuildRoute resolves the corridor, picks and rates stops, and collects
// alerts. Invalid districts and budgets are returned as errors; an empty
// candidate set is a successful call with Success=false.
func (p *Planner) BuildRoute(ctx context.Context, req RouteRequest) (*RouteResult, error) {
	start := time.Now()
	defer func() {
		metrics.RouteDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	}()

	if req.Budget < 0 {
		return nil, ErrInvalidBudget
	}

	if name, ok := geography.Canonical(req.Source); ok {
		req.Source = name
	}
	if name, ok := geography.Canonical(req.Destination); ok {
		req.Destination = name
	}

	corridor, err := geography.Corridor(req.Source, req.Destination)
	if err != nil {
		return nil, err
	}

	// One snapshot per request so scoring and alerts agree.
	hazards := p.hazards.Snapshot()

	interest := models.Category(strings.ToLower(strings.TrimSpace(req.Interest)))
	stops, err := p.FindStops(ctx, hazards, geography.StopDistricts(corridor), interest, req.Budget)
	if err != nil {
		var nce *NoCandidatesError
		if errors.As(err, &nce) {
			nce.Source, nce.Destination = req.Source, req.Destination
			slog.Debug("no stops for route", "source", req.Source, "destination", req.Destination, "interest", interest, "budget", req.Budget)
			return &RouteResult{Success: false, Message: nce.Error()}, nil
		}
		return nil, fmt.Errorf("error finding stops: %w", err)
	}

	route := &models.Route{
		Source:      req.Source,
		Destination: req.Destination,
		Interest:    interest,
		Safety:      OverallSafety(stops),
		Stops:       stops,
		Alerts:      AlertsFor(hazards, stops, p.scorer.Now(), p.scorer.Lookback),
	}
	route.Tip = FallbackTip(route.StopNames())

	return &RouteResult{Success: true, Route: route}, nil
}

// Hazards returns the snapshot the next request would use.
func (p *Planner) Hazards() *hazardlog.Store {
	return p.hazards.Snapshot()
}

func (p *Planner) Scorer() *risk.Scorer {
	return p.scorer
}

// OverallSafety is the worst tier among stops.
func OverallSafety(stops []models.RouteStop) models.SafetyTier {
	worst := models.TierVerySafe
	for _, s := range stops {
		if s.Risk.Tier > worst {
			worst = s.Risk.Tier
		}
	}
	return worst
}

// FallbackTip is the advisory used whenever no generated tip is available.
func FallbackTip(stopNames []string) string {
	locations := "your destinations"
	if len(stopNames) > 0 {
		locations = strings.Join(stopNames, ", ")
	}
	return fmt.Sprintf("Enjoy your journey! When travelling through %s, always check local news for the latest updates on weather and road conditions.", locations)
}
