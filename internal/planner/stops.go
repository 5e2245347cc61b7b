package planner

import (
	"context"
	"fmt"
	"slices"

	"github.com/mr1hm/go-saferoute/internal/hazardlog"
	"github.com/mr1hm/go-saferoute/internal/metrics"
	"github.com/mr1hm/go-saferoute/internal/models"
	"github.com/mr1hm/go-saferoute/internal/repository"
)

// MaxStops caps how many stops a route offers.
const MaxStops = 3

// Catalog is the slice of the destination repository the planner reads.
type Catalog interface {
	ListDestinations(ctx context.Context, opts repository.Filter) ([]models.Destination, error)
}

// FindStops returns up to MaxStops destinations in stopDistricts matching
// interest within maxBudget, safest first. Equal tiers keep catalog order.
func (p *Planner) FindStops(ctx context.Context, hazards *hazardlog.Store, stopDistricts []string, interest models.Category, maxBudget int) ([]models.RouteStop, error) {
	if len(stopDistricts) == 0 {
		return nil, &NoCandidatesError{Interest: string(interest), Budget: maxBudget}
	}

	candidates, err := p.catalog.ListDestinations(ctx, repository.Filter{
		Districts: stopDistricts,
		Category:  &interest,
		MaxBudget: &maxBudget,
	})
	if err != nil {
		return nil, fmt.Errorf("error listing candidate stops: %w", err)
	}
	if len(candidates) == 0 {
		return nil, &NoCandidatesError{Interest: string(interest), Budget: maxBudget}
	}

	stops := make([]models.RouteStop, 0, len(candidates))
	for _, c := range candidates {
		assessment := p.scorer.Score(hazards, c.District, c.Place)
		metrics.RiskAssessmentsTotal.WithLabelValues(assessment.Tier.Class()).Inc()

		stops = append(stops, models.RouteStop{
			ID:       c.ID,
			Place:    c.Place,
			District: c.District,
			Category: c.Category,
			Budget:   c.Budget,
			Risk:     assessment,
		})
	}

	return rank(stops), nil
}

// rank stable-sorts by tier and keeps the first MaxStops.
func rank(stops []models.RouteStop) []models.RouteStop {
	slices.SortStableFunc(stops, func(a, b models.RouteStop) int {
		return int(a.Risk.Tier) - int(b.Risk.Tier)
	})
	if len(stops) > MaxStops {
		stops = stops[:MaxStops]
	}
	return stops
}
