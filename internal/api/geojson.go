package api

import (
	"github.com/mr1hm/go-saferoute/internal/geography"
	"github.com/mr1hm/go-saferoute/internal/hazardlog"
	"github.com/mr1hm/go-saferoute/internal/models"
	"github.com/mr1hm/go-saferoute/internal/risk"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// districtsGeoJSON places each district at its map centre, labelled with
// its corridor position and current district-wide safety.
func districtsGeoJSON(hazards *hazardlog.Store, scorer *risk.Scorer) FeatureCollection {
	names := geography.Districts()
	features := make([]Feature, 0, len(names))

	for _, name := range names {
		centre, _ := geography.CoordinatesOf(name)
		idx, _ := geography.Index(name)
		assessment := scorer.Score(hazards, name, "")

		features = append(features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: []float64{centre.Lng, centre.Lat},
			},
			Properties: map[string]any{
				"name":         name,
				"order":        idx,
				"safety_text":  assessment.Tier.Text(),
				"safety_class": assessment.Tier.Class(),
			},
		})
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}

// hazardFeature is the live feed form of one hazard event.
func hazardFeature(ev models.HazardEvent) Feature {
	f := Feature{
		Type: "Feature",
		Properties: map[string]any{
			"district":    ev.District,
			"place":       ev.Place,
			"event":       ev.DisasterEvent,
			"description": ev.Description,
			"date":        ev.Date.Format("2006-01-02"),
		},
	}
	if name, ok := geography.Canonical(ev.District); ok {
		centre, _ := geography.CoordinatesOf(name)
		f.Geometry = Geometry{Type: "Point", Coordinates: []float64{centre.Lng, centre.Lat}}
	}
	return f
}
