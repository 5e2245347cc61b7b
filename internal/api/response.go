package api

import (
	"github.com/mr1hm/go-saferoute/internal/advisor"
	"github.com/mr1hm/go-saferoute/internal/models"
)

type routeResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message,omitempty"`
	Route   *routeBody `json:"route,omitempty"`
}

type routeBody struct {
	Source             string              `json:"source"`
	Destination        string              `json:"destination"`
	Interest           string              `json:"interest"`
	OverallSafetyText  string              `json:"overall_safety_text"`
	OverallSafetyClass string              `json:"overall_safety_class"`
	Stops              []stopBody          `json:"stops"`
	Alerts             []models.Alert      `json:"alerts"`
	Tip                string              `json:"tip"`
	Prediction         *advisor.Prediction `json:"prediction,omitempty"`
}

type stopBody struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	District    string `json:"district"`
	Type        string `json:"type"`
	Budget      int    `json:"budget"`
	SafetyText  string `json:"safety_text"`
	SafetyClass string `json:"safety_class"`
}

type safetyBody struct {
	Text      string `json:"text"`
	ClassName string `json:"class_name"`
}

type destinationBody struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	District    string     `json:"district"`
	Type        string     `json:"type"`
	Description string     `json:"description"`
	Budget      int        `json:"budget"`
	ImageURL    string     `json:"image_url"`
	SearchCount int64      `json:"search_count"`
	Safety      safetyBody `json:"safety"`
}

func toRouteBody(r *models.Route) *routeBody {
	stops := make([]stopBody, 0, len(r.Stops))
	for _, s := range r.Stops {
		stops = append(stops, stopBody{
			ID:          s.ID,
			Name:        s.Place,
			District:    s.District,
			Type:        s.Category.Title(),
			Budget:      s.Budget,
			SafetyText:  s.Risk.Tier.Text(),
			SafetyClass: s.Risk.Tier.Class(),
		})
	}

	alerts := r.Alerts
	if alerts == nil {
		alerts = []models.Alert{}
	}

	return &routeBody{
		Source:             r.Source,
		Destination:        r.Destination,
		Interest:           r.Interest.Title(),
		OverallSafetyText:  r.Safety.Text(),
		OverallSafetyClass: r.Safety.Class(),
		Stops:              stops,
		Alerts:             alerts,
		Tip:                r.Tip,
	}
}

func toDestinationBody(d models.Destination, safety models.RiskAssessment) destinationBody {
	typ := "N/A"
	if d.Category != "" {
		typ = d.Category.Title()
	}
	return destinationBody{
		ID:          d.ID,
		Name:        d.Place,
		District:    d.District,
		Type:        typ,
		Description: d.Description,
		Budget:      d.Budget,
		ImageURL:    d.ImageURL,
		SearchCount: d.SearchCount,
		Safety:      safetyBody{Text: safety.Tier.Text(), ClassName: safety.Tier.Class()},
	}
}
