package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/mr1hm/go-saferoute/internal/hazardlog"
	"github.com/mr1hm/go-saferoute/internal/models"
)

const alertDateLayout = "02 January 2006"

var severities = map[string]models.AlertSeverity{
	"landslide": models.AlertSeverityHigh,
	"flood":     models.AlertSeverityHigh,
	"cyclone":   models.AlertSeverityHigh,
	"heatwave":  models.AlertSeverityMedium,
	"drought":   models.AlertSeverityMedium,
}

// SeverityOf maps a disaster label to its alert severity. Labels not in the
// table are low severity.
func SeverityOf(label string) models.AlertSeverity {
	if s, ok := severities[strings.ToLower(strings.TrimSpace(label))]; ok {
		return s
	}
	return models.AlertSeverityLow
}

// AlertsFor lists disaster events recorded at each stop within the lookback
// window, in stop order and then log order.
func AlertsFor(hazards *hazardlog.Store, stops []models.RouteStop, now time.Time, lookback time.Duration) []models.Alert {
	alerts := []models.Alert{}
	if !hazards.Available() {
		return alerts
	}

	since := now.Add(-lookback)
	for _, stop := range stops {
		for ev := range hazards.Events(stop.District, stop.Place, since) {
			if !ev.IsDisaster() {
				continue
			}

			description := ev.Description
			if description == "" {
				description = "No details available."
			}

			alerts = append(alerts, models.Alert{
				Type:        fmt.Sprintf("%s in %s", models.Capitalize(strings.TrimSpace(ev.DisasterEvent)), stop.Place),
				Stop:        stop.Place,
				Description: description,
				Date:        ev.Date.Format(alertDateLayout),
				Severity:    SeverityOf(ev.DisasterEvent),
			})
		}
	}

	return alerts
}
