package models

type AlertSeverity string

const (
	AlertSeverityLow    AlertSeverity = "alert-low"
	AlertSeverityMedium AlertSeverity = "alert-medium"
	AlertSeverityHigh   AlertSeverity = "alert-high"
)

// Alert is a recent hazard event attached to one of the selected stops.
type Alert struct {
	Type        string        `json:"type"` // e.g. "Flood in Munnar"
	Stop        string        `json:"-"`
	Description string        `json:"description"`
	Date        string        `json:"date"`
	Severity    AlertSeverity `json:"severity_class"`
}
