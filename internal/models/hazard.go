package models

import (
	"strings"
	"time"
)

// NoDisaster is the disaster_event value the hazard log uses for quiet days.
const NoDisaster = "none"

type HazardEvent struct {
	District        string
	Place           string
	Date            time.Time // zero when the log row had no usable date
	TemperatureC    *float64
	RainfallMM      *float64
	HumidityPercent *float64
	DiseaseCases    *int
	DisasterEvent   string
	Description     string
}

func (e *HazardEvent) HasDate() bool {
	return !e.Date.IsZero()
}

// IsDisaster reports whether the event carries a real disaster label.
func (e *HazardEvent) IsDisaster() bool {
	label := strings.TrimSpace(e.DisasterEvent)
	return label != "" && !strings.EqualFold(label, NoDisaster)
}
