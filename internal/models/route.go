package models

// SafetyTier orders safety labels from best (VerySafe) to worst (Risky).
type SafetyTier int

const (
	TierVerySafe SafetyTier = iota
	TierSafe
	TierModerate
	TierRisky
)

func (t SafetyTier) Text() string {
	switch t {
	case TierVerySafe:
		return "Very Low Risk"
	case TierSafe:
		return "Low Risk"
	case TierModerate:
		return "Moderate Risk"
	case TierRisky:
		return "High Risk"
	default:
		return "Unknown"
	}
}

// Class is the CSS class the front end uses to colour the label.
func (t SafetyTier) Class() string {
	switch t {
	case TierVerySafe:
		return "very-safe"
	case TierSafe:
		return "safe"
	case TierModerate:
		return "caution"
	case TierRisky:
		return "unsafe"
	default:
		return "caution"
	}
}

func (t SafetyTier) String() string {
	return t.Text()
}

type RiskAssessment struct {
	Tier  SafetyTier
	Score int
}

type RouteStop struct {
	ID       int64
	Place    string
	District string
	Category Category
	Budget   int
	Risk     RiskAssessment
}

type Route struct {
	Source      string
	Destination string
	Interest    Category
	Safety      SafetyTier
	Stops       []RouteStop
	Alerts      []Alert
	Tip         string
}

// StopNames returns the place names of the route's stops in order.
func (r *Route) StopNames() []string {
	names := make([]string, 0, len(r.Stops))
	for _, s := range r.Stops {
		names = append(names, s.Place)
	}
	return names
}
