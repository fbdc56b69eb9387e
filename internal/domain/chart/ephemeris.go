// Package chart assembles a natal chart from an ephemeris backend: house
// cusps, body positions, placements and aspects.
package chart

import "github.com/okian/natal/internal/domain/astro"

// Ephemeris computes the astronomical quantities a chart needs. Implementations
// carry their own one-time configuration (data files, series tables) and must
// be safe for concurrent use once constructed.
type Ephemeris interface {
	// JulianDay converts a UTC moment to a Julian Day on the UT scale.
	JulianDay(m astro.UTCMoment) (astro.JulianDay, error)

	// Houses divides the ecliptic for an observer at lat/lon. The result may
	// carry a warning when the requested system had to be substituted.
	Houses(jd astro.JulianDay, lat, lon float64, system astro.HouseSystem) (HouseResult, error)

	// Position returns the geocentric ecliptic position of body. The result
	// may carry a warning when a lower precision model was used.
	Position(jd astro.JulianDay, body astro.Body) (Position, error)
}

// Position is an ecliptic position with daily motion.
type Position struct {
	Longitude float64
	Latitude  float64
	Speed     float64
	Warning   *Warning
}

// HouseResult is a house division with an optional warning.
type HouseResult struct {
	Cusps   astro.HouseCusps
	Warning *Warning
}

// WarningCode classifies a non-fatal degradation.
type WarningCode string

// Warning codes.
const (
	// DegradedPrecision marks a position computed by a fallback model.
	DegradedPrecision WarningCode = "degraded_precision"
	// HouseSystemFallback marks a house division done in another system,
	// typically Koch near the poles.
	HouseSystemFallback WarningCode = "house_system_fallback"
	// HouseUnresolved marks a placement whose house defaulted to 12 because
	// no cusp sector matched.
	HouseUnresolved WarningCode = "house_unresolved"
)

// Warning annotates a chart that was computed with reduced fidelity.
type Warning struct {
	Code    WarningCode `json:"code"`
	Body    astro.Body  `json:"body,omitempty"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	if w.Body != "" {
		return string(w.Code) + " (" + string(w.Body) + "): " + w.Message
	}
	return string(w.Code) + ": " + w.Message
}
