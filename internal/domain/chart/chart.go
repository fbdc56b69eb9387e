package chart

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/natal/internal/domain/aspect"
	"github.com/okian/natal/internal/domain/astro"
)

// BodyPosition is a normalized ecliptic position of one body.
type BodyPosition struct {
	Body       astro.Body `json:"body"`
	Longitude  float64    `json:"lon"`
	Latitude   float64    `json:"lat"`
	Speed      float64    `json:"speed"`
	Retrograde bool       `json:"retrograde"`
}

// Chart is a computed natal chart.
type Chart struct {
	Input      astro.BirthInput  `json:"input"`
	UTC        astro.UTCMoment   `json:"utc"`
	JulianDay  astro.JulianDay   `json:"jdUT"`
	Zodiac     string            `json:"zodiac"`
	Houses     astro.HouseCusps  `json:"houses"`
	Bodies     []BodyPosition    `json:"bodies"`
	Placements []astro.Placement `json:"placements"`
	Aspects    []aspect.Aspect   `json:"aspects"`
	Warnings   []Warning         `json:"warnings,omitempty"`
}

// Placement returns the placement of b, if the chart has one.
func (c *Chart) Placement(b astro.Body) (astro.Placement, bool) {
	for _, p := range c.Placements {
		if p.Body == b {
			return p, true
		}
	}
	return astro.Placement{}, false
}

// Position returns the raw position of b, if the chart has one.
func (c *Chart) Position(b astro.Body) (BodyPosition, bool) {
	for _, p := range c.Bodies {
		if p.Body == b {
			return p, true
		}
	}
	return BodyPosition{}, false
}

// Degraded reports whether any warning was raised while computing the chart.
func (c *Chart) Degraded() bool { return len(c.Warnings) > 0 }

// Calculator computes charts through an injected Ephemeris.
type Calculator struct {
	eph         Ephemeris
	system      astro.HouseSystem
	aspectRules []aspect.Rule
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithHouseSystem selects the house system. Unknown systems are ignored.
func WithHouseSystem(system astro.HouseSystem) Option {
	return func(c *Calculator) {
		if system.Valid() {
			c.system = system
		}
	}
}

// WithAspectRules overrides the aspect rule table.
func WithAspectRules(rules []aspect.Rule) Option {
	return func(c *Calculator) {
		if len(rules) > 0 {
			c.aspectRules = rules
		}
	}
}

// NewCalculator returns a Calculator using Koch houses by default.
func NewCalculator(eph Ephemeris, opts ...Option) *Calculator {
	c := &Calculator{
		eph:         eph,
		system:      astro.Koch,
		aspectRules: aspect.DefaultRules,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HouseSystem returns the configured house system.
func (c *Calculator) HouseSystem() astro.HouseSystem { return c.system }

// ErrNoEphemeris is returned when a Calculator has no backend.
var ErrNoEphemeris = errors.New("no ephemeris configured")

// Compute builds the chart for in. Invalid input yields an
// *astro.InvalidInputError; any backend failure yields an *EphemerisError
// and no partial chart. Degraded results are returned with Warnings set.
func (c *Calculator) Compute(ctx context.Context, in astro.BirthInput) (*Chart, error) {
	utc, err := astro.ToUTC(in)
	if err != nil {
		return nil, err
	}
	if c.eph == nil {
		return nil, &EphemerisError{Op: "configure", Err: ErrNoEphemeris}
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("compute chart: %w", err)
	}

	jd, err := c.eph.JulianDay(utc)
	if err != nil {
		return nil, &EphemerisError{Op: "julian_day", Err: err}
	}

	hr, err := c.eph.Houses(jd, in.Latitude, in.Longitude, c.system)
	if err != nil {
		return nil, &EphemerisError{Op: "houses", Err: err}
	}

	ch := &Chart{
		Input:     in,
		UTC:       utc,
		JulianDay: jd,
		Zodiac:    "tropical",
		Houses:    normalizeCusps(hr.Cusps),
	}
	if hr.Warning != nil {
		ch.Warnings = append(ch.Warnings, *hr.Warning)
	}

	for _, body := range astro.Planets {
		pos, err := c.eph.Position(jd, body)
		if err != nil {
			return nil, &EphemerisError{Op: "position", Body: body, Err: err}
		}
		ch.addBody(body, pos)
	}

	node, err := c.eph.Position(jd, astro.NorthNode)
	if err != nil {
		return nil, &EphemerisError{Op: "position", Body: astro.NorthNode, Err: err}
	}
	ch.addBody(astro.NorthNode, node)
	ch.addBody(astro.SouthNode, Position{
		Longitude: astro.Opposite(node.Longitude),
		Latitude:  -node.Latitude,
		Speed:     node.Speed,
	})

	ch.place()

	points := make([]aspect.Point, 0, len(astro.Planets))
	for _, b := range ch.Bodies {
		if b.Body == astro.NorthNode || b.Body == astro.SouthNode {
			continue
		}
		points = append(points, aspect.Point{Body: b.Body, Longitude: b.Longitude})
	}
	ch.Aspects = aspect.Compute(points, aspect.WithRules(c.aspectRules))
	return ch, nil
}

func (ch *Chart) addBody(body astro.Body, pos Position) {
	ch.Bodies = append(ch.Bodies, BodyPosition{
		Body:       body,
		Longitude:  astro.Norm360(pos.Longitude),
		Latitude:   pos.Latitude,
		Speed:      pos.Speed,
		Retrograde: pos.Speed < 0,
	})
	if pos.Warning != nil {
		w := *pos.Warning
		if w.Body == "" {
			w.Body = body
		}
		ch.Warnings = append(ch.Warnings, w)
	}
}

// place resolves every body into a placement and appends the two angles.
func (ch *Chart) place() {
	cusps := ch.Houses.Cusps
	ch.Placements = make([]astro.Placement, 0, len(ch.Bodies)+2)
	for _, b := range ch.Bodies {
		p := astro.Place(b.Body, b.Longitude, cusps)
		if _, ok := astro.HouseOfChecked(b.Longitude, cusps); !ok {
			ch.Warnings = append(ch.Warnings, Warning{
				Code:    HouseUnresolved,
				Body:    b.Body,
				Message: fmt.Sprintf("longitude %.4f matched no cusp sector; defaulted to house 12", b.Longitude),
			})
		}
		ch.Placements = append(ch.Placements, p)
	}
	ch.Placements = append(ch.Placements,
		astro.PlaceInHouse(astro.ASC, ch.Houses.Ascendant, 1),
		astro.PlaceInHouse(astro.MC, ch.Houses.Midheaven, 10),
	)
}

func normalizeCusps(h astro.HouseCusps) astro.HouseCusps {
	for i := range h.Cusps {
		h.Cusps[i] = astro.Norm360(h.Cusps[i])
	}
	h.Ascendant = astro.Norm360(h.Ascendant)
	h.Midheaven = astro.Norm360(h.Midheaven)
	return h
}
