// Package aspect finds the angular relationships between chart bodies.
package aspect

import (
	"math"
	"sort"

	"github.com/okian/natal/internal/domain/astro"
)

// Type names an aspect.
type Type string

// Aspect types.
const (
	Conjunction Type = "CONJ"
	Sextile     Type = "SEXT"
	Square      Type = "SQR"
	Trine       Type = "TRI"
	Opposition  Type = "OPP"
)

// priority orders types when orbs tie: conjunction first, sextile last.
func (t Type) priority() int {
	switch t {
	case Conjunction:
		return 1
	case Opposition:
		return 2
	case Square:
		return 3
	case Trine:
		return 4
	case Sextile:
		return 5
	}
	return 99
}

// Hard reports whether t is a conjunction, square or opposition.
func (t Type) Hard() bool {
	return t == Conjunction || t == Square || t == Opposition
}

// Rule matches a separation within Orb degrees of Angle.
type Rule struct {
	Type  Type
	Angle float64
	Orb   float64
}

// DefaultRules is evaluated in order and the first match wins, so a pair
// never receives two aspect types even when orbs overlap.
var DefaultRules = []Rule{
	{Type: Conjunction, Angle: 0, Orb: 8},
	{Type: Sextile, Angle: 60, Orb: 5},
	{Type: Square, Angle: 90, Orb: 6},
	{Type: Trine, Angle: 120, Orb: 6},
	{Type: Opposition, Angle: 180, Orb: 8},
}

// Point is a body at an ecliptic longitude.
type Point struct {
	Body      astro.Body `json:"body"`
	Longitude float64    `json:"lon"`
}

// Aspect is a matched pair. Orb and Delta are rounded to hundredths of a
// degree.
type Aspect struct {
	A     astro.Body `json:"a"`
	B     astro.Body `json:"b"`
	Type  Type       `json:"type"`
	Exact float64    `json:"exact"`
	Orb   float64    `json:"orb"`
	Delta float64    `json:"delta"`
}

// Involves reports whether b is one of the pair.
func (a Aspect) Involves(b astro.Body) bool { return a.A == b || a.B == b }

// Other returns the body paired with b.
func (a Aspect) Other(b astro.Body) astro.Body {
	if a.A == b {
		return a.B
	}
	return a.A
}

// ShortestAngle returns the separation of a and b along the circle, in [0, 180].
func ShortestAngle(a, b float64) float64 {
	d := math.Abs(astro.Norm360(a) - astro.Norm360(b))
	if d > 180 {
		return 360 - d
	}
	return d
}

type options struct {
	rules     []Rule
	allowSelf bool
}

// Option configures Compute.
type Option func(*options)

// WithRules replaces the rule table.
func WithRules(rules []Rule) Option {
	return func(o *options) {
		if len(rules) > 0 {
			o.rules = rules
		}
	}
}

// WithAllowSelf lets two points carrying the same body be paired.
func WithAllowSelf(allow bool) Option {
	return func(o *options) { o.allowSelf = allow }
}

// Compute returns every aspect among points, ordered by ascending orb, then
// type priority, then the "A-B" pair name.
func Compute(points []Point, opts ...Option) []Aspect {
	o := options{rules: DefaultRules}
	for _, opt := range opts {
		opt(&o)
	}

	if !o.allowSelf {
		points = uniqueBodies(points)
	}

	out := make([]Aspect, 0)
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			a, b := points[i], points[j]
			if !o.allowSelf && a.Body == b.Body {
				continue
			}
			if asp, ok := match(a, b, o.rules); ok {
				out = append(out, asp)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		x, y := out[i], out[j]
		if x.Orb != y.Orb {
			return x.Orb < y.Orb
		}
		if px, py := x.Type.priority(), y.Type.priority(); px != py {
			return px < py
		}
		return pairName(x) < pairName(y)
	})
	return out
}

// Between classifies a single pair, if any rule matches.
func Between(a, b Point) (Aspect, bool) { return match(a, b, DefaultRules) }

func match(a, b Point, rules []Rule) (Aspect, bool) {
	delta := ShortestAngle(a.Longitude, b.Longitude)
	for _, r := range rules {
		orb := math.Abs(delta - r.Angle)
		if orb <= r.Orb {
			return Aspect{
				A:     a.Body,
				B:     b.Body,
				Type:  r.Type,
				Exact: r.Angle,
				Orb:   round2(orb),
				Delta: round2(delta),
			}, true
		}
	}
	return Aspect{}, false
}

func pairName(a Aspect) string { return string(a.A) + "-" + string(a.B) }

func round2(x float64) float64 { return math.Round(x*100) / 100 }

// Filter returns the aspects for which keep is true, preserving order.
func Filter(in []Aspect, keep func(Aspect) bool) []Aspect {
	out := make([]Aspect, 0, len(in))
	for _, a := range in {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

// uniqueBodies keeps first-seen order and the last point of every body.
func uniqueBodies(points []Point) []Point {
	index := make(map[astro.Body]int, len(points))
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if i, ok := index[p.Body]; ok {
			out[i] = p
			continue
		}
		index[p.Body] = len(out)
		out = append(out, p)
	}
	return out
}
