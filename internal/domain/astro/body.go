// Package astro holds the primitive astrological vocabulary shared by the
// chart, aspect and scoring packages: bodies, signs, houses, birth input and
// the time/angle normalization helpers.
package astro

import "strings"

// Body identifies a tracked celestial body or chart angle.
type Body string

// Tracked bodies. The set is closed; use Valid to reject anything else.
const (
	Sun       Body = "Sun"
	Moon      Body = "Moon"
	Mercury   Body = "Mercury"
	Venus     Body = "Venus"
	Mars      Body = "Mars"
	Jupiter   Body = "Jupiter"
	Saturn    Body = "Saturn"
	Uranus    Body = "Uranus"
	Neptune   Body = "Neptune"
	Pluto     Body = "Pluto"
	NorthNode Body = "NorthNode"
	SouthNode Body = "SouthNode"
	ASC       Body = "ASC"
	MC        Body = "MC"
)

// Planets lists the ten classical and modern bodies in chart order.
var Planets = []Body{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto}

// AllBodies lists every body a chart can carry a placement for.
var AllBodies = []Body{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto, NorthNode, SouthNode, ASC, MC}

var bodyAliases = map[string]Body{
	"sun":        Sun,
	"moon":       Moon,
	"mercury":    Mercury,
	"venus":      Venus,
	"mars":       Mars,
	"jupiter":    Jupiter,
	"saturn":     Saturn,
	"uranus":     Uranus,
	"neptune":    Neptune,
	"pluto":      Pluto,
	"northnode":  NorthNode,
	"north node": NorthNode,
	"nn":         NorthNode,
	"southnode":  SouthNode,
	"south node": SouthNode,
	"sn":         SouthNode,
	"asc":        ASC,
	"rising":     ASC,
	"ascendant":  ASC,
	"mc":         MC,
	"midheaven":  MC,
}

// ParseBody resolves a body name or common alias ("Rising", "NN", "Midheaven").
func ParseBody(s string) (Body, bool) {
	b, ok := bodyAliases[strings.ToLower(strings.TrimSpace(s))]
	return b, ok
}

// Valid reports whether b is one of the tracked bodies.
func (b Body) Valid() bool {
	c, ok := bodyAliases[strings.ToLower(string(b))]
	return ok && c == b
}

// IsAngle reports whether b is a house angle rather than a body.
func (b Body) IsAngle() bool { return b == ASC || b == MC }

// IsPersonal reports whether b is one of the fast inner bodies.
func (b Body) IsPersonal() bool {
	switch b {
	case Sun, Moon, Mercury, Venus, Mars:
		return true
	}
	return false
}

// IsOuter reports whether b is one of the slow transpersonal planets.
func (b Body) IsOuter() bool {
	switch b {
	case Uranus, Neptune, Pluto:
		return true
	}
	return false
}

// Symbol returns the glyph conventionally used for b.
func (b Body) Symbol() string {
	switch b {
	case Sun:
		return "☉"
	case Moon:
		return "☽"
	case Mercury:
		return "☿"
	case Venus:
		return "♀"
	case Mars:
		return "♂"
	case Jupiter:
		return "♃"
	case Saturn:
		return "♄"
	case Uranus:
		return "♅"
	case Neptune:
		return "♆"
	case Pluto:
		return "♇"
	case NorthNode:
		return "☊"
	case SouthNode:
		return "☋"
	case ASC:
		return "↑"
	case MC:
		return "✦"
	}
	return ""
}
