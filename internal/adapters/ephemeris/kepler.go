package ephemeris

import (
	"math"

	"github.com/okian/natal/internal/domain/astro"
)

// elements are JPL approximate mean orbital elements at J2000 with their
// rates per Julian century: semi-major axis (au), eccentricity, inclination,
// mean longitude, longitude of perihelion and longitude of the ascending node
// (degrees).
type elements struct {
	a, aDot       float64
	e, eDot       float64
	i, iDot       float64
	l, lDot       float64
	peri, periDot float64
	node, nodeDot float64
}

// earthIndex keys the Earth-Moon barycenter in meanElements.
const earthIndex astro.Body = "Earth"

var meanElements = map[astro.Body]elements{
	astro.Mercury: {0.38709927, 0.00000037, 0.20563593, 0.00001906, 7.00497902, -0.00594749, 252.25032350, 149472.67411175, 77.45779628, 0.16047689, 48.33076593, -0.12534081},
	astro.Venus:   {0.72333566, 0.00000390, 0.00677672, -0.00004107, 3.39467605, -0.00078890, 181.97909950, 58517.81538729, 131.60246718, 0.00268329, 76.67984255, -0.27769418},
	earthIndex:    {1.00000261, 0.00000562, 0.01671123, -0.00004392, -0.00001531, -0.01294668, 100.46457166, 35999.37244981, 102.93768193, 0.32327364, 0, 0},
	astro.Mars:    {1.52371034, 0.00001847, 0.09339410, 0.00007882, 1.84969142, -0.00813131, -4.55343205, 19140.30268499, -23.94362959, 0.44441088, 49.55953891, -0.29257343},
	astro.Jupiter: {5.20288700, -0.00011607, 0.04838624, -0.00013253, 1.30439695, -0.00183714, 34.39644051, 3034.74612775, 14.72847983, 0.21252668, 100.47390909, 0.20469106},
	astro.Saturn:  {9.53667594, -0.00125060, 0.05386179, -0.00050991, 2.48599187, 0.00193609, 49.95424423, 1222.49362201, 92.59887831, -0.41897216, 113.66242448, -0.28867794},
	astro.Uranus:  {19.18916464, -0.00196176, 0.04725744, -0.00004397, 0.77263783, -0.00242939, 313.23810451, 428.48202785, 170.95427630, 0.40805281, 74.01692503, 0.04240589},
	astro.Neptune: {30.06992276, 0.00026291, 0.00859048, 0.00005105, 1.77004347, 0.00035372, -55.12002969, 218.45945325, 44.96476227, -0.32241464, 131.78422574, -0.00508664},
}

// vector is a heliocentric rectangular position in au.
type vector struct{ x, y, z float64 }

func fromSpherical(l, b, r float64) vector {
	cb := math.Cos(b)
	return vector{r * cb * math.Cos(l), r * cb * math.Sin(l), r * math.Sin(b)}
}

func (v vector) sub(o vector) vector { return vector{v.x - o.x, v.y - o.y, v.z - o.z} }

// spherical returns longitude and latitude in radians.
func (v vector) spherical() (l, b float64) {
	return math.Atan2(v.y, v.x), math.Atan2(v.z, math.Hypot(v.x, v.y))
}

// keplerPosition returns the heliocentric ecliptic position of body for T
// centuries from J2000 (TT), referred to the mean equinox of date.
func keplerPosition(body astro.Body, T float64) (vector, bool) {
	el, ok := meanElements[body]
	if !ok {
		return vector{}, false
	}
	a := el.a + el.aDot*T
	e := el.e + el.eDot*T
	inc := rad(el.i + el.iDot*T)
	l := el.l + el.lDot*T
	peri := el.peri + el.periDot*T
	node := el.node + el.nodeDot*T

	w := rad(peri - node)
	om := rad(node)
	m := rad(math.Mod(l-peri, 360))
	ecc := solveKepler(m, e)

	xp := a * (math.Cos(ecc) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(ecc)

	cw, sw := math.Cos(w), math.Sin(w)
	co, so := math.Cos(om), math.Sin(om)
	ci, si := math.Cos(inc), math.Sin(inc)

	v := vector{
		x: (cw*co-sw*so*ci)*xp + (-sw*co-cw*so*ci)*yp,
		y: (cw*so+sw*co*ci)*xp + (-sw*so+cw*co*ci)*yp,
		z: (sw*si)*xp + (cw*si)*yp,
	}
	lon, lat := v.spherical()
	r := math.Sqrt(v.x*v.x + v.y*v.y + v.z*v.z)
	return fromSpherical(lon+rad(precession(T)), lat, r), true
}

// solveKepler returns the eccentric anomaly for mean anomaly m (radians).
func solveKepler(m, e float64) float64 {
	ecc := m + e*math.Sin(m)
	for range 30 {
		d := (ecc - e*math.Sin(ecc) - m) / (1 - e*math.Cos(ecc))
		ecc -= d
		if math.Abs(d) < 1e-12 {
			break
		}
	}
	return ecc
}

// precession returns the general precession in longitude from J2000 to
// the equinox of date, in degrees.
func precession(T float64) float64 {
	return (5029.0966*T + 1.11113*T*T) / 3600
}

func rad(d float64) float64 { return d * math.Pi / 180 }
func deg(r float64) float64 { return r * 180 / math.Pi }
