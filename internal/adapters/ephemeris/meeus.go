// Package ephemeris implements chart.Ephemeris on top of the algorithms in
// Jean Meeus' "Astronomical Algorithms". Planetary positions come from the
// full VSOP87 theory when its series files are configured and from JPL mean
// orbital elements otherwise; the latter are flagged as degraded.
//
// Positions are apparent geocentric ecliptic coordinates referred to the true
// equinox of date. Light-time is not applied.
package ephemeris

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/okian/natal/internal/domain/astro"
	"github.com/okian/natal/internal/domain/chart"
	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	pp "github.com/soniakeys/meeus/v3/planetposition"
	"github.com/soniakeys/meeus/v3/pluto"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"
)

// Pluto's series in pluto.Heliocentric is valid over these years.
const (
	plutoFirstYear = 1885
	plutoLastYear  = 2099
)

// speedStep is half the interval, in days, of the symmetric difference used
// for daily motion.
const speedStep = 0.5

// aberration constant in degrees at 1 au.
const aberration = 20.4898 / 3600

var vsopBodies = []struct {
	body  astro.Body
	index int
}{
	{astro.Mercury, pp.Mercury},
	{astro.Venus, pp.Venus},
	{earthIndex, pp.Earth},
	{astro.Mars, pp.Mars},
	{astro.Jupiter, pp.Jupiter},
	{astro.Saturn, pp.Saturn},
	{astro.Uranus, pp.Uranus},
	{astro.Neptune, pp.Neptune},
}

// Meeus is a chart.Ephemeris. The zero value is not usable; call New.
type Meeus struct {
	mu         sync.RWMutex
	configured bool
	path       string
	series     map[astro.Body]*pp.V87Planet
}

var _ chart.Ephemeris = (*Meeus)(nil)

// New returns an unconfigured adapter that computes every planet from mean
// elements until Configure loads VSOP87 series.
func New() *Meeus {
	return &Meeus{series: make(map[astro.Body]*pp.V87Planet)}
}

// Configure loads the VSOP87 series files found in path. Only the first call
// takes effect: repeating it with the same path is a no-op and a different
// path yields ErrAlreadyConfigured. An empty path selects mean elements only.
// Series that fail to load are reported together and those bodies stay on
// mean elements.
func (m *Meeus) Configure(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.configured {
		if path == m.path {
			return nil
		}
		return fmt.Errorf("%w: using %q, asked for %q", ErrAlreadyConfigured, m.path, path)
	}
	m.configured = true
	m.path = path
	if path == "" {
		return nil
	}

	var errs []error
	for _, v := range vsopBodies {
		p, err := pp.LoadPlanetPath(v.index, path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w %s: %w", ErrLoadSeries, v.body, err))
			continue
		}
		m.series[v.body] = p
	}
	return errors.Join(errs...)
}

// Loaded returns the number of VSOP87 series available, Earth included.
func (m *Meeus) Loaded() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.series)
}

// Mode names the precision the adapter currently runs at.
func (m *Meeus) Mode() string {
	switch n := m.Loaded(); {
	case n == len(vsopBodies):
		return "vsop87"
	case n == 0:
		return "mean-elements"
	default:
		return "mixed"
	}
}

func (m *Meeus) vsop(body astro.Body) *pp.V87Planet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.series[body]
}

// JulianDay converts a UTC moment on the proleptic Gregorian calendar.
func (m *Meeus) JulianDay(t astro.UTCMoment) (astro.JulianDay, error) {
	if t.Year < 1 || t.Year > 9999 {
		return 0, fmt.Errorf("%w: year %d", ErrOutOfRange, t.Year)
	}
	return astro.JulianDay(julian.CalendarGregorianToJD(t.Year, t.Month, t.DayFraction())), nil
}

// Houses computes the house division for an observer at lat, lon (east
// positive) using apparent sidereal time and the true obliquity.
func (m *Meeus) Houses(jd astro.JulianDay, lat, lon float64, system astro.HouseSystem) (chart.HouseResult, error) {
	jde := ephemerisDay(float64(jd))
	_, deps := nutation.Nutation(jde)
	eps := nutation.MeanObliquity(jde).Deg() + deps.Deg()
	gst := deg(sidereal.Apparent(float64(jd)).Rad())
	return divide(frame{armc: astro.Norm360(gst + lon), eps: eps, lat: lat}, system)
}

// Position returns the apparent position of body with its daily motion.
func (m *Meeus) Position(jd astro.JulianDay, body astro.Body) (chart.Position, error) {
	t := float64(jd)
	lon, lat, degraded, err := m.apparent(t, body)
	if err != nil {
		return chart.Position{}, err
	}
	before, _, _, err := m.apparent(t-speedStep, body)
	if err != nil {
		return chart.Position{}, err
	}
	after, _, _, err := m.apparent(t+speedStep, body)
	if err != nil {
		return chart.Position{}, err
	}

	pos := chart.Position{
		Longitude: lon,
		Latitude:  lat,
		Speed:     signedArc(before, after) / (2 * speedStep),
	}
	if degraded {
		pos.Warning = &chart.Warning{
			Code:    chart.DegradedPrecision,
			Body:    body,
			Message: "computed from mean orbital elements; expect errors up to a few arcminutes",
		}
	}
	return pos, nil
}

// apparent returns longitude and latitude in degrees for a UT Julian Day.
func (m *Meeus) apparent(jdUT float64, body astro.Body) (lon, lat float64, degraded bool, err error) {
	jde := ephemerisDay(jdUT)
	T := base.J2000Century(jde)
	dpsi, _ := nutation.Nutation(jde)
	nut := dpsi.Deg()

	switch body {
	case astro.Moon:
		l, b, _ := moonposition.Position(jde)
		return astro.Norm360(l.Deg() + nut), b.Deg(), false, nil

	case astro.NorthNode:
		return astro.Norm360(moonposition.TrueNode(jde).Deg() + nut), 0, false, nil

	case astro.SouthNode:
		return astro.Norm360(moonposition.TrueNode(jde).Deg() + nut + 180), 0, false, nil

	case astro.Sun:
		e := m.vsop(earthIndex)
		if e == nil {
			s, _ := solar.True(T)
			return astro.Norm360(s.Deg() - aberration + nut), 0, true, nil
		}
		l, b, r := e.Position(jde)
		return astro.Norm360(l.Deg() + 180 - aberration/r + nut), -b.Deg(), false, nil

	case astro.Pluto:
		year := 2000 + (jde-float64(astro.J2000))/365.25
		if year < plutoFirstYear || year >= plutoLastYear+1 {
			return 0, 0, false, fmt.Errorf("%w: Pluto series covers %d..%d, got %.1f",
				ErrOutOfRange, plutoFirstYear, plutoLastYear, year)
		}
		l, b, r := pluto.Heliocentric(jde)
		p := fromSpherical(l.Rad()+rad(precession(T)), b.Rad(), r)
		earth, eDegraded := m.heliocentric(earthIndex, jde, T)
		gl, gb := p.sub(earth).spherical()
		return astro.Norm360(deg(gl) + nut), deg(gb), eDegraded, nil

	case astro.Mercury, astro.Venus, astro.Mars, astro.Jupiter, astro.Saturn, astro.Uranus, astro.Neptune:
		p, pDegraded := m.heliocentric(body, jde, T)
		earth, eDegraded := m.heliocentric(earthIndex, jde, T)
		gl, gb := p.sub(earth).spherical()
		return astro.Norm360(deg(gl) + nut), deg(gb), pDegraded || eDegraded, nil
	}
	return 0, 0, false, fmt.Errorf("%w: %s", ErrUnsupportedBody, body)
}

// heliocentric returns the position of body referred to the mean equinox of
// date, reporting whether mean elements had to be used.
func (m *Meeus) heliocentric(body astro.Body, jde, T float64) (vector, bool) {
	if s := m.vsop(body); s != nil {
		l, b, r := s.Position(jde)
		return fromSpherical(l.Rad(), b.Rad(), r), false
	}
	v, _ := keplerPosition(body, T)
	return v, true
}

// ephemerisDay converts a UT Julian Day to the TT scale.
func ephemerisDay(jdUT float64) float64 {
	year := 2000 + (jdUT-float64(astro.J2000))/365.25
	return jdUT + deltaT(year)/86400
}

// signedArc returns the shortest signed arc from a to b in degrees.
func signedArc(a, b float64) float64 {
	d := math.Mod(b-a+540, 360) - 180
	return d
}
