package ephemeris

import (
	"fmt"
	"math"

	"github.com/okian/natal/internal/domain/astro"
	"github.com/okian/natal/internal/domain/chart"
)

// frame is the local sidereal frame a house division is computed in.
type frame struct {
	armc float64 // degrees
	eps  float64 // true obliquity, degrees
	lat  float64 // geographic latitude, degrees
}

// divide computes cusps for system. Koch is replaced by Porphyry inside the
// polar circles, where its semi-arcs are undefined.
func divide(f frame, system astro.HouseSystem) (chart.HouseResult, error) {
	asc := f.ascendant()
	mc := f.midheaven()

	var res chart.HouseResult
	switch system {
	case astro.Koch:
		if math.Abs(f.lat) >= 90-f.eps {
			res.Cusps.Cusps = porphyry(asc, mc)
			res.Cusps.System = astro.Porphyry
			res.Warning = &chart.Warning{
				Code:    chart.HouseSystemFallback,
				Message: fmt.Sprintf("Koch undefined at latitude %.2f; Porphyry used", f.lat),
			}
		} else {
			res.Cusps.Cusps = f.koch(asc, mc)
			res.Cusps.System = astro.Koch
		}
	case astro.Porphyry:
		res.Cusps.Cusps = porphyry(asc, mc)
		res.Cusps.System = astro.Porphyry
	case astro.Equal:
		res.Cusps.Cusps = equal(asc)
		res.Cusps.System = astro.Equal
	case astro.WholeSign:
		res.Cusps.Cusps = equal(math.Floor(asc/30) * 30)
		res.Cusps.System = astro.WholeSign
	default:
		return chart.HouseResult{}, fmt.Errorf("%w: %q", ErrUnsupportedSystem, system)
	}
	res.Cusps.Ascendant = asc
	res.Cusps.Midheaven = mc
	return res, nil
}

// ascendantOf returns the ecliptic point rising on the oblique horizon whose
// right ascension of the meridian is x.
func (f frame) ascendantOf(x float64) float64 {
	xr, er, pr := rad(x), rad(f.eps), rad(f.lat)
	return astro.Norm360(deg(math.Atan2(math.Sin(xr), math.Cos(er)*math.Cos(xr)-math.Tan(pr)*math.Sin(er))))
}

func (f frame) ascendant() float64 { return f.ascendantOf(f.armc + 90) }

func (f frame) midheaven() float64 {
	th, er := rad(f.armc), rad(f.eps)
	return astro.Norm360(deg(math.Atan2(math.Sin(th), math.Cos(th)*math.Cos(er))))
}

func (f frame) koch(asc, mc float64) [12]float64 {
	sina := math.Sin(rad(mc)) * math.Sin(rad(f.eps)) / math.Cos(rad(f.lat))
	sina = math.Max(-1, math.Min(1, sina))
	cosa := math.Sqrt(1 - sina*sina)
	c := math.Atan(math.Tan(rad(f.lat)) / cosa)
	ad3 := deg(math.Asin(math.Sin(c)*sina)) / 3

	var cs [12]float64
	cs[0] = asc
	cs[9] = mc
	cs[10] = f.ascendantOf(f.armc + 30 - 2*ad3)
	cs[11] = f.ascendantOf(f.armc + 60 - ad3)
	cs[1] = f.ascendantOf(f.armc + 120 + ad3)
	cs[2] = f.ascendantOf(f.armc + 150 + 2*ad3)
	fillOpposites(&cs)
	return cs
}

// porphyry trisects each quadrant between the angles.
func porphyry(asc, mc float64) [12]float64 {
	var cs [12]float64
	ic := astro.Opposite(mc)
	upper := astro.Norm360(asc - mc)
	lower := astro.Norm360(ic - asc)
	cs[0] = asc
	cs[9] = mc
	cs[10] = astro.Norm360(mc + upper/3)
	cs[11] = astro.Norm360(mc + 2*upper/3)
	cs[1] = astro.Norm360(asc + lower/3)
	cs[2] = astro.Norm360(asc + 2*lower/3)
	fillOpposites(&cs)
	return cs
}

func equal(start float64) [12]float64 {
	var cs [12]float64
	for i := range cs {
		cs[i] = astro.Norm360(start + float64(i)*30)
	}
	return cs
}

// fillOpposites sets cusps 4..9 from cusps 10..3.
func fillOpposites(cs *[12]float64) {
	cs[3] = astro.Opposite(cs[9])
	cs[4] = astro.Opposite(cs[10])
	cs[5] = astro.Opposite(cs[11])
	cs[6] = astro.Opposite(cs[0])
	cs[7] = astro.Opposite(cs[1])
	cs[8] = astro.Opposite(cs[2])
}
