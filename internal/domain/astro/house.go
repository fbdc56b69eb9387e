package astro

import "math"

// House is a house number in 1..12.
type House int

// HouseSystem selects the house division method, using the conventional
// single-letter codes.
type HouseSystem string

// Supported house systems.
const (
	Koch      HouseSystem = "K"
	Porphyry  HouseSystem = "O"
	Equal     HouseSystem = "E"
	WholeSign HouseSystem = "W"
)

// Valid reports whether h is a supported house system.
func (h HouseSystem) Valid() bool {
	switch h {
	case Koch, Porphyry, Equal, WholeSign:
		return true
	}
	return false
}

// Name returns a human readable name of the system.
func (h HouseSystem) Name() string {
	switch h {
	case Koch:
		return "Koch"
	case Porphyry:
		return "Porphyry"
	case Equal:
		return "Equal"
	case WholeSign:
		return "Whole Sign"
	}
	return string(h)
}

// HouseCusps is the result of a house division: twelve cusp longitudes
// (cusp 1 at index 0) plus the two angles.
type HouseCusps struct {
	Cusps     [12]float64 `json:"cusps"`
	Ascendant float64     `json:"ascendant"`
	Midheaven float64     `json:"midheaven"`
	System    HouseSystem `json:"system"`
}

// ClampHouse coerces an arbitrary numeric house into 1..12, rounding to
// the nearest integer first. Non-finite input maps to house 1.
func ClampHouse(h float64) House {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return 1
	}
	r := int(math.Round(h))
	if r < 1 {
		return 1
	}
	if r > 12 {
		return 12
	}
	return House(r)
}

// Valid reports whether h is in 1..12.
func (h House) Valid() bool { return h >= 1 && h <= 12 }

// HouseOf returns the house containing lon.
func HouseOf(lon float64, cusps [12]float64) House {
	h, _ := HouseOfChecked(lon, cusps)
	return h
}

// HouseOfChecked is HouseOf but also reports whether a sector actually
// matched. When no sector matches (unordered cusps, or floating point at a
// boundary) the result is house 12 and ok is false.
//
// The frame is rotated so cusp 1 sits at 0°, then sectors [c[i], c[i+1])
// are scanned in order with the last sector closing at 360°. Lower bounds
// are inclusive, so a longitude exactly on a cusp belongs to that cusp's
// house.
func HouseOfChecked(lon float64, cusps [12]float64) (House, bool) {
	start := cusps[0]
	x := Norm360(lon - start)
	for i := 0; i < 12; i++ {
		a := Norm360(cusps[i] - start)
		b := 360.0
		if i < 11 {
			b = Norm360(cusps[i+1] - start)
		}
		if x >= a && x < b {
			return House(i + 1), true
		}
	}
	return 12, false
}
