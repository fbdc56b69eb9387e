package astro

import (
	"math"
	"strings"
)

// Sign is one of the twelve tropical zodiac signs.
type Sign string

// Signs in zodiacal order starting at 0° Aries.
const (
	Aries       Sign = "Aries"
	Taurus      Sign = "Taurus"
	Gemini      Sign = "Gemini"
	Cancer      Sign = "Cancer"
	Leo         Sign = "Leo"
	Virgo       Sign = "Virgo"
	Libra       Sign = "Libra"
	Scorpio     Sign = "Scorpio"
	Sagittarius Sign = "Sagittarius"
	Capricorn   Sign = "Capricorn"
	Aquarius    Sign = "Aquarius"
	Pisces      Sign = "Pisces"
)

// Zodiac lists the signs in order; index i covers [30i, 30i+30).
var Zodiac = [12]Sign{Aries, Taurus, Gemini, Cancer, Leo, Virgo, Libra, Scorpio, Sagittarius, Capricorn, Aquarius, Pisces}

// Element is the classical element a sign belongs to.
type Element string

// Elements.
const (
	Fire  Element = "Fire"
	Earth Element = "Earth"
	Air   Element = "Air"
	Water Element = "Water"
)

// Index returns the zodiacal index of s, or -1 if s is not a sign.
func (s Sign) Index() int {
	for i, z := range Zodiac {
		if z == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the twelve signs.
func (s Sign) Valid() bool { return s.Index() >= 0 }

// Element returns the element of s. Fire, earth, air and water repeat in
// that order around the zodiac.
func (s Sign) Element() Element {
	switch s.Index() % 4 {
	case 0:
		return Fire
	case 1:
		return Earth
	case 2:
		return Air
	case 3:
		return Water
	}
	return ""
}

// ParseSign resolves a sign name case-insensitively.
func ParseSign(v string) (Sign, bool) {
	v = strings.TrimSpace(v)
	for _, z := range Zodiac {
		if strings.EqualFold(string(z), v) {
			return z, true
		}
	}
	return "", false
}

// SignOf splits a longitude into sign, whole degree within the sign and
// whole arc-minute within the degree.
func SignOf(lon float64) (sign Sign, degree, minute int) {
	x := Norm360(lon)
	idx := int(math.Floor(x / 30))
	if idx > 11 {
		idx = 11
	}
	rem := x - float64(idx)*30
	degree = int(math.Floor(rem))
	minute = int(math.Floor((rem - float64(degree)) * 60))
	if minute > 59 {
		minute = 59
	}
	return Zodiac[idx], degree, minute
}
