package astro

import (
	"fmt"
	"math"
	"time"
)

// Offset bounds accepted for a birth time zone, in hours east of UTC.
const (
	MinOffsetHours = -12.0
	MaxOffsetHours = 14.0
)

// BirthInput is a local civil birth time with its UTC offset and location.
type BirthInput struct {
	Year         int     `json:"y"`
	Month        int     `json:"m"`
	Day          int     `json:"d"`
	Hour         int     `json:"hh"`
	Minute       int     `json:"mm"`
	Second       int     `json:"ss"`
	OffsetHours  float64 `json:"tzOffsetHours"`
	Latitude     float64 `json:"lat"`
	Longitude    float64 `json:"lon"`
	Name         string  `json:"name,omitempty"`
	LocationName string  `json:"locationName,omitempty"`
}

// Validate checks every field range. The returned error is an
// *InvalidInputError naming the first offending field.
func (in BirthInput) Validate() error {
	switch {
	case in.Year < 1 || in.Year > 9999:
		return invalid("y", "year %d out of range 1..9999", in.Year)
	case in.Month < 1 || in.Month > 12:
		return invalid("m", "month %d out of range 1..12", in.Month)
	case in.Day < 1 || in.Day > daysIn(in.Year, in.Month):
		return invalid("d", "day %d not valid for %04d-%02d", in.Day, in.Year, in.Month)
	case in.Hour < 0 || in.Hour > 23:
		return invalid("hh", "hour %d out of range 0..23", in.Hour)
	case in.Minute < 0 || in.Minute > 59:
		return invalid("mm", "minute %d out of range 0..59", in.Minute)
	case in.Second < 0 || in.Second > 59:
		return invalid("ss", "second %d out of range 0..59", in.Second)
	}
	if !finite(in.OffsetHours) || in.OffsetHours < MinOffsetHours || in.OffsetHours > MaxOffsetHours {
		return invalid("tzOffsetHours", "offset %v out of range %v..%v", in.OffsetHours, MinOffsetHours, MaxOffsetHours)
	}
	if !finite(in.Latitude) || in.Latitude < -90 || in.Latitude > 90 {
		return invalid("lat", "latitude %v out of range -90..90", in.Latitude)
	}
	if !finite(in.Longitude) || in.Longitude < -180 || in.Longitude > 180 {
		return invalid("lon", "longitude %v out of range -180..180", in.Longitude)
	}
	return nil
}

// UTCOffset formats the offset as "+HH:MM".
func (in BirthInput) UTCOffset() string {
	sign := "+"
	h := in.OffsetHours
	if h < 0 {
		sign = "-"
		h = -h
	}
	whole := math.Floor(h)
	mins := int(math.Round((h - whole) * 60))
	hours := int(whole)
	if mins == 60 {
		hours++
		mins = 0
	}
	return fmt.Sprintf("%s%02d:%02d", sign, hours, mins)
}

// LocalDateTime formats the local civil time as "YYYY-MM-DDTHH:MM:SS".
func (in BirthInput) LocalDateTime() string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d", in.Year, in.Month, in.Day, in.Hour, in.Minute, in.Second)
}

// UTCMoment is a civil instant on the UTC time scale. Leap seconds are not
// modeled.
type UTCMoment struct {
	Year   int `json:"y"`
	Month  int `json:"m"`
	Day    int `json:"d"`
	Hour   int `json:"hh"`
	Minute int `json:"mm"`
	Second int `json:"ss"`
}

// Time returns m as a time.Time in UTC.
func (m UTCMoment) Time() time.Time {
	return time.Date(m.Year, time.Month(m.Month), m.Day, m.Hour, m.Minute, m.Second, 0, time.UTC)
}

// DayFraction returns the day of month including the time of day as a fraction.
func (m UTCMoment) DayFraction() float64 {
	return float64(m.Day) + (float64(m.Hour)+(float64(m.Minute)+float64(m.Second)/60)/60)/24
}

func (m UTCMoment) String() string { return m.Time().Format(time.RFC3339) }

// MomentOf converts t to a UTCMoment.
func MomentOf(t time.Time) UTCMoment {
	t = t.UTC()
	return UTCMoment{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}
}

// ToUTC validates in and shifts its local time by the offset, rolling the
// calendar over day, month and year boundaries as needed. The shifted year
// must stay within 1..9999 as well.
func ToUTC(in BirthInput) (UTCMoment, error) {
	if err := in.Validate(); err != nil {
		return UTCMoment{}, err
	}
	local := time.Date(in.Year, time.Month(in.Month), in.Day, in.Hour, in.Minute, in.Second, 0, time.UTC)
	shift := time.Duration(math.Round(in.OffsetHours*3600)) * time.Second
	m := MomentOf(local.Add(-shift))
	if m.Year < 1 || m.Year > 9999 {
		return UTCMoment{}, invalid("y", "UTC year %d out of range 1..9999 after applying offset %s", m.Year, in.UTCOffset())
	}
	return m, nil
}

// JulianDay is a continuous day count on the UT scale.
type JulianDay float64

// J2000 is the Julian Day of 2000-01-01 12:00 UT.
const J2000 JulianDay = 2451545.0

func daysIn(year, month int) int {
	if month < 1 || month > 12 {
		return 0
	}
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
