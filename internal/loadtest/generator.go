package loadtest

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/okian/natal/internal/domain/astro"
	"github.com/okian/natal/pkg/logger"
)

// Ranges for generated birth data. Latitudes stay below the polar circles
// so most charts use the configured house system.
const (
	minYear      = 1900
	yearSpan     = 120
	maxLatitude  = 60.0
	maxLongitude = 180.0
	minOffset    = -12
	offsetSpan   = 27 // -12..+14
)

// cities gives a fraction of the inputs real coordinates and names.
var cities = []struct {
	name     string
	lat, lon float64
	offset   float64
}{
	{"Berlin", 52.52, 13.405, 1},
	{"Tokyo", 35.6762, 139.6503, 9},
	{"New York", 40.7128, -74.006, -5},
	{"São Paulo", -23.5505, -46.6333, -3},
	{"Mumbai", 19.076, 72.8777, 5.5},
	{"Sydney", -33.8688, 151.2093, 10},
	{"Nairobi", -1.2921, 36.8219, 3},
	{"Reykjavík", 64.1466, -21.9426, 0},
}

// generateInputs returns n valid birth inputs. The same seed always yields
// the same inputs.
func generateInputs(ctx context.Context, seed uint64, n int) ([]astro.BirthInput, error) {
	if n <= 0 {
		return nil, fmt.Errorf("chart count must be positive, got %d", n)
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	inputs := make([]astro.BirthInput, n)
	for i := range inputs {
		in := astro.BirthInput{
			Year:   minYear + rng.IntN(yearSpan),
			Month:  1 + rng.IntN(12),
			Hour:   rng.IntN(24),
			Minute: rng.IntN(60),
			Second: rng.IntN(60),
			Name:   fmt.Sprintf("load-%d", i),
		}
		in.Day = 1 + rng.IntN(daysIn(in.Year, in.Month))

		if i%4 == 0 {
			c := cities[rng.IntN(len(cities))]
			in.Latitude, in.Longitude, in.OffsetHours = c.lat, c.lon, c.offset
			in.LocationName = c.name
		} else {
			in.Latitude = round4((rng.Float64()*2 - 1) * maxLatitude)
			in.Longitude = round4((rng.Float64()*2 - 1) * maxLongitude)
			in.OffsetHours = float64(minOffset + rng.IntN(offsetSpan))
		}
		inputs[i] = in
	}

	logger.Get().Info(ctx, "generated birth inputs",
		logger.Int("count", n),
		logger.Any("seed", seed))
	return inputs, nil
}

func daysIn(year, month int) int {
	switch month {
	case 2:
		if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	}
	return 31
}

func round4(v float64) float64 { return math.Round(v*1e4) / 1e4 }
