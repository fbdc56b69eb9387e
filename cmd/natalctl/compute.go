package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/natal/internal/adapters/ephemeris"
	service "github.com/okian/natal/internal/app"
	"github.com/okian/natal/internal/domain/astro"
	"github.com/okian/natal/pkg/logger"
)

type computeOptions struct {
	input       string
	date        string
	clock       string
	tz          float64
	lat         float64
	lon         float64
	name        string
	place       string
	houseSystem string
	ephemeris   string
	summary     bool
	compact     bool
}

func newComputeCmd() *cobra.Command {
	opts := &computeOptions{}
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute a chart, profile and brief locally",
		Long: `Compute a natal chart with its career profile, career domains and
narrative brief without a running server. The snapshot is printed as JSON.

Birth data comes either from flags or from a JSON file in the API format.

Examples:
  natalctl compute --date 1990-06-15 --time 12:30 --tz 2 --lat 52.52 --lon 13.405
  natalctl compute --input birth.json --summary
  echo '{"y":1990,"m":6,"d":15,"hh":12,"mm":30,"tzOffsetHours":2,"lat":52.52,"lon":13.405}' | natalctl compute --input -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", "", "JSON birth input file, - for stdin")
	f.StringVar(&opts.date, "date", "", "local birth date, YYYY-MM-DD")
	f.StringVar(&opts.clock, "time", "12:00", "local birth time, HH:MM or HH:MM:SS")
	f.Float64Var(&opts.tz, "tz", 0, "UTC offset in hours, e.g. 5.5")
	f.Float64Var(&opts.lat, "lat", 0, "latitude in degrees, north positive")
	f.Float64Var(&opts.lon, "lon", 0, "longitude in degrees, east positive")
	f.StringVar(&opts.name, "name", "", "name echoed in the brief")
	f.StringVar(&opts.place, "place", "", "location name echoed in the brief")
	f.StringVar(&opts.houseSystem, "house-system", string(astro.Koch), "house system: K, O, E or W")
	f.StringVar(&opts.ephemeris, "ephemeris", "", "directory of VSOP87 series files")
	f.BoolVar(&opts.summary, "summary", false, "print only the snapshot summary")
	f.BoolVar(&opts.compact, "compact", false, "print JSON without indentation")
	return cmd
}

func (o *computeOptions) run(cmd *cobra.Command) error {
	ctx := cmd.Context()

	in, err := o.birthInput(cmd.InOrStdin())
	if err != nil {
		return err
	}

	system := astro.HouseSystem(strings.ToUpper(o.houseSystem))
	if !system.Valid() {
		return fmt.Errorf("unknown house system %q", o.houseSystem)
	}

	eph := ephemeris.New()
	if o.ephemeris != "" {
		if err := eph.Configure(o.ephemeris); err != nil {
			logger.Get().Warn(ctx, "ephemeris series unavailable; using mean elements where missing",
				logger.String("path", o.ephemeris), logger.Error(err))
		}
	}

	svc := service.New(eph, service.WithHouseSystem(system), service.WithLogger(logger.Named("compute")))
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	snap, err := svc.ComputeChart(ctx, in)
	if err != nil {
		return err
	}

	var out any = snap
	if o.summary {
		out = snap.Summary()
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	if !o.compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}

// birthInput reads the input file when given, otherwise builds the input
// from flags. Validation happens in the calculator.
func (o *computeOptions) birthInput(stdin io.Reader) (astro.BirthInput, error) {
	var in astro.BirthInput
	if o.input != "" {
		var r io.Reader = stdin
		if o.input != "-" {
			f, err := os.Open(o.input)
			if err != nil {
				return in, fmt.Errorf("open input: %w", err)
			}
			defer func() { _ = f.Close() }()
			r = f
		}
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&in); err != nil {
			return in, fmt.Errorf("decode input: %w", err)
		}
		return in, nil
	}

	if o.date == "" {
		return in, fmt.Errorf("either --input or --date is required")
	}
	day, err := time.Parse(time.DateOnly, o.date)
	if err != nil {
		return in, fmt.Errorf("invalid --date %q: %w", o.date, err)
	}
	clock, err := parseClock(o.clock)
	if err != nil {
		return in, err
	}

	in = astro.BirthInput{
		Year:         day.Year(),
		Month:        int(day.Month()),
		Day:          day.Day(),
		Hour:         clock.Hour(),
		Minute:       clock.Minute(),
		Second:       clock.Second(),
		OffsetHours:  o.tz,
		Latitude:     o.lat,
		Longitude:    o.lon,
		Name:         o.name,
		LocationName: o.place,
	}
	return in, nil
}

func parseClock(v string) (time.Time, error) {
	for _, layout := range []string{time.TimeOnly, "15:04"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --time %q: want HH:MM or HH:MM:SS", v)
}
