package astro_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/natal/internal/domain/astro"
	. "github.com/smartystreets/goconvey/convey"
)

func evenCusps() [12]float64 {
	var c [12]float64
	for i := range c {
		c[i] = float64(i * 30)
	}
	return c
}

func TestNorm360(t *testing.T) {
	Convey("Given arbitrary angles", t, func() {
		inputs := []float64{-720.5, -360, -0.0001, 0, 29.999, 359.9999, 360, 721, 1e6, -1e6}

		Convey("Then results are always in [0, 360)", func() {
			for _, x := range inputs {
				r := astro.Norm360(x)
				So(r, ShouldBeGreaterThanOrEqualTo, 0)
				So(r, ShouldBeLessThan, 360)
			}
		})

		Convey("And normalization is idempotent", func() {
			for _, x := range inputs {
				So(astro.Norm360(astro.Norm360(x)), ShouldEqual, astro.Norm360(x))
			}
		})

		Convey("And known values fold correctly", func() {
			So(astro.Norm360(-30), ShouldEqual, 330)
			So(astro.Norm360(390), ShouldEqual, 30)
			So(astro.Norm360(360), ShouldEqual, 0)
			So(astro.Opposite(190), ShouldEqual, 10)
		})
	})
}

func TestSignOf(t *testing.T) {
	Convey("Given longitudes around the zodiac", t, func() {
		Convey("When the longitude is 0", func() {
			sign, deg, mins := astro.SignOf(0)
			So(sign, ShouldEqual, astro.Aries)
			So(deg, ShouldEqual, 0)
			So(mins, ShouldEqual, 0)
		})

		Convey("When the longitude is 45.5", func() {
			sign, deg, mins := astro.SignOf(45.5)
			So(sign, ShouldEqual, astro.Taurus)
			So(deg, ShouldEqual, 15)
			So(mins, ShouldEqual, 30)
		})

		Convey("When the longitude is negative", func() {
			sign, deg, _ := astro.SignOf(-1)
			So(sign, ShouldEqual, astro.Pisces)
			So(deg, ShouldEqual, 29)
		})

		Convey("When the longitude is just below 360", func() {
			sign, deg, mins := astro.SignOf(359.99999)
			So(sign, ShouldEqual, astro.Pisces)
			So(deg, ShouldEqual, 29)
			So(mins, ShouldEqual, 59)
		})
	})

	Convey("Given the sign elements", t, func() {
		So(astro.Aries.Element(), ShouldEqual, astro.Fire)
		So(astro.Taurus.Element(), ShouldEqual, astro.Earth)
		So(astro.Gemini.Element(), ShouldEqual, astro.Air)
		So(astro.Cancer.Element(), ShouldEqual, astro.Water)
		So(astro.Sagittarius.Element(), ShouldEqual, astro.Fire)
		So(astro.Pisces.Element(), ShouldEqual, astro.Water)
	})

	Convey("Given sign names to parse", t, func() {
		s, ok := astro.ParseSign(" scorpio ")
		So(ok, ShouldBeTrue)
		So(s, ShouldEqual, astro.Scorpio)
		_, ok = astro.ParseSign("Ophiuchus")
		So(ok, ShouldBeFalse)
	})
}

func TestHouseOf(t *testing.T) {
	Convey("Given evenly spaced cusps", t, func() {
		cusps := evenCusps()

		Convey("Then 29.999 falls in house 1", func() {
			So(astro.HouseOf(29.999, cusps), ShouldEqual, astro.House(1))
		})

		Convey("Then an exact cusp belongs to the next house", func() {
			So(astro.HouseOf(30.0, cusps), ShouldEqual, astro.House(2))
			So(astro.HouseOf(330.0, cusps), ShouldEqual, astro.House(12))
		})

		Convey("Then every longitude maps to exactly one house", func() {
			for lon := -10.0; lon < 370; lon += 0.25 {
				h, ok := astro.HouseOfChecked(lon, cusps)
				So(ok, ShouldBeTrue)
				So(h.Valid(), ShouldBeTrue)
			}
		})
	})

	Convey("Given cusps that wrap through 0°", t, func() {
		var cusps [12]float64
		for i := range cusps {
			cusps[i] = astro.Norm360(300 + float64(i)*30)
		}

		Convey("Then the wrap sector is resolved", func() {
			So(astro.HouseOf(300, cusps), ShouldEqual, astro.House(1))
			So(astro.HouseOf(359.5, cusps), ShouldEqual, astro.House(2))
			So(astro.HouseOf(0, cusps), ShouldEqual, astro.House(3))
			So(astro.HouseOf(299.9, cusps), ShouldEqual, astro.House(12))
		})
	})

	Convey("Given a corrupt cusp set", t, func() {
		cusps := evenCusps()
		cusps[5] = math.NaN()

		Convey("Then an unmatched longitude falls back to house 12 and is flagged", func() {
			h, ok := astro.HouseOfChecked(130, cusps)
			So(h, ShouldEqual, astro.House(12))
			So(ok, ShouldBeFalse)
		})
	})
}

func TestClampHouse(t *testing.T) {
	Convey("Given raw house numbers", t, func() {
		So(astro.ClampHouse(0), ShouldEqual, astro.House(1))
		So(astro.ClampHouse(13), ShouldEqual, astro.House(12))
		So(astro.ClampHouse(6.4), ShouldEqual, astro.House(6))
		So(astro.ClampHouse(6.5), ShouldEqual, astro.House(7))
		So(astro.ClampHouse(math.NaN()), ShouldEqual, astro.House(1))
	})
}

func TestToUTC(t *testing.T) {
	Convey("Given a birth input at offset zero", t, func() {
		in := astro.BirthInput{Year: 2000, Month: 1, Day: 1, Hour: 12}

		Convey("Then the UTC moment equals the input", func() {
			m, err := astro.ToUTC(in)
			So(err, ShouldBeNil)
			So(m, ShouldResemble, astro.UTCMoment{Year: 2000, Month: 1, Day: 1, Hour: 12})
		})
	})

	Convey("Given a positive offset crossing midnight and the new year", t, func() {
		in := astro.BirthInput{Year: 2000, Month: 1, Day: 1, Hour: 3, Minute: 30, OffsetHours: 8}

		Convey("Then the calendar rolls back into the previous year", func() {
			m, err := astro.ToUTC(in)
			So(err, ShouldBeNil)
			So(m, ShouldResemble, astro.UTCMoment{Year: 1999, Month: 12, Day: 31, Hour: 19, Minute: 30})
		})
	})

	Convey("Given a fractional negative offset crossing a leap day", t, func() {
		in := astro.BirthInput{Year: 2024, Month: 2, Day: 28, Hour: 20, Minute: 0, OffsetHours: -9.5}

		Convey("Then the result lands on 29 February", func() {
			m, err := astro.ToUTC(in)
			So(err, ShouldBeNil)
			So(m, ShouldResemble, astro.UTCMoment{Year: 2024, Month: 2, Day: 29, Hour: 5, Minute: 30})
		})
	})

	Convey("Given invalid inputs", t, func() {
		cases := map[string]astro.BirthInput{
			"m":             {Year: 2000, Month: 13, Day: 1},
			"d":             {Year: 2023, Month: 2, Day: 29},
			"hh":            {Year: 2000, Month: 1, Day: 1, Hour: 24},
			"mm":            {Year: 2000, Month: 1, Day: 1, Minute: 60},
			"tzOffsetHours": {Year: 2000, Month: 1, Day: 1, OffsetHours: 15},
			"lat":           {Year: 2000, Month: 1, Day: 1, Latitude: math.NaN()},
			"lon":           {Year: 2000, Month: 1, Day: 1, Longitude: 181},
		}

		Convey("Then a shift out of the year range is rejected as input", func() {
			edges := []astro.BirthInput{
				{Year: 1, Month: 1, Day: 1, Hour: 2, OffsetHours: 5},
				{Year: 9999, Month: 12, Day: 31, Hour: 22, OffsetHours: -5},
			}
			for _, in := range edges {
				_, err := astro.ToUTC(in)
				var iie *astro.InvalidInputError
				So(errors.As(err, &iie), ShouldBeTrue)
				So(iie.Field, ShouldEqual, "y")
			}

			m, err := astro.ToUTC(astro.BirthInput{Year: 1, Month: 1, Day: 1, Hour: 6, OffsetHours: 5})
			So(err, ShouldBeNil)
			So(m.Year, ShouldEqual, 1)
		})

		Convey("Then each is rejected with an InvalidInputError naming the field", func() {
			for field, in := range cases {
				_, err := astro.ToUTC(in)
				So(err, ShouldNotBeNil)
				So(errors.Is(err, astro.ErrInvalidInput), ShouldBeTrue)
				var iie *astro.InvalidInputError
				So(errors.As(err, &iie), ShouldBeTrue)
				So(iie.Field, ShouldEqual, field)
			}
		})
	})
}

func TestBirthInputFormatting(t *testing.T) {
	Convey("Given birth inputs with various offsets", t, func() {
		So(astro.BirthInput{OffsetHours: 8}.UTCOffset(), ShouldEqual, "+08:00")
		So(astro.BirthInput{OffsetHours: -3.5}.UTCOffset(), ShouldEqual, "-03:30")
		So(astro.BirthInput{OffsetHours: 5.75}.UTCOffset(), ShouldEqual, "+05:45")
		So(astro.BirthInput{Year: 1990, Month: 7, Day: 4, Hour: 9, Minute: 5}.LocalDateTime(), ShouldEqual, "1990-07-04T09:05:00")
	})
}

func TestParseBody(t *testing.T) {
	Convey("Given body aliases", t, func() {
		b, ok := astro.ParseBody("Rising")
		So(ok, ShouldBeTrue)
		So(b, ShouldEqual, astro.ASC)

		b, ok = astro.ParseBody("north node")
		So(ok, ShouldBeTrue)
		So(b, ShouldEqual, astro.NorthNode)

		_, ok = astro.ParseBody("Chiron")
		So(ok, ShouldBeFalse)

		So(astro.Saturn.Valid(), ShouldBeTrue)
		So(astro.Body("saturn").Valid(), ShouldBeFalse)
		So(astro.Body("Chiron").Valid(), ShouldBeFalse)
	})
}

func TestPlace(t *testing.T) {
	Convey("Given a longitude and evenly spaced cusps", t, func() {
		p := astro.Place(astro.Mars, 95.25, evenCusps())
		So(p.Sign, ShouldEqual, astro.Cancer)
		So(p.House, ShouldEqual, astro.House(4))
		So(p.Degree, ShouldEqual, 5)
		So(p.Minute, ShouldEqual, 15)
		So(p.Element(), ShouldEqual, astro.Water)
	})
}
