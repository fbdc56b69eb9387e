package brief_test

import (
	"testing"

	"github.com/okian/natal/internal/domain/aspect"
	"github.com/okian/natal/internal/domain/astro"
	"github.com/okian/natal/internal/domain/brief"
	"github.com/okian/natal/internal/domain/chart"
	"github.com/okian/natal/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func at(b astro.Body, s astro.Sign, h astro.House) astro.Placement {
	return astro.Placement{Body: b, Sign: s, House: h, Degree: 12, Minute: 30}
}

func sampleChart() *chart.Chart {
	return &chart.Chart{
		Input: astro.BirthInput{
			Year: 1990, Month: 1, Day: 15, Hour: 8, Minute: 5,
			OffsetHours: 8, Latitude: 31.23, Longitude: 121.47,
			Name: "Ada", LocationName: "Shanghai",
		},
		UTC: astro.UTCMoment{Year: 1990, Month: 1, Day: 15, Hour: 0, Minute: 5},
		Placements: []astro.Placement{
			at(astro.Sun, astro.Capricorn, 10),
			at(astro.Moon, astro.Cancer, 4),
			at(astro.Mercury, astro.Capricorn, 10),
			at(astro.Venus, astro.Aquarius, 11),
			at(astro.Mars, astro.Sagittarius, 9),
			at(astro.Jupiter, astro.Cancer, 4),
			at(astro.Saturn, astro.Capricorn, 10),
			at(astro.Uranus, astro.Capricorn, 10),
			at(astro.Neptune, astro.Capricorn, 10),
			at(astro.Pluto, astro.Scorpio, 8),
			at(astro.NorthNode, astro.Aquarius, 11),
			at(astro.SouthNode, astro.Leo, 5),
			at(astro.ASC, astro.Aries, 1),
			at(astro.MC, astro.Capricorn, 10),
		},
		Aspects: []aspect.Aspect{
			{A: astro.Sun, B: astro.Mercury, Type: aspect.Conjunction, Orb: 0.5},
			{A: astro.Sun, B: astro.Moon, Type: aspect.Opposition, Orb: 1.2},
			{A: astro.Sun, B: astro.Saturn, Type: aspect.Conjunction, Orb: 2},
			{A: astro.Moon, B: astro.Venus, Type: aspect.Trine, Orb: 3},
			{A: astro.Moon, B: astro.Mars, Type: aspect.Square, Orb: 4},
			{A: astro.Mercury, B: astro.Mars, Type: aspect.Square, Orb: 5},
			{A: astro.Jupiter, B: astro.Saturn, Type: aspect.Opposition, Orb: 0.4},
			{A: astro.Saturn, B: astro.Uranus, Type: aspect.Conjunction, Orb: 1},
			{A: astro.Saturn, B: astro.Pluto, Type: aspect.Sextile, Orb: 2.5},
			{A: astro.Mars, B: astro.Neptune, Type: aspect.Sextile, Orb: 1},
			{A: astro.Venus, B: astro.Pluto, Type: aspect.Square, Orb: 2},
		},
	}
}

func TestBuild(t *testing.T) {
	Convey("Given a chart without a profile", t, func() {
		b := brief.Build(sampleChart(), nil)

		Convey("Then the input echoes display forms", func() {
			So(b.Input.Name, ShouldEqual, "Ada")
			So(b.Input.City, ShouldEqual, "Shanghai")
			So(b.Input.BirthDateTime, ShouldEqual, "1990-01-15T08:05:00")
			So(b.Input.UTCOffset, ShouldEqual, "+08:00")
			So(b.Input.BirthDateTimeUTC, ShouldEqual, "1990-01-15T00:05:00Z")
		})

		Convey("Then the core placements are picked", func() {
			So(b.Core.Sun.Sign, ShouldEqual, astro.Capricorn)
			So(b.Core.Moon.House, ShouldEqual, astro.House(4))
			So(b.Core.ASC.Sign, ShouldEqual, astro.Aries)
			So(b.Core.MC.House, ShouldEqual, astro.House(10))
			So(b.Core.Saturn.Body, ShouldEqual, astro.Saturn)
			So(b.Nodes.North.Sign, ShouldEqual, astro.Aquarius)
			So(b.Nodes.South.Sign, ShouldEqual, astro.Leo)
		})

		Convey("Then house focus weights personal planets double", func() {
			So(b.HouseFocusTop3, ShouldHaveLength, 3)
			So(b.HouseFocusTop3[0].House, ShouldEqual, astro.House(10))
			So(b.HouseFocusTop3[0].Score, ShouldEqual, 7)
			So(b.HouseFocusTop3[1].House, ShouldEqual, astro.House(4))
			So(b.HouseFocusTop3[1].Score, ShouldEqual, 3)
			So(b.HouseFocusTop3[2].House, ShouldEqual, astro.House(9))
			So(b.HouseFocusTop3[2].Bodies, ShouldResemble, []astro.Body{astro.Mars})
		})

		Convey("Then inner hard aspects keep chart order and skip soft ones", func() {
			So(b.InnerHardAspectsTop3, ShouldResemble, []brief.AspectRef{
				{A: astro.Sun, B: astro.Mercury, Type: aspect.Conjunction, Orb: 0.5},
				{A: astro.Sun, B: astro.Moon, Type: aspect.Opposition, Orb: 1.2},
				{A: astro.Moon, B: astro.Mars, Type: aspect.Square, Orb: 4},
			})
		})

		Convey("Then Saturn aspects lead with Saturn", func() {
			So(b.SaturnAspectsTop, ShouldHaveLength, 3)
			So(b.SaturnAspectsTop[0].A, ShouldEqual, astro.Saturn)
			So(b.SaturnAspectsTop[0].B, ShouldEqual, astro.Sun)
			So(b.SaturnAspectsTop[1].B, ShouldEqual, astro.Jupiter)
			So(b.SaturnAspectsTop[2].B, ShouldEqual, astro.Uranus)
		})

		Convey("Then outer hard aspects involve a transpersonal planet", func() {
			So(b.OuterHardAspectsTop3, ShouldHaveLength, 2)
			So(b.OuterHardAspectsTop3[0].B, ShouldEqual, astro.Uranus)
			So(b.OuterHardAspectsTop3[1].B, ShouldEqual, astro.Pluto)
		})

		Convey("Then every planet and angle gets a summary", func() {
			So(b.Summaries, ShouldHaveLength, 12)
			So(b.Summaries[0].Title, ShouldEqual, "☉ Sun | Capricorn · House 10")
			So(b.Summaries[0].Text, ShouldStartWith, "The core theme of your life, showing goal oriented")
			So(b.Summaries[0].Text, ShouldContainSubstring, "career direction and social role")
			So(b.Summaries[11].Body, ShouldEqual, astro.MC)
		})

		Convey("Then profile fields stay empty", func() {
			So(b.Roles, ShouldBeEmpty)
			So(b.CareerArchetype, ShouldBeEmpty)
			So(b.Pitfalls, ShouldBeEmpty)
		})
	})

	Convey("Given a chart with its profile", t, func() {
		ch := sampleChart()
		profile := scoring.ComputeProfile(ch.Placements)
		b := brief.Build(ch, &profile)

		Convey("Then roles and archetypes are carried over", func() {
			So(b.Roles, ShouldHaveLength, len(profile.TopRoles))
			So(b.Roles[0].Role, ShouldEqual, profile.TopRoles[0].Role)
			So(b.Roles[0].Name, ShouldEqual, profile.TopRoles[0].Role.Name())
			So(b.CareerArchetype, ShouldEqual, profile.CareerArchetype)
			So(b.InvestmentArchetype, ShouldEqual, profile.InvestmentArchetype)
			So(b.Pitfalls, ShouldHaveLength, len(profile.Pitfalls))
		})
	})
}

func TestHouseFocusTop(t *testing.T) {
	Convey("Given equal scores in several houses", t, func() {
		hf := brief.HouseFocusTop([]astro.Placement{
			at(astro.Saturn, astro.Leo, 7),
			at(astro.Jupiter, astro.Leo, 2),
			at(astro.ASC, astro.Leo, 1),
			at(astro.NorthNode, astro.Leo, 1),
		}, 3)

		Convey("Then ties go to the lower house and angles are ignored", func() {
			So(hf, ShouldHaveLength, 2)
			So(hf[0].House, ShouldEqual, astro.House(2))
			So(hf[1].House, ShouldEqual, astro.House(7))
		})
	})
}
