// Package brief condenses a chart and its profile into the structured input
// a narrative generator consumes. It does not write prose beyond fixed
// per-placement summaries.
package brief

import (
	"fmt"
	"sort"

	"github.com/okian/natal/internal/domain/aspect"
	"github.com/okian/natal/internal/domain/astro"
	"github.com/okian/natal/internal/domain/chart"
	"github.com/okian/natal/internal/domain/scoring"
)

const (
	houseFocusTop = 3
	aspectTop     = 3
)

// Input echoes the birth data in display form.
type Input struct {
	Name             string  `json:"name"`
	City             string  `json:"city"`
	BirthDateTime    string  `json:"birthDateTime"`
	UTCOffset        string  `json:"utcOffset"`
	BirthDateTimeUTC string  `json:"birthDateTimeUTC"`
	Latitude         float64 `json:"lat"`
	Longitude        float64 `json:"lon"`
}

// Core holds the placements a reading leads with.
type Core struct {
	Sun    astro.Placement `json:"sun"`
	Moon   astro.Placement `json:"moon"`
	ASC    astro.Placement `json:"asc"`
	MC     astro.Placement `json:"mc"`
	Saturn astro.Placement `json:"saturn"`
}

// HouseFocus is a house weighted by the bodies it holds.
type HouseFocus struct {
	House  astro.House  `json:"house"`
	Score  int          `json:"score"`
	Bodies []astro.Body `json:"bodies"`
}

// AspectRef is an aspect without its geometry.
type AspectRef struct {
	A    astro.Body  `json:"a"`
	B    astro.Body  `json:"b"`
	Type aspect.Type `json:"type"`
	Orb  float64     `json:"orb"`
}

// Nodes holds the lunar node pair.
type Nodes struct {
	North astro.Placement `json:"north"`
	South astro.Placement `json:"south"`
}

// Summary is a fixed one-paragraph reading of a placement.
type Summary struct {
	Body  astro.Body `json:"body"`
	Title string     `json:"title"`
	Text  string     `json:"text"`
}

// RoleCard names a top role.
type RoleCard struct {
	Role  scoring.Role `json:"role"`
	Name  string       `json:"name"`
	Score float64      `json:"score"`
}

// Brief is the structured narrative input.
type Brief struct {
	Input                Input                       `json:"input"`
	Core                 Core                        `json:"core"`
	HouseFocusTop3       []HouseFocus                `json:"houseFocusTop3"`
	InnerHardAspectsTop3 []AspectRef                 `json:"innerHardAspectsTop3"`
	SaturnAspectsTop     []AspectRef                 `json:"saturnAspectsTop"`
	OuterHardAspectsTop3 []AspectRef                 `json:"outerHardAspectsTop3"`
	Nodes                Nodes                       `json:"nodes"`
	Summaries            []Summary                   `json:"summaries"`
	Roles                []RoleCard                  `json:"roles,omitempty"`
	CareerArchetype      scoring.CareerArchetype     `json:"careerArchetype,omitempty"`
	InvestmentArchetype  scoring.InvestmentArchetype `json:"investmentArchetype,omitempty"`
	Pitfalls             []string                    `json:"pitfalls,omitempty"`
}

// Build assembles the brief for ch. profile may be nil.
func Build(ch *chart.Chart, profile *scoring.Profile) Brief {
	get := func(b astro.Body) astro.Placement {
		p, _ := ch.Placement(b)
		return p
	}

	b := Brief{
		Input: Input{
			Name:             ch.Input.Name,
			City:             ch.Input.LocationName,
			BirthDateTime:    ch.Input.LocalDateTime(),
			UTCOffset:        ch.Input.UTCOffset(),
			BirthDateTimeUTC: ch.UTC.String(),
			Latitude:         ch.Input.Latitude,
			Longitude:        ch.Input.Longitude,
		},
		Core: Core{
			Sun:    get(astro.Sun),
			Moon:   get(astro.Moon),
			ASC:    get(astro.ASC),
			MC:     get(astro.MC),
			Saturn: get(astro.Saturn),
		},
		HouseFocusTop3: HouseFocusTop(ch.Placements, houseFocusTop),
		InnerHardAspectsTop3: refs(ch.Aspects, func(a aspect.Aspect) bool {
			return a.Type.Hard() && a.A.IsPersonal() && a.B.IsPersonal()
		}, "", aspectTop),
		SaturnAspectsTop: refs(ch.Aspects, func(a aspect.Aspect) bool {
			return a.Involves(astro.Saturn)
		}, astro.Saturn, aspectTop),
		OuterHardAspectsTop3: refs(ch.Aspects, func(a aspect.Aspect) bool {
			return a.Type.Hard() && (a.A.IsOuter() || a.B.IsOuter())
		}, "", aspectTop),
		Nodes:     Nodes{North: get(astro.NorthNode), South: get(astro.SouthNode)},
		Summaries: Summaries(ch.Placements),
	}

	if profile != nil {
		for _, r := range profile.TopRoles {
			b.Roles = append(b.Roles, RoleCard{Role: r.Role, Name: r.Role.Name(), Score: r.Score})
		}
		b.CareerArchetype = profile.CareerArchetype
		b.InvestmentArchetype = profile.InvestmentArchetype
		for _, p := range profile.Pitfalls {
			b.Pitfalls = append(b.Pitfalls, p.Key)
		}
	}
	return b
}

// HouseFocusTop ranks houses by the planets they hold. Sun through Mars count
// two, the other planets one; nodes and angles are ignored. Ties go to the
// lower house.
func HouseFocusTop(placements []astro.Placement, n int) []HouseFocus {
	byHouse := map[astro.House]*HouseFocus{}
	for _, p := range placements {
		if !isPlanet(p.Body) || !p.House.Valid() {
			continue
		}
		hf, ok := byHouse[p.House]
		if !ok {
			hf = &HouseFocus{House: p.House}
			byHouse[p.House] = hf
		}
		hf.Bodies = append(hf.Bodies, p.Body)
		if p.Body.IsPersonal() {
			hf.Score += 2
		} else {
			hf.Score++
		}
	}

	out := make([]HouseFocus, 0, len(byHouse))
	for _, hf := range byHouse {
		out = append(out, *hf)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].House < out[j].House
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// refs keeps the first n matching aspects. When pivot is set it is moved to A.
func refs(in []aspect.Aspect, keep func(aspect.Aspect) bool, pivot astro.Body, n int) []AspectRef {
	out := make([]AspectRef, 0, n)
	for _, a := range in {
		if len(out) == n {
			break
		}
		if !keep(a) {
			continue
		}
		r := AspectRef{A: a.A, B: a.B, Type: a.Type, Orb: a.Orb}
		if pivot != "" && a.B == pivot {
			r.A, r.B = pivot, a.A
		}
		out = append(out, r)
	}
	return out
}

// Summaries reads every planet and angle placement from the meaning tables.
func Summaries(placements []astro.Placement) []Summary {
	out := make([]Summary, 0, len(placements))
	for _, p := range placements {
		core, ok := bodyCore[p.Body]
		if !ok {
			continue
		}
		sign, ok := signMeaning[p.Sign]
		if !ok {
			sign = string(p.Sign)
		}
		house, ok := houseMeaning[p.House]
		if !ok {
			house = fmt.Sprintf("house %d", p.House)
		}
		out = append(out, Summary{
			Body:  p.Body,
			Title: fmt.Sprintf("%s %s | %s · House %d", p.Body.Symbol(), p.Body, p.Sign, p.House),
			Text: fmt.Sprintf("%s, showing %s qualities, strongly expressed through %s. "+
				"This keeps shaping your choices and reactions in those areas.", core, sign, house),
		})
	}
	return out
}

func isPlanet(b astro.Body) bool {
	for _, p := range astro.Planets {
		if p == b {
			return true
		}
	}
	return false
}
