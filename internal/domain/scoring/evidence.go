package scoring

import (
	"fmt"

	"github.com/okian/natal/internal/domain/astro"
)

// Source is the placement an evidence record was derived from.
type Source struct {
	Body   astro.Body  `json:"body"`
	Sign   astro.Sign  `json:"sign"`
	House  astro.House `json:"house"`
	Degree int         `json:"degree"`
}

// Evidence is one weighted signal produced by a rule firing on a placement.
type Evidence struct {
	Key    string  `json:"key"`
	Weight float64 `json:"weight"`
	Tags   []Tag   `json:"tags"`
	Text   string  `json:"text"`
	Source Source  `json:"source"`
}

// rule fires once for every placement it matches. When perBody is set the
// body name is appended to key.
type rule struct {
	key     string
	perBody bool
	weight  float64
	tags    []Tag
	match   func(astro.Placement) bool
	text    func(astro.Placement) string
}

// pass is a group of rules evaluated together over all placements, so that
// evidence within a pass follows placement order.
type pass []rule

func body(b astro.Body) func(astro.Placement) bool {
	return func(p astro.Placement) bool { return p.Body == b }
}

func house(h astro.House) func(astro.Placement) bool {
	return func(p astro.Placement) bool { return p.House == h }
}

func element(e astro.Element) func(astro.Placement) bool {
	return func(p astro.Placement) bool { return p.Element() == e }
}

func fixed(s string) func(astro.Placement) string {
	return func(astro.Placement) string { return s }
}

func withBody(format string) func(astro.Placement) string {
	return func(p astro.Placement) string { return fmt.Sprintf(format, p.Body) }
}

func ordinal(h astro.House) string {
	switch h {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	}
	return fmt.Sprintf("%dth", h)
}

func inHouse(format string) func(astro.Placement) string {
	return func(p astro.Placement) string { return fmt.Sprintf(format, p.Body, ordinal(p.House)) }
}

// evidencePasses is the career rule set, evaluated in order.
var evidencePasses = []pass{
	{{key: "MC_PUBLIC", weight: 3.0, tags: []Tag{PublicInfluence, Leadership, Strategy}, match: body(astro.MC),
		text: fixed("MC strengthens the career axis: visibility and evaluation in matters of career and reputation.")}},

	{{key: "H2", perBody: true, weight: 2.0, tags: []Tag{MoneyAssets}, match: house(2),
		text: withBody("%s in the 2nd house: resources, value, pricing and accumulation themes strengthen.")}},
	{{key: "H6", perBody: true, weight: 1.8, tags: []Tag{ServiceOps, ManagementSystems}, match: house(6),
		text: withBody("%s in the 6th house: process, habits, operations and steady output strengthen.")}},
	{{key: "H8", perBody: true, weight: 2.2, tags: []Tag{RiskFinance, MoneyAssets, ResearchDeepWork}, match: house(8),
		text: withBody("%s in the 8th house: shared resources, high-risk finance and deep-water negotiation strengthen.")}},
	{{key: "H11", perBody: true, weight: 2.0, tags: []Tag{CommunityNetwork, PublicInfluence}, match: house(11),
		text: withBody("%s in the 11th house: community, network, platform and resource leverage strengthen.")}},
	{
		{key: "H3", perBody: true, weight: 1.6, tags: []Tag{Communication}, match: house(3),
			text: inHouse("%s in the %s house: learning, expression and framing become career tools.")},
		{key: "H9", perBody: true, weight: 1.6, tags: []Tag{Strategy, Communication}, match: house(9),
			text: inHouse("%s in the %s house: learning, expression and framing become career tools.")},
	},

	{{key: "SUN_CORE", weight: 1.8, tags: []Tag{Leadership}, match: body(astro.Sun),
		text: fixed("Sun: the main axis of achievement, leaning toward owning the main line.")}},
	{{key: "MERCURY_COMM", weight: 1.7, tags: []Tag{Communication, ResearchDeepWork}, match: body(astro.Mercury),
		text: fixed("Mercury: thinking, communication and learning.")}},
	{{key: "MARS_ACTION", weight: 1.8, tags: []Tag{Leadership, Innovation}, match: body(astro.Mars),
		text: fixed("Mars: action and conflict, drive, competition and boundaries.")}},
	{{key: "SATURN_SYSTEM", weight: 1.9, tags: []Tag{ManagementSystems, ServiceOps, Strategy}, match: body(astro.Saturn),
		text: fixed("Saturn: long-term structure and compounding discipline.")}},
	{{key: "URANUS_INNOV", weight: 1.6, tags: []Tag{Innovation, CommunityNetwork}, match: body(astro.Uranus),
		text: fixed("Uranus: innovation and unconventional paths that rewrite the rules.")}},
	{{key: "PLUTO_DEPTH", weight: 1.6, tags: []Tag{ResearchDeepWork, RiskFinance}, match: body(astro.Pluto),
		text: fixed("Pluto: deep transformation, extreme experience and restarts.")}},

	{
		{key: "EL_FIRE", perBody: true, weight: 0.6, tags: []Tag{Innovation, Leadership}, match: element(astro.Fire),
			text: withBody("%s in fire: proactive breakthroughs, fast pace and offensive decisions.")},
		{key: "EL_EARTH", perBody: true, weight: 0.6, tags: []Tag{ManagementSystems, ServiceOps, MoneyAssets}, match: element(astro.Earth),
			text: withBody("%s in earth: structure, compounding, delivery and long-term accumulation.")},
		{key: "EL_AIR", perBody: true, weight: 0.6, tags: []Tag{Communication, CommunityNetwork}, match: element(astro.Air),
			text: withBody("%s in air: information, expression, connection and network effects.")},
		{key: "EL_WATER", perBody: true, weight: 0.6, tags: []Tag{ResearchDeepWork, RiskFinance}, match: element(astro.Water),
			text: withBody("%s in water: depth, insight, hidden motives and empathy.")},
	},
}

// BuildEvidence applies the career rule set to placements. A body listed more
// than once contributes only its last placement, so every key is unique.
func BuildEvidence(placements []astro.Placement) []Evidence {
	return evaluate(evidencePasses, uniqueByBody(placements))
}

func evaluate(passes []pass, placements []astro.Placement) []Evidence {
	out := make([]Evidence, 0)
	for _, ps := range passes {
		for _, p := range placements {
			for _, r := range ps {
				if !r.match(p) {
					continue
				}
				key := r.key
				if r.perBody {
					key += "_" + string(p.Body)
				}
				out = append(out, Evidence{
					Key:    key,
					Weight: r.weight,
					Tags:   append([]Tag(nil), r.tags...),
					Text:   r.text(p),
					Source: Source{Body: p.Body, Sign: p.Sign, House: p.House, Degree: p.Degree},
				})
			}
		}
	}
	return out
}

// uniqueByBody keeps first-seen order and last-seen values.
func uniqueByBody(placements []astro.Placement) []astro.Placement {
	index := make(map[astro.Body]int, len(placements))
	out := make([]astro.Placement, 0, len(placements))
	for _, p := range placements {
		if i, ok := index[p.Body]; ok {
			out[i] = p
			continue
		}
		index[p.Body] = len(out)
		out = append(out, p)
	}
	return out
}
