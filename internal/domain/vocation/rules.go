package vocation

import (
	"fmt"

	"github.com/okian/natal/internal/domain/astro"
)

type houseRule struct {
	house astro.House
	add   weights
	text  string
}

// houseRules fire for every body in the house.
var houseRules = []houseRule{
	{3, weights{{Communication, 1.2}}, "%s in house 3: communication, learning and writing strengthen"},
	{5, weights{{Aesthetics, 1.2}, {Storytelling, 0.8}}, "%s in house 5: creation, expression and stage presence strengthen"},
	{6, weights{{Systems, 1.0}, {Operations, 1.0}}, "%s in house 6: process, execution and daily systems strengthen"},
	{8, weights{{RiskFinance, 1.2}, {ResearchDeepWork, 0.6}}, "%s in house 8: deep water, financial games and risk awareness strengthen"},
	{9, weights{{ResearchDeepWork, 1.0}, {TeachingMentoring, 0.6}, {Strategy, 0.8}}, "%s in house 9: higher learning, worldview and research strengthen"},
	{10, weights{{PublicInfluence, 1.2}, {Leadership, 0.8}}, "%s in house 10: career, public image and authority strengthen"},
	{11, weights{{CommunityNetwork, 1.2}, {PublicInfluence, 0.6}}, "%s in house 11: community, platforms and network effects strengthen"},
	{12, weights{{EmpathyCare, 0.8}, {ResearchDeepWork, 0.6}}, "%s in house 12: empathy, healing and subconscious depth strengthen"},
	{2, weights{{MoneyAssets, 1.2}}, "%s in house 2: resources, value and pricing strengthen"},
}

type elementBonus struct {
	element astro.Element
	add     weights
	text    string
}

type bodyRule struct {
	body    astro.Body
	add     weights
	text    string
	bonuses []elementBonus
}

// bodyRules fire once per body present, in this order.
var bodyRules = []bodyRule{
	{astro.Mercury, weights{{Communication, 1.2}, {MathLogic, 0.6}}, "Mercury: thinking and expression", []elementBonus{
		{astro.Air, weights{{Communication, 0.8}}, "Mercury in air: stronger information handling and expression"},
		{astro.Earth, weights{{Systems, 0.6}}, "Mercury in earth: more structured, process-minded expression"},
	}},
	{astro.Venus, weights{{Aesthetics, 1.0}, {EmpathyCare, 0.4}}, "Venus: aesthetics, relationships and sense of value", nil},
	{astro.Mars, weights{{Leadership, 0.8}, {Engineering, 0.6}}, "Mars: drive and momentum", []elementBonus{
		{astro.Fire, weights{{Leadership, 0.6}, {Innovation, 0.6}}, "Mars in fire: more offensive, more breakthrough"},
	}},
	{astro.Saturn, weights{{Systems, 1.2}, {LawCompliance, 0.6}}, "Saturn: rules, discipline and long-term structure", []elementBonus{
		{astro.Earth, weights{{Systems, 0.8}}, "Saturn in earth: long-term and results oriented"},
	}},
	{astro.Uranus, weights{{Innovation, 1.2}, {Engineering, 0.4}}, "Uranus: innovation and unconventional paths", nil},
	{astro.Neptune, weights{{Storytelling, 1.0}, {Aesthetics, 0.6}, {EmpathyCare, 0.6}}, "Neptune: inspiration, art and empathy", nil},
	{astro.Pluto, weights{{ResearchDeepWork, 1.2}, {RiskFinance, 0.6}}, "Pluto: deep insight and handling of extreme matters", nil},
	{astro.Jupiter, weights{{Strategy, 0.8}, {PublicInfluence, 0.6}, {TeachingMentoring, 0.4}}, "Jupiter: expansion, vision and opportunity", nil},
	{astro.MC, weights{{PublicInfluence, 1.0}, {Leadership, 0.6}}, "MC: career axis and social role", nil},
	{astro.ASC, nil, "", []elementBonus{
		{astro.Earth, weights{{Systems, 0.6}}, "Earth rising: steady, structured progress"},
		{astro.Air, weights{{Communication, 0.6}}, "Air rising: communication and connection"},
		{astro.Fire, weights{{Leadership, 0.6}}, "Fire rising: proactive, charging ahead"},
		{astro.Water, weights{{EmpathyCare, 0.6}}, "Water rising: empathy and feeling"},
	}},
}

func (v Vector) apply(ws weights) {
	for _, x := range ws {
		v[x.tag] += x.w
	}
}

// BuildVector scores placements into a tag vector and lists the reasons in
// the order they fired. A body listed more than once contributes only its
// last placement.
func BuildVector(placements []astro.Placement) (Vector, []string) {
	v := newVector()
	reasons := make([]string, 0)

	unique := uniqueByBody(placements)
	for _, p := range unique {
		for _, r := range houseRules {
			if p.House == r.house {
				v.apply(r.add)
				reasons = append(reasons, fmt.Sprintf(r.text, p.Body))
			}
		}
	}

	byBody := make(map[astro.Body]astro.Placement, len(unique))
	for _, p := range unique {
		byBody[p.Body] = p
	}
	for _, r := range bodyRules {
		p, ok := byBody[r.body]
		if !ok {
			continue
		}
		if len(r.add) > 0 {
			v.apply(r.add)
			reasons = append(reasons, r.text)
		}
		for _, b := range r.bonuses {
			if p.Element() == b.element {
				v.apply(b.add)
				reasons = append(reasons, b.text)
			}
		}
	}
	return v, reasons
}

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
