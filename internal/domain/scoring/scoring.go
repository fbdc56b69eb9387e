// Package scoring derives an explainable career profile from chart
// placements: weighted evidence, tag scores, role scores, archetypes and
// pitfalls. Every function is pure.
package scoring

import (
	"sort"

	"github.com/okian/natal/internal/domain/astro"
)

// Default sizes of the top lists in a Profile.
const (
	defaultTopRoles = 5
	defaultTopTags  = 6
)

// CareerArchetype is the dominant career bucket.
type CareerArchetype string

// Career archetypes, in tie-break order.
const (
	ExecutionSystem  CareerArchetype = "EXECUTION_SYSTEM"
	StrategyResearch CareerArchetype = "STRATEGY_RESEARCH"
	NetworkInfluence CareerArchetype = "NETWORK_INFLUENCE"
	RiskFinanceArch  CareerArchetype = "RISK_FINANCE"
	InnovationBuild  CareerArchetype = "INNOVATION_BUILD"
)

// InvestmentArchetype is the dominant investment bucket.
type InvestmentArchetype string

// Investment archetypes, in tie-break order.
const (
	CompoundStructural InvestmentArchetype = "COMPOUND_STRUCTURAL"
	NarrativeAttack    InvestmentArchetype = "NARRATIVE_ATTACK"
	ResearchArbitrage  InvestmentArchetype = "RESEARCH_ARBITRAGE"
	EmotionCycle       InvestmentArchetype = "EMOTION_CYCLE"
)

// term is one coefficient of a linear combination of tag scores.
type term struct {
	tag  Tag
	coef float64
}

type combination []term

func (c combination) eval(s TagScores) float64 {
	var v float64
	for _, t := range c {
		v += t.coef * s.Get(t.tag)
	}
	return v
}

func sum(tags ...Tag) combination {
	c := make(combination, len(tags))
	for i, t := range tags {
		c[i] = term{tag: t, coef: 1}
	}
	return c
}

var careerBuckets = []struct {
	key   CareerArchetype
	value combination
}{
	{ExecutionSystem, sum(ManagementSystems, ServiceOps)},
	{StrategyResearch, sum(Strategy, ResearchDeepWork)},
	{NetworkInfluence, sum(Communication, CommunityNetwork, PublicInfluence)},
	{RiskFinanceArch, sum(MoneyAssets, RiskFinance)},
	{InnovationBuild, sum(Innovation, Leadership, ProductBuilder)},
}

var investmentBuckets = []struct {
	key   InvestmentArchetype
	value combination
}{
	{CompoundStructural, sum(ManagementSystems, MoneyAssets, ServiceOps)},
	{NarrativeAttack, sum(Innovation, Leadership, PublicInfluence)},
	{ResearchArbitrage, sum(ResearchDeepWork, Strategy, Communication)},
	{EmotionCycle, combination{{RiskFinance, 1}, {PublicInfluence, 0.3}, {ManagementSystems, -0.4}}},
}

// pitfallRules trigger when their value strictly exceeds threshold.
var pitfallRules = []struct {
	key       string
	threshold float64
	value     combination
	fromTags  []Tag
}{
	{"RISK_OVERLOAD_LOW_SYSTEM", 2.5,
		combination{{RiskFinance, 1}, {ManagementSystems, -0.6}, {ServiceOps, -0.4}},
		[]Tag{RiskFinance, MoneyAssets, Innovation}},
	{"RELATIONSHIP_DRAIN", 3.0,
		combination{{PublicInfluence, 1}, {CommunityNetwork, 1}, {ManagementSystems, -0.7}, {ServiceOps, -0.5}},
		[]Tag{CommunityNetwork, PublicInfluence, Communication}},
	{"ANALYSIS_PARALYSIS", 3.0,
		combination{{ResearchDeepWork, 1}, {Strategy, 1}, {Leadership, -0.8}, {Innovation, -0.6}},
		[]Tag{ResearchDeepWork, Strategy}},
	{"STABLE_NO_BREAKOUT", 3.0,
		combination{{ManagementSystems, 1}, {ServiceOps, 1}, {Innovation, -0.8}, {PublicInfluence, -0.4}},
		[]Tag{ManagementSystems, ServiceOps}},
}

// Bucket is a scored archetype candidate.
type Bucket[K ~string] struct {
	Key   K       `json:"key"`
	Value float64 `json:"value"`
}

// Pitfall is a triggered threshold rule.
type Pitfall struct {
	Key      string  `json:"key"`
	Weight   float64 `json:"weight"`
	FromTags []Tag   `json:"fromTags"`
}

// Profile is the terminal output of scoring.
type Profile struct {
	Evidence            []Evidence          `json:"evidence"`
	TagScores           TagScores           `json:"tagScores"`
	RoleScores          []RoleScore         `json:"roleScores"`
	TopRoles            []RoleScore         `json:"topRoles"`
	TopTags             TagScores           `json:"topTags"`
	CareerArchetype     CareerArchetype     `json:"careerArchetype"`
	InvestmentArchetype InvestmentArchetype `json:"investmentArchetype"`
	Pitfalls            []Pitfall           `json:"pitfalls"`
}

// Trace exposes the intermediate values behind a Profile.
type Trace struct {
	Placements        []astro.Placement             `json:"placements"`
	ArchetypeBuckets  []Bucket[CareerArchetype]     `json:"archetypeBuckets"`
	InvestmentBuckets []Bucket[InvestmentArchetype] `json:"investmentBuckets"`
	PitfallRaw        []Pitfall                     `json:"pitfallRaw"`
}

type options struct {
	topRoles int
	topTags  int
}

// Option configures profile computation.
type Option func(*options)

// WithTopRoles sets how many roles TopRoles keeps.
func WithTopRoles(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.topRoles = n
		}
	}
}

// WithTopTags sets how many tags TopTags keeps.
func WithTopTags(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.topTags = n
		}
	}
}

// ComputeProfile scores placements. It never fails: an empty input yields
// empty evidence and tag scores with every role at zero.
func ComputeProfile(placements []astro.Placement, opts ...Option) Profile {
	p, _ := ComputeProfileWithTrace(placements, opts...)
	return p
}

// ComputeProfileWithTrace is ComputeProfile plus the bucket values and
// triggered pitfall values it was decided from.
func ComputeProfileWithTrace(placements []astro.Placement, opts ...Option) (Profile, Trace) {
	o := options{topRoles: defaultTopRoles, topTags: defaultTopTags}
	for _, opt := range opts {
		opt(&o)
	}

	evidence := BuildEvidence(placements)
	tags := ScoreTags(evidence)
	roles := ScoreRoles(tags)

	career := CareerBuckets(tags)
	invest := InvestmentBuckets(tags)
	pitfalls := Pitfalls(tags)

	topRoles := roles
	if o.topRoles < len(roles) {
		topRoles = roles[:o.topRoles]
	}

	profile := Profile{
		Evidence:            evidence,
		TagScores:           tags,
		RoleScores:          roles,
		TopRoles:            append([]RoleScore(nil), topRoles...),
		TopTags:             tags.Top(o.topTags),
		CareerArchetype:     career[0].Key,
		InvestmentArchetype: invest[0].Key,
		Pitfalls:            pitfalls,
	}
	trace := Trace{
		Placements:        append([]astro.Placement(nil), placements...),
		ArchetypeBuckets:  career,
		InvestmentBuckets: invest,
		PitfallRaw:        append([]Pitfall(nil), pitfalls...),
	}
	return profile, trace
}

// CareerBuckets scores the career archetypes, best first. Ties keep
// declaration order.
func CareerBuckets(tags TagScores) []Bucket[CareerArchetype] {
	out := make([]Bucket[CareerArchetype], len(careerBuckets))
	for i, b := range careerBuckets {
		out[i] = Bucket[CareerArchetype]{Key: b.key, Value: b.value.eval(tags)}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

// InvestmentBuckets scores the investment archetypes, best first. Ties keep
// declaration order.
func InvestmentBuckets(tags TagScores) []Bucket[InvestmentArchetype] {
	out := make([]Bucket[InvestmentArchetype], len(investmentBuckets))
	for i, b := range investmentBuckets {
		out[i] = Bucket[InvestmentArchetype]{Key: b.key, Value: b.value.eval(tags)}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

// Pitfalls returns the triggered pitfalls by descending weight.
func Pitfalls(tags TagScores) []Pitfall {
	out := make([]Pitfall, 0)
	for _, r := range pitfallRules {
		if v := r.value.eval(tags); v > r.threshold {
			out = append(out, Pitfall{Key: r.key, Weight: v, FromTags: append([]Tag(nil), r.fromTags...)})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	return out
}
