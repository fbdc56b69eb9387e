// Package vocation maps chart placements onto a second, broader tag
// vocabulary and ranks career domains and their tracks against it.
package vocation

// Tag is a vocation tag.
type Tag string

// Vocation tags.
const (
	ResearchDeepWork  Tag = "ResearchDeepWork"
	MathLogic         Tag = "MathLogic"
	Engineering       Tag = "Engineering"
	Systems           Tag = "Systems"
	Communication     Tag = "Communication"
	Storytelling      Tag = "Storytelling"
	Aesthetics        Tag = "Aesthetics"
	EmpathyCare       Tag = "EmpathyCare"
	Leadership        Tag = "Leadership"
	PublicInfluence   Tag = "PublicInfluence"
	CommunityNetwork  Tag = "CommunityNetwork"
	MoneyAssets       Tag = "MoneyAssets"
	RiskFinance       Tag = "RiskFinance"
	LawCompliance     Tag = "LawCompliance"
	TeachingMentoring Tag = "TeachingMentoring"
	Operations        Tag = "Operations"
	Innovation        Tag = "Innovation"
	Strategy          Tag = "Strategy"
)

// Tags lists every vocation tag.
var Tags = []Tag{
	ResearchDeepWork, MathLogic, Engineering, Systems, Communication, Storytelling,
	Aesthetics, EmpathyCare, Leadership, PublicInfluence, CommunityNetwork, MoneyAssets,
	RiskFinance, LawCompliance, TeachingMentoring, Operations, Innovation, Strategy,
}

var tagNames = map[Tag]string{
	ResearchDeepWork:  "research and deep insight",
	MathLogic:         "math and logic",
	Engineering:       "engineering",
	Systems:           "systems and process",
	Communication:     "communication",
	Storytelling:      "storytelling",
	Aesthetics:        "aesthetics",
	EmpathyCare:       "empathy and care",
	Leadership:        "leadership",
	PublicInfluence:   "public influence",
	CommunityNetwork:  "community and network",
	MoneyAssets:       "money and assets",
	RiskFinance:       "risk finance",
	LawCompliance:     "law and compliance",
	TeachingMentoring: "teaching and mentoring",
	Operations:        "operations",
	Innovation:        "innovation",
	Strategy:          "strategy",
}

// Name returns a human readable label.
func (t Tag) Name() string {
	if n, ok := tagNames[t]; ok {
		return n
	}
	return string(t)
}

// Vector holds a score for every tag, zero included.
type Vector map[Tag]float64

func newVector() Vector {
	v := make(Vector, len(Tags))
	for _, t := range Tags {
		v[t] = 0
	}
	return v
}

// weight is one tag coefficient. Weight lists are ordered slices so that
// sums and explanations are reproducible.
type weight struct {
	tag Tag
	w   float64
}

type weights []weight

func (ws weights) dot(v Vector) float64 {
	var s float64
	for _, x := range ws {
		s += v[x.tag] * x.w
	}
	return s
}
