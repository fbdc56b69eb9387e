package scoring

import "sort"

// Tag is a semantic career label that evidence contributes weight to.
type Tag string

// Career tags.
const (
	Leadership        Tag = "Leadership"
	ManagementSystems Tag = "ManagementSystems"
	Strategy          Tag = "Strategy"
	Communication     Tag = "Communication"
	ProductBuilder    Tag = "ProductBuilder"
	ResearchDeepWork  Tag = "ResearchDeepWork"
	PublicInfluence   Tag = "PublicInfluence"
	CommunityNetwork  Tag = "CommunityNetwork"
	MoneyAssets       Tag = "MoneyAssets"
	ServiceOps        Tag = "ServiceOps"
	Innovation        Tag = "Innovation"
	RiskFinance       Tag = "RiskFinance"
)

// Tags lists every career tag.
var Tags = []Tag{
	Leadership, ManagementSystems, Strategy, Communication, ProductBuilder, ResearchDeepWork,
	PublicInfluence, CommunityNetwork, MoneyAssets, ServiceOps, Innovation, RiskFinance,
}

// TagScore is the summed weight of all evidence carrying Tag.
type TagScore struct {
	Tag   Tag     `json:"tag"`
	Score float64 `json:"score"`
}

// TagScores is ordered by descending score.
type TagScores []TagScore

// Get returns the score of t, or zero when no evidence carried it.
func (ts TagScores) Get(t Tag) float64 {
	for _, s := range ts {
		if s.Tag == t {
			return s.Score
		}
	}
	return 0
}

// Top returns at most n leading scores.
func (ts TagScores) Top(n int) TagScores {
	if n < 0 {
		n = 0
	}
	if n > len(ts) {
		n = len(ts)
	}
	out := make(TagScores, n)
	copy(out, ts[:n])
	return out
}

// ScoreTags sums evidence weights per tag. The result is sorted by
// descending score; equal scores keep the order in which their tags were
// first encountered.
func ScoreTags(evidence []Evidence) TagScores {
	out := make(TagScores, 0, len(Tags))
	index := make(map[Tag]int, len(Tags))
	for _, e := range evidence {
		for _, t := range e.Tags {
			i, ok := index[t]
			if !ok {
				i = len(out)
				index[t] = i
				out = append(out, TagScore{Tag: t})
			}
			out[i].Score += e.Weight
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
