package scoring

import "sort"

// Role identifies a career role in the catalog.
type Role string

// Role catalog.
const (
	SystemArchitect    Role = "SYSTEM_ARCHITECT"
	ResearchStrategist Role = "RESEARCH_STRATEGIST"
	ConnectorBD        Role = "CONNECTOR_BD"
	GrowthMarketer     Role = "GROWTH_MARKETER"
	SalesCloser        Role = "SALES_CLOSER"
	EducatorMentor     Role = "EDUCATOR_MENTOR"
	BizOpsMonetization Role = "BIZOPS_MONETIZATION"
	ProductDesign      Role = "PRODUCT_DESIGN"
	CommunityOperator  Role = "COMMUNITY_OPERATOR"
	PMDelivery         Role = "PM_DELIVERY"
	DataAnalyst        Role = "DATA_ANALYST"
	RiskCompliance     Role = "RISK_COMPLIANCE"
	BuilderFounder     Role = "BUILDER_FOUNDER"
	NarrativeCreator   Role = "NARRATIVE_CREATOR"
	AllocatorPortfolio Role = "ALLOCATOR_PORTFOLIO"
	PeopleCulture      Role = "PEOPLE_CULTURE"
)

// Roles is the catalog in declared order, which breaks score ties.
var Roles = []Role{
	SystemArchitect, ResearchStrategist, ConnectorBD, GrowthMarketer, SalesCloser, EducatorMentor,
	BizOpsMonetization, ProductDesign, CommunityOperator, PMDelivery, DataAnalyst, RiskCompliance,
	BuilderFounder, NarrativeCreator, AllocatorPortfolio, PeopleCulture,
}

// roleWeights is sparse; SALES_CLOSER and EDUCATOR_MENTOR carry no weights
// and always score zero.
var roleWeights = map[Role]map[Tag]float64{
	SystemArchitect:    {ManagementSystems: 2.0, Strategy: 1.6, ResearchDeepWork: 1.2, Leadership: 1.0},
	ResearchStrategist: {ResearchDeepWork: 2.2, Strategy: 1.4, Communication: 0.8},
	ConnectorBD:        {CommunityNetwork: 2.2, PublicInfluence: 1.3, Communication: 1.2, Leadership: 0.7},
	GrowthMarketer:     {Communication: 1.8, CommunityNetwork: 1.4, Innovation: 1.2, PublicInfluence: 1.0},
	SalesCloser:        {},
	EducatorMentor:     {},
	BizOpsMonetization: {MoneyAssets: 2.2, ManagementSystems: 1.2, Strategy: 1.0},
	ProductDesign:      {ProductBuilder: 2.0, ResearchDeepWork: 1.0, Communication: 0.9},
	CommunityOperator:  {CommunityNetwork: 2.2, ServiceOps: 1.2, Communication: 1.0},
	PMDelivery:         {ManagementSystems: 1.8, ServiceOps: 1.6, Communication: 0.8},
	DataAnalyst:        {ResearchDeepWork: 2.0, Strategy: 1.0, ManagementSystems: 0.8},
	RiskCompliance:     {ManagementSystems: 1.6, ResearchDeepWork: 1.2, Strategy: 1.0},
	BuilderFounder:     {Innovation: 1.8, Leadership: 1.5, ProductBuilder: 1.3, Strategy: 0.8},
	NarrativeCreator:   {Communication: 2.0, PublicInfluence: 1.6, Innovation: 1.0},
	AllocatorPortfolio: {Strategy: 2.0, MoneyAssets: 1.6, RiskFinance: 1.2, ResearchDeepWork: 0.8},
	PeopleCulture:      {ServiceOps: 1.4, Communication: 1.2, ManagementSystems: 1.0},
}

var roleNames = map[Role]string{
	SystemArchitect:    "System Builder / Architect",
	ResearchStrategist: "Researcher / Strategist",
	ConnectorBD:        "Connector / Deal Maker",
	GrowthMarketer:     "Growth / Marketer",
	SalesCloser:        "Sales / Closer",
	EducatorMentor:     "Educator / Mentor",
	BizOpsMonetization: "Monetization / BizOps",
	ProductDesign:      "Product / Experience Designer",
	CommunityOperator:  "Community / Operator",
	PMDelivery:         "PM / Delivery Lead",
	DataAnalyst:        "Data Analyst / Insights",
	RiskCompliance:     "Risk / Compliance",
	BuilderFounder:     "Builder / Founder",
	NarrativeCreator:   "Narrative / Content Creator",
	AllocatorPortfolio: "Allocator / Portfolio Builder",
	PeopleCulture:      "People / Culture Builder",
}

// Name returns the display name of r.
func (r Role) Name() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return string(r)
}

// Weight returns the weight r gives to t.
func (r Role) Weight(t Tag) float64 { return roleWeights[r][t] }

// RoleScore is a role's weighted sum of tag scores.
type RoleScore struct {
	Role  Role    `json:"role"`
	Score float64 `json:"score"`
}

// ScoreRoles scores every catalog role against tags, sorted by descending
// score with catalog order breaking ties.
func ScoreRoles(tags TagScores) []RoleScore {
	out := make([]RoleScore, 0, len(Roles))
	for _, r := range Roles {
		w := roleWeights[r]
		var s float64
		for _, ts := range tags {
			if k := w[ts.Tag]; k != 0 {
				s += k * ts.Score
			}
		}
		out = append(out, RoleScore{Role: r, Score: s})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
