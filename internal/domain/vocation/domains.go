package vocation

// Domain identifies a career domain.
type Domain string

// Career domains, in catalog order.
const (
	ScienceResearch Domain = "SCIENCE_RESEARCH"
	EngineeringTech Domain = "ENGINEERING_TECH"
	DataAI          Domain = "DATA_AI"
	ArtDesign       Domain = "ART_DESIGN"
	MediaContent    Domain = "MEDIA_CONTENT"
	BusinessFinance Domain = "BUSINESS_FINANCE"
	LawPolicy       Domain = "LAW_POLICY"
	HealthCare      Domain = "HEALTH_CARE"
	Education       Domain = "EDUCATION"
	PublicService   Domain = "PUBLIC_SERVICE"
	SalesGrowth     Domain = "SALES_GROWTH"
	ProductStrategy Domain = "PRODUCT_STRATEGY"
)

type trackDef struct {
	name     string
	weights  weights
	examples []string
}

type domainDef struct {
	domain  Domain
	name    string
	summary string
	weights weights
	tracks  []trackDef
}

var library = []domainDef{
	{ScienceResearch, "Science & Research", "Exploring truth and building theory; suits long, rigorous, verified work.",
		weights{{ResearchDeepWork, 2.2}, {MathLogic, 1.8}, {TeachingMentoring, 0.6}, {Systems, 0.4}},
		[]trackDef{
			{"Fundamental science / theory", weights{{ResearchDeepWork, 2.4}, {MathLogic, 2.0}},
				[]string{"physics, mathematics, chemistry, theoretical computing", "research institutes, universities, labs"}},
			{"Life sciences / medical research", weights{{ResearchDeepWork, 2.2}, {EmpathyCare, 0.6}, {Systems, 0.6}},
				[]string{"biology, pharmacy, clinical research", "drug R&D, biostatistics"}},
			{"Applied research / industrial R&D", weights{{ResearchDeepWork, 1.8}, {Engineering, 1.2}, {Systems, 0.6}},
				[]string{"materials, energy, industrial research", "corporate research centers"}},
		}},
	{EngineeringTech, "Engineering & Technology", "Building complex systems, running them and scaling them; suits hands-on iteration.",
		weights{{Engineering, 2.2}, {Systems, 1.2}, {MathLogic, 1.0}, {Innovation, 0.8}},
		[]trackDef{
			{"Software engineering / architecture", weights{{Engineering, 2.3}, {Systems, 1.4}, {MathLogic, 1.2}},
				[]string{"backend, architecture, platforms", "distributed systems, performance, security"}},
			{"Hardware / embedded / robotics", weights{{Engineering, 2.2}, {MathLogic, 1.3}, {Systems, 0.8}},
				[]string{"IoT, chips, robotics", "industrial automation, smart hardware"}},
			{"Infrastructure / operations / SRE", weights{{Systems, 2.0}, {Engineering, 1.6}, {Operations, 1.0}},
				[]string{"cloud, networking, SRE", "reliability, monitoring, disaster recovery"}},
		}},
	{DataAI, "Data & AI", "Building predictive and decision advantage from data and models; abstraction and validation in equal measure.",
		weights{{ResearchDeepWork, 1.6}, {MathLogic, 2.0}, {Engineering, 1.0}, {Systems, 0.6}},
		[]trackDef{
			{"Machine learning / algorithm research", weights{{MathLogic, 2.2}, {ResearchDeepWork, 1.8}},
				[]string{"algorithm engineer, research scientist", "recommendation, search, vision, LLMs"}},
			{"Data analysis / BI / growth analytics", weights{{MathLogic, 1.6}, {Systems, 1.0}, {Communication, 0.8}},
				[]string{"data analysis, BI", "growth and product analytics"}},
			{"Data engineering / platforms", weights{{Engineering, 1.8}, {Systems, 1.2}, {MathLogic, 1.2}},
				[]string{"warehousing, ETL, data platforms", "streaming data, metric systems"}},
		}},
	{ArtDesign, "Art & Design", "Aesthetics and expression at the core, turning feeling into work and experience.",
		weights{{Aesthetics, 2.2}, {Storytelling, 1.2}, {Communication, 0.8}, {Innovation, 0.8}},
		[]trackDef{
			{"Visual / brand / graphic", weights{{Aesthetics, 2.3}, {Communication, 0.8}},
				[]string{"brand identity, visual design", "posters, advertising, visual systems"}},
			{"Interaction / product design", weights{{Aesthetics, 1.6}, {Systems, 1.0}, {Communication, 1.0}},
				[]string{"UX, UI, interaction", "design systems, user research"}},
			{"Art / music / film", weights{{Aesthetics, 2.0}, {Storytelling, 1.6}, {PublicInfluence, 0.6}},
				[]string{"directing, screenwriting, photography", "music production, fine art"}},
		}},
	{MediaContent, "Media & Content", "Shaping audiences and consensus through content; suits strong expression and rhythm.",
		weights{{Communication, 2.0}, {Storytelling, 1.8}, {PublicInfluence, 1.0}, {CommunityNetwork, 0.8}},
		[]trackDef{
			{"Content creation / independent media", weights{{Storytelling, 2.0}, {PublicInfluence, 1.2}, {Communication, 1.2}},
				[]string{"creator, influencer, streamer", "short video, long form, podcasts"}},
			{"Marketing communications / PR", weights{{Communication, 2.0}, {CommunityNetwork, 1.0}, {PublicInfluence, 1.0}},
				[]string{"PR, brand, marketing", "campaigns, events"}},
			{"Editing / publishing / scripts", weights{{Storytelling, 2.2}, {ResearchDeepWork, 0.8}},
				[]string{"editing, publishing", "script development, curation"}},
		}},
	{BusinessFinance, "Business & Finance", "Strong resource and pricing sense; turning value into cash flow and structure.",
		weights{{MoneyAssets, 2.0}, {Strategy, 1.2}, {Systems, 0.8}, {RiskFinance, 1.0}},
		[]trackDef{
			{"Investing / trading / asset management", weights{{MoneyAssets, 2.2}, {RiskFinance, 1.6}, {ResearchDeepWork, 0.8}},
				[]string{"investment research, trading, funds", "allocation, quant, risk"}},
			{"Business operations / monetization", weights{{MoneyAssets, 1.8}, {Systems, 1.2}, {Strategy, 1.2}},
				[]string{"monetization, growth, revenue", "business analysis, general management"}},
			{"Accounting / finance / audit", weights{{Systems, 1.8}, {LawCompliance, 1.0}, {MoneyAssets, 1.2}},
				[]string{"finance, audit, tax", "financial compliance, risk control"}},
		}},
	{LawPolicy, "Law & Policy", "Rules, boundaries and chains of fact are the core skill; suits rigor and responsibility.",
		weights{{LawCompliance, 2.2}, {ResearchDeepWork, 1.2}, {Communication, 0.8}, {Systems, 0.8}},
		[]trackDef{
			{"Legal practice / litigation", weights{{LawCompliance, 2.4}, {Communication, 1.0}},
				[]string{"lawyer, in-house counsel, litigation", "contracts, arbitration, negotiation"}},
			{"Compliance / risk management", weights{{LawCompliance, 2.0}, {Systems, 1.2}, {ResearchDeepWork, 1.0}},
				[]string{"compliance, internal control, risk", "financial and data compliance"}},
			{"Public policy / research", weights{{ResearchDeepWork, 1.6}, {LawCompliance, 1.2}, {Strategy, 1.0}},
				[]string{"policy research, think tanks", "government affairs, public administration"}},
		}},
	{HealthCare, "Health & Care", "Centered on people and life; needs patience, responsibility and steady training.",
		weights{{EmpathyCare, 2.0}, {Systems, 1.0}, {ResearchDeepWork, 1.0}, {Operations, 0.8}},
		[]trackDef{
			{"Clinical / nursing / rehabilitation", weights{{EmpathyCare, 2.2}, {Operations, 1.0}, {Systems, 0.8}},
				[]string{"physician, nurse, therapist", "counseling, therapy support"}},
			{"Public health / health management", weights{{Systems, 1.2}, {EmpathyCare, 1.6}, {Communication, 0.8}},
				[]string{"health management, public health", "hospital administration, health products"}},
			{"Pharma / devices / research", weights{{ResearchDeepWork, 1.6}, {Systems, 0.8}, {EmpathyCare, 0.8}},
				[]string{"pharma R&D, clinical trials", "medical devices, regulatory"}},
		}},
	{Education, "Education & Training", "Making the complex clear and helping people grow; suits sustained output.",
		weights{{TeachingMentoring, 2.2}, {Communication, 1.2}, {ResearchDeepWork, 0.8}, {EmpathyCare, 0.6}},
		[]trackDef{
			{"Teacher / lecturer / curriculum", weights{{TeachingMentoring, 2.4}, {ResearchDeepWork, 1.0}},
				[]string{"teacher, lecturer, curriculum research", "course and textbook development"}},
			{"Training / coaching / advising", weights{{Communication, 1.4}, {TeachingMentoring, 2.0}},
				[]string{"trainer, coach", "career advising, consulting"}},
			{"Education products / EdTech", weights{{TeachingMentoring, 1.4}, {Systems, 0.8}, {Engineering, 0.6}},
				[]string{"education product manager", "learning systems and platforms"}},
		}},
	{PublicService, "Public Service & Nonprofit", "Aimed at public value; suits a strong sense of duty and long commitment.",
		weights{{EmpathyCare, 1.2}, {Systems, 1.2}, {Leadership, 1.0}, {LawCompliance, 0.8}},
		[]trackDef{
			{"Public administration / governance", weights{{Systems, 1.6}, {Leadership, 1.2}, {LawCompliance, 0.8}},
				[]string{"public administration, government programs", "social governance, community services"}},
			{"Nonprofit / NGO", weights{{EmpathyCare, 1.6}, {CommunityNetwork, 0.8}, {Communication, 0.8}},
				[]string{"nonprofit programs, foundations", "social innovation, community organizing"}},
			{"International organizations / public issues", weights{{Strategy, 1.0}, {ResearchDeepWork, 1.0}, {LawCompliance, 0.8}},
				[]string{"international organizations", "development research, program management"}},
		}},
	{SalesGrowth, "Sales, Growth & BD", "Trading relationships and expression for resources and results; suits fast pace and pressure.",
		weights{{Communication, 1.8}, {CommunityNetwork, 1.6}, {Leadership, 0.8}, {PublicInfluence, 1.0}},
		[]trackDef{
			{"Business development / partnerships", weights{{CommunityNetwork, 2.0}, {Communication, 1.4}, {Leadership, 0.6}},
				[]string{"business development, channels", "ecosystem partnerships"}},
			{"Growth / conversion marketing", weights{{Communication, 1.8}, {Systems, 0.6}, {PublicInfluence, 1.0}},
				[]string{"growth, paid acquisition, conversion", "user growth operations"}},
			{"Sales / customer success", weights{{Communication, 1.6}, {EmpathyCare, 0.6}, {Systems, 0.6}},
				[]string{"sales, customer success", "key accounts, solutions"}},
		}},
	{ProductStrategy, "Product, Strategy & Consulting", "Structuring needs, resources and paths; suits cross-disciplinary synthesis and decision support.",
		weights{{Strategy, 1.8}, {Systems, 1.4}, {Communication, 1.0}, {ResearchDeepWork, 1.0}},
		[]trackDef{
			{"Product manager / growth product", weights{{Systems, 1.4}, {Strategy, 1.4}, {Communication, 1.0}},
				[]string{"product manager, growth product", "platforms, tools, B2B products"}},
			{"Strategy / business analysis", weights{{Strategy, 2.0}, {ResearchDeepWork, 1.2}, {MoneyAssets, 0.6}},
				[]string{"strategy, business analysis", "corporate strategy"}},
			{"Consulting / solutions", weights{{Communication, 1.2}, {Strategy, 1.6}, {Systems, 1.0}},
				[]string{"management consulting, solutions", "business architecture, process consulting"}},
		}},
}
