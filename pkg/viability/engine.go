// Package viability scores how realistic an idea is and reports the risks
// behind every lost point.
//
// Scoring is subtractive. Each component starts at its configured weight and
// loses points for negative signals found in the conversation state and in
// web search evidence; each deduction except the missing product type is
// paired with exactly one Risk.
package viability

import (
	"fmt"
	"strings"

	"github.com/snow-ghost/ideation/core"
	"github.com/snow-ghost/ideation/pkg/config"
)

const (
	maxSkillGaps           = 2
	saturatedCompetitors   = 10
	crowdedCompetitors     = 5
	minHoursForFullCustom  = 10
	noMarketDeduction      = 15
	wrongTimingDeduction   = 10
	impossibleDeduction    = 15
	skillGapDeduction      = 10
	saturatedDeduction     = 15
	crowdedDeduction       = 10
	highCapitalDeduction   = 15
	timeMismatchDeduction  = 10
	noCustomerDeduction    = 10
	noProductTypeDeduction = 5
)

// Input is the state snapshot plus search evidence the engine reads.
type Input struct {
	SelfDiscovery   core.SelfDiscoveryState
	MarketDiscovery core.MarketDiscoveryState
	Narrowing       core.NarrowingState
	Evidence        []core.WebSearchResult
	Candidate       *core.IdeaCandidate
}

type Components struct {
	MarketExists         int `json:"market_exists"`
	TechnicalFeasibility int `json:"technical_feasibility"`
	CompetitiveSpace     int `json:"competitive_space"`
	ResourceReality      int `json:"resource_reality"`
	ClarityScore         int `json:"clarity_score"`
}

func (c Components) Sum() int {
	return c.MarketExists + c.TechnicalFeasibility + c.CompetitiveSpace + c.ResourceReality + c.ClarityScore
}

// Map returns the components keyed by name.
func (c Components) Map() map[string]int {
	return map[string]int{
		"market_exists":         c.MarketExists,
		"technical_feasibility": c.TechnicalFeasibility,
		"competitive_space":     c.CompetitiveSpace,
		"resource_reality":      c.ResourceReality,
		"clarity_score":         c.ClarityScore,
	}
}

type Breakdown struct {
	Total                int        `json:"total"`
	Components           Components `json:"components"`
	Risks                []Risk     `json:"risks"`
	RequiresIntervention bool       `json:"requires_intervention"`
}

// UnacknowledgedRisks returns the risks the user has not responded to yet.
func (b Breakdown) UnacknowledgedRisks() []Risk {
	var out []Risk
	for _, r := range b.Risks {
		if !r.Acknowledged {
			out = append(out, r)
		}
	}
	return out
}

// RisksBySeverity returns the risks with severity sev, in emission order.
func (b Breakdown) RisksBySeverity(sev core.Severity) []Risk {
	var out []Risk
	for _, r := range b.Risks {
		if r.Severity == sev {
			out = append(out, r)
		}
	}
	return out
}

// Engine computes viability breakdowns. The only state it touches is the risk
// factory's identifier provider, which must be safe for concurrent use.
type Engine struct {
	weights  config.ViabilityWeights
	bands    config.ViabilityBands
	keywords config.Keywords
	risks    *RiskFactory
}

func New(cfg *config.Config, risks *RiskFactory) *Engine {
	if risks == nil {
		risks = NewRiskFactory()
	}
	return &Engine{
		weights:  cfg.Viability,
		bands:    cfg.Bands,
		keywords: lowerKeywords(cfg.Keywords),
		risks:    risks,
	}
}

var defaultEngine = New(config.Default(), nil)

// Compute scores in with the production configuration.
func Compute(in Input) Breakdown {
	return defaultEngine.Compute(in)
}

// scan accumulates risks for one Compute call.
type scan struct {
	engine      *Engine
	candidateID string
	risks       []Risk
}

func (s *scan) flag(kind RiskKind, sev core.Severity, description, url, text string) {
	s.risks = append(s.risks, s.engine.risks.NewRisk(RiskParams{
		CandidateID:  s.candidateID,
		Kind:         kind,
		Description:  description,
		EvidenceURL:  url,
		EvidenceText: text,
		Severity:     sev,
	}))
}

// Compute scores the snapshot and collects the risks behind each deduction.
func (e *Engine) Compute(in Input) Breakdown {
	s := &scan{engine: e}
	if in.Candidate != nil {
		s.candidateID = in.Candidate.ID
	}

	c := Components{
		MarketExists:         floor(e.weights.MarketExists - s.marketExists(in)),
		TechnicalFeasibility: floor(e.weights.TechnicalFeasibility - s.technicalFeasibility(in)),
		CompetitiveSpace:     floor(e.weights.CompetitiveSpace - s.competitiveSpace(in)),
		ResourceReality:      floor(e.weights.ResourceReality - s.resourceReality(in)),
		ClarityScore:         floor(e.weights.ClarityScore - s.clarity(in)),
	}

	total := c.Sum()
	return Breakdown{
		Total:                total,
		Components:           c,
		Risks:                s.risks,
		RequiresIntervention: requiresIntervention(total, s.risks, e.bands),
	}
}

// Band labels the score against the engine's bands.
func (e *Engine) Band(score int) BandLabel {
	return bandFor(score, e.bands)
}

func (s *scan) marketExists(in Input) int {
	md := in.MarketDiscovery
	lost := 0

	if len(md.Competitors) == 0 && len(md.Gaps) == 0 {
		lost += noMarketDeduction
		s.flag(RiskTooVague, core.SeverityHigh,
			"No competitors or market gaps identified yet; there is no evidence a market exists.", "", "")
	}

	if len(md.FailedAttempts) > 0 && !hasHighRelevanceGap(md.Gaps) {
		fa := md.FailedAttempts[0]
		lost += wrongTimingDeduction
		s.flag(RiskWrongTiming, core.SeverityMedium,
			fmt.Sprintf("Similar attempt failed before: %s. Reason: %s", fa.What, fa.Why),
			fa.Source, fa.Lesson)
	}

	return lost
}

func (s *scan) technicalFeasibility(in Input) int {
	lost := 0

	if r, kw, ok := firstMatch(in.Evidence, s.engine.keywords.Infeasibility); ok {
		lost += impossibleDeduction
		s.flag(RiskImpossible, core.SeverityCritical,
			fmt.Sprintf("Search evidence suggests this may not be technically feasible (%q).", kw),
			r.URL, r.Snippet)
	}

	if gaps := len(in.SelfDiscovery.Skills.Gaps); gaps > maxSkillGaps {
		lost += skillGapDeduction
		s.flag(RiskResourceMismatch, core.SeverityMedium,
			fmt.Sprintf("%d skill gaps identified; building this would need skills you do not have yet.", gaps),
			"", "")
	}

	return lost
}

func (s *scan) competitiveSpace(in Input) int {
	n := len(in.MarketDiscovery.Competitors)

	switch {
	case n > saturatedCompetitors:
		s.flag(RiskSaturatedMarket, core.SeverityHigh,
			fmt.Sprintf("%d competitors found; the market looks saturated.", n), "", "")
		return saturatedDeduction
	case n > crowdedCompetitors && !hasHighRelevanceGap(in.MarketDiscovery.Gaps):
		s.flag(RiskSaturatedMarket, core.SeverityMedium,
			fmt.Sprintf("%d competitors and no clear high-relevance gap to exploit.", n), "", "")
		return crowdedDeduction
	}

	return 0
}

func (s *scan) resourceReality(in Input) int {
	sd := in.SelfDiscovery
	lost := 0

	if sd.Constraints.Capital == core.CapitalBootstrap {
		if r, kw, ok := firstMatch(in.Evidence, s.engine.keywords.HighCapital); ok {
			lost += highCapitalDeduction
			s.flag(RiskUnrealistic, core.SeverityHigh,
				fmt.Sprintf("Evidence points to significant capital needs (%q) but you plan to bootstrap.", kw),
				r.URL, r.Snippet)
		}
	}

	if h := sd.Constraints.HoursPerWeek; h != nil && *h < minHoursForFullCustom &&
		in.Narrowing.TechnicalDepth.Is(core.DepthFullCustom) {
		lost += timeMismatchDeduction
		s.flag(RiskResourceMismatch, core.SeverityMedium,
			fmt.Sprintf("A fully custom build with %d hours per week is unlikely to ship.", *h), "", "")
	}

	return lost
}

func (s *scan) clarity(in Input) int {
	lost := 0

	if !in.Narrowing.CustomerType.IsSet() {
		lost += noCustomerDeduction
		s.flag(RiskTooVague, core.SeverityMedium,
			"Target customer is not defined yet.", "", "")
	}

	if !in.Narrowing.ProductType.IsSet() {
		lost += noProductTypeDeduction
	}

	return lost
}

// firstMatch returns the first result whose snippet contains one of the
// lowercased keywords, and the keyword that matched.
func firstMatch(results []core.WebSearchResult, keywords []string) (core.WebSearchResult, string, bool) {
	for _, r := range results {
		snippet := strings.ToLower(r.Snippet)
		for _, kw := range keywords {
			if strings.Contains(snippet, kw) {
				return r, kw, true
			}
		}
	}
	return core.WebSearchResult{}, "", false
}

func hasHighRelevanceGap(gaps []core.MarketGap) bool {
	for _, g := range gaps {
		if g.Relevance == core.RelevanceHigh {
			return true
		}
	}
	return false
}

func lowerKeywords(k config.Keywords) config.Keywords {
	return config.Keywords{
		Infeasibility: lowerAll(k.Infeasibility),
		HighCapital:   lowerAll(k.HighCapital),
	}
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func floor(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
