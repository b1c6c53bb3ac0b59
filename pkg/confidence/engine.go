// Package confidence scores how well-defined an emerging idea is.
//
// The score is additive: each component collects points for the signals
// present in the conversation state and is capped at its configured weight.
// Absent signals are reported as missing areas so the conversation can go
// after them next.
package confidence

import (
	"strings"
	"unicode/utf8"

	"github.com/snow-ghost/ideation/core"
	"github.com/snow-ghost/ideation/pkg/config"
)

const (
	// DisplayThreshold is the score at which confidence is worth showing.
	DisplayThreshold = 30
	// ReadyThreshold is the score at which the idea counts as well-defined.
	ReadyThreshold = 75

	highCustomerConfidence = 0.7
	minSummaryChars        = 50
	minTitleChars          = 5
	maxConfirmationPoints  = 5
	pointsPerConfirmation  = 2
)

// Missing area labels.
const (
	MissingFrustration = "Clear problem or frustration"
	MissingMarketGap   = "Market gap evidence"
	MissingCustomer    = "Target customer type"
	MissingProductType = "Product type"
	MissingTitle       = "Named idea concept"
	MissingCompetitors = "Competitive landscape"
)

// Input is the state snapshot the engine reads.
type Input struct {
	SelfDiscovery     core.SelfDiscoveryState
	MarketDiscovery   core.MarketDiscoveryState
	Narrowing         core.NarrowingState
	Candidate         *core.IdeaCandidate
	UserConfirmations int
}

type Components struct {
	ProblemDefinition int `json:"problem_definition"`
	TargetUser        int `json:"target_user"`
	SolutionDirection int `json:"solution_direction"`
	Differentiation   int `json:"differentiation"`
	UserFit           int `json:"user_fit"`
}

// Sum adds the components up.
func (c Components) Sum() int {
	return c.ProblemDefinition + c.TargetUser + c.SolutionDirection + c.Differentiation + c.UserFit
}

// Map returns the components keyed by name.
func (c Components) Map() map[string]int {
	return map[string]int{
		"problem_definition": c.ProblemDefinition,
		"target_user":        c.TargetUser,
		"solution_direction": c.SolutionDirection,
		"differentiation":    c.Differentiation,
		"user_fit":           c.UserFit,
	}
}

type Breakdown struct {
	Total        int        `json:"total"`
	Components   Components `json:"components"`
	MissingAreas []string   `json:"missing_areas"`
}

// Engine computes confidence breakdowns. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	weights config.ConfidenceWeights
}

func New(weights config.ConfidenceWeights) *Engine {
	return &Engine{weights: weights}
}

var defaultEngine = New(config.Default().Confidence)

// Compute scores in with the production weights.
func Compute(in Input) Breakdown {
	return defaultEngine.Compute(in)
}

// Compute scores the snapshot.
func (e *Engine) Compute(in Input) Breakdown {
	missing := make([]string, 0, 6)

	c := Components{
		ProblemDefinition: clamp(problemDefinition(in, &missing), e.weights.ProblemDefinition),
		TargetUser:        clamp(targetUser(in, &missing), e.weights.TargetUser),
		SolutionDirection: clamp(solutionDirection(in, &missing), e.weights.SolutionDirection),
		Differentiation:   clamp(differentiation(in, &missing), e.weights.Differentiation),
		UserFit:           clamp(userFit(in), e.weights.UserFit),
	}

	return Breakdown{
		Total:        c.Sum(),
		Components:   c,
		MissingAreas: missing,
	}
}

func problemDefinition(in Input, missing *[]string) int {
	score := 0

	switch {
	case hasHighSeverity(in.SelfDiscovery.Frustrations):
		score += 10
	case len(in.SelfDiscovery.Frustrations) > 0:
		score += 5
	default:
		*missing = append(*missing, MissingFrustration)
	}

	switch {
	case hasHighRelevanceGap(in.MarketDiscovery.Gaps):
		score += 10
	case len(in.MarketDiscovery.Gaps) > 0:
		score += 5
	default:
		*missing = append(*missing, MissingMarketGap)
	}

	if in.Candidate != nil && utf8.RuneCountInString(in.Candidate.Summary) > minSummaryChars {
		score += 5
	}

	return score
}

func targetUser(in Input, missing *[]string) int {
	score := 0
	n := in.Narrowing

	if n.CustomerType.IsSet() {
		if n.CustomerType.Confidence > highCustomerConfidence {
			score += 10
		} else {
			score += 5
		}
	} else {
		*missing = append(*missing, MissingCustomer)
	}

	if loc := in.MarketDiscovery.LocationContext; loc != nil && loc.City != "" {
		score += 5
	}

	if n.Geography.IsSet() {
		score += 5
	}

	return score
}

func solutionDirection(in Input, missing *[]string) int {
	score := 0

	if in.Narrowing.ProductType.IsSet() {
		score += 7
	} else {
		*missing = append(*missing, MissingProductType)
	}

	if in.Narrowing.TechnicalDepth.IsSet() {
		score += 7
	}

	if in.Candidate != nil && utf8.RuneCountInString(in.Candidate.Title) > minTitleChars {
		score += 6
	} else {
		*missing = append(*missing, MissingTitle)
	}

	return score
}

func differentiation(in Input, missing *[]string) int {
	score := 0
	competitors := in.MarketDiscovery.Competitors

	if len(competitors) > 0 {
		score += 8
	} else {
		*missing = append(*missing, MissingCompetitors)
	}

	for _, comp := range competitors {
		if len(comp.Weaknesses) > 0 {
			score += 7
			break
		}
	}

	if expertiseMatchesGap(in.SelfDiscovery.Expertise, in.MarketDiscovery.Gaps) {
		score += 5
	}

	return score
}

func userFit(in Input) int {
	score := 0
	sd := in.SelfDiscovery

	if len(sd.Skills.Strengths) > 0 {
		score += 5
	}

	cons := sd.Constraints
	if (cons.LocationTarget != nil && *cons.LocationTarget != "") || cons.HoursPerWeek != nil {
		score += 5
	}

	if in.UserConfirmations > 0 {
		score += min(maxConfirmationPoints, in.UserConfirmations*pointsPerConfirmation)
	}

	return score
}

func hasHighSeverity(fs []core.Frustration) bool {
	for _, f := range fs {
		if f.Severity == core.SeverityHigh {
			return true
		}
	}
	return false
}

func hasHighRelevanceGap(gaps []core.MarketGap) bool {
	for _, g := range gaps {
		if g.Relevance == core.RelevanceHigh {
			return true
		}
	}
	return false
}

// expertiseMatchesGap reports whether any expertise area is named inside a gap description.
// Blank areas never match.
func expertiseMatchesGap(areas []core.ExpertiseArea, gaps []core.MarketGap) bool {
	for _, a := range areas {
		area := strings.ToLower(strings.TrimSpace(a.Area))
		if area == "" {
			continue
		}
		for _, g := range gaps {
			if strings.Contains(strings.ToLower(g.Description), area) {
				return true
			}
		}
	}
	return false
}

func clamp(v, limit int) int {
	if v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}

// IsDisplayWorthy reports whether a confidence total is high enough to show.
func IsDisplayWorthy(total int) bool {
	return total >= DisplayThreshold
}

// IsReady reports whether a confidence total means the idea is well-defined.
func IsReady(total int) bool {
	return total >= ReadyThreshold
}
