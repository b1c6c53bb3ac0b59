package config

import (
	"errors"
	"fmt"
)

// ConfidenceWeights caps each confidence component. They sum to 100 by default.
type ConfidenceWeights struct {
	ProblemDefinition int `json:"problem_definition" yaml:"problem_definition"`
	TargetUser        int `json:"target_user" yaml:"target_user"`
	SolutionDirection int `json:"solution_direction" yaml:"solution_direction"`
	Differentiation   int `json:"differentiation" yaml:"differentiation"`
	UserFit           int `json:"user_fit" yaml:"user_fit"`
}

// ViabilityWeights is the starting (and maximum) value of each viability component.
type ViabilityWeights struct {
	MarketExists         int `json:"market_exists" yaml:"market_exists"`
	TechnicalFeasibility int `json:"technical_feasibility" yaml:"technical_feasibility"`
	CompetitiveSpace     int `json:"competitive_space" yaml:"competitive_space"`
	ResourceReality      int `json:"resource_reality" yaml:"resource_reality"`
	ClarityScore         int `json:"clarity_score" yaml:"clarity_score"`
}

// ViabilityBands are the lower bounds of each viability band.
// A score below Caution requires intervention.
type ViabilityBands struct {
	Healthy  int `json:"healthy" yaml:"healthy"`
	Caution  int `json:"caution" yaml:"caution"`
	Warning  int `json:"warning" yaml:"warning"`
	Critical int `json:"critical" yaml:"critical"`
}

// Keywords are matched case-insensitively against search snippets.
type Keywords struct {
	Infeasibility []string `json:"infeasibility" yaml:"infeasibility"`
	HighCapital   []string `json:"high_capital" yaml:"high_capital"`
}

// TokenBudget describes the context window and the fixed overhead every turn pays.
type TokenBudget struct {
	ContextLimit      int     `json:"context_limit" yaml:"context_limit"`
	HandoffThreshold  int     `json:"handoff_threshold" yaml:"handoff_threshold"`
	SystemPrompt      int     `json:"system_prompt" yaml:"system_prompt"`
	Profile           int     `json:"profile" yaml:"profile"`
	MemoryFiles       int     `json:"memory_files" yaml:"memory_files"`
	ApproachingFactor float64 `json:"approaching_factor" yaml:"approaching_factor"`
}

// Baseline is the overhead added before any message is counted.
func (b TokenBudget) Baseline() int {
	return b.SystemPrompt + b.Profile + b.MemoryFiles
}

// Config is the full tunable surface of the engines.
type Config struct {
	Confidence ConfidenceWeights `json:"confidence" yaml:"confidence"`
	Viability  ViabilityWeights  `json:"viability" yaml:"viability"`
	Bands      ViabilityBands    `json:"bands" yaml:"bands"`
	Keywords   Keywords          `json:"keywords" yaml:"keywords"`
	Budget     TokenBudget       `json:"budget" yaml:"budget"`
}

var (
	ErrInvalidWeight = errors.New("weight must be positive")
	ErrInvalidBands  = errors.New("bands must be strictly descending")
	ErrEmptyKeywords = errors.New("keyword set is empty")
	ErrInvalidBudget = errors.New("invalid token budget")
)

// Validate checks the configuration for values the engines cannot work with.
func (c *Config) Validate() error {
	weights := []struct {
		name  string
		value int
	}{
		{"confidence.problem_definition", c.Confidence.ProblemDefinition},
		{"confidence.target_user", c.Confidence.TargetUser},
		{"confidence.solution_direction", c.Confidence.SolutionDirection},
		{"confidence.differentiation", c.Confidence.Differentiation},
		{"confidence.user_fit", c.Confidence.UserFit},
		{"viability.market_exists", c.Viability.MarketExists},
		{"viability.technical_feasibility", c.Viability.TechnicalFeasibility},
		{"viability.competitive_space", c.Viability.CompetitiveSpace},
		{"viability.resource_reality", c.Viability.ResourceReality},
		{"viability.clarity_score", c.Viability.ClarityScore},
	}
	for _, w := range weights {
		if w.value <= 0 {
			return fmt.Errorf("%s = %d: %w", w.name, w.value, ErrInvalidWeight)
		}
	}

	b := c.Bands
	if !(b.Healthy > b.Caution && b.Caution > b.Warning && b.Warning > b.Critical && b.Critical >= 0) {
		return fmt.Errorf("healthy=%d caution=%d warning=%d critical=%d: %w",
			b.Healthy, b.Caution, b.Warning, b.Critical, ErrInvalidBands)
	}

	if len(c.Keywords.Infeasibility) == 0 {
		return fmt.Errorf("keywords.infeasibility: %w", ErrEmptyKeywords)
	}
	if len(c.Keywords.HighCapital) == 0 {
		return fmt.Errorf("keywords.high_capital: %w", ErrEmptyKeywords)
	}

	t := c.Budget
	switch {
	case t.ContextLimit <= 0:
		return fmt.Errorf("context_limit must be positive: %w", ErrInvalidBudget)
	case t.HandoffThreshold <= 0 || t.HandoffThreshold > t.ContextLimit:
		return fmt.Errorf("handoff_threshold %d outside (0, %d]: %w", t.HandoffThreshold, t.ContextLimit, ErrInvalidBudget)
	case t.SystemPrompt < 0 || t.Profile < 0 || t.MemoryFiles < 0:
		return fmt.Errorf("overhead estimates must not be negative: %w", ErrInvalidBudget)
	case t.ApproachingFactor <= 0 || t.ApproachingFactor > 1:
		return fmt.Errorf("approaching_factor %.2f outside (0, 1]: %w", t.ApproachingFactor, ErrInvalidBudget)
	}

	return nil
}

// Default returns the production configuration.
func Default() *Config {
	return &Config{
		Confidence: ConfidenceWeights{
			ProblemDefinition: 25,
			TargetUser:        20,
			SolutionDirection: 20,
			Differentiation:   20,
			UserFit:           15,
		},
		Viability: ViabilityWeights{
			MarketExists:         25,
			TechnicalFeasibility: 20,
			CompetitiveSpace:     20,
			ResourceReality:      20,
			ClarityScore:         15,
		},
		Bands: ViabilityBands{
			Healthy:  75,
			Caution:  50,
			Warning:  25,
			Critical: 0,
		},
		Keywords: Keywords{
			Infeasibility: []string{
				"does not exist",
				"impossible",
				"no solution",
				"years away",
				"not technically feasible",
				"cannot be done",
				"no way to",
				"decades of research",
			},
			HighCapital: []string{
				"million",
				"funding required",
				"venture capital",
				"significant investment",
				"series a",
				"series b",
				"raised $",
			},
		},
		Budget: TokenBudget{
			ContextLimit:      100000,
			HandoffThreshold:  80000,
			SystemPrompt:      5000,
			Profile:           2000,
			MemoryFiles:       10000,
			ApproachingFactor: 0.95,
		},
	}
}
