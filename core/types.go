package core

import "time"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type Relevance string

const (
	RelevanceLow    Relevance = "low"
	RelevanceMedium Relevance = "medium"
	RelevanceHigh   Relevance = "high"
)

type CapitalPosture string

const (
	CapitalBootstrap      CapitalPosture = "bootstrap"
	CapitalSeekingFunding CapitalPosture = "seeking_funding"
	CapitalSelfFunded     CapitalPosture = "self_funded"
	CapitalHasFunding     CapitalPosture = "has_funding"
)

// Technical depth values the narrowing flow produces.
const (
	DepthNoCode     = "no_code"
	DepthLowCode    = "low_code"
	DepthFullCustom = "full_custom"
)

type Frustration struct {
	Description string   `json:"description" yaml:"description"`
	Source      string   `json:"source" yaml:"source"`
	Severity    Severity `json:"severity" yaml:"severity"`
}

type ExpertiseArea struct {
	Area     string `json:"area" yaml:"area"`
	Depth    string `json:"depth" yaml:"depth"`
	Evidence string `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

type Skills struct {
	Strengths []string `json:"strengths" yaml:"strengths"`
	Gaps      []string `json:"gaps" yaml:"gaps"`
}

type Constraints struct {
	Capital        CapitalPosture `json:"capital,omitempty" yaml:"capital,omitempty"`
	HoursPerWeek   *int           `json:"hours_per_week,omitempty" yaml:"hours_per_week,omitempty"`
	LocationTarget *string        `json:"location_target,omitempty" yaml:"location_target,omitempty"`
}

// SelfDiscoveryState is what the conversation has learned about the user.
type SelfDiscoveryState struct {
	Frustrations []Frustration   `json:"frustrations" yaml:"frustrations"`
	Expertise    []ExpertiseArea `json:"expertise" yaml:"expertise"`
	Skills       Skills          `json:"skills" yaml:"skills"`
	Constraints  Constraints     `json:"constraints" yaml:"constraints"`
}

type Competitor struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Strengths   []string `json:"strengths,omitempty" yaml:"strengths,omitempty"`
	Weaknesses  []string `json:"weaknesses,omitempty" yaml:"weaknesses,omitempty"`
	Source      string   `json:"source,omitempty" yaml:"source,omitempty"`
}

type MarketGap struct {
	Description string    `json:"description" yaml:"description"`
	Evidence    string    `json:"evidence,omitempty" yaml:"evidence,omitempty"`
	Relevance   Relevance `json:"relevance" yaml:"relevance"`
}

type FailedAttempt struct {
	What   string `json:"what" yaml:"what"`
	Why    string `json:"why" yaml:"why"`
	Lesson string `json:"lesson,omitempty" yaml:"lesson,omitempty"`
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

type LocationContext struct {
	City       string `json:"city,omitempty" yaml:"city,omitempty"`
	Region     string `json:"region,omitempty" yaml:"region,omitempty"`
	Country    string `json:"country,omitempty" yaml:"country,omitempty"`
	Population string `json:"population,omitempty" yaml:"population,omitempty"`
}

// MarketDiscoveryState is the market research collected for the current idea.
type MarketDiscoveryState struct {
	Competitors     []Competitor     `json:"competitors" yaml:"competitors"`
	Gaps            []MarketGap      `json:"gaps" yaml:"gaps"`
	FailedAttempts  []FailedAttempt  `json:"failed_attempts" yaml:"failed_attempts"`
	LocationContext *LocationContext `json:"location_context,omitempty" yaml:"location_context,omitempty"`
}

// NarrowingDimension is one refined facet. A nil or empty Value means not narrowed yet.
type NarrowingDimension struct {
	Value      *string `json:"value" yaml:"value"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// IsSet reports whether the dimension has a value.
func (d NarrowingDimension) IsSet() bool {
	return d.Value != nil && *d.Value != ""
}

// Is reports whether the dimension is set to exactly v.
func (d NarrowingDimension) Is(v string) bool {
	return d.Value != nil && *d.Value == v
}

type NarrowingState struct {
	CustomerType   NarrowingDimension `json:"customer_type" yaml:"customer_type"`
	ProductType    NarrowingDimension `json:"product_type" yaml:"product_type"`
	Geography      NarrowingDimension `json:"geography" yaml:"geography"`
	TechnicalDepth NarrowingDimension `json:"technical_depth" yaml:"technical_depth"`
}

// IdeaCandidate is the partially formed idea. Callers pass nil before one exists.
type IdeaCandidate struct {
	ID      string `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	Summary string `json:"summary" yaml:"summary"`
}

type WebSearchResult struct {
	Title   string `json:"title" yaml:"title"`
	URL     string `json:"url" yaml:"url"`
	Snippet string `json:"snippet" yaml:"snippet"`
	Source  string `json:"source,omitempty" yaml:"source,omitempty"`
}

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

type IdeationMessage struct {
	ID         string      `json:"id" yaml:"id"`
	SessionID  string      `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	Role       MessageRole `json:"role" yaml:"role"`
	Content    string      `json:"content" yaml:"content"`
	TokenCount int         `json:"token_count,omitempty" yaml:"token_count,omitempty"`
	CreatedAt  time.Time   `json:"created_at" yaml:"created_at"`
}

// StringPtr and IntPtr help build optional fields.
func StringPtr(s string) *string { return &s }

func IntPtr(i int) *int { return &i }
