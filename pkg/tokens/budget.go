package tokens

import (
	"github.com/snow-ghost/ideation/core"
	"github.com/snow-ghost/ideation/pkg/config"
)

// Usage reports where the context window is going.
type Usage struct {
	SystemPrompt  int     `json:"system_prompt"`
	Profile       int     `json:"profile"`
	MemoryFiles   int     `json:"memory_files"`
	Conversation  int     `json:"conversation"`
	Pending       int     `json:"pending"`
	Total         int     `json:"total"`
	PercentUsed   float64 `json:"percent_used"`
	ShouldHandoff bool    `json:"should_handoff"`
}

// Tracker estimates token usage of a session against a budget. It holds no
// mutable state of its own; concurrency safety follows from the Encoder.
type Tracker struct {
	budget  config.TokenBudget
	encoder Encoder
}

// NewTracker builds a tracker. A nil encoder selects CharEncoder.
func NewTracker(budget config.TokenBudget, encoder Encoder) *Tracker {
	if encoder == nil {
		encoder = NewCharEncoder()
	}
	return &Tracker{budget: budget, encoder: encoder}
}

var defaultTracker = NewTracker(config.Default().Budget, nil)

// ComputeUsage estimates usage with the production budget and CharEncoder.
func ComputeUsage(history []core.IdeationMessage, pending string) Usage {
	return defaultTracker.Compute(history, pending)
}

// Budget returns the tracker's budget.
func (t *Tracker) Budget() config.TokenBudget {
	return t.budget
}

// Compute estimates the usage of history plus the pending message.
func (t *Tracker) Compute(history []core.IdeationMessage, pending string) Usage {
	conversation := 0
	for _, m := range history {
		conversation += t.count(m.Content)
	}
	pendingTokens := t.count(pending)

	total := t.budget.Baseline() + conversation + pendingTokens

	return Usage{
		SystemPrompt:  t.budget.SystemPrompt,
		Profile:       t.budget.Profile,
		MemoryFiles:   t.budget.MemoryFiles,
		Conversation:  conversation,
		Pending:       pendingTokens,
		Total:         total,
		PercentUsed:   float64(total) / float64(t.budget.ContextLimit) * 100,
		ShouldHandoff: total >= t.budget.HandoffThreshold,
	}
}

// count falls back to the character estimate when the encoder fails.
func (t *Tracker) count(text string) int {
	n, err := t.encoder.Count(text)
	if err != nil {
		return Estimate(text)
	}
	return n
}

// IsApproachingHandoff reports usage within the approaching factor of the
// handoff threshold that has not crossed it yet.
func (t *Tracker) IsApproachingHandoff(u Usage) bool {
	warn := float64(t.budget.HandoffThreshold) * t.budget.ApproachingFactor
	return !u.ShouldHandoff && u.Total < t.budget.HandoffThreshold && float64(u.Total) >= warn
}

// Remaining returns the tokens left before the context limit, never negative.
func (t *Tracker) Remaining(u Usage) int {
	if left := t.budget.ContextLimit - u.Total; left > 0 {
		return left
	}
	return 0
}

// IsApproachingHandoff applies the production budget.
func IsApproachingHandoff(u Usage) bool {
	return defaultTracker.IsApproachingHandoff(u)
}

// Remaining applies the production budget.
func Remaining(u Usage) int {
	return defaultTracker.Remaining(u)
}
