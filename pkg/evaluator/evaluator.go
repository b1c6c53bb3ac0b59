// Package evaluator runs the confidence, viability and token budget engines
// over one conversation snapshot and instruments the result.
package evaluator

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/snow-ghost/ideation/core"
	"github.com/snow-ghost/ideation/pkg/config"
	"github.com/snow-ghost/ideation/pkg/confidence"
	"github.com/snow-ghost/ideation/pkg/logging"
	"github.com/snow-ghost/ideation/pkg/metrics"
	"github.com/snow-ghost/ideation/pkg/tokens"
	"github.com/snow-ghost/ideation/pkg/tracing"
	"github.com/snow-ghost/ideation/pkg/viability"
)

// Snapshot is everything the orchestrator knows after a state update.
type Snapshot struct {
	SessionID         string                    `json:"session_id"`
	SelfDiscovery     core.SelfDiscoveryState   `json:"self_discovery"`
	MarketDiscovery   core.MarketDiscoveryState `json:"market_discovery"`
	Narrowing         core.NarrowingState       `json:"narrowing"`
	Candidate         *core.IdeaCandidate       `json:"candidate,omitempty"`
	UserConfirmations int                       `json:"user_confirmations"`
	Evidence          []core.WebSearchResult    `json:"evidence"`
	History           []core.IdeationMessage    `json:"history"`
	PendingMessage    string                    `json:"pending_message"`
}

// Report bundles the three engine outputs with the derived policy flags.
type Report struct {
	SessionID          string               `json:"session_id"`
	Confidence         confidence.Breakdown `json:"confidence"`
	Displayable        bool                 `json:"displayable"`
	Ready              bool                 `json:"ready"`
	Viability          viability.Breakdown  `json:"viability"`
	ViabilityBand      viability.BandLabel  `json:"viability_band"`
	Tokens             tokens.Usage         `json:"tokens"`
	ApproachingHandoff bool                 `json:"approaching_handoff"`
	RemainingTokens    int                  `json:"remaining_tokens"`
}

// Options wires the evaluator. Zero fields get defaults: production config,
// UUID risk ids, character token estimates, no-op logging, metrics and tracing.
type Options struct {
	Config  *config.Config
	Risks   *viability.RiskFactory
	Encoder tokens.Encoder
	Logger  *logging.Logger
	Metrics *metrics.PrometheusMetrics
	Tracer  *tracing.Tracer
}

type Evaluator struct {
	confidence *confidence.Engine
	viability  *viability.Engine
	tracker    *tokens.Tracker
	logger     *logging.Logger
	metrics    *metrics.PrometheusMetrics
	tracer     *tracing.Tracer
}

func New(opts Options) *Evaluator {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = tracing.NewNoopTracer()
	}

	return &Evaluator{
		confidence: confidence.New(cfg.Confidence),
		viability:  viability.New(cfg, opts.Risks),
		tracker:    tokens.NewTracker(cfg.Budget, opts.Encoder),
		logger:     logger,
		metrics:    opts.Metrics,
		tracer:     tracer,
	}
}

// Evaluate scores the snapshot. The engines run concurrently; the only error
// is ctx being done before they finish.
func (e *Evaluator) Evaluate(ctx context.Context, snap Snapshot) (*Report, error) {
	start := time.Now()
	ctx, span := e.tracer.StartEvaluationSpan(ctx, snap.SessionID, len(snap.History), len(snap.Evidence))
	defer span.End()

	var (
		conf  confidence.Breakdown
		viab  viability.Breakdown
		usage tokens.Usage
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return e.run(gctx, "confidence", func() {
			conf = e.confidence.Compute(confidence.Input{
				SelfDiscovery:     snap.SelfDiscovery,
				MarketDiscovery:   snap.MarketDiscovery,
				Narrowing:         snap.Narrowing,
				Candidate:         snap.Candidate,
				UserConfirmations: snap.UserConfirmations,
			})
		})
	})
	g.Go(func() error {
		return e.run(gctx, "viability", func() {
			viab = e.viability.Compute(viability.Input{
				SelfDiscovery:   snap.SelfDiscovery,
				MarketDiscovery: snap.MarketDiscovery,
				Narrowing:       snap.Narrowing,
				Evidence:        snap.Evidence,
				Candidate:       snap.Candidate,
			})
		})
	})
	g.Go(func() error {
		return e.run(gctx, "tokens", func() {
			usage = e.tracker.Compute(snap.History, snap.PendingMessage)
		})
	})

	if err := g.Wait(); err != nil {
		tracing.RecordSpanError(span, err)
		e.logger.Warn("Evaluation aborted", "session_id", snap.SessionID, "error", err.Error())
		return nil, err
	}

	report := &Report{
		SessionID:          snap.SessionID,
		Confidence:         conf,
		Displayable:        confidence.IsDisplayWorthy(conf.Total),
		Ready:              confidence.IsReady(conf.Total),
		Viability:          viab,
		ViabilityBand:      e.viability.Band(viab.Total),
		Tokens:             usage,
		ApproachingHandoff: e.tracker.IsApproachingHandoff(usage),
		RemainingTokens:    e.tracker.Remaining(usage),
	}

	e.observe(ctx, report, time.Since(start))
	tracing.AddSpanAttributes(span, map[string]interface{}{
		"ideation.confidence":   conf.Total,
		"ideation.viability":    viab.Total,
		"ideation.risks":        len(viab.Risks),
		"ideation.tokens":       usage.Total,
		"ideation.handoff":      usage.ShouldHandoff,
		"ideation.intervention": viab.RequiresIntervention,
	})
	tracing.RecordSpanSuccess(span)

	return report, nil
}

func (e *Evaluator) run(ctx context.Context, engine string, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, span := e.tracer.StartEngineSpan(ctx, engine)
	defer span.End()
	fn()
	return nil
}

func (e *Evaluator) observe(ctx context.Context, r *Report, elapsed time.Duration) {
	e.logger.LogConfidence(ctx, r.SessionID, r.Confidence.Total, r.Confidence.MissingAreas)
	e.logger.LogViability(ctx, r.SessionID, r.Viability.Total, string(r.ViabilityBand),
		len(r.Viability.Risks), r.Viability.RequiresIntervention)
	e.logger.LogTokenUsage(ctx, r.SessionID, r.Tokens.Total, r.Tokens.PercentUsed, r.Tokens.ShouldHandoff)

	if e.metrics == nil {
		return
	}
	e.metrics.RecordEvaluation(elapsed)
	e.metrics.RecordConfidence(r.Confidence.Total, r.Ready)
	e.metrics.RecordViability(r.Viability.Total, string(r.ViabilityBand), r.Viability.RequiresIntervention)
	for _, risk := range r.Viability.Risks {
		e.metrics.RecordRisk(string(risk.Kind), string(risk.Severity))
	}
	e.metrics.RecordTokens(r.Tokens.Total, r.Tokens.ShouldHandoff)
}
