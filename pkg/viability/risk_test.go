package viability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snow-ghost/ideation/core"
	"github.com/snow-ghost/ideation/pkg/config"
)

func TestNewRisk(t *testing.T) {
	f := sequentialFactory()

	r := f.NewRisk(RiskParams{
		CandidateID: "cand-1",
		Kind:        RiskSaturatedMarket,
		Description: "crowded",
		Severity:    core.SeverityHigh,
	})

	assert.Equal(t, "risk-1", r.ID)
	assert.Equal(t, "cand-1", r.CandidateID)
	assert.Equal(t, RiskSaturatedMarket, r.Kind)
	assert.Equal(t, core.SeverityHigh, r.Severity)
	assert.Nil(t, r.EvidenceURL)
	assert.Nil(t, r.EvidenceText)
	assert.False(t, r.Acknowledged)
	assert.Nil(t, r.AcknowledgedAt)
	assert.Nil(t, r.UserResponse)
	assert.Equal(t, fixedTime, r.CreatedAt)

	next := f.NewRisk(RiskParams{Kind: RiskTooVague, EvidenceURL: "https://e.example", EvidenceText: "quote"})
	assert.Equal(t, "risk-2", next.ID)
	require.NotNil(t, next.EvidenceURL)
	assert.Equal(t, "https://e.example", *next.EvidenceURL)
	require.NotNil(t, next.EvidenceText)
	assert.Equal(t, "quote", *next.EvidenceText)
}

func TestDefaultRiskFactoryIDs(t *testing.T) {
	f := NewRiskFactory()
	a := f.NewRisk(RiskParams{Kind: RiskTooVague})
	b := f.NewRisk(RiskParams{Kind: RiskTooVague})

	assert.Len(t, a.ID, 36)
	assert.NotEqual(t, a.ID, b.ID)
	assert.WithinDuration(t, time.Now(), a.CreatedAt, time.Second)
}

func TestAcknowledgeReturnsCopy(t *testing.T) {
	r := sequentialFactory().NewRisk(RiskParams{Kind: RiskWrongTiming, Severity: core.SeverityMedium})
	at := fixedTime.Add(time.Hour)

	acked := r.Acknowledge("we have a new distribution channel", at)

	assert.True(t, acked.Acknowledged)
	require.NotNil(t, acked.AcknowledgedAt)
	assert.Equal(t, at, *acked.AcknowledgedAt)
	require.NotNil(t, acked.UserResponse)
	assert.Equal(t, "we have a new distribution channel", *acked.UserResponse)
	assert.Equal(t, r.ID, acked.ID)

	assert.False(t, r.Acknowledged)
	assert.Nil(t, r.AcknowledgedAt)
	assert.Nil(t, r.UserResponse)

	silent := r.Acknowledge("", at)
	assert.True(t, silent.Acknowledged)
	assert.Nil(t, silent.UserResponse)
}

func TestBreakdownRiskFilters(t *testing.T) {
	f := sequentialFactory()
	high := f.NewRisk(RiskParams{Kind: RiskSaturatedMarket, Severity: core.SeverityHigh})
	medium := f.NewRisk(RiskParams{Kind: RiskTooVague, Severity: core.SeverityMedium})
	acked := f.NewRisk(RiskParams{Kind: RiskUnrealistic, Severity: core.SeverityHigh}).Acknowledge("ok", fixedTime)

	b := Breakdown{Risks: []Risk{high, medium, acked}}

	assert.Equal(t, []Risk{high, medium}, b.UnacknowledgedRisks())
	assert.Equal(t, []Risk{high, acked}, b.RisksBySeverity(core.SeverityHigh))
	assert.Empty(t, b.RisksBySeverity(core.SeverityCritical))
}

func TestBand(t *testing.T) {
	tests := []struct {
		score int
		want  BandLabel
	}{
		{100, BandHealthy},
		{75, BandHealthy},
		{74, BandCaution},
		{50, BandCaution},
		{49, BandWarning},
		{25, BandWarning},
		{24, BandCritical},
		{0, BandCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Band(tt.score), "score %d", tt.score)
	}
}

func TestEngineBandUsesConfiguredThresholds(t *testing.T) {
	cfg := config.Default()
	cfg.Bands = config.ViabilityBands{Healthy: 90, Caution: 60, Warning: 30, Critical: 0}
	e := New(cfg, sequentialFactory())

	assert.Equal(t, BandCaution, e.Band(80))
	assert.Equal(t, BandWarning, e.Band(55))
	assert.True(t, e.RequiresIntervention(55, nil))
	assert.False(t, RequiresIntervention(55, nil))
}

func TestRequiresIntervention(t *testing.T) {
	critical := sequentialFactory().NewRisk(RiskParams{Kind: RiskImpossible, Severity: core.SeverityCritical})
	high := sequentialFactory().NewRisk(RiskParams{Kind: RiskUnrealistic, Severity: core.SeverityHigh})

	assert.True(t, RequiresIntervention(49, nil))
	assert.False(t, RequiresIntervention(50, nil))
	assert.False(t, RequiresIntervention(90, []Risk{high}))
	assert.True(t, RequiresIntervention(90, []Risk{high, critical}))
}
