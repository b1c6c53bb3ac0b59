package viability

import (
	"github.com/snow-ghost/ideation/core"
	"github.com/snow-ghost/ideation/pkg/config"
)

type BandLabel string

const (
	BandHealthy  BandLabel = "healthy"
	BandCaution  BandLabel = "caution"
	BandWarning  BandLabel = "warning"
	BandCritical BandLabel = "critical"
)

// Band labels a raw viability score using the production bands.
func Band(score int) BandLabel {
	return bandFor(score, config.Default().Bands)
}

func bandFor(score int, b config.ViabilityBands) BandLabel {
	switch {
	case score >= b.Healthy:
		return BandHealthy
	case score >= b.Caution:
		return BandCaution
	case score >= b.Warning:
		return BandWarning
	default:
		return BandCritical
	}
}

// RequiresIntervention reports whether a score and its risks should pause the
// conversation, using the production bands.
func RequiresIntervention(score int, risks []Risk) bool {
	return requiresIntervention(score, risks, config.Default().Bands)
}

// RequiresIntervention applies the engine's bands.
func (e *Engine) RequiresIntervention(score int, risks []Risk) bool {
	return requiresIntervention(score, risks, e.bands)
}

func requiresIntervention(score int, risks []Risk, b config.ViabilityBands) bool {
	if score < b.Caution {
		return true
	}
	for _, r := range risks {
		if r.Severity == core.SeverityCritical {
			return true
		}
	}
	return false
}
