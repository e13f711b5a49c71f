package modulation

import (
	"empathy-engine/pkg/models"
)

// factor возвращает множитель для уровня интенсивности
func (p *Profile) factor(tier models.IntensityTier) float64 {
	switch tier {
	case models.IntensityLow:
		return p.Scale.Low
	case models.IntensityHigh:
		return p.Scale.High
	default:
		return p.Scale.Medium
	}
}

// ScaleDelta масштабирует дельту множителем уровня интенсивности.
// Множители неотрицательны, поэтому знак каждой компоненты сохраняется.
func (p *Profile) ScaleDelta(delta models.ParameterDelta, tier models.IntensityTier) models.ParameterDelta {
	f := p.factor(tier)
	return models.ParameterDelta{
		RatePct:   delta.RatePct * f,
		PitchPct:  delta.PitchPct * f,
		VolumePct: delta.VolumePct * f,
	}
}
