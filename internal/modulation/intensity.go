package modulation

import (
	"strings"
	"unicode"

	"empathy-engine/pkg/models"
)

// Пороговые значения текстовых признаков, усиливающих интенсивность
const (
	exclamationThreshold = 2
	capsRatioThreshold   = 0.3
)

// EstimateIntensity возвращает уровень интенсивности для уверенности
// классификатора. Функция тотальна и детерминирована: одинаковая
// уверенность всегда дает одинаковый уровень.
func (p *Profile) EstimateIntensity(confidence float64) models.IntensityTier {
	switch {
	case confidence < p.Intensity.LowBelow:
		return models.IntensityLow
	case confidence < p.Intensity.HighFrom:
		return models.IntensityMedium
	default:
		return models.IntensityHigh
	}
}

// EstimateIntensityWithCues дополняет оценку по уверенности текстовыми
// признаками: большое число восклицательных знаков или высокая доля
// заглавных букв поднимают уровень до high. Уровень никогда не понижается.
func (p *Profile) EstimateIntensityWithCues(confidence float64, text string) models.IntensityTier {
	tier := p.EstimateIntensity(confidence)
	if tier == models.IntensityHigh {
		return tier
	}

	if strings.Count(text, "!") > exclamationThreshold || capsRatio(text) > capsRatioThreshold {
		return models.IntensityHigh
	}

	return tier
}

// capsRatio возвращает долю заглавных букв среди непробельных символов
func capsRatio(text string) float64 {
	var upper, total int
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(upper) / float64(total)
}
