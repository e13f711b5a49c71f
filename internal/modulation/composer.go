package modulation

import (
	"empathy-engine/pkg/models"
)

// Compose применяет процентную дельту к базовым параметрам синтезатора
// и ограничивает результат заявленными диапазонами. Ограничение не
// является ошибкой: оно фиксируется флагами директивы, чтобы насыщение
// границы было наблюдаемым.
func Compose(base models.BaseVoiceParameters, delta models.ParameterDelta, ranges models.VoiceRange) models.VoiceDirective {
	directive := models.VoiceDirective{
		Base:  base,
		Delta: delta,
	}

	directive.Rate, directive.RateClamped = ranges.Rate.Clamp(base.Rate * (1 + delta.RatePct/100))
	directive.Pitch, directive.PitchClamped = ranges.Pitch.Clamp(base.Pitch * (1 + delta.PitchPct/100))
	directive.Volume, directive.VolumeClamped = ranges.Volume.Clamp(base.Volume * (1 + delta.VolumePct/100))

	return directive
}
