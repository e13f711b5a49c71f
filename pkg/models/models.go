package models

import (
	"time"
)

// EmotionLabel представляет эмоциональную категорию текста.
// Набор из 10 меток закрыт и не расширяется динамически.
type EmotionLabel string

const (
	EmotionHappy     EmotionLabel = "happy"
	EmotionExcited   EmotionLabel = "excited"
	EmotionSad       EmotionLabel = "sad"
	EmotionAngry     EmotionLabel = "angry"
	EmotionFear      EmotionLabel = "fear"
	EmotionNeutral   EmotionLabel = "neutral"
	EmotionSurprise  EmotionLabel = "surprise"
	EmotionPositive  EmotionLabel = "positive"
	EmotionNegative  EmotionLabel = "negative"
	EmotionConcerned EmotionLabel = "concerned"
)

// AllEmotionLabels возвращает полный набор меток в фиксированном порядке
func AllEmotionLabels() []EmotionLabel {
	return []EmotionLabel{
		EmotionHappy,
		EmotionExcited,
		EmotionSad,
		EmotionAngry,
		EmotionFear,
		EmotionNeutral,
		EmotionSurprise,
		EmotionPositive,
		EmotionNegative,
		EmotionConcerned,
	}
}

// IsValid проверяет, что метка входит в закрытый набор
func (l EmotionLabel) IsValid() bool {
	switch l {
	case EmotionHappy, EmotionExcited, EmotionSad, EmotionAngry, EmotionFear,
		EmotionNeutral, EmotionSurprise, EmotionPositive, EmotionNegative, EmotionConcerned:
		return true
	}
	return false
}

// EmotionResult представляет результат классификации текста.
// Создается один раз на запрос и не изменяется после создания.
type EmotionResult struct {
	Label      EmotionLabel       `json:"label"`
	Confidence float64            `json:"confidence"` // [0, 1]
	Source     string             `json:"source"`     // "model", "basic" или "default"
	Details    map[string]float64 `json:"details,omitempty"`
}

// IntensityTier представляет дискретный уровень интенсивности эмоции
type IntensityTier string

const (
	IntensityLow    IntensityTier = "low"
	IntensityMedium IntensityTier = "medium"
	IntensityHigh   IntensityTier = "high"
)

// Rank возвращает порядковый номер уровня: low < medium < high
func (t IntensityTier) Rank() int {
	switch t {
	case IntensityLow:
		return 0
	case IntensityMedium:
		return 1
	case IntensityHigh:
		return 2
	default:
		return -1
	}
}

// ParameterDelta представляет относительные изменения параметров голоса
// в процентах. Знак компоненты задает направление изменения.
type ParameterDelta struct {
	RatePct   float64 `json:"rate_pct" yaml:"rate"`
	PitchPct  float64 `json:"pitch_pct" yaml:"pitch"`
	VolumePct float64 `json:"volume_pct" yaml:"volume"`
}

// IsZero проверяет, что дельта не меняет ни один параметр
func (d ParameterDelta) IsZero() bool {
	return d.RatePct == 0 && d.PitchPct == 0 && d.VolumePct == 0
}

// BaseVoiceParameters представляет базовые параметры голоса синтезатора
// в его собственных единицах. Принадлежат TTS адаптеру, ядро их не изменяет.
type BaseVoiceParameters struct {
	Rate   float64 `json:"rate"`
	Pitch  float64 `json:"pitch"`
	Volume float64 `json:"volume"`
}

// ValueRange представляет допустимый диапазон одного параметра
type ValueRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Clamp возвращает значение, ограниченное диапазоном, и флаг того,
// что ограничение сработало
func (r ValueRange) Clamp(v float64) (float64, bool) {
	if v < r.Min {
		return r.Min, true
	}
	if v > r.Max {
		return r.Max, true
	}
	return v, false
}

// VoiceRange представляет диапазоны параметров, заявленные синтезатором
type VoiceRange struct {
	Rate   ValueRange `json:"rate"`
	Pitch  ValueRange `json:"pitch"`
	Volume ValueRange `json:"volume"`
}

// VoiceDirective представляет итоговую директиву для синтезатора:
// базовые параметры, примененная дельта и абсолютные финальные значения.
// Создается один раз на запрос, потребляется адаптером синтеза ровно один раз.
type VoiceDirective struct {
	Base  BaseVoiceParameters `json:"base"`
	Delta ParameterDelta      `json:"delta"`

	Rate   float64 `json:"rate"`
	Pitch  float64 `json:"pitch"`
	Volume float64 `json:"volume"`

	// Флаги срабатывания ограничения по диапазону (диагностика, не ошибка)
	RateClamped   bool `json:"rate_clamped,omitempty"`
	PitchClamped  bool `json:"pitch_clamped,omitempty"`
	VolumeClamped bool `json:"volume_clamped,omitempty"`
}

// Clamped проверяет, было ли ограничено хотя бы одно значение
func (d *VoiceDirective) Clamped() bool {
	return d.RateClamped || d.PitchClamped || d.VolumeClamped
}

// SynthesisRecord представляет запись истории обработки запроса
type SynthesisRecord struct {
	ID         int64         `json:"id" db:"id"`
	TextHash   string        `json:"text_hash" db:"text_hash"` // SHA-256 текста, сам текст не храним
	TextLength int           `json:"text_length" db:"text_length"`
	Label      EmotionLabel  `json:"label" db:"label"`
	Confidence float64       `json:"confidence" db:"confidence"`
	Source     string        `json:"source" db:"source"`
	Tier       IntensityTier `json:"tier" db:"tier"`
	Engine     string        `json:"engine" db:"engine"`
	Rate       float64       `json:"rate" db:"rate"`
	Pitch      float64       `json:"pitch" db:"pitch"`
	Volume     float64       `json:"volume" db:"volume"`
	Clamped    bool          `json:"clamped" db:"clamped"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
}
