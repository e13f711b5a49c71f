package modulation

import (
	"math"
	"os"
	"testing"

	"empathy-engine/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}

func loadDefaultProfile(t *testing.T) *Profile {
	t.Helper()
	profile, err := LoadProfile("", zap.NewNop())
	require.NoError(t, err)
	return profile
}

func TestLoadProfile_Default(t *testing.T) {
	profile := loadDefaultProfile(t)

	assert.Len(t, profile.Emotions, 10)
	assert.Equal(t, 0.4, profile.Intensity.LowBelow)
	assert.Equal(t, 0.7, profile.Intensity.HighFrom)
	assert.Equal(t, 0.5, profile.Scale.Low)
	assert.Equal(t, 1.0, profile.Scale.Medium)
	assert.Equal(t, 1.5, profile.Scale.High)
}

func TestBaseDelta_ReferenceTable(t *testing.T) {
	profile := loadDefaultProfile(t)

	// Эталонная таблица эмоция -> дельта
	expected := map[models.EmotionLabel]models.ParameterDelta{
		models.EmotionHappy:     {RatePct: 20, PitchPct: 15, VolumePct: 10},
		models.EmotionExcited:   {RatePct: 30, PitchPct: 20, VolumePct: 15},
		models.EmotionSad:       {RatePct: -10, PitchPct: -15, VolumePct: -10},
		models.EmotionAngry:     {RatePct: 10, PitchPct: 5, VolumePct: 20},
		models.EmotionFear:      {RatePct: 15, PitchPct: 10, VolumePct: -5},
		models.EmotionNeutral:   {RatePct: 0, PitchPct: 0, VolumePct: 0},
		models.EmotionSurprise:  {RatePct: 15, PitchPct: 20, VolumePct: 15},
		models.EmotionPositive:  {RatePct: 10, PitchPct: 10, VolumePct: 5},
		models.EmotionNegative:  {RatePct: -5, PitchPct: -5, VolumePct: -5},
		models.EmotionConcerned: {RatePct: -5, PitchPct: -5, VolumePct: 5},
	}

	for label, want := range expected {
		assert.Equal(t, want, profile.BaseDelta(label), "эмоция %s", label)
	}
}

func TestLoadProfile_Validation(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "отсутствует эмоция",
			yaml: `
emotions:
  happy: {rate: 20, pitch: 15, volume: 10}
intensity: {low_below: 0.4, high_from: 0.7}
scale: {low: 0.5, medium: 1.0, high: 1.5}`,
		},
		{
			name: "ненулевая дельта для neutral",
			yaml: `
emotions:
  happy: {rate: 20, pitch: 15, volume: 10}
  excited: {rate: 30, pitch: 20, volume: 15}
  sad: {rate: -10, pitch: -15, volume: -10}
  angry: {rate: 10, pitch: 5, volume: 20}
  fear: {rate: 15, pitch: 10, volume: -5}
  neutral: {rate: 1, pitch: 0, volume: 0}
  surprise: {rate: 15, pitch: 20, volume: 15}
  positive: {rate: 10, pitch: 10, volume: 5}
  negative: {rate: -5, pitch: -5, volume: -5}
  concerned: {rate: -5, pitch: -5, volume: 5}
intensity: {low_below: 0.4, high_from: 0.7}
scale: {low: 0.5, medium: 1.0, high: 1.5}`,
		},
		{
			name: "немонотонные коэффициенты",
			yaml: `
emotions:
  happy: {rate: 20, pitch: 15, volume: 10}
  excited: {rate: 30, pitch: 20, volume: 15}
  sad: {rate: -10, pitch: -15, volume: -10}
  angry: {rate: 10, pitch: 5, volume: 20}
  fear: {rate: 15, pitch: 10, volume: -5}
  neutral: {rate: 0, pitch: 0, volume: 0}
  surprise: {rate: 15, pitch: 20, volume: 15}
  positive: {rate: 10, pitch: 10, volume: 5}
  negative: {rate: -5, pitch: -5, volume: -5}
  concerned: {rate: -5, pitch: -5, volume: 5}
intensity: {low_below: 0.4, high_from: 0.7}
scale: {low: 1.5, medium: 1.0, high: 0.5}`,
		},
		{
			name: "перепутанные границы интенсивности",
			yaml: `
emotions:
  happy: {rate: 20, pitch: 15, volume: 10}
  excited: {rate: 30, pitch: 20, volume: 15}
  sad: {rate: -10, pitch: -15, volume: -10}
  angry: {rate: 10, pitch: 5, volume: 20}
  fear: {rate: 15, pitch: 10, volume: -5}
  neutral: {rate: 0, pitch: 0, volume: 0}
  surprise: {rate: 15, pitch: 20, volume: 15}
  positive: {rate: 10, pitch: 10, volume: 5}
  negative: {rate: -5, pitch: -5, volume: -5}
  concerned: {rate: -5, pitch: -5, volume: 5}
intensity: {low_below: 0.7, high_from: 0.4}
scale: {low: 0.5, medium: 1.0, high: 1.5}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := t.TempDir() + "/profile.yaml"
			require.NoError(t, writeFile(path, tt.yaml))

			_, err := LoadProfile(path, logger)
			assert.Error(t, err)
		})
	}
}

func TestEstimateIntensity(t *testing.T) {
	profile := loadDefaultProfile(t)

	tests := []struct {
		confidence float64
		want       models.IntensityTier
	}{
		{0.0, models.IntensityLow},
		{0.39, models.IntensityLow},
		{0.4, models.IntensityMedium}, // граница принадлежит верхнему интервалу
		{0.69, models.IntensityMedium},
		{0.7, models.IntensityHigh},
		{1.0, models.IntensityHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, profile.EstimateIntensity(tt.confidence),
			"confidence=%v", tt.confidence)
	}
}

func TestEstimateIntensity_Monotonic(t *testing.T) {
	profile := loadDefaultProfile(t)

	// Уровень не убывает с ростом уверенности
	prev := -1
	for c := 0.0; c <= 1.0; c += 0.01 {
		tier := profile.EstimateIntensity(c)
		assert.GreaterOrEqual(t, tier.Rank(), prev, "confidence=%v", c)
		prev = tier.Rank()
	}
}

func TestEstimateIntensityWithCues(t *testing.T) {
	profile := loadDefaultProfile(t)

	// Восклицательные знаки поднимают уровень до high
	tier := profile.EstimateIntensityWithCues(0.2, "OMG! This is AMAZING!!! I can't believe it!")
	assert.Equal(t, models.IntensityHigh, tier)

	// Высокая доля заглавных букв тоже
	tier = profile.EstimateIntensityWithCues(0.5, "THIS IS GREAT")
	assert.Equal(t, models.IntensityHigh, tier)

	// Признаки никогда не понижают уровень
	tier = profile.EstimateIntensityWithCues(0.9, "calm text without cues")
	assert.Equal(t, models.IntensityHigh, tier)

	// Обычный текст не меняет оценку
	tier = profile.EstimateIntensityWithCues(0.5, "a perfectly ordinary sentence")
	assert.Equal(t, models.IntensityMedium, tier)
}

func TestScaleDelta(t *testing.T) {
	profile := loadDefaultProfile(t)

	delta := models.ParameterDelta{RatePct: 30, PitchPct: 20, VolumePct: -5}

	low := profile.ScaleDelta(delta, models.IntensityLow)
	medium := profile.ScaleDelta(delta, models.IntensityMedium)
	high := profile.ScaleDelta(delta, models.IntensityHigh)

	assert.Equal(t, models.ParameterDelta{RatePct: 15, PitchPct: 10, VolumePct: -2.5}, low)
	assert.Equal(t, delta, medium)
	assert.Equal(t, models.ParameterDelta{RatePct: 45, PitchPct: 30, VolumePct: -7.5}, high)

	// Знак каждой компоненты сохраняется
	assert.True(t, math.Signbit(low.VolumePct))
	assert.True(t, math.Signbit(high.VolumePct))

	// Величина эффекта не убывает от low к high
	assert.LessOrEqual(t, math.Abs(low.RatePct), math.Abs(medium.RatePct))
	assert.LessOrEqual(t, math.Abs(medium.RatePct), math.Abs(high.RatePct))
}

func TestCompose(t *testing.T) {
	base := models.BaseVoiceParameters{Rate: 200, Pitch: 50, Volume: 1.0}
	ranges := models.VoiceRange{
		Rate:   models.ValueRange{Min: 80, Max: 450},
		Pitch:  models.ValueRange{Min: 0, Max: 99},
		Volume: models.ValueRange{Min: 0, Max: 1.0},
	}

	directive := Compose(base, models.ParameterDelta{RatePct: 20, PitchPct: 15, VolumePct: 10}, ranges)

	assert.InDelta(t, 240, directive.Rate, 1e-9)
	assert.InDelta(t, 57.5, directive.Pitch, 1e-9)
	// Громкость насыщает верхнюю границу
	assert.Equal(t, 1.0, directive.Volume)
	assert.True(t, directive.VolumeClamped)
	assert.False(t, directive.RateClamped)
	assert.False(t, directive.PitchClamped)
	assert.True(t, directive.Clamped())
}

func TestCompose_NeutralKeepsBaseline(t *testing.T) {
	base := models.BaseVoiceParameters{Rate: 200, Pitch: 50, Volume: 0.8}
	ranges := models.VoiceRange{
		Rate:   models.ValueRange{Min: 80, Max: 450},
		Pitch:  models.ValueRange{Min: 0, Max: 99},
		Volume: models.ValueRange{Min: 0, Max: 1.0},
	}

	// Нулевая дельта оставляет базовые параметры без изменений
	directive := Compose(base, models.ParameterDelta{}, ranges)

	assert.Equal(t, base.Rate, directive.Rate)
	assert.Equal(t, base.Pitch, directive.Pitch)
	assert.Equal(t, base.Volume, directive.Volume)
	assert.False(t, directive.Clamped())
}

func TestCompose_ClampFixedPoint(t *testing.T) {
	base := models.BaseVoiceParameters{Rate: 400, Pitch: 90, Volume: 1.0}
	ranges := models.VoiceRange{
		Rate:   models.ValueRange{Min: 80, Max: 450},
		Pitch:  models.ValueRange{Min: 0, Max: 99},
		Volume: models.ValueRange{Min: 0, Max: 1.0},
	}

	delta := models.ParameterDelta{RatePct: 45, PitchPct: 30, VolumePct: 22.5}
	directive := Compose(base, delta, ranges)

	// Повторное ограничение уже ограниченных значений ничего не меняет
	rate, clamped := ranges.Rate.Clamp(directive.Rate)
	assert.Equal(t, directive.Rate, rate)
	assert.False(t, clamped)

	pitch, clamped := ranges.Pitch.Clamp(directive.Pitch)
	assert.Equal(t, directive.Pitch, pitch)
	assert.False(t, clamped)

	volume, clamped := ranges.Volume.Clamp(directive.Volume)
	assert.Equal(t, directive.Volume, volume)
	assert.False(t, clamped)
}
