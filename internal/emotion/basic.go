package emotion

import (
	"context"
	"math"
	"strings"
	"unicode"

	"empathy-engine/pkg/models"

	"go.uber.org/zap"
)

// Границы полярности для отображения в метки эмоций
const (
	strongPolarity = 0.3
	weakPolarity   = 0.1
)

// BasicClassifier представляет резервный уровень классификации:
// лексический анализ тональности по оценочному словарю. Не требует
// внешних сервисов и всегда доступен.
type BasicClassifier struct {
	logger *zap.Logger
}

// NewBasicClassifier создает новый базовый классификатор
func NewBasicClassifier(logger *zap.Logger) *BasicClassifier {
	return &BasicClassifier{
		logger: logger,
	}
}

// GetName возвращает название уровня
func (c *BasicClassifier) GetName() string {
	return "basic"
}

// Classify вычисляет полярность текста и отображает ее в ближайшую метку.
// Сильная полярность дает happy/sad, слабая positive/negative,
// околонулевая neutral. Уверенность выводится из величины полярности
// и приглушается объективностью текста.
func (c *BasicClassifier) Classify(ctx context.Context, text string) (*models.EmotionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	polarity, subjectivity := c.sentiment(text)

	var label models.EmotionLabel
	var score float64

	switch {
	case polarity > strongPolarity:
		label = models.EmotionHappy
		score = math.Min(1.0, 0.5+polarity)
	case polarity < -strongPolarity:
		label = models.EmotionSad
		score = math.Min(1.0, 0.5-polarity)
	case polarity > weakPolarity:
		label = models.EmotionPositive
		score = 0.5 + polarity
	case polarity < -weakPolarity:
		label = models.EmotionNegative
		score = 0.5 - polarity
	default:
		label = models.EmotionNeutral
		score = 1.0 - math.Abs(polarity)
	}

	// Объективный текст снижает уверенность в эмоциональной окраске
	score = score * (0.5 + subjectivity/2)

	c.logger.Debug("лексический анализ текста",
		zap.String("label", string(label)),
		zap.Float64("polarity", polarity),
		zap.Float64("subjectivity", subjectivity))

	return &models.EmotionResult{
		Label:      label,
		Confidence: score,
		Source:     c.GetName(),
		Details: map[string]float64{
			"polarity":     polarity,
			"subjectivity": subjectivity,
		},
	}, nil
}

// sentiment вычисляет среднюю полярность и субъективность слов текста
// с учетом отрицаний и усилителей
func (c *BasicClassifier) sentiment(text string) (float64, float64) {
	words := tokenize(text)

	var polaritySum, subjectivitySum float64
	var scored int

	negated := false
	boost := 1.0

	for _, word := range words {
		if negations[word] {
			negated = true
			continue
		}
		if factor, ok := intensifiers[word]; ok {
			boost *= factor
			continue
		}

		entry, ok := lexicon[word]
		if !ok {
			negated = false
			boost = 1.0
			continue
		}

		polarity := entry.polarity * boost
		if negated {
			// Отрицание инвертирует и ослабляет окраску: "not good"
			// слабее, чем "bad"
			polarity = -polarity * 0.5
		}

		polaritySum += clampUnit(polarity)
		subjectivitySum += entry.subjectivity
		scored++

		negated = false
		boost = 1.0
	}

	if scored == 0 {
		return 0, 0
	}

	return clampUnit(polaritySum / float64(scored)), subjectivitySum / float64(scored)
}

// tokenize разбивает текст на слова в нижнем регистре без пунктуации
func tokenize(text string) []string {
	var words []string
	var b strings.Builder

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		if b.Len() > 0 {
			words = append(words, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		words = append(words, b.String())
	}

	return words
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
