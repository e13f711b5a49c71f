package emotion

import (
	"context"
	"strings"

	"empathy-engine/pkg/models"

	"go.uber.org/zap"
)

// Chain представляет упорядоченную цепочку уровней классификации.
// Уровни пробуются по приоритету; ошибка уровня приводит к переходу
// на следующий и никогда не доходит до вызывающего. Если все уровни
// отказали, возвращается neutral с нулевой уверенностью: система
// всегда выдает какой-то результат.
type Chain struct {
	tiers  []Classifier
	logger *zap.Logger
}

// NewChain создает цепочку из переданных уровней в порядке приоритета
func NewChain(logger *zap.Logger, tiers ...Classifier) *Chain {
	return &Chain{
		tiers:  tiers,
		logger: logger,
	}
}

// GetName возвращает название цепочки
func (c *Chain) GetName() string {
	return "chain"
}

// Classify валидирует и очищает текст, затем пробует уровни по порядку
func (c *Chain) Classify(ctx context.Context, text string) (*models.EmotionResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidInput
	}

	cleaned := CleanText(text)
	if cleaned == "" {
		return nil, ErrInvalidInput
	}

	for _, tier := range c.tiers {
		result, err := tier.Classify(ctx, cleaned)
		if err == nil {
			return result, nil
		}

		c.logger.Warn("уровень классификации отказал, переходим к следующему",
			zap.String("tier", tier.GetName()),
			zap.Error(err))
	}

	// Отказоустойчивый результат по умолчанию: нейтральная эмоция
	// с нулевой уверенностью
	c.logger.Warn("все уровни классификации отказали, возвращаем neutral")

	return &models.EmotionResult{
		Label:      models.EmotionNeutral,
		Confidence: 0,
		Source:     "default",
	}, nil
}
