package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"empathy-engine/internal/emotion"
	"empathy-engine/internal/metrics"
	"empathy-engine/internal/modulation"
	"empathy-engine/internal/store"
	"empathy-engine/pkg/models"

	"go.uber.org/zap"
)

// Analysis представляет полный результат обработки текста:
// от классификации эмоции до финальной директивы синтеза
type Analysis struct {
	Emotion     models.EmotionResult  `json:"emotion"`
	Tier        models.IntensityTier  `json:"tier"`
	BaseDelta   models.ParameterDelta `json:"base_delta"`
	ScaledDelta models.ParameterDelta `json:"scaled_delta"`
	Directive   models.VoiceDirective `json:"directive"`
}

// Service оркестрирует конвейер обработки: классификация эмоции,
// оценка интенсивности, масштабирование дельты и сборка директивы
type Service struct {
	classifier emotion.Classifier
	profile    *modulation.Profile
	metrics    *metrics.Metrics
	history    store.DirectiveRepository
	logger     *zap.Logger
}

// NewService создает новый сервис обработки. Метрики и история опциональны.
func NewService(classifier emotion.Classifier, profile *modulation.Profile, m *metrics.Metrics, history store.DirectiveRepository, logger *zap.Logger) *Service {
	return &Service{
		classifier: classifier,
		profile:    profile,
		metrics:    m,
		history:    history,
		logger:     logger,
	}
}

// Process проводит текст через весь конвейер и возвращает директиву
// для движка с указанными базовыми параметрами и диапазонами.
// Ошибка возможна только на невалидном входе: отказы уровней
// классификации поглощаются цепочкой.
func (s *Service) Process(ctx context.Context, text, engineName string, base models.BaseVoiceParameters, ranges models.VoiceRange) (*Analysis, error) {
	started := time.Now()

	result, err := s.classifier.Classify(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("ошибка классификации текста: %w", err)
	}

	// Пунктуационные сигналы могут поднять интенсивность, но не опустить
	tier := s.profile.EstimateIntensityWithCues(result.Confidence, text)

	baseDelta := s.profile.BaseDelta(result.Label)
	scaledDelta := s.profile.ScaleDelta(baseDelta, tier)
	directive := modulation.Compose(base, scaledDelta, ranges)

	s.logger.Info("текст обработан",
		zap.String("label", string(result.Label)),
		zap.Float64("confidence", result.Confidence),
		zap.String("source", result.Source),
		zap.String("tier", string(tier)),
		zap.Float64("rate", directive.Rate),
		zap.Float64("pitch", directive.Pitch),
		zap.Float64("volume", directive.Volume),
		zap.Bool("clamped", directive.Clamped()),
		zap.Duration("elapsed", time.Since(started)))

	s.recordMetrics(result, tier, directive, time.Since(started))
	s.recordHistory(ctx, text, engineName, result, tier, directive)

	return &Analysis{
		Emotion:     *result,
		Tier:        tier,
		BaseDelta:   baseDelta,
		ScaledDelta: scaledDelta,
		Directive:   directive,
	}, nil
}

// recordMetrics записывает метрики обработки
func (s *Service) recordMetrics(result *models.EmotionResult, tier models.IntensityTier, directive models.VoiceDirective, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}

	s.metrics.RecordProcessing(string(result.Label), string(tier), result.Source, result.Confidence, elapsed.Seconds())

	if directive.RateClamped {
		s.metrics.RecordClamp("rate")
	}
	if directive.PitchClamped {
		s.metrics.RecordClamp("pitch")
	}
	if directive.VolumeClamped {
		s.metrics.RecordClamp("volume")
	}
}

// recordHistory сохраняет запись обработки в базу. Сбой записи
// не прерывает обработку запроса.
func (s *Service) recordHistory(ctx context.Context, text, engineName string, result *models.EmotionResult, tier models.IntensityTier, directive models.VoiceDirective) {
	if s.history == nil {
		return
	}

	hash := sha256.Sum256([]byte(text))

	record := &models.SynthesisRecord{
		TextHash:   hex.EncodeToString(hash[:]),
		TextLength: len(text),
		Label:      result.Label,
		Confidence: result.Confidence,
		Source:     result.Source,
		Tier:       tier,
		Engine:     engineName,
		Rate:       directive.Rate,
		Pitch:      directive.Pitch,
		Volume:     directive.Volume,
		Clamped:    directive.Clamped(),
	}

	if err := s.history.Create(ctx, record); err != nil {
		s.logger.Warn("не удалось сохранить запись истории", zap.Error(err))
	}
}
