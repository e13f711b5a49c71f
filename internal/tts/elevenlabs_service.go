package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"empathy-engine/pkg/models"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ElevenLabsService предоставляет функциональность Text-to-Speech через
// облачный API ElevenLabs. Параметры директивы передаются через SSML prosody,
// запросы ограничены по частоте и повторяются при временных сбоях.
type ElevenLabsService struct {
	logger  *zap.Logger
	apiKey  string
	voiceID string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewElevenLabsService создает новый ElevenLabs TTS сервис
func NewElevenLabsService(logger *zap.Logger, apiKey, voiceID, baseURL string) *ElevenLabsService {
	return &ElevenLabsService{
		logger:  logger,
		apiKey:  apiKey,
		voiceID: voiceID,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 60 * time.Second, // Облачный синтез длинного текста медленный
		},
		limiter: rate.NewLimiter(rate.Limit(2), 2), // 2 запроса в секунду
	}
}

// GetName возвращает название движка
func (s *ElevenLabsService) GetName() string {
	return "elevenlabs"
}

// BaseParameters возвращает нейтральные параметры ElevenLabs:
// проценты от голоса по умолчанию
func (s *ElevenLabsService) BaseParameters() models.BaseVoiceParameters {
	return models.BaseVoiceParameters{
		Rate:   100,
		Pitch:  100,
		Volume: 100,
	}
}

// Ranges возвращает диапазоны, которые принимает prosody разметка
func (s *ElevenLabsService) Ranges() models.VoiceRange {
	return models.VoiceRange{
		Rate:   models.ValueRange{Min: 50, Max: 200},
		Pitch:  models.ValueRange{Min: 50, Max: 200},
		Volume: models.ValueRange{Min: 50, Max: 200},
	}
}

// synthesizeRequest представляет тело запроса к ElevenLabs API
type synthesizeRequest struct {
	Text          string         `json:"text"`
	ModelID       string         `json:"model_id"`
	VoiceSettings map[string]any `json:"voice_settings,omitempty"`
}

// SynthesizeText преобразует текст в аудио через ElevenLabs API
func (s *ElevenLabsService) SynthesizeText(ctx context.Context, text string, directive models.VoiceDirective) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("ожидание лимита запросов прервано: %w", err)
	}

	ssml := s.buildSSML(text, directive)

	s.logger.Info("🎵 генерируем аудио через ElevenLabs",
		zap.Int("text_length", len(text)),
		zap.String("voice_id", s.voiceID))

	var audioData []byte

	// Временные сбои облачного API повторяем с экспоненциальной задержкой
	operation := func() error {
		data, err := s.doSynthesize(ctx, ssml)
		if err != nil {
			return err
		}
		audioData = data
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesisFailed, err)
	}

	s.logger.Info("🎵 аудио успешно сгенерировано",
		zap.Int("audio_size", len(audioData)))

	return audioData, nil
}

// buildSSML оборачивает текст в prosody разметку с отклонениями
// директивы от нейтральных 100%
func (s *ElevenLabsService) buildSSML(text string, directive models.VoiceDirective) string {
	return fmt.Sprintf(
		`<speak><prosody rate="%+.0f%%" pitch="%+.0f%%" volume="%+.0f%%">%s</prosody></speak>`,
		directive.Rate-100, directive.Pitch-100, directive.Volume-100, text)
}

// doSynthesize выполняет один запрос синтеза
func (s *ElevenLabsService) doSynthesize(ctx context.Context, ssml string) ([]byte, error) {
	url := fmt.Sprintf("%s/text-to-speech/%s", s.baseURL, s.voiceID)

	reqBody, err := json.Marshal(synthesizeRequest{
		Text:    ssml,
		ModelID: "eleven_multilingual_v2",
	})
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("ошибка сериализации запроса: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("ошибка создания запроса: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", s.apiKey)
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		apiErr := fmt.Errorf("неожиданный статус от ElevenLabs: %d, тело: %s", resp.StatusCode, respBody)

		// Повторяем только перегрузку и сбои сервера
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, apiErr
		}
		return nil, backoff.Permanent(apiErr)
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения аудио данных: %w", err)
	}

	return audioData, nil
}
