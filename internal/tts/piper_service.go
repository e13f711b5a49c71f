package tts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"empathy-engine/pkg/models"

	"go.uber.org/zap"
)

// PiperService предоставляет функциональность Text-to-Speech через Piper TTS API
type PiperService struct {
	logger  *zap.Logger
	baseURL string
	client  *http.Client
}

// NewPiperService создает новый Piper TTS сервис
func NewPiperService(logger *zap.Logger, baseURL string) *PiperService {
	return &PiperService{
		logger:  logger,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second, // Таймаут для генерации аудио
		},
	}
}

// GetName возвращает название движка
func (s *PiperService) GetName() string {
	return "piper"
}

// BaseParameters возвращает нейтральные параметры Piper:
// все три параметра как множители относительно голоса модели
func (s *PiperService) BaseParameters() models.BaseVoiceParameters {
	return models.BaseVoiceParameters{
		Rate:   1.0,
		Pitch:  1.0,
		Volume: 0.8,
	}
}

// Ranges возвращает диапазоны параметров Piper. Громкость нормирована
// и насыщается на единице.
func (s *PiperService) Ranges() models.VoiceRange {
	return models.VoiceRange{
		Rate:   models.ValueRange{Min: 0.5, Max: 2.0},
		Pitch:  models.ValueRange{Min: 0.5, Max: 2.0},
		Volume: models.ValueRange{Min: 0.0, Max: 1.0},
	}
}

// SynthesizeText преобразует текст в аудио через Piper TTS
func (s *PiperService) SynthesizeText(ctx context.Context, text string, directive models.VoiceDirective) ([]byte, error) {
	s.logger.Info("🎵 генерируем аудио через Piper TTS",
		zap.Int("text_length", len(text)),
		zap.Float64("rate", directive.Rate),
		zap.Float64("pitch", directive.Pitch),
		zap.Float64("volume", directive.Volume))

	audioData, err := s.generateAudio(ctx, text, directive)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesisFailed, err)
	}

	s.logger.Info("🎵 аудио успешно сгенерировано",
		zap.Int("audio_size", len(audioData)))

	return audioData, nil
}

// generateAudio отправляет запрос к Piper TTS API и получает аудио
func (s *PiperService) generateAudio(ctx context.Context, text string, directive models.VoiceDirective) ([]byte, error) {
	url := fmt.Sprintf("%s/synthesize-raw", s.baseURL)

	// Создаем multipart form data
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	_ = writer.WriteField("text", text)
	// length_scale обратен темпу речи
	_ = writer.WriteField("length_scale", fmt.Sprintf("%.3f", 1.0/directive.Rate))
	_ = writer.WriteField("pitch", fmt.Sprintf("%.3f", directive.Pitch))
	_ = writer.WriteField("volume", fmt.Sprintf("%.3f", directive.Volume))

	writer.Close()

	req, err := http.NewRequestWithContext(ctx, "POST", url, body)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("неожиданный статус от Piper TTS: %d, тело: %s", resp.StatusCode, respBody)
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения аудио данных: %w", err)
	}

	return audioData, nil
}
