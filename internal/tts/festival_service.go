package tts

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"empathy-engine/pkg/models"

	"go.uber.org/zap"
)

// FestivalService предоставляет функциональность Text-to-Speech через Festival.
// Работает полностью локально через text2wave, без внешних сервисов.
type FestivalService struct {
	logger *zap.Logger
	voice  string
}

// NewFestivalService создает новый Festival TTS сервис
func NewFestivalService(logger *zap.Logger, voice string) *FestivalService {
	if voice == "" {
		voice = "voice_kallpc16k"
	}

	return &FestivalService{
		logger: logger,
		voice:  voice,
	}
}

// GetName возвращает название движка
func (s *FestivalService) GetName() string {
	return "festival"
}

// BaseParameters возвращает нейтральные параметры Festival:
// rate как множитель темпа, pitch как F0 в герцах, volume как множитель громкости
func (s *FestivalService) BaseParameters() models.BaseVoiceParameters {
	return models.BaseVoiceParameters{
		Rate:   1.0,
		Pitch:  150,
		Volume: 1.0,
	}
}

// Ranges возвращает диапазоны, в которых Festival звучит разборчиво
func (s *FestivalService) Ranges() models.VoiceRange {
	return models.VoiceRange{
		Rate:   models.ValueRange{Min: 0.5, Max: 2.0},
		Pitch:  models.ValueRange{Min: 50, Max: 400},
		Volume: models.ValueRange{Min: 0.2, Max: 2.0},
	}
}

// SynthesizeText преобразует текст в аудио через Festival с параметрами директивы
func (s *FestivalService) SynthesizeText(ctx context.Context, text string, directive models.VoiceDirective) ([]byte, error) {
	// Ограничиваем длину текста
	if len(text) > 1000 {
		text = text[:1000] + "..."
	}

	cleanText := s.cleanText(text)

	// Проверяем, что Festival установлен
	if err := s.checkFestival(); err != nil {
		return nil, fmt.Errorf("festival не установлен: %w", err)
	}

	s.logger.Info("🎵 генерируем аудио через Festival",
		zap.String("text", cleanText),
		zap.Float64("rate", directive.Rate),
		zap.Float64("pitch", directive.Pitch),
		zap.Float64("volume", directive.Volume))

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	audioData, err := s.generateAudio(ctx, cleanText, directive)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesisFailed, err)
	}

	s.logger.Info("🎵 аудио успешно сгенерировано",
		zap.Int("audio_size", len(audioData)))

	return audioData, nil
}

// checkFestival проверяет, что Festival установлен
func (s *FestivalService) checkFestival() error {
	cmd := exec.Command("festival", "--version")
	output, err := cmd.Output()
	if err != nil {
		return fmt.Errorf("festival не найден: %w", err)
	}

	s.logger.Debug("Festival версия", zap.String("version", string(output)))
	return nil
}

// generateAudio генерирует аудио через text2wave, отображая директиву
// в параметры синтеза Festival
func (s *FestivalService) generateAudio(ctx context.Context, text string, directive models.VoiceDirective) ([]byte, error) {
	tempTextFile := fmt.Sprintf("/tmp/festival_text_%d.txt", time.Now().UnixNano())

	if err := s.writeTextFile(tempTextFile, text); err != nil {
		return nil, fmt.Errorf("ошибка записи текста: %w", err)
	}
	defer s.cleanupFile(tempTextFile)

	tempAudioFile := fmt.Sprintf("/tmp/festival_audio_%d.wav", time.Now().UnixNano())
	defer s.cleanupFile(tempAudioFile)

	// Duration_Stretch обратен темпу: быстрее речь — короче длительности.
	// F0_Mean задается напрямую в герцах, громкость через целевую
	// интенсивность (65 дБ для нейтрального голоса).
	durationStretch := 1.0 / directive.Rate
	intTargetMean := 65.0 * directive.Volume

	cmd := exec.CommandContext(ctx, "text2wave",
		"-eval", fmt.Sprintf("(%s)", s.voice),
		"-eval", fmt.Sprintf("(Parameter.set 'Duration_Stretch %.3f)", durationStretch),
		"-eval", fmt.Sprintf("(Parameter.set 'F0_Mean %.0f)", directive.Pitch),
		"-eval", "(Parameter.set 'F0_Std 25)",
		"-eval", fmt.Sprintf("(Parameter.set 'Int_Target_Mean %.1f)", intTargetMean),
		tempTextFile, "-o", tempAudioFile)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		s.logger.Error("ошибка выполнения text2wave",
			zap.Error(err),
			zap.String("stderr", stderr.String()))
		return nil, fmt.Errorf("ошибка выполнения text2wave: %w", err)
	}

	audioData, err := s.readAudioFile(tempAudioFile)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения аудио: %w", err)
	}

	return audioData, nil
}

// writeTextFile записывает текст в файл
func (s *FestivalService) writeTextFile(filename, text string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(text)
	return err
}

// readAudioFile читает аудио файл
func (s *FestivalService) readAudioFile(filename string) ([]byte, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, fmt.Errorf("аудио файл не найден: %s", filename)
	}

	return os.ReadFile(filename)
}

// cleanupFile удаляет временный файл
func (s *FestivalService) cleanupFile(filename string) {
	if err := os.Remove(filename); err != nil {
		s.logger.Warn("ошибка удаления временного файла",
			zap.String("filename", filename),
			zap.Error(err))
	}
}

// cleanText очищает текст от разметки и лишних пробелов
func (s *FestivalService) cleanText(text string) string {
	text = strings.ReplaceAll(text, "<b>", "")
	text = strings.ReplaceAll(text, "</b>", "")
	text = strings.ReplaceAll(text, "<i>", "")
	text = strings.ReplaceAll(text, "</i>", "")

	text = strings.TrimSpace(text)
	text = strings.Join(strings.Fields(text), " ")

	return text
}
