package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"empathy-engine/internal/emotion"
	"empathy-engine/internal/engine"
	"empathy-engine/internal/tts"
	"empathy-engine/pkg/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	// Лимиты безопасности
	MaxTextLength = 4000 // Максимальная длина текста сообщения

	// Rate limiting
	MaxRequestsPerMinute = 30 // Максимум запросов в минуту на пользователя
	RateLimitWindow      = time.Minute
)

// RateLimiter простой rate limiter для пользователей
type RateLimiter struct {
	requests map[int64][]time.Time
	mutex    sync.RWMutex
}

// NewRateLimiter создает новый rate limiter
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		requests: make(map[int64][]time.Time),
	}
}

// IsAllowed проверяет, разрешен ли запрос для пользователя
func (rl *RateLimiter) IsAllowed(userID int64) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	userRequests := rl.requests[userID]

	// Удаляем старые запросы
	var validRequests []time.Time
	for _, reqTime := range userRequests {
		if now.Sub(reqTime) < RateLimitWindow {
			validRequests = append(validRequests, reqTime)
		}
	}

	if len(validRequests) >= MaxRequestsPerMinute {
		rl.requests[userID] = validRequests
		return false
	}

	rl.requests[userID] = append(validRequests, now)
	return true
}

// Handler обрабатывает сообщения Telegram: текст пользователя проходит
// через конвейер анализа, ответ содержит разбор эмоции и голосовое
// сообщение, синтезированное с директивой
type Handler struct {
	bot         *tgbotapi.BotAPI
	engine      *engine.Service
	ttsService  tts.TTSService
	rateLimiter *RateLimiter
	logger      *zap.Logger
}

// NewHandler создает новый обработчик бота. TTS сервис опционален:
// без него бот отвечает только текстовым разбором.
func NewHandler(bot *tgbotapi.BotAPI, engineService *engine.Service, ttsService tts.TTSService, logger *zap.Logger) *Handler {
	return &Handler{
		bot:         bot,
		engine:      engineService,
		ttsService:  ttsService,
		rateLimiter: NewRateLimiter(),
		logger:      logger,
	}
}

// HandleUpdate обрабатывает обновление от Telegram
func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if update.Message == nil || update.Message.Text == "" {
		return nil
	}

	msg := update.Message
	chatID := msg.Chat.ID

	if !h.rateLimiter.IsAllowed(msg.From.ID) {
		return h.sendText(chatID, "Слишком много запросов, попробуйте через минуту.")
	}

	if msg.IsCommand() {
		return h.handleCommand(chatID, msg.Command())
	}

	return h.handleText(ctx, chatID, msg.Text)
}

// handleCommand обрабатывает команды бота
func (h *Handler) handleCommand(chatID int64, command string) error {
	switch command {
	case "start":
		return h.sendText(chatID,
			"Привет! Отправьте мне текст на английском, и я определю его эмоциональную окраску и озвучу с подходящей интонацией.")
	case "help":
		return h.sendText(chatID,
			"Просто отправьте текстовое сообщение. В ответ придет разбор эмоции и голосовое сообщение с параметрами, подобранными под эту эмоцию.")
	default:
		return h.sendText(chatID, "Неизвестная команда. Используйте /help.")
	}
}

// handleText проводит текст через конвейер и отвечает разбором и аудио
func (h *Handler) handleText(ctx context.Context, chatID int64, text string) error {
	if len(text) > MaxTextLength {
		return h.sendText(chatID, fmt.Sprintf("Текст слишком длинный, максимум %d символов.", MaxTextLength))
	}

	base := h.engineBase()
	ranges := h.engineRanges()
	engineName := h.engineName()

	analysis, err := h.engine.Process(ctx, text, engineName, base, ranges)
	if err != nil {
		if errors.Is(err, emotion.ErrInvalidInput) {
			return h.sendText(chatID, "Отправьте непустой текст.")
		}

		h.logger.Error("ошибка обработки сообщения", zap.Int64("chat_id", chatID), zap.Error(err))
		return h.sendText(chatID, "Не удалось обработать текст, попробуйте еще раз.")
	}

	reply := fmt.Sprintf(
		"Эмоция: %s (уверенность %.2f, уровень %s)\nТемп %+.0f%%, высота %+.0f%%, громкость %+.0f%%",
		analysis.Emotion.Label, analysis.Emotion.Confidence, analysis.Tier,
		analysis.ScaledDelta.RatePct, analysis.ScaledDelta.PitchPct, analysis.ScaledDelta.VolumePct)

	if err := h.sendText(chatID, reply); err != nil {
		return err
	}

	if h.ttsService == nil {
		return nil
	}

	audioData, err := h.ttsService.SynthesizeText(ctx, text, analysis.Directive)
	if err != nil {
		h.logger.Error("ошибка синтеза голосового сообщения",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		return nil
	}

	voice := tgbotapi.NewVoice(chatID, tgbotapi.FileBytes{
		Name:  "voice.ogg",
		Bytes: audioData,
	})

	if _, err := h.bot.Send(voice); err != nil {
		return fmt.Errorf("ошибка отправки голосового сообщения: %w", err)
	}

	return nil
}

// sendText отправляет текстовое сообщение
func (h *Handler) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		return fmt.Errorf("ошибка отправки сообщения: %w", err)
	}
	return nil
}

// engineBase возвращает базовые параметры активного движка
func (h *Handler) engineBase() models.BaseVoiceParameters {
	if h.ttsService != nil {
		return h.ttsService.BaseParameters()
	}
	return models.BaseVoiceParameters{Rate: 1.0, Pitch: 150, Volume: 1.0}
}

// engineRanges возвращает диапазоны активного движка
func (h *Handler) engineRanges() models.VoiceRange {
	if h.ttsService != nil {
		return h.ttsService.Ranges()
	}
	return models.VoiceRange{
		Rate:   models.ValueRange{Min: 0.5, Max: 2.0},
		Pitch:  models.ValueRange{Min: 50, Max: 400},
		Volume: models.ValueRange{Min: 0.2, Max: 2.0},
	}
}

// engineName возвращает название активного движка
func (h *Handler) engineName() string {
	if h.ttsService != nil {
		return h.ttsService.GetName()
	}
	return "none"
}
