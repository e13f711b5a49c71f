package tts

import (
	"fmt"

	"empathy-engine/internal/config"

	"go.uber.org/zap"
)

// NewTTSService создает TTS сервис на основе конфигурации
func NewTTSService(cfg *config.TTSConfig, logger *zap.Logger) (TTSService, error) {
	switch cfg.Engine {
	case "festival":
		return NewFestivalService(logger, cfg.Festival.Voice), nil
	case "piper":
		return NewPiperService(logger, cfg.Piper.BaseURL), nil
	case "elevenlabs":
		return NewElevenLabsService(logger, cfg.ElevenLabs.APIKey, cfg.ElevenLabs.VoiceID, cfg.ElevenLabs.BaseURL), nil
	default:
		return nil, fmt.Errorf("неподдерживаемый TTS движок: %s. Поддерживаются: 'festival', 'piper', 'elevenlabs'", cfg.Engine)
	}
}
