package tts

import (
	"context"
	"errors"

	"empathy-engine/pkg/models"
)

// ErrSynthesisFailed возвращается, когда синтезатор не смог сгенерировать аудио
var ErrSynthesisFailed = errors.New("синтез речи не удался")

// TTSService представляет интерфейс для Text-to-Speech сервиса.
// Каждый движок объявляет свои базовые параметры и допустимые диапазоны
// в собственных единицах; директива содержит уже финальные значения
// внутри этих диапазонов.
type TTSService interface {
	// SynthesizeText преобразует текст в аудио с параметрами директивы
	SynthesizeText(ctx context.Context, text string, directive models.VoiceDirective) ([]byte, error)

	// BaseParameters возвращает нейтральные параметры голоса движка
	BaseParameters() models.BaseVoiceParameters

	// Ranges возвращает допустимые диапазоны параметров движка
	Ranges() models.VoiceRange

	// GetName возвращает название движка
	GetName() string
}
