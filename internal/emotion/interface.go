package emotion

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"empathy-engine/pkg/models"
)

// ErrInvalidInput возвращается для пустого или пробельного текста.
// Это единственная ошибка классификации, которая доходит до вызывающего.
var ErrInvalidInput = errors.New("пустой текст для классификации")

// ErrUnavailable возвращается уровнем классификации, когда он не может
// обработать запрос. Цепочка перехватывает ее и переходит к следующему уровню.
var ErrUnavailable = errors.New("классификатор недоступен")

// Classifier представляет интерфейс одного уровня классификации эмоций
type Classifier interface {
	// Classify определяет эмоцию текста и уверенность в [0, 1]
	Classify(ctx context.Context, text string) (*models.EmotionResult, error)

	// GetName возвращает название уровня
	GetName() string
}

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	urlRegex        = regexp.MustCompile(`http\S+`)
)

// CleanText нормализует текст перед классификацией: убирает URL
// и схлопывает пробельные последовательности
func CleanText(text string) string {
	text = urlRegex.ReplaceAllString(text, "")
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
