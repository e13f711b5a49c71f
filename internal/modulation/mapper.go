package modulation

import (
	"fmt"

	"empathy-engine/pkg/models"
)

// BaseDelta возвращает базовую дельту параметров для эмоции.
// Таблица тотальна по закрытому набору меток: после успешной валидации
// профиля отсутствующая строка невозможна, поэтому ее появление означает
// нарушение инварианта модели данных.
func (p *Profile) BaseDelta(label models.EmotionLabel) models.ParameterDelta {
	delta, ok := p.Emotions[label]
	if !ok {
		panic(fmt.Sprintf("нарушение инварианта: эмоция %q отсутствует в таблице модуляции", label))
	}
	return delta
}
