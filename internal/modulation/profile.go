package modulation

import (
	_ "embed"
	"fmt"
	"os"

	"empathy-engine/pkg/models"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed default_profile.yaml
var defaultProfileYAML []byte

// Profile содержит таблицу модуляции: базовые дельты для каждой эмоции,
// границы уровней интенсивности и коэффициенты масштабирования.
// После загрузки профиль только читается и безопасен для
// конкурентного использования.
type Profile struct {
	Emotions  map[models.EmotionLabel]models.ParameterDelta `yaml:"emotions"`
	Intensity IntensityBands                                `yaml:"intensity"`
	Scale     ScaleFactors                                  `yaml:"scale"`
}

// IntensityBands задает границы уровней интенсивности по уверенности
// классификатора. Полуоткрытые интервалы: [0, LowBelow) -> low,
// [LowBelow, HighFrom) -> medium, [HighFrom, 1] -> high.
type IntensityBands struct {
	LowBelow float64 `yaml:"low_below"`
	HighFrom float64 `yaml:"high_from"`
}

// ScaleFactors задает множители дельт для каждого уровня интенсивности
type ScaleFactors struct {
	Low    float64 `yaml:"low"`
	Medium float64 `yaml:"medium"`
	High   float64 `yaml:"high"`
}

// LoadProfile загружает профиль модуляции. Пустой путь означает
// встроенный профиль по умолчанию.
func LoadProfile(path string, logger *zap.Logger) (*Profile, error) {
	data := defaultProfileYAML
	source := "встроенный"

	if path != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения профиля модуляции: %w", err)
		}
		data = fileData
		source = path
	}

	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("ошибка разбора профиля модуляции: %w", err)
	}

	if err := profile.validate(); err != nil {
		return nil, fmt.Errorf("некорректный профиль модуляции: %w", err)
	}

	logger.Info("профиль модуляции загружен",
		zap.String("source", source),
		zap.Int("emotions", len(profile.Emotions)))

	return &profile, nil
}

// validate проверяет инварианты профиля: ровно одна строка на каждую из
// 10 меток, нулевая дельта для neutral, корректные границы и монотонные
// неотрицательные коэффициенты.
func (p *Profile) validate() error {
	for _, label := range models.AllEmotionLabels() {
		if _, ok := p.Emotions[label]; !ok {
			return fmt.Errorf("отсутствует эмоция %q в таблице", label)
		}
	}
	for label := range p.Emotions {
		if !label.IsValid() {
			return fmt.Errorf("неизвестная эмоция %q в таблице", label)
		}
	}
	if !p.Emotions[models.EmotionNeutral].IsZero() {
		return fmt.Errorf("дельта для neutral должна быть нулевой")
	}

	if p.Intensity.LowBelow < 0 || p.Intensity.HighFrom > 1 ||
		p.Intensity.LowBelow > p.Intensity.HighFrom {
		return fmt.Errorf("некорректные границы интенсивности: low_below=%v, high_from=%v",
			p.Intensity.LowBelow, p.Intensity.HighFrom)
	}

	if p.Scale.Low < 0 || p.Scale.Medium < 0 || p.Scale.High < 0 {
		return fmt.Errorf("коэффициенты масштабирования не могут быть отрицательными")
	}
	if p.Scale.Low > p.Scale.Medium || p.Scale.Medium > p.Scale.High {
		return fmt.Errorf("коэффициенты масштабирования должны быть неубывающими: low=%v, medium=%v, high=%v",
			p.Scale.Low, p.Scale.Medium, p.Scale.High)
	}

	return nil
}
