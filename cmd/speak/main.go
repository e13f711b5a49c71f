package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"empathy-engine/internal/config"
	"empathy-engine/internal/emotion"
	"empathy-engine/internal/engine"
	"empathy-engine/internal/modulation"
	"empathy-engine/internal/tts"

	"go.uber.org/zap"
)

// Утилита разового прогона: анализирует текст, печатает разбор эмоции
// и директиву синтеза, опционально записывает аудио файл.
func main() {
	var (
		text       = flag.String("text", "", "текст для анализа")
		engineName = flag.String("engine", "", "движок синтеза: festival, piper, elevenlabs (по умолчанию из конфигурации)")
		output     = flag.String("output", "", "путь для записи аудио файла (без него синтез не выполняется)")
		basicOnly  = flag.Bool("basic-only", false, "использовать только лексический анализ")
		verbose    = flag.Bool("verbose", false, "подробный вывод")
	)
	flag.Parse()

	if *text == "" {
		fmt.Fprintln(os.Stderr, "использование: speak -text \"...\" [-engine festival] [-output out.wav]")
		os.Exit(2)
	}

	logger := zap.NewNop()
	if *verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ошибка инициализации логгера: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ошибка загрузки конфигурации: %v\n", err)
		os.Exit(1)
	}

	if *engineName != "" {
		cfg.TTS.Engine = *engineName
	}
	if *basicOnly {
		cfg.Emotion.BasicOnly = true
	}

	profile, err := modulation.LoadProfile(cfg.Emotion.ProfilePath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ошибка загрузки профиля модуляции: %v\n", err)
		os.Exit(1)
	}

	classifier := buildClassifier(cfg, logger)

	ttsService, err := tts.NewTTSService(&cfg.TTS, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ошибка инициализации TTS: %v\n", err)
		os.Exit(1)
	}

	service := engine.NewService(classifier, profile, nil, nil, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	analysis, err := service.Process(ctx, *text, ttsService.GetName(), ttsService.BaseParameters(), ttsService.Ranges())
	if err != nil {
		fmt.Fprintf(os.Stderr, "ошибка обработки текста: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Эмоция:        %s (уверенность %.2f, источник %s)\n",
		analysis.Emotion.Label, analysis.Emotion.Confidence, analysis.Emotion.Source)
	fmt.Printf("Интенсивность: %s\n", analysis.Tier)
	fmt.Printf("Дельта:        темп %+.1f%%, высота %+.1f%%, громкость %+.1f%%\n",
		analysis.ScaledDelta.RatePct, analysis.ScaledDelta.PitchPct, analysis.ScaledDelta.VolumePct)
	fmt.Printf("Директива:     rate=%.3f pitch=%.3f volume=%.3f (движок %s)\n",
		analysis.Directive.Rate, analysis.Directive.Pitch, analysis.Directive.Volume, ttsService.GetName())

	if analysis.Directive.Clamped() {
		fmt.Println("Часть параметров прижата к границам диапазона движка")
	}

	if *output == "" {
		return
	}

	audioData, err := ttsService.SynthesizeText(ctx, *text, analysis.Directive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ошибка синтеза речи: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*output, audioData, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "ошибка записи аудио файла: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Аудио записано: %s (%d байт)\n", *output, len(audioData))
}

// buildClassifier собирает цепочку уровней классификации по конфигурации
func buildClassifier(cfg *config.Config, logger *zap.Logger) emotion.Classifier {
	basic := emotion.NewBasicClassifier(logger)

	if cfg.Emotion.BasicOnly || cfg.Emotion.ModelURL == "" {
		return emotion.NewChain(logger, basic)
	}

	model := emotion.NewModelClient(cfg.Emotion.ModelURL, cfg.Emotion.ModelTimeout, logger)
	return emotion.NewChain(logger, model, basic)
}
