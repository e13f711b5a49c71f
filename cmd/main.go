package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"empathy-engine/internal/bot"
	"empathy-engine/internal/config"
	"empathy-engine/internal/emotion"
	"empathy-engine/internal/engine"
	"empathy-engine/internal/metrics"
	"empathy-engine/internal/migrations"
	"empathy-engine/internal/modulation"
	"empathy-engine/internal/server"
	"empathy-engine/internal/store"
	"empathy-engine/internal/tts"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func main() {
	// Инициализация логгера
	logger, err := initLogger()
	if err != nil {
		fmt.Printf("Ошибка инициализации логгера: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("запуск приложения Empathy Engine")

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("ошибка загрузки конфигурации", zap.Error(err))
	}

	// Инициализация базы данных истории (опционально)
	var history store.DirectiveRepository
	if cfg.Database.HistoryEnabled {
		db, err := store.NewStore(cfg, logger)
		if err != nil {
			logger.Fatal("ошибка инициализации базы данных", zap.Error(err))
		}
		defer db.Close()

		// Применение миграций
		if err := migrations.RunMigrations(cfg, logger); err != nil {
			logger.Fatal("ошибка применения миграций", zap.Error(err))
		}

		history = db.Directive()
	} else {
		logger.Info("история запросов отключена")
	}

	// Загрузка профиля модуляции
	profile, err := modulation.LoadProfile(cfg.Emotion.ProfilePath, logger)
	if err != nil {
		logger.Fatal("ошибка загрузки профиля модуляции", zap.Error(err))
	}

	// Инициализация цепочки классификации
	classifier := buildClassifier(cfg, logger)

	// Инициализация метрик
	metricsSystem := metrics.New(logger)
	metricsHandler := metrics.NewHandler(metricsSystem, logger)

	// Инициализация сервиса обработки
	engineService := engine.NewService(classifier, profile, metricsSystem, history, logger)

	// Инициализация движков синтеза
	engines, err := buildEngines(cfg, logger)
	if err != nil {
		logger.Fatal("ошибка инициализации TTS движков", zap.Error(err))
	}

	// Инициализация HTTP обработчика
	apiHandler := server.NewHandler(engineService, engines, cfg.TTS.Engine, cfg.TTS.Enabled, cfg.TTS.OutputDir, metricsSystem, logger)

	// Создание канала для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Запуск HTTP сервера
	go startHTTPServer(ctx, cfg.App.Port, apiHandler, metricsHandler, logger)

	// Запуск Telegram бота (опционально)
	var botAPI *tgbotapi.BotAPI
	if cfg.Telegram.BotToken != "" {
		botAPI, err = tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
		if err != nil {
			logger.Fatal("ошибка инициализации Telegram бота", zap.Error(err))
		}

		botInfo, err := botAPI.GetMe()
		if err != nil {
			logger.Fatal("ошибка получения информации о боте", zap.Error(err))
		}

		logger.Info("Telegram бот инициализирован",
			zap.String("username", botInfo.UserName),
			zap.Int64("id", botInfo.ID))

		botHandler := bot.NewHandler(botAPI, engineService, engines[cfg.TTS.Engine], logger)
		go handleUpdates(ctx, botAPI, botHandler, logger)
	} else {
		logger.Info("Telegram бот отключен: токен не задан")
	}

	logger.Info("приложение запущено и готово к работе",
		zap.String("address", fmt.Sprintf("http://localhost:%d", cfg.App.Port)),
		zap.String("tts_engine", cfg.TTS.Engine),
		zap.Bool("tts_enabled", cfg.TTS.Enabled))

	// Ожидание сигнала завершения
	<-sigChan
	logger.Info("получен сигнал завершения, начинаем graceful shutdown")

	if botAPI != nil {
		botAPI.StopReceivingUpdates()
	}

	cancel()
	time.Sleep(time.Second)

	logger.Info("приложение завершено")
}

// initLogger инициализирует логгер
func initLogger() (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{"stdout", "logs/app.log"}
	config.ErrorOutputPaths = []string{"stderr", "logs/error.log"}

	// Создаем директорию для логов если её нет
	if err := os.MkdirAll("logs", 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории логов: %w", err)
	}

	return config.Build()
}

// buildClassifier собирает цепочку уровней классификации по конфигурации
func buildClassifier(cfg *config.Config, logger *zap.Logger) emotion.Classifier {
	basic := emotion.NewBasicClassifier(logger)

	if cfg.Emotion.BasicOnly || cfg.Emotion.ModelURL == "" {
		logger.Info("классификация только лексическим анализом")
		return emotion.NewChain(logger, basic)
	}

	model := emotion.NewModelClient(cfg.Emotion.ModelURL, cfg.Emotion.ModelTimeout, logger)

	// Недоступность модели не фатальна: цепочка перейдет на резервный уровень
	probeCtx, cancel := context.WithTimeout(context.Background(), cfg.Emotion.ModelTimeout)
	defer cancel()

	if err := model.HealthCheck(probeCtx); err != nil {
		logger.Warn("сервис модели недоступен при старте", zap.Error(err))
	} else {
		logger.Info("классификация через сервис модели с лексическим резервом",
			zap.String("model_url", cfg.Emotion.ModelURL))
	}

	return emotion.NewChain(logger, model, basic)
}

// buildEngines создает все доступные движки синтеза
func buildEngines(cfg *config.Config, logger *zap.Logger) (map[string]tts.TTSService, error) {
	engines := map[string]tts.TTSService{
		"festival": tts.NewFestivalService(logger, cfg.TTS.Festival.Voice),
		"piper":    tts.NewPiperService(logger, cfg.TTS.Piper.BaseURL),
	}

	// ElevenLabs доступен только при наличии ключа
	if cfg.TTS.ElevenLabs.APIKey != "" {
		engines["elevenlabs"] = tts.NewElevenLabsService(logger,
			cfg.TTS.ElevenLabs.APIKey, cfg.TTS.ElevenLabs.VoiceID, cfg.TTS.ElevenLabs.BaseURL)
	}

	if _, ok := engines[cfg.TTS.Engine]; !ok {
		return nil, fmt.Errorf("движок %s недоступен", cfg.TTS.Engine)
	}

	return engines, nil
}

// handleUpdates обрабатывает обновления от Telegram
func handleUpdates(ctx context.Context, botAPI *tgbotapi.BotAPI, handler *bot.Handler, logger *zap.Logger) {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := botAPI.GetUpdatesChan(updateConfig)

	for {
		select {
		case update := <-updates:
			if update.Message == nil {
				continue
			}

			// Обрабатываем обновление в горутине
			go func(update tgbotapi.Update) {
				if err := handler.HandleUpdate(ctx, update); err != nil {
					logger.Error("ошибка обработки обновления",
						zap.Int64("chat_id", update.Message.Chat.ID),
						zap.Error(err))
				}
			}(update)

		case <-ctx.Done():
			logger.Info("остановка обработки обновлений")
			return
		}
	}
}

// startHTTPServer запускает HTTP сервер API и метрик
func startHTTPServer(ctx context.Context, port int, apiHandler *server.Handler, metricsHandler *metrics.Handler, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/process", apiHandler.HandleProcess)
	mux.HandleFunc("/audio/", apiHandler.HandleAudio)
	mux.Handle("/metrics", metricsHandler.MetricsHandler())
	mux.HandleFunc("/health", metricsHandler.HealthHandler)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	logger.Info("HTTP сервер запущен", zap.String("address", httpServer.Addr))

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("ошибка HTTP сервера", zap.Error(err))
		}
	}()

	// Ожидание сигнала завершения
	<-ctx.Done()

	// Graceful shutdown HTTP сервера
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("ошибка при остановке HTTP сервера", zap.Error(err))
	}

	logger.Info("HTTP сервер остановлен")
}
