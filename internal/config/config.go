package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config содержит все конфигурационные параметры приложения
type Config struct {
	App      AppConfig
	Emotion  EmotionConfig
	TTS      TTSConfig
	Database DatabaseConfig
	Telegram TelegramConfig
}

// AppConfig содержит общие настройки приложения
type AppConfig struct {
	Env      string
	LogLevel string
	Port     int
}

// EmotionConfig содержит настройки классификатора эмоций
type EmotionConfig struct {
	// ModelURL адрес сервиса мультиклассовой модели эмоций.
	// Пустое значение отключает продвинутый уровень.
	ModelURL     string
	ModelTimeout time.Duration
	// BasicOnly принудительно использует только лексический анализ
	BasicOnly bool
	// ProfilePath путь к YAML профилю модуляции. Пустое значение
	// означает встроенный профиль по умолчанию.
	ProfilePath string
}

// TTSConfig содержит настройки синтеза речи
type TTSConfig struct {
	Enabled   bool
	Engine    string // festival, piper, elevenlabs
	OutputDir string

	Festival   FestivalConfig
	Piper      PiperConfig
	ElevenLabs ElevenLabsConfig
}

// FestivalConfig содержит настройки локального Festival
type FestivalConfig struct {
	Voice string
}

// PiperConfig содержит настройки Piper TTS API
type PiperConfig struct {
	BaseURL string
}

// ElevenLabsConfig содержит настройки ElevenLabs API
type ElevenLabsConfig struct {
	APIKey  string
	VoiceID string
	BaseURL string
}

// DatabaseConfig содержит настройки базы данных истории запросов
type DatabaseConfig struct {
	// HistoryEnabled включает сохранение истории директив в PostgreSQL
	HistoryEnabled bool
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	SSLMode        string
	MigrationPath  string
}

// TelegramConfig содержит настройки Telegram бота (опциональный интерфейс)
type TelegramConfig struct {
	BotToken string
}

// Load загружает конфигурацию из переменных окружения и .env
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	// App
	cfg.App.Env = getEnvDefault("APP_ENV", "development")
	cfg.App.LogLevel = getEnvDefault("LOG_LEVEL", "info")
	cfg.App.Port = getEnvIntDefault("APP_PORT", 8080)

	// Emotion
	cfg.Emotion.ModelURL = os.Getenv("EMOTION_MODEL_URL")
	cfg.Emotion.ModelTimeout = getEnvDurationDefault("EMOTION_MODEL_TIMEOUT", 5*time.Second)
	cfg.Emotion.BasicOnly = getEnvBoolDefault("EMOTION_BASIC_ONLY", false)
	cfg.Emotion.ProfilePath = os.Getenv("MODULATION_PROFILE_PATH")

	// TTS
	cfg.TTS.Enabled = getEnvBoolDefault("TTS_ENABLED", true)
	cfg.TTS.Engine = getEnvDefault("TTS_ENGINE", "festival")
	cfg.TTS.OutputDir = getEnvDefault("TTS_OUTPUT_DIR", "output")
	cfg.TTS.Festival.Voice = getEnvDefault("FESTIVAL_VOICE", "voice_kallpc16k")
	cfg.TTS.Piper.BaseURL = getEnvDefault("PIPER_BASE_URL", "http://piper:5000")
	cfg.TTS.ElevenLabs.APIKey = os.Getenv("ELEVENLABS_API_KEY")
	cfg.TTS.ElevenLabs.VoiceID = getEnvDefault("ELEVENLABS_VOICE_ID", "21m00Tcm4TlvDq8ikWAM")
	cfg.TTS.ElevenLabs.BaseURL = getEnvDefault("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io/v1")

	// Database
	cfg.Database.HistoryEnabled = getEnvBoolDefault("HISTORY_ENABLED", false)
	cfg.Database.Host = getEnvDefault("DB_HOST", "localhost")
	cfg.Database.Port = getEnvIntDefault("DB_PORT", 5432)
	cfg.Database.User = os.Getenv("DB_USER")
	cfg.Database.Password = os.Getenv("DB_PASSWORD")
	cfg.Database.Name = os.Getenv("DB_NAME")
	cfg.Database.SSLMode = getEnvDefault("DB_SSL_MODE", "disable")
	cfg.Database.MigrationPath = getEnvDefault("MIGRATION_PATH", "scripts/migrations")

	// Telegram
	cfg.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}

	return cfg, nil
}

func getEnvDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// validateConfig проверяет корректность конфигурации
func validateConfig(config *Config) error {
	switch config.TTS.Engine {
	case "festival", "piper", "elevenlabs":
	default:
		return fmt.Errorf("поддерживаются только TTS_ENGINE: festival, piper, elevenlabs")
	}
	if config.TTS.Engine == "elevenlabs" && config.TTS.ElevenLabs.APIKey == "" {
		return fmt.Errorf("ELEVENLABS_API_KEY не установлен")
	}
	if config.Emotion.ModelTimeout <= 0 {
		return fmt.Errorf("EMOTION_MODEL_TIMEOUT должен быть положительным")
	}
	if config.Database.HistoryEnabled {
		if config.Database.Host == "" {
			return fmt.Errorf("DB_HOST не установлен")
		}
		if config.Database.User == "" {
			return fmt.Errorf("DB_USER не установлен")
		}
		if config.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD не установлен")
		}
		if config.Database.Name == "" {
			return fmt.Errorf("DB_NAME не установлен")
		}
	}

	return nil
}

// GetDSN возвращает строку подключения к базе данных
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// IsDevelopment проверяет, запущено ли приложение в режиме разработки
func (c *AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction проверяет, запущено ли приложение в продакшн режиме
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// GetLogLevel возвращает уровень логирования в формате zap
func (c *AppConfig) GetLogLevel() zap.AtomicLevel {
	switch c.LogLevel {
	case "debug":
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		return zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		return zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
}
