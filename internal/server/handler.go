package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"empathy-engine/internal/emotion"
	"empathy-engine/internal/engine"
	"empathy-engine/internal/metrics"
	"empathy-engine/internal/tts"

	"go.uber.org/zap"
)

// Handler обрабатывает HTTP запросы конвейера обработки текста
type Handler struct {
	engine        *engine.Service
	engines       map[string]tts.TTSService
	defaultEngine string
	synthesize    bool
	outputDir     string
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

// NewHandler создает новый HTTP обработчик
func NewHandler(service *engine.Service, engines map[string]tts.TTSService, defaultEngine string, synthesize bool, outputDir string, m *metrics.Metrics, logger *zap.Logger) *Handler {
	return &Handler{
		engine:        service,
		engines:       engines,
		defaultEngine: defaultEngine,
		synthesize:    synthesize,
		outputDir:     outputDir,
		metrics:       m,
		logger:        logger,
	}
}

// processRequest представляет тело запроса обработки текста
type processRequest struct {
	Text   string `json:"text"`
	Engine string `json:"engine,omitempty"`
}

// processResponse представляет ответ обработки текста
type processResponse struct {
	*engine.Analysis
	Engine   string `json:"engine"`
	AudioURL string `json:"audio_url,omitempty"`
}

// errorResponse представляет тело ответа с ошибкой
type errorResponse struct {
	Error string `json:"error"`
}

// HandleProcess обрабатывает POST /api/process: классифицирует эмоцию
// текста и возвращает директиву синтеза, при включенном синтезе
// дополнительно генерирует аудио файл
func (h *Handler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "поддерживается только POST")
		return
	}

	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "некорректный JSON в теле запроса")
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		h.writeError(w, http.StatusBadRequest, "поле text не должно быть пустым")
		return
	}

	service, engineName, err := h.selectEngine(req.Engine)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	analysis, err := h.engine.Process(r.Context(), req.Text, engineName, service.BaseParameters(), service.Ranges())
	if err != nil {
		// Отказы уровней классификации поглощаются цепочкой,
		// сюда доходит только невалидный вход
		if errors.Is(err, emotion.ErrInvalidInput) {
			h.writeError(w, http.StatusBadRequest, "поле text не должно быть пустым")
			return
		}

		h.logger.Error("ошибка обработки текста", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "внутренняя ошибка обработки")
		return
	}

	resp := processResponse{
		Analysis: analysis,
		Engine:   engineName,
	}

	if h.synthesize {
		audioURL, err := h.synthesizeAudio(r.Context(), service, engineName, req.Text, analysis)
		if err != nil {
			// Сбой синтеза не отменяет анализ: возвращаем директиву без аудио
			h.logger.Error("ошибка синтеза аудио", zap.String("engine", engineName), zap.Error(err))
		} else {
			resp.AudioURL = audioURL
		}
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// selectEngine выбирает движок синтеза по имени из запроса
func (h *Handler) selectEngine(name string) (tts.TTSService, string, error) {
	if name == "" {
		name = h.defaultEngine
	}

	service, ok := h.engines[name]
	if !ok {
		return nil, "", fmt.Errorf("неизвестный движок синтеза: %s", name)
	}

	return service, name, nil
}

// synthesizeAudio генерирует аудио файл и возвращает URL для скачивания
func (h *Handler) synthesizeAudio(ctx context.Context, service tts.TTSService, engineName, text string, analysis *engine.Analysis) (string, error) {
	started := time.Now()

	audioData, err := service.SynthesizeText(ctx, text, analysis.Directive)

	if h.metrics != nil {
		h.metrics.RecordSynthesis(engineName, err == nil, time.Since(started).Seconds())
	}

	if err != nil {
		return "", fmt.Errorf("ошибка синтеза речи: %w", err)
	}

	if err := os.MkdirAll(h.outputDir, 0755); err != nil {
		return "", fmt.Errorf("ошибка создания директории аудио: %w", err)
	}

	ext := "wav"
	if engineName == "elevenlabs" {
		ext = "mp3"
	}

	filename := fmt.Sprintf("%s_%d.%s", engineName, time.Now().UnixNano(), ext)
	path := filepath.Join(h.outputDir, filename)

	if err := os.WriteFile(path, audioData, 0644); err != nil {
		return "", fmt.Errorf("ошибка записи аудио файла: %w", err)
	}

	h.logger.Info("аудио файл сохранен",
		zap.String("path", path),
		zap.Int("size", len(audioData)))

	return "/audio/" + filename, nil
}

// HandleAudio обрабатывает GET /audio/{file}: отдает сгенерированный файл
func (h *Handler) HandleAudio(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "поддерживается только GET")
		return
	}

	filename := strings.TrimPrefix(r.URL.Path, "/audio/")

	// Не даем выйти за пределы директории аудио
	if filename == "" || filename != filepath.Base(filename) {
		h.writeError(w, http.StatusBadRequest, "некорректное имя файла")
		return
	}

	path := filepath.Join(h.outputDir, filename)
	if _, err := os.Stat(path); err != nil {
		h.writeError(w, http.StatusNotFound, "файл не найден")
		return
	}

	http.ServeFile(w, r, path)
}

// writeJSON сериализует ответ в JSON
func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("ошибка сериализации ответа", zap.Error(err))
	}
}

// writeError отправляет ответ с ошибкой
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, errorResponse{Error: message})
}
