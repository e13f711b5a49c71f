package emotion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"empathy-engine/pkg/models"

	"go.uber.org/zap"
)

// ModelClient представляет клиент сервиса мультиклассовой модели эмоций.
// Модель оценивает текст сразу по всем 10 меткам; сервис загружает ее один
// раз при старте и безопасен для параллельных запросов.
type ModelClient struct {
	apiURL     string
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
}

// NewModelClient создает новый клиент модели эмоций
func NewModelClient(apiURL string, timeout time.Duration, logger *zap.Logger) *ModelClient {
	return &ModelClient{
		apiURL: apiURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
		logger:  logger,
	}
}

// detectRequest представляет запрос к сервису модели
type detectRequest struct {
	Text string `json:"text"`
}

// detectResponse представляет ответ сервиса модели
type detectResponse struct {
	Emotions []struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	} `json:"emotions"`
	DominantEmotion string `json:"dominant_emotion"`
}

// GetName возвращает название уровня
func (c *ModelClient) GetName() string {
	return "model"
}

// Classify отправляет текст сервису модели и возвращает доминирующую
// эмоцию с ее вероятностью. Вызов ограничен настроенным таймаутом.
func (c *ModelClient) Classify(ctx context.Context, text string) (*models.EmotionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	requestBody, err := json.Marshal(detectRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL+"/detect", bytes.NewReader(requestBody))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: сервис модели вернул статус %d: %s", ErrUnavailable, resp.StatusCode, body)
	}

	var response detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("ошибка разбора ответа модели: %w", err)
	}

	return c.toResult(&response)
}

// toResult преобразует ответ сервиса в результат классификации
func (c *ModelClient) toResult(response *detectResponse) (*models.EmotionResult, error) {
	label := models.EmotionLabel(response.DominantEmotion)
	if !label.IsValid() {
		return nil, fmt.Errorf("модель вернула неизвестную эмоцию: %q", response.DominantEmotion)
	}

	var confidence float64
	details := make(map[string]float64, len(response.Emotions))
	for _, e := range response.Emotions {
		details[e.Label] = e.Score
		if e.Label == response.DominantEmotion {
			confidence = e.Score
		}
	}

	if confidence < 0 || confidence > 1 {
		return nil, fmt.Errorf("модель вернула вероятность вне [0, 1]: %v", confidence)
	}

	c.logger.Debug("модель классифицировала текст",
		zap.String("label", string(label)),
		zap.Float64("confidence", confidence))

	return &models.EmotionResult{
		Label:      label,
		Confidence: confidence,
		Source:     c.GetName(),
		Details:    details,
	}, nil
}

// HealthCheck проверяет доступность сервиса модели
func (c *ModelClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.apiURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("сервис модели недоступен: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("сервис модели вернул статус %d", resp.StatusCode)
	}

	return nil
}
