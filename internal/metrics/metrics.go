package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics содержит все метрики приложения
type Metrics struct {
	logger *zap.Logger

	// Счетчики
	emotionRequests     *prometheus.CounterVec
	classifierFallbacks *prometheus.CounterVec
	clampEvents         *prometheus.CounterVec
	synthesisRequests   *prometheus.CounterVec

	// Гистограммы
	processingTime *prometheus.HistogramVec
	synthesisTime  *prometheus.HistogramVec

	// Gauge метрики
	lastConfidence prometheus.Gauge

	// Мьютекс для thread-safety
	mu sync.RWMutex
}

// New создает новый экземпляр метрик
func New(logger *zap.Logger) *Metrics {
	m := &Metrics{
		logger: logger,

		// Счетчики обработанных текстов по эмоции и интенсивности
		emotionRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "emotion_requests_total",
				Help: "Общее количество обработанных текстов",
			},
			[]string{"label", "tier"},
		),

		// Счетчики переходов на резервные уровни классификации
		classifierFallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "classifier_fallbacks_total",
				Help: "Количество отказов уровней классификации",
			},
			[]string{"source"}, // basic, default
		),

		// Счетчики срезанных параметров голоса
		clampEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clamp_events_total",
				Help: "Количество параметров, прижатых к границам диапазона",
			},
			[]string{"parameter"}, // rate, pitch, volume
		),

		// Счетчики запросов синтеза речи
		synthesisRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "synthesis_requests_total",
				Help: "Общее количество запросов синтеза речи",
			},
			[]string{"engine", "status"}, // engine: festival, piper, elevenlabs; status: success, failed
		),

		// Гистограмма времени обработки текста
		processingTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "processing_time_seconds",
				Help:    "Время полного цикла анализа текста в секундах",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"}, // model, basic, default
		),

		// Гистограмма времени синтеза речи
		synthesisTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "synthesis_time_seconds",
				Help:    "Время синтеза речи в секундах",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"engine"},
		),

		// Gauge уверенности последней классификации
		lastConfidence: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "last_classification_confidence",
				Help: "Уверенность последней классификации эмоции",
			},
		),
	}

	// Регистрируем все метрики
	prometheus.MustRegister(
		m.emotionRequests,
		m.classifierFallbacks,
		m.clampEvents,
		m.synthesisRequests,
		m.processingTime,
		m.synthesisTime,
		m.lastConfidence,
	)

	return m
}

// IncrementCounter увеличивает счетчик
func (m *Metrics) IncrementCounter(name string, labels ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var counter *prometheus.CounterVec

	switch name {
	case "emotion_requests_total":
		counter = m.emotionRequests
	case "classifier_fallbacks_total":
		counter = m.classifierFallbacks
	case "clamp_events_total":
		counter = m.clampEvents
	case "synthesis_requests_total":
		counter = m.synthesisRequests
	default:
		m.logger.Error("неизвестная метрика", zap.String("name", name))
		return
	}

	counter.WithLabelValues(labels...).Inc()
	m.logger.Debug("метрика увеличена", zap.String("metric", name), zap.Int("count", len(labels)))
}

// SetGauge устанавливает значение gauge метрики
func (m *Metrics) SetGauge(name string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch name {
	case "last_classification_confidence":
		m.lastConfidence.Set(value)
	default:
		m.logger.Error("неизвестная gauge метрика", zap.String("name", name))
		return
	}

	m.logger.Debug("метрика установлена", zap.String("metric", name), zap.Float64("value", value))
}

// ObserveHistogram добавляет наблюдение в гистограмму
func (m *Metrics) ObserveHistogram(name string, value float64, labels ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch name {
	case "processing_time":
		m.processingTime.WithLabelValues(labels...).Observe(value)
	case "synthesis_time":
		m.synthesisTime.WithLabelValues(labels...).Observe(value)
	default:
		m.logger.Error("неизвестная гистограмма", zap.String("name", name))
		return
	}

	m.logger.Debug("гистограмма обновлена", zap.String("metric", name), zap.Float64("value", value))
}

// RecordProcessing записывает полный цикл анализа текста
func (m *Metrics) RecordProcessing(label, tier, source string, confidence, seconds float64) {
	m.IncrementCounter("emotion_requests_total", label, tier)

	// Результат не с основного уровня означает срабатывание резерва
	if source != "model" {
		m.IncrementCounter("classifier_fallbacks_total", source)
	}

	m.SetGauge("last_classification_confidence", confidence)
	m.ObserveHistogram("processing_time", seconds, source)
}

// RecordClamp записывает прижатие параметра к границе диапазона
func (m *Metrics) RecordClamp(parameter string) {
	m.IncrementCounter("clamp_events_total", parameter)
}

// RecordSynthesis записывает запрос синтеза речи
func (m *Metrics) RecordSynthesis(engine string, success bool, seconds float64) {
	status := "success"
	if !success {
		status = "failed"
	}

	m.IncrementCounter("synthesis_requests_total", engine, status)
	m.ObserveHistogram("synthesis_time", seconds, engine)
}

// Handler возвращает HTTP handler для метрик
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}
