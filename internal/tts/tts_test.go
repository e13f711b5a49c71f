package tts

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"empathy-engine/internal/config"
	"empathy-engine/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testDirective(rate, pitch, volume float64) models.VoiceDirective {
	return models.VoiceDirective{
		Rate:   rate,
		Pitch:  pitch,
		Volume: volume,
	}
}

func TestNewTTSService(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		engine   string
		wantName string
		wantErr  bool
	}{
		{engine: "festival", wantName: "festival"},
		{engine: "piper", wantName: "piper"},
		{engine: "elevenlabs", wantName: "elevenlabs"},
		{engine: "espeak", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.engine, func(t *testing.T) {
			cfg := &config.TTSConfig{
				Engine:     tt.engine,
				ElevenLabs: config.ElevenLabsConfig{APIKey: "key", VoiceID: "voice", BaseURL: "https://api.example.com"},
			}

			service, err := NewTTSService(cfg, logger)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantName, service.GetName())
		})
	}
}

func TestEngineRanges(t *testing.T) {
	logger := zap.NewNop()

	services := []TTSService{
		NewFestivalService(logger, ""),
		NewPiperService(logger, "http://piper:5000"),
		NewElevenLabsService(logger, "key", "voice", "https://api.example.com"),
	}

	// Базовые параметры каждого движка лежат внутри его диапазонов
	for _, service := range services {
		t.Run(service.GetName(), func(t *testing.T) {
			base := service.BaseParameters()
			ranges := service.Ranges()

			_, clamped := ranges.Rate.Clamp(base.Rate)
			assert.False(t, clamped, "базовый темп вне диапазона")

			_, clamped = ranges.Pitch.Clamp(base.Pitch)
			assert.False(t, clamped, "базовая высота вне диапазона")

			_, clamped = ranges.Volume.Clamp(base.Volume)
			assert.False(t, clamped, "базовая громкость вне диапазона")
		})
	}
}

func TestPiperService_SynthesizeText(t *testing.T) {
	audio := []byte("RIFF-fake-wav")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/synthesize-raw", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1 << 20))

		assert.Equal(t, "hello there", r.FormValue("text"))
		// Темп 1.25 дает length_scale 0.8
		assert.Equal(t, "0.800", r.FormValue("length_scale"))
		assert.Equal(t, "1.150", r.FormValue("pitch"))
		assert.Equal(t, "0.880", r.FormValue("volume"))

		w.Write(audio)
	}))
	defer server.Close()

	service := NewPiperService(zap.NewNop(), server.URL)

	data, err := service.SynthesizeText(context.Background(), "hello there", testDirective(1.25, 1.15, 0.88))
	require.NoError(t, err)
	assert.Equal(t, audio, data)
}

func TestPiperService_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model missing", http.StatusInternalServerError)
	}))
	defer server.Close()

	service := NewPiperService(zap.NewNop(), server.URL)

	_, err := service.SynthesizeText(context.Background(), "hello", testDirective(1, 1, 0.8))
	assert.Error(t, err)
}

func TestElevenLabsService_SynthesizeText(t *testing.T) {
	audio := []byte("fake-mp3")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/text-to-speech/test-voice", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("xi-api-key"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		// Директива 120/115/110 дает prosody смещения +20/+15/+10
		assert.Contains(t, string(body), `rate=\"+20%\"`)
		assert.Contains(t, string(body), `pitch=\"+15%\"`)
		assert.Contains(t, string(body), `volume=\"+10%\"`)

		w.Write(audio)
	}))
	defer server.Close()

	service := NewElevenLabsService(zap.NewNop(), "secret", "test-voice", server.URL)

	data, err := service.SynthesizeText(context.Background(), "hello", testDirective(120, 115, 110))
	require.NoError(t, err)
	assert.Equal(t, audio, data)
}

func TestElevenLabsService_RetryOnOverload(t *testing.T) {
	var calls int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "busy", http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("audio"))
	}))
	defer server.Close()

	service := NewElevenLabsService(zap.NewNop(), "secret", "test-voice", server.URL)

	data, err := service.SynthesizeText(context.Background(), "hello", testDirective(100, 100, 100))
	require.NoError(t, err)
	assert.Equal(t, []byte("audio"), data)
	assert.Equal(t, 2, calls)
}

func TestElevenLabsService_NoRetryOnClientError(t *testing.T) {
	var calls int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "bad voice", http.StatusUnauthorized)
	}))
	defer server.Close()

	service := NewElevenLabsService(zap.NewNop(), "wrong-key", "test-voice", server.URL)

	_, err := service.SynthesizeText(context.Background(), "hello", testDirective(100, 100, 100))
	assert.Error(t, err)
	// Ошибки клиента не повторяются
	assert.Equal(t, 1, calls)
}

func TestElevenLabsService_BuildSSML(t *testing.T) {
	service := NewElevenLabsService(zap.NewNop(), "key", "voice", "https://api.example.com")

	ssml := service.buildSSML("hello", testDirective(130, 85, 100))

	assert.True(t, strings.HasPrefix(ssml, "<speak>"))
	assert.Contains(t, ssml, `rate="+30%"`)
	assert.Contains(t, ssml, `pitch="-15%"`)
	assert.Contains(t, ssml, `volume="+0%"`)
	assert.Contains(t, ssml, ">hello<")
}
