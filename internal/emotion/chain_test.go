package emotion

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"empathy-engine/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// failingClassifier всегда возвращает ошибку
type failingClassifier struct {
	name string
}

func (f *failingClassifier) Classify(ctx context.Context, text string) (*models.EmotionResult, error) {
	return nil, errors.New("уровень недоступен")
}

func (f *failingClassifier) GetName() string {
	return f.name
}

func TestChain_EmptyInput(t *testing.T) {
	chain := NewChain(zap.NewNop(), NewBasicClassifier(zap.NewNop()))

	_, err := chain.Classify(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = chain.Classify(context.Background(), "   \t\n  ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestChain_FirstTierWins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"emotions":[{"label":"excited","score":0.85}],"dominant_emotion":"excited"}`))
	}))
	defer server.Close()

	model := NewModelClient(server.URL, 5*time.Second, zap.NewNop())
	chain := NewChain(zap.NewNop(), model, NewBasicClassifier(zap.NewNop()))

	result, err := chain.Classify(context.Background(), "I am so excited about this new technology!")
	require.NoError(t, err)

	assert.Equal(t, models.EmotionExcited, result.Label)
	assert.Equal(t, "model", result.Source)
}

func TestChain_FallbackToBasic(t *testing.T) {
	// Сервис модели недоступен, цепочка переходит на лексический уровень
	model := NewModelClient("http://127.0.0.1:1", time.Second, zap.NewNop())
	chain := NewChain(zap.NewNop(), model, NewBasicClassifier(zap.NewNop()))

	result, err := chain.Classify(context.Background(), "This is absolutely wonderful and amazing")
	require.NoError(t, err)

	assert.Equal(t, "basic", result.Source)
	assert.Equal(t, models.EmotionHappy, result.Label)
}

func TestChain_DefaultWhenAllFail(t *testing.T) {
	chain := NewChain(zap.NewNop(),
		&failingClassifier{name: "first"},
		&failingClassifier{name: "second"})

	result, err := chain.Classify(context.Background(), "any text at all")
	require.NoError(t, err)

	assert.Equal(t, models.EmotionNeutral, result.Label)
	assert.Equal(t, 0.0, result.Confidence)
	assert.Equal(t, "default", result.Source)
}
