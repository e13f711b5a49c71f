package emotion

import (
	"context"
	"testing"

	"empathy-engine/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBasicClassifier_Buckets(t *testing.T) {
	classifier := NewBasicClassifier(zap.NewNop())
	ctx := context.Background()

	tests := []struct {
		name string
		text string
		want models.EmotionLabel
	}{
		{
			name: "сильная положительная полярность",
			text: "This is absolutely wonderful and amazing, I love it",
			want: models.EmotionHappy,
		},
		{
			name: "сильная отрицательная полярность",
			text: "This is really disappointing and frustrating",
			want: models.EmotionSad,
		},
		{
			name: "слабая положительная полярность",
			text: "the weather seems fine today normal ok",
			want: models.EmotionPositive,
		},
		{
			name: "нейтральный текст без оценочных слов",
			text: "Today is Tuesday, the meeting starts at noon",
			want: models.EmotionNeutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := classifier.Classify(ctx, tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Label)
			assert.GreaterOrEqual(t, result.Confidence, 0.0)
			assert.LessOrEqual(t, result.Confidence, 1.0)
			assert.Equal(t, "basic", result.Source)
		})
	}
}

func TestBasicClassifier_Negation(t *testing.T) {
	classifier := NewBasicClassifier(zap.NewNop())
	ctx := context.Background()

	positive, err := classifier.Classify(ctx, "this movie is good")
	require.NoError(t, err)

	negated, err := classifier.Classify(ctx, "this movie is not good")
	require.NoError(t, err)

	// Отрицание переворачивает знак полярности
	assert.Greater(t, positive.Details["polarity"], 0.0)
	assert.Less(t, negated.Details["polarity"], 0.0)
}

func TestBasicClassifier_Details(t *testing.T) {
	classifier := NewBasicClassifier(zap.NewNop())

	result, err := classifier.Classify(context.Background(), "I am so excited about this")
	require.NoError(t, err)

	assert.Contains(t, result.Details, "polarity")
	assert.Contains(t, result.Details, "subjectivity")
}

func TestBasicClassifier_Deterministic(t *testing.T) {
	classifier := NewBasicClassifier(zap.NewNop())
	ctx := context.Background()
	text := "I am so excited about this new technology!"

	first, err := classifier.Classify(ctx, text)
	require.NoError(t, err)

	// Одинаковый текст всегда дает одинаковый результат
	for i := 0; i < 5; i++ {
		result, err := classifier.Classify(ctx, text)
		require.NoError(t, err)
		assert.Equal(t, first.Label, result.Label)
		assert.Equal(t, first.Confidence, result.Confidence)
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello   world  ", "hello world"},
		{"check http://example.com/page this", "check this"},
		{"tabs\tand\nnewlines", "tabs and newlines"},
		{"   ", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanText(tt.in))
	}
}
