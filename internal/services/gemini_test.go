package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiService_MissingAPIKey(t *testing.T) {
	svc := NewGeminiService("", "gemini-2.5-flash", "gemini-embedding-001", 768)

	_, err := svc.GenerateAnalysis(context.Background(), "prompt", nil)
	require.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Equal(t, "GEMINI_API_KEY is not set in the environment", err.Error())

	_, err = svc.GenerateEmbedding(context.Background(), "text")
	require.ErrorIs(t, err, ErrMissingAPIKey)
}
