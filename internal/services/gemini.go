package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"google.golang.org/genai"
)

// InlineDocument is a file sent to the model as raw bytes.
type InlineDocument struct {
	MimeType string
	Data     []byte
}

type GeminiService interface {
	GenerateAnalysis(ctx context.Context, prompt string, document *InlineDocument) (string, error)
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type geminiService struct {
	apiKey     string
	modelName  string
	embedModel string
	dimensions int32

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiService never fails. The client is built on first use so that a
// missing API key only breaks the requests that need it.
func NewGeminiService(apiKey, modelName, embedModel string, dimensions int32) GeminiService {
	return &geminiService{
		apiKey:     apiKey,
		modelName:  modelName,
		embedModel: embedModel,
		dimensions: dimensions,
	}
}

func (g *geminiService) getClient(ctx context.Context) (*genai.Client, error) {
	if g.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	g.client = client
	return client, nil
}

// GenerateAnalysis implements GeminiService.
func (g *geminiService) GenerateAnalysis(ctx context.Context, prompt string, document *InlineDocument) (string, error) {
	client, err := g.getClient(ctx)
	if err != nil {
		return "", err
	}

	var parts []*genai.Part
	if document != nil {
		parts = append(parts, genai.NewPartFromBytes(document.Data, document.MimeType))
	}
	parts = append(parts, genai.NewPartFromText(prompt))

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   AnalysisResponseSchema(),
	}

	resp, err := client.Models.GenerateContent(ctx, g.modelName, contents, config)
	if err != nil {
		log.Printf("❌ Gemini API error: %v\n", err)
		return "", fmt.Errorf("failed to generate analysis: %w", err)
	}

	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}

	log.Printf("📊 Gemini response received (%d bytes)\n", len(text))

	return text, nil
}

// GenerateEmbedding implements GeminiService.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	client, err := g.getClient(ctx)
	if err != nil {
		return nil, err
	}

	// Truncate text if too long (max ~2000 tokens for embedding)
	if len(text) > 8000 {
		text = text[:8000]
	}

	var config *genai.EmbedContentConfig
	if g.dimensions > 0 {
		dims := g.dimensions
		config = &genai.EmbedContentConfig{OutputDimensionality: &dims}
	}

	result, err := client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}
