package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"resumelens/resume-analyzer/internal/models"
)

type generateCall struct {
	Prompt   string
	Document *InlineDocument
}

// fakeGemini records every call and replays a canned reply.
type fakeGemini struct {
	mu        sync.Mutex
	reply     string
	err       error
	embedding []float32
	calls     []generateCall
	embedded  []string
}

func (f *fakeGemini) GenerateAnalysis(ctx context.Context, prompt string, document *InlineDocument) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, generateCall{Prompt: prompt, Document: document})
	return f.reply, f.err
}

func (f *fakeGemini) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.embedded = append(f.embedded, text)
	if f.err != nil {
		return nil, f.err
	}
	return f.embedding, nil
}

func (f *fakeGemini) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeQueue struct {
	ids []uint
}

func (f *fakeQueue) EnqueueJob(historyID uint) bool {
	f.ids = append(f.ids, historyID)
	return true
}

type fakeNotifier struct {
	events []models.AnalysisCompletedEvent
	err    error
}

func (f *fakeNotifier) PublishAnalysisCompleted(event models.AnalysisCompletedEvent) error {
	f.events = append(f.events, event)
	return f.err
}

func (f *fakeNotifier) Close() error { return nil }

func replyFor(t *testing.T, result *models.AnalysisResult) string {
	t.Helper()
	b, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal reply: %v", err)
	}
	return string(b)
}
