package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumelens/resume-analyzer/internal/repositories"
	"resumelens/resume-analyzer/internal/testutil"
)

type upsertCall struct {
	ID      uint
	Payload ProfilePayload
	Vector  []float32
}

type fakeQdrant struct {
	upserts []upsertCall
	hits    []SearchResult
	limit   int
}

func (f *fakeQdrant) InitCollection(ctx context.Context) error { return nil }

func (f *fakeQdrant) UpsertProfile(ctx context.Context, historyID uint, payload ProfilePayload, embedding []float32) error {
	f.upserts = append(f.upserts, upsertCall{ID: historyID, Payload: payload, Vector: embedding})
	return nil
}

func (f *fakeQdrant) SearchSimilar(ctx context.Context, queryEmbedding []float32, limit int) ([]SearchResult, error) {
	f.limit = limit
	return f.hits, nil
}

func (f *fakeQdrant) Close() error { return nil }

func TestIndexRecord_UpsertsProfile(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewHistoryRepository(testutil.NewTestDB(t))
	record, err := repo.Record(ctx, "john_doe.pdf", testutil.SampleAnalysis("John Doe", 77), "")
	require.NoError(t, err)

	gemini := &fakeGemini{embedding: []float32{0.1, 0.2, 0.3}}
	qdrant := &fakeQdrant{}
	indexer := NewIndexerService(repo, gemini, qdrant)

	require.NoError(t, indexer.IndexRecord(ctx, record.ID))

	require.Len(t, qdrant.upserts, 1)
	assert.Equal(t, record.ID, qdrant.upserts[0].ID)
	assert.Equal(t, ProfilePayload{Filename: "john_doe.pdf", Score: 77}, qdrant.upserts[0].Payload)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, qdrant.upserts[0].Vector)
	require.Len(t, gemini.embedded, 1)
	assert.Contains(t, gemini.embedded[0], "Skills: Go, PostgreSQL, Kubernetes")
}

func TestIndexRecord_UnknownID(t *testing.T) {
	repo := repositories.NewHistoryRepository(testutil.NewTestDB(t))
	indexer := NewIndexerService(repo, &fakeGemini{}, &fakeQdrant{})

	err := indexer.IndexRecord(context.Background(), 404)
	require.ErrorIs(t, err, repositories.ErrHistoryNotFound)
}

func TestFindSimilar_ExcludesSelf(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewHistoryRepository(testutil.NewTestDB(t))
	record, err := repo.Record(ctx, "a.pdf", testutil.SampleAnalysis("A", 60), "")
	require.NoError(t, err)

	qdrant := &fakeQdrant{hits: []SearchResult{
		{HistoryID: record.ID, Filename: "a.pdf", Score: 60, Similarity: 1},
		{HistoryID: 20, Filename: "b.pdf", Score: 70, Similarity: 0.93},
		{HistoryID: 21, Filename: "c.pdf", Score: 55, Similarity: 0.81},
		{HistoryID: 22, Filename: "d.pdf", Score: 40, Similarity: 0.52},
	}}
	indexer := NewIndexerService(repo, &fakeGemini{embedding: []float32{1}}, qdrant)

	similar, err := indexer.FindSimilar(ctx, record.ID, 2)
	require.NoError(t, err)

	assert.Equal(t, 3, qdrant.limit)
	require.Len(t, similar, 2)
	assert.Equal(t, uint(20), similar[0].ID)
	assert.Equal(t, uint(21), similar[1].ID)
	assert.InDelta(t, 0.93, similar[0].Similarity, 1e-6)
}
