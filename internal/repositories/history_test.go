package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumelens/resume-analyzer/internal/testutil"
)

func TestRecord_CopiesOverallScore(t *testing.T) {
	repo := NewHistoryRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	result := testutil.SampleAnalysis("John Doe", 83)
	record, err := repo.Record(ctx, "john_doe.pdf", result, "")
	require.NoError(t, err)

	assert.NotZero(t, record.ID)
	assert.Equal(t, 83, record.Score)
	assert.False(t, record.Timestamp.IsZero())
	assert.JSONEq(t, mustJSON(t, result), string(record.AnalysisJSON))
}

func TestRecord_NilResult(t *testing.T) {
	repo := NewHistoryRepository(testutil.NewTestDB(t))

	_, err := repo.Record(context.Background(), "x.pdf", nil, "")
	require.Error(t, err)
}

func TestRecent_EmptyLog(t *testing.T) {
	repo := NewHistoryRepository(testutil.NewTestDB(t))

	items, err := repo.Recent(context.Background(), DefaultHistoryLimit)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestRecent_NewestFirstAndCapped(t *testing.T) {
	repo := NewHistoryRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		_, err := repo.Record(ctx, fmt.Sprintf("resume_%02d.docx", i), testutil.SampleAnalysis("Candidate", 50+i), "")
		require.NoError(t, err)
	}

	items, err := repo.Recent(ctx, 50)
	require.NoError(t, err)
	require.Len(t, items, MaxHistoryLimit)

	assert.Equal(t, "resume_11.docx", items[0].Filename)
	assert.Equal(t, "resume_02.docx", items[len(items)-1].Filename)

	for i := 1; i < len(items); i++ {
		prev, cur := items[i-1], items[i]
		assert.False(t, cur.Timestamp.After(prev.Timestamp), "timestamps must be descending")
		assert.Greater(t, prev.ID, cur.ID)
	}
}

func TestRecent_DecodesAnalysis(t *testing.T) {
	repo := NewHistoryRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	result := testutil.SampleAnalysis("Jane Roe", 91)
	_, err := repo.Record(ctx, "jane.pdf", result, "resume_abc.pdf")
	require.NoError(t, err)

	items, err := repo.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, result, items[0].Analysis)
	assert.Equal(t, items[0].Analysis.Scores.Overall, items[0].Score)
	assert.Equal(t, "resume_abc.pdf", items[0].StoredFile)
}

func TestFindByID(t *testing.T) {
	repo := NewHistoryRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	record, err := repo.Record(ctx, "a.pdf", testutil.SampleAnalysis("A", 60), "")
	require.NoError(t, err)

	item, err := repo.FindByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "a.pdf", item.Filename)
	assert.Equal(t, "A", item.Analysis.PersonalInfo.Name)

	_, err = repo.FindByID(ctx, record.ID+100)
	assert.ErrorIs(t, err, ErrHistoryNotFound)
}

func TestFindAfterID_Pages(t *testing.T) {
	repo := NewHistoryRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := repo.Record(ctx, fmt.Sprintf("%d.pdf", i), testutil.SampleAnalysis("C", 40), "")
		require.NoError(t, err)
	}

	first, err := repo.FindAfterID(ctx, 0, 3)
	require.NoError(t, err)
	require.Len(t, first, 3)

	rest, err := repo.FindAfterID(ctx, first[len(first)-1].ID, 3)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Greater(t, rest[0].ID, first[2].ID)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5, count)
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
