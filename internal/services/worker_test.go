package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumelens/resume-analyzer/internal/models"
)

type fakeIndexer struct {
	mu      sync.Mutex
	indexed []uint
	done    chan uint
}

func (f *fakeIndexer) IndexRecord(ctx context.Context, historyID uint) error {
	f.mu.Lock()
	f.indexed = append(f.indexed, historyID)
	f.mu.Unlock()
	if f.done != nil {
		f.done <- historyID
	}
	return nil
}

func (f *fakeIndexer) FindSimilar(ctx context.Context, historyID uint, limit int) ([]models.SimilarItem, error) {
	return nil, nil
}

func TestWorker_ProcessesJobs(t *testing.T) {
	indexer := &fakeIndexer{done: make(chan uint, 3)}
	w := NewWorker(indexer, 2, 10)
	w.Start(context.Background())
	defer w.Stop()

	for _, id := range []uint{1, 2, 3} {
		require.True(t, w.EnqueueJob(id))
	}

	seen := map[uint]bool{}
	for i := 0; i < 3; i++ {
		select {
		case id := <-indexer.done:
			seen[id] = true
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for index jobs")
		}
	}
	assert.Equal(t, map[uint]bool{1: true, 2: true, 3: true}, seen)
}

func TestWorker_EnqueueNeverBlocks(t *testing.T) {
	w := NewWorker(&fakeIndexer{}, 1, 1)

	assert.True(t, w.EnqueueJob(1))
	assert.False(t, w.EnqueueJob(2))
}

func TestWorker_EnqueueAfterStop(t *testing.T) {
	w := NewWorker(&fakeIndexer{}, 1, 5)
	w.Start(context.Background())
	w.Stop()
	w.Stop()

	assert.False(t, w.EnqueueJob(7))
}
