package services

import (
	"context"
	"log"
	"sync"
)

// IndexQueue accepts history ids for background indexing.
type IndexQueue interface {
	EnqueueJob(historyID uint) bool
}

type Worker interface {
	IndexQueue
	Start(ctx context.Context)
	Stop()
}

type worker struct {
	indexer     IndexerService
	jobQueue    chan uint
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
	stopOnce    sync.Once
}

func NewWorker(
	indexer IndexerService,
	concurrency int,
	queueSize int,
) Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}

	return &worker{
		indexer:     indexer,
		jobQueue:    make(chan uint, queueSize),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting index worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	log.Println("✅ Index worker started successfully")
}

// Stop implements Worker. Jobs still queued are dropped; the reindex
// command backfills them.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		log.Println("🛑 Stopping index worker...")
		close(w.stopChan)
		w.wg.Wait()
		log.Println("✅ Index worker stopped")
	})
}

// EnqueueJob implements IndexQueue. It never blocks the caller: when the
// queue is full or the worker is stopped the job is dropped.
func (w *worker) EnqueueJob(historyID uint) bool {
	select {
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue record %d\n", historyID)
		return false
	default:
	}

	select {
	case w.jobQueue <- historyID:
		log.Printf("📥 Record %d enqueued for indexing\n", historyID)
		return true
	default:
		log.Printf("⚠️  Index queue full, dropping record %d\n", historyID)
		return false
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case <-ctx.Done():
			log.Printf("👷 Worker #%d stopped: %v\n", workerID, ctx.Err())
			return
		case historyID := <-w.jobQueue:
			if err := w.indexer.IndexRecord(ctx, historyID); err != nil {
				log.Printf("❌ Worker #%d failed to index record %d: %v\n", workerID, historyID, err)
			} else {
				log.Printf("✅ Worker #%d indexed record %d\n", workerID, historyID)
			}
		}
	}
}
