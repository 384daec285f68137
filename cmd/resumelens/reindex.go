package main

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"resumelens/resume-analyzer/internal/repositories"
	"resumelens/resume-analyzer/internal/services"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the similarity index from the analysis history",
	RunE:  runReindex,
}

var (
	reindexBatchSize   int
	reindexConcurrency int
)

func init() {
	reindexCmd.Flags().IntVar(&reindexBatchSize, "batch", 50, "Records loaded per batch")
	reindexCmd.Flags().IntVarP(&reindexConcurrency, "concurrency", "c", 4, "Records embedded in parallel")

	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command, args []string) error {
	rt, err := loadDeps()
	if err != nil {
		return err
	}

	if rt.cfg.Qdrant.URL == "" {
		return fmt.Errorf("QDRANT_URL is not set")
	}

	qdrantService, err := services.NewQdrantService(
		rt.cfg.Qdrant.URL,
		rt.cfg.Qdrant.APIKey,
		rt.cfg.Qdrant.Collection,
		rt.cfg.Qdrant.VectorSize,
	)
	if err != nil {
		return err
	}
	defer qdrantService.Close()

	if err := qdrantService.InitCollection(cmd.Context()); err != nil {
		return err
	}

	indexer := services.NewIndexerService(rt.historyRepo, rt.gemini, qdrantService)

	log.Println("🚀 Starting reindex...")
	succeeded, failed, err := reindexHistory(cmd.Context(), rt.historyRepo, indexer, reindexBatchSize, reindexConcurrency)
	if err != nil {
		return err
	}

	log.Println("\n" + "============================================================")
	log.Printf("✅ Reindex completed!")
	log.Printf("   Success: %d records", succeeded)
	log.Printf("   Failed: %d records", failed)
	log.Println("============================================================")

	if failed > 0 {
		return fmt.Errorf("%d records failed to index", failed)
	}
	return nil
}

// reindexHistory walks the whole log in id order and indexes each record.
// A failed record is counted and skipped; only a read failure aborts.
func reindexHistory(
	ctx context.Context,
	historyRepo repositories.HistoryRepository,
	indexer services.IndexerService,
	batchSize, concurrency int,
) (succeeded, failed int, err error) {
	if batchSize < 1 {
		batchSize = 1
	}
	if concurrency < 1 {
		concurrency = 1
	}

	var ok, bad atomic.Int64
	var afterID uint

	for {
		records, err := historyRepo.FindAfterID(ctx, afterID, batchSize)
		if err != nil {
			return int(ok.Load()), int(bad.Load()), err
		}
		if len(records) == 0 {
			break
		}

		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)

		for _, record := range records {
			id := record.ID
			g.Go(func() error {
				if err := indexer.IndexRecord(gCtx, id); err != nil {
					log.Printf("   ❌ Failed to index record %d: %v", id, err)
					bad.Add(1)
					return nil
				}
				ok.Add(1)
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return int(ok.Load()), int(bad.Load()), err
		}

		afterID = records[len(records)-1].ID
	}

	return int(ok.Load()), int(bad.Load()), nil
}
