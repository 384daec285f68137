package services

import (
	"context"
	"fmt"
	"log"

	"resumelens/resume-analyzer/internal/models"
	"resumelens/resume-analyzer/internal/repositories"
)

// IndexerService keeps the similarity index in step with the history log.
// It only reads history records.
type IndexerService interface {
	IndexRecord(ctx context.Context, historyID uint) error
	FindSimilar(ctx context.Context, historyID uint, limit int) ([]models.SimilarItem, error)
}

type indexerService struct {
	historyRepo   repositories.HistoryRepository
	geminiService GeminiService
	qdrantService QdrantService
	promptBuilder *PromptBuilder
}

func NewIndexerService(
	historyRepo repositories.HistoryRepository,
	geminiService GeminiService,
	qdrantService QdrantService,
) IndexerService {
	return &indexerService{
		historyRepo:   historyRepo,
		geminiService: geminiService,
		qdrantService: qdrantService,
		promptBuilder: NewPromptBuilder(),
	}
}

func (s *indexerService) embedRecord(ctx context.Context, item *models.HistoryItem) ([]float32, error) {
	text := s.promptBuilder.BuildProfileText(item.Analysis)
	if text == "" {
		text = item.Filename
	}

	embedding, err := s.geminiService.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed record %d: %w", item.ID, err)
	}

	return embedding, nil
}

// IndexRecord implements IndexerService.
func (s *indexerService) IndexRecord(ctx context.Context, historyID uint) error {
	item, err := s.historyRepo.FindByID(ctx, historyID)
	if err != nil {
		return err
	}

	embedding, err := s.embedRecord(ctx, item)
	if err != nil {
		return err
	}

	payload := ProfilePayload{Filename: item.Filename, Score: item.Score}
	if err := s.qdrantService.UpsertProfile(ctx, item.ID, payload, embedding); err != nil {
		return err
	}

	log.Printf("🧭 Indexed history record %d\n", item.ID)
	return nil
}

// FindSimilar implements IndexerService. The record itself is excluded.
func (s *indexerService) FindSimilar(ctx context.Context, historyID uint, limit int) ([]models.SimilarItem, error) {
	item, err := s.historyRepo.FindByID(ctx, historyID)
	if err != nil {
		return nil, err
	}

	embedding, err := s.embedRecord(ctx, item)
	if err != nil {
		return nil, err
	}

	hits, err := s.qdrantService.SearchSimilar(ctx, embedding, limit+1)
	if err != nil {
		return nil, err
	}

	similar := make([]models.SimilarItem, 0, limit)
	for _, hit := range hits {
		if hit.HistoryID == item.ID {
			continue
		}
		if len(similar) == limit {
			break
		}
		similar = append(similar, models.SimilarItem{
			ID:         hit.HistoryID,
			Filename:   hit.Filename,
			Score:      hit.Score,
			Similarity: hit.Similarity,
		})
	}

	return similar, nil
}
