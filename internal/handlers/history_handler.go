package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"resumelens/resume-analyzer/internal/models"
	"resumelens/resume-analyzer/internal/repositories"
	"resumelens/resume-analyzer/internal/services"
)

const (
	defaultSimilarLimit = 5
	maxSimilarLimit     = 20
)

type HistoryHandler struct {
	historyRepo repositories.HistoryRepository
	indexer     services.IndexerService
}

// NewHistoryHandler accepts a nil indexer when similarity search is off.
func NewHistoryHandler(historyRepo repositories.HistoryRepository, indexer services.IndexerService) *HistoryHandler {
	return &HistoryHandler{
		historyRepo: historyRepo,
		indexer:     indexer,
	}
}

func (h *HistoryHandler) HandleGetHistory(c *fiber.Ctx) error {
	items, err := h.historyRepo.Recent(c.UserContext(), c.QueryInt("limit", repositories.DefaultHistoryLimit))
	if err != nil {
		log.Printf("❌ Failed to fetch history: %v\n", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch history",
		})
	}

	if items == nil {
		items = []models.HistoryItem{}
	}

	return c.JSON(items)
}

func (h *HistoryHandler) HandleGetHistoryItem(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid history ID",
		})
	}

	item, err := h.historyRepo.FindByID(c.UserContext(), uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrHistoryNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "History record not found",
			})
		}
		log.Printf("❌ Failed to fetch history record %d: %v\n", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch history",
		})
	}

	return c.JSON(item)
}

func (h *HistoryHandler) HandleGetSimilar(c *fiber.Ctx) error {
	if h.indexer == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Similarity search is not configured",
		})
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid history ID",
		})
	}

	limit := c.QueryInt("limit", defaultSimilarLimit)
	if limit <= 0 || limit > maxSimilarLimit {
		limit = defaultSimilarLimit
	}

	similar, err := h.indexer.FindSimilar(c.UserContext(), uint(id), limit)
	if err != nil {
		if errors.Is(err, repositories.ErrHistoryNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "History record not found",
			})
		}
		log.Printf("❌ Similarity search failed for record %d: %v\n", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to find similar resumes: " + err.Error(),
		})
	}

	return c.JSON(similar)
}
