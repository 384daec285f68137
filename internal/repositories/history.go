package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resumelens/resume-analyzer/internal/models"
)

const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 10
)

var ErrHistoryNotFound = errors.New("history record not found")

// HistoryRepository is the append-only analysis log. There is no update or
// delete.
type HistoryRepository interface {
	Record(ctx context.Context, filename string, result *models.AnalysisResult, storedFile string) (*models.HistoryRecord, error)
	Recent(ctx context.Context, limit int) ([]models.HistoryItem, error)
	FindByID(ctx context.Context, id uint) (*models.HistoryItem, error)
	FindAfterID(ctx context.Context, afterID uint, limit int) ([]models.HistoryRecord, error)
	Count(ctx context.Context) (int64, error)
}

type historyRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

// Record serializes result and inserts it. The score column is read back
// from the serialized blob so the two can never disagree.
func (r *historyRepository) Record(ctx context.Context, filename string, result *models.AnalysisResult, storedFile string) (*models.HistoryRecord, error) {
	if result == nil {
		return nil, fmt.Errorf("failed to record analysis: result is nil")
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize analysis: %w", err)
	}

	record := &models.HistoryRecord{
		Filename:     filename,
		Score:        int(gjson.GetBytes(raw, "scores.overall").Int()),
		AnalysisJSON: datatypes.JSON(raw),
		StoredFile:   storedFile,
	}

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to record analysis: %w", err)
	}

	return record, nil
}

func (r *historyRepository) Recent(ctx context.Context, limit int) ([]models.HistoryItem, error) {
	if limit <= 0 || limit > MaxHistoryLimit {
		limit = DefaultHistoryLimit
	}

	var records []models.HistoryRecord
	err := r.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: true}).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}

	items := make([]models.HistoryItem, 0, len(records))
	for i := range records {
		item, err := ToHistoryItem(&records[i])
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	return items, nil
}

func (r *historyRepository) FindByID(ctx context.Context, id uint) (*models.HistoryItem, error) {
	var record models.HistoryRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHistoryNotFound
		}
		return nil, fmt.Errorf("failed to find history record: %w", err)
	}

	return ToHistoryItem(&record)
}

// FindAfterID pages through the log in id order.
func (r *historyRepository) FindAfterID(ctx context.Context, afterID uint, limit int) ([]models.HistoryRecord, error) {
	var records []models.HistoryRecord
	err := r.db.WithContext(ctx).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to page history: %w", err)
	}

	return records, nil
}

func (r *historyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.HistoryRecord{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return count, nil
}

func ToHistoryItem(record *models.HistoryRecord) (*models.HistoryItem, error) {
	var analysis models.AnalysisResult
	if err := json.Unmarshal(record.AnalysisJSON, &analysis); err != nil {
		return nil, fmt.Errorf("failed to decode analysis for record %d: %w", record.ID, err)
	}

	return &models.HistoryItem{
		ID:         record.ID,
		Filename:   record.Filename,
		Timestamp:  record.Timestamp,
		Score:      record.Score,
		Analysis:   &analysis,
		StoredFile: record.StoredFile,
	}, nil
}
