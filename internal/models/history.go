package models

import (
	"time"

	"gorm.io/datatypes"
)

// HistoryRecord is one row of the append-only analysis log. Rows are
// written once and never updated.
type HistoryRecord struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Filename     string         `gorm:"type:text" json:"filename"`
	Timestamp    time.Time      `gorm:"autoCreateTime;index" json:"timestamp"`
	Score        int            `gorm:"not null" json:"score"`
	AnalysisJSON datatypes.JSON `gorm:"column:analysis_json;not null" json:"-"`
	StoredFile   string         `gorm:"type:text" json:"storedFile,omitempty"`
}

func (HistoryRecord) TableName() string {
	return "analysis_history"
}
