package models

import "time"

// HistoryItem is the API view of a HistoryRecord with the stored analysis
// decoded back into its structured form.
type HistoryItem struct {
	ID         uint            `json:"id"`
	Filename   string          `json:"filename"`
	Timestamp  time.Time       `json:"timestamp"`
	Score      int             `json:"score"`
	Analysis   *AnalysisResult `json:"analysis"`
	StoredFile string          `json:"storedFile,omitempty"`
}

type SimilarItem struct {
	ID         uint    `json:"id"`
	Filename   string  `json:"filename"`
	Score      int     `json:"score"`
	Similarity float32 `json:"similarity"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// AnalysisCompletedEvent is published after a record is stored.
type AnalysisCompletedEvent struct {
	ID        uint      `json:"id"`
	Filename  string    `json:"filename"`
	Score     int       `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}
