package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"resumelens/resume-analyzer/internal/models"
	"resumelens/resume-analyzer/internal/repositories"
)

// AnalyzeRequest is one uploaded resume. MimeType is the declared media type
// of the upload, not a guess from its content.
type AnalyzeRequest struct {
	Filename       string
	MimeType       string
	Data           []byte
	JobDescription string
}

type AnalyzerService interface {
	Analyze(ctx context.Context, req AnalyzeRequest) (*models.AnalysisResult, *models.HistoryRecord, error)
}

type analyzerService struct {
	historyRepo   repositories.HistoryRepository
	geminiService GeminiService
	parser        DocumentParserService
	promptBuilder *PromptBuilder
	storage       StorageService
	indexQueue    IndexQueue
	notifier      Notifier
}

// NewAnalyzerService wires the pipeline. storage, indexQueue and notifier
// are optional and may be nil.
func NewAnalyzerService(
	historyRepo repositories.HistoryRepository,
	geminiService GeminiService,
	parser DocumentParserService,
	storage StorageService,
	indexQueue IndexQueue,
	notifier Notifier,
) AnalyzerService {
	return &analyzerService{
		historyRepo:   historyRepo,
		geminiService: geminiService,
		parser:        parser,
		promptBuilder: NewPromptBuilder(),
		storage:       storage,
		indexQueue:    indexQueue,
		notifier:      notifier,
	}
}

// Analyze runs one upload through extraction, the model, validation and the
// history log. Nothing is persisted unless the model reply is valid.
func (a *analyzerService) Analyze(ctx context.Context, req AnalyzeRequest) (*models.AnalysisResult, *models.HistoryRecord, error) {
	if !IsSupportedMimeType(req.MimeType) {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, req.MimeType)
	}

	log.Printf("📄 Parsing %s (%d bytes)...\n", req.Filename, len(req.Data))
	doc, err := a.parser.Parse(req.Data, req.MimeType)
	if err != nil {
		return nil, nil, err
	}

	var inline *InlineDocument
	if doc.Inline != nil {
		inline = &InlineDocument{MimeType: doc.MimeType, Data: doc.Inline}
		if doc.PageCount > 0 {
			log.Printf("📄 %s has %d page(s)\n", req.Filename, doc.PageCount)
		}
	} else if strings.TrimSpace(doc.Text) == "" {
		return nil, nil, ErrEmptyText
	}

	prompt := a.promptBuilder.BuildAnalysisPrompt(doc.Text, req.JobDescription)

	log.Println("🤖 Analyzing resume with LLM...")
	reply, err := a.geminiService.GenerateAnalysis(ctx, prompt, inline)
	if err != nil {
		return nil, nil, err
	}

	result, err := ParseAnalysis(reply)
	if err != nil {
		log.Printf("❌ Model reply rejected: %v\n", err)
		return nil, nil, err
	}

	var storedFile string
	if a.storage != nil {
		storedFile, err = a.storage.SaveFile(ctx, req.Data, req.MimeType)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to archive upload: %w", err)
		}
	}

	log.Println("💾 Saving analysis to history...")
	record, err := a.historyRepo.Record(ctx, req.Filename, result, storedFile)
	if err != nil {
		if storedFile != "" {
			if delErr := a.storage.DeleteFile(ctx, storedFile); delErr != nil {
				log.Printf("⚠️  Failed to remove archived upload %s: %v\n", storedFile, delErr)
			}
		}
		return nil, nil, err
	}

	if a.indexQueue != nil {
		a.indexQueue.EnqueueJob(record.ID)
	}

	if a.notifier != nil {
		event := models.AnalysisCompletedEvent{
			ID:        record.ID,
			Filename:  record.Filename,
			Score:     record.Score,
			Timestamp: record.Timestamp,
		}
		if err := a.notifier.PublishAnalysisCompleted(event); err != nil {
			log.Printf("⚠️  Failed to publish analysis event for record %d: %v\n", record.ID, err)
		}
	}

	log.Printf("✅ Analysis completed for %s (record %d, score %d)\n", req.Filename, record.ID, record.Score)
	return result, record, nil
}
