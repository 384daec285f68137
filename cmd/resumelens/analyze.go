package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"resumelens/resume-analyzer/internal/services"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE",
	Short: "Analyze a PDF or DOCX resume and record it in the history",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

var jobDescription string

func init() {
	analyzeCmd.Flags().StringVarP(&jobDescription, "job", "j", "", "Job description to match the resume against")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]

	mimeType := services.MimeTypeFromFilename(path)
	if mimeType == "" {
		return fmt.Errorf("unsupported file format %q: please use a .pdf or .docx file", filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	rt, err := loadDeps()
	if err != nil {
		return err
	}

	storage, err := services.NewStorageFromConfig(cmd.Context(), rt.cfg.Storage)
	if err != nil {
		return err
	}
	if storage != nil {
		if err := storage.EnsureUploadDir(); err != nil {
			return err
		}
	}

	analyzer := services.NewAnalyzerService(
		rt.historyRepo,
		rt.gemini,
		services.NewDocumentParserService(),
		storage,
		nil,
		nil,
	)

	result, record, err := analyzer.Analyze(cmd.Context(), services.AnalyzeRequest{
		Filename:       filepath.Base(path),
		MimeType:       mimeType,
		Data:           data,
		JobDescription: jobDescription,
	})
	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Recorded as history entry %d\n", record.ID)
	return nil
}
