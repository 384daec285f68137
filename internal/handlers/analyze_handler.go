package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"resumelens/resume-analyzer/internal/services"
)

const (
	msgNoFile          = "No file uploaded"
	msgUnsupportedType = "Unsupported file format. Please upload PDF or DOCX."
	msgNoText          = "Could not extract text from resume."
)

type AnalyzeHandler struct {
	analyzer    services.AnalyzerService
	maxFileSize int64
}

func NewAnalyzeHandler(analyzer services.AnalyzerService, maxFileSize int64) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer:    analyzer,
		maxFileSize: maxFileSize,
	}
}

// HandleAnalyze accepts multipart field "resume" (PDF or DOCX) and optional
// "jobDescription", and responds with the analysis.
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil || file == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": msgNoFile,
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	mimeType := mediaType(file.Header.Get(fiber.HeaderContentType))
	if !services.IsSupportedMimeType(mimeType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": msgUnsupportedType,
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to analyze resume: " + err.Error(),
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to analyze resume: " + err.Error(),
		})
	}

	result, _, err := h.analyzer.Analyze(c.UserContext(), services.AnalyzeRequest{
		Filename:       file.Filename,
		MimeType:       mimeType,
		Data:           data,
		JobDescription: c.FormValue("jobDescription"),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnsupportedFormat):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": msgUnsupportedType,
			})
		case services.IsClientError(err):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": msgNoText,
			})
		default:
			log.Printf("❌ Analysis error for %s: %v\n", file.Filename, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to analyze resume: " + err.Error(),
			})
		}
	}

	return c.JSON(result)
}

// mediaType strips parameters from a Content-Type header value.
func mediaType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
