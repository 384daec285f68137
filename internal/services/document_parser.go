package services

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	MimeTypePDF  = "application/pdf"
	MimeTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ParsedDocument is what the analyzer forwards to the model: either plain
// text (DOCX) or the untouched upload bytes (PDF).
type ParsedDocument struct {
	MimeType  string
	Text      string
	Inline    []byte
	PageCount int
}

type DocumentParserService interface {
	Parse(data []byte, mimeType string) (*ParsedDocument, error)
}

type documentParserService struct{}

func NewDocumentParserService() DocumentParserService {
	return &documentParserService{}
}

func IsSupportedMimeType(mimeType string) bool {
	return mimeType == MimeTypePDF || mimeType == MimeTypeDOCX
}

// MimeTypeFromFilename maps a file extension to a supported media type, or
// returns "" for anything else.
func MimeTypeFromFilename(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return MimeTypePDF
	case ".docx":
		return MimeTypeDOCX
	default:
		return ""
	}
}

func ExtensionForMimeType(mimeType string) string {
	switch mimeType {
	case MimeTypePDF:
		return ".pdf"
	case MimeTypeDOCX:
		return ".docx"
	default:
		return ".bin"
	}
}

// Parse implements DocumentParserService.
func (p *documentParserService) Parse(data []byte, mimeType string) (*ParsedDocument, error) {
	switch mimeType {
	case MimeTypePDF:
		return &ParsedDocument{
			MimeType:  mimeType,
			Inline:    data,
			PageCount: countPDFPages(data),
		}, nil
	case MimeTypeDOCX:
		text, err := extractDOCXText(data)
		if err != nil {
			return nil, err
		}
		return &ParsedDocument{
			MimeType: mimeType,
			Text:     text,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mimeType)
	}
}

// countPDFPages is informational only; PDFs the reader cannot open are
// still sent to the model, which handles scanned and unusual files.
func countPDFPages(data []byte) (pages int) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("⚠️  PDF page count unavailable: %v\n", r)
			pages = 0
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		log.Printf("⚠️  PDF page count unavailable: %v\n", err)
		return 0
	}

	return reader.NumPage()
}

func extractDOCXText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDocumentDecode, err)
	}
	defer doc.Close()

	text, err := documentXMLToText(doc.Editable().GetContent())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDocumentDecode, err)
	}

	return CleanText(text), nil
}

// documentXMLToText flattens WordprocessingML into plain text: one line per
// paragraph, with tabs and breaks preserved.
func documentXMLToText(content string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(content))

	var sb strings.Builder
	inText := false

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read document xml: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteString("\t")
			case "br", "cr":
				sb.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return sb.String(), nil
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
