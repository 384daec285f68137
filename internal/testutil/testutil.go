// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"resumelens/resume-analyzer/internal/config"
	"resumelens/resume-analyzer/internal/models"
)

// NewTestDB opens a migrated SQLite database in a per-test temp dir.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "history.db")
	db, err := config.OpenDatabase("sqlite", path, logger.Discard)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}

func SampleAnalysis(name string, overall int) *models.AnalysisResult {
	return &models.AnalysisResult{
		PersonalInfo: models.PersonalInfo{
			Name:     name,
			Email:    "john.doe@example.com",
			Phone:    "+1 555 0100",
			Location: "Berlin, DE",
		},
		Summary: "Backend engineer with eight years of Go and distributed systems experience.",
		Scores: models.Scores{
			Overall:            overall,
			ATSCompatibility:   80,
			SkillRelevance:     75,
			ExperienceStrength: 70,
			Formatting:         90,
		},
		Sections: models.ResumeSections{
			Skills: []string{"Go", "PostgreSQL", "Kubernetes"},
			Education: []models.Education{
				{Institution: "TU Berlin", Degree: "BSc Computer Science", Year: "2015"},
			},
			Experience: []models.Experience{
				{Company: "Acme", Role: "Software Engineer", Duration: "2018-2024", Description: "Built payment APIs."},
			},
			Projects: []models.Project{
				{Name: "ledger", Description: "Double-entry ledger service."},
			},
			Certifications: []string{"CKA"},
		},
		Analysis: models.QualitativeNotes{
			Strengths:       []string{"Strong backend depth"},
			Weaknesses:      []string{"Few quantified results"},
			Suggestions:     []string{"Add metrics to bullet points"},
			MissingKeywords: []string{"gRPC"},
			ActionVerbImprovements: []models.ActionVerbSuggestion{
				{Original: "worked on", Suggested: "engineered"},
			},
		},
		JobMatch: models.JobMatch{
			MatchPercentage:   72,
			MissingSkills:     []string{"Kafka"},
			RecommendedSkills: []string{"Event sourcing"},
		},
	}
}

// BuildDOCX returns a minimal .docx archive with one paragraph per entry.
func BuildDOCX(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var body strings.Builder
	for _, p := range paragraphs {
		fmt.Fprintf(&body, `<w:p><w:r><w:t xml:space="preserve">%s</w:t></w:r></w:p>`, p)
	}

	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
			`<Default Extension="xml" ContentType="application/xml"/>` +
			`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
			`</Types>`,
		"_rels/.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
			`</Relationships>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
			`<w:body>` + body.String() + `</w:body></w:document>`,
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close docx: %v", err)
	}

	return buf.Bytes()
}
