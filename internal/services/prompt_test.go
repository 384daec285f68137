package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resumelens/resume-analyzer/internal/testutil"
)

func TestBuildAnalysisPrompt_WithResumeText(t *testing.T) {
	prompt := NewPromptBuilder().BuildAnalysisPrompt("John Doe\nSoftware Engineer", "Senior Go developer")

	assert.Contains(t, prompt, "RESUME TEXT:\nJohn Doe\nSoftware Engineer")
	assert.Contains(t, prompt, "JOB DESCRIPTION (if provided):\nSenior Go developer")
	assert.Contains(t, prompt, `"atsCompatibility"`)
}

func TestBuildAnalysisPrompt_InlineDocument(t *testing.T) {
	prompt := NewPromptBuilder().BuildAnalysisPrompt("", "")

	assert.NotContains(t, prompt, "RESUME TEXT:")
	assert.Contains(t, prompt, "JOB DESCRIPTION (if provided):\n\n")
}

func TestBuildProfileText(t *testing.T) {
	text := NewPromptBuilder().BuildProfileText(testutil.SampleAnalysis("John Doe", 80))

	assert.Contains(t, text, "Skills: Go, PostgreSQL, Kubernetes")
	assert.Contains(t, text, "Roles: Software Engineer at Acme")
	assert.Contains(t, text, "Strengths: Strong backend depth")
	assert.Empty(t, NewPromptBuilder().BuildProfileText(nil))
}
