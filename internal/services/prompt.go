package services

import (
	"fmt"
	"strings"

	"resumelens/resume-analyzer/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildAnalysisPrompt creates the instruction sent alongside the resume.
// resumeText is empty for PDFs, which travel as an inline document part.
func (pb *PromptBuilder) BuildAnalysisPrompt(resumeText, jobDescription string) string {
	var resumeSection string
	if resumeText != "" {
		resumeSection = fmt.Sprintf("\nRESUME TEXT:\n%s\n", resumeText)
	}

	return fmt.Sprintf(`You are an expert ATS (Applicant Tracking System) reviewer and career coach.
Analyze the following resume and return a detailed analysis in JSON format.
%s
JOB DESCRIPTION (if provided):
%s

The JSON response MUST follow this structure:
{
  "personalInfo": {
    "name": "string",
    "email": "string",
    "phone": "string",
    "location": "string"
  },
  "summary": "string",
  "scores": {
    "overall": <integer 0-100>,
    "atsCompatibility": <integer 0-100>,
    "skillRelevance": <integer 0-100>,
    "experienceStrength": <integer 0-100>,
    "formatting": <integer 0-100>
  },
  "sections": {
    "skills": ["string"],
    "education": [{"institution": "string", "degree": "string", "year": "string"}],
    "experience": [{"company": "string", "role": "string", "duration": "string", "description": "string"}],
    "projects": [{"name": "string", "description": "string"}],
    "certifications": ["string"]
  },
  "analysis": {
    "strengths": ["string"],
    "weaknesses": ["string"],
    "suggestions": ["string"],
    "missingKeywords": ["string"],
    "actionVerbImprovements": [{"original": "string", "suggested": "string"}]
  },
  "jobMatch": {
    "matchPercentage": <integer 0-100>,
    "missingSkills": ["string"],
    "recommendedSkills": ["string"]
  }
}

Use empty strings and empty arrays for anything the resume does not contain.
Ensure the JSON is valid and strictly follows the structure above.`,
		resumeSection, jobDescription)
}

// BuildProfileText condenses a stored analysis into the text that gets
// embedded for similarity search.
func (pb *PromptBuilder) BuildProfileText(result *models.AnalysisResult) string {
	if result == nil {
		return ""
	}

	var parts []string

	if s := strings.TrimSpace(result.Summary); s != "" {
		parts = append(parts, "Summary: "+s)
	}

	if len(result.Sections.Skills) > 0 {
		parts = append(parts, "Skills: "+strings.Join(result.Sections.Skills, ", "))
	}

	var roles []string
	for _, exp := range result.Sections.Experience {
		role := strings.TrimSpace(exp.Role)
		if exp.Company != "" {
			role = fmt.Sprintf("%s at %s", role, exp.Company)
		}
		if role != "" {
			roles = append(roles, role)
		}
	}
	if len(roles) > 0 {
		parts = append(parts, "Roles: "+strings.Join(roles, "; "))
	}

	if len(result.Analysis.Strengths) > 0 {
		parts = append(parts, "Strengths: "+strings.Join(result.Analysis.Strengths, "; "))
	}

	return strings.Join(parts, "\n")
}
