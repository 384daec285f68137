package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"google.golang.org/genai"

	"resumelens/resume-analyzer/internal/models"
)

// analysisJSONSchema is the contract every model reply must satisfy before
// it is stored or returned.
const analysisJSONSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["personalInfo", "summary", "scores", "sections", "analysis", "jobMatch"],
  "definitions": {
    "score": {"type": "integer", "minimum": 0, "maximum": 100},
    "strings": {"type": "array", "items": {"type": "string"}}
  },
  "properties": {
    "personalInfo": {
      "type": "object",
      "required": ["name", "email", "phone", "location"],
      "properties": {
        "name": {"type": "string"},
        "email": {"type": "string"},
        "phone": {"type": "string"},
        "location": {"type": "string"}
      }
    },
    "summary": {"type": "string"},
    "scores": {
      "type": "object",
      "required": ["overall", "atsCompatibility", "skillRelevance", "experienceStrength", "formatting"],
      "properties": {
        "overall": {"$ref": "#/definitions/score"},
        "atsCompatibility": {"$ref": "#/definitions/score"},
        "skillRelevance": {"$ref": "#/definitions/score"},
        "experienceStrength": {"$ref": "#/definitions/score"},
        "formatting": {"$ref": "#/definitions/score"}
      }
    },
    "sections": {
      "type": "object",
      "required": ["skills", "education", "experience", "projects", "certifications"],
      "properties": {
        "skills": {"$ref": "#/definitions/strings"},
        "education": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["institution", "degree", "year"],
            "properties": {
              "institution": {"type": "string"},
              "degree": {"type": "string"},
              "year": {"type": "string"}
            }
          }
        },
        "experience": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["company", "role", "duration", "description"],
            "properties": {
              "company": {"type": "string"},
              "role": {"type": "string"},
              "duration": {"type": "string"},
              "description": {"type": "string"}
            }
          }
        },
        "projects": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["name", "description"],
            "properties": {
              "name": {"type": "string"},
              "description": {"type": "string"}
            }
          }
        },
        "certifications": {"$ref": "#/definitions/strings"}
      }
    },
    "analysis": {
      "type": "object",
      "required": ["strengths", "weaknesses", "suggestions", "missingKeywords", "actionVerbImprovements"],
      "properties": {
        "strengths": {"$ref": "#/definitions/strings"},
        "weaknesses": {"$ref": "#/definitions/strings"},
        "suggestions": {"$ref": "#/definitions/strings"},
        "missingKeywords": {"$ref": "#/definitions/strings"},
        "actionVerbImprovements": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["original", "suggested"],
            "properties": {
              "original": {"type": "string"},
              "suggested": {"type": "string"}
            }
          }
        }
      }
    },
    "jobMatch": {
      "type": "object",
      "required": ["matchPercentage", "missingSkills", "recommendedSkills"],
      "properties": {
        "matchPercentage": {"$ref": "#/definitions/score"},
        "missingSkills": {"$ref": "#/definitions/strings"},
        "recommendedSkills": {"$ref": "#/definitions/strings"}
      }
    }
  }
}`

// ParseAnalysis validates a raw model reply against the analysis schema and
// decodes it. Any failure is a *MalformedReplyError.
func ParseAnalysis(reply string) (*models.AnalysisResult, error) {
	jsonStr := extractJSON(reply)

	if !json.Valid([]byte(jsonStr)) {
		return nil, &MalformedReplyError{Reason: "reply is not valid JSON"}
	}

	if fields, err := validateAnalysisJSON(jsonStr); err != nil {
		return nil, &MalformedReplyError{Reason: "schema validation could not run", Cause: err}
	} else if len(fields) > 0 {
		return nil, &MalformedReplyError{Reason: "reply does not match the analysis schema", Fields: fields}
	}

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, &MalformedReplyError{Reason: "reply could not be decoded", Cause: err}
	}

	return &result, nil
}

func validateAnalysisJSON(jsonStr string) ([]FieldError, error) {
	schemaLoader := gojsonschema.NewStringLoader(analysisJSONSchema)
	documentLoader := gojsonschema.NewStringLoader(jsonStr)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("failed to validate: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	var fields []FieldError
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "(root)" {
			field = "root"
		}
		fields = append(fields, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return fields, nil
}

// extractJSON tries to extract JSON from text that might contain markdown or other formatting
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	endObj := strings.LastIndex(text, "}")

	if startObj != -1 && endObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	}

	return strings.TrimSpace(text)
}

// AnalysisResponseSchema mirrors analysisJSONSchema in the form the
// generation API accepts, so the model is constrained up front.
func AnalysisResponseSchema() *genai.Schema {
	str := &genai.Schema{Type: genai.TypeString}
	strs := &genai.Schema{Type: genai.TypeArray, Items: str}
	lo, hi := 0.0, 100.0
	score := &genai.Schema{Type: genai.TypeInteger, Minimum: &lo, Maximum: &hi}

	object := func(props map[string]*genai.Schema, order ...string) *genai.Schema {
		return &genai.Schema{
			Type:             genai.TypeObject,
			Properties:       props,
			Required:         order,
			PropertyOrdering: order,
		}
	}
	arrayOf := func(item *genai.Schema) *genai.Schema {
		return &genai.Schema{Type: genai.TypeArray, Items: item}
	}

	return object(map[string]*genai.Schema{
		"personalInfo": object(map[string]*genai.Schema{
			"name": str, "email": str, "phone": str, "location": str,
		}, "name", "email", "phone", "location"),
		"summary": str,
		"scores": object(map[string]*genai.Schema{
			"overall": score, "atsCompatibility": score, "skillRelevance": score,
			"experienceStrength": score, "formatting": score,
		}, "overall", "atsCompatibility", "skillRelevance", "experienceStrength", "formatting"),
		"sections": object(map[string]*genai.Schema{
			"skills": strs,
			"education": arrayOf(object(map[string]*genai.Schema{
				"institution": str, "degree": str, "year": str,
			}, "institution", "degree", "year")),
			"experience": arrayOf(object(map[string]*genai.Schema{
				"company": str, "role": str, "duration": str, "description": str,
			}, "company", "role", "duration", "description")),
			"projects": arrayOf(object(map[string]*genai.Schema{
				"name": str, "description": str,
			}, "name", "description")),
			"certifications": strs,
		}, "skills", "education", "experience", "projects", "certifications"),
		"analysis": object(map[string]*genai.Schema{
			"strengths": strs, "weaknesses": strs, "suggestions": strs, "missingKeywords": strs,
			"actionVerbImprovements": arrayOf(object(map[string]*genai.Schema{
				"original": str, "suggested": str,
			}, "original", "suggested")),
		}, "strengths", "weaknesses", "suggestions", "missingKeywords", "actionVerbImprovements"),
		"jobMatch": object(map[string]*genai.Schema{
			"matchPercentage": score, "missingSkills": strs, "recommendedSkills": strs,
		}, "matchPercentage", "missingSkills", "recommendedSkills"),
	}, "personalInfo", "summary", "scores", "sections", "analysis", "jobMatch")
}
