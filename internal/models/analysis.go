package models

// AnalysisResult is the structured evaluation returned by the remote model.
// Field names follow the JSON contract consumed by the dashboard.
type AnalysisResult struct {
	PersonalInfo PersonalInfo     `json:"personalInfo"`
	Summary      string           `json:"summary"`
	Scores       Scores           `json:"scores"`
	Sections     ResumeSections   `json:"sections"`
	Analysis     QualitativeNotes `json:"analysis"`
	JobMatch     JobMatch         `json:"jobMatch"`
}

type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

// Scores are integers in [0, 100].
type Scores struct {
	Overall            int `json:"overall"`
	ATSCompatibility   int `json:"atsCompatibility"`
	SkillRelevance     int `json:"skillRelevance"`
	ExperienceStrength int `json:"experienceStrength"`
	Formatting         int `json:"formatting"`
}

type ResumeSections struct {
	Skills         []string     `json:"skills"`
	Education      []Education  `json:"education"`
	Experience     []Experience `json:"experience"`
	Projects       []Project    `json:"projects"`
	Certifications []string     `json:"certifications"`
}

type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Year        string `json:"year"`
}

type Experience struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type QualitativeNotes struct {
	Strengths              []string              `json:"strengths"`
	Weaknesses             []string              `json:"weaknesses"`
	Suggestions            []string              `json:"suggestions"`
	MissingKeywords        []string              `json:"missingKeywords"`
	ActionVerbImprovements []ActionVerbSuggestion `json:"actionVerbImprovements"`
}

type ActionVerbSuggestion struct {
	Original  string `json:"original"`
	Suggested string `json:"suggested"`
}

type JobMatch struct {
	MatchPercentage   int      `json:"matchPercentage"`
	MissingSkills     []string `json:"missingSkills"`
	RecommendedSkills []string `json:"recommendedSkills"`
}
