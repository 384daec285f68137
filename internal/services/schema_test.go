package services

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumelens/resume-analyzer/internal/testutil"
)

func TestParseAnalysis_Valid(t *testing.T) {
	want := testutil.SampleAnalysis("John Doe", 85)

	got, err := ParseAnalysis(replyFor(t, want))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParseAnalysis_StripsCodeFence(t *testing.T) {
	want := testutil.SampleAnalysis("John Doe", 85)
	reply := "```json\n" + replyFor(t, want) + "\n```"

	got, err := ParseAnalysis(reply)
	require.NoError(t, err)
	assert.Equal(t, 85, got.Scores.Overall)
}

func TestParseAnalysis_NotJSON(t *testing.T) {
	_, err := ParseAnalysis("I'm sorry, I cannot help with that.")

	var malformed *MalformedReplyError
	require.True(t, errors.As(err, &malformed))
	assert.False(t, IsClientError(err))
}

func TestParseAnalysis_MissingScores(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(replyFor(t, testutil.SampleAnalysis("x", 50))), &doc))
	delete(doc, "scores")
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	_, err = ParseAnalysis(string(raw))

	var malformed *MalformedReplyError
	require.True(t, errors.As(err, &malformed))
	require.NotEmpty(t, malformed.Fields)
	assert.Contains(t, malformed.Error(), "scores")
}

func TestParseAnalysis_ScoreOutOfRange(t *testing.T) {
	_, err := ParseAnalysis(replyFor(t, testutil.SampleAnalysis("x", 140)))

	var malformed *MalformedReplyError
	require.True(t, errors.As(err, &malformed))
	assert.Contains(t, malformed.Error(), "scores.overall")
}

func TestParseAnalysis_FractionalScore(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(replyFor(t, testutil.SampleAnalysis("x", 50))), &doc))
	doc["scores"].(map[string]any)["overall"] = 72.5
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	_, err = ParseAnalysis(string(raw))

	var malformed *MalformedReplyError
	require.True(t, errors.As(err, &malformed))
}

func TestAnalysisResponseSchema_RequiresTopLevelKeys(t *testing.T) {
	schema := AnalysisResponseSchema()

	assert.ElementsMatch(t,
		[]string{"personalInfo", "summary", "scores", "sections", "analysis", "jobMatch"},
		schema.Required)
	assert.Len(t, schema.Properties["scores"].Properties, 5)
}
