package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConform_FillsMissingFields(t *testing.T) {
	doc, err := Conform(map[string]any{"summary": "Hi"})
	require.NoError(t, err)

	assert.Equal(t, "Hi", doc.Summary)
	assert.Equal(t, "", doc.Header.FullName)
	assert.NotNil(t, doc.Header.Links)
	assert.NotNil(t, doc.Skills.Core)
	assert.NotNil(t, doc.Experience)
	assert.NotNil(t, doc.Education)
	assert.NotNil(t, doc.Certifications)
	assert.NotNil(t, doc.Extras)

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "null")
}

func TestConform_ModelOutput(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "model_output.json"))
	require.NoError(t, err)

	doc, err := ConformJSON(data)
	require.NoError(t, err)

	assert.Equal(t, "Ana Putri", doc.Header.FullName)
	assert.Equal(t, "", doc.Header.Phone)
	assert.Equal(t, []string{"https://github.com/anaputri"}, doc.Header.Links)
	assert.Equal(t, []string{"SQL", "Excel"}, doc.Skills.Core)
	assert.Equal(t, []string{}, doc.Skills.Languages)
	require.Len(t, doc.Experience, 1)
	assert.Equal(t, []string{"Built weekly sales dashboards"}, doc.Experience[0].Bullets)
	require.Len(t, doc.Education, 1)
	assert.Equal(t, "2019", doc.Education[0].EndDate)
}

func TestConform_FlatSkills(t *testing.T) {
	doc, err := Conform(map[string]any{"skills": []any{"SQL", json.Number("42")}})
	require.NoError(t, err)
	assert.Equal(t, []string{"SQL", "42"}, doc.Skills.Core)
	assert.Equal(t, []string{}, doc.Skills.Tools)
}

func TestConform_RejectsWrongShape(t *testing.T) {
	_, err := Conform(map[string]any{"name": "Ana", "job": "Analyst"})
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)

	_, err = Conform(map[string]any{"experience": "five years at PT Maju"})
	assert.ErrorAs(t, err, &validationErr)
}

func TestConform_RejectsEmptyDocument(t *testing.T) {
	_, err := Conform(map[string]any{"header": map[string]any{"full_name": "  "}, "summary": ""})
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestConform_HeaderOnlyIsAccepted(t *testing.T) {
	doc, err := Conform(map[string]any{"header": map[string]any{"full_name": "Ana Putri"}})
	require.NoError(t, err)
	assert.Equal(t, "Ana Putri", doc.Header.FullName)
}

func TestConformJSON_Malformed(t *testing.T) {
	_, err := ConformJSON([]byte("{"))
	assert.Error(t, err)
}
