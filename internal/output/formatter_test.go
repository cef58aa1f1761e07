package output

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/codewiki/internal/model"
)

func sampleReport() *model.Report {
	return &model.Report{
		RunID: "run-123",
		Stats: model.RunStats{
			UnitsScanned:         10,
			UnitsExcluded:        3,
			AbstractionsFound:    5,
			AbstractionsSurfaced: 4,
			Edges:                6,
			Documents:            12,
			Duration:             2 * time.Second,
		},
		Findings: []model.Finding{
			{Kind: model.FindingUnresolvedReference, Message: "target missing", Path: "a.go"},
			{Kind: model.FindingExtendsCycle, Message: "cycle found"},
			{Kind: model.FindingUnresolvedReference, Message: "another", Path: "b.go"},
		},
	}
}

func TestNewFormatter(t *testing.T) {
	f, err := New("json")
	require.NoError(t, err)
	assert.IsType(t, &JSONFormatter{}, f)

	f, err = New("")
	require.NoError(t, err)
	assert.IsType(t, &MarkdownFormatter{}, f)

	_, err = New("xml")
	assert.Error(t, err)
}

func TestJSONFormatterRoundTrips(t *testing.T) {
	f := &JSONFormatter{}
	out, err := f.Format(sampleReport())
	require.NoError(t, err)

	var decoded model.Report
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "run-123", decoded.RunID)
	assert.Equal(t, 10, decoded.Stats.UnitsScanned)
	assert.Len(t, decoded.Findings, 3)
}

func TestMarkdownFormatterGroupsFindings(t *testing.T) {
	f := &MarkdownFormatter{}
	out, err := f.Format(sampleReport())
	require.NoError(t, err)

	assert.Contains(t, out, "# Run run-123")
	assert.Contains(t, out, "- Units scanned: 10")
	assert.Contains(t, out, "### extends-cycle (1)")
	assert.Contains(t, out, "### unresolved-reference (2)")
	assert.Contains(t, out, "- target missing (a.go)")
}

func TestMarkdownFormatterNoFindings(t *testing.T) {
	f := &MarkdownFormatter{}
	out, err := f.Format(&model.Report{RunID: "clean"})
	require.NoError(t, err)
	assert.Contains(t, out, "No findings.")
}
