package extract

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/codewiki/internal/model"
)

// ---------- mocks ----------

type mockReader struct {
	files map[string]string
}

func (m *mockReader) ReadFile(path string) ([]byte, error) {
	content, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", path)
	}
	return []byte(content), nil
}

// mockAdapter yields one abstraction per unit, named after the unit path.
type mockAdapter struct {
	name    string
	kind    model.AbstractionKind
	failOn  string
	hintsTo string
}

func (m *mockAdapter) Name() string { return m.name }

func (m *mockAdapter) Extract(ctx context.Context, unit model.SourceUnit, source []byte) ([]model.Abstraction, []model.Hint, error) {
	if m.failOn != "" && strings.Contains(unit.Path, m.failOn) {
		return nil, nil, fmt.Errorf("forced failure on %s", unit.Path)
	}
	id := model.AbstractionID(Slugify(strings.TrimSuffix(unit.Path, ".x")))
	abs := model.Abstraction{
		ID:         id,
		Name:       unit.Path,
		Kind:       m.kind,
		SourcePath: unit.Path,
		Operations: []model.Operation{{Name: "Do"}},
	}
	var hints []model.Hint
	if m.hintsTo != "" {
		hints = append(hints, model.Hint{FromUnit: unit.Path, From: id, Target: m.hintsTo, Kind: model.EdgeUses})
	}
	return []model.Abstraction{abs}, hints, nil
}

func units(paths ...string) []model.SourceUnit {
	var out []model.SourceUnit
	for _, p := range paths {
		out = append(out, model.SourceUnit{Path: p, Ecosystem: "x"})
	}
	return out
}

func reader(paths ...string) *mockReader {
	files := make(map[string]string)
	for _, p := range paths {
		files[p] = "content"
	}
	return &mockReader{files: files}
}

func registryWith(t *testing.T, a Adapter) *Registry {
	t.Helper()
	reg := NewRegistry()
	require.NoError(t, reg.Register("x", a))
	return reg
}

// ---------- tests ----------

func TestRegistryRejectsDuplicate(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("x", &mockAdapter{name: "one"}))
	assert.Error(t, reg.Register("x", &mockAdapter{name: "two"}))
	assert.Equal(t, []string{"x"}, reg.Ecosystems())
}

func TestRunExtractsAllUnits(t *testing.T) {
	reg := registryWith(t, &mockAdapter{name: "mock", kind: model.KindModule})
	us := units("a.x", "b.x", "c.x")

	res, err := Run(context.Background(), us, reader("a.x", "b.x", "c.x"), reg, Config{})
	require.NoError(t, err)
	assert.Len(t, res.Abstractions, 3)
	assert.Equal(t, 3, res.Found)
	assert.Empty(t, res.Findings)
}

func TestRunUnknownEcosystemIsFinding(t *testing.T) {
	reg := registryWith(t, &mockAdapter{name: "mock"})
	us := []model.SourceUnit{{Path: "readme.txt", Ecosystem: "unknown"}}

	res, err := Run(context.Background(), us, reader("readme.txt"), reg, Config{})
	require.NoError(t, err)
	assert.Empty(t, res.Abstractions)
	require.Len(t, res.Findings, 1)
	assert.Equal(t, model.FindingUnitUnanalyzed, res.Findings[0].Kind)
}

func TestRunUnreadableUnitIsFinding(t *testing.T) {
	reg := registryWith(t, &mockAdapter{name: "mock"})

	res, err := Run(context.Background(), units("gone.x"), &mockReader{files: map[string]string{}}, reg, Config{})
	require.NoError(t, err)
	require.Len(t, res.Findings, 1)
	assert.Equal(t, model.FindingUnitUnanalyzed, res.Findings[0].Kind)
	assert.Equal(t, "gone.x", res.Findings[0].Path)
}

func TestRunAdapterFailureIsFindingNotError(t *testing.T) {
	reg := registryWith(t, &mockAdapter{name: "mock", failOn: "bad"})
	us := units("good.x", "bad.x")

	res, err := Run(context.Background(), us, reader("good.x", "bad.x"), reg, Config{})
	require.NoError(t, err)
	assert.Len(t, res.Abstractions, 1)
	require.Len(t, res.Findings, 1)
	assert.Equal(t, model.FindingAdapterError, res.Findings[0].Kind)
	assert.Contains(t, res.Findings[0].Message, "mock")
}

func TestRunCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reg := registryWith(t, &mockAdapter{name: "mock"})
	_, err := Run(ctx, units("a.x"), reader("a.x"), reg, Config{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunDeterministicAcrossRuns(t *testing.T) {
	reg := registryWith(t, &mockAdapter{name: "mock", hintsTo: "b"})
	us := units("a.x", "b.x", "c.x")
	r := reader("a.x", "b.x", "c.x")

	first, err := Run(context.Background(), us, r, reg, Config{Concurrency: 3})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Run(context.Background(), us, r, reg, Config{Concurrency: 3})
		require.NoError(t, err)
		assert.Equal(t, first.Abstractions, again.Abstractions)
		assert.Equal(t, first.Hints, again.Hints)
	}
}

func TestMergeDuplicateCandidates(t *testing.T) {
	outputs := []unitOutput{
		{abstractions: []model.Abstraction{{
			ID: "pkg", Name: "pkg", Kind: model.KindModule, SourcePath: "pkg",
			Operations: []model.Operation{{Name: "Open"}},
		}}},
		{abstractions: []model.Abstraction{{
			ID: "pkg", Name: "pkg", Kind: model.KindModule, SourcePath: "pkg",
			Purpose:    "does things",
			Operations: []model.Operation{{Name: "Open"}, {Name: "Close"}},
			ConfigKeys: map[string]string{"MaxConns": "limit"},
		}}},
	}

	res := &Result{}
	merged := mergeCandidates(outputs, res)
	require.Len(t, merged, 1)
	assert.Equal(t, "does things", merged[0].Purpose)
	assert.Len(t, merged[0].Operations, 2)
	assert.Equal(t, "limit", merged[0].ConfigKeys["MaxConns"])
	assert.Empty(t, res.Findings)
}

func TestMergeKindConflictKeepsFirstSeen(t *testing.T) {
	outputs := []unitOutput{
		{abstractions: []model.Abstraction{{ID: "pkg", Kind: model.KindModule, SourcePath: "pkg"}}},
		{abstractions: []model.Abstraction{{ID: "pkg", Kind: model.KindService, SourcePath: "pkg"}}},
	}

	res := &Result{}
	merged := mergeCandidates(outputs, res)
	require.Len(t, merged, 1)
	assert.Equal(t, model.KindModule, merged[0].Kind)
	require.Len(t, res.Findings, 1)
	assert.Equal(t, model.FindingKindConflict, res.Findings[0].Kind)
}

func TestMergeDeduplicatesHints(t *testing.T) {
	h := model.Hint{FromUnit: "a.x", From: "a", Target: "b", Kind: model.EdgeUses}
	outputs := []unitOutput{
		{hints: []model.Hint{h, h}},
		{hints: []model.Hint{h}},
	}

	res := &Result{}
	mergeCandidates(outputs, res)
	assert.Len(t, res.Hints, 1)
}

func TestSurfaceUnderLimitPassesThrough(t *testing.T) {
	cands := []model.Abstraction{{ID: "a"}, {ID: "b"}}
	assert.Equal(t, cands, surface(cands, nil, 15))
}

func TestSurfaceCutoffKeepsMostReferenced(t *testing.T) {
	var cands []model.Abstraction
	for _, id := range []string{"a", "b", "c", "d"} {
		cands = append(cands, model.Abstraction{ID: model.AbstractionID(id), Name: id, SourcePath: id})
	}
	// Everyone references "c"; "a" has operations of its own.
	cands[0].Operations = []model.Operation{{Name: "One"}, {Name: "Two"}}
	hints := []model.Hint{
		{From: "a", Target: "c", Kind: model.EdgeUses},
		{From: "b", Target: "c", Kind: model.EdgeUses},
		{From: "d", Target: "c", Kind: model.EdgeUses},
	}

	surfaced := surface(cands, hints, 2)
	require.Len(t, surfaced, 2)
	// First-seen order is preserved among the kept.
	assert.Equal(t, model.AbstractionID("a"), surfaced[0].ID)
	assert.Equal(t, model.AbstractionID("c"), surfaced[1].ID)
}

func TestSurfaceNeverSynthesizes(t *testing.T) {
	cands := []model.Abstraction{{ID: "only"}}
	assert.Len(t, surface(cands, nil, 15), 1)
}
