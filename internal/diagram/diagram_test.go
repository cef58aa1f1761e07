package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/codewiki/internal/model"
)

func testGraph() *model.DependencyGraph {
	return &model.DependencyGraph{
		Abstractions: []model.Abstraction{
			{ID: "api", Name: "api"},
			{ID: "store", Name: "store"},
			{ID: "config", Name: "config"},
			{ID: "idle", Name: "idle"},
		},
		Edges: []model.DependencyEdge{
			{From: "api", To: "config", Kind: model.EdgeConfigures},
			{From: "api", To: "store", Kind: model.EdgeUses},
			{From: "store", To: "config", Kind: model.EdgeConfigures},
		},
	}
}

func TestSynthesizeProducesThreeSpecs(t *testing.T) {
	specs := Synthesize(testGraph())
	require.Len(t, specs, 3)
	assert.Equal(t, model.DiagramSystem, specs[0].Type)
	assert.Equal(t, model.DiagramInteraction, specs[1].Type)
	assert.Equal(t, model.DiagramSequence, specs[2].Type)
}

func TestSystemDiagramIncludesEverything(t *testing.T) {
	spec := systemDiagram(testGraph())
	assert.Len(t, spec.Nodes, 4)
	assert.Len(t, spec.Edges, 3)
}

func TestSystemDiagramOmitsExtendsEdges(t *testing.T) {
	g := testGraph()
	g.Edges = append(g.Edges, model.DependencyEdge{From: "store", To: "idle", Kind: model.EdgeExtends})

	spec := systemDiagram(g)
	assert.Len(t, spec.Edges, 3)
}

func TestInteractionDiagramFiltersDisconnected(t *testing.T) {
	spec := interactionDiagram(testGraph())

	// Only api and store participate in a uses edge.
	require.Len(t, spec.Nodes, 2)
	assert.Equal(t, model.AbstractionID("api"), spec.Nodes[0].ID)
	assert.Equal(t, model.AbstractionID("store"), spec.Nodes[1].ID)
	require.Len(t, spec.Edges, 1)
	assert.Equal(t, model.EdgeUses, spec.Edges[0].Kind)
}

func TestSequenceDiagramStartsWithSyntheticCaller(t *testing.T) {
	spec := sequenceDiagram(testGraph())

	require.NotEmpty(t, spec.Nodes)
	assert.Equal(t, CallerNodeID, spec.Nodes[0].ID)
	assert.True(t, spec.Nodes[0].Synthetic)

	require.NotEmpty(t, spec.Steps)
	assert.Equal(t, CallerNodeID, spec.Steps[0].From)
	assert.Equal(t, model.AbstractionID("api"), spec.Steps[0].To)
	assert.Equal(t, "invokes", spec.Steps[0].Label)
}

func TestSequenceDiagramWalksUsesChain(t *testing.T) {
	g := &model.DependencyGraph{
		Abstractions: []model.Abstraction{
			{ID: "a", Name: "a"}, {ID: "b", Name: "b"}, {ID: "c", Name: "c"},
		},
		Edges: []model.DependencyEdge{
			{From: "a", To: "b", Kind: model.EdgeUses},
			{From: "b", To: "c", Kind: model.EdgeUses},
		},
	}

	spec := sequenceDiagram(g)
	require.Len(t, spec.Steps, 3)
	assert.Equal(t, model.AbstractionID("b"), spec.Steps[1].To)
	assert.Equal(t, model.AbstractionID("c"), spec.Steps[2].To)
}

func TestSequenceDiagramNoUsesEdges(t *testing.T) {
	g := &model.DependencyGraph{
		Abstractions: []model.Abstraction{{ID: "solo", Name: "solo"}},
	}

	spec := sequenceDiagram(g)
	assert.Empty(t, spec.Nodes)
	assert.Empty(t, spec.Steps)
}

func TestSequenceDiagramDeterministicStart(t *testing.T) {
	// Two candidates with equal out-degree resolve to the lexically first id.
	g := &model.DependencyGraph{
		Abstractions: []model.Abstraction{
			{ID: "zeta", Name: "zeta"}, {ID: "alpha", Name: "alpha"},
			{ID: "t1", Name: "t1"}, {ID: "t2", Name: "t2"},
		},
		Edges: []model.DependencyEdge{
			{From: "zeta", To: "t1", Kind: model.EdgeUses},
			{From: "alpha", To: "t2", Kind: model.EdgeUses},
		},
	}

	spec := sequenceDiagram(g)
	require.NotEmpty(t, spec.Steps)
	assert.Equal(t, model.AbstractionID("alpha"), spec.Steps[0].To)
}
