package tutorial

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/codewiki/internal/model"
)

func chainGraph(n int) *model.DependencyGraph {
	g := &model.DependencyGraph{}
	for i := 0; i < n; i++ {
		id := model.AbstractionID(fmt.Sprintf("node-%02d", i))
		g.Abstractions = append(g.Abstractions, model.Abstraction{ID: id, Name: string(id)})
		if i > 0 {
			prev := model.AbstractionID(fmt.Sprintf("node-%02d", i-1))
			g.Edges = append(g.Edges, model.DependencyEdge{From: prev, To: id, Kind: model.EdgeUses})
		}
	}
	return g
}

func TestSequenceEmptyGraph(t *testing.T) {
	plan := Sequence(&model.DependencyGraph{})
	assert.Empty(t, plan.Basic)
	assert.Empty(t, plan.Advanced)
}

func TestSequenceSingleAbstraction(t *testing.T) {
	g := &model.DependencyGraph{
		Abstractions: []model.Abstraction{{ID: "only", Name: "only"}},
	}

	plan := Sequence(g)
	require.Len(t, plan.Basic, 1)
	assert.Empty(t, plan.Advanced)
}

func TestSequenceNineAbstractionsSplitsThreeSix(t *testing.T) {
	plan := Sequence(chainGraph(9))
	assert.Len(t, plan.Basic, 3)
	assert.Len(t, plan.Advanced, 6)
}

func TestSequenceFollowsDependencyDepth(t *testing.T) {
	plan := Sequence(chainGraph(6))

	subjects := plan.Subjects()
	require.Len(t, subjects, 6)
	// The chain root comes first; depth increases monotonically.
	assert.Equal(t, model.AbstractionID("node-00"), subjects[0])
	assert.Equal(t, model.AbstractionID("node-05"), subjects[5])
}

func TestSequenceUnreachableNodesComeLast(t *testing.T) {
	g := chainGraph(3)
	// Island shares the zero in-degree of the chain root but loses the
	// id-lexical tie, so the chain root anchors the traversal.
	g.Abstractions = append(g.Abstractions, model.Abstraction{ID: "zzz-island", Name: "island"})

	subjects := Sequence(g).Subjects()
	require.Len(t, subjects, 4)
	assert.Equal(t, model.AbstractionID("zzz-island"), subjects[3])
}

func TestSequenceTieBreaksByInboundThenID(t *testing.T) {
	// hub is referenced twice, leaf once; both sit at depth 1.
	g := &model.DependencyGraph{
		Abstractions: []model.Abstraction{
			{ID: "root", Name: "root"},
			{ID: "aleaf", Name: "aleaf"},
			{ID: "hub", Name: "hub"},
			{ID: "mid", Name: "mid"},
		},
		Edges: []model.DependencyEdge{
			{From: "root", To: "aleaf", Kind: model.EdgeUses},
			{From: "root", To: "hub", Kind: model.EdgeUses},
			{From: "root", To: "mid", Kind: model.EdgeUses},
			{From: "mid", To: "hub", Kind: model.EdgeUses},
		},
	}

	subjects := Sequence(g).Subjects()
	require.Len(t, subjects, 4)
	assert.Equal(t, model.AbstractionID("root"), subjects[0])
	assert.Equal(t, model.AbstractionID("hub"), subjects[1])
}

func TestSubjectsDoesNotAliasPlan(t *testing.T) {
	plan := Plan{Basic: []model.AbstractionID{"a"}, Advanced: []model.AbstractionID{"b"}}
	subjects := plan.Subjects()
	subjects[0] = "mutated"
	assert.Equal(t, model.AbstractionID("a"), plan.Basic[0])
}
