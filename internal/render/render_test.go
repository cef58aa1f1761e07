package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/codewiki/internal/diagram"
	"github.com/julianshen/codewiki/internal/model"
	"github.com/julianshen/codewiki/internal/tutorial"
)

// ---------- fixtures ----------

func testInput() Input {
	abstractions := []model.Abstraction{
		{
			ID: "api", Name: "api", Kind: model.KindService, SourcePath: "internal/api",
			Purpose:    "serves requests",
			Operations: []model.Operation{{Name: "Serve", Params: []string{"ctx context.Context"}, Returns: "error"}},
		},
		{
			ID: "store", Name: "store", Kind: model.KindStore, SourcePath: "internal/store",
			ConfigKeys: map[string]string{"MaxConns": "connection limit"},
		},
	}
	g := &model.DependencyGraph{
		Abstractions: abstractions,
		Edges: []model.DependencyEdge{
			{From: "api", To: "store", Kind: model.EdgeUses},
		},
	}
	return Input{
		Title:        "demo",
		Abstractions: abstractions,
		Graph:        g,
		Diagrams:     diagram.Synthesize(g),
		Plan:         tutorial.Sequence(g),
	}
}

func blocksOfKind(n *model.DocumentNode, kind model.BlockKind) []model.ContentBlock {
	var out []model.ContentBlock
	for _, b := range n.Blocks {
		if b.Kind == kind {
			out = append(out, b)
		}
	}
	return out
}

// ---------- tests ----------

func TestRenderTreeShape(t *testing.T) {
	tree := Render(testInput())

	assert.Equal(t, "README", tree.Path)
	assert.Equal(t, model.NodeHub, tree.Kind)
	require.Len(t, tree.Children, 2)
	assert.Equal(t, "technical/README", tree.Children[0].Path)
	assert.Equal(t, "tutorial/README", tree.Children[1].Path)

	// 1 hub + 2 section indexes + 3 technical pages + 2 component pages
	// + 5 tutorial steps.
	assert.Equal(t, 13, tree.Len())
}

func TestRenderComponentPagePerAbstraction(t *testing.T) {
	tree := Render(testInput())

	api := tree.Find("technical/components/api")
	require.NotNil(t, api)
	assert.Equal(t, model.NodeComponent, api.Kind)
	assert.Equal(t, "api", api.Title)

	code := blocksOfKind(api, model.BlockCode)
	require.Len(t, code, 1)
	assert.Equal(t, "Serve(ctx context.Context) error", code[0].Code)

	store := tree.Find("technical/components/store")
	require.NotNil(t, store)
}

func TestRenderComponentPageLinksDependencies(t *testing.T) {
	tree := Render(testInput())

	api := tree.Find("technical/components/api")
	require.NotNil(t, api)
	refs := blocksOfKind(api, model.BlockXRef)
	require.NotEmpty(t, refs)
	assert.Equal(t, "technical/components/store", refs[0].Ref.TargetPath)

	store := tree.Find("technical/components/store")
	backRefs := blocksOfKind(store, model.BlockXRef)
	require.NotEmpty(t, backRefs)
	assert.Equal(t, "technical/components/api", backRefs[0].Ref.TargetPath)
}

func TestRenderArchitectureEmbedsThreeDiagrams(t *testing.T) {
	tree := Render(testInput())

	arch := tree.Find("technical/architecture")
	require.NotNil(t, arch)
	diagrams := blocksOfKind(arch, model.BlockDiagram)
	require.Len(t, diagrams, 3)
	assert.Equal(t, model.DiagramSystem, diagrams[0].Diagram.Type)
}

func TestRenderArchitectureReportsCycles(t *testing.T) {
	in := testInput()
	in.Graph.Findings = []model.Finding{
		{Kind: model.FindingExtendsCycle, Message: "extends cycle: a -> b closes a cycle"},
	}

	arch := Render(in).Find("technical/architecture")
	require.NotNil(t, arch)
	found := false
	for _, b := range blocksOfKind(arch, model.BlockProse) {
		if b.Text == "Known issue: extends cycle: a -> b closes a cycle" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestRenderConfigurationAggregatesKeys(t *testing.T) {
	tree := Render(testInput())

	cfg := tree.Find("technical/configuration")
	require.NotNil(t, cfg)
	texts := blocksOfKind(cfg, model.BlockProse)
	require.NotEmpty(t, texts)
	joined := ""
	for _, b := range texts {
		joined += b.Text + "\n"
	}
	assert.Contains(t, joined, "MaxConns")
}

func TestRenderTutorialStepsReferenceComponents(t *testing.T) {
	tree := Render(testInput())

	basic := tree.Find("tutorial/basic-usage")
	require.NotNil(t, basic)
	assert.Equal(t, model.NodeTutorialStep, basic.Kind)
	refs := blocksOfKind(basic, model.BlockXRef)
	require.NotEmpty(t, refs)
	assert.Contains(t, refs[0].Ref.TargetPath, "technical/components/")
}

func TestRenderAllXRefsResolveWithinTree(t *testing.T) {
	tree := Render(testInput())

	index := make(map[string]bool)
	tree.Walk(func(n *model.DocumentNode) { index[n.Path] = true })

	tree.Walk(func(n *model.DocumentNode) {
		for _, b := range n.Blocks {
			if b.Kind == model.BlockXRef {
				assert.True(t, index[b.Ref.TargetPath], "dangling reference %q on page %q", b.Ref.TargetPath, n.Path)
			}
		}
	})
}

func TestRenderDeterministic(t *testing.T) {
	first := Render(testInput())
	second := Render(testInput())
	assert.Equal(t, first, second)
}

func TestRenderEmptyInput(t *testing.T) {
	in := Input{Title: "empty", Graph: &model.DependencyGraph{}}
	tree := Render(in)

	assert.Equal(t, 11, tree.Len()) // fixed pages only, no component pages
	assert.NotNil(t, tree.Find("technical/deployment"))
	assert.NotNil(t, tree.Find("tutorial/faq"))
}
