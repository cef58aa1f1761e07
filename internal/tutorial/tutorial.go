// Package tutorial orders surfaced abstractions into the progressive
// basic/advanced split used by the tutorial subtree of the documentation.
package tutorial

import (
	"sort"

	"github.com/julianshen/codewiki/internal/model"
)

// Plan is the tutorial ordering: basic-usage subjects first, then advanced
// features, each already in presentation order.
type Plan struct {
	Basic    []model.AbstractionID
	Advanced []model.AbstractionID
}

// Subjects returns the full ordered subject list, basic before advanced.
func (p Plan) Subjects() []model.AbstractionID {
	return append(append([]model.AbstractionID(nil), p.Basic...), p.Advanced...)
}

// Sequence orders the surfaced set by ascending dependency depth (distance
// from the root-most node), ties broken by descending inbound edge count and
// then by id. The first third (minimum one) becomes basic usage.
func Sequence(g *model.DependencyGraph) Plan {
	if len(g.Abstractions) == 0 {
		return Plan{}
	}

	depth := depths(g)
	inbound := make(map[model.AbstractionID]int)
	for _, e := range g.Edges {
		inbound[e.To]++
	}

	ordered := make([]model.AbstractionID, 0, len(g.Abstractions))
	for _, a := range g.Abstractions {
		ordered = append(ordered, a.ID)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if depth[a] != depth[b] {
			return depth[a] < depth[b]
		}
		if inbound[a] != inbound[b] {
			return inbound[a] > inbound[b]
		}
		return a < b
	})

	split := len(ordered) / 3
	if split < 1 {
		split = 1
	}
	return Plan{
		Basic:    ordered[:split],
		Advanced: ordered[split:],
	}
}

// depths computes BFS distance from the root-most node (minimal in-degree,
// id-lexical ties). Nodes unreachable from the root sort after every
// reachable node.
func depths(g *model.DependencyGraph) map[model.AbstractionID]int {
	root := rootMost(g)

	unreachable := len(g.Abstractions)
	depth := make(map[model.AbstractionID]int, len(g.Abstractions))
	for _, a := range g.Abstractions {
		depth[a.ID] = unreachable
	}

	depth[root] = 0
	queue := []model.AbstractionID{root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.Out(cur) {
			if depth[e.To] > depth[cur]+1 {
				depth[e.To] = depth[cur] + 1
				queue = append(queue, e.To)
			}
		}
	}
	return depth
}

// rootMost picks the node with the fewest inbound edges, id-lexical ties.
func rootMost(g *model.DependencyGraph) model.AbstractionID {
	inbound := make(map[model.AbstractionID]int)
	for _, e := range g.Edges {
		inbound[e.To]++
	}

	var best model.AbstractionID
	bestIn := -1
	for _, a := range g.Abstractions {
		in := inbound[a.ID]
		if bestIn == -1 || in < bestIn || (in == bestIn && a.ID < best) {
			best = a.ID
			bestIn = in
		}
	}
	return best
}
