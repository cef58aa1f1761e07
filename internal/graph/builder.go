// Package graph aggregates extracted abstractions and raw reference hints
// into the deduplicated dependency graph consumed by the diagram, tutorial,
// and rendering stages.
package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianshen/codewiki/internal/model"
)

// Build resolves hints into edges and assembles the dependency graph.
// Unresolvable hints are dropped and returned as findings; extends-cycle
// findings are attached to the graph itself. Build is deterministic: the same
// abstraction/hint multiset yields a byte-identical graph regardless of
// discovery order (edges sorted by (from, to, kind)).
func Build(abstractions []model.Abstraction, hints []model.Hint) (*model.DependencyGraph, []model.Finding) {
	g := &model.DependencyGraph{Abstractions: abstractions}

	var findings []model.Finding
	seen := make(map[model.DependencyEdge]bool)

	for _, h := range hints {
		from := h.From
		if from == "" {
			id, ok := ResolveTarget(abstractions, h.FromUnit)
			if !ok {
				continue // hint from an unanalyzed unit, nothing to anchor it to
			}
			from = id
		}
		if _, ok := g.Abstraction(from); !ok {
			continue // owning abstraction was not surfaced
		}

		to, ok := ResolveTarget(abstractions, h.Target)
		if !ok {
			findings = append(findings, model.Finding{
				Kind:    model.FindingUnresolvedReference,
				Path:    h.FromUnit,
				Subject: h.Target,
				Message: fmt.Sprintf("reference target %q does not match any surfaced abstraction", h.Target),
			})
			continue
		}
		if from == to {
			continue // self-edges are never recorded
		}

		edge := model.DependencyEdge{From: from, To: to, Kind: h.Kind}
		if seen[edge] {
			continue
		}
		seen[edge] = true
		g.Edges = append(g.Edges, edge)
	}

	sort.Slice(g.Edges, func(i, j int) bool {
		a, b := g.Edges[i], g.Edges[j]
		if a.From != b.From {
			return a.From < b.From
		}
		if a.To != b.To {
			return a.To < b.To
		}
		return a.Kind < b.Kind
	})

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Path != findings[j].Path {
			return findings[i].Path < findings[j].Path
		}
		return findings[i].Subject < findings[j].Subject
	})

	g.Findings = detectExtendsCycles(g)
	return g, findings
}

// ResolveTarget maps a raw reference target (an import path, file path, or
// declared name) to a surfaced abstraction id by longest match. Returns false
// when no abstraction matches.
func ResolveTarget(abstractions []model.Abstraction, target string) (model.AbstractionID, bool) {
	target = strings.ToLower(strings.ReplaceAll(target, "\\", "/"))
	if target == "" {
		return "", false
	}

	// A parent directory identifies an abstraction only while no sibling
	// shares it; a shared segment like "internal" matches nothing.
	dirOwners := make(map[string]int)
	for _, a := range abstractions {
		if dir := parentDir(a.SourcePath); dir != "" {
			dirOwners[dir]++
		}
	}

	var best model.AbstractionID
	bestLen := 0
	for _, a := range abstractions {
		keys := []string{
			strings.ToLower(a.SourcePath),
			strings.ToLower(string(a.ID)),
			strings.ToLower(a.Name),
		}
		if dir := parentDir(a.SourcePath); dir != "" && dirOwners[dir] == 1 {
			keys = append(keys, dir)
		}
		for _, key := range keys {
			if key == "" || !matches(target, key) {
				continue
			}
			if len(key) > bestLen || (len(key) == bestLen && a.ID < best) {
				best = a.ID
				bestLen = len(key)
			}
		}
	}
	if bestLen == 0 {
		return "", false
	}
	return best, true
}

// parentDir returns the lowercased directory holding the abstraction's
// source, or "" for root-level sources.
func parentDir(sourcePath string) string {
	if idx := strings.LastIndexByte(sourcePath, '/'); idx >= 0 {
		return strings.ToLower(sourcePath[:idx])
	}
	return ""
}

// matches reports whether target refers to key: equality, a path-segment
// suffix in either direction, or containment on a segment boundary.
func matches(target, key string) bool {
	if target == key {
		return true
	}
	if strings.HasSuffix(target, "/"+key) || strings.HasSuffix(key, "/"+target) {
		return true
	}
	if idx := strings.Index(target, key); idx >= 0 {
		beforeOK := idx == 0 || target[idx-1] == '/'
		end := idx + len(key)
		afterOK := end == len(target) || target[end] == '/' || target[end] == '.'
		return beforeOK && afterOK
	}
	return false
}
