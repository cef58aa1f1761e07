// Package xref validates every cross-reference in a rendered document tree
// against the set of pages the tree actually contains. Dangling references
// are demoted to plain text, or rewritten to the closest existing page when
// auto-repair is enabled.
package xref

import (
	"sort"

	"github.com/agext/levenshtein"

	"github.com/julianshen/codewiki/internal/model"
)

// Options controls validation behavior.
type Options struct {
	// AutoRepair rewrites a dangling reference to the most similar existing
	// page path instead of demoting it, when the similarity clears Threshold.
	AutoRepair bool

	// Threshold is the minimum levenshtein similarity (0..1) a candidate page
	// path must reach before auto-repair rewrites to it. Zero means the
	// default of 0.8.
	Threshold float64
}

const defaultThreshold = 0.8

// Validate walks the tree, checks every cross-reference block against the
// tree's own page index, and returns one finding per dangling reference. The
// tree is modified in place: dangling references become prose blocks carrying
// the original label, or point at a repaired target under auto-repair.
func Validate(root *model.DocumentNode, opts Options) []model.Finding {
	if opts.Threshold == 0 {
		opts.Threshold = defaultThreshold
	}

	index := make(map[string]bool)
	root.Walk(func(n *model.DocumentNode) {
		index[n.Path] = true
	})

	paths := make([]string, 0, len(index))
	for p := range index {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var findings []model.Finding
	root.Walk(func(n *model.DocumentNode) {
		for i := range n.Blocks {
			b := &n.Blocks[i]
			if b.Kind != model.BlockXRef || b.Ref == nil || index[b.Ref.TargetPath] {
				continue
			}

			if opts.AutoRepair {
				if repaired, ok := closest(b.Ref.TargetPath, paths, opts.Threshold); ok {
					findings = append(findings, model.Finding{
						Kind:    model.FindingDanglingXRef,
						Message: "repaired reference to " + b.Ref.TargetPath + " as " + repaired,
						Path:    n.Path,
						Subject: b.Ref.TargetPath,
					})
					b.Ref.TargetPath = repaired
					continue
				}
			}

			findings = append(findings, model.Finding{
				Kind:    model.FindingDanglingXRef,
				Message: "dropped dangling reference to " + b.Ref.TargetPath,
				Path:    n.Path,
				Subject: b.Ref.TargetPath,
			})
			n.Blocks[i] = model.ContentBlock{Kind: model.BlockProse, Text: b.Ref.Label}
		}
	})
	return findings
}

// closest returns the existing page path most similar to target, when that
// similarity clears the threshold. Candidates are scanned in sorted order so
// equal scores resolve to the lexically first path.
func closest(target string, paths []string, threshold float64) (string, bool) {
	best := ""
	bestScore := 0.0
	for _, p := range paths {
		score := levenshtein.Match(target, p, nil)
		if score > bestScore {
			best = p
			bestScore = score
		}
	}
	if bestScore < threshold {
		return "", false
	}
	return best, true
}
