// Package extract turns scanned source units into abstraction candidates and
// reference hints via pluggable per-ecosystem adapters, then selects the
// surfaced abstraction set handed to the graph builder.
package extract

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/sourcegraph/conc/pool"

	"github.com/julianshen/codewiki/internal/graph"
	"github.com/julianshen/codewiki/internal/model"
)

// Adapter maps a single source unit to zero or more abstraction candidates
// plus zero or more directed reference hints. Adapters must be safe for
// concurrent calls on independent units.
type Adapter interface {
	Name() string
	Extract(ctx context.Context, unit model.SourceUnit, source []byte) ([]model.Abstraction, []model.Hint, error)
}

// Registry is the closed adapter registry keyed by ecosystem tag.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register binds an adapter to an ecosystem tag. Registering the same tag
// twice is an error.
func (r *Registry) Register(ecosystem string, a Adapter) error {
	if _, exists := r.adapters[ecosystem]; exists {
		return fmt.Errorf("adapter already registered for ecosystem %q", ecosystem)
	}
	r.adapters[ecosystem] = a
	return nil
}

// Adapter returns the adapter for an ecosystem tag, if registered.
func (r *Registry) Adapter(ecosystem string) (Adapter, bool) {
	a, ok := r.adapters[ecosystem]
	return a, ok
}

// Ecosystems returns the registered tags in sorted order.
func (r *Registry) Ecosystems() []string {
	tags := make([]string, 0, len(r.adapters))
	for tag := range r.adapters {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// SourceReader abstracts file reading for testability.
type SourceReader interface {
	ReadFile(path string) ([]byte, error)
}

// DirReader reads files relative to a base directory.
type DirReader struct {
	Base string
}

func (r *DirReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(filepath.Join(r.Base, path))
}

// Config controls extraction behavior.
type Config struct {
	Concurrency int // max concurrent adapter invocations
	MaxSurfaced int // significance-ranking cutoff for the surfaced set
}

// DefaultConfig returns sensible extraction defaults. The 15-abstraction
// cutoff is a ranking bound, not a correctness requirement; tests may lower it.
func DefaultConfig() Config {
	return Config{
		Concurrency: 5,
		MaxSurfaced: 15,
	}
}

// Result is the merged, deterministic output of the extraction stage.
type Result struct {
	Abstractions []model.Abstraction // surfaced set, scanner order
	Hints        []model.Hint        // deduplicated, scanner order
	Findings     []model.Finding
	Found        int // candidate count before the surfacing cutoff
}

// unitOutput is the per-worker result buffer for one source unit.
type unitOutput struct {
	abstractions []model.Abstraction
	hints        []model.Hint
	findings     []model.Finding
}

// Run extracts abstractions from all units concurrently, then merges results
// back into scanner order, deduplicates candidates by id, and applies the
// significance cutoff. Adapter failures are findings, never errors; the only
// error return is context cancellation.
func Run(ctx context.Context, units []model.SourceUnit, reader SourceReader, reg *Registry, cfg Config) (*Result, error) {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConfig().Concurrency
	}
	if cfg.MaxSurfaced <= 0 {
		cfg.MaxSurfaced = DefaultConfig().MaxSurfaced
	}

	outputs := make([]unitOutput, len(units))
	p := pool.New().WithMaxGoroutines(cfg.Concurrency)

	for i, unit := range units {
		i, unit := i, unit
		p.Go(func() {
			if ctx.Err() != nil {
				return
			}
			outputs[i] = extractUnit(ctx, unit, reader, reg)
		})
	}
	p.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{}
	merged := mergeCandidates(outputs, res)
	res.Found = len(merged)
	res.Abstractions = surface(merged, res.Hints, cfg.MaxSurfaced)
	return res, nil
}

// extractUnit runs the adapter for a single unit into its own buffer.
func extractUnit(ctx context.Context, unit model.SourceUnit, reader SourceReader, reg *Registry) unitOutput {
	var out unitOutput

	adapter, ok := reg.Adapter(unit.Ecosystem)
	if !ok {
		out.findings = append(out.findings, model.Finding{
			Kind:    model.FindingUnitUnanalyzed,
			Path:    unit.Path,
			Message: fmt.Sprintf("no adapter registered for ecosystem %q", unit.Ecosystem),
		})
		return out
	}

	source, err := reader.ReadFile(unit.Path)
	if err != nil {
		out.findings = append(out.findings, model.Finding{
			Kind:    model.FindingUnitUnanalyzed,
			Path:    unit.Path,
			Message: fmt.Sprintf("reading unit: %v", err),
		})
		return out
	}

	abstractions, hints, err := adapter.Extract(ctx, unit, source)
	if err != nil {
		log.Printf("WARNING: extract: adapter %s failed on %s: %v", adapter.Name(), unit.Path, err)
		out.findings = append(out.findings, model.Finding{
			Kind:    model.FindingAdapterError,
			Path:    unit.Path,
			Message: fmt.Sprintf("adapter %s: %v", adapter.Name(), err),
		})
		return out
	}

	out.abstractions = abstractions
	out.hints = hints
	return out
}

// mergeCandidates folds per-unit buffers back into scanner order: candidates
// deduplicate by id (first-seen wins on conflicting kind, with a finding;
// operations and config keys from later candidates are merged in), hints
// deduplicate exactly.
func mergeCandidates(outputs []unitOutput, res *Result) []model.Abstraction {
	byID := make(map[model.AbstractionID]int)
	var merged []model.Abstraction
	hintSeen := make(map[model.Hint]bool)

	for _, out := range outputs {
		res.Findings = append(res.Findings, out.findings...)

		for _, cand := range out.abstractions {
			idx, exists := byID[cand.ID]
			if !exists {
				if cand.ConfigKeys == nil {
					cand.ConfigKeys = map[string]string{}
				}
				byID[cand.ID] = len(merged)
				merged = append(merged, cand)
				continue
			}

			kept := &merged[idx]
			if cand.Kind != kept.Kind {
				res.Findings = append(res.Findings, model.Finding{
					Kind:    model.FindingKindConflict,
					Subject: string(cand.ID),
					Message: fmt.Sprintf("kind %q conflicts with first-seen %q; keeping %q", cand.Kind, kept.Kind, kept.Kind),
				})
			}
			mergeInto(kept, cand)
		}

		for _, h := range out.hints {
			if hintSeen[h] {
				continue
			}
			hintSeen[h] = true
			res.Hints = append(res.Hints, h)
		}
	}

	return merged
}

// mergeInto folds a duplicate candidate's operations and config keys into the
// first-seen record. Scalar fields of the first-seen candidate win, except
// that an empty purpose is filled in.
func mergeInto(kept *model.Abstraction, cand model.Abstraction) {
	if kept.Purpose == "" {
		kept.Purpose = cand.Purpose
	}
	opSeen := make(map[string]bool, len(kept.Operations))
	for _, op := range kept.Operations {
		opSeen[op.Name] = true
	}
	for _, op := range cand.Operations {
		if !opSeen[op.Name] {
			opSeen[op.Name] = true
			kept.Operations = append(kept.Operations, op)
		}
	}
	for k, v := range cand.ConfigKeys {
		if _, ok := kept.ConfigKeys[k]; !ok {
			kept.ConfigKeys[k] = v
		}
	}
}

// surface applies the significance cutoff: when more than max candidates were
// found, rank by operation count weighted by inbound references and keep the
// top max, preserving first-seen order among the kept. Fewer candidates pass
// through untouched; fake abstractions are never synthesized.
func surface(candidates []model.Abstraction, hints []model.Hint, max int) []model.Abstraction {
	if len(candidates) <= max {
		return candidates
	}

	inbound := make(map[model.AbstractionID]int)
	for _, h := range hints {
		id, ok := graph.ResolveTarget(candidates, h.Target)
		if ok && id != h.From {
			inbound[id]++
		}
	}

	type ranked struct {
		id    model.AbstractionID
		score int
		order int
	}
	rankings := make([]ranked, len(candidates))
	for i, c := range candidates {
		rankings[i] = ranked{
			id:    c.ID,
			score: (1 + len(c.Operations)) * (1 + inbound[c.ID]),
			order: i,
		}
	}
	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].score != rankings[j].score {
			return rankings[i].score > rankings[j].score
		}
		return rankings[i].id < rankings[j].id
	})

	keep := make(map[model.AbstractionID]bool, max)
	for _, r := range rankings[:max] {
		keep[r.id] = true
	}

	surfaced := make([]model.Abstraction, 0, max)
	for _, c := range candidates {
		if keep[c.ID] {
			surfaced = append(surfaced, c)
		}
	}
	return surfaced
}
