// Package pipeline wires the stages together: scan, extract, graph build,
// diagram and tutorial synthesis, rendering, cross-reference validation, and
// file emission. One Run produces one document tree and one report.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/julianshen/codewiki/internal/config"
	"github.com/julianshen/codewiki/internal/diagram"
	"github.com/julianshen/codewiki/internal/extract"
	"github.com/julianshen/codewiki/internal/extract/golang"
	"github.com/julianshen/codewiki/internal/extract/python"
	"github.com/julianshen/codewiki/internal/graph"
	"github.com/julianshen/codewiki/internal/model"
	"github.com/julianshen/codewiki/internal/render"
	"github.com/julianshen/codewiki/internal/scanner"
	"github.com/julianshen/codewiki/internal/tutorial"
	"github.com/julianshen/codewiki/internal/writer"
	"github.com/julianshen/codewiki/internal/xref"
)

// Pipeline runs the full documentation synthesis for one repository.
type Pipeline struct {
	Root     string
	Config   *config.Config
	Registry *extract.Registry
	Progress io.Writer // stage progress lines; defaults to stderr
}

// Result is the outcome of one run.
type Result struct {
	Report *model.Report
	Tree   *model.DocumentNode
}

// New creates a pipeline with the default adapter registry.
func New(root string, cfg *config.Config) (*Pipeline, error) {
	reg, err := DefaultRegistry()
	if err != nil {
		return nil, err
	}
	return &Pipeline{Root: root, Config: cfg, Registry: reg}, nil
}

// DefaultRegistry registers the built-in extraction adapters.
func DefaultRegistry() (*extract.Registry, error) {
	reg := extract.NewRegistry()
	if err := reg.Register("go", golang.New()); err != nil {
		return nil, err
	}
	if err := reg.Register("python", python.New()); err != nil {
		return nil, err
	}
	return reg, nil
}

// Run executes every stage in order. Non-fatal conditions accumulate as
// findings on the report; the error return covers unusable input (scan root),
// context cancellation before the first stage completes, and output write
// failures. A deadline hit between stages aborts gracefully with a
// partial-run finding and skips file emission.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	report := &model.Report{RunID: uuid.NewString()}
	cfg := p.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	p.progress("scanning %s", p.Root)
	rules := scanner.DefaultRules()
	for _, pat := range cfg.Scan.Exclude {
		rules.Add(pat, true)
	}
	for _, pat := range cfg.Scan.Include {
		rules.Add(pat, false)
	}
	if err := rules.LoadOverrides(p.Root); err != nil {
		return nil, err
	}

	scanned, err := scanner.Scan(ctx, p.Root, rules, scanner.Options{
		MaxFileSize: cfg.Scan.MaxFileSize,
		ReadTimeout: cfg.Scan.ReadTimeout.Duration,
		Workers:     cfg.Scan.Workers,
	})
	if err != nil {
		return nil, err
	}
	report.Stats.UnitsScanned = len(scanned.Units)
	report.Stats.UnitsExcluded = scanned.Excluded
	report.Findings = append(report.Findings, scanned.Findings...)

	p.progress("extracting from %d units", len(scanned.Units))
	extracted, err := extract.Run(ctx, scanned.Units, &extract.DirReader{Base: p.Root}, p.Registry, extract.Config{
		Concurrency: cfg.Extract.Concurrency,
		MaxSurfaced: cfg.Extract.MaxSurfaced,
	})
	if err != nil {
		return p.partial(report, start, "extract", err)
	}
	report.Stats.AbstractionsFound = extracted.Found
	report.Stats.AbstractionsSurfaced = len(extracted.Abstractions)
	report.Findings = append(report.Findings, extracted.Findings...)
	for _, f := range extracted.Findings {
		if f.Kind == model.FindingUnitUnanalyzed {
			report.Stats.UnitsUnanalyzed++
		}
	}

	p.progress("building graph from %d abstractions, %d hints", len(extracted.Abstractions), len(extracted.Hints))
	g, graphFindings := graph.Build(extracted.Abstractions, extracted.Hints)
	report.Stats.Edges = len(g.Edges)
	report.Findings = append(report.Findings, graphFindings...)
	report.Findings = append(report.Findings, g.Findings...)

	if err := ctx.Err(); err != nil {
		return p.partial(report, start, "graph", err)
	}

	p.progress("synthesizing diagrams and tutorial plan")
	diagrams := diagram.Synthesize(g)
	plan := tutorial.Sequence(g)

	p.progress("rendering document tree")
	tree := render.Render(render.Input{
		Title:        p.title(cfg),
		Abstractions: extracted.Abstractions,
		Graph:        g,
		Diagrams:     diagrams,
		Plan:         plan,
	})
	report.Stats.Documents = tree.Len()

	p.progress("validating cross-references")
	report.Findings = append(report.Findings, xref.Validate(tree, xref.Options{
		AutoRepair: cfg.Validate.AutoRepair,
		Threshold:  cfg.Validate.Threshold,
	})...)

	if err := ctx.Err(); err != nil {
		return p.partial(report, start, "validate", err)
	}

	format, err := writer.ParseFormat(cfg.Render.Format)
	if err != nil {
		return nil, err
	}
	outDir := cfg.Render.OutputDir
	if outDir == "" {
		outDir = "docs"
	}
	p.progress("writing %d documents to %s", tree.Len(), outDir)
	w := &writer.Writer{Dir: outDir, Format: format}
	if err := w.Write(tree); err != nil {
		return nil, err
	}

	report.Stats.Duration = time.Since(start)
	return &Result{Report: report, Tree: tree}, nil
}

// partial finalizes a report for a run cut short by its deadline. The report
// is still returned so callers can surface what completed.
func (p *Pipeline) partial(report *model.Report, start time.Time, stage string, cause error) (*Result, error) {
	report.Findings = append(report.Findings, model.Finding{
		Kind:    model.FindingPartialRun,
		Message: fmt.Sprintf("run aborted during %s stage: %v", stage, cause),
	})
	report.Stats.Duration = time.Since(start)
	return &Result{Report: report}, nil
}

func (p *Pipeline) title(cfg *config.Config) string {
	if cfg.Render.Title != "" {
		return cfg.Render.Title
	}
	abs, err := filepath.Abs(p.Root)
	if err != nil {
		return filepath.Base(p.Root)
	}
	return filepath.Base(abs)
}

func (p *Pipeline) progress(format string, args ...any) {
	out := p.Progress
	if out == nil {
		out = os.Stderr
	}
	fmt.Fprintf(out, "codewiki: "+format+"\n", args...)
}
