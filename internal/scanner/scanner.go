// Package scanner walks a repository tree, applies glob inclusion/exclusion
// rules, and produces the stable, ordered snapshot of source units that every
// downstream stage consumes.
package scanner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/julianshen/codewiki/internal/model"
)

// ecosystems maps file extensions to ecosystem tags used for adapter
// selection. Unknown extensions scan as "unknown" and are never analyzed.
var ecosystems = map[string]string{
	".go":   "go",
	".py":   "python",
	".js":   "javascript",
	".jsx":  "javascript",
	".ts":   "typescript",
	".tsx":  "typescript",
	".java": "java",
	".rs":   "rust",
	".rb":   "ruby",
	".c":    "c",
	".h":    "c",
	".cc":   "cpp",
	".cpp":  "cpp",
}

// ScanError is the only fatal scan condition: the root path is missing or
// unreadable.
type ScanError struct {
	Root string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scanning %s: %v", e.Root, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

// Options bounds a scan run.
type Options struct {
	MaxFileSize int64         // units larger than this are skipped with a finding
	ReadTimeout time.Duration // per-file read time bound
	Workers     int           // parallel subtree walkers
}

// DefaultOptions returns the standard scan bounds.
func DefaultOptions() Options {
	return Options{
		MaxFileSize: 1 << 20, // 1 MiB
		ReadTimeout: 5 * time.Second,
		Workers:     runtime.GOMAXPROCS(0),
	}
}

// Result is the completed scan snapshot. Units are sorted by path so the
// snapshot is independent of walk order.
type Result struct {
	Units    []model.SourceUnit
	Excluded int // files dropped by exclusion rules (counted, not errored)
	Findings []model.Finding
}

// collector accumulates one walker's results before the deterministic merge.
type collector struct {
	units    []model.SourceUnit
	excluded int
	findings []model.Finding
}

// visitSet tracks resolved directory paths so symlink cycles are broken:
// each real path is entered at most once across all walkers.
type visitSet struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (v *visitSet) visit(realPath string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.seen[realPath] {
		return false
	}
	v.seen[realPath] = true
	return true
}

// Scan walks root fully and returns the ordered snapshot of source units.
// Independent top-level subtrees are walked concurrently; results are merged
// and sorted by path before returning. The only fatal error is a *ScanError
// (root missing or unreadable) or context cancellation.
func Scan(ctx context.Context, root string, rules RuleSet, opts Options) (*Result, error) {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultOptions().MaxFileSize
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = DefaultOptions().ReadTimeout
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultOptions().Workers
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, &ScanError{Root: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &ScanError{Root: root, Err: fmt.Errorf("not a directory")}
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, &ScanError{Root: root, Err: err}
	}

	visited := &visitSet{seen: make(map[string]bool)}
	if realRoot, err := filepath.EvalSymlinks(root); err == nil {
		visited.visit(realRoot)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	var mu sync.Mutex
	var collectors []*collector

	// Root-level files are handled inline; each top-level directory gets its
	// own walker.
	rootCol := &collector{}
	collectors = append(collectors, rootCol)
	for _, entry := range entries {
		if entry.IsDir() || isDirLink(filepath.Join(root, entry.Name())) {
			name := entry.Name()
			g.Go(func() error {
				col := &collector{}
				err := walkDir(ctx, root, name, rules, opts, visited, col)
				mu.Lock()
				collectors = append(collectors, col)
				mu.Unlock()
				return err
			})
			continue
		}
		scanFile(root, entry.Name(), rules, opts, rootCol)
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{}
	for _, col := range collectors {
		res.Units = append(res.Units, col.units...)
		res.Findings = append(res.Findings, col.findings...)
		res.Excluded += col.excluded
	}
	sort.Slice(res.Units, func(i, j int) bool { return res.Units[i].Path < res.Units[j].Path })
	sort.Slice(res.Findings, func(i, j int) bool { return res.Findings[i].Path < res.Findings[j].Path })
	return res, nil
}

// walkDir recursively scans the subtree at root/rel. Directory symlinks are
// followed but each resolved path is visited at most once.
func walkDir(ctx context.Context, root, rel string, rules RuleSet, opts Options, visited *visitSet, col *collector) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	abs := filepath.Join(root, rel)
	realPath, err := filepath.EvalSymlinks(abs)
	if err != nil {
		log.Printf("WARNING: scanner: skipping %s: %v", rel, err)
		return nil
	}
	if !visited.visit(realPath) {
		return nil // symlink cycle or already-walked subtree
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		log.Printf("WARNING: scanner: unreadable directory %s: %v", rel, err)
		return nil
	}

	for _, entry := range entries {
		childRel := filepath.Join(rel, entry.Name())
		if entry.IsDir() || isDirLink(filepath.Join(root, childRel)) {
			if err := walkDir(ctx, root, childRel, rules, opts, visited, col); err != nil {
				return err
			}
			continue
		}
		scanFile(root, childRel, rules, opts, col)
	}
	return nil
}

// scanFile applies rules and bounds to a single file and appends either a
// SourceUnit or a finding to the collector.
func scanFile(root, rel string, rules RuleSet, opts Options, col *collector) {
	slashRel := filepath.ToSlash(rel)
	if !rules.Include(slashRel) {
		col.excluded++
		return
	}

	abs := filepath.Join(root, rel)
	info, err := os.Stat(abs)
	if err != nil {
		log.Printf("WARNING: scanner: cannot stat %s: %v", slashRel, err)
		return
	}
	// FIFOs, sockets, and devices can block a read forever; only regular
	// files are scanned.
	if !info.Mode().IsRegular() {
		col.findings = append(col.findings, model.Finding{
			Kind:    model.FindingUnitSkipped,
			Path:    slashRel,
			Message: fmt.Sprintf("not a regular file (mode %s)", info.Mode()),
		})
		return
	}
	if info.Size() > opts.MaxFileSize {
		col.findings = append(col.findings, model.Finding{
			Kind:    model.FindingUnitSkipped,
			Path:    slashRel,
			Message: fmt.Sprintf("file size %d exceeds limit %d", info.Size(), opts.MaxFileSize),
		})
		return
	}

	start := time.Now()
	data, err := os.ReadFile(abs)
	if err != nil {
		log.Printf("WARNING: scanner: cannot read %s: %v", slashRel, err)
		return
	}
	if elapsed := time.Since(start); elapsed > opts.ReadTimeout {
		col.findings = append(col.findings, model.Finding{
			Kind:    model.FindingUnitSkipped,
			Path:    slashRel,
			Message: fmt.Sprintf("read took %s, exceeds limit %s", elapsed, opts.ReadTimeout),
		})
		return
	}

	sum := sha256.Sum256(data)
	eco, ok := ecosystems[filepath.Ext(rel)]
	if !ok {
		eco = "unknown"
	}
	col.units = append(col.units, model.SourceUnit{
		Path:      slashRel,
		Ecosystem: eco,
		Size:      int64(len(data)),
		Hash:      hex.EncodeToString(sum[:]),
	})
}

// isDirLink reports whether path is a symlink that resolves to a directory.
func isDirLink(path string) bool {
	fi, err := os.Lstat(path)
	if err != nil || fi.Mode()&os.ModeSymlink == 0 {
		return false
	}
	target, err := os.Stat(path)
	return err == nil && target.IsDir()
}
