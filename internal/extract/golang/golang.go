// Package golang is the reference extraction adapter for Go source units.
// It derives one abstraction candidate per package directory (candidates from
// files of the same package share an id and merge downstream) and emits
// reference hints from import declarations.
package golang

import (
	"context"
	"fmt"
	"path"
	"strings"
	"unicode"

	"github.com/julianshen/codewiki/internal/extract"
	"github.com/julianshen/codewiki/internal/model"
	"github.com/julianshen/codewiki/internal/parser"
)

// Adapter extracts abstractions from Go source files.
type Adapter struct{}

// New creates the Go adapter.
func New() *Adapter { return &Adapter{} }

// Name implements extract.Adapter.
func (a *Adapter) Name() string { return "go" }

// Extract implements extract.Adapter. One candidate is produced per file,
// identified by the package directory, so the extractor's dedup step folds a
// multi-file package into a single abstraction.
func (a *Adapter) Extract(ctx context.Context, unit model.SourceUnit, source []byte) ([]model.Abstraction, []model.Hint, error) {
	fi, err := parser.New().Analyze(ctx, unit.Path, source)
	if err != nil {
		return nil, nil, err
	}
	if fi.Package == "" {
		return nil, nil, fmt.Errorf("%s: no package clause", unit.Path)
	}

	dir := path.Dir(unit.Path)
	id := abstractionID(dir, fi.Package)
	kind := extract.InferKind(fi.Package, dir)

	abs := model.Abstraction{
		ID:         id,
		Name:       fi.Package,
		Kind:       kind,
		SourcePath: sourcePath(dir, unit.Path),
		Purpose:    extract.TruncatePurpose(fi.Doc),
		Operations: operations(fi),
		ConfigKeys: configKeys(fi, kind, unit.Path),
	}

	var hints []model.Hint
	for _, imp := range fi.Imports {
		if !strings.Contains(imp, "/") {
			continue // single-segment imports are standard library
		}
		hintKind := model.EdgeUses
		if strings.Contains(path.Base(imp), "config") {
			hintKind = model.EdgeConfigures
		}
		hints = append(hints, model.Hint{
			FromUnit: unit.Path,
			From:     id,
			Target:   imp,
			Kind:     hintKind,
		})
	}

	return []model.Abstraction{abs}, hints, nil
}

// abstractionID derives the stable id from the package directory and the
// declared package name.
func abstractionID(dir, pkg string) model.AbstractionID {
	if dir == "." {
		return model.AbstractionID(extract.Slugify(pkg))
	}
	if path.Base(dir) == pkg {
		return model.AbstractionID(extract.Slugify(dir))
	}
	return model.AbstractionID(extract.Slugify(dir + "-" + pkg))
}

// sourcePath anchors the abstraction at its directory; root-level packages
// anchor at the file.
func sourcePath(dir, file string) string {
	if dir == "." {
		return file
	}
	return dir
}

// operations lists the exported functions and methods declared in the file.
// Methods on unexported receivers are skipped.
func operations(fi *parser.FileInfo) []model.Operation {
	var ops []model.Operation
	for _, fn := range fi.Functions {
		if !exported(fn.Name) {
			continue
		}
		name := fn.Name
		if fn.Receiver != "" {
			if !exported(fn.Receiver) {
				continue
			}
			name = fn.Receiver + "." + fn.Name
		}
		ops = append(ops, model.Operation{
			Name:    name,
			Params:  extract.SplitParams(fn.Params),
			Returns: strings.TrimSpace(fn.Results),
		})
	}
	return ops
}

// configKeys exposes exported constants of config-kind packages as
// configuration keys.
func configKeys(fi *parser.FileInfo, kind model.AbstractionKind, unitPath string) map[string]string {
	if kind != model.KindConfig {
		return nil
	}
	keys := make(map[string]string)
	for _, c := range fi.Constants {
		if exported(c) {
			keys[c] = fmt.Sprintf("constant declared in %s", unitPath)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	return keys
}

func exported(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}
