// Package python is the extraction adapter for Python source units. Each
// module file yields one abstraction candidate; class bases become extends
// hints and imports become uses hints.
package python

import (
	"context"
	"path"
	"strings"

	"github.com/julianshen/codewiki/internal/extract"
	"github.com/julianshen/codewiki/internal/model"
	"github.com/julianshen/codewiki/internal/parser"
)

// Adapter extracts abstractions from Python source files.
type Adapter struct{}

// New creates the Python adapter.
func New() *Adapter { return &Adapter{} }

// Name implements extract.Adapter.
func (a *Adapter) Name() string { return "python" }

// Extract implements extract.Adapter.
func (a *Adapter) Extract(ctx context.Context, unit model.SourceUnit, source []byte) ([]model.Abstraction, []model.Hint, error) {
	fi, err := parser.New().Analyze(ctx, unit.Path, source)
	if err != nil {
		return nil, nil, err
	}

	name := moduleName(unit.Path)
	id := model.AbstractionID(extract.Slugify(strings.TrimSuffix(unit.Path, ".py")))
	kind := extract.InferKind(name, unit.Path)

	abs := model.Abstraction{
		ID:         id,
		Name:       name,
		Kind:       kind,
		SourcePath: unit.Path,
		Purpose:    extract.TruncatePurpose(fi.Doc),
		Operations: operations(fi),
		ConfigKeys: configKeys(fi, kind, unit.Path),
	}

	var hints []model.Hint
	for _, imp := range fi.Imports {
		target := strings.TrimLeft(imp, ".")
		if target == "" {
			continue
		}
		hints = append(hints, model.Hint{
			FromUnit: unit.Path,
			From:     id,
			Target:   strings.ReplaceAll(target, ".", "/"),
			Kind:     model.EdgeUses,
		})
	}
	for _, td := range fi.Types {
		for _, base := range td.Bases {
			if isBuiltinBase(base) {
				continue
			}
			hints = append(hints, model.Hint{
				FromUnit: unit.Path,
				From:     id,
				Target:   base,
				Kind:     model.EdgeExtends,
			})
		}
	}

	return []model.Abstraction{abs}, hints, nil
}

// moduleName returns the module name for a file; package __init__ modules
// take the package directory's name.
func moduleName(unitPath string) string {
	base := strings.TrimSuffix(path.Base(unitPath), ".py")
	if base == "__init__" {
		return path.Base(path.Dir(unitPath))
	}
	return base
}

// operations lists the public module-level and class functions.
func operations(fi *parser.FileInfo) []model.Operation {
	var ops []model.Operation
	for _, fn := range fi.Functions {
		if strings.HasPrefix(fn.Name, "_") {
			continue
		}
		ops = append(ops, model.Operation{
			Name:    fn.Name,
			Params:  extract.SplitParams(fn.Params),
			Returns: strings.TrimSpace(strings.TrimPrefix(fn.Results, "->")),
		})
	}
	return ops
}

// configKeys exposes ALL_CAPS module constants of config-kind modules.
func configKeys(fi *parser.FileInfo, kind model.AbstractionKind, unitPath string) map[string]string {
	if kind != model.KindConfig {
		return nil
	}
	keys := make(map[string]string)
	for _, c := range fi.Constants {
		keys[c] = "constant declared in " + unitPath
	}
	if len(keys) == 0 {
		return nil
	}
	return keys
}

// isBuiltinBase filters Python bases that never refer to project code.
func isBuiltinBase(base string) bool {
	switch base {
	case "object", "Exception", "ABC", "Enum", "IntEnum", "StrEnum", "NamedTuple", "TypedDict", "Protocol":
		return true
	}
	return strings.Contains(base, "metaclass=")
}
