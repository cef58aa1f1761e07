package extract

import (
	"regexp"
	"strings"

	"github.com/julianshen/codewiki/internal/model"
)

// purposeMaxRunes bounds the free-text purpose summary carried on an
// abstraction record.
const purposeMaxRunes = 280

var (
	nonSlugRe     = regexp.MustCompile(`[^a-z0-9-]`)
	multiHyphenRe = regexp.MustCompile(`-{2,}`)
)

// Slugify converts a path or name into a kebab-case abstraction id segment.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("/", "-", "\\", "-", "_", "-", ".", "-", " ", "-").Replace(s)
	s = nonSlugRe.ReplaceAllString(s, "")
	s = multiHyphenRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// TruncatePurpose bounds a purpose summary, truncating on a rune boundary.
func TruncatePurpose(s string) string {
	runes := []rune(s)
	if len(runes) > purposeMaxRunes {
		return string(runes[:purposeMaxRunes])
	}
	return s
}

// kindTokens maps name fragments to abstraction kinds, most specific first.
var kindTokens = []struct {
	token string
	kind  model.AbstractionKind
}{
	{"config", model.KindConfig},
	{"settings", model.KindConfig},
	{"store", model.KindStore},
	{"storage", model.KindStore},
	{"repository", model.KindStore},
	{"cache", model.KindStore},
	{"db", model.KindStore},
	{"server", model.KindService},
	{"service", model.KindService},
	{"api", model.KindService},
	{"handler", model.KindService},
	{"client", model.KindService},
	{"util", model.KindUtility},
	{"helper", model.KindUtility},
	{"common", model.KindUtility},
}

// InferKind classifies an abstraction from its declared name and source path.
// Unmatched names default to module.
func InferKind(name, path string) model.AbstractionKind {
	haystack := strings.ToLower(name + " " + path)
	for _, kt := range kindTokens {
		if strings.Contains(haystack, kt.token) {
			return kt.kind
		}
	}
	return model.KindModule
}

// SplitParams breaks a raw parameter-list string into trimmed entries.
func SplitParams(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var params []string
	depth := 0
	start := 0
	// Split on top-level commas only; nested parens/brackets stay intact.
	for i, r := range raw {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				if p := strings.TrimSpace(raw[start:i]); p != "" {
					params = append(params, p)
				}
				start = i + 1
			}
		}
	}
	if p := strings.TrimSpace(raw[start:]); p != "" {
		params = append(params, p)
	}
	return params
}
