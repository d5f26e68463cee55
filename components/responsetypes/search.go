package responsetypes

import (
	"sort"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/responsetype"
)

// Option is one search result.
type Option struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Next        string `json:"next"`
}

// NextNone is the next-filter value for types that commit after the type step.
const NextNone = "none"

// Search filters defs by query against tag and label. Prefix matches rank
// first; ties keep catalog order. next, when set, keeps only the types whose
// following step matches.
func Search(defs []responsetype.Definition, query, next string, limit int, opts Options) []Option {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" && opts.EmptySearchMode == EmptySearchNone {
		return nil
	}
	next = strings.TrimSpace(next)

	type match struct {
		def      responsetype.Definition
		isPrefix bool
	}
	matches := make([]match, 0, len(defs))
	for _, def := range defs {
		if next != "" && nextOf(def) != next {
			continue
		}
		tag := strings.ToLower(string(def.Tag))
		label := strings.ToLower(def.Label)
		if query != "" && !strings.Contains(tag, query) && !strings.Contains(label, query) {
			continue
		}
		matches = append(matches, match{
			def:      def,
			isPrefix: query != "" && (strings.HasPrefix(tag, query) || strings.HasPrefix(label, query)),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].isPrefix && !matches[j].isPrefix
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]Option, 0, len(matches))
	for _, m := range matches {
		out = append(out, Option{
			Value:       string(m.def.Tag),
			Label:       m.def.Label,
			Description: m.def.Description,
			Next:        nextOf(m.def),
		})
	}
	return out
}

func nextOf(def responsetype.Definition) string {
	if def.Next == responsetype.StepNone {
		return NextNone
	}
	return string(def.Next)
}
