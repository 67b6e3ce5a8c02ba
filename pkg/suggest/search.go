package suggest

import (
	"sort"
	"strings"
)

// Suggestion is one match. Value and Label coincide for plain string
// options.
type Suggestion struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Search returns up to limit options containing query. Prefix matches come
// first; ties keep declared order.
func Search(options []string, query string, limit int, opts Options) []string {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if opts.EmptyQueryMode != EmptyQueryTop {
			return nil
		}
		if len(options) <= limit {
			return append([]string{}, options...)
		}
		return append([]string{}, options[:limit]...)
	}

	q := strings.ToLower(query)
	matches := make([]match, 0, len(options))
	for _, option := range options {
		lower := strings.ToLower(option)
		if !strings.Contains(lower, q) {
			continue
		}
		matches = append(matches, match{value: option, prefix: strings.HasPrefix(lower, q)})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].prefix && !matches[j].prefix
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.value)
	}
	return out
}

// Suggestions is Search mapped onto Suggestion values.
func Suggestions(options []string, query string, limit int, opts Options) []Suggestion {
	results := Search(options, query, limit, opts)
	out := make([]Suggestion, 0, len(results))
	for _, value := range results {
		out = append(out, Suggestion{Value: value, Label: value})
	}
	return out
}

type match struct {
	value  string
	prefix bool
}
