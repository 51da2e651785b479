package core

import (
	"iter"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// DefaultSuggestionLimit matches the catalog's suggestion endpoint.
const DefaultSuggestionLimit = 5

// Search narrows firms to those whose name or description contains query,
// compared under Unicode case folding. The sequence is lazy and can be ranged
// over any number of times; it yields firms in their original order. A blank
// query yields every firm.
//
// Search never modifies firms; callers pass a copy from CatalogStore.
func Search(query string, firms []Firm) iter.Seq[Firm] {
	needle := foldString(strings.TrimSpace(query))

	return func(yield func(Firm) bool) {
		for _, f := range firms {
			if needle != "" && !matches(f, needle) {
				continue
			}
			if !yield(f) {
				return
			}
		}
	}
}

// SearchAll collects Search into a slice.
func SearchAll(query string, firms []Firm) []Firm {
	return slices.Collect(Search(query, firms))
}

// Suggest returns up to limit matching firm names. A blank query has no
// suggestions.
func Suggest(query string, firms []Firm, limit int) []string {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	var names []string
	for f := range Search(query, firms) {
		names = append(names, f.Name)
		if len(names) == limit {
			break
		}
	}
	return names
}

func matches(f Firm, needle string) bool {
	return strings.Contains(foldString(f.Name), needle) ||
		strings.Contains(foldString(f.Description), needle)
}

var folder = cases.Fold()

// foldString applies Unicode case folding, so "FTMO" and "ftmo" compare equal.
func foldString(s string) string {
	if s == "" {
		return ""
	}
	return folder.String(s)
}
