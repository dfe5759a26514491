package system

import (
	"sort"
	"strings"
)

// MatchesSearch is the case-insensitive substring filter used by the
// directory and dashboard listings. An empty query matches everything.
func MatchesSearch(s *System, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(s.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(s.Description), q) {
		return true
	}
	if strings.Contains(strings.ToLower(s.Owner.Name), q) {
		return true
	}
	return strings.Contains(strings.ToLower(s.Owner.Email), q)
}

// MatchesCategory is an exact-match filter; "All" and empty act as wildcards.
func MatchesCategory(s *System, category string) bool {
	if category == "" || category == CategoryAll {
		return true
	}
	return s.Category == category
}

func Filter(systems []*System, query, category string) []*System {
	result := make([]*System, 0, len(systems))
	for _, s := range systems {
		if MatchesSearch(s, query) && MatchesCategory(s, category) {
			result = append(result, s)
		}
	}
	return result
}

// SortByName orders case-insensitively with empty names first. The
// reconciliation queries themselves guarantee no order; listing endpoints
// apply this before responding.
func SortByName(systems []*System) {
	sort.SliceStable(systems, func(i, j int) bool {
		return lessEmptyFirst(systems[i].Name, systems[j].Name)
	})
}

func lessEmptyFirst(a, b string) bool {
	if a == "" || b == "" {
		return a == "" && b != ""
	}
	return strings.ToLower(a) < strings.ToLower(b)
}
