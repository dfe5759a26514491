package access

import "strings"

// MatchesUserAccess is the case-insensitive substring filter on a
// system's member listing. It covers the fields the member table shows:
// name, email, department, and role. An empty query matches everything.
func MatchesUserAccess(ua *UserAccess, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, field := range []string{ua.Name, ua.Email, ua.Department, ua.Role} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// FilterUserAccess keeps the rows matching the query, preserving order.
func FilterUserAccess(rows []*UserAccess, query string) []*UserAccess {
	if query == "" {
		return rows
	}
	result := make([]*UserAccess, 0, len(rows))
	for _, row := range rows {
		if MatchesUserAccess(row, query) {
			result = append(result, row)
		}
	}
	return result
}
