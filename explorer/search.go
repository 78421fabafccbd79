package explorer

import "strings"

// SearchByName returns the first visible route, in ID order, whose name
// contains query ignoring case. An empty query matches nothing.
func SearchByName(visible []VisibleRoute, query string) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return "", false
	}
	for i := range visible {
		if strings.Contains(strings.ToLower(visible[i].Name), q) {
			return visible[i].ID, true
		}
	}
	return "", false
}
