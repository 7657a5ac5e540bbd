package feed

import (
	"strings"

	"github.com/yazicigil/RateStuff-sub000/internal/models"
)

// Matches reports whether an item passes the tag filter and the free-text
// query. Tag semantics are AND: the item must carry every selected tag.
// The query is a case-insensitive substring match over name, description
// and tags; an empty query matches everything.
func Matches(item models.Item, selectedTags []string, query string) bool {
	if len(selectedTags) > 0 {
		have := make(map[string]bool, len(item.Tags))
		for _, t := range item.Tags {
			have[t] = true
		}
		for _, t := range selectedTags {
			if !have[t] {
				return false
			}
		}
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	haystack := strings.ToLower(item.Name + " " + item.Description + " " + strings.Join(item.Tags, " "))
	return strings.Contains(haystack, strings.ToLower(query))
}

// FilterItems returns the items passing Matches, preserving input order.
func FilterItems(items []models.Item, selectedTags []string, query string) []models.Item {
	out := make([]models.Item, 0, len(items))
	for _, it := range items {
		if Matches(it, selectedTags, query) {
			out = append(out, it)
		}
	}
	return out
}

// ToggleTag adds the tag to the selection, or removes it if already
// selected. Selecting a tag twice leaves the selection unchanged.
func ToggleTag(selected []string, tag string) []string {
	for i, t := range selected {
		if t == tag {
			return append(selected[:i:i], selected[i+1:]...)
		}
	}
	return append(selected, tag)
}
