package models

import (
	"strings"
	"time"
)

const MaxTags = 10

type Item struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"` // immutable after creation
	Description string     `json:"description,omitempty"`
	Tags        []string   `json:"tags"` // lowercase, deduped, no leading '#'
	ImageURL    string     `json:"image_url,omitempty"`
	ProductURL  string     `json:"product_url,omitempty"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	EditedAt    *time.Time `json:"edited_at,omitempty"`
	Ratings     []Rating   `json:"ratings"`
	Comments    []Comment  `json:"comments"`
	ReportedBy  []string   `json:"reported_by,omitempty"` // reporter user ids, set semantics
}

// NormalizeTags lowercases, trims '#' and whitespace, dedupes preserving
// first occurrence, and caps the result at MaxTags.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		t = strings.TrimPrefix(t, "#")
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
		if len(out) == MaxTags {
			break
		}
	}
	return out
}

// HasReporter reports whether userID already reported the item.
func (i *Item) HasReporter(userID string) bool {
	for _, id := range i.ReportedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// AddReporter records a report. Membership-only, repeat reports are no-ops.
func (i *Item) AddReporter(userID string) {
	if !i.HasReporter(userID) {
		i.ReportedBy = append(i.ReportedBy, userID)
	}
}

// ReportCount is the number of distinct reporters.
func (i *Item) ReportCount() int {
	return len(i.ReportedBy)
}

// Clone returns a deep copy, used as the pre-mutation snapshot for rollback.
func (i Item) Clone() Item {
	c := i
	if i.EditedAt != nil {
		t := *i.EditedAt
		c.EditedAt = &t
	}
	c.Tags = append([]string(nil), i.Tags...)
	c.ReportedBy = append([]string(nil), i.ReportedBy...)
	c.Ratings = append([]Rating(nil), i.Ratings...)
	for idx := range c.Ratings {
		if r := i.Ratings[idx].EditedAt; r != nil {
			t := *r
			c.Ratings[idx].EditedAt = &t
		}
	}
	c.Comments = make([]Comment, len(i.Comments))
	for idx := range i.Comments {
		c.Comments[idx] = i.Comments[idx].Clone()
	}
	return c
}
