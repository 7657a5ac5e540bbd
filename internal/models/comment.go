package models

import (
	"time"
)

const (
	MaxCommentLen    = 240
	MaxCommentImages = 4
)

type Comment struct {
	ID        string     `json:"id"`
	ItemID    string     `json:"item_id"`
	Text      string     `json:"text"`             // <= MaxCommentLen
	Rating    int        `json:"rating"`           // 0 = none, else 1..5
	AuthorID  string     `json:"author_id"`
	Images    []string   `json:"images,omitempty"` // <= MaxCommentImages
	Votes     []Vote     `json:"votes"`
	Score     int        `json:"score"` // Σ vote values, maintained by the tally
	CreatedAt time.Time  `json:"created_at"`
	EditedAt  *time.Time `json:"edited_at,omitempty"`
}

// Clone returns a deep copy, used as the pre-mutation snapshot for rollback.
func (c Comment) Clone() Comment {
	out := c
	if c.EditedAt != nil {
		t := *c.EditedAt
		out.EditedAt = &t
	}
	out.Images = append([]string(nil), c.Images...)
	out.Votes = append([]Vote(nil), c.Votes...)
	return out
}
