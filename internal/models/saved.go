package models

import (
	"time"
)

// SavedMark marks an item saved by a user. Idempotent set membership:
// saving twice stores one mark, unsaving an unsaved item is a no-op.
type SavedMark struct {
	UserID    string    `json:"user_id"`
	ItemID    string    `json:"item_id"`
	CreatedAt time.Time `json:"created_at"`
}
