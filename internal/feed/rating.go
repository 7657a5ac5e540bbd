package feed

import (
	"time"

	"github.com/google/uuid"

	"github.com/yazicigil/RateStuff-sub000/internal/models"
)

// UpsertRating replaces the user's existing rating or appends a new one.
// The idempotency key is the user id, never an externally supplied rating
// id, which keeps exactly one rating per (item, user) under repeated calls.
// An update preserves CreatedAt and stamps EditedAt; values are clamped to
// 1..5 either way.
func UpsertRating(ratings []models.Rating, itemID, userID string, value int, now time.Time) []models.Rating {
	value = models.ClampRating(value)
	for i := range ratings {
		if ratings[i].UserID == userID {
			edited := now
			ratings[i].Value = value
			ratings[i].EditedAt = &edited
			return ratings
		}
	}
	return append(ratings, models.Rating{
		ID:        uuid.NewString(),
		ItemID:    itemID,
		UserID:    userID,
		Value:     value,
		CreatedAt: now,
	})
}

// FindRating returns the user's rating on the item, if any.
func FindRating(ratings []models.Rating, userID string) (models.Rating, bool) {
	for _, r := range ratings {
		if r.UserID == userID {
			return r, true
		}
	}
	return models.Rating{}, false
}
