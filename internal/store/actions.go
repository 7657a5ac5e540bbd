package store

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yazicigil/RateStuff-sub000/internal/client"
	"github.com/yazicigil/RateStuff-sub000/internal/events"
	"github.com/yazicigil/RateStuff-sub000/internal/feed"
	"github.com/yazicigil/RateStuff-sub000/internal/models"
)

// requireAuth short-circuits unauthenticated actions before any local
// mutation, so there is nothing to roll back.
func (s *Store) requireAuth() error {
	if !s.remote.Authenticated() {
		return client.ErrAuthRequired
	}
	return nil
}

// Rate applies the viewer's rating optimistically, then confirms it with
// the remote store or restores the item's pre-action state.
func (s *Store) Rate(ctx context.Context, itemID string, value int) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	if value < 1 || value > 5 {
		return &ValidationError{Field: "rating", Reason: "must be between 1 and 5"}
	}

	fetch, restore := s.snapshotItem(itemID)
	_, err := Run(ctx, Mutation[models.Item]{
		Fetch: fetch,
		Mutate: func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if i := s.indexOf(itemID); i >= 0 {
				s.items[i].Ratings = feed.UpsertRating(s.items[i].Ratings, itemID, s.viewerID, value, time.Now())
			}
		},
		Restore: restore,
		Commit: func(ctx context.Context) error {
			snap, err := s.remote.UpsertRating(ctx, itemID, value)
			if err != nil {
				return err
			}
			// Absorb the server-assigned rating row.
			if snap != nil {
				s.mu.Lock()
				if i := s.indexOf(itemID); i >= 0 {
					for j := range s.items[i].Ratings {
						if s.items[i].Ratings[j].UserID == s.viewerID {
							s.items[i].Ratings[j] = *snap
						}
					}
				}
				s.mu.Unlock()
			}
			return nil
		},
	})
	if err != nil {
		s.toast(err)
		return err
	}
	s.publish(events.TopicItemsReload, itemID)
	return nil
}

// Vote applies the viewer's comment vote optimistically.
func (s *Store) Vote(ctx context.Context, commentID string, value int) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	if value < -1 || value > 1 {
		return &ValidationError{Field: "vote", Reason: "must be -1, 0 or 1"}
	}

	s.mu.Lock()
	itemIdx, _ := s.findComment(commentID)
	if itemIdx < 0 {
		s.mu.Unlock()
		return &ValidationError{Field: "comment", Reason: "unknown comment"}
	}
	itemID := s.items[itemIdx].ID
	s.mu.Unlock()

	fetch, restore := s.snapshotItem(itemID)
	_, err := Run(ctx, Mutation[models.Item]{
		Fetch: fetch,
		Mutate: func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if i, j := s.findComment(commentID); i >= 0 {
				feed.SetVote(&s.items[i].Comments[j], s.viewerID, value)
			}
		},
		Restore: restore,
		Commit: func(ctx context.Context) error {
			return s.remote.SetVote(ctx, commentID, value)
		},
	})
	if err != nil {
		s.toast(err)
		return err
	}
	return nil
}

// ToggleSaved flips the viewer's saved mark optimistically.
func (s *Store) ToggleSaved(ctx context.Context, itemID string) error {
	if err := s.requireAuth(); err != nil {
		return err
	}

	s.mu.Lock()
	next := !s.saved[itemID]
	s.mu.Unlock()

	_, err := Run(ctx, Mutation[bool]{
		Fetch: func() bool {
			s.mu.Lock()
			defer s.mu.Unlock()
			return s.saved[itemID]
		},
		Mutate: func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if next {
				s.saved[itemID] = true
			} else {
				delete(s.saved, itemID)
			}
		},
		Restore: func(was bool) {
			s.mu.Lock()
			defer s.mu.Unlock()
			if was {
				s.saved[itemID] = true
			} else {
				delete(s.saved, itemID)
			}
		},
		Commit: func(ctx context.Context) error {
			return s.remote.ToggleSaved(ctx, itemID, next)
		},
	})
	if err != nil {
		s.toast(err)
		return err
	}
	return nil
}

// Report files a report optimistically; repeats by the same viewer are
// membership no-ops locally and idempotent server-side.
func (s *Store) Report(ctx context.Context, itemID, reason string) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	if strings.TrimSpace(reason) == "" {
		return &ValidationError{Field: "reason", Reason: "required"}
	}
	if err := s.checkContent(reason); err != nil {
		return err
	}

	fetch, restore := s.snapshotItem(itemID)
	_, err := Run(ctx, Mutation[models.Item]{
		Fetch: fetch,
		Mutate: func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if i := s.indexOf(itemID); i >= 0 {
				s.items[i].AddReporter(s.viewerID)
			}
		},
		Restore: restore,
		Commit: func(ctx context.Context) error {
			return s.remote.ReportItem(ctx, itemID, reason)
		},
	})
	if err != nil {
		s.toast(err)
		return err
	}
	return nil
}

// Comment creates or replaces the viewer's comment on an item.
func (s *Store) Comment(ctx context.Context, itemID, text string, rating int, images []string) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	if err := validateCommentBody(text, rating, images); err != nil {
		return err
	}
	if err := s.checkContent(text); err != nil {
		return err
	}

	local := models.Comment{
		ID:        uuid.NewString(),
		ItemID:    itemID,
		Text:      text,
		Rating:    rating,
		AuthorID:  s.viewerID,
		Images:    images,
		CreatedAt: time.Now(),
	}

	fetch, restore := s.snapshotItem(itemID)
	_, err := Run(ctx, Mutation[models.Item]{
		Fetch: fetch,
		Mutate: func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if i := s.indexOf(itemID); i >= 0 {
				s.items[i].Comments = feed.UpsertComment(s.items[i].Comments, local)
			}
		},
		Restore: restore,
		Commit: func(ctx context.Context) error {
			confirmed, err := s.remote.UpsertComment(ctx, itemID, text, rating, images)
			if err != nil {
				return err
			}
			// Swap the placeholder id for the server's comment row.
			if confirmed != nil {
				s.mu.Lock()
				if i := s.indexOf(itemID); i >= 0 {
					for j := range s.items[i].Comments {
						if s.items[i].Comments[j].AuthorID == s.viewerID {
							s.items[i].Comments[j] = *confirmed
						}
					}
				}
				s.mu.Unlock()
			}
			return nil
		},
	})
	if err != nil {
		s.toast(err)
		return err
	}
	s.publish(events.TopicItemsReload, itemID)
	return nil
}

// EditComment rewrites the viewer's comment text and rating.
func (s *Store) EditComment(ctx context.Context, commentID, text string, rating int) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	if err := validateCommentBody(text, rating, nil); err != nil {
		return err
	}
	if err := s.checkContent(text); err != nil {
		return err
	}

	s.mu.Lock()
	itemIdx, _ := s.findComment(commentID)
	if itemIdx < 0 {
		s.mu.Unlock()
		return &ValidationError{Field: "comment", Reason: "unknown comment"}
	}
	itemID := s.items[itemIdx].ID
	s.mu.Unlock()

	fetch, restore := s.snapshotItem(itemID)
	_, err := Run(ctx, Mutation[models.Item]{
		Fetch: fetch,
		Mutate: func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if i, j := s.findComment(commentID); i >= 0 {
				now := time.Now()
				s.items[i].Comments[j].Text = text
				s.items[i].Comments[j].Rating = rating
				s.items[i].Comments[j].EditedAt = &now
			}
		},
		Restore: restore,
		Commit: func(ctx context.Context) error {
			_, err := s.remote.EditComment(ctx, commentID, text, rating)
			return err
		},
	})
	if err != nil {
		s.toast(err)
		return err
	}
	return nil
}

// DeleteComment removes the viewer's comment.
func (s *Store) DeleteComment(ctx context.Context, commentID string) error {
	if err := s.requireAuth(); err != nil {
		return err
	}

	s.mu.Lock()
	itemIdx, _ := s.findComment(commentID)
	if itemIdx < 0 {
		s.mu.Unlock()
		return &ValidationError{Field: "comment", Reason: "unknown comment"}
	}
	itemID := s.items[itemIdx].ID
	s.mu.Unlock()

	fetch, restore := s.snapshotItem(itemID)
	_, err := Run(ctx, Mutation[models.Item]{
		Fetch: fetch,
		Mutate: func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if i, j := s.findComment(commentID); i >= 0 {
				s.items[i].Comments = append(s.items[i].Comments[:j], s.items[i].Comments[j+1:]...)
			}
		},
		Restore: restore,
		Commit: func(ctx context.Context) error {
			return s.remote.DeleteComment(ctx, commentID)
		},
	})
	if err != nil {
		s.toast(err)
		return err
	}
	s.publish(events.TopicItemsReload, itemID)
	return nil
}

// CreateItem submits a new item. Duplicate names come back as a
// ConflictError from the remote; the optimistic row is rolled back the
// same way as any other failure.
func (s *Store) CreateItem(ctx context.Context, name, description, productURL string, tags []string) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Field: "name", Reason: "required"}
	}
	if productURL != "" {
		if _, err := url.ParseRequestURI(productURL); err != nil {
			return &ValidationError{Field: "product_url", Reason: "malformed url"}
		}
	}
	if err := s.checkContent(name + " " + description); err != nil {
		return err
	}

	local := models.Item{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		ProductURL:  productURL,
		Tags:        models.NormalizeTags(tags),
		CreatedBy:   s.viewerID,
		CreatedAt:   time.Now(),
	}

	_, err := Run(ctx, Mutation[string]{
		Fetch: func() string { return local.ID },
		Mutate: func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.items = append(s.items, local)
		},
		Restore: func(id string) {
			s.mu.Lock()
			defer s.mu.Unlock()
			if i := s.indexOf(id); i >= 0 {
				s.items = append(s.items[:i], s.items[i+1:]...)
			}
		},
		Commit: func(ctx context.Context) error {
			confirmed, err := s.remote.CreateItem(ctx, local)
			if err != nil {
				return err
			}
			if confirmed != nil {
				s.mu.Lock()
				if i := s.indexOf(local.ID); i >= 0 {
					s.items[i] = *confirmed
				}
				s.mu.Unlock()
			}
			return nil
		},
	})
	if err != nil {
		s.toast(err)
		return err
	}
	s.publish(events.TopicItemsReload, local.ID)
	s.publish(events.TopicQuickAddClose, local.ID)
	return nil
}

func (s *Store) checkContent(text string) error {
	if s.ContentCheck == nil {
		return nil
	}
	if err := s.ContentCheck(text); err != nil {
		return &ValidationError{Field: "content", Reason: err.Error()}
	}
	return nil
}

func validateCommentBody(text string, rating int, images []string) error {
	if strings.TrimSpace(text) == "" {
		return &ValidationError{Field: "text", Reason: "required"}
	}
	if len([]rune(text)) > models.MaxCommentLen {
		return &ValidationError{Field: "text", Reason: "too long"}
	}
	if rating < 0 || rating > 5 {
		return &ValidationError{Field: "rating", Reason: "must be between 0 and 5"}
	}
	if len(images) > models.MaxCommentImages {
		return &ValidationError{Field: "images", Reason: "too many images"}
	}
	return nil
}

func (s *Store) publish(topic events.Topic, payload interface{}) {
	if s.bus != nil {
		s.bus.Publish(topic, payload)
	}
}
