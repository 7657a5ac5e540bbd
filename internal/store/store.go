// Package store holds the client-side item collection and wraps every
// mutating user action in the optimistic apply/confirm/rollback pattern.
// Snapshots are scoped to the entity an action touches, so writes against
// different items or comments never interfere with each other.
package store

import (
	"context"
	"sync"

	"github.com/yazicigil/RateStuff-sub000/internal/events"
	"github.com/yazicigil/RateStuff-sub000/internal/feed"
	"github.com/yazicigil/RateStuff-sub000/internal/models"
)

// Remote is the slice of the API client the store depends on.
type Remote interface {
	Authenticated() bool
	ListItems(ctx context.Context, query string, order feed.Order, tags []string) ([]models.Item, error)
	CreateItem(ctx context.Context, item models.Item) (*models.Item, error)
	UpsertRating(ctx context.Context, itemID string, value int) (*models.Rating, error)
	SetVote(ctx context.Context, commentID string, value int) error
	ToggleSaved(ctx context.Context, itemID string, saved bool) error
	ReportItem(ctx context.Context, itemID, reason string) error
	UpsertComment(ctx context.Context, itemID, text string, rating int, images []string) (*models.Comment, error)
	EditComment(ctx context.Context, commentID, text string, rating int) (*models.Comment, error)
	DeleteComment(ctx context.Context, commentID string) error
}

type Store struct {
	mu       sync.Mutex
	items    []models.Item
	saved    map[string]bool // viewer's saved item ids
	viewerID string
	remote   Remote
	bus      *events.Bus

	// ContentCheck, when set, vets user text before anything is applied.
	// The banned-word list itself lives outside this subsystem.
	ContentCheck func(text string) error
}

func New(remote Remote, bus *events.Bus, viewerID string) *Store {
	return &Store{
		saved:    make(map[string]bool),
		viewerID: viewerID,
		remote:   remote,
		bus:      bus,
	}
}

// Load replaces the local collection from the remote store.
func (s *Store) Load(ctx context.Context, query string, order feed.Order, tags []string) error {
	items, err := s.remote.ListItems(ctx, query, order, tags)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// Items returns a filtered, sorted deep copy of the collection.
func (s *Store) Items(order feed.Order, tags []string, query string) []models.Item {
	s.mu.Lock()
	copies := make([]models.Item, len(s.items))
	for i := range s.items {
		copies[i] = s.items[i].Clone()
	}
	s.mu.Unlock()

	out := feed.FilterItems(copies, tags, query)
	feed.SortItems(out, order)
	return out
}

// Item returns a copy of one item.
func (s *Store) Item(itemID string) (models.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(itemID); i >= 0 {
		return s.items[i].Clone(), true
	}
	return models.Item{}, false
}

// IsSaved reports the viewer's saved mark for the item.
func (s *Store) IsSaved(itemID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved[itemID]
}

// Comments returns the item's comments in display order for the viewer.
func (s *Store) Comments(itemID string, hideViewer bool) []models.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(itemID)
	if i < 0 {
		return nil
	}
	return feed.RankComments(s.items[i].Comments, feed.CommentRankOptions{
		ViewerID:   s.viewerID,
		OwnerID:    s.items[i].CreatedBy,
		HideViewer: hideViewer,
	})
}

// indexOf locates an item. Callers hold s.mu.
func (s *Store) indexOf(itemID string) int {
	for i := range s.items {
		if s.items[i].ID == itemID {
			return i
		}
	}
	return -1
}

// findComment locates a comment across all items. Callers hold s.mu.
func (s *Store) findComment(commentID string) (itemIdx, commentIdx int) {
	for i := range s.items {
		for j := range s.items[i].Comments {
			if s.items[i].Comments[j].ID == commentID {
				return i, j
			}
		}
	}
	return -1, -1
}

// snapshotItem returns the fetch/restore pair for a single item. The
// restore puts back the exact pre-mutation copy; a concurrent confirmed
// write on the same item can therefore be undone by a later rollback,
// which matches last-local-intent-wins semantics.
func (s *Store) snapshotItem(itemID string) (func() models.Item, func(models.Item)) {
	fetch := func() models.Item {
		s.mu.Lock()
		defer s.mu.Unlock()
		if i := s.indexOf(itemID); i >= 0 {
			return s.items[i].Clone()
		}
		return models.Item{}
	}
	restore := func(snap models.Item) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if i := s.indexOf(itemID); i >= 0 && snap.ID != "" {
			s.items[i] = snap
		}
	}
	return fetch, restore
}

func (s *Store) toast(err error) {
	if s.bus != nil {
		s.bus.Publish(events.TopicToast, err.Error())
	}
}
