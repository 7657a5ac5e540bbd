// Package server is the in-memory reference implementation of the remote
// store contracts. It exists for development and integration tests; state
// lives in maps behind a mutex, nothing is persisted.
package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yazicigil/RateStuff-sub000/internal/models"
	"github.com/yazicigil/RateStuff-sub000/internal/utils"
)

type Server struct {
	mu     sync.Mutex
	items  []models.Item
	saved  map[string]map[string]models.SavedMark // userID -> itemID -> mark
	users  map[string]*models.User                // token -> user
	byID   map[string]*models.User                // userID -> user
	cache  *utils.GlobalCache                     // list/suggestion responses
	nowFn  func() time.Time
	nextID func() string
}

func NewServer() *Server {
	return &Server{
		saved:  make(map[string]map[string]models.SavedMark),
		users:  make(map[string]*models.User),
		byID:   make(map[string]*models.User),
		cache:  utils.NewCache(200),
		nowFn:  time.Now,
		nextID: uuid.NewString,
	}
}

// RegisterUser installs a session token for a user. Real authentication is
// someone else's job; the backend only needs token -> user resolution.
func (s *Server) RegisterUser(token string, user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := user
	s.users[token] = &u
	s.byID[u.ID] = &u
}

// SeedItem loads an item directly, for tests and dev fixtures.
func (s *Server) SeedItem(item models.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
}

func (s *Server) userByToken(token string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[token]
}

// itemIndex locates an item. Callers hold s.mu.
func (s *Server) itemIndex(itemID string) int {
	for i := range s.items {
		if s.items[i].ID == itemID {
			return i
		}
	}
	return -1
}

// commentIndex locates a comment across items. Callers hold s.mu.
func (s *Server) commentIndex(commentID string) (int, int) {
	for i := range s.items {
		for j := range s.items[i].Comments {
			if s.items[i].Comments[j].ID == commentID {
				return i, j
			}
		}
	}
	return -1, -1
}

func (s *Server) displayName(authorID, viewerID string) (string, bool) {
	u := s.byID[authorID]
	if u == nil {
		return "", false
	}
	return u.Name, u.Verified
}
