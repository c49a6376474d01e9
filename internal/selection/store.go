package selection

import (
	"sync"

	"github.com/david/bid-finder/internal/models"
)

// Store holds the bid the user is looking at and the last map search.
// The selection endpoint is the only writer of the bid, the map endpoint the
// only writer of the query.
type Store struct {
	mu       sync.RWMutex
	selected *models.Bid
	mapQuery string
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Selected() (models.Bid, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return models.Bid{}, false
	}
	return *s.selected, true
}

func (s *Store) Select(bid models.Bid) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = &bid
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

func (s *Store) MapQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mapQuery
}

func (s *Store) SetMapQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mapQuery = q
}
