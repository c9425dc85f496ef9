package inmem

import (
	"context"
	"sync"

	"github.com/peopledeck/deck"
)

// ProfileStore holds the collection in memory. Used by tests and as a
// throwaway backend when no database path is wanted.
type ProfileStore struct {
	profiles []deck.Profile
	mutex    sync.RWMutex
}

func NewProfileStore(profiles ...deck.Profile) ProfileStore {
	return ProfileStore{
		profiles: append([]deck.Profile{}, profiles...),
		mutex:    sync.RWMutex{},
	}
}

func (s *ProfileStore) LoadAll(ctx context.Context) ([]deck.Profile, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return append([]deck.Profile{}, s.profiles...), nil
}

func (s *ProfileStore) SaveAll(ctx context.Context, profiles []deck.Profile) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.profiles = append([]deck.Profile{}, profiles...)
	return nil
}
