package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/peopledeck/deck"
)

type ActivityStore struct {
	lastId int64
	logs   []deck.ActivityLog
	mutex  sync.RWMutex
}

func NewActivityStore() ActivityStore {
	return ActivityStore{
		lastId: 0,
		logs:   make([]deck.ActivityLog, 0, 10),
		mutex:  sync.RWMutex{},
	}
}

func (s *ActivityStore) AddEntry(ctx context.Context, activity deck.Activity) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.lastId++
	s.logs = append(s.logs, deck.ActivityLog{
		Id:        s.lastId,
		CreatedAt: time.Time{},
		Name:      activity.Name,
		Data:      activity.Data,
	})
	return nil
}

func (s *ActivityStore) Recent(ctx context.Context, limit int) ([]deck.ActivityLog, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	recent := make([]deck.ActivityLog, 0, limit)
	for i := len(s.logs) - 1; i >= 0 && len(recent) < limit; i-- {
		recent = append(recent, s.logs[i])
	}
	return recent, nil
}

// All returns every entry in insertion order. Test helper.
func (s *ActivityStore) All() []deck.ActivityLog {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return append([]deck.ActivityLog{}, s.logs...)
}
