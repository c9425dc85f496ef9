package persistent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/peopledeck/deck"
	"github.com/tidwall/buntdb"
)

type activityEntry struct {
	Id        int64                  `json:"id"`
	CreatedAt time.Time              `json:"createdAt"`
	Name      string                 `json:"name"`
	Data      map[string]interface{} `json:"data"`
}

// ActivityStore appends audit entries under ascending "activity:" keys,
// so key order is creation order.
type ActivityStore struct {
	Buntdb *buntdb.DB

	mutex  sync.Mutex
	lastId int64
}

var _ deck.ActivityStore = (*ActivityStore)(nil)

// ids are creation timestamps, bumped when two entries land in the same
// nanosecond so no key can overwrite another.
func (s *ActivityStore) nextId(now time.Time) int64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	id := now.UnixNano()
	if id <= s.lastId {
		id = s.lastId + 1
	}
	s.lastId = id
	return id
}

func (s *ActivityStore) AddEntry(ctx context.Context, activity deck.Activity) error {
	now := time.Now().UTC()
	entry := activityEntry{
		Id:        s.nextId(now),
		CreatedAt: now,
		Name:      activity.Name,
		Data:      activity.Data,
	}
	serialized, err := json.Marshal(&entry)
	if err != nil {
		return fmt.Errorf("serialize activity entry: %s", err)
	}

	key := fmt.Sprintf("activity:%020d", entry.Id)
	err = s.Buntdb.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(key, string(serialized), nil)
		return err
	})
	if err != nil {
		return fmt.Errorf("bunt update: %s", err)
	}
	return nil
}

func (s *ActivityStore) Recent(ctx context.Context, limit int) ([]deck.ActivityLog, error) {
	logs := make([]deck.ActivityLog, 0, limit)
	var decodeErr error
	err := s.Buntdb.View(func(tx *buntdb.Tx) error {
		return tx.DescendKeys("activity:*", func(key, value string) bool {
			if len(logs) >= limit {
				return false
			}
			var entry activityEntry
			if err := json.Unmarshal([]byte(value), &entry); err != nil {
				decodeErr = fmt.Errorf("deserialize activity entry: %s", err)
				return false
			}
			logs = append(logs, deck.ActivityLog{
				Id:        entry.Id,
				CreatedAt: entry.CreatedAt,
				Name:      entry.Name,
				Data:      entry.Data,
			})
			return true
		})
	})
	if err != nil {
		return nil, fmt.Errorf("buntdb view: %s", err)
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	return logs, nil
}
