package persistent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/peopledeck/deck"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/buntdb"
)

const profilesKey = "profiles"

// ProfileStore persists the whole profile collection as one
// JSON-serialized array under a single buntdb key. Every mutation
// overwrites the full slot. Another process writing the same file races
// with last-writer-wins semantics; that is accepted for a single-user
// local directory.
type ProfileStore struct {
	Buntdb *buntdb.DB
}

var _ deck.ProfileStore = (*ProfileStore)(nil)

func (s *ProfileStore) LoadAll(ctx context.Context) ([]deck.Profile, error) {
	var serialized string
	err := s.Buntdb.View(func(tx *buntdb.Tx) error {
		value, err := tx.Get(profilesKey)
		if err != nil {
			return err
		}
		serialized = value
		return nil
	})
	if err != nil {
		if errors.Is(err, buntdb.ErrNotFound) {
			return []deck.Profile{}, nil
		}
		return nil, fmt.Errorf("buntdb view: %w", err)
	}

	var profiles []deck.Profile
	if err := json.Unmarshal([]byte(serialized), &profiles); err != nil {
		// corrupted slot degrades to an empty directory
		logrus.WithError(err).Warningln("Stored profiles unparsable. Starting empty.")
		return []deck.Profile{}, nil
	}
	if profiles == nil {
		profiles = []deck.Profile{}
	}
	return profiles, nil
}

func (s *ProfileStore) SaveAll(ctx context.Context, profiles []deck.Profile) error {
	serialized, err := json.Marshal(profiles)
	if err != nil {
		return fmt.Errorf("serialize profiles: %w", err)
	}
	err = s.Buntdb.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(profilesKey, string(serialized), nil)
		return err
	})
	if err != nil {
		return fmt.Errorf("buntdb update: %w", err)
	}
	return nil
}
