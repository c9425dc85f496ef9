package deck

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Directory orchestrates create, update, delete and search over the
// profile collection. Every mutation re-reads the full collection from
// the store, transforms it and writes the whole array back.
type Directory struct {
	Store    ProfileStore
	Activity ActivityStore
}

func (d *Directory) All(ctx context.Context) ([]Profile, error) {
	profiles, err := d.Store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	return profiles, nil
}

// Create validates the profile, assigns a fresh id when absent and
// appends it to the collection.
func (d *Directory) Create(ctx context.Context, profile Profile) (Profile, error) {
	if err := profile.Validate(); err != nil {
		return Profile{}, err
	}
	profiles, err := d.Store.LoadAll(ctx)
	if err != nil {
		return Profile{}, fmt.Errorf("load profiles: %w", err)
	}

	if profile.Id == "" {
		profile.Id = ProfileId(uuid.New().String())
	} else {
		for _, existing := range profiles {
			if existing.Id == profile.Id {
				return Profile{}, ErrProfileExists
			}
		}
	}

	profiles = append(profiles, profile)
	if err := d.Store.SaveAll(ctx, profiles); err != nil {
		return Profile{}, fmt.Errorf("save profiles: %w", err)
	}
	d.logActivity(ctx, "profile_created", profile)
	return profile, nil
}

// Update replaces the entry the incoming record identifies. Position and
// count of all other records are preserved. The email of an id-matched
// record is immutable.
func (d *Directory) Update(ctx context.Context, profile Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	profiles, err := d.Store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}

	for i, existing := range profiles {
		if !existing.SameIdentity(profile) {
			continue
		}
		if existing.Email != profile.Email {
			return ErrEmailImmutable
		}
		profiles[i] = profile
		if err := d.Store.SaveAll(ctx, profiles); err != nil {
			return fmt.Errorf("save profiles: %w", err)
		}
		d.logActivity(ctx, "profile_updated", profile)
		return nil
	}
	return ErrProfileNotFound
}

// Delete removes the single entry the target identifies. Interactive
// confirmation is the caller's concern.
func (d *Directory) Delete(ctx context.Context, target Profile) error {
	profiles, err := d.Store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}

	for i, existing := range profiles {
		if !existing.SameIdentity(target) {
			continue
		}
		removed := existing
		profiles = append(profiles[:i], profiles[i+1:]...)
		if err := d.Store.SaveAll(ctx, profiles); err != nil {
			return fmt.Errorf("save profiles: %w", err)
		}
		d.logActivity(ctx, "profile_deleted", removed)
		return nil
	}
	return ErrProfileNotFound
}

// Audit failure must not roll back an already saved collection.
func (d *Directory) logActivity(ctx context.Context, name string, profile Profile) {
	if d.Activity == nil {
		return
	}
	err := d.Activity.AddEntry(ctx, Activity{Name: name, Data: map[string]interface{}{
		"profile_id": string(profile.Id),
		"email":      profile.Email,
		"name":       profile.Name,
	}})
	if err != nil {
		logrus.WithError(err).WithField("activity", name).Warningln("Could not add activity entry.")
	}
}

// Search filters profiles by case-insensitive substring match over name,
// email, location, description and the raw interests string. An empty
// term yields the input unchanged, in original order.
func Search(profiles []Profile, term string) []Profile {
	if term == "" {
		return profiles
	}
	needle := strings.ToLower(term)
	matched := make([]Profile, 0, len(profiles))
	for _, profile := range profiles {
		if profile.matchesSearch(needle) {
			matched = append(matched, profile)
		}
	}
	return matched
}

func (p Profile) matchesSearch(needle string) bool {
	for _, field := range []string{p.Name, p.Email, p.Location, p.Description, p.Interests} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
