package deck

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubProfileStore struct {
	profiles []Profile
	saveErr  error
	saves    int
}

func (s *stubProfileStore) LoadAll(ctx context.Context) ([]Profile, error) {
	return append([]Profile{}, s.profiles...), nil
}

func (s *stubProfileStore) SaveAll(ctx context.Context, profiles []Profile) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.profiles = append([]Profile{}, profiles...)
	s.saves++
	return nil
}

type stubActivityStore struct {
	entries []Activity
}

func (s *stubActivityStore) AddEntry(ctx context.Context, activity Activity) error {
	s.entries = append(s.entries, activity)
	return nil
}

func (s *stubActivityStore) Recent(ctx context.Context, limit int) ([]ActivityLog, error) {
	return []ActivityLog{}, nil
}

func seededDirectory(profiles ...Profile) (*Directory, *stubProfileStore, *stubActivityStore) {
	store := &stubProfileStore{profiles: profiles}
	activity := &stubActivityStore{}
	return &Directory{Store: store, Activity: activity}, store, activity
}

func TestDirectoryCreate(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	directory, store, activity := seededDirectory()

	profile := validProfile()
	profile.Id = ""
	created, err := directory.Create(ctx, profile)
	if !assert.NoError(err) {
		return
	}
	assert.NotEmpty(created.Id, "create must assign a fresh id")

	loaded, err := directory.All(ctx)
	if !assert.NoError(err) {
		return
	}
	if !assert.Len(loaded, 1) {
		return
	}
	assert.Equal(created, loaded[0])

	// second create keeps the first and yields a different id
	second, err := directory.Create(ctx, profile)
	if !assert.NoError(err) {
		return
	}
	assert.NotEqual(created.Id, second.Id)
	loaded, _ = directory.All(ctx)
	assert.Len(loaded, 2)

	// preset duplicate id is rejected before anything is written
	saves := store.saves
	_, err = directory.Create(ctx, created)
	assert.ErrorIs(err, ErrProfileExists)
	assert.Equal(saves, store.saves)

	// invalid profile never reaches the store
	invalid := validProfile()
	invalid.Name = ""
	_, err = directory.Create(ctx, invalid)
	assert.ErrorIs(err, ErrProfileInvalid)
	assert.Equal(saves, store.saves)

	assert.Equal("profile_created", activity.entries[0].Name)
}

func TestDirectoryCreateSaveFailure(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	store := &stubProfileStore{saveErr: errors.New("quota exceeded")}
	directory := &Directory{Store: store}

	_, err := directory.Create(ctx, validProfile())
	if !assert.Error(err) {
		return
	}
	assert.Contains(err.Error(), "quota exceeded")
}

func TestDirectoryUpdate(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	first := validProfile()
	second := validProfile()
	second.Id, second.Email, second.Name = "2", "b@x.com", "Bob"
	third := validProfile()
	third.Id, third.Email, third.Name = "3", "c@x.com", "Cleo"

	directory, store, activity := seededDirectory(first, second, third)

	updated := second
	updated.Name = "Bobby"
	updated.Location = "Pune, Maharashtra"
	if !assert.NoError(directory.Update(ctx, updated)) {
		return
	}

	// the matched entry is replaced in place, everything else untouched
	assert.Equal([]Profile{first, updated, third}, store.profiles)
	assert.Equal("profile_updated", activity.entries[0].Name)

	// unknown identity
	missing := validProfile()
	missing.Id = "nope"
	assert.ErrorIs(directory.Update(ctx, missing), ErrProfileNotFound)

	// the email of an id-matched record is frozen
	hijack := second
	hijack.Email = "evil@x.com"
	assert.ErrorIs(directory.Update(ctx, hijack), ErrEmailImmutable)
}

func TestDirectoryUpdateLegacyByEmail(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	legacy := validProfile()
	legacy.Id = ""
	modern := validProfile()
	modern.Id, modern.Email = "2", "b@x.com"

	directory, store, _ := seededDirectory(legacy, modern)

	updated := legacy
	updated.Name = "Annie"
	if !assert.NoError(directory.Update(ctx, updated)) {
		return
	}
	assert.Equal([]Profile{updated, modern}, store.profiles)

	// an id-carrying record never matches a legacy one, even on the
	// same email
	ghost := legacy
	ghost.Id = "999"
	assert.ErrorIs(directory.Update(ctx, ghost), ErrProfileNotFound)
}

func TestDirectoryDelete(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	first := validProfile()
	second := validProfile()
	second.Id, second.Email = "2", "b@x.com"
	legacy := validProfile()
	legacy.Id, legacy.Email = "", "old@x.com"

	directory, store, activity := seededDirectory(first, second, legacy)

	if !assert.NoError(directory.Delete(ctx, Profile{Id: "2"})) {
		return
	}
	assert.Equal([]Profile{first, legacy}, store.profiles)
	assert.Equal("profile_deleted", activity.entries[0].Name)

	// legacy records are matched by email when both sides lack an id
	if !assert.NoError(directory.Delete(ctx, Profile{Email: "old@x.com"})) {
		return
	}
	assert.Equal([]Profile{first}, store.profiles)

	assert.ErrorIs(directory.Delete(ctx, Profile{Id: "2"}), ErrProfileNotFound)
}

func TestSearch(t *testing.T) {
	assert := assert.New(t)

	ann := Profile{Id: "1", Name: "Ann", Email: "a@x.com", Location: "Mumbai, Maharashtra",
		Description: "Backend developer", Interests: "Cricket, Chess", Skills: []string{"Go"}}
	bob := Profile{Id: "2", Name: "Bob", Email: "bob@mail.dev", Location: "Delhi, Delhi",
		Description: "Data engineer", Interests: "Photography"}
	cleo := Profile{Id: "3", Name: "Cleo", Email: "c@x.com", Location: "Pune, Maharashtra",
		Description: "Designer", Interests: ""}
	profiles := []Profile{ann, bob, cleo}

	// empty term yields the unfiltered collection in original order
	assert.Equal(profiles, Search(profiles, ""))

	assert.Equal([]Profile{ann}, Search(profiles, "mumbai"))
	assert.Equal([]Profile{}, Search(profiles, "kolkata"))

	// every searched field participates
	assert.Equal([]Profile{bob}, Search(profiles, "MAIL.DEV"))
	assert.Equal([]Profile{bob}, Search(profiles, "data eng"))
	assert.Equal([]Profile{ann}, Search(profiles, "chess"))
	assert.Equal([]Profile{ann, bob, cleo}, Search(profiles, "e"))

	// the source collection is never mutated
	assert.Equal([]Profile{ann, bob, cleo}, profiles)
}
