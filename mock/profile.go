package mock

import (
	"context"

	"github.com/peopledeck/deck"
)

type ProfileService struct {
	LoadAllFn func(ctx context.Context) ([]deck.Profile, error)
	SaveAllFn func(ctx context.Context, profiles []deck.Profile) error
}

func (s ProfileService) LoadAll(ctx context.Context) ([]deck.Profile, error) {
	return s.LoadAllFn(ctx)
}

func (s ProfileService) SaveAll(ctx context.Context, profiles []deck.Profile) error {
	return s.SaveAllFn(ctx, profiles)
}
