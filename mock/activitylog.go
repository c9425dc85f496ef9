package mock

import (
	"context"

	"github.com/peopledeck/deck"
)

type ActivityService struct {
	AddEntryFn func(ctx context.Context, activity deck.Activity) error
	RecentFn   func(ctx context.Context, limit int) ([]deck.ActivityLog, error)
}

func (s ActivityService) AddEntry(ctx context.Context, activity deck.Activity) error {
	return s.AddEntryFn(ctx, activity)
}

func (s ActivityService) Recent(ctx context.Context, limit int) ([]deck.ActivityLog, error) {
	return s.RecentFn(ctx, limit)
}
