package deck

import (
	"context"
	"time"
)

// Activity describes one audit event emitted by a directory mutation or
// an admin session change.
type Activity struct {
	Name string
	Data map[string]interface{}
}

type ActivityLog struct {
	Id        int64
	CreatedAt time.Time
	Name      string
	Data      map[string]interface{}
}

type ActivityStore interface {
	AddEntry(ctx context.Context, activity Activity) error

	// Recent returns up to "limit" newest entries, newest first.
	Recent(ctx context.Context, limit int) ([]ActivityLog, error)
}
