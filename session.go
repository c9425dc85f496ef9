package deck

import (
	"context"
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is one admin-mode grant. It only lives for its TTL and dies
// with the server process, so elevated mode resets on reload.
type Session struct {
	Id             string
	Token          string
	Roles          Roles
	Ip             string
	UserAgent      string
	LastAccessedAt time.Time
	ExpiresAt      time.Time
}

type SessionStore interface {
	RegisterNew(ctx context.Context, roles Roles, ip string, userAgent string) (Session, error)

	ByToken(token string) (Session, error)

	AcquireAndRefresh(ctx context.Context, token string, ip string, userAgent string) (Session, error)

	InvalidateByAuthToken(authToken string) error
}
