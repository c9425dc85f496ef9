package mock

import (
	"context"

	"github.com/peopledeck/deck"
)

type SessionService struct {
	RegisterNewFn           func(ctx context.Context, roles deck.Roles, ip string, userAgent string) (deck.Session, error)
	ByTokenFn               func(token string) (deck.Session, error)
	AcquireAndRefreshFn     func(ctx context.Context, token string, ip string, userAgent string) (deck.Session, error)
	InvalidateByAuthTokenFn func(authToken string) error
}

func (s SessionService) RegisterNew(ctx context.Context, roles deck.Roles, ip string, userAgent string) (deck.Session, error) {
	return s.RegisterNewFn(ctx, roles, ip, userAgent)
}

func (s SessionService) ByToken(token string) (deck.Session, error) {
	return s.ByTokenFn(token)
}

func (s SessionService) AcquireAndRefresh(ctx context.Context, token string, ip string, userAgent string) (deck.Session, error) {
	return s.AcquireAndRefreshFn(ctx, token, ip, userAgent)
}

func (s SessionService) InvalidateByAuthToken(authToken string) error {
	return s.InvalidateByAuthTokenFn(authToken)
}
