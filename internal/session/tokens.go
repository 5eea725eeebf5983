package session

import (
	"context"
	"errors"
	"time"
)

// TokenStore guarda el bearer y el refresh token en el store durable.
type TokenStore struct {
	p   Persistence
	ttl time.Duration
}

func NewTokenStore(p Persistence, ttl time.Duration) *TokenStore {
	return &TokenStore{p: p, ttl: ttl}
}

func (t *TokenStore) AccessToken(ctx context.Context) string {
	return t.get(ctx, KeyAccessToken)
}

func (t *TokenStore) RefreshToken(ctx context.Context) string {
	return t.get(ctx, KeyRefreshToken)
}

func (t *TokenStore) SetAccessToken(ctx context.Context, token string) error {
	if t == nil || t.p == nil {
		return nil
	}
	return t.p.Set(ctx, KeyAccessToken, token, t.ttl)
}

// SetTokens guarda ambos tokens; un refresh vacío conserva el anterior.
func (t *TokenStore) SetTokens(ctx context.Context, access, refresh string) error {
	if t == nil || t.p == nil {
		return nil
	}
	if access != "" {
		if err := t.p.Set(ctx, KeyAccessToken, access, t.ttl); err != nil {
			return err
		}
	}
	if refresh != "" {
		if err := t.p.Set(ctx, KeyRefreshToken, refresh, t.ttl); err != nil {
			return err
		}
	}
	return nil
}

func (t *TokenStore) ClearTokens(ctx context.Context) error {
	if t == nil || t.p == nil {
		return nil
	}
	return errors.Join(
		t.p.Delete(ctx, KeyAccessToken),
		t.p.Delete(ctx, KeyRefreshToken),
	)
}

func (t *TokenStore) get(ctx context.Context, key string) string {
	if t == nil || t.p == nil {
		return ""
	}
	v, found, err := t.p.Get(ctx, key)
	if err != nil || !found {
		return ""
	}
	return v
}
