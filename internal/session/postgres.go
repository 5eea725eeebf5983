package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const sessionKVSchema = `
CREATE TABLE IF NOT EXISTS session_kv (
    profile    TEXT        NOT NULL,
    key        TEXT        NOT NULL,
    value      TEXT        NOT NULL,
    expires_at TIMESTAMPTZ NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (profile, key)
)`

type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresPersistence guarda los mirrors durables en la tabla session_kv.
type PostgresPersistence struct {
	db      pgQuerier
	profile string
	now     func() time.Time
}

func NewPostgresPersistence(db pgQuerier, profile string) *PostgresPersistence {
	profile = strings.TrimSpace(profile)
	if profile == "" {
		profile = "default"
	}
	return &PostgresPersistence{db: db, profile: profile, now: time.Now}
}

// EnsureSchema crea la tabla si no existe.
func (p *PostgresPersistence) EnsureSchema(ctx context.Context) error {
	_, err := p.db.Exec(ctx, sessionKVSchema)
	return err
}

func (p *PostgresPersistence) Get(ctx context.Context, key string) (string, bool, error) {
	const query = `
        SELECT value FROM session_kv
        WHERE profile = $1 AND key = $2 AND (expires_at IS NULL OR expires_at > $3)`

	var value string
	err := p.db.QueryRow(ctx, query, p.profile, key, p.now().UTC()).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (p *PostgresPersistence) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	const query = `
        INSERT INTO session_kv (profile, key, value, expires_at, updated_at)
        VALUES ($1, $2, $3, $4, NOW())
        ON CONFLICT (profile, key)
        DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at, updated_at = NOW()`

	if strings.TrimSpace(key) == "" {
		return nil
	}
	var expiresAt *time.Time
	if ttl > 0 {
		exp := p.now().Add(ttl).UTC()
		expiresAt = &exp
	}
	_, err := p.db.Exec(ctx, query, p.profile, key, value, expiresAt)
	return err
}

func (p *PostgresPersistence) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM session_kv WHERE profile = $1 AND key = $2`
	_, err := p.db.Exec(ctx, query, p.profile, key)
	return err
}
