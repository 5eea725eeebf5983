package session

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Claves compartidas por todos los mirrors.
const (
	KeyUserID        = "userId"
	KeyExpiresAt     = "auth_exp"
	KeyAccessToken   = "token"
	KeyRefreshToken  = "refreshToken"
	BackendCookieKey = "connect.sid"
)

// Persistence abstrae un backend clave/valor donde se espeja la sesión.
// Get devuelve found=false cuando la clave no existe o expiró.
type Persistence interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryPersistence es el store acotado a la vida del proceso (equivalente a la pestaña).
type MemoryPersistence struct {
	mu    sync.Mutex
	items map[string]memoryEntry
	now   func() time.Time
}

func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{
		items: make(map[string]memoryEntry),
		now:   time.Now,
	}
}

func (m *MemoryPersistence) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.items[key]
	if !ok {
		return "", false, nil
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		delete(m.items, key)
		return "", false, nil
	}
	return entry.value, true, nil
}

func (m *MemoryPersistence) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if strings.TrimSpace(key) == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.items[key] = entry
	return nil
}

func (m *MemoryPersistence) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}
