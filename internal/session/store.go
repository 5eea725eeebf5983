package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"tutorlink/internal/domain"
)

const (
	// DefaultTTL es la ventana absoluta de la sesión. No se extiende con el uso.
	DefaultTTL     = 24 * time.Hour
	cookieLifetime = 24 * time.Hour
)

var (
	ErrNoSession      = errors.New("no stored session")
	ErrSessionExpired = errors.New("session expired")
	ErrLogoutFailed   = errors.New("logout failed")
)

// Backend es lo mínimo que el Store necesita del API.
type Backend interface {
	GetUser(ctx context.Context, id string) (*domain.Identity, error)
	Logout(ctx context.Context) error
}

// MetricsRecorder recibe los fallos de escritura de los mirrors.
type MetricsRecorder interface {
	RecordMirrorFailure(mirror, op string)
}

// Mirrors agrupa los tres backends donde se replica el id de sesión. Un mirror nil se omite.
type Mirrors struct {
	Durable Persistence
	Tab     Persistence
	Cookie  Persistence
}

type Option func(*Store)

func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogoutHook registra la acción a ejecutar tras un logout exitoso (p.ej. volver al login).
func WithLogoutHook(fn func()) Option {
	return func(s *Store) { s.onLogout = fn }
}

func WithMetrics(m MetricsRecorder) Option {
	return func(s *Store) { s.metrics = m }
}

// Store es la única fuente de verdad sobre quién está autenticado.
type Store struct {
	mirrors  Mirrors
	backend  Backend
	logger   *zap.Logger
	metrics  MetricsRecorder
	ttl      time.Duration
	now      func() time.Time
	onLogout func()

	// writeMu serializa Set/clear/Restore para que las escrituras a mirrors no se intercalen.
	writeMu sync.Mutex

	mu        sync.RWMutex
	identity  *domain.Identity
	expiresAt time.Time
}

func NewStore(mirrors Mirrors, backend Backend, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		mirrors: mirrors,
		backend: backend,
		logger:  logger,
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get devuelve una copia de la identidad actual, o nil si no hay sesión o expiró.
func (s *Store) Get() *domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil || !s.now().Before(s.expiresAt) {
		return nil
	}
	return s.identity.Clone()
}

func (s *Store) Active() bool {
	return s.Get() != nil
}

func (s *Store) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return time.Time{}
	}
	return s.expiresAt
}

// Set adopta la identidad (o limpia la sesión si es nil). La memoria se actualiza
// antes de intentar los mirrors; cada escritura es independiente de las demás.
func (s *Store) Set(ctx context.Context, identity *domain.Identity) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if identity == nil {
		s.clear(ctx)
		return
	}

	expiresAt := s.now().Add(s.ttl)
	s.mu.Lock()
	s.identity = identity.Clone()
	s.expiresAt = expiresAt
	s.mu.Unlock()

	id := identity.ID
	s.write(ctx, "durable", s.mirrors.Durable, KeyUserID, id, s.ttl)
	s.write(ctx, "tab", s.mirrors.Tab, KeyUserID, id, s.ttl)
	s.write(ctx, "cookie", s.mirrors.Cookie, KeyUserID, id, cookieLifetime)
	s.write(ctx, "durable", s.mirrors.Durable, KeyExpiresAt, strconv.FormatInt(expiresAt.UnixMilli(), 10), s.ttl)

	s.logger.Debug("session set",
		zap.String("user_id", id),
		zap.String("role", string(identity.Role)),
		zap.Time("expires_at", expiresAt),
	)
}

// Restore reconstruye la sesión al arrancar el proceso. Ante cualquier duda limpia todo
// y devuelve el motivo; nil significa que la sesión quedó activa.
func (s *Store) Restore(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	id := s.readUserID(ctx)
	if id == "" {
		s.clear(ctx)
		return ErrNoSession
	}

	expiresAt, ok := s.readExpiry(ctx)
	if !ok || !s.now().Before(expiresAt) {
		s.clear(ctx)
		return ErrSessionExpired
	}

	if s.backend == nil {
		s.clear(ctx)
		return fmt.Errorf("restore session: %w", errors.New("no backend configured"))
	}
	identity, err := s.backend.GetUser(ctx, id)
	if err != nil {
		s.logger.Warn("session restore lookup failed", zap.String("user_id", id), zap.Error(err))
		s.clear(ctx)
		return fmt.Errorf("restore session: %w", err)
	}
	if identity == nil {
		s.clear(ctx)
		return fmt.Errorf("restore session: %w", errors.New("empty user"))
	}

	s.mu.Lock()
	s.identity = identity.Clone()
	s.expiresAt = expiresAt
	s.mu.Unlock()

	s.logger.Info("session restored", zap.String("user_id", identity.ID), zap.Time("expires_at", expiresAt))
	return nil
}

// Logout cierra la sesión en el backend. Si el backend falla el estado local no cambia.
func (s *Store) Logout(ctx context.Context) error {
	if s.backend == nil {
		return fmt.Errorf("%w: no backend configured", ErrLogoutFailed)
	}
	if err := s.backend.Logout(ctx); err != nil {
		s.logger.Error("logout failed", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrLogoutFailed, err)
	}

	s.writeMu.Lock()
	s.clear(ctx)
	s.writeMu.Unlock()

	if s.onLogout != nil {
		s.onLogout()
	}
	return nil
}

// clear asume writeMu tomado.
func (s *Store) clear(ctx context.Context) {
	s.mu.Lock()
	s.identity = nil
	s.expiresAt = time.Time{}
	s.mu.Unlock()

	s.remove(ctx, "durable", s.mirrors.Durable, KeyUserID)
	s.remove(ctx, "durable", s.mirrors.Durable, KeyExpiresAt)
	s.remove(ctx, "tab", s.mirrors.Tab, KeyUserID)
	s.remove(ctx, "cookie", s.mirrors.Cookie, KeyUserID)
	s.remove(ctx, "cookie", s.mirrors.Cookie, BackendCookieKey)
}

func (s *Store) readUserID(ctx context.Context) string {
	sources := []struct {
		name string
		p    Persistence
	}{
		{"durable", s.mirrors.Durable},
		{"tab", s.mirrors.Tab},
		{"cookie", s.mirrors.Cookie},
	}
	for _, src := range sources {
		if src.p == nil {
			continue
		}
		v, found, err := src.p.Get(ctx, KeyUserID)
		if err != nil {
			s.logger.Warn("session mirror read failed", zap.String("mirror", src.name), zap.Error(err))
			continue
		}
		if found && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// readExpiry solo consulta el store durable. Un valor ausente o ilegible cuenta como expirado.
func (s *Store) readExpiry(ctx context.Context) (time.Time, bool) {
	if s.mirrors.Durable == nil {
		return time.Time{}, false
	}
	raw, found, err := s.mirrors.Durable.Get(ctx, KeyExpiresAt)
	if err != nil {
		s.logger.Warn("session marker read failed", zap.Error(err))
		return time.Time{}, false
	}
	if !found {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

func (s *Store) write(ctx context.Context, name string, p Persistence, key, value string, ttl time.Duration) {
	if p == nil {
		return
	}
	if err := p.Set(ctx, key, value, ttl); err != nil {
		s.logger.Warn("session mirror write failed", zap.String("mirror", name), zap.String("key", key), zap.Error(err))
		if s.metrics != nil {
			s.metrics.RecordMirrorFailure(name, "set")
		}
	}
}

func (s *Store) remove(ctx context.Context, name string, p Persistence, key string) {
	if p == nil {
		return
	}
	if err := p.Delete(ctx, key); err != nil {
		s.logger.Warn("session mirror delete failed", zap.String("mirror", name), zap.String("key", key), zap.Error(err))
		if s.metrics != nil {
			s.metrics.RecordMirrorFailure(name, "delete")
		}
	}
}
