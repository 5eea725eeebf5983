package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
)

// CookiePersistence espeja la sesión como cookies del dominio del backend.
// El mismo jar transporta la cookie connect.sid que emite el backend.
type CookiePersistence struct {
	jar  http.CookieJar
	base *url.URL
	now  func() time.Time
}

func NewCookiePersistence(jar http.CookieJar, baseURL string) (*CookiePersistence, error) {
	if jar == nil {
		return nil, errors.New("cookie jar is nil")
	}
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &CookiePersistence{jar: jar, base: base, now: time.Now}, nil
}

func (c *CookiePersistence) Get(_ context.Context, key string) (string, bool, error) {
	for _, ck := range c.jar.Cookies(c.base) {
		if ck.Name == key {
			return ck.Value, true, nil
		}
	}
	return "", false, nil
}

func (c *CookiePersistence) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if strings.TrimSpace(key) == "" {
		return nil
	}
	ck := &http.Cookie{Name: key, Value: value, Path: "/"}
	if ttl > 0 {
		ck.Expires = c.now().Add(ttl)
		ck.MaxAge = int(ttl / time.Second)
	}
	c.jar.SetCookies(c.base, []*http.Cookie{ck})
	return nil
}

func (c *CookiePersistence) Delete(_ context.Context, key string) error {
	c.jar.SetCookies(c.base, []*http.Cookie{{Name: key, Value: "", Path: "/", MaxAge: -1}})
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", raw)
	}
	return &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}, nil
}

type storedCookie struct {
	Name     string     `json:"name"`
	Value    string     `json:"value"`
	Path     string     `json:"path,omitempty"`
	Expires  *time.Time `json:"expires,omitempty"`
	Secure   bool       `json:"secure,omitempty"`
	HttpOnly bool       `json:"http_only,omitempty"`
}

// Jar es un cookiejar con public suffix list que, si tiene path, guarda en disco
// las cookies del host del backend para que la sesión sobreviva entre invocaciones.
type Jar struct {
	mu      sync.Mutex
	inner   *cookiejar.Jar
	base    *url.URL
	path    string
	cookies map[string]storedCookie
	now     func() time.Time
	logger  *zap.Logger
	metrics MetricsRecorder
}

type JarOption func(*Jar)

func WithJarLogger(logger *zap.Logger) JarOption {
	return func(j *Jar) {
		if logger != nil {
			j.logger = logger
		}
	}
}

// WithJarMetrics cuenta los fallos de guardado como fallos del mirror "cookie_jar".
func WithJarMetrics(m MetricsRecorder) JarOption {
	return func(j *Jar) { j.metrics = m }
}

// NewJar crea el jar. Con path vacío se comporta como un cookiejar en memoria.
func NewJar(baseURL, path string, opts ...JarOption) (*Jar, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	inner, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	j := &Jar{
		inner:   inner,
		base:    base,
		path:    path,
		cookies: make(map[string]storedCookie),
		now:     time.Now,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(j)
	}
	if err := j.load(); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	return j.inner.Cookies(u)
}

func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.inner.SetCookies(u, cookies)
	if j.path == "" || !strings.EqualFold(u.Host, j.base.Host) {
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	now := j.now()
	for _, ck := range cookies {
		if ck == nil || ck.Name == "" {
			continue
		}
		var expires *time.Time
		switch {
		case ck.MaxAge < 0:
			delete(j.cookies, ck.Name)
			continue
		case ck.MaxAge > 0:
			exp := now.Add(time.Duration(ck.MaxAge) * time.Second).UTC()
			expires = &exp
		case !ck.Expires.IsZero():
			if !now.Before(ck.Expires) {
				delete(j.cookies, ck.Name)
				continue
			}
			exp := ck.Expires.UTC()
			expires = &exp
		}
		j.cookies[ck.Name] = storedCookie{
			Name:     ck.Name,
			Value:    ck.Value,
			Path:     ck.Path,
			Expires:  expires,
			Secure:   ck.Secure,
			HttpOnly: ck.HttpOnly,
		}
	}
	// El jar en memoria sigue siendo válido aunque falle el guardado.
	if err := j.save(); err != nil {
		j.logger.Warn("cookie jar save failed", zap.String("path", j.path), zap.Error(err))
		if j.metrics != nil {
			j.metrics.RecordMirrorFailure("cookie_jar", "save")
		}
	}
}

func (j *Jar) load() error {
	if j.path == "" {
		return nil
	}
	raw, err := os.ReadFile(j.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read cookie file: %w", err)
	}
	var stored []storedCookie
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &stored); err != nil {
			return fmt.Errorf("decode cookie file: %w", err)
		}
	}

	now := j.now()
	restore := make([]*http.Cookie, 0, len(stored))
	for _, sc := range stored {
		if sc.Expires != nil && !now.Before(*sc.Expires) {
			continue
		}
		j.cookies[sc.Name] = sc
		ck := &http.Cookie{
			Name:     sc.Name,
			Value:    sc.Value,
			Path:     sc.Path,
			Secure:   sc.Secure,
			HttpOnly: sc.HttpOnly,
		}
		if sc.Expires != nil {
			ck.Expires = *sc.Expires
		}
		restore = append(restore, ck)
	}
	j.inner.SetCookies(j.base, restore)
	return nil
}

func (j *Jar) save() error {
	stored := make([]storedCookie, 0, len(j.cookies))
	for _, sc := range j.cookies {
		stored = append(stored, sc)
	}
	raw, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(j.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(j.path, raw, 0o600)
}
