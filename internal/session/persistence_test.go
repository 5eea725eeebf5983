package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
)

func TestMemoryPersistenceTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemoryPersistence()
	m.now = func() time.Time { return now }

	if err := m.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, found, _ := m.Get(ctx, "k"); !found || v != "v" {
		t.Fatalf("expected value before ttl, got %q %v", v, found)
	}
	now = now.Add(time.Minute)
	if _, found, _ := m.Get(ctx, "k"); found {
		t.Fatalf("expected value to expire")
	}
	if err := m.Set(ctx, "  ", "v", 0); err != nil {
		t.Fatalf("blank key should be ignored, got %v", err)
	}
}

func TestFilePersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	f := NewFilePersistence(path)

	if _, found, err := f.Get(ctx, KeyUserID); err != nil || found {
		t.Fatalf("expected missing file to read as empty, got found=%v err=%v", found, err)
	}
	if err := f.Set(ctx, KeyUserID, "u-1", 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	reopened := NewFilePersistence(path)
	if v, found, err := reopened.Get(ctx, KeyUserID); err != nil || !found || v != "u-1" {
		t.Fatalf("expected value to survive reopen, got %q %v %v", v, found, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600 permissions, got %v", info.Mode().Perm())
	}

	if err := reopened.Delete(ctx, KeyUserID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found, _ := f.Get(ctx, KeyUserID); found {
		t.Fatalf("expected key deleted")
	}
}

func TestFilePersistenceExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewFilePersistence(filepath.Join(t.TempDir(), "session.json"))
	f.now = func() time.Time { return now }

	if err := f.Set(ctx, "k", "v", time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	now = now.Add(2 * time.Hour)
	if _, found, _ := f.Get(ctx, "k"); found {
		t.Fatalf("expected expired entry")
	}
}

func TestFilePersistenceCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	f := NewFilePersistence(path)
	if _, _, err := f.Get(context.Background(), "k"); err == nil {
		t.Fatalf("expected decode error")
	}
}

type mockRedisKV struct {
	data    map[string]string
	ttls    map[string]time.Duration
	err     error
	deleted []string
}

func newMockRedisKV() *mockRedisKV {
	return &mockRedisKV{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *mockRedisKV) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	v, ok := m.data[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(v)
	return cmd
}

func (m *mockRedisKV) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	m.data[key] = value.(string)
	m.ttls[key] = expiration
	cmd.SetVal("OK")
	return cmd
}

func (m *mockRedisKV) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	for _, k := range keys {
		delete(m.data, k)
		m.deleted = append(m.deleted, k)
	}
	cmd.SetVal(int64(len(keys)))
	return cmd
}

func TestRedisPersistence(t *testing.T) {
	ctx := context.Background()

	t.Run("nil client", func(t *testing.T) {
		if NewRedisPersistence(nil, "default") != nil {
			t.Fatalf("expected nil persistence for nil client")
		}
	})

	t.Run("prefixed keys and ttl", func(t *testing.T) {
		mock := newMockRedisKV()
		p := newRedisPersistence(mock, " work ")
		if err := p.Set(ctx, KeyUserID, "u-1", time.Hour); err != nil {
			t.Fatalf("set: %v", err)
		}
		if mock.data["tutorlink:session:work:userId"] != "u-1" {
			t.Fatalf("unexpected redis data: %+v", mock.data)
		}
		if mock.ttls["tutorlink:session:work:userId"] != time.Hour {
			t.Fatalf("expected ttl forwarded, got %v", mock.ttls)
		}
		v, found, err := p.Get(ctx, KeyUserID)
		if err != nil || !found || v != "u-1" {
			t.Fatalf("unexpected get: %q %v %v", v, found, err)
		}
		if err := p.Delete(ctx, KeyUserID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, found, _ := p.Get(ctx, KeyUserID); found {
			t.Fatalf("expected key deleted")
		}
	})

	t.Run("empty profile uses default", func(t *testing.T) {
		p := newRedisPersistence(newMockRedisKV(), "")
		if p.prefix != "tutorlink:session:default:" {
			t.Fatalf("unexpected prefix %q", p.prefix)
		}
	})

	t.Run("redis error surfaces", func(t *testing.T) {
		mock := newMockRedisKV()
		mock.err = errors.New("redis down")
		p := newRedisPersistence(mock, "default")
		if _, _, err := p.Get(ctx, KeyUserID); err == nil {
			t.Fatalf("expected error from Get")
		}
		if err := p.Set(ctx, KeyUserID, "u-1", 0); err == nil {
			t.Fatalf("expected error from Set")
		}
	})
}

type fakeRow struct {
	value string
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*string)) = r.value
	return nil
}

type mockQuerier struct {
	execSQL  []string
	execArgs [][]any
	row      fakeRow
	queryArg []any
	execErr  error
}

func (m *mockQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.execSQL = append(m.execSQL, sql)
	m.execArgs = append(m.execArgs, args)
	if m.execErr != nil {
		return pgconn.CommandTag{}, m.execErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (m *mockQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	m.queryArg = args
	return m.row
}

func TestPostgresPersistence(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("schema", func(t *testing.T) {
		q := &mockQuerier{}
		p := NewPostgresPersistence(q, "default")
		if err := p.EnsureSchema(ctx); err != nil {
			t.Fatalf("ensure schema: %v", err)
		}
		if len(q.execSQL) != 1 || !strings.Contains(q.execSQL[0], "CREATE TABLE IF NOT EXISTS session_kv") {
			t.Fatalf("unexpected schema sql: %+v", q.execSQL)
		}
	})

	t.Run("set computes expiry", func(t *testing.T) {
		q := &mockQuerier{}
		p := NewPostgresPersistence(q, "work")
		p.now = func() time.Time { return now }
		if err := p.Set(ctx, KeyUserID, "u-1", time.Hour); err != nil {
			t.Fatalf("set: %v", err)
		}
		args := q.execArgs[0]
		if args[0] != "work" || args[1] != KeyUserID || args[2] != "u-1" {
			t.Fatalf("unexpected args: %+v", args)
		}
		exp, ok := args[3].(*time.Time)
		if !ok || exp == nil || !exp.Equal(now.Add(time.Hour)) {
			t.Fatalf("expected expiry now+1h, got %+v", args[3])
		}
	})

	t.Run("set without ttl stores null expiry", func(t *testing.T) {
		q := &mockQuerier{}
		p := NewPostgresPersistence(q, "work")
		if err := p.Set(ctx, KeyUserID, "u-1", 0); err != nil {
			t.Fatalf("set: %v", err)
		}
		if exp, _ := q.execArgs[0][3].(*time.Time); exp != nil {
			t.Fatalf("expected nil expiry, got %v", exp)
		}
	})

	t.Run("get found", func(t *testing.T) {
		q := &mockQuerier{row: fakeRow{value: "u-1"}}
		p := NewPostgresPersistence(q, "")
		p.now = func() time.Time { return now }
		v, found, err := p.Get(ctx, KeyUserID)
		if err != nil || !found || v != "u-1" {
			t.Fatalf("unexpected get: %q %v %v", v, found, err)
		}
		if q.queryArg[0] != "default" || q.queryArg[1] != KeyUserID {
			t.Fatalf("unexpected query args: %+v", q.queryArg)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		p := NewPostgresPersistence(&mockQuerier{row: fakeRow{err: pgx.ErrNoRows}}, "default")
		if _, found, err := p.Get(ctx, KeyUserID); err != nil || found {
			t.Fatalf("expected not found without error, got %v %v", found, err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		q := &mockQuerier{}
		p := NewPostgresPersistence(q, "default")
		if err := p.Delete(ctx, KeyUserID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if !strings.HasPrefix(q.execSQL[0], "DELETE FROM session_kv") {
			t.Fatalf("unexpected sql: %s", q.execSQL[0])
		}
	})
}

func TestCookiePersistence(t *testing.T) {
	ctx := context.Background()
	jar, err := NewJar("http://api.example.com/api", "")
	if err != nil {
		t.Fatalf("new jar: %v", err)
	}
	p, err := NewCookiePersistence(jar, "http://api.example.com/api")
	if err != nil {
		t.Fatalf("new cookie persistence: %v", err)
	}

	if err := p.Set(ctx, KeyUserID, "u-1", 24*time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, found, _ := p.Get(ctx, KeyUserID); !found || v != "u-1" {
		t.Fatalf("expected cookie value, got %q %v", v, found)
	}

	u, _ := url.Parse("http://api.example.com/api/tutor/all")
	var sent bool
	for _, ck := range jar.Cookies(u) {
		if ck.Name == KeyUserID {
			sent = true
		}
	}
	if !sent {
		t.Fatalf("expected cookie to be sent to api paths")
	}

	if err := p.Delete(ctx, KeyUserID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found, _ := p.Get(ctx, KeyUserID); found {
		t.Fatalf("expected cookie removed")
	}

	if _, err := NewCookiePersistence(jar, "not a url"); err == nil {
		t.Fatalf("expected error for relative base url")
	}
	if _, err := NewCookiePersistence(nil, "http://api.example.com"); err == nil {
		t.Fatalf("expected error for nil jar")
	}
}

func TestJarPersistsBackendCookies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: BackendCookieKey, Value: "s:abc", Path: "/", HttpOnly: true})
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "cookies.json")
	jar, err := NewJar(srv.URL, path)
	if err != nil {
		t.Fatalf("new jar: %v", err)
	}
	client := &http.Client{Jar: jar}
	resp, err := client.Get(srv.URL + "/auth/login")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()

	reloaded, err := NewJar(srv.URL, path)
	if err != nil {
		t.Fatalf("reload jar: %v", err)
	}
	p, err := NewCookiePersistence(reloaded, srv.URL)
	if err != nil {
		t.Fatalf("cookie persistence: %v", err)
	}
	if v, found, _ := p.Get(context.Background(), BackendCookieKey); !found || v != "s:abc" {
		t.Fatalf("expected backend cookie to survive reload, got %q %v", v, found)
	}

	if err := p.Delete(context.Background(), BackendCookieKey); err != nil {
		t.Fatalf("delete: %v", err)
	}
	again, err := NewJar(srv.URL, path)
	if err != nil {
		t.Fatalf("reload jar: %v", err)
	}
	p2, _ := NewCookiePersistence(again, srv.URL)
	if _, found, _ := p2.Get(context.Background(), BackendCookieKey); found {
		t.Fatalf("expected deleted cookie to stay deleted on disk")
	}
}

func TestJarSaveFailureIsRecorded(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "profile")
	metrics := &fakeMetrics{}
	jar, err := NewJar("http://api.example.com", filepath.Join(blocker, "cookies.json"), WithJarMetrics(metrics))
	if err != nil {
		t.Fatalf("new jar: %v", err)
	}
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	u, _ := url.Parse("http://api.example.com/auth/login")
	jar.SetCookies(u, []*http.Cookie{{Name: BackendCookieKey, Value: "s:abc", Path: "/"}})

	if metrics.failures["cookie_jar:save"] != 1 {
		t.Fatalf("expected save failure to be recorded, got %v", metrics.failures)
	}
	if got := jar.Cookies(u); len(got) != 1 || got[0].Value != "s:abc" {
		t.Fatalf("expected in-memory cookie to survive failed save, got %v", got)
	}
}
