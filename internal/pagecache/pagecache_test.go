package pagecache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCovers(t *testing.T) {
	assert.True(t, covers("/en", "/en/"))
	assert.True(t, covers("/en", "/en/company/acme"))
	assert.True(t, covers("/en/company/acme", "/en/company/acme/products?search=tea"))
	assert.True(t, covers("/en/dashboard/", "/en/dashboard?x=1"))
	assert.False(t, covers("/en/company/acme", "/en/company/acme-2"))
	assert.False(t, covers("/en", "/ar/"))
}

func exerciseCache(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()
	body := func(s string) *Entry { return &Entry{Status: 200, ContentType: "application/json", Body: []byte(s)} }

	require.NoError(t, c.Set(ctx, "/en/", body("root")))
	require.NoError(t, c.Set(ctx, "/en/company/acme/products?search=x", body("acme")))
	require.NoError(t, c.Set(ctx, "/en/company/acme-2", body("acme2")))
	require.NoError(t, c.Set(ctx, "/ar/", body("ar-root")))

	e, ok, err := c.Get(ctx, "/en/company/acme/products?search=x")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "acme", string(e.Body))

	require.NoError(t, c.Revalidate(ctx, "/en/company/acme"))

	_, ok, _ = c.Get(ctx, "/en/company/acme/products?search=x")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "/en/company/acme-2")
	assert.True(t, ok)

	require.NoError(t, c.Revalidate(ctx, "/en"))
	_, ok, _ = c.Get(ctx, "/en/")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "/en/company/acme-2")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "/ar/")
	assert.True(t, ok)
}

func TestMemoryCache(t *testing.T) {
	exerciseCache(t, NewMemory(time.Minute))
}

func TestMemoryCacheExpires(t *testing.T) {
	m := NewMemory(time.Minute)
	now := time.Now()
	m.now = func() time.Time { return now }
	require.NoError(t, m.Set(context.Background(), "/en/", &Entry{Status: 200}))

	now = now.Add(2 * time.Minute)
	_, ok, err := m.Get(context.Background(), "/en/")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	exerciseCache(t, NewRedis(client, time.Minute))
}

func TestNewRedisClientPings(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), mr.Addr(), "")
	require.NoError(t, err)
	_ = client.Close()

	_, err = NewRedisClient(context.Background(), "redis://%zz", "")
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	cache := NewMemory(time.Minute)
	calls := 0
	h := Middleware(cache, zap.NewNop().Sugar())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path == "/en/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":"ok"}`))
	}))

	get := func(path string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		return rr
	}

	first := get("/en/")
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	second := get("/en/")
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, `{"data":"ok"}`, second.Body.String())
	assert.Equal(t, "application/json", second.Header().Get("Content-Type"))
	assert.Equal(t, 1, calls)

	get("/en/missing")
	get("/en/missing")
	assert.Equal(t, 3, calls, "non-200 responses are not cached")

	require.NoError(t, cache.Revalidate(context.Background(), "/en"))
	assert.Equal(t, "MISS", get("/en/").Header().Get("X-Cache"))
	assert.Equal(t, 4, calls)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/en/", nil))
	assert.Equal(t, 5, calls)
}
