package utils

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })
	return rc, mr
}

func TestRedisCache(t *testing.T) {
	rc, mr := newTestRedis(t)
	ctx := context.Background()
	cache := NewRedisCache(rc)

	_, ok := cache.GetBytes(ctx, "cache:trending:20")
	assert.False(t, ok)

	cache.SetJSON(ctx, "cache:trending:20", []int{1, 2}, time.Minute)
	cache.SetJSON(ctx, "cache:trending:5", []int{1}, time.Minute)
	cache.SetJSON(ctx, "cache:other", "x", time.Minute)

	b, ok := cache.GetBytes(ctx, "cache:trending:20")
	require.True(t, ok)
	assert.JSONEq(t, "[1,2]", string(b))

	cache.InvalidateByPrefix(ctx, "cache:trending:")
	assert.False(t, mr.Exists("cache:trending:20"))
	assert.False(t, mr.Exists("cache:trending:5"))
	assert.True(t, mr.Exists("cache:other"))
}

func TestRedisCacheWithoutRedis(t *testing.T) {
	ctx := context.Background()
	cache := NewRedisCache(nil)
	cache.SetJSON(ctx, "k", 1, time.Minute)
	_, ok := cache.GetBytes(ctx, "k")
	assert.False(t, ok)
	cache.InvalidateByPrefix(ctx, "k")
}

func TestSessionStore(t *testing.T) {
	rc, mr := newTestRedis(t)
	ctx := context.Background()
	store := NewSessionStore(rc, time.Hour)

	assert.Empty(t, store.Get(ctx, "sid-1", "question_order"))
	store.Set(ctx, "sid-1", "question_order", "recent")
	assert.Equal(t, "recent", store.Get(ctx, "sid-1", "question_order"))
	assert.Empty(t, store.Get(ctx, "sid-2", "question_order"))

	mr.FastForward(2 * time.Hour)
	assert.Empty(t, store.Get(ctx, "sid-1", "question_order"))
}

func TestSessionStoreFallsBackToMemory(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(nil, time.Hour)

	store.Set(ctx, "sid", "question_order", "popular")
	assert.Equal(t, "popular", store.Get(ctx, "sid", "question_order"))
	store.Set(ctx, "", "question_order", "recent")
	assert.Empty(t, store.Get(ctx, "", "question_order"))
}

func TestUniqueStrings(t *testing.T) {
	assert.Equal(t, []string{"go", "sql", "db"}, UniqueStrings([]string{"go", "sql", "go", "db", "sql"}))
	assert.Empty(t, UniqueStrings(nil))
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "secret1"))
	assert.False(t, CheckPassword(hash, "secret2"))
	assert.False(t, CheckPassword("", "secret1"))

	SetPasswordCost(bcrypt.MinCost)
	t.Cleanup(func() { SetPasswordCost(bcrypt.DefaultCost) })
	hash, err = HashPassword("secret1")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	SetPasswordCost(99)
	assert.Equal(t, bcrypt.DefaultCost, currentPasswordCost())

	_, err = HashPassword(strings.Repeat("x", 73))
	assert.Error(t, err)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "<p>hi</p>", Sanitize(`<p onclick="x()">hi</p><script>alert(1)</script>`))
	assert.Equal(t, "bold", SanitizePlain("<b>bold</b>"))
	assert.Equal(t, `What's "Q&A"?`, SanitizePlain(`What's <i>"Q&A"</i>?`))
	assert.Equal(t, "a < b", SanitizePlain("a &lt; b"))
}
