package utils

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type sessionEntry struct {
	values    map[string]string
	expiresAt time.Time
}

// SessionStore keeps small per-session values such as the preferred sort
// order. Redis is preferred; the in-memory map serves single-instance setups
// and Redis outages.
type SessionStore struct {
	rc  *redis.Client
	ttl time.Duration

	mu  sync.Mutex
	mem map[string]sessionEntry
}

func NewSessionStore(rc *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &SessionStore{rc: rc, ttl: ttl, mem: map[string]sessionEntry{}}
}

func sessionKey(sid string) string { return "session:" + sid }

// Set stores value under field for session sid and refreshes its TTL.
func (s *SessionStore) Set(ctx context.Context, sid, field, value string) {
	if sid == "" {
		return
	}
	if s.rc != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		pipe := s.rc.TxPipeline()
		pipe.HSet(ctx, sessionKey(sid), field, value)
		pipe.Expire(ctx, sessionKey(sid), s.ttl)
		_, err := pipe.Exec(ctx)
		if err == nil {
			return
		}
		Sugar.Warnf("session store write failed sid=%s err=%v", sid, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.mem[sid]
	if !ok || time.Now().After(entry.expiresAt) {
		entry = sessionEntry{values: map[string]string{}}
	}
	entry.values[field] = value
	entry.expiresAt = time.Now().Add(s.ttl)
	s.mem[sid] = entry
}

// Get returns the stored value or "" when absent or expired.
func (s *SessionStore) Get(ctx context.Context, sid, field string) string {
	if sid == "" {
		return ""
	}
	if s.rc != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		v, err := s.rc.HGet(ctx, sessionKey(sid), field).Result()
		if err == nil {
			return v
		}
		if err == redis.Nil {
			return s.getLocal(sid, field)
		}
		Sugar.Warnf("session store read failed sid=%s err=%v", sid, err)
	}
	return s.getLocal(sid, field)
}

func (s *SessionStore) getLocal(sid, field string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.mem[sid]
	if !ok {
		return ""
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.mem, sid)
		return ""
	}
	return entry.values[field]
}
