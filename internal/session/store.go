package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/qs-lzh/movie-list/internal/cache"
)

var ErrNotFound = errors.New("session not found")

type Store interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

type RedisStore struct {
	cache *cache.RedisCache
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(c *cache.RedisCache) *RedisStore {
	return &RedisStore{cache: c}
}

func (r *RedisStore) Load(ctx context.Context, id string) (*Session, error) {
	s := &Session{}
	if err := r.cache.Get(ctx, cache.MakeSessionKey(id), s); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	s.ID = id
	s.persisted = true
	return s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *Session, ttl time.Duration) error {
	if err := r.cache.Set(ctx, cache.MakeSessionKey(s.ID), s, ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.persisted = true
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.cache.Delete(ctx, cache.MakeSessionKey(id))
}

// memorySweepInterval bounds how often Save scans for expired sessions.
const memorySweepInterval = time.Minute

// MemoryStore keeps sessions in process memory. It is used when no redis
// is configured and in tests.
type MemoryStore struct {
	mu        sync.Mutex
	sessions  map[string]memoryEntry
	now       func() time.Time
	lastSweep time.Time
}

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		now:      time.Now,
	}
}

func (m *MemoryStore) Load(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if m.now().After(entry.expiresAt) {
		delete(m.sessions, id)
		return nil, ErrNotFound
	}

	s := entry.session
	s.Flashes = append([]Flash(nil), entry.session.Flashes...)
	s.persisted = true
	return &s, nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.Sub(m.lastSweep) >= memorySweepInterval {
		for id, entry := range m.sessions {
			if now.After(entry.expiresAt) {
				delete(m.sessions, id)
			}
		}
		m.lastSweep = now
	}

	stored := *s
	stored.Flashes = append([]Flash(nil), s.Flashes...)
	m.sessions[s.ID] = memoryEntry{session: stored, expiresAt: now.Add(ttl)}
	s.persisted = true
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}
