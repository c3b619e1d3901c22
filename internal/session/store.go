package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/codelens-edu/codelens-gateway/internal/config"
	"github.com/codelens-edu/codelens-gateway/internal/model"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when no session exists for an ID. A missing or
// malformed entry is indistinguishable from "never logged in" by design.
var ErrNotFound = errors.New("session not found")

// Store persists token/identity pairs across gateway restarts. Only the auth
// service mutates a store; everything else reads through it.
type Store interface {
	// Save persists token and identity together. A later Load never observes
	// one without the other.
	Save(ctx context.Context, sess Session) error
	// Load returns the session for id, or ErrNotFound if it is absent,
	// expired, or unreadable. It does not fail on corrupt entries.
	Load(ctx context.Context, id string) (Session, error)
	// Clear removes the session. Idempotent; clearing an absent session is a no-op.
	Clear(ctx context.Context, id string) error
	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error
}

// RedisStore keeps sessions in Redis under two keys per session: one for the
// bearer token and one for the serialized identity, both carrying the same TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, sess Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	if sess.Token == "" || sess.User == nil {
		return errors.New("session must carry both token and identity")
	}

	userData, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}

	// Both keys are written in one MULTI/EXEC so a concurrent Load never
	// observes a half-written session.
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, config.CacheKey.SessionTokenKey(sess.ID), sess.Token, s.ttl)
		pipe.Set(ctx, config.CacheKey.SessionUserKey(sess.ID), userData, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, id string) (Session, error) {
	if id == "" {
		return Session{}, ErrNotFound
	}

	values, err := s.rdb.MGet(ctx,
		config.CacheKey.SessionTokenKey(id),
		config.CacheKey.SessionUserKey(id),
	).Result()
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}

	token, tokenOK := values[0].(string)
	userData, userOK := values[1].(string)
	if !tokenOK || !userOK || token == "" {
		// Half-expired or missing entries count as no session. Drop any
		// leftover key so the pair stays consistent.
		_ = s.Clear(ctx, id)
		return Session{}, ErrNotFound
	}

	var user model.User
	if err := json.Unmarshal([]byte(userData), &user); err != nil {
		// Corrupt identity entry: treat as no session, never as a failure.
		_ = s.Clear(ctx, id)
		return Session{}, ErrNotFound
	}

	return Session{ID: id, Token: token, User: &user}, nil
}

func (s *RedisStore) Clear(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.rdb.Del(ctx,
		config.CacheKey.SessionTokenKey(id),
		config.CacheKey.SessionUserKey(id),
	).Err()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// MemoryStore is an in-process Store for tests and single-node dev runs.
// Same observable semantics as RedisStore, minus durability.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
}

type memoryEntry struct {
	token string
	user  []byte
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Save(_ context.Context, sess Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	if sess.Token == "" || sess.User == nil {
		return errors.New("session must carry both token and identity")
	}

	userData, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = memoryEntry{token: sess.Token, user: userData}
	return nil
}

func (s *MemoryStore) Load(_ context.Context, id string) (Session, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || entry.token == "" {
		return Session{}, ErrNotFound
	}

	var user model.User
	if err := json.Unmarshal(entry.user, &user); err != nil {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return Session{}, ErrNotFound
	}

	return Session{ID: id, Token: entry.token, User: &user}, nil
}

func (s *MemoryStore) Clear(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// IDs returns the IDs of all stored sessions. Test hook.
func (s *MemoryStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Corrupt overwrites a stored identity with unparseable bytes. Test hook for
// the malformed-persisted-session path.
func (s *MemoryStore) Corrupt(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.sessions[id]; ok {
		entry.user = []byte("{not json")
		s.sessions[id] = entry
	}
}
