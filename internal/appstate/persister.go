// internal/appstate/persister.go
package appstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"gemfinder/internal/models"

	"github.com/redis/go-redis/v9"
)

// SessionTTL bounds how long a persisted session survives without a login.
const SessionTTL = 30 * 24 * time.Hour

// Persister stores the container state between process runs.
type Persister interface {
	LoadSession(ctx context.Context) (*models.Session, error)
	SaveSession(ctx context.Context, session *models.Session) error
	LoadWishlist(ctx context.Context) ([]string, error)
	AddWishlist(ctx context.Context, gemID string) error
	RemoveWishlist(ctx context.Context, gemID string) error
	Clear(ctx context.Context) error
}

// ==========================
// In-memory
// ==========================

type MemoryPersister struct {
	mu       sync.Mutex
	session  *models.Session
	wishlist []string
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{}
}

func (m *MemoryPersister) LoadSession(_ context.Context) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, nil
	}
	s := *m.session
	return &s, nil
}

func (m *MemoryPersister) SaveSession(_ context.Context, session *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := *session
	m.session = &s
	return nil
}

func (m *MemoryPersister) LoadWishlist(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.wishlist...), nil
}

func (m *MemoryPersister) AddWishlist(_ context.Context, gemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if indexOf(m.wishlist, gemID) < 0 {
		m.wishlist = append(m.wishlist, gemID)
	}
	return nil
}

func (m *MemoryPersister) RemoveWishlist(_ context.Context, gemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wishlist = without(m.wishlist, gemID)
	return nil
}

func (m *MemoryPersister) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	m.wishlist = nil
	return nil
}

// ==========================
// Redis
// ==========================

// RedisPersister keeps the session as JSON under <prefix>session and the
// wishlist as a sorted set under <prefix>wishlist, scored by insertion time
// so order survives a reload.
type RedisPersister struct {
	client redis.Cmdable
	prefix string
	now    func() time.Time
}

func NewRedisPersister(client redis.Cmdable, prefix string) *RedisPersister {
	return &RedisPersister{client: client, prefix: prefix, now: time.Now}
}

func (r *RedisPersister) sessionKey() string  { return r.prefix + "session" }
func (r *RedisPersister) wishlistKey() string { return r.prefix + "wishlist" }

func (r *RedisPersister) LoadSession(ctx context.Context) (*models.Session, error) {
	raw, err := r.client.Get(ctx, r.sessionKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

func (r *RedisPersister) SaveSession(ctx context.Context, session *models.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := r.client.Set(ctx, r.sessionKey(), raw, SessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *RedisPersister) LoadWishlist(ctx context.Context) ([]string, error) {
	ids, err := r.client.ZRange(ctx, r.wishlistKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load wishlist: %w", err)
	}
	return ids, nil
}

func (r *RedisPersister) AddWishlist(ctx context.Context, gemID string) error {
	member := redis.Z{Score: float64(r.now().UnixNano()), Member: gemID}
	if err := r.client.ZAddNX(ctx, r.wishlistKey(), member).Err(); err != nil {
		return fmt.Errorf("failed to add to wishlist: %w", err)
	}
	return nil
}

func (r *RedisPersister) RemoveWishlist(ctx context.Context, gemID string) error {
	if err := r.client.ZRem(ctx, r.wishlistKey(), gemID).Err(); err != nil {
		return fmt.Errorf("failed to remove from wishlist: %w", err)
	}
	return nil
}

func (r *RedisPersister) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.sessionKey(), r.wishlistKey()).Err(); err != nil {
		return fmt.Errorf("failed to clear state: %w", err)
	}
	return nil
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func without(ids []string, id string) []string {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
