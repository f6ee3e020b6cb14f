package security

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
)

const nonceKeyPrefix = "router:login-nonce:"

// NonceStore remembers login nonces for as long as their message could still be accepted.
type NonceStore interface {
	// Use marks nonce as spent. It returns false when the nonce was seen before.
	Use(ctx context.Context, nonce string, ttl time.Duration) (bool, error)
}

type RedisNonceStore struct {
	Client redis.UniversalClient
}

func NewRedisNonceStore(redisUri string) (*RedisNonceStore, error) {
	opts, err := redis.ParseURL(redisUri)
	if err != nil {
		return nil, err
	}
	return &RedisNonceStore{Client: redis.NewClient(opts)}, nil
}

func (s *RedisNonceStore) Use(ctx context.Context, nonce string, ttl time.Duration) (bool, error) {
	return s.Client.SetNX(ctx, nonceKeyPrefix+nonce, 1, ttl).Result()
}

// MemoryNonceStore is used when no redis is configured; nonces do not survive restarts.
type MemoryNonceStore struct {
	clock  clockwork.Clock
	mu     sync.Mutex
	nonces map[string]time.Time
}

func NewMemoryNonceStore(clock clockwork.Clock) *MemoryNonceStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryNonceStore{clock: clock, nonces: map[string]time.Time{}}
}

func (s *MemoryNonceStore) Use(ctx context.Context, nonce string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	for key, expiry := range s.nonces {
		if !now.Before(expiry) {
			delete(s.nonces, key)
		}
	}
	if _, seen := s.nonces[nonce]; seen {
		return false, nil
	}
	s.nonces[nonce] = now.Add(ttl)
	return true, nil
}
