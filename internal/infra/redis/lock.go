// File: internal/infra/redis/lock.go
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"scam-honeypot/internal/domain"
	"scam-honeypot/internal/domain/ports/repository"
)

var _ repository.SessionLocker = (*RedisLocker)(nil)

// RedisLocker serializes turns of one session across replicas.
type RedisLocker struct {
	cli     RedisClient
	ttl     time.Duration
	wait    time.Duration
	backoff time.Duration
}

func NewLocker(c RedisClient, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 45 * time.Second
	}
	return &RedisLocker{cli: c, ttl: ttl, wait: ttl, backoff: 50 * time.Millisecond}
}

func lockKey(key string) string { return "lock:session:" + key }

// TryLock waits for the current holder for up to the lock TTL or until ctx is
// done, whichever comes first. A holder that crashed is released by the TTL.
// Backend failures return at once wrapped in domain.ErrStoreUnavailable;
// running out of time returns domain.ErrSessionLocked.
func (l *RedisLocker) TryLock(ctx context.Context, key string) (string, error) {
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)
	for {
		ok, err := l.cli.SetNX(ctx, lockKey(key), token, l.ttl)
		if err != nil {
			return "", fmt.Errorf("%w: lock %s: %v", domain.ErrStoreUnavailable, key, err)
		}
		if ok {
			return token, nil
		}
		if !time.Now().Add(l.backoff).Before(deadline) {
			return "", domain.ErrSessionLocked
		}
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", domain.ErrSessionLocked, ctx.Err())
		case <-time.After(l.backoff): // wait before retrying
		}
	}
}

func (l *RedisLocker) Unlock(ctx context.Context, key, token string) error {
	_, err := l.cli.DelIfEquals(ctx, lockKey(key), token)
	return err
}
