package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"scam-honeypot/internal/domain"
	"scam-honeypot/internal/domain/model"
	"scam-honeypot/internal/domain/ports/repository"
	"scam-honeypot/internal/infra/metrics"
)

var _ repository.SessionRepository = (*SessionStore)(nil)

// SessionStore keeps honeypot sessions as JSON under session:<id> with a TTL
// that is refreshed on every write.
type SessionStore struct {
	client RedisClient
	ttl    time.Duration
	log    *zerolog.Logger
}

func NewSessionStore(client RedisClient, ttl time.Duration, logger *zerolog.Logger) *SessionStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &SessionStore{client: client, ttl: ttl, log: logger}
}

func sessionKey(id string) string { return "session:" + id }

// Get loads a session, returning a new default session when the key is absent.
// The default is not written back; the turn's Put persists it.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID))
	if errors.Is(err, Nil) {
		metrics.IncCacheRequest("session", "miss")
		return model.NewSession(sessionID), nil
	}
	if err != nil {
		metrics.IncCacheRequest("session", "error")
		return nil, fmt.Errorf("%w: get %s: %v", domain.ErrStoreUnavailable, sessionID, err)
	}

	var session model.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		metrics.IncCacheRequest("session", "corrupt")
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	metrics.IncCacheRequest("session", "hit")
	if session.ID == "" {
		session.ID = sessionID
	}
	session.Normalize()
	return &session, nil
}

func (s *SessionStore) Put(ctx context.Context, sessionID string, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sessionID, err)
	}
	if err := s.client.Set(ctx, sessionKey(sessionID), data, s.ttl); err != nil {
		return fmt.Errorf("%w: set %s: %v", domain.ErrStoreUnavailable, sessionID, err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKey(sessionID))
}
