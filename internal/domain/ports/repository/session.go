package repository

import (
	"context"

	"scam-honeypot/internal/domain/model"
)

// -----------------------------
// Honeypot sessions
// -----------------------------

// SessionRepository persists conversation state with expiry. Get returns a
// fresh default session when the key is absent. Errors wrap
// domain.ErrStoreUnavailable when the backend cannot be reached.
type SessionRepository interface {
	Get(ctx context.Context, sessionID string) (*model.Session, error)
	Put(ctx context.Context, sessionID string, session *model.Session) error
}

// SessionLocker serializes turns of one session across processes.
type SessionLocker interface {
	TryLock(ctx context.Context, key string) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}

// ReportRepository archives finalized reports.
type ReportRepository interface {
	Save(ctx context.Context, qx any, report *model.FinalReport) error
	FindBySessionID(ctx context.Context, qx any, sessionID string) (*model.FinalReport, error)
}
