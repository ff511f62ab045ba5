// File: internal/usecase/honeypot_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"scam-honeypot/internal/agent"
	"scam-honeypot/internal/domain"
	"scam-honeypot/internal/domain/model"
	"scam-honeypot/internal/domain/ports/repository"
	"scam-honeypot/internal/infra/logging"
	"scam-honeypot/internal/infra/metrics"
)

// Compile-time check
var _ HoneypotUseCase = (*honeypotUC)(nil)

type HoneypotUseCase interface {
	HandleMessage(ctx context.Context, in Inbound) (agent.TurnResult, error)
	GetSession(ctx context.Context, sessionID string) (*model.Session, error)
}

// Engine runs turns over a session; *agent.Agent implements it.
type Engine interface {
	Step(ctx context.Context, s *model.Session, incoming string) agent.TurnResult
	Observe(s *model.Session, sender model.Sender, text string)
}

// Inbound is one message from the counterparty plus whatever history the
// caller already holds for the conversation.
type Inbound struct {
	SessionID string
	Sender    model.Sender
	Text      string
	History   []model.Message
}

type honeypotUC struct {
	sessions repository.SessionRepository
	locker   repository.SessionLocker // optional
	engine   Engine
	reports  *ReportDispatcher
	local    *keyedMutex
	log      *zerolog.Logger
}

func NewHoneypotUseCase(sessions repository.SessionRepository, locker repository.SessionLocker, engine Engine, reports *ReportDispatcher, logger *zerolog.Logger) *honeypotUC {
	if logger == nil {
		logger = logging.Nop()
	}
	return &honeypotUC{
		sessions: sessions,
		locker:   locker,
		engine:   engine,
		reports:  reports,
		local:    newKeyedMutex(),
		log:      logger,
	}
}

// HandleMessage runs one turn. The only error it returns is
// domain.ErrInvalidArgument; everything else degrades inside the turn.
func (uc *honeypotUC) HandleMessage(ctx context.Context, in Inbound) (agent.TurnResult, error) {
	in.SessionID = strings.TrimSpace(in.SessionID)
	if in.SessionID == "" {
		return agent.TurnResult{}, fmt.Errorf("%w: sessionId is required", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(in.Text) == "" {
		return agent.TurnResult{}, fmt.Errorf("%w: message text is required", domain.ErrInvalidArgument)
	}

	ctx = logging.WithSessID(ctx, in.SessionID)
	log := logging.With(ctx, uc.log)
	defer logging.TraceDuration(log, "HoneypotUC.HandleMessage")()

	unlock := uc.local.Lock(in.SessionID)
	defer unlock()
	if uc.locker != nil {
		token, err := uc.locker.TryLock(ctx, in.SessionID)
		switch {
		case errors.Is(err, domain.ErrStoreUnavailable):
			log.Warn().Err(err).Msg("distributed session lock unavailable, continuing on local lock")
		case err != nil:
			// another replica still holds the turn; answer without touching state
			log.Warn().Err(err).Msg("session busy on another replica, serving stall reply")
			return agent.StallResult(), nil
		default:
			defer func() {
				if err := uc.locker.Unlock(context.Background(), in.SessionID, token); err != nil {
					log.Warn().Err(err).Msg("session unlock failed")
				}
			}()
		}
	}

	session := uc.load(ctx, log, in.SessionID)
	if len(session.Messages) == 0 && len(in.History) > 0 {
		uc.replay(session, in.History)
		log.Debug().Int("messages", len(in.History)).Msg("conversation history replayed")
	}

	res := uc.engine.Step(ctx, session, in.Text)
	if res.Recovered {
		// state may be half-updated; keep the last good copy in the store
		return res, nil
	}
	uc.save(ctx, log, session)

	if res.ShouldFinalize && !session.Finalized {
		uc.finalize(ctx, log, session, res.Notes)
	}
	return res, nil
}

func (uc *honeypotUC) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("%w: sessionId is required", domain.ErrInvalidArgument)
	}
	s, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(s.Messages) == 0 {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (uc *honeypotUC) load(ctx context.Context, log *zerolog.Logger, id string) *model.Session {
	s, err := uc.sessions.Get(ctx, id)
	if err != nil || s == nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			log.Warn().Err(err).Msg("session store unavailable, using transient session")
		} else {
			log.Warn().Err(err).Msg("session load failed, using transient session")
		}
		return model.NewSession(id)
	}
	return s
}

func (uc *honeypotUC) save(ctx context.Context, log *zerolog.Logger, s *model.Session) {
	if err := uc.sessions.Put(ctx, s.ID, s); err != nil {
		log.Warn().Err(err).Msg("session save failed")
	}
}

func (uc *honeypotUC) replay(s *model.Session, history []model.Message) {
	for _, m := range history {
		if strings.TrimSpace(m.Text) == "" {
			continue
		}
		uc.engine.Observe(s, m.Sender, m.Text)
		if !m.Timestamp.IsZero() && len(s.Messages) > 0 {
			s.Messages[len(s.Messages)-1].Timestamp = m.Timestamp
		}
	}
}

// finalize marks the session before any delivery is attempted, so a report is
// sent at most once even when every sink fails.
func (uc *honeypotUC) finalize(ctx context.Context, log *zerolog.Logger, s *model.Session, notes string) {
	s.Finalized = true
	uc.save(ctx, log, s)
	metrics.IncFinalized()

	report := model.NewFinalReport(s, notes)
	log.Info().
		Str("report_id", report.ReportID).
		Bool("scam_detected", report.ScamDetected).
		Int("messages", report.TotalMessagesExchanged).
		Int("evidence", s.Intelligence.EvidenceCount()).
		Msg("session finalized")

	if uc.reports != nil {
		uc.reports.Dispatch(report)
	}
}
