// File: internal/infra/db/postgres/postgres_report_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"scam-honeypot/internal/domain"
	"scam-honeypot/internal/domain/model"
	"scam-honeypot/internal/domain/ports/repository"
)

const uniqueViolation = "23505"

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo archives final reports, one row per session.
type ReportRepo struct {
	pool *pgxpool.Pool
}

func NewReportRepo(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

func (r *ReportRepo) Save(ctx context.Context, qx any, report *model.FinalReport) error {
	const q = `
INSERT INTO honeypot_reports
  (id, session_id, scam_detected, total_messages, intelligence, agent_notes, finalized_at)
VALUES ($1,$2,$3,$4,$5,$6,COALESCE($7,NOW()));`

	intel, err := json.Marshal(report.ExtractedIntelligence)
	if err != nil {
		return fmt.Errorf("encode intelligence: %w", err)
	}
	ex, err := getExecutor(r.pool, qx)
	if err != nil {
		return err
	}
	var finalizedAt any
	if !report.FinalizedAt.IsZero() {
		finalizedAt = report.FinalizedAt
	}
	_, err = ex.Exec(ctx, q,
		report.ReportID, report.SessionID, report.ScamDetected, report.TotalMessagesExchanged,
		intel, report.AgentNotes, finalizedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func (r *ReportRepo) FindBySessionID(ctx context.Context, qx any, sessionID string) (*model.FinalReport, error) {
	const q = `
SELECT id, session_id, scam_detected, total_messages, intelligence, agent_notes, finalized_at
FROM honeypot_reports WHERE session_id=$1;`

	ex, err := getExecutor(r.pool, qx)
	if err != nil {
		return nil, err
	}
	var (
		rep   model.FinalReport
		intel []byte
	)
	err = ex.QueryRow(ctx, q, sessionID).Scan(
		&rep.ReportID, &rep.SessionID, &rep.ScamDetected, &rep.TotalMessagesExchanged,
		&intel, &rep.AgentNotes, &rep.FinalizedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find report: %w", err)
	}
	rep.ExtractedIntelligence = model.NewIntelligence()
	if len(intel) > 0 {
		if err := json.Unmarshal(intel, &rep.ExtractedIntelligence); err != nil {
			return nil, fmt.Errorf("decode intelligence: %w", err)
		}
		rep.ExtractedIntelligence.Normalize()
	}
	return &rep, nil
}
