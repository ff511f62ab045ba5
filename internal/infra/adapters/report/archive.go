package report

import (
	"context"

	"scam-honeypot/internal/domain/model"
	"scam-honeypot/internal/domain/ports/adapter"
	"scam-honeypot/internal/domain/ports/repository"
)

var _ adapter.ReportSink = (*ArchiveSink)(nil)

// ArchiveSink stores final reports through a ReportRepository. A repeated
// report for the same session surfaces as domain.ErrAlreadyExists.
type ArchiveSink struct {
	repo repository.ReportRepository
}

func NewArchiveSink(repo repository.ReportRepository) *ArchiveSink {
	return &ArchiveSink{repo: repo}
}

func (s *ArchiveSink) Name() string { return "postgres" }

func (s *ArchiveSink) Deliver(ctx context.Context, r *model.FinalReport) error {
	return s.repo.Save(ctx, nil, r)
}
