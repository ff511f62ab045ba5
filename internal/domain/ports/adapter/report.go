package adapter

import (
	"context"

	"scam-honeypot/internal/domain/model"
)

// ReportSink delivers a finalized session report somewhere outside the service.
type ReportSink interface {
	Name() string
	Deliver(ctx context.Context, report *model.FinalReport) error
}
