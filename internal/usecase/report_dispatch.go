package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"scam-honeypot/internal/domain"
	"scam-honeypot/internal/domain/model"
	"scam-honeypot/internal/domain/ports/adapter"
	"scam-honeypot/internal/infra/metrics"
	"scam-honeypot/internal/infra/worker"
)

// Submitter is the part of the worker pool the dispatcher needs.
type Submitter interface {
	Submit(task worker.Task) error
}

// ReportDispatcher fans a final report out to every configured sink. Delivery
// problems are logged and counted; they never reach the caller.
type ReportDispatcher struct {
	sinks   []adapter.ReportSink
	pool    Submitter
	timeout time.Duration
	log     *zerolog.Logger
}

func NewReportDispatcher(pool Submitter, timeout time.Duration, logger *zerolog.Logger, sinks ...adapter.ReportSink) *ReportDispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &ReportDispatcher{sinks: sinks, pool: pool, timeout: timeout, log: logger}
}

func (d *ReportDispatcher) Sinks() []string {
	names := make([]string, 0, len(d.sinks))
	for _, s := range d.sinks {
		names = append(names, s.Name())
	}
	return names
}

// Dispatch queues one delivery per sink. A nil pool or a saturated queue
// means the delivery runs inline on the caller's goroutine.
func (d *ReportDispatcher) Dispatch(report *model.FinalReport) {
	for _, sink := range d.sinks {
		sink := sink
		task := func(ctx context.Context) error {
			d.deliver(ctx, sink, report)
			return nil
		}
		if d.pool == nil {
			d.deliver(context.Background(), sink, report)
			continue
		}
		if err := d.pool.Submit(task); err != nil {
			d.log.Warn().Err(err).Str("sink", sink.Name()).Str("session_id", report.SessionID).Msg("report queue unavailable, delivering inline")
			d.deliver(context.Background(), sink, report)
		}
	}
}

func (d *ReportDispatcher) deliver(ctx context.Context, sink adapter.ReportSink, report *model.FinalReport) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	err := sink.Deliver(ctx, report)
	switch {
	case err == nil:
		metrics.IncReportDelivery(sink.Name(), "ok")
		d.log.Info().Str("sink", sink.Name()).Str("session_id", report.SessionID).Str("report_id", report.ReportID).Msg("final report delivered")
	case errors.Is(err, domain.ErrAlreadyExists):
		metrics.IncReportDelivery(sink.Name(), "duplicate")
		d.log.Debug().Str("sink", sink.Name()).Str("session_id", report.SessionID).Msg("final report already stored")
	default:
		metrics.IncReportDelivery(sink.Name(), "error")
		d.log.Error().Err(err).Str("sink", sink.Name()).Str("session_id", report.SessionID).Msg("final report delivery failed")
	}
}
