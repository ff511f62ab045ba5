package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"scam-honeypot/internal/domain/model"
	"scam-honeypot/internal/domain/ports/repository"
	"scam-honeypot/internal/infra/metrics"
	red "scam-honeypot/internal/infra/redis"
)

var _ repository.ReportRepository = (*reportRepoCacheDecorator)(nil)

type reportRepoCacheDecorator struct {
	inner repository.ReportRepository
	cache red.RedisClient
	ttl   time.Duration
}

// cachedReport carries the fields the wire format hides.
type cachedReport struct {
	ReportID    string             `json:"report_id"`
	FinalizedAt time.Time          `json:"finalized_at"`
	Report      *model.FinalReport `json:"report"`
}

func NewReportRepoCacheDecorator(inner repository.ReportRepository, cache red.RedisClient) repository.ReportRepository {
	return &reportRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   1 * time.Hour,
	}
}

func reportKey(sessionID string) string { return fmt.Sprintf("report:%s", sessionID) }

func (d *reportRepoCacheDecorator) FindBySessionID(ctx context.Context, tx repository.Tx, sessionID string) (*model.FinalReport, error) {
	key := reportKey(sessionID)
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		var c cachedReport
		if json.Unmarshal([]byte(val), &c) == nil && c.Report != nil {
			metrics.IncCacheRequest("report", "hit")
			c.Report.ReportID = c.ReportID
			c.Report.FinalizedAt = c.FinalizedAt
			return c.Report, nil
		}
	}

	metrics.IncCacheRequest("report", "miss")
	rep, err := d.inner.FindBySessionID(ctx, tx, sessionID)
	if err != nil {
		return nil, err
	}
	if rep != nil {
		bytes, _ := json.Marshal(cachedReport{ReportID: rep.ReportID, FinalizedAt: rep.FinalizedAt, Report: rep})
		_ = d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return rep, nil
}

// Save invalidates before writing so a stale miss is never cached over a new row.
func (d *reportRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, report *model.FinalReport) error {
	_ = d.cache.Del(ctx, reportKey(report.SessionID))
	return d.inner.Save(ctx, tx, report)
}
