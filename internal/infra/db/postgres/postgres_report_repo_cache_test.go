//go:build !integration

package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"scam-honeypot/internal/domain/model"
	"scam-honeypot/internal/domain/ports/repository"
	red "scam-honeypot/internal/infra/redis"
)

func TestReportRepoCacheDecorator(t *testing.T) {
	ctx := context.Background()
	s := model.NewSession("sess-9")
	s.AddMessage(model.SenderScammer, "hello")
	report := model.NewFinalReport(s, "Scammer attempted social engineering")
	cached, _ := json.Marshal(cachedReport{ReportID: report.ReportID, FinalizedAt: report.FinalizedAt, Report: report})

	t.Run("FindBySessionID should return from cache on hit", func(t *testing.T) {
		mockRedis := &mockRedisClient{
			GetFunc: func(ctx context.Context, key string) (string, error) {
				if key != "report:sess-9" {
					t.Errorf("unexpected cache key %q", key)
				}
				return string(cached), nil
			},
		}
		innerRepoCalled := false
		mockInnerRepo := &mockInnerReportRepo{
			FindBySessionIDFunc: func(ctx context.Context, tx repository.Tx, id string) (*model.FinalReport, error) {
				innerRepoCalled = true
				return nil, nil
			},
		}

		result, err := NewReportRepoCacheDecorator(mockInnerRepo, mockRedis).FindBySessionID(ctx, nil, "sess-9")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if innerRepoCalled {
			t.Error("inner repository should not be called on a cache hit")
		}
		if result == nil || result.SessionID != "sess-9" || result.ReportID != report.ReportID {
			t.Errorf("did not return the cached report: %+v", result)
		}
	})

	t.Run("FindBySessionID should fill the cache on miss", func(t *testing.T) {
		var setKey string
		mockRedis := &mockRedisClient{
			GetFunc: func(ctx context.Context, key string) (string, error) {
				return "", red.Nil
			},
			SetFunc: func(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
				setKey = key
				return nil
			},
		}
		mockInnerRepo := &mockInnerReportRepo{
			FindBySessionIDFunc: func(ctx context.Context, tx repository.Tx, id string) (*model.FinalReport, error) {
				return report, nil
			},
		}

		result, err := NewReportRepoCacheDecorator(mockInnerRepo, mockRedis).FindBySessionID(ctx, nil, "sess-9")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result != report {
			t.Error("expected the inner repository result")
		}
		if setKey != "report:sess-9" {
			t.Errorf("expected cache fill for report:sess-9, got %q", setKey)
		}
	})

	t.Run("Save should invalidate the cache", func(t *testing.T) {
		var deletedKeys []string
		mockRedis := &mockRedisClient{
			DelFunc: func(ctx context.Context, keys ...string) error {
				deletedKeys = append(deletedKeys, keys...)
				return nil
			},
		}
		mockInnerRepo := &mockInnerReportRepo{
			SaveFunc: func(ctx context.Context, tx repository.Tx, r *model.FinalReport) error {
				return nil
			},
		}

		if err := NewReportRepoCacheDecorator(mockInnerRepo, mockRedis).Save(ctx, nil, report); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(deletedKeys) != 1 || deletedKeys[0] != "report:sess-9" {
			t.Fatalf("expected report:sess-9 to be deleted, got %v", deletedKeys)
		}
	})
}
