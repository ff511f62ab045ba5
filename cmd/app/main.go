// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"scam-honeypot/internal/agent"
	"scam-honeypot/internal/config"
	"scam-honeypot/internal/domain/ports/adapter"
	"scam-honeypot/internal/domain/ports/repository"
	aiAdapters "scam-honeypot/internal/infra/adapters/ai"
	reportSinks "scam-honeypot/internal/infra/adapters/report"
	pg "scam-honeypot/internal/infra/db/postgres"
	"scam-honeypot/internal/infra/logging"
	"scam-honeypot/internal/infra/metrics"
	red "scam-honeypot/internal/infra/redis"
	"scam-honeypot/internal/infra/web"
	"scam-honeypot/internal/infra/worker"
	"scam-honeypot/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, dev api key, unredacted evidence)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)
	logger.Info().Str("version", version).Bool("dev", cfg.Runtime.Dev).Msg("starting scam honeypot")

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	sessions := red.NewSessionStore(redisClient, cfg.Redis.TTL, logger)
	locker := red.NewLocker(redisClient, cfg.Redis.LockTTL)
	limiter := red.NewRateLimiter(redisClient)

	// ---- AI ----
	ai := buildAI(ctx, cfg, logger)
	counter := aiAdapters.NewTokenCounter(cfg.AI.Encoding, logger)
	engine := agent.New(ai, counter, cfg.Agent, time.Now, logger)

	// ---- Report sinks ----
	pool := worker.NewPool(cfg.Report.Workers, logger)
	pool.Start(context.Background())

	sinks := []adapter.ReportSink{reportSinks.NewCallbackSink(cfg.Report.CallbackURL, cfg.Report.CallbackTimeout)}

	var reports repository.ReportRepository
	if cfg.Database.URL != "" {
		dbPool, err := pg.Connect(ctx, cfg.Database.URL)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres")
		}
		defer dbPool.Close()
		go pg.WatchPoolStats(ctx, dbPool, 15*time.Second)
		reports = pg.NewReportRepoCacheDecorator(pg.NewReportRepo(dbPool), redisClient)
		sinks = append(sinks, reportSinks.NewArchiveSink(reports))
	}

	if cfg.NATS.URL != "" {
		nc, err := reportSinks.ConnectNATS(cfg.NATS.URL, cfg.NATS.Token, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("nats")
		}
		defer func() { _ = nc.Drain() }()
		sinks = append(sinks, reportSinks.NewNATSSink(nc, cfg.NATS.Subject))
	}

	dispatcher := usecase.NewReportDispatcher(pool, cfg.Report.CallbackTimeout*2, logger, sinks...)
	logger.Info().Strs("sinks", dispatcher.Sinks()).Msg("report sinks ready")

	// ---- Use case + HTTP ----
	uc := usecase.NewHoneypotUseCase(sessions, locker, engine, dispatcher, logger)
	srv := web.NewServer(uc, web.Options{
		APIKey:         cfg.Server.APIKey,
		RequestTimeout: cfg.Server.RequestTimeout,
		RateLimit:      cfg.Server.RateLimit,
		Limiter:        limiter,
		Reports:        reports,
	}, logger)
	server := srv.HTTPServer(fmt.Sprintf(":%d", cfg.Server.Port))

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
			cancel()
		}
	}()

	// ---- Graceful shutdown ----
	<-ctx.Done()
	logger.Info().Msg("shutdown requested")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 15*time.Second)
	defer stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	// flush queued report deliveries before the sinks close
	pool.Stop()
}

// buildAI wires the configured provider first and any other keyed provider as
// failover, behind the concurrency limit.
func buildAI(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) adapter.AIServiceAdapter {
	byProvider := map[string]adapter.AIServiceAdapter{}
	if cfg.AI.GeminiKey != "" {
		g, err := aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, "gemini-2.5-flash", cfg.AI.MaxOutputTokens)
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini adapter")
		}
		byProvider["gemini"] = g
	}
	if cfg.AI.OpenAIKey != "" {
		o, err := aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.OpenAIBaseURL, "gpt-4o-mini", cfg.AI.MaxOutputTokens)
		if err != nil {
			logger.Fatal().Err(err).Msg("openai adapter")
		}
		byProvider["openai"] = o
	}

	if cfg.AI.Provider == "none" || len(byProvider) == 0 {
		logger.Warn().Msg("no AI provider configured; replies come from templates only")
		return aiAdapters.NewNoopAIAdapter()
	}

	order := []string{cfg.AI.Provider}
	for _, p := range []string{"gemini", "openai"} {
		if p != cfg.AI.Provider {
			order = append(order, p)
		}
	}
	multi := aiAdapters.NewMultiAIAdapter(order, byProvider, nil)
	logger.Info().Strs("providers", order).Str("model", cfg.Agent.Model).Msg("AI adapter ready")
	return aiAdapters.NewLimitedAI(multi, cfg.AI.ConcurrentLimit)
}
