package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/limoonouo/Haoshi-Fruits/config"
	"github.com/limoonouo/Haoshi-Fruits/internal/app"
	"github.com/limoonouo/Haoshi-Fruits/internal/delivery/httpserver"
	"github.com/limoonouo/Haoshi-Fruits/internal/delivery/line"
	"github.com/limoonouo/Haoshi-Fruits/internal/delivery/telegram"
	"github.com/limoonouo/Haoshi-Fruits/internal/metrics"
	"github.com/limoonouo/Haoshi-Fruits/internal/ratelimit"
	"github.com/limoonouo/Haoshi-Fruits/pkg/logger"
)

func main() {
	initDefaultTimezone()

	cfg, err := config.Load()
	if err != nil {
		l := logger.Get()
		l.Fatal().Err(err).Msg("load config")
	}
	log := logger.Init(cfg.LogLevel, cfg.LogFormat)
	log.Info().Msg("starting Haoshi Fruits bot")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	aliases, err := config.LoadAliases(cfg.AliasesFile)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.AliasesFile).Msg("load aliases")
	}

	collector := metrics.New()
	tables := app.LoadTables(ctx, cfg, collector, logger.Component("dataset"))

	sessions, closeSessions, err := app.NewSessionStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("session store")
	}
	defer func() {
		if err := closeSessions(); err != nil {
			log.Warn().Err(err).Msg("close session store")
		}
	}()
	log.Info().Str("store", cfg.SessionStore).Msg("session store ready")

	engine := app.NewEngine(cfg, aliases, tables, sessions, collector, logger.Get())

	var wg sync.WaitGroup

	deps := httpserver.Deps{Metrics: collector.Handler(), Ready: tables.Ready}
	if cfg.LineEnabled() {
		client, err := line.NewClient(cfg.LineChannelAccessToken)
		if err != nil {
			log.Fatal().Err(err).Msg("line client")
		}
		lineHandler := line.NewHandler(
			engine,
			client,
			ratelimit.NewUserLimiter(cfg.UserRateLimit, burst(cfg.UserRateLimit)),
			collector,
			line.Options{ChannelSecret: cfg.LineChannelSecret, Timeout: cfg.RequestTimeout},
			logger.Get(),
		)
		go lineHandler.Run(ctx)
		deps.Callback = lineHandler
		log.Info().Msg("LINE webhook enabled at /callback")
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := httpserver.Run(ctx, cfg.HTTPAddr, httpserver.Router(deps, logger.Component("http")), log); err != nil {
			log.Error().Err(err).Msg("http server")
			stop()
		}
	}()

	if cfg.TelegramEnabled() {
		bot, err := telegram.NewBotAPI(cfg.TelegramToken)
		if err != nil {
			log.Fatal().Err(err).Msg("telegram bot")
		}
		botHandler := telegram.NewBotHandler(
			bot,
			engine,
			ratelimit.NewUserLimiter(cfg.UserRateLimit, burst(cfg.UserRateLimit)),
			collector,
			telegram.Options{WorkerCount: cfg.WorkerCount, Timeout: cfg.RequestTimeout},
			logger.Get(),
		)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := botHandler.Start(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("telegram bot")
			}
		}()
	}

	log.Info().Msg("bot is running, press Ctrl+C to stop")
	<-ctx.Done()
	log.Info().Msg("shutdown signal received")
	wg.Wait()
	log.Info().Msg("bot stopped")
}

// burst allows a short flurry of up to one second's worth of messages
func burst(perSecond float64) int {
	if perSecond < 1 {
		return 1
	}
	return int(perSecond)
}

func initDefaultTimezone() {
	const tzName = "Asia/Taipei"
	if loc, err := time.LoadLocation(tzName); err == nil {
		time.Local = loc
		return
	}
	time.Local = time.FixedZone(tzName, 8*60*60)
}
