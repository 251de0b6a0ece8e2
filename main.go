package main

import (
	"context"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/seyborx-dotcom/impulse-bot/internal/config"
	"github.com/seyborx-dotcom/impulse-bot/internal/handler"
	"github.com/seyborx-dotcom/impulse-bot/internal/repository"
	"github.com/seyborx-dotcom/impulse-bot/internal/scheduler"
	"github.com/seyborx-dotcom/impulse-bot/internal/service"
	"github.com/seyborx-dotcom/impulse-bot/internal/telegram"
	"github.com/seyborx-dotcom/impulse-bot/pkg/database"
	"github.com/seyborx-dotcom/impulse-bot/pkg/logger"
	"github.com/seyborx-dotcom/impulse-bot/pkg/redis"
)

// Resources holds everything that needs an orderly shutdown.
type Resources struct {
	mu        sync.Mutex
	closed    bool
	log       *logger.Logger
	db        *database.PostgresDB
	cache     *redis.Client
	scheduler *scheduler.Scheduler
	httpSrv   *http.Server
}

// Cleanup releases resources in reverse start order. Safe to call twice.
func (r *Resources) Cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true

	if r.httpSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := r.httpSrv.Shutdown(ctx); err != nil {
			r.log.WithError(err).Error("failed to shut down http server")
		}
	}
	if r.scheduler != nil {
		r.scheduler.Stop()
	}
	if r.cache != nil {
		if err := r.cache.Close(); err != nil {
			r.log.WithError(err).Error("failed to close redis client")
		}
	}
	if r.db != nil {
		r.db.Close()
	}
	r.log.Info("all resources released")
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer log.Sync()

	log.WithFields(map[string]interface{}{
		"environment": cfg.Environment,
		"port":        cfg.Port,
	}).Info("starting impulse bot")

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.WithError(err).Fatal("failed to load timezone")
	}

	res := &Resources{log: log}
	defer res.Cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to postgres")
	}
	res.db = db

	cache, err := redis.NewClient(cfg.RedisURL, log.Logger)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to redis")
	}
	res.cache = cache

	polls := repository.NewPollRepository(db.Pool)
	ledger := repository.NewLedgerRepository(db.Pool)
	users := repository.NewUserRepository(db.Pool)
	topics := repository.NewTopicRepository(db.Pool)
	botConfig := repository.NewConfigRepository(db.Pool)

	// The handler needs the messenger and the bot needs the handler, so
	// the adapter is created first and the handler slotted in after.
	var bot *telegram.Bot
	var botHandler *handler.BotHandler
	dispatch := handlerProxy{get: func() telegram.UpdateHandler { return botHandler }}

	bot, err = telegram.NewBot(cfg.BotToken, &dispatch, log)
	if err != nil {
		log.WithError(err).Fatal("failed to create telegram bot")
	}

	names := service.NewNameService(users, cache, log)
	presenter := service.NewPresenter(users, bot, log)
	pollSvc := service.NewPollService(polls, topics, bot, cfg.BotUsername, loc, log)
	checkinSvc := service.NewCheckinService(polls, users, loc, log)
	wizardSvc := service.NewWizardService(pollSvc, log)
	leaderboardSvc := service.NewLeaderboardService(ledger, botConfig, topics, bot, loc, log)

	botHandler = handler.NewBotHandler(cfg, bot, presenter, pollSvc, checkinSvc, wizardSvc,
		leaderboardSvc, names, users, topics, polls, botConfig, log)

	sched, err := scheduler.New(pollSvc, leaderboardSvc, loc, log)
	if err != nil {
		log.WithError(err).Fatal("failed to create scheduler")
	}
	sched.Start()
	res.scheduler = sched

	res.httpSrv = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      setupRouter(db, cache, log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		log.WithField("addr", res.httpSrv.Addr).Info("health server listening")
		if err := res.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("health server stopped")
		}
	}()

	// Blocks until a shutdown signal cancels ctx.
	bot.Start(ctx)

	log.Info("shutting down")
}

func setupRouter(db *database.PostgresDB, cache *redis.Client, log *logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	health := handler.NewHealthHandler(db, cache, log)
	r.Get("/health", health.Health)
	return r
}

// handlerProxy defers handler resolution until the first update, breaking
// the bot/handler construction cycle.
type handlerProxy struct {
	get func() telegram.UpdateHandler
}

func (p *handlerProxy) HandleMessage(ctx context.Context, msg *telegram.IncomingMessage) {
	if h := p.get(); h != nil {
		h.HandleMessage(ctx, msg)
	}
}

func (p *handlerProxy) HandleCallback(ctx context.Context, cb *telegram.Callback) {
	if h := p.get(); h != nil {
		h.HandleCallback(ctx, cb)
	}
}
