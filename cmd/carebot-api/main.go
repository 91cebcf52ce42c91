// README: Entry point; loads config, wires stores, AI provider and services, starts the HTTP server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"carebot/internal/ai"
	"carebot/internal/config"
	httptransport "carebot/internal/http"
	"carebot/internal/infra"
	"carebot/internal/modules/account"
	"carebot/internal/modules/aiusage"
	"carebot/internal/modules/chat"
	"carebot/internal/modules/issues"
	"carebot/internal/modules/pricing"
)

// provider is what the chat and issues services need from the AI layer.
type provider interface {
	ai.Generator
	ai.JSONGenerator
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	log := logrus.NewEntry(logger).WithField("service", "carebot-api")

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repo account.Repository
	var allowanceStore aiusage.Repository = aiusage.NewMemoryStore()
	if cfg.DB.DSN == "" {
		log.Warn("CAREBOT_DB_DSN not set; using in-memory sample accounts")
		repo = account.NewMemoryStore(account.SampleAccounts()...)
	} else {
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			log.WithError(err).Fatal("connect postgres")
		}
		defer dbPool.Close()
		if err := infra.Migrate(ctx, dbPool, cfg.DB.MigrationsDir); err != nil {
			log.WithError(err).Fatal("apply migrations")
		}
		store := account.NewStore(dbPool)
		if err := store.Seed(ctx, account.SampleAccounts()); err != nil {
			log.WithError(err).Fatal("seed sample accounts")
		}
		repo = store
		allowanceStore = aiusage.NewStore(dbPool)
	}

	var sessions chat.SessionStore = chat.NewMemorySessionStore()
	var guard chat.ConfirmationGuard
	if cfg.Redis.Addr != "" {
		rdb, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			log.WithError(err).Fatal("connect redis")
		}
		defer func(rdb *redis.Client) { _ = rdb.Close() }(rdb)
		sessions = chat.NewRedisSessionStore(rdb, cfg.Chat.SessionTTL)
		if cfg.Chat.ConfirmWindow > 0 {
			guard = chat.NewRedisConfirmationGuard(rdb, cfg.Chat.ConfirmWindow)
		}
	} else if cfg.Chat.ConfirmWindow > 0 {
		log.Warn("CAREBOT_CONFIRM_WINDOW needs CAREBOT_REDIS_ADDR; duplicate guard disabled")
	}

	gen, closeGen, err := newProvider(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("init ai provider")
	}
	defer closeGen()

	accountSvc := account.NewService(repo)
	pricingSvc := pricing.NewService(nil)

	deps := chat.Deps{
		Accounts:     accountSvc,
		Generator:    gen,
		Catalog:      pricingSvc,
		Composer:     chat.NewComposer(cfg.Chat.Brand, pricingSvc),
		Sessions:     sessions,
		Guard:        guard,
		SupportPhone: cfg.Chat.SupportPhone,
		Log:          log,
	}
	if cfg.Chat.MonthlyReplies > 0 {
		deps.Allowance = aiusage.NewService(allowanceStore, cfg.Chat.MonthlyReplies)
	}

	server := httptransport.NewServer(cfg.HTTP.Addr, httptransport.RouterDeps{
		Accounts:    accountSvc,
		Chat:        chat.NewService(deps),
		Issues:      issues.NewService(accountSvc, gen, log),
		Pricing:     pricingSvc,
		ChatTimeout: cfg.Chat.Timeout,
		Log:         log,
	})

	if err := server.Run(ctx); err != nil {
		log.WithError(err).Fatal("http server")
	}
	log.Info("shut down")
}

func newProvider(ctx context.Context, cfg config.Config) (provider, func(), error) {
	switch cfg.AI.Provider {
	case config.ProviderOpenAI:
		p, err := ai.NewOpenAIProvider(cfg.AI.OpenAIKey, cfg.AI.OpenAIModel)
		return p, func() {}, err
	default:
		p, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiModel)
		if err != nil {
			return nil, func() {}, err
		}
		return p, p.Close, nil
	}
}
