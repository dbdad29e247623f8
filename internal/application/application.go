package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"dealsadmin/internal/config"
	"dealsadmin/internal/domain/entity"
	"dealsadmin/internal/domain/service/review"
	"dealsadmin/internal/infrastructure/adminapi"
	"dealsadmin/internal/infrastructure/notifier"
	"dealsadmin/internal/metrics"
	"dealsadmin/internal/server"
	"dealsadmin/internal/session"
	"dealsadmin/internal/transport/bot"
	"dealsadmin/internal/worker"
	"dealsadmin/pkg/application/connectors"
	"dealsadmin/pkg/application/modules"
	"dealsadmin/pkg/logx"
	"dealsadmin/pkg/middlewarex"
	"dealsadmin/pkg/probe"
)

const (
	Name = "dealsadmin"

	memoryStoreCleanupInterval = time.Minute
)

var Version = "dev" //nolint:gochecknoglobals

type publisher interface {
	Publish(ctx context.Context, event entity.Event)
}

func Run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	m := metrics.New()

	// Sessions
	redisConnector := &connectors.Redis{
		Address:            cfg.Redis.Address,
		Username:           cfg.Redis.Username,
		Password:           cfg.Redis.Password,
		DatabaseNumber:     cfg.Redis.DatabaseNumber,
		PoolSize:           cfg.Redis.PoolSize,
		MinIdleConnections: cfg.Redis.MinIdleConnections,
		MaxIdleConnections: cfg.Redis.MaxIdleConnections,
	}
	defer redisConnector.Close(ctx)

	sessions, ready, err := newSessionStore(ctx, cfg.Session, redisConnector)
	if err != nil {
		return err
	}

	// Admin API
	apiOpts := []adminapi.Option{adminapi.WithObserver(m)}
	if cfg.AdminAPI.Timeout > 0 {
		apiOpts = append(apiOpts, adminapi.WithTimeout(cfg.AdminAPI.Timeout))
	}

	apiClient := adminapi.New(cfg.AdminAPI.URL, apiOpts...)

	log.Info("admin api configured", slog.String(logx.FieldURL, apiClient.BaseURL()))

	g, ctx := errgroup.WithContext(ctx)

	// Notifications
	var events publisher = notifier.Discard{}

	if cfg.Bot.Enabled() {
		bot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
		if err != nil {
			return fmt.Errorf("notifier.NewTelegramBot: %w", err)
		}

		if err := bot.SendText(ctx, "Deals admin dashboard is starting"); err != nil {
			log.Warn("bot.SendText", logx.Error(err))
		}

		events = runNotifier(ctx, g, cfg, log, bot)
	}

	if cfg.Watcher.Enabled() {
		account := session.NewServiceAccount(apiClient, cfg.Watcher.Email, cfg.Watcher.Password)
		accountClient := apiClient.WithSession(account)

		watcher := worker.NewPendingWatcher(accountClient, m, events, cfg.Watcher.Interval)
		modules.Worker{Name: "pending-watcher"}.Run(ctx, g, watcher.Run)

		if cfg.Bot.Enabled() && cfg.Bot.Commands {
			commands, err := bot.New(cfg.Bot.Token, cfg.Bot.ChatID, accountClient)
			if err != nil {
				return fmt.Errorf("bot.New: %w", err)
			}

			modules.Worker{Name: "bot-commands"}.Run(ctx, g, commands.Run)
		}
	}

	// Dashboard
	views := server.NewViewRegistry(cfg.Session.ViewTTL, m)
	gate := server.NewGate(sessions, views, cfg.HTTP.SecureCookie)

	pages, err := server.NewPages()
	if err != nil {
		return fmt.Errorf("server.NewPages: %w", err)
	}

	srv := server.NewServer(
		server.NewAuthServer(gate, apiClient, pages, cfg.Session.TTL),
		server.NewDealsServer(
			gate,
			views,
			func(s session.Session) review.DealsAPI { return apiClient.WithSession(s) },
			pages,
			m,
			events,
		),
	)

	masker := logx.NewSensitiveDataMasker()

	r := chi.NewRouter()
	r.Use(
		middlewarex.TraceID,
		middlewarex.Logger(log),
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, cfg.HTTP.LogFieldMaxLen),
		middlewarex.ResponseLogging(masker, cfg.HTTP.LogFieldMaxLen),
	)

	if err := srv.RegisterRoutes(r); err != nil {
		return fmt.Errorf("srv.RegisterRoutes: %w", err)
	}

	modules.HTTPServer{
		ListenAddress:   cfg.HTTP.ListenAddress,
		Handler:         r,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}.Run(ctx, g)

	modules.ProbeServer{
		Name:          Name,
		Version:       Version,
		ListenAddress: cfg.HTTP.ProbeListenAddress,
		Ready:         ready,
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.HTTP.MetricsListenAddress,
		Gatherer:      m.Registry,
	}.Run(ctx, g)

	if err := g.Wait(); err != nil {
		return fmt.Errorf("g.Wait: %w", err)
	}

	return nil
}

// runNotifier starts event delivery to the bot. With BOT_QUEUE=redis events
// go through asynq and survive restarts, otherwise an in-process buffer is used.
func runNotifier(
	ctx context.Context,
	g *errgroup.Group,
	cfg config.Config,
	log *slog.Logger,
	bot *notifier.TelegramBot,
) publisher {
	if cfg.Bot.Queue != config.BotQueueRedis {
		queue := notifier.NewQueue(cfg.Bot.QueueSize)

		modules.Worker{Name: "notifier"}.Run(ctx, g, func(ctx context.Context) error {
			return bot.Run(ctx, queue.Events())
		})

		return queue
	}

	tasks := modules.AsynqServer{
		RedisUsername: cfg.Redis.Username,
		RedisPassword: cfg.Redis.Password,
		RedisAddress:  cfg.Redis.Address,
		RedisDB:       cfg.Redis.DatabaseNumber,
		Concurrency:   1,
	}

	client := asynq.NewClient(tasks.RedisOpt())

	g.Go(func() error {
		<-ctx.Done()

		if err := client.Close(); err != nil {
			log.Warn("asynqClient.Close", logx.Error(err))
		}

		return nil
	})

	tasks.Run(ctx, g, modules.AsynqQueues{notifier.TaskQueueName: 1}, modules.AsynqHandler{
		Pattern: notifier.TypeDealEvent,
		Handle:  bot.HandleEventTask,
	})

	return notifier.NewTaskQueue(client, cfg.Bot.MaxRetry)
}

func newSessionStore(
	ctx context.Context,
	cfg config.Session,
	redisConnector *connectors.Redis,
) (session.Store, probe.ReadinessCheck, error) {
	if cfg.Store != config.SessionStoreRedis {
		return session.NewMemoryStore(memoryStoreCleanupInterval), nil, nil
	}

	client, err := redisConnector.Client(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("redisConnector.Client: %w", err)
	}

	ready := func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis.Ping: %w", err)
		}

		return nil
	}

	return session.NewRedisStore(client), ready, nil
}
