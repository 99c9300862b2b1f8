package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/campuskit/notify/pkg/api"
	"github.com/campuskit/notify/pkg/channel"
	"github.com/campuskit/notify/pkg/channel/email"
	"github.com/campuskit/notify/pkg/channel/inapp"
	"github.com/campuskit/notify/pkg/channel/push"
	"github.com/campuskit/notify/pkg/channel/sms"
	"github.com/campuskit/notify/pkg/channel/telegram"
	"github.com/campuskit/notify/pkg/config"
	"github.com/campuskit/notify/pkg/delivery"
	"github.com/campuskit/notify/pkg/httpserver"
	"github.com/campuskit/notify/pkg/inbox"
	"github.com/campuskit/notify/pkg/logger"
	"github.com/campuskit/notify/pkg/notification"
	"github.com/campuskit/notify/pkg/notifier"
	"github.com/campuskit/notify/pkg/pg"
	"github.com/campuskit/notify/pkg/preferences"
	redisconn "github.com/campuskit/notify/pkg/redis"
	"github.com/campuskit/notify/pkg/scheduler"
	"github.com/campuskit/notify/pkg/template"
)

type appConfig struct {
	LogLevel  slog.Level    `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat logger.Format `env:"LOG_FORMAT" envDefault:"json"`

	PG    pg.Config
	Redis redisconn.Config
	HTTP  httpserver.Config

	// EmailDevDir switches the email channel to the file-writing dev
	// adapter. Empty means real Postmark delivery.
	EmailDevDir string `env:"EMAIL_DEV_DIR"`

	SMSEnabled      bool `env:"SMS_ENABLED" envDefault:"false"`
	PushEnabled     bool `env:"PUSH_ENABLED" envDefault:"false"`
	TelegramEnabled bool `env:"TELEGRAM_ENABLED" envDefault:"false"`

	WorkerPoolSize    int           `env:"WORKER_POOL_SIZE" envDefault:"16"`
	SchedulerInterval time.Duration `env:"SCHEDULER_INTERVAL" envDefault:"30s"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

func main() {
	if err := run(); err != nil {
		slog.Error("notifyd exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(
		logger.WithLevel(cfg.LogLevel),
		logger.WithFormat(cfg.LogFormat),
		logger.WithAttr(slog.String("service", "notifyd")),
	)
	slog.SetDefault(log)

	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, cfg.PG, log); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	rdb, err := redisconn.Connect(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer rdb.Close()

	notifications := notification.NewPGStorage(pool)
	templates := template.NewPGStorage(pool)
	prefs := preferences.NewPGStorage(pool)
	attempts := delivery.NewPGStorage(pool)
	inboxStore := inbox.NewPGStorage(pool)
	jobs := scheduler.NewPGStorage(pool)
	directory := notifier.NewPGDirectory(pool)

	if err := seedTemplates(ctx, templates, log); err != nil {
		return fmt.Errorf("seed templates: %w", err)
	}

	adapters, err := buildAdapters(cfg, inboxStore)
	if err != nil {
		return fmt.Errorf("build channel adapters: %w", err)
	}
	registry, err := channel.NewRegistry(adapters...)
	if err != nil {
		return fmt.Errorf("build channel registry: %w", err)
	}
	log.LogAttrs(ctx, slog.LevelInfo, "channel adapters registered",
		slog.Any("channels", registry.Channels()))

	tracker := delivery.NewTracker(attempts, delivery.WithTrackerLogger(log))

	// The scheduler fires through the service and the service schedules
	// through the scheduler; the closure breaks the construction cycle.
	var svc *notifier.Service
	sched, err := scheduler.New(jobs,
		func(ctx context.Context, job scheduler.Job) error { return svc.FireJob(ctx, job) },
		scheduler.WithCheckInterval(cfg.SchedulerInterval),
		scheduler.WithLogger(log),
	)
	if err != nil {
		return fmt.Errorf("build scheduler: %w", err)
	}

	svc = notifier.NewService(
		notifications,
		templates,
		preferences.NewResolver(prefs, preferences.WithResolverLogger(log)),
		registry,
		tracker,
		directory,
		notifier.WithScheduler(sched),
		notifier.WithDeduper(delivery.NewRedisDeduper(rdb)),
		notifier.WithPool(notifier.NewPool(cfg.WorkerPoolSize)),
		notifier.WithServiceLogger(log),
	)

	schedDone := make(chan error, 1)
	go func() { schedDone <- sched.Start(ctx) }()

	handler := api.New(svc, prefs, tracker, inboxStore,
		api.WithScheduler(sched),
		api.WithLogger(log),
	)

	router := chi.NewRouter()
	router.Get("/healthz", httpserver.Healthcheck(log, map[string]httpserver.Check{
		"postgres": pool.Ping,
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}))
	router.Mount("/", handler.Router())

	srv := httpserver.New(cfg.HTTP, httpserver.WithLogger(log))
	runErr := srv.Run(ctx, router)

	// Drain queued dispatches and retries before exiting.
	stopCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := svc.Pool().Shutdown(stopCtx); err != nil {
		log.LogAttrs(stopCtx, slog.LevelWarn, "worker pool drain incomplete", logger.Error(err))
	}

	stop()
	if err := <-schedDone; err != nil && !errors.Is(err, context.Canceled) {
		log.LogAttrs(context.Background(), slog.LevelWarn, "scheduler stopped with error", logger.Error(err))
	}

	return runErr
}

// buildAdapters assembles the channel adapters the deployment enables.
// In-app delivery is always on; email falls back to the dev adapter when
// EMAIL_DEV_DIR is set.
func buildAdapters(cfg appConfig, inboxStore inbox.Storage) ([]channel.Adapter, error) {
	adapters := []channel.Adapter{inapp.NewAdapter(inboxStore)}

	if cfg.EmailDevDir != "" {
		adapters = append(adapters, email.NewDevAdapter(cfg.EmailDevDir))
	} else {
		var emailCfg email.Config
		if err := config.Load(&emailCfg); err != nil {
			return nil, fmt.Errorf("email config: %w", err)
		}
		emailAdapter, err := email.NewAdapter(emailCfg)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, emailAdapter)
	}

	if cfg.SMSEnabled {
		var smsCfg sms.Config
		if err := config.Load(&smsCfg); err != nil {
			return nil, fmt.Errorf("sms config: %w", err)
		}
		smsAdapter, err := sms.NewAdapter(smsCfg)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, smsAdapter)
	}

	if cfg.PushEnabled {
		var pushCfg push.Config
		if err := config.Load(&pushCfg); err != nil {
			return nil, fmt.Errorf("push config: %w", err)
		}
		pushAdapter, err := push.NewAdapter(pushCfg)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, pushAdapter)
	}

	if cfg.TelegramEnabled {
		var tgCfg telegram.Config
		if err := config.Load(&tgCfg); err != nil {
			return nil, fmt.Errorf("telegram config: %w", err)
		}
		tgAdapter, err := telegram.NewAdapter(tgCfg)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, tgAdapter)
	}

	return adapters, nil
}

// seedTemplates inserts the stock catalog on first boot without touching
// templates an administrator already edited.
func seedTemplates(ctx context.Context, store template.Storage, log *slog.Logger) error {
	for _, tpl := range template.Defaults() {
		_, err := store.Get(ctx, tpl.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, template.ErrNotFound) {
			return err
		}
		// A deactivated template reads as not found but still occupies
		// its id; skip it rather than fight the unique constraint.
		if err := store.Put(ctx, tpl); err != nil {
			if errors.Is(err, template.ErrAlreadyExists) {
				continue
			}
			return err
		}
		log.LogAttrs(ctx, slog.LevelInfo, "seeded notification template",
			logger.TemplateID(tpl.ID))
	}
	return nil
}
