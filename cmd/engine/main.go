package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quote_delivery_engine/internal/app"
	"quote_delivery_engine/internal/cache"
	"quote_delivery_engine/internal/infra/config"
	idb "quote_delivery_engine/internal/infra/database"
	applogger "quote_delivery_engine/internal/infra/logger"
	"quote_delivery_engine/internal/infra/scheduler"
	"quote_delivery_engine/internal/infra/telegram"
	"quote_delivery_engine/internal/infra/widget"

	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		applogger.Log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}
	applogger.Init(cfg)
	log := applogger.Get()
	log.Infof("Configuration loaded. LogLevel: %s, Environment: %s, Timezone: %s", cfg.LogLevel, cfg.Environment, cfg.Location)

	// Database connection and schema bootstrap.
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	if err := idb.Bootstrap(db); err != nil {
		log.Fatalf("FATAL: Could not bootstrap database schema: %v", err)
	}
	log.Info("Database connection established and schema verified.")

	// Repositories, cache-fronted where the read path is hot.
	sharedCache := cache.New(cfg.CacheCapacity)
	scheduleRepo := idb.NewCachedScheduleRepository(idb.NewPostgresScheduleRepository(db), sharedCache)
	quoteRepo := idb.NewCachedQuoteRepository(idb.NewPostgresQuoteRepository(db), sharedCache)
	deliveryRepo := idb.NewPostgresDeliveryRepository(db)
	activityRepo := idb.NewPostgresActivityRepository(db)
	widgetRepo := idb.NewPostgresWidgetStateRepository(db)
	log.Info("Repositories initialized.")

	// Telegram bot backing the notification surface.
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			log.WithError(err).Error("telebot error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		log.Fatalf("FATAL: Could not create Telegram bot: %v", err)
	}
	notifier := telegram.NewQuoteNotifier(telegram.NewTelebotAdapter(bot), cfg.NotifyChatID)
	widgetSurface := widget.NewStateSurface(widgetRepo)

	// Application services.
	selector := app.NewSelector(deliveryRepo, cfg.Location)
	tracker := app.NewDeliveryTracker(deliveryRepo, scheduleRepo, cfg.Location, log)
	engagement := app.NewEngagementService(activityRepo, sharedCache, cfg.Location, log)
	scheduleService := app.NewScheduleService(
		scheduleRepo, quoteRepo, selector, tracker, engagement,
		notifier, widgetSurface, cfg.Location, log,
	)

	// Guarantee the default schedule before the first trigger run.
	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defaultSchedule, err := scheduleService.EnsureDefaultSchedule(startupCtx)
	cancel()
	if err != nil {
		log.Fatalf("FATAL: Could not ensure default schedule: %v", err)
	}
	log.WithField("schedule_id", defaultSchedule.ID).Info("Default schedule ready.")

	deliveryScheduler := scheduler.NewDeliveryScheduler(scheduleService, log, cfg.CronSpecDelivery, cfg.Location)
	if err := deliveryScheduler.Start(); err != nil {
		log.Fatalf("FATAL: Could not start delivery scheduler: %v", err)
	}

	log.Info("Application setup complete. Engine is running.")

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down application...")
	deliveryScheduler.Stop()
	log.Info("Application shut down gracefully.")
}
