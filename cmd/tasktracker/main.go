package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"tasktracker/internal/config"
	"tasktracker/internal/httpapi"
	"tasktracker/internal/notify"
	"tasktracker/internal/repository"
	"tasktracker/internal/schedule"
	"tasktracker/internal/service"
)

const jobTimeout = 30 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Fatal().Err(err).Str("timezone", cfg.Timezone).Msg("load timezone")
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("db")
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	taskSvc := service.NewTaskService(taskRepo)
	dispatcher := buildDispatcher(ctx, cfg, logger)

	deadlineJob := schedule.NewDeadlineJob(taskRepo, tokenRepo, dispatcher,
		logger.With().Str("job", "deadline-warning").Logger())
	rolloverJob := schedule.NewRolloverJob(taskRepo, loc, cfg.RolloverHour, cfg.RolloverMinute,
		logger.With().Str("job", "recurrence-rollover").Logger())

	scheduler := service.NewSchedulerService(loc)
	if _, err := scheduler.ScheduleInterval(cfg.DeadlineInterval, runJob(logger, "deadline-warning", deadlineJob.Run)); err != nil {
		logger.Fatal().Err(err).Msg("schedule deadline warning")
	}
	if _, err := scheduler.ScheduleInterval(cfg.RolloverInterval, runJob(logger, "recurrence-rollover", rolloverJob.Run)); err != nil {
		logger.Fatal().Err(err).Msg("schedule recurrence rollover")
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := httpapi.NewServer(taskSvc, userRepo, tokenRepo, dispatcher, logger)
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: server.Router()}
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("task tracker started")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	logger.Info().Msg("shutdown complete")
}

// runJob wraps a job pass with a timeout context. Job-level failures are
// logged here; the next tick retries.
func runJob(logger zerolog.Logger, name string, run func(context.Context) error) func() {
	return func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := run(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Str("job", name).Msg("job pass failed")
		}
	}
}

func buildDispatcher(ctx context.Context, cfg config.Config, logger zerolog.Logger) notify.Dispatcher {
	switch {
	case cfg.FCMCredentialsFile != "":
		d, err := notify.NewFCM(ctx, cfg.FCMCredentialsFile, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("fcm dispatcher")
		}
		return d
	case cfg.TelegramToken != "":
		d, err := notify.NewTelegram(cfg.TelegramToken, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("telegram dispatcher")
		}
		return d
	default:
		logger.Warn().Msg("no notification transport configured, sends will be logged only")
		return notify.LogDispatcher{Log: logger}
	}
}
