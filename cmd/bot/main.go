package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/korean-tutor-bot/internal/bootstrap"
	"github.com/aliskhannn/korean-tutor-bot/internal/config"
	"github.com/aliskhannn/korean-tutor-bot/internal/delivery/telegram"
	"github.com/aliskhannn/korean-tutor-bot/internal/domain/answer"
	"github.com/aliskhannn/korean-tutor-bot/internal/logger"
	"github.com/aliskhannn/korean-tutor-bot/internal/repository"
	"github.com/aliskhannn/korean-tutor-bot/internal/service"
	"github.com/aliskhannn/korean-tutor-bot/internal/storage"
	"github.com/aliskhannn/korean-tutor-bot/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.RequireTelegramToken(); err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("bot stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fs := afero.NewOsFs()

	content, err := repository.LoadContent(fs, cfg.Content.VocabularyPath, cfg.Content.GrammarPath)
	if err != nil {
		return err
	}
	lg.Info("content loaded",
		zap.Int("words", len(content.WordIDs())),
		zap.Int("lessons", len(content.Lessons())),
		zap.Int("exercises", len(content.ExerciseIDs())),
	)

	store, err := bootstrap.OpenStorage(ctx, cfg, fs, lg)
	if err != nil {
		return err
	}
	defer store.Close()

	// Background persistence.
	queue := worker.NewQueue(cfg.Persistence.QueueSize, lg)
	pool := worker.NewPool(queue, worker.PoolConfig{
		Workers:     cfg.Persistence.Workers,
		TaskTimeout: cfg.Persistence.Timeout,
	}, lg)
	pool.SetErrorHandler(func(task worker.Task, err error) {
		lg.Error("background task failed",
			zap.String("task_id", task.ID().String()),
			zap.String("task_type", task.Type()),
			zap.Error(err),
		)
	})
	pool.Start()

	// Services.
	progressService := service.NewProgressService(store.Backends, queue, lg)
	userService := service.NewUserService(store.Users, lg)
	builder := service.NewSessionBuilder(content, service.SessionConfig{
		MinSize:    cfg.Practice.MinSessionSize,
		RandomSize: cfg.Practice.RandomSessionSize,
	}, nil)
	practiceService := service.NewPracticeService(
		content,
		progressService,
		storage.NewSessionStorage(),
		builder,
		answer.NewValidator(),
		lg,
	)

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return err
	}
	lg.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(botCommands()...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	handler := telegram.NewHandler(bot, lg, userService, practiceService, progressService, content)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return handler.Run(gctx)
	})

	if cfg.Reminders.Enabled {
		reminders := service.NewReminderService(
			store.Users,
			progressService,
			storage.NewReminderStorage(),
			cfg.Reminders.Schedule,
			lg,
		)
		reminders.SetNotifier(handler)

		g.Go(func() error {
			return reminders.Start(gctx)
		})
	}

	err = g.Wait()

	lg.Info("shutting down, flushing progress")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if ferr := progressService.Flush(shutdownCtx); ferr != nil {
		lg.Warn("progress flush incomplete", zap.Error(ferr))
	}
	queue.Close()
	pool.Stop(shutdownCtx)

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func botCommands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "start", Description: "Start the bot"},
		{Command: "practice", Description: "Practice vocabulary"},
		{Command: "review", Description: "Review grammar exercises that are due"},
		{Command: "lessons", Description: "List grammar lessons"},
		{Command: "lesson", Description: "Practice a lesson (usage: /lesson <id>)"},
		{Command: "progress", Description: "Show progress"},
		{Command: "skip", Description: "Show the answer and move on"},
		{Command: "stop", Description: "End the current session"},
		{Command: "reset", Description: "Delete all progress"},
	}
}
