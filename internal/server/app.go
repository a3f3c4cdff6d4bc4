// Package server initializes and runs the Lumen application server. It loads
// persisted state into the in-memory stores, starts the HTTP endpoint and a
// background snapshot loop, and flushes dirty state on graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/lumenfest/lumen/internal/logging"
	"github.com/lumenfest/lumen/internal/server/chat"
	"github.com/lumenfest/lumen/internal/server/config"
	"github.com/lumenfest/lumen/internal/server/httpapi"
	"github.com/lumenfest/lumen/internal/server/metrics"
	"github.com/lumenfest/lumen/internal/server/quests"
	"github.com/lumenfest/lumen/internal/server/ratelimit"
	"github.com/lumenfest/lumen/internal/server/storage"
	"github.com/lumenfest/lumen/internal/server/users"
)

type App struct {
	config *config.Config
	logger logging.Logger

	store   storage.Store
	metrics *metrics.Metrics

	userStore    *users.Store
	userService  *users.Service
	chatLog      *chat.Log
	chatService  *chat.Service
	questService *quests.Service
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	store, err := storage.Open(ctx, c.DatabaseDSN, c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	if c.S3Bucket != "" {
		mirrored, err := storage.NewMirrorStore(ctx, store, storage.S3Options{
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			RootUser:     c.S3RootUser,
			RootPassword: c.S3RootPassword,
		}, logger)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("s3 mirror init error: %w", err)
		}
		store = mirrored
	}

	userStore := users.NewStore()
	userService := users.NewService(userStore)
	chatLog := chat.NewLog()
	chatService := chat.NewService(chatLog, userService)
	questService := quests.NewService(questAnswers(c), quests.Secrets{
		Decoy:       c.HackDecoyPassword,
		Easy:        c.HackEasyPassword,
		Hard:        c.HackHardPassword,
		RedirectURL: c.HackRedirectURL,
	}, userService)

	app := &App{
		config:       c,
		logger:       logger,
		store:        store,
		metrics:      metrics.New(),
		userStore:    userStore,
		userService:  userService,
		chatLog:      chatLog,
		chatService:  chatService,
		questService: questService,
	}

	if err := app.restore(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return app, nil
}

func questAnswers(c *config.Config) quests.Answers {
	answers := make(quests.Answers, len(c.QuestAnswers))
	for category, tiers := range c.QuestAnswers {
		answers[category] = make(map[users.Difficulty]string, len(tiers))
		for difficulty, answer := range tiers {
			answers[category][users.Difficulty(difficulty)] = answer
		}
	}
	return answers
}

// restore seeds the in-memory state from storage. A load failure is not
// fatal: the site starts empty rather than refusing to boot.
func (app *App) restore(ctx context.Context) error {
	snap, err := app.store.LoadUsers(ctx)
	if err != nil {
		app.logger.Error(ctx, "loading user state failed, starting empty", "error", err)
	} else if snap != nil {
		app.userStore.Seed(snap)
		app.logger.Info(ctx, "user state restored", "users", len(snap.Users))
	}

	messages, err := app.store.LoadMessages(ctx)
	if err != nil {
		app.logger.Error(ctx, "loading chat log failed, starting empty", "error", err)
	} else if len(messages) > 0 {
		app.chatLog.Seed(messages)
		app.logger.Info(ctx, "chat log restored", "messages", len(messages))
	}
	return nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	api := httpapi.New(
		app.userService, app.chatService, app.questService,
		ratelimit.New(app.config.RateLimit, app.config.RateLimitWindow),
		app.metrics, app.logger,
		app.config.AdminUser, app.config.AdminPassword,
	)

	s := httpapi.NewServer(app.config.EndpointAddr, api.Router(), app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.runSnapshotLoop(ctx)
	}()

	wg.Wait()

	// Final flush; the snapshot loop is already stopped.
	flushCtx := context.Background()
	app.flush(flushCtx)
	if err := app.store.Close(); err != nil {
		app.logger.Error(flushCtx, "closing storage failed", "error", err)
	}
	app.logger.Info(flushCtx, "app stopped")
}
