// Package main runs the reaction poll bot with an optional event feed, event
// journal and status API, and shuts down gracefully on SIGINT/SIGTERM.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sgdc3/reactord/config"
	"github.com/sgdc3/reactord/internal/bot"
	"github.com/sgdc3/reactord/internal/discord"
	"github.com/sgdc3/reactord/internal/events"
	"github.com/sgdc3/reactord/internal/journal"
	"github.com/sgdc3/reactord/internal/polls"
	"github.com/sgdc3/reactord/internal/realtime"
	"github.com/sgdc3/reactord/internal/status"
	"github.com/sgdc3/reactord/pkg/database"
	"github.com/sgdc3/reactord/pkg/redis"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <bot-token>\n", os.Args[0])
		os.Exit(1)
	}
	token := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	publishers := events.Fanout{events.NewLogPublisher(logger)}

	if cfg.Redis.Enabled {
		rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		if err != nil {
			logger.Fatal("redis", zap.Error(err))
		}
		defer rdb.Close()
		publishers = append(publishers, events.NewRedisPublisher(rdb.Client, cfg.Redis.Channel, logger))
	}

	var eventSource status.EventSource
	if cfg.Database.URL != "" {
		pool, err := database.NewPostgresPool(ctx, cfg.Database.URL, logger)
		if err != nil {
			logger.Fatal("database", zap.Error(err))
		}
		defer pool.Close()

		if err := database.Migrate(ctx, pool); err != nil {
			logger.Fatal("migrate", zap.Error(err))
		}
		repo := journal.NewRepository(pool)
		publishers = append(publishers, repo)
		eventSource = repo
	}

	var hub *realtime.Hub
	if cfg.Status.Enabled {
		hub = realtime.NewHub(logger)
		publishers = append(publishers, hub)
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		logger.Fatal("discord session", zap.Error(err))
	}
	session.Identify.Intents = discord.Intents
	discord.RouteLogs(session, logger)

	registry := polls.NewRegistry()
	b := bot.New(discord.NewPlatform(session), registry, publishers, bot.Options{
		Trigger:            cfg.Bot.Trigger,
		CommandAliases:     cfg.Bot.CommandAliases,
		BackfillLimit:      cfg.Bot.BackfillLimit,
		SkipEmptyPolls:     !cfg.Bot.RegisterEmptyPolls,
		RetractConcurrency: cfg.Bot.RetractConcurrency,
	}, logger)

	removeHandlers := discord.NewRouter(ctx, b, logger).Register(session)
	defer removeHandlers()

	if err := session.Open(); err != nil {
		logger.Fatal("discord connect", zap.Error(err))
	}
	logger.Info("bot connected", zap.Strings("command_aliases", cfg.Bot.CommandAliases))

	var srv *http.Server
	if cfg.Status.Enabled {
		gin.SetMode(gin.ReleaseMode)
		statusHandler := status.NewHandler(registry, eventSource, logger)
		statusHandler.SetStream(hub)
		router := status.NewRouter(statusHandler, cfg.Status.AllowedOrigins, logger)
		srv = &http.Server{
			Addr:              ":" + cfg.Status.Port,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("status server listening", zap.String("port", cfg.Status.Port))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("status server", zap.Error(err))
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Stop in-flight backfills and retractions before closing the session.
	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSec)*time.Second)
	defer stop()
	if srv != nil {
		// Shutdown does not wait for hijacked websocket connections.
		hub.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("status server shutdown", zap.Error(err))
		}
	}
	if err := session.Close(); err != nil {
		logger.Error("discord close", zap.Error(err))
	}
	logger.Info("bot stopped", zap.Int("tracked_polls", registry.Len()))
}

func newLogger(level zapcore.Level) *zap.Logger {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
