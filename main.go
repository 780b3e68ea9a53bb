package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/dayboard/dayboard/internal/config"
	"github.com/dayboard/dayboard/internal/events"
	msgrepo "github.com/dayboard/dayboard/internal/message/repository"
	msgservice "github.com/dayboard/dayboard/internal/message/service"
	"github.com/dayboard/dayboard/internal/server"
	viewrepo "github.com/dayboard/dayboard/internal/views/repository"
	viewservice "github.com/dayboard/dayboard/internal/views/service"
	"github.com/dayboard/dayboard/pkg/logger"
	"github.com/dayboard/dayboard/pkg/metrics"
)

func main() {
	// LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	pub, probes, closeRedis := connectEvents(cfg)
	defer closeRedis()

	policy, err := msgrepo.ParseIDPolicy(cfg.Messages.IDPolicy)
	if err != nil {
		logger.Fatalf("invalid message id policy: %v", err)
	}
	messages := msgservice.NewMemoryService(pub, msgrepo.WithIDPolicy(policy))
	views := viewservice.NewMemoryService(pub, viewrepo.WithWindow(cfg.Views.Window))

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r := server.New(cfg, server.Options{Messages: messages, Views: views, Probes: probes})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("config summary: env=%s messages=%s (ids=%s) views=%s (window=%s) redis=%v",
		cfg.Server.Environment, cfg.Messages.Prefix, cfg.Messages.IDPolicy, cfg.Views.Prefix, cfg.Views.Window, cfg.Redis.Addr() != "")
	run(addr, cfg, r)
}

// connectEvents picks the Redis publisher when Redis is configured and
// reachable, otherwise events are dropped.
func connectEvents(cfg *config.Config) (events.Publisher, []server.Probe, func()) {
	if cfg.Redis.Addr() == "" {
		return events.NopPublisher{}, nil, func() {}
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr(), Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	pub := events.NewRedisPublisher(client, cfg.Events.Channel)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pub.Ping(ctx); err != nil {
		logger.Warnf("failed to connect to Redis (%s): %v; events will fail until it is reachable", cfg.Redis.Addr(), err)
	} else {
		logger.Infof("publishing change events to Redis %s channel %q", cfg.Redis.Addr(), pub.Channel())
	}
	probe := server.Probe{Name: "redis", Check: pub.Ping}
	return pub, []server.Probe{probe}, func() { _ = client.Close() }
}

func run(addr string, cfg *config.Config, h http.Handler) {
	srv := &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("starting dayboard on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}
