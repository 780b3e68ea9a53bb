package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dayboard/dayboard/internal/config"
	"github.com/dayboard/dayboard/internal/events"
	"github.com/dayboard/dayboard/internal/server"
	"github.com/dayboard/dayboard/internal/views/repository"
	"github.com/dayboard/dayboard/internal/views/service"
	"github.com/dayboard/dayboard/pkg/logger"
	"github.com/dayboard/dayboard/pkg/metrics"
)

// Standalone blog view counter: only the /views API, no Redis fan-out.
func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if port := os.Getenv("VIEWS_SERVICE_PORT"); port != "" {
		cfg.Server.Port = port
	}
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	svc := service.NewMemoryService(events.NopPublisher{}, repository.WithWindow(cfg.Views.Window))
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r := server.New(cfg, server.Options{Views: svc})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("views service listening on %s (window=%s)", addr, cfg.Views.Window)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
