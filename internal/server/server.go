package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dayboard/dayboard/handlers"
	"github.com/dayboard/dayboard/internal/config"
	msghandler "github.com/dayboard/dayboard/internal/message/handler"
	msgservice "github.com/dayboard/dayboard/internal/message/service"
	viewhandler "github.com/dayboard/dayboard/internal/views/handler"
	viewservice "github.com/dayboard/dayboard/internal/views/service"
	"github.com/dayboard/dayboard/pkg/middleware"
)

var startTime = time.Now()

// Probe is a readiness dependency. Check returns nil when the dependency is usable.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

// Options selects which APIs are mounted. A nil service skips its routes.
type Options struct {
	Messages msgservice.Service
	Views    viewservice.Service
	Probes   []Probe
}

// New builds the gin engine with the shared middleware stack, operational
// endpoints and whichever APIs opts provides.
func New(cfg *config.Config, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestLogger(), middleware.Recovery(), middleware.SecureHeaders())

	methods := []string{http.MethodGet, http.MethodPost}
	if opts.Messages != nil {
		methods = append(methods, http.MethodPut, http.MethodDelete)
	}
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins, methods...))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", readiness(opts.Probes))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterSwagger(r)

	if opts.Messages != nil {
		msghandler.RegisterMessageRoutes(r.Group(cfg.Messages.Prefix), opts.Messages, cfg.Messages.MaxLength)
	}
	if opts.Views != nil {
		viewhandler.RegisterViewRoutes(r.Group(cfg.Views.Prefix), opts.Views)
	}
	return r
}

// readiness returns 200 only when every probe passes.
func readiness(probes []Probe) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		ready := true
		deps := map[string]bool{"storage": true}
		for _, p := range probes {
			ok := p.Check(ctx) == nil
			deps[p.Name] = ok
			ready = ready && ok
		}
		uptime := time.Since(startTime).Round(time.Second).String()
		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": uptime})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": uptime})
	}
}
