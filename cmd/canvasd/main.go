// Command canvasd serves the architecture canvas: a REST surface for
// committing edits, a websocket stream of render projections, and
// snapshot save/restore backed by BadgerDB with a sqlite history
// mirror.
//
// Usage:
//
//	go run ./cmd/canvasd
//	go run ./cmd/canvasd -addr :9090 -config canvasd.yaml
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/archcanvas/archcanvas/internal/applog"
	"github.com/archcanvas/archcanvas/internal/config"
	"github.com/archcanvas/archcanvas/internal/domain"
	"github.com/archcanvas/archcanvas/internal/layout"
	"github.com/archcanvas/archcanvas/internal/orchestrator"
	"github.com/archcanvas/archcanvas/internal/persistence"
	"github.com/archcanvas/archcanvas/internal/render"
	"github.com/archcanvas/archcanvas/internal/telemetry"
	"github.com/archcanvas/archcanvas/internal/viewstate"
	badger "github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var snapshotTTL time.Duration

func nowTime() time.Time { return time.Now() }
func nowUnix() int64     { return time.Now().Unix() }

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	configPath := flag.String("config", "", "Path to canvasd.yaml (optional; defaults apply if absent)")
	dataDir := flag.String("data-dir", "./canvas-data", "Directory for the BadgerDB snapshot store and sqlite mirror")
	dev := flag.Bool("dev", false, "Enable development logging (text, with source locations)")
	flag.Parse()

	logger := applog.New(applog.Options{Development: *dev, Level: slog.LevelInfo})

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	snapshotTTL = time.Duration(cfg.SnapshotTTLHours) * time.Hour

	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		logger.Error("failed to create data directory", "path", *dataDir, "error", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	providers, err := telemetry.Setup("canvasd", reg)
	if err != nil {
		logger.Error("failed to set up telemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(ctx); err != nil {
			logger.Warn("telemetry shutdown error", "error", err)
		}
	}()

	db, err := badger.Open(badger.DefaultOptions(*dataDir + "/badger").WithLogger(nil))
	if err != nil {
		logger.Error("failed to open snapshot store", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	store, err := persistence.NewStore(db, logger)
	if err != nil {
		logger.Error("failed to construct snapshot store", "error", err)
		os.Exit(1)
	}

	mirror, err := persistence.NewMirror(*dataDir + "/history.sqlite3")
	if err != nil {
		logger.Error("failed to open sqlite history mirror", "error", err)
		os.Exit(1)
	}
	defer func() { _ = mirror.Close() }()

	g, vs := domain.New(), viewstate.New()
	if snap, found, err := store.Load(context.Background(), nowTime(), snapshotTTL); err != nil {
		logger.Error("failed to load snapshot", "error", err)
		os.Exit(1)
	} else if found {
		g, vs = persistence.Restore(snap)
		logger.Info("restored snapshot", "scopeId", snap.ScopeID)
	}

	layoutCfg := layout.Config{
		GridSize:         cfg.GridSize,
		ContainerPadding: cfg.ContainerPadding,
		DefaultNodeW:     cfg.DefaultNodeW,
		DefaultNodeH:     cfg.DefaultNodeH,
		DefaultGroupW:    cfg.DefaultGroupW,
		DefaultGroupH:    cfg.DefaultGroupH,
	}

	layoutOpts := layout.Options{Direction: "horizontal", Spacing: int(cfg.PortEdgeSpacing)}
	ws := newHub(logger, render.Project(g, vs))
	core := orchestrator.New(g, vs, layout.NewTreeEngine(), layoutCfg, layoutOpts, logger, ws.broadcast)

	handlers := NewHandlers(core, store, logger)
	r := newRouter(handlers, ws)
	r.GET("/metrics", metricsHandler(reg))

	core.Subscribe(func(orchestrator.Signal) {
		snap := core.Capture("autosave", nowUnix)
		if err := mirror.Record(context.Background(), snap); err != nil {
			logger.Warn("failed to record history mirror row", "error", err)
		}
	})

	srv := &http.Server{Addr: *addr, Handler: r}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		logger.Info("shutting down canvasd")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		snap := core.Capture("shutdown", nowUnix)
		if err := store.Save(ctx, snap); err != nil {
			logger.Warn("failed to save snapshot on shutdown", "error", err)
		}
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("graceful shutdown failed", "error", err)
		}
	}()

	logger.Info("canvasd listening", "addr", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func metricsHandler(reg *prometheus.Registry) gin.HandlerFunc {
	h := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return func(c *gin.Context) { h.ServeHTTP(c.Writer, c.Request) }
}
