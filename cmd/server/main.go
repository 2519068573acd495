package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/achyuthrachur/KYC-Analysis-Dashboard/internal/api"
	"github.com/achyuthrachur/KYC-Analysis-Dashboard/internal/config"
	"github.com/achyuthrachur/KYC-Analysis-Dashboard/internal/monitoring"
	"github.com/achyuthrachur/KYC-Analysis-Dashboard/internal/snapshot"
	"github.com/achyuthrachur/KYC-Analysis-Dashboard/internal/storage"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func newLogger(level string) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		lvl,
	)
	return zap.New(core, zap.AddCaller())
}

func main() {
	// Resolve config next to the executable
	exePath, err := os.Executable()
	if err != nil {
		fmt.Printf("Failed to get executable path: %v\n", err)
		os.Exit(1)
	}
	exeDir := filepath.Dir(exePath)

	configPath := filepath.Join(exeDir, "kyc-dashboard.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Printf("Failed to create directories: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg.Log.Level)
	defer log.Sync()

	metrics := monitoring.NewMetrics()

	store, err := storage.NewLocalStore(cfg.Storage.ReportsDirectory)
	if err != nil {
		log.Fatal("failed to initialize storage", zap.Error(err))
	}

	loader := snapshot.NewLoader(metrics, log)
	hub := api.NewUpdateHub(log)

	// Warm the snapshot cache; a missing file is the normal first-run state.
	if snap, err := loader.Load(cfg.Storage.SnapshotFile); err != nil {
		log.Warn("initial snapshot load failed", zap.Error(err))
	} else if snap.Missing {
		log.Info("no snapshot file yet", zap.String("path", cfg.Storage.SnapshotFile))
	}

	// Auto-refresh on snapshot file changes
	if cfg.Refresh.WatchSnapshot {
		watcher, err := snapshot.NewWatcher(loader, cfg.Storage.SnapshotFile, hub.BroadcastSnapshotUpdated, log)
		if err != nil {
			log.Warn("snapshot watcher disabled", zap.Error(err))
		} else {
			defer watcher.Close()
		}
	}

	h := api.NewHandler(cfg, loader, store, metrics, hub, log, Version)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.ErrorHandler

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			if !cfg.Log.EnableRequestLogging {
				return true
			}
			path := c.Request().URL.Path
			return path == "/api/health" || path == "/metrics"
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
	}))

	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return strings.Contains(path, "/ws/") || strings.Contains(path, "/upload")
		},
		ErrorMessage: "Request timeout - query took too long",
	}))

	e.Use(middleware.Gzip())
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	if cfg.Server.EnableCORS {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	// API Routes
	apiGroup := e.Group("/api")

	apiGroup.GET("/health", h.HandleHealth)
	apiGroup.GET("/ws/updates", hub.HandleUpdates)

	// Dashboard data
	apiGroup.GET("/snapshot", h.HandleGetSnapshot)
	apiGroup.GET("/managers", h.HandleGetManagers)
	apiGroup.GET("/records", h.HandleGetRecords)
	apiGroup.GET("/records/msgpack", h.HandleGetRecordsMsgpack)
	apiGroup.GET("/aggregates/buckets", h.HandleGetBucketCounts)
	apiGroup.GET("/aggregates/bucket-risk", h.HandleGetBucketByRisk)
	apiGroup.POST("/refresh", h.HandleRefresh)

	// Source report management
	apiGroup.POST("/reports/upload", h.HandleUploadReport)
	apiGroup.GET("/reports/recent", h.HandleRecentReports)
	apiGroup.GET("/reports/:id", h.HandleGetReport)
	if cfg.Security.AllowReportDeletion {
		apiGroup.DELETE("/reports/:id", h.HandleDeleteReport)
	}

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	fmt.Printf("\n")
	fmt.Printf("╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║           KYC Expiry Dashboard Server                     ║\n")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Version:    %-45s║\n", Version)
	fmt.Printf("║  Build Time: %-45s║\n", BuildTime)
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Config:    %-46s║\n", configPath)
	fmt.Printf("║  Listen:    http://%-38s║\n", cfg.GetServerAddr())
	fmt.Printf("║  Snapshot:  %-46s║\n", cfg.Storage.SnapshotFile)
	fmt.Printf("╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Printf("\n")

	e.Logger.Fatal(e.StartServer(s))
}
