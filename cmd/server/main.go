package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/agencyops/backoffice/internal/config"
	"github.com/agencyops/backoffice/internal/domain/board"
	"github.com/agencyops/backoffice/internal/domain/collection"
	"github.com/agencyops/backoffice/internal/domain/schema"
	"github.com/agencyops/backoffice/internal/mcp"
	"github.com/agencyops/backoffice/internal/sqlite"
	"github.com/agencyops/backoffice/migrations"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		logWriter = &lumberjack.Logger{
			Filename:   cfg.Log.Path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     30, // days
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(migrations.FS); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	rowRepo := sqlite.NewRowRepository(db)
	boardRepo := sqlite.NewBoardRowRepository(db)
	configRepo := sqlite.NewConfigRepository(db)

	ctx := context.Background()

	collections := make(map[string]*collection.Store, len(cfg.Modules))
	registries := make(map[string]*schema.Registry, len(cfg.Modules))
	for _, mod := range cfg.Modules {
		registry := schema.NewRegistry(mod.Name, configRepo, logger)
		store := collection.NewStore(collection.Config{
			Module:     mod.Name,
			LabelField: mod.LabelField,
			Reset: collection.ResetRule{
				Notes:        mod.Reset.Notes,
				Attachments:  mod.Reset.Attachments,
				StatusFields: mod.Reset.StatusFields,
				Fields:       mod.Reset.Fields,
			},
		}, rowRepo, registry, logger)
		registry.SetCascader(store)

		if err := registry.Load(ctx); err != nil {
			logger.Error("failed to load module schema", "module", mod.Name, "error", err)
			os.Exit(1)
		}
		if err := store.Reload(ctx); err != nil {
			logger.Error("failed to load module rows", "module", mod.Name, "error", err)
			os.Exit(1)
		}

		collections[mod.Name] = store
		registries[mod.Name] = registry
	}

	engine := board.NewEngine(cfg.Board.Module, boardRepo, logger)
	if err := engine.Reload(ctx); err != nil {
		logger.Error("failed to load board", "error", err)
		os.Exit(1)
	}
	if err := engine.EnsureDefaults(ctx); err != nil {
		logger.Error("failed to seed board columns", "error", err)
		os.Exit(1)
	}

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Collections: collections,
			Registries:  registries,
			Board:       engine,
		},
		Logger: logger,
	})

	if cfg.Transport.Mode == "stdio" {
		runStdioMode(logger, mcpServer)
	} else {
		runHTTPMode(logger, mcpServer, cfg.Server.Host, cfg.Server.Port)
	}
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server) {
	logger.Info("starting stdio transport")

	transport := &sdkmcp.StdioTransport{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, transport); err != nil {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

func runHTTPMode(logger *slog.Logger, mcpServer *sdkmcp.Server, host string, port int) {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := http.NewServeMux()
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/", mcpHandler)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
