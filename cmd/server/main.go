package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/lysyi3m/reddit-comb/app/api"
	"github.com/lysyi3m/reddit-comb/app/cache"
	"github.com/lysyi3m/reddit-comb/app/cfg"
	"github.com/lysyi3m/reddit-comb/app/export"
	"github.com/lysyi3m/reddit-comb/app/forum"
	"github.com/lysyi3m/reddit-comb/app/reddit"
	"github.com/lysyi3m/reddit-comb/app/rpc"
	"github.com/lysyi3m/reddit-comb/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	setupLogger(appCfg.Debug)

	slog.Info("Starting reddit-comb server", "version", appCfg.Version, "stdio", appCfg.Stdio)

	configCache := forum.NewConfigCache(appCfg.ForumsDir, appCfg.ForumDefaults())
	if err := configCache.Run(); err != nil {
		slog.Error("Failed to load forum configurations", "error", err)
		os.Exit(1)
	}
	slog.Info("Forum configurations loaded", "dir", appCfg.ForumsDir, "count", configCache.GetConfigCount())

	httpClient := &http.Client{Timeout: time.Duration(appCfg.RequestTimeout) * time.Second}
	exporter := export.NewExporter(
		appCfg,
		configCache,
		reddit.NewAuthenticator(appCfg.UserAgent, httpClient),
		reddit.NewFeedSource(reddit.DefaultFeedURL, appCfg.UserAgent, httpClient),
		tasks.NewRunner(appCfg.WorkerCount, appCfg.GetTaskTimeout()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var reportCache *cache.Cache
	if appCfg.RedisAddr != "" {
		reportCache, err = cache.NewCache(ctx, appCfg.RedisAddr)
		if err != nil {
			slog.Warn("Report cache disabled", "error", err)
		} else {
			defer reportCache.Close()
			exporter.WithCache(reportCache)
		}
	}

	forums := toolForums(appCfg.DefaultForums, configCache.GetNames())
	dispatcher := rpc.NewDispatcher(exporter, forums)

	if appCfg.Stdio {
		if err := rpc.ServeStdio(ctx, rpc.NewMCPServer(dispatcher)); err != nil && ctx.Err() == nil {
			slog.Error("MCP stdio server error", "error", err)
			os.Exit(1)
		}
		slog.Info("MCP stdio server stopped")
		return
	}

	handler := api.NewHandler(dispatcher, configCache, forums, appCfg.Version)
	if reportCache != nil {
		handler.WithCacheHealth(reportCache)
	}

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler, appCfg.APIAccessKey),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: appCfg.GetTaskTimeout() + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port, "mcp", "/mcp", "health", "/health")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("reddit-comb server shutdown complete")
}

// toolForums lists the default forums first, then any other configured forum.
func toolForums(defaults, configured []string) []string {
	forums := slices.Clone(defaults)
	for _, name := range configured {
		if !slices.Contains(forums, name) {
			forums = append(forums, name)
		}
	}
	return forums
}

// Logs go to stderr so that stdout stays free for the MCP stdio transport.
func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
