package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/lysyi3m/reddit-comb/app/cfg"
	"github.com/lysyi3m/reddit-comb/app/export"
	"github.com/lysyi3m/reddit-comb/app/forum"
	"github.com/lysyi3m/reddit-comb/app/reddit"
	"github.com/lysyi3m/reddit-comb/app/tasks"
)

// Usage: export [flags] [intervalHours]
func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	configCache := forum.NewConfigCache(appCfg.ForumsDir, appCfg.ForumDefaults())
	if err := configCache.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "❌ Export failed:", err)
		os.Exit(1)
	}

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

	report, err := exporter.Export(ctx, export.Params{
		IntervalHours: intervalArg(appCfg.Args),
		WriteToFile:   true,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌ Export failed:", err)
		os.Exit(1)
	}

	for _, file := range report.Files() {
		fmt.Printf("✅ Exported to %s\n", file)
	}
}

// intervalArg reads the optional positional interval. Zero defers to the
// configured interval.
func intervalArg(args []string) float64 {
	if len(args) == 0 {
		return 0
	}
	hours, err := strconv.ParseFloat(args[0], 64)
	if err != nil || math.IsNaN(hours) || math.IsInf(hours, 0) || hours <= 0 {
		return 0
	}
	return hours
}
