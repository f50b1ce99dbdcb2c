package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"kurswatch/internal/config"
	"kurswatch/internal/logger"
	"kurswatch/internal/notify/telegram"
	"kurswatch/internal/snapshot"
	"kurswatch/internal/vhs"
	"kurswatch/internal/watch"
)

func main() {
	// .env is optional; real deployments configure the environment directly.
	_ = godotenv.Load()

	log := logger.New("watch")

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	client := vhs.New(cfg.FetchTimeout)
	client.DebugPath = cfg.DebugResponsePath

	fileStore := snapshot.NewFileStore(cfg.StateDir)
	var store snapshot.Store = fileStore
	if cfg.Mirror.Enabled() {
		store = snapshot.NewMirroredStore(fileStore, cfg.Mirror)
		log.Info("snapshot mirror enabled", slog.String("host", cfg.Mirror.Host))
	}

	notifier := telegram.New(cfg.TelegramToken, cfg.TelegramChatIDs)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	w := watch.New(client, store, notifier, log)
	hasNew, runErr := w.Run(ctx, cfg.Searches)

	// The invoking workflow keys follow-up steps off this flag, so it is
	// written even when a later search failed.
	if err := writeRunFlag(hasNew); err != nil {
		log.Warn("write run flag", slog.Any("err", err))
	}

	if runErr != nil {
		log.Error("run failed", slog.Any("err", runErr))
		os.Exit(1)
	}

	log.Info("run finished", slog.Bool("has_new", hasNew))
}

// writeRunFlag appends has_new=true|false to $GITHUB_OUTPUT when the watcher
// runs inside GitHub Actions. Outside of Actions it is a no-op.
func writeRunFlag(hasNew bool) error {
	path := os.Getenv("GITHUB_OUTPUT")
	if path == "" {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "has_new=%t\n", hasNew)
	return err
}
