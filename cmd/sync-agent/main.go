// The sync agent keeps a local mirror of the remote collections: it polls
// through the gateway, logs each observation with its source, and leaves the
// mirror ready for offline reads when the remote goes away.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/mirror"
	syncgw "github.com/xasanboymatvafayev/it-ustoz-sub000/internal/sync"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/config"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	store, err := mirror.Open(cfg.Sync.MirrorPath)
	if err != nil {
		logr.Sugar().Fatalw("failed to open mirror", "path", cfg.Sync.MirrorPath, "error", err)
	}
	defer store.Close()

	gateway := syncgw.New(cfg.Sync, store, logr)
	poller := syncgw.NewPoller(gateway, cfg.Sync.PollInterval, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	feed := poller.Subscribe(ctx,
		mirror.CollectionUsers,
		mirror.CollectionCourses,
		mirror.CollectionTasks,
		mirror.CollectionResults,
		mirror.CollectionRequests,
	)
	defer feed.Close()

	logr.Sugar().Infow("sync agent started",
		"remote", cfg.Sync.BaseURL, "interval", cfg.Sync.PollInterval, "mirror", cfg.Sync.MirrorPath)

	for {
		select {
		case <-ctx.Done():
			logr.Info("sync agent stopping")
			return
		case update, ok := <-feed.Updates():
			if !ok {
				return
			}
			logr.Debug("collection observed",
				zap.String("collection", update.Collection),
				zap.String("source", string(update.Source)),
				zap.Bool("remote_live", gateway.RemoteLive()))
		}
	}
}
