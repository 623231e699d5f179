package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iliyamo/homebase-finder/internal/config"
	"github.com/iliyamo/homebase-finder/internal/queue"
	"github.com/iliyamo/homebase-finder/internal/repository"
)

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Store listing activity events published by serve",
	Long: `Reads the listing.activity queue from RabbitMQ and appends every event
to the owner's activity feed.  Only needed when EVENTS_ENABLED=true.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.StorageBackend == config.BackendMemory {
			return fmt.Errorf("consume needs a shared storage backend, not %q", cfg.StorageBackend)
		}
		ctx, stop := signalContext()
		defer stop()

		rdb, err := connectRedis(ctx, cfg, logger)
		if err != nil {
			return err
		}
		if rdb != nil {
			defer rdb.Close()
		}
		store, err := openStore(cfg, rdb)
		if err != nil {
			return err
		}
		defer store.Close()

		c := queue.NewConsumer(cfg.RabbitMQURL, repository.NewActivityRepo(store), logger)
		if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
