package main

import (
	"context"

	"github.com/spf13/cobra"

	"garagy/internal/config"
	"garagy/internal/logger"
	"garagy/internal/repository"
)

func newMigrateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the document tables or indexes of the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := logger.FromContext(ctx)

			store, err := openStore(ctx, *cfg, l)
			if err != nil {
				return err
			}
			defer store.Close(context.WithoutCancel(ctx))

			switch s := store.(type) {
			case *repository.PostgresStore:
				if err := s.Migrate(ctx); err != nil {
					return err
				}
			case *repository.MongoStore:
				if err := s.EnsureIndexes(ctx); err != nil {
					return err
				}
			default:
				l.Info("nothing to migrate", "driver", cfg.StoreDriver)
				return nil
			}
			l.Info("migration complete", "driver", cfg.StoreDriver)
			return nil
		},
	}
}
