package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"garagy/internal/config"
	"garagy/internal/logger"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string
	var cfg config.Config

	root := &cobra.Command{
		Use:          "garagy",
		Short:        "Garage layout administration service",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(envFile)
			if err != nil {
				return err
			}
			cmd.SetContext(logger.WithContext(cmd.Context(), logger.New(os.Stderr, cfg.LogLevel)))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load if present")

	root.AddCommand(newServeCmd(&cfg))
	root.AddCommand(newMigrateCmd(&cfg))
	root.AddCommand(newCreateAdminCmd(&cfg))
	return root
}
