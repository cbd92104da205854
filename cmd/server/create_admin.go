package main

import (
	"context"

	"github.com/spf13/cobra"

	"garagy/internal/auth"
	"garagy/internal/config"
	"garagy/internal/entities"
	"garagy/internal/logger"
	"garagy/internal/repository"
	"garagy/internal/service"
)

func newCreateAdminCmd(cfg *config.Config) *cobra.Command {
	var req entities.RegisterRequest

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account together with its garage",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := logger.FromContext(ctx)

			store, err := openStore(ctx, *cfg, l)
			if err != nil {
				return err
			}
			defer store.Close(context.WithoutCancel(ctx))

			svc := service.NewAdminAuthService(
				repository.NewAdminAuthRepository(store),
				repository.NewGarageRepository(store, l),
				auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL),
				l,
			)
			admin, err := svc.Register(ctx, req)
			if err != nil {
				return err
			}
			cmd.Printf("admin %s created for garage %s\n", admin.Email, admin.GarageID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "admin email")
	cmd.Flags().StringVar(&req.Password, "password", "", "admin password, at least 8 characters")
	cmd.Flags().StringVar(&req.GarageName, "garage-name", "", "name of the garage the admin manages")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	cmd.MarkFlagRequired("garage-name")
	return cmd
}
