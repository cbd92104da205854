package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"garagy/internal/api"
	"garagy/internal/auth"
	"garagy/internal/config"
	"garagy/internal/detection"
	"garagy/internal/layout"
	"garagy/internal/logger"
	"garagy/internal/repository"
	"garagy/internal/service"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the snapshot scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.RequireJWTSecret(); err != nil {
				return err
			}
			return serve(cmd.Context(), *cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	l := logger.FromContext(ctx)

	store, err := openStore(ctx, cfg, l)
	if err != nil {
		return err
	}
	defer store.Close(context.WithoutCancel(ctx))

	previews, closePreviews, err := openPreviews(ctx, cfg, l)
	if err != nil {
		return err
	}
	defer closePreviews()

	blobs := repository.NewDiskBlobStore(cfg.UploadDir, cfg.PublicBaseURL)
	garages := repository.NewGarageRepository(store, l)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	layouts := service.NewLayoutService(garages, layout.UUIDGenerator{}, cfg.EmergencySection, l)
	reservations := service.NewReservationService(layouts, repository.NewOccupantRepository(store), newNotifier(cfg, l), l)
	detections := service.NewDetectionService(
		detection.NewClient(cfg.DetectionURL, cfg.DetectionTimeout, cfg.DetectionRate),
		previews, blobs, layouts, cfg.PreviewTTL, l,
	)
	gates := service.NewGateService(
		detection.NewPlateClient(cfg.PlateURL, cfg.DetectionTimeout, cfg.DetectionRate),
		blobs, repository.NewGateRepository(store), l,
	)
	jobs := service.NewJobService(garages, repository.NewJobRepository(store, l), cfg.SnapshotRetention, l)
	adminAuth := service.NewAdminAuthService(repository.NewAdminAuthRepository(store), garages, tokens, l)

	c := cron.New()
	if err := jobs.Schedule(c, cfg.SnapshotSchedule); err != nil {
		return err
	}
	c.Start()
	defer c.Stop()

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: api.NewRouter(api.RouterConfig{
			Tokens:      tokens,
			AdminAuth:   api.NewAdminAuthHandler(adminAuth, l),
			Admin:       api.NewAdminHandler(layouts, reservations, service.NewExportService(layouts, l), l),
			Detection:   api.NewDetectionHandler(detections, l),
			Gate:        api.NewGateHandler(gates, jobs, l),
			Garage:      api.NewGarageHandler(service.NewGarageService(garages, l), l),
			Store:       store,
			UploadDir:   cfg.UploadDir,
			CORSOrigins: cfg.CORSOrigins,
			Logger:      l,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		l.Info("server running", "port", cfg.Port, "store", cfg.StoreDriver)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	l.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newNotifier wires whichever notice channels are configured. A disabled
// channel stays a nil interface.
func newNotifier(cfg config.Config, l *log.Logger) service.Notifier {
	var email service.EmailSender
	if s := service.NewSendGridSender(cfg.SendGridAPIKey, cfg.SendGridFromEmail, cfg.SendGridFromName, l); s != nil {
		email = s
	}
	var sms service.SMSSender
	if s := service.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, l); s != nil {
		sms = s
	}
	if email == nil && sms == nil {
		return nil
	}
	return service.NewSenderService(email, sms, cfg.SendGridFromName, l)
}
