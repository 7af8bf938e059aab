package main

import (
	"context"
	"errors"
	"fmt"
	"levercast/internal/api"
	"levercast/internal/config"
	"levercast/internal/waitlist"
	"levercast/pkg/logger"
	"levercast/pkg/mailer"
	"levercast/pkg/mailer/resend"
	"levercast/pkg/mailer/smtp"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newSender builds the email provider selected by the configuration. The
// credential comes from the configuration only.
func newSender(cfg *config.Config) (mailer.Sender, error) {
	switch cfg.Mailer.Provider {
	case config.ProviderResend:
		return resend.New(
			&http.Client{Timeout: cfg.Mailer.Resend.Timeout},
			cfg.Mailer.Resend.BaseURL,
			cfg.Mailer.Resend.APIKey,
		), nil
	case config.ProviderSMTP:
		return smtp.New(smtp.Options{
			Host:     cfg.Mailer.SMTP.Host,
			Port:     cfg.Mailer.SMTP.Port,
			Username: cfg.Mailer.SMTP.Username,
			Password: cfg.Mailer.SMTP.Password,
		}), nil
	default:
		return nil, fmt.Errorf("unknown mailer provider %q", cfg.Mailer.Provider)
	}
}

func setupServer(ctx context.Context, cfg *config.Config, notifier waitlist.Notifier) func(ctx context.Context) {
	server, err := api.NewServer(api.Deps{Notifier: notifier}, api.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create webserver", zap.Error(err))
	}

	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the waitlist relay API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// refuse to start without a usable provider configuration
			if err := cfg.Validate(); err != nil {
				logger.Error(ctx, "invalid configuration", zap.Error(err))

				return err //nolint: wrapcheck
			}

			sender, err := newSender(cfg)
			if err != nil {
				return err
			}
			logger.Info(ctx, "email provider configured", zap.String("provider", cfg.Mailer.Provider))

			stopWebserver := setupServer(ctx, cfg, waitlist.New(sender, waitlist.NewOptions(cfg)))

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)

			return nil
		},
	}

	return cmd
}
