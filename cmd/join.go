package main

import (
	"levercast/internal/config"
	"levercast/internal/form"
	"levercast/pkg/logger"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func joinCommand(cfg *config.Config) *cobra.Command {
	var email, endpoint string

	cmd := &cobra.Command{
		Use:   "join",
		Short: "Submits an email address to the waitlist through a running relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			c := form.New(&http.Client{Timeout: cfg.HTTP.RequestTimeout}, endpoint)
			c.Mount()
			c.SetEmail(email)

			if err := c.Submit(ctx); err != nil {
				logger.Error(ctx, "could not join the waitlist",
					zap.String("view", c.View().String()),
					zap.String("message", c.State().Error))

				return err //nolint: wrapcheck
			}

			logger.Info(ctx, "joined the waitlist", zap.String("view", c.View().String()))

			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address to submit")
	cmd.Flags().StringVar(&endpoint, "endpoint", "http://localhost:8080"+form.DefaultEndpoint, "Relay endpoint URL")

	return cmd
}
