package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/hcnav/internal/api"
	"github.com/rgehrsitz/hcnav/internal/logging"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API over the loaded profile",
		Long:  "Serve the estimate, bill, payment plan and assistance API. Bill changes live in memory for the life of the process.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}

			logger := logging.New(os.Stderr, a.settings.Env, a.settings.LogLevel)
			a.engine.SetLogger(logging.NewAdapter(logger, "calculation"))

			port := a.settings.Port
			if cmd.Flags().Changed("port") {
				port, _ = cmd.Flags().GetString("port")
			}

			session := api.NewSession(*a.profile)
			h := api.NewHandler(a.engine, *a.ref, session, a.settings.DefaultTermMonths)
			e := api.NewServer(h, api.ServerConfig{
				RateLimitRPS:   a.settings.RateLimitRPS,
				RateLimitBurst: a.settings.RateLimitBurst,
			}, logger)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info().
				Str("env", a.settings.Env).
				Int("bills", len(a.profile.Bills)).
				Msg("profile loaded")
			return api.Run(ctx, e, ":"+port, logger)
		},
	}
	cmd.Flags().String("port", "8080", "Listen port (default: PORT)")
	return cmd
}
