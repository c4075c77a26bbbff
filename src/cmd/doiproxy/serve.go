package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"doiproxy/src/internal/server"
)

func newServeCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve GET /api/doi/{doi} over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			log := newLogger(cfg)
			log.Info("starting", map[string]any{
				"version":  Version,
				"port":     cfg.Port,
				"endpoint": cfg.Endpoint,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			srv := server.New(cfg.Addr(), newFetcher(cfg, log), log)
			return serveHTTP(ctx, srv)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides config and PORT)")
	return cmd
}
