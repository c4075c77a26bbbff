package main

import (
	"context"

	"doiproxy/src/internal/config"
	"doiproxy/src/internal/crossref"
	"doiproxy/src/internal/httpx"
	"doiproxy/src/internal/logger"
	"doiproxy/src/internal/pdf"
	"doiproxy/src/internal/server"
)

// indirections for testability
var (
	newFetcher = func(cfg config.Config, log *logger.Logger) server.Fetcher {
		return crossref.NewClient(cfg.Endpoint, cfg.Contact,
			crossref.WithUserAgent(userAgent(cfg)),
			crossref.WithLogger(log),
		)
	}
	findPDFDOI = pdf.FindDOI
	serveHTTP  = func(ctx context.Context, s *server.Server) error { return s.ListenAndServe(ctx) }
)

// loadConfig reads .env, then the config file and environment.
func loadConfig() (config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return config.Config{}, err
	}
	return config.Load(configPath)
}

func userAgent(cfg config.Config) string {
	if cfg.UserAgent != "" {
		return cfg.UserAgent
	}
	return httpx.UserAgent(Version, cfg.Contact)
}

func newLogger(cfg config.Config) *logger.Logger {
	return logger.New("doiproxy").WithLevel(logger.ParseLevel(cfg.LogLevel))
}
