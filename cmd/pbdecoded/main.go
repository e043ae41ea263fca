package main

import (
	"flag"

	"github.com/danmuck/pbdecode/internal/config"
	"github.com/danmuck/pbdecode/internal/observability"
	"github.com/danmuck/pbdecode/internal/server"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "service config (TOML); defaults apply when empty")
	flag.Parse()

	logger := observability.InitLogger("pbdecoded")
	cfg := config.DefaultServerConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadServerConfig(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load server config")
		}
		log.Info().Str("path", *configPath).Msg("loaded server config")
	}

	srv := server.New(cfg, logger)
	if err := srv.Serve(); err != nil {
		log.Fatal().Err(err).Msg("decode service stopped")
	}
}
