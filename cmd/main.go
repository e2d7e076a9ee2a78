package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"

	"github.com/reef111qq/playlist-buddy/internal/library"
	"github.com/reef111qq/playlist-buddy/internal/services"
	"github.com/reef111qq/playlist-buddy/internal/shared"
	"github.com/reef111qq/playlist-buddy/internal/tasks"
)

const configPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	var tokens *services.OAuthTokenProvider
	if oauthCfg, err := services.NewOAuthConfig(config.Credentials.Spotify); err == nil {
		tokens = services.NewOAuthTokenProvider(oauthCfg, config.Credentials.Spotify.Token(), func(token *oauth2.Token) {
			if err := config.Credentials.Spotify.Update(token); err != nil {
				return
			}
			if err := shared.SaveConfig(configPath, config); err != nil {
				logger.Warn("failed to persist refreshed token", "error", err)
			}
		})
	}

	spotify := services.NewSpotifyService(tokens, services.SpotifyOpts{
		PageSize: config.Fetch.PageSize,
		Logger:   logger,
	})

	store := library.NewStore()
	resolver := library.NewGenreResolver(spotify, config.Fetch, logger)
	engine := library.NewEngine(spotify, resolver, store, config.Fetch, logger)
	assistant := library.NewAssistant(engine, services.NewChatService(config.Chat), logger)
	exporter := tasks.NewExporter(spotify, logger)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Spotify:    spotify,
		Tokens:     tokens,
		Engine:     engine,
		Assistant:  assistant,
		Exporter:   exporter,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "buddy",
		Usage:    "Grow Spotify playlists from your own library, by genre or by chat",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
