package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/reef111qq/playlist-buddy/internal/shared"
)

// Setup writes a config.toml from the embedded template.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	r.writePlain("✓ Config created at %s\n", configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Add your Spotify client_id and client_secret (or set SPOTIFY_CLIENT_ID / SPOTIFY_CLIENT_SECRET)\n")
	r.writePlain("2. Run 'buddy auth login' to connect your account\n")
	r.writePlain("3. Run 'buddy library load' to crawl your catalog\n")
	return nil
}
