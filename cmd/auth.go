package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"

	"github.com/reef111qq/playlist-buddy/internal/server"
	"github.com/reef111qq/playlist-buddy/internal/services"
	"github.com/reef111qq/playlist-buddy/internal/shared"
)

const oauthTimeout = 2 * time.Minute

// AuthLogin runs the OAuth2 authorization flow and persists the tokens.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config := r.config
	if config == nil {
		var err error
		if _, statErr := os.Stat(configPath); statErr == nil {
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warnf("failed to load config, using defaults %v", err)
				config = shared.DefaultConfig()
			}
		} else {
			config = shared.DefaultConfig()
		}
	}

	token, err := r.doOAuth(ctx, config)
	if err != nil {
		return err
	}

	if err := config.Credentials.Spotify.Update(token); err != nil {
		return fmt.Errorf("failed to update spotify configuration: %w", err)
	}
	if err := shared.SaveConfig(configPath, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if r.tokens != nil {
		r.tokens.SetToken(token)
	}
	r.config = config

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Tokens saved to %s\n\n", configPath)
	r.writePlain("You can now run: buddy library load\n")
	return nil
}

// AuthStatus prints the authenticated user's profile.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	profile, err := r.spotify.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("not logged in: %w", err)
	}

	r.writePlain("✓ Logged in as %s (%s)\n", profile.DisplayName, profile.ID)
	return nil
}

// AuthLogout clears stored tokens and drops the cached catalog.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if userID, err := r.currentUserID(ctx); err == nil {
		r.engine.Invalidate(userID)
	}

	r.config.Credentials.Spotify.AccessToken = ""
	r.config.Credentials.Spotify.RefreshToken = ""
	r.config.Credentials.Spotify.Expiry = ""
	if err := shared.SaveConfig(configPath, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if r.tokens != nil {
		r.tokens.SetToken(nil)
	}
	r.userID = ""

	r.writePlain("✓ Logged out\n")
	return nil
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server.
func (r *Runner) doOAuth(ctx context.Context, config *shared.Config) (*oauth2.Token, error) {
	oauthCfg, err := services.NewOAuthConfig(config.Credentials.Spotify)
	if err != nil {
		return nil, err
	}

	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	handler := server.NewOAuthHandler(oauthCfg, state)
	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Handler(handler)

	srvCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Listen(srvCtx, config.Server, router, r.logger)
	}()

	authURL := oauthCfg.AuthCodeURL(state)
	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(oauthTimeout)
	defer timeout.Stop()

	var result server.OAuthResult
	select {
	case result = <-handler.Result():
	case err := <-serverErrors:
		return nil, fmt.Errorf("callback server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}
	if result.Token == nil {
		return nil, fmt.Errorf("no token received")
	}
	return result.Token, nil
}
