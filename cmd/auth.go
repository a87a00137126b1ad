package main

import (
	"context"
	"fmt"

	"github.com/chosic-go/chosic/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthCurl configures the API session from a browser cURL command.
//
// Parses the cookie, nonce, app marker, and user agent out of a "Copy as
// cURL" capture and saves them into the config file.
func (r *Runner) AuthCurl(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}

	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	r.logger.Info("parsing cURL command for session headers")

	var curlHeaders *shared.CurlHeaders
	var err error

	if curlFile != "" {
		curlHeaders, err = shared.ParseCurlFile(curlFile)
		if err != nil {
			return fmt.Errorf("failed to parse cURL file: %w", err)
		}
		r.logger.Info("parsed cURL from file", "file", curlFile)
	} else {
		curlHeaders, err = shared.ParseCurlCommand([]byte(curlCmd))
		if err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}
		r.logger.Info("parsed cURL command")
	}

	if curlHeaders.Cookie != "" {
		r.config.API.Cookie = curlHeaders.Cookie
	}
	if nonce := curlHeaders.Nonce(); nonce != "" {
		r.config.API.Nonce = nonce
	}
	if app := curlHeaders.App(); app != "" {
		r.config.API.App = app
	}
	if ua := curlHeaders.UserAgent(); ua != "" {
		r.config.API.UserAgent = ua
	}

	if r.config.API.Cookie == "" && r.config.API.Nonce == "" {
		return fmt.Errorf("%w: no session credentials found in cURL command", shared.ErrInvalidArgument)
	}

	if err := shared.SaveConfig(configPath, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	r.logger.Info("session saved", "path", configPath)

	r.writePlain("✓ Session headers saved to %s\n", configPath)
	r.writePlain("Cookie: %d chars, nonce: %q, app: %q\n",
		len(r.config.API.Cookie), r.config.API.Nonce, r.config.API.App)
	r.writePlainln("Run 'chosic auth status' to verify the session.")

	return nil
}

// AuthOpen opens the Chosic site so a session request can be captured from
// the browser dev tools.
func (r *Runner) AuthOpen(ctx context.Context, cmd *cli.Command) error {
	captureURL := "https://www.chosic.com/new-releases/"

	r.writePlain("Opening %s\n", captureURL)
	r.writePlainln("In DevTools, find a request to /api/tools/, right-click it,")
	r.writePlain("choose 'Copy as cURL', then run:\n")
	r.writePlain("  chosic auth curl --curl '<paste>'\n")

	if err := shared.OpenBrowser(captureURL); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

// AuthStatus checks whether the configured session is accepted by the API.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("checking session", "base_url", r.config.API.BaseURL)

	if r.client.Handshake(ctx) {
		r.writePlain("✓ Session accepted\n")
		return nil
	}

	r.writePlain("✗ Session rejected or API unreachable\n")
	r.writePlain("Re-capture the request in your browser and run 'chosic auth curl' again.\n")
	return nil
}
