package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/chosic-go/chosic/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet performs a direct GET against the catalog API and prints raw JSON.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	endpoint := cmd.StringArg("endpoint")
	if endpoint == "" {
		return fmt.Errorf("%w: endpoint required (e.g. search, track, genres)", shared.ErrMissingArgument)
	}

	var params map[string]any
	if raw := cmd.String("params"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &params); err != nil {
			return fmt.Errorf("%w: invalid params JSON: %v", shared.ErrInvalidArgument, err)
		}
	}

	r.logger.Info("direct API request", "endpoint", endpoint)

	data, err := r.client.Request(ctx, http.MethodGet, endpoint, params)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	return r.writeJSON(data, cmd.Bool("pretty"))
}
