package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/chosic-go/chosic/internal/shared"
	"github.com/chosic-go/chosic/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Download fetches preview audio and cover art for one or more tracks.
//
// Accepts comma-separated track IDs or open.spotify.com URLs and runs the
// download through a bounded worker pool, printing progress as it goes.
func (r *Runner) Download(ctx context.Context, cmd *cli.Command) error {
	rawIDs := cmd.StringArg("ids")
	if rawIDs == "" {
		return fmt.Errorf("%w: track IDs required", shared.ErrMissingArgument)
	}

	var ids []string
	for _, id := range strings.Split(rawIDs, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: no valid track IDs", shared.ErrInvalidArgument)
	}

	closeCache := r.attachCache()
	defer closeCache()

	opts := tasks.BulkDownloadOpts{
		OutputDir:  r.config.Downloads.Dir,
		NumWorkers: r.config.Downloads.Workers,
		RateLimit:  r.config.Downloads.RatePerSec,
		Overwrite:  r.config.Downloads.Overwrite,
	}
	if out := cmd.String("out"); out != "" {
		opts.OutputDir = out
	}
	if workers := int(cmd.Int("workers")); workers > 0 {
		opts.NumWorkers = workers
	}
	if rate := cmd.Float("rate"); rate > 0 {
		opts.RateLimit = rate
	}
	if cmd.Bool("overwrite") {
		opts.Overwrite = true
	}

	progress := make(chan tasks.ProgressUpdate, 100)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			if update.Message != "" {
				r.writePlain("%s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.BulkDownload(ctx, progress, ids, opts)
	close(progress)
	<-done

	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	r.writePlainHeader("Download Complete")
	r.writePlain("Total: %d, succeeded: %d, failed: %d\n",
		result.TotalTracks, result.SuccessfulDownloads, result.FailedDownloads)
	r.writePlain("Output: %s\n", result.OutputDirectory)
	r.writePlain("Manifest: %s\n", result.ManifestPath)

	if result.FailedDownloads > 0 {
		r.writePlainln("Failures:")
		for _, trackResult := range result.Results {
			if !trackResult.Success {
				r.writePlain("  ✗ %s: %v\n", trackResult.TrackName, trackResult.Error)
			}
		}
	}

	return nil
}
