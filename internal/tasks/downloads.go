package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chosic-go/chosic/internal/formatter"
	"github.com/chosic-go/chosic/internal/shared"
	"golang.org/x/time/rate"
)

// BulkDownloadOpts contains configuration for bulk asset downloads.
type BulkDownloadOpts struct {
	OutputDir  string  // Base output directory (default: chosic_downloads_{epoch})
	NumWorkers int     // Concurrent workers (default: 4)
	RateLimit  float64 // Metadata requests per second (default: 2)
	Overwrite  bool    // Overwrite existing asset files
}

// BulkDownloadResult summarizes a bulk download run.
type BulkDownloadResult struct {
	TotalTracks         int                   // Number of tracks requested
	SuccessfulDownloads int                   // Tracks whose assets all saved
	FailedDownloads     int                   // Tracks with at least one failure
	OutputDirectory     string                // Base output directory
	ManifestPath        string                // Path of the manifest file
	Results             []TrackDownloadResult // Per-track outcomes
}

// BulkDownload downloads assets for multiple tracks concurrently with rate limiting and progress tracking.
//
// This method implements a worker pool pattern to efficiently process multiple tracks.
// Metadata fetches are rate limited, partial failures are handled gracefully, and a
// manifest file summarizing the run is written at the end.
func (e *AssetEngine) BulkDownload(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []string,
	opts BulkDownloadOpts,
) (*BulkDownloadResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: track source not initialized", shared.ErrServiceUnavailable)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("chosic_downloads_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 2.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkDownloadResult{
		TotalTracks:     len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]TrackDownloadResult, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan TrackDownloadJob, len(ids))
	results := make(chan TrackDownloadResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.downloadWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		e.sendProgress(prog, fetchingTracksUpdate(1, len(ids)))
		for i, trackID := range ids {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			default:
			}

			if err := limiter.Wait(ctx); err != nil {
				close(jobs)
				return
			}

			track, err := e.source.Track(ctx, trackID)
			if err != nil {
				results <- TrackDownloadResult{
					TrackID:   trackID,
					TrackName: fmt.Sprintf("Unknown (%s)", trackID),
					Success:   false,
					Error:     fmt.Errorf("failed to fetch track: %w", err),
				}
				continue
			}

			jobs <- TrackDownloadJob{
				TrackID: trackID,
				Track:   *track,
			}

			e.sendProgress(prog, downloadingAssetsUpdate(i+1, len(ids), track.Name))
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulDownloads++
			e.sendProgress(prog, downloadCompletedUpdate(
				completed,
				len(ids),
				res.TrackName,
				len(res.Files),
			))
		} else {
			result.FailedDownloads++
			e.sendProgress(prog, downloadFailedUpdate(
				completed,
				len(ids),
				res.TrackName,
				res.Error,
			))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "download_manifest.json")
	e.sendProgress(prog, writingManifestUpdate(manifestPath))
	if err := formatter.WriteDownloadManifest(manifestFor(result), manifestPath); err != nil {
		return result, fmt.Errorf("download completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// downloadWorker is a worker goroutine that downloads assets for tracks from the jobs channel.
func (e *AssetEngine) downloadWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan TrackDownloadJob,
	results chan<- TrackDownloadResult,
	opts BulkDownloadOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res := e.downloadSingleTrack(ctx, job, opts)
		results <- res
	}
}

// manifestFor converts a bulk result into its manifest representation.
func manifestFor(result *BulkDownloadResult) *formatter.DownloadManifest {
	manifest := &formatter.DownloadManifest{
		OutputDirectory: result.OutputDirectory,
		TotalTracks:     result.TotalTracks,
		Successful:      result.SuccessfulDownloads,
		Failed:          result.FailedDownloads,
		Entries:         make([]formatter.ManifestEntry, 0, len(result.Results)),
	}

	for _, res := range result.Results {
		entry := formatter.ManifestEntry{
			TrackID:   res.TrackID,
			TrackName: res.TrackName,
			Success:   res.Success,
			Directory: res.Directory,
			Files:     res.Files,
		}
		if res.Error != nil {
			entry.Error = res.Error.Error()
		}
		manifest.Entries = append(manifest.Entries, entry)
	}

	return manifest
}
