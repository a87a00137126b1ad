package tasks

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/chosic-go/chosic/internal/catalog"
	"github.com/chosic-go/chosic/internal/shared"
)

// TrackSource provides track metadata lookups for download operations.
// This abstraction allows for easier testing and decoupling from concrete implementation.
type TrackSource interface {
	Track(ctx context.Context, idOrURL string) (*catalog.TrackItem, error)
}

// TrackDownloadJob carries a resolved track through the download worker pool.
type TrackDownloadJob struct {
	TrackID string            // Identifier as provided by the caller
	Track   catalog.TrackItem // Resolved track metadata
}

// TrackDownloadResult contains the outcome of downloading assets for one track.
type TrackDownloadResult struct {
	TrackID   string   // Identifier as provided by the caller
	TrackName string   // Resolved track name (or a placeholder on fetch failure)
	Directory string   // Per-track folder, empty if creation failed
	Success   bool     // Whether all requested assets were saved
	Files     []string // Paths of files written
	Error     error    // First failure, nil on success
}

// AssetEngine downloads preview audio and cover art for catalog tracks.
type AssetEngine struct {
	source TrackSource
	client *http.Client
	logger *log.Logger
}

// NewAssetEngine creates an AssetEngine. A nil client gets a 30 second
// timeout default; a nil logger discards output.
func NewAssetEngine(source TrackSource, client *http.Client, logger *log.Logger) *AssetEngine {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &AssetEngine{
		source: source,
		client: client,
		logger: logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *AssetEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// DownloadTrackAssets resolves a single track and downloads its assets into
// a per-track folder under opts.OutputDir.
func (e *AssetEngine) DownloadTrackAssets(ctx context.Context, progress chan<- ProgressUpdate, idOrURL string, opts BulkDownloadOpts) (*TrackDownloadResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: track source not initialized", shared.ErrServiceUnavailable)
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "downloads"
	}

	e.sendProgress(progress, fetchingTracksUpdate(1, 1))

	track, err := e.source.Track(ctx, idOrURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch track: %w", err)
	}

	e.sendProgress(progress, trackResolvedUpdate(1, 1, track))
	e.sendProgress(progress, downloadingAssetsUpdate(1, 1, track.Name))

	result := e.downloadSingleTrack(ctx, TrackDownloadJob{TrackID: idOrURL, Track: *track}, opts)
	if result.Success {
		e.sendProgress(progress, downloadCompletedUpdate(1, 1, result.TrackName, len(result.Files)))
	} else {
		e.sendProgress(progress, downloadFailedUpdate(1, 1, result.TrackName, result.Error))
	}
	return &result, nil
}

// downloadSingleTrack downloads the preview and cover images for one track.
// Asset failures are collected rather than aborting the whole track.
func (e *AssetEngine) downloadSingleTrack(ctx context.Context, j TrackDownloadJob, opts BulkDownloadOpts) TrackDownloadResult {
	track := j.Track
	result := TrackDownloadResult{
		TrackID:   j.TrackID,
		TrackName: track.Name,
		Success:   false,
		Files:     []string{},
	}

	name := sanitizeFileName(track.Name)
	if name == "" {
		name = "unknown"
	}
	artist := ""
	if len(track.Artists) > 0 {
		artist = sanitizeFileName(track.Artists[0].Name)
	}
	if artist == "" {
		artist = "unknown"
	}

	folder := fmt.Sprintf("%s - %s", name, artist)
	if id := sanitizeFileName(track.ID); id != "" {
		folder = fmt.Sprintf("%s - %s (%s)", name, artist, id)
	}

	outDir := filepath.Join(opts.OutputDir, folder)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		result.Error = fmt.Errorf("failed to create track directory: %w", err)
		return result
	}
	result.Directory = outDir

	type asset struct {
		url  string
		dest string
	}
	assets := []asset{}

	if track.PreviewURL != "" {
		assets = append(assets, asset{track.PreviewURL, filepath.Join(outDir, fmt.Sprintf("%s - %s", name, artist))})
	} else {
		e.logger.Info("no preview available", "track", track.Name)
	}

	imageDefault := track.Image
	imageLarge := ""
	if track.Album != nil {
		if track.Album.ImageDefault != "" {
			imageDefault = track.Album.ImageDefault
		}
		imageLarge = track.Album.ImageLarge
	}
	if imageDefault != "" {
		assets = append(assets, asset{imageDefault, filepath.Join(outDir, "image_default")})
	}
	if imageLarge != "" {
		assets = append(assets, asset{imageLarge, filepath.Join(outDir, "image_large")})
	}

	for _, a := range assets {
		path, err := e.downloadAsset(ctx, a.url, a.dest, opts.Overwrite)
		if err != nil {
			e.logger.Warn("asset download failed", "track", track.Name, "url", a.url, "error", err)
			if result.Error == nil {
				result.Error = err
			}
			continue
		}
		result.Files = append(result.Files, path)
	}

	result.Success = result.Error == nil
	return result
}

// Matches characters that are unsafe in file and folder names.
var invalidFileNameRe = regexp.MustCompile(`[\\/:"*?<>|\n\r]`)

// sanitizeFileName strips unsafe characters and caps the length so track and
// artist names can be used as path segments.
func sanitizeFileName(s string) string {
	s = strings.TrimSpace(s)
	s = invalidFileNameRe.ReplaceAllString(s, "_")
	if len(s) > 200 {
		s = strings.TrimRight(s[:200], " ")
	}
	return s
}

// downloadAsset fetches url into dest, inferring the file extension from the
// response Content-Type when dest carries none. Existing files are kept
// unless overwrite is set. Returns the final path written (or kept).
func (e *AssetEngine) downloadAsset(ctx context.Context, url, dest string, overwrite bool) (string, error) {
	if url == "" {
		return "", fmt.Errorf("empty asset URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build asset request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Referer", "https://www.chosic.com")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("failed to download %s: status %d", url, resp.StatusCode)
	}

	outPath := dest
	if filepath.Ext(dest) == "" {
		if ext := extensionFor(resp.Header.Get("Content-Type")); ext != "" {
			outPath = dest + "." + ext
		}
	}

	if !overwrite {
		if _, err := os.Stat(outPath); err == nil {
			e.logger.Info("asset exists, skipping", "path", outPath)
			return outPath, nil
		}
	}

	fh, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	defer fh.Close()

	written, err := io.Copy(fh, resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	e.logger.Debug("asset saved", "path", outPath, "bytes", written)
	return outPath, nil
}

// extensionFor maps an audio or image Content-Type to a filename extension.
// Unrecognized types yield an empty string.
func extensionFor(contentType string) string {
	mediaType, _, found := strings.Cut(contentType, ";")
	if !found {
		mediaType = contentType
	}
	mediaType = strings.TrimSpace(mediaType)

	kind, subtype, ok := strings.Cut(mediaType, "/")
	if !ok || (kind != "audio" && kind != "image") {
		return ""
	}
	switch subtype {
	case "jpeg":
		return "jpg"
	case "mpeg":
		return "mp3"
	}
	return subtype
}
