package tasks

import (
	"fmt"

	"github.com/chosic-go/chosic/internal/catalog"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchTrack Phase = iota
	DownloadAudio
	DownloadImages
	DownloadAssets
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case FetchTrack:
		return "fetch_track"
	case DownloadAudio:
		return "download_audio"
	case DownloadImages:
		return "download_images"
	case DownloadAssets:
		return "download_assets"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func fetchingTracksUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTrack,
		Step:    step,
		Total:   total,
		Message: "Fetching track metadata...",
	}
}

func trackResolvedUpdate(step, total int, track *catalog.TrackItem) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTrack,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, track.ArtistDisplay(), track.Name),
		Data:    track,
	}
}

func downloadingAssetsUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadAssets,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Downloading: %s...", step, total, name),
	}
}

func downloadCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadAssets,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func downloadFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadAssets,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}

func writingManifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing manifest: %s", path),
	}
}
