package ui

import (
	"github.com/chosic-go/chosic/internal/catalog"
	"github.com/chosic-go/chosic/internal/tasks"
)

// tracksFetchedMsg reports the outcome of a catalog search.
type tracksFetchedMsg struct {
	tracks []catalog.TrackItem
	err    error
}

// progressUpdateMsg carries a single engine progress event.
type progressUpdateMsg tasks.ProgressUpdate

// downloadCompleteMsg reports the outcome of a track asset download.
type downloadCompleteMsg struct {
	result *tasks.TrackDownloadResult
	err    error
}
