package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/chosic-go/chosic/internal/catalog"
	"github.com/chosic-go/chosic/internal/shared"
)

var _ list.Item = trackItem{}

// trackItem wraps [catalog.TrackItem] to implement [list.Item].
type trackItem struct {
	track catalog.TrackItem
}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string       { return i.track.Name }
func (i trackItem) Description() string {
	desc := i.track.ArtistDisplay()
	if i.track.Album != nil && i.track.Album.Name != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album.Name)
	}
	if i.track.DurationMS > 0 {
		desc = fmt.Sprintf("%s • %s", desc, shared.FormatDuration(i.track.DurationMS))
	}
	if i.track.PreviewURL == "" {
		desc = fmt.Sprintf("%s • no preview", desc)
	}
	return desc
}
