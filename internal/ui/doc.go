// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing the catalog and downloading track assets:
//  1. [SearchView] : Enter a search query
//  2. [TrackListView] : Browse matching tracks
//  3. [ConfirmView] : Confirm the asset download
//  4. [DownloadView] : Monitor real-time progress updates
//  5. [ResultView] : Display the files written (or the failure)
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the AssetEngine, providing non-blocking status reporting during downloads.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
