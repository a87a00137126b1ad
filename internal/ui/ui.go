package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/chosic-go/chosic/internal/catalog"
	"github.com/chosic-go/chosic/internal/services"
	"github.com/chosic-go/chosic/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SearchView ViewState = iota
	TrackListView
	ConfirmView
	DownloadView
	ResultView
)

// CatalogBrowser is the slice of the catalog service the TUI needs.
type CatalogBrowser interface {
	Search(ctx context.Context, opts services.SearchOptions) (*catalog.Response, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx           context.Context
	view          ViewState
	catalog       CatalogBrowser
	engine        *tasks.AssetEngine
	downloadOpts  tasks.BulkDownloadOpts
	width         int
	height        int
	searchInput   textinput.Model
	trackList     list.Model
	tracks        []catalog.TrackItem
	selectedTrack *catalog.TrackItem
	progressChan  chan tasks.ProgressUpdate
	downloadDone  chan downloadCompleteMsg
	progress      tasks.ProgressUpdate
	result        *tasks.TrackDownloadResult
	err           error
	help          help.Model
	keys          keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, browser CatalogBrowser, engine *tasks.AssetEngine, opts tasks.BulkDownloadOpts) *Model {
	input := textinput.New()
	input.Placeholder = "Search the catalog..."
	input.Focus()
	input.CharLimit = 120

	return &Model{
		ctx:          ctx,
		view:         SearchView,
		catalog:      browser,
		engine:       engine,
		downloadOpts: opts,
		searchInput:  input,
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

// Init starts the text input cursor blink.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.trackList.Width() == 0 {
			m.trackList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SearchView:
			return m.handleSearchKeys(msg)
		case TrackListView:
			return m.handleTrackListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case tracksFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = SearchView
			return m, nil
		}
		m.err = nil
		m.tracks = msg.tracks
		items := make([]list.Item, len(msg.tracks))
		for i, track := range msg.tracks {
			items[i] = trackItem{track: track}
		}
		m.trackList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.trackList.Title = fmt.Sprintf("Results for '%s'", m.searchInput.Value())
		m.trackList.SetSize(m.width-4, m.height-8)
		m.view = TrackListView
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case downloadCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		m.downloadDone = nil
		return m, nil
	}

	return m.updateActive(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case SearchView:
		return m.renderSearch()
	case TrackListView:
		return m.renderTrackList()
	case ConfirmView:
		return m.renderConfirm()
	case DownloadView:
		return m.renderDownload()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "enter":
		query := m.searchInput.Value()
		if query != "" {
			return m, m.searchTracks(query)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = SearchView
		return m, nil
	case "enter":
		selected := m.trackList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(trackItem); ok {
				track := item.track
				m.selectedTrack = &track
				m.view = ConfirmView
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = TrackListView
		return m, nil
	case "y":
		m.view = DownloadView
		return m, m.startDownload()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = SearchView
		m.selectedTrack = nil
		m.result = nil
		m.err = nil
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m *Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case SearchView:
		m.searchInput, cmd = m.searchInput.Update(msg)
	case TrackListView:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) searchTracks(query string) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.catalog.Search(m.ctx, services.SearchOptions{Query: query, Limit: 25, PageSize: 25})
		if err != nil {
			return tracksFetchedMsg{err: err}
		}
		var tracks []catalog.TrackItem
		if resp.Tracks != nil {
			tracks = resp.Tracks.Items
		}
		if len(tracks) == 0 {
			return tracksFetchedMsg{err: fmt.Errorf("no tracks found for '%s'", query)}
		}
		return tracksFetchedMsg{tracks: tracks}
	}
}

func (m *Model) startDownload() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progress := m.progressChan
	trackID := m.selectedTrack.ID

	done := make(chan downloadCompleteMsg, 1)
	go func() {
		result, err := m.engine.DownloadTrackAssets(m.ctx, progress, trackID, m.downloadOpts)
		done <- downloadCompleteMsg{result: result, err: err}
		close(progress)
	}()
	m.downloadDone = done

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress := m.progressChan
	done := m.downloadDone
	return func() tea.Msg {
		if progress == nil {
			return nil
		}
		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderSearch() string {
	title := styles.title.Render("Chosic Catalog Search")

	var errLine string
	if m.err != nil {
		errLine = "\n" + styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	}

	helpView := styles.help.Render("enter: search • esc: quit")
	return fmt.Sprintf("%s\n%s%s\n\n%s", title, m.searchInput.View(), errLine, helpView)
}

func (m *Model) renderTrackList() string {
	downloadKey := key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "download"),
	)
	helpKeys := []key.Binding{downloadKey, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.trackList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Download assets for '%s'?", m.selectedTrack.Name))
	info := fmt.Sprintf("\nTrack: %s\nArtist: %s\nOutput: %s\n",
		m.selectedTrack.Name, m.selectedTrack.ArtistDisplay(), m.downloadOpts.OutputDir)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderDownload() string {
	title := styles.title.Render("Downloading Assets")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchTrack:
		phase = "Fetching track metadata..."
	case tasks.DownloadAssets:
		phase = fmt.Sprintf("Downloading assets (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Download failed: %v\n\nPress r to retry, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to retry, q to quit")
	}

	var title string
	if m.result.Success {
		title = styles.ok.Render("✓ Download Complete!")
	} else {
		title = styles.warn.Render("Download finished with errors")
	}

	info := fmt.Sprintf("\nTrack: %s\nFolder: %s\nFiles: %d", m.result.TrackName, m.result.Directory, len(m.result.Files))
	for _, file := range m.result.Files {
		info += fmt.Sprintf("\n  • %s", file)
	}
	if m.result.Error != nil {
		info += fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("Failed assets: %v", m.result.Error)))
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}
