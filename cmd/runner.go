package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/chosic-go/chosic/internal/repositories"
	"github.com/chosic-go/chosic/internal/services"
	"github.com/chosic-go/chosic/internal/shared"
	"github.com/chosic-go/chosic/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	client     *services.Client
	catalog    *services.CatalogService
	engine     *tasks.AssetEngine
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Client     *services.Client
	Catalog    *services.CatalogService
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	client := opts.Client
	if client == nil {
		client = clientFromConfig(opts.Config, opts.Logger)
	}

	catalog := opts.Catalog
	if catalog == nil {
		catalog = services.NewCatalogService(client, nil, opts.Logger)
		catalog.SetPageDelay(opts.Config.API.PageDelay())
	}

	engine := tasks.NewAssetEngine(catalog, opts.HTTPClient, opts.Logger)

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		client:     client,
		catalog:    catalog,
		engine:     engine,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// clientFromConfig builds an API client carrying the configured session credentials.
func clientFromConfig(config *shared.Config, logger *log.Logger) *services.Client {
	httpClient := &http.Client{Timeout: config.API.Timeout()}
	client := services.NewClient(config.API.BaseURL, httpClient, logger)

	if config.API.Cookie != "" {
		client.SetCookie(config.API.Cookie)
	}
	if config.API.Nonce != "" {
		client.SetNonce(config.API.Nonce)
	}
	if config.API.App != "" {
		client.SetApp(config.API.App)
	}
	if config.API.UserAgent != "" {
		client.SetUserAgent(config.API.UserAgent)
	}

	return client
}

// SetLogger swaps the runner's logger, e.g. to redirect logs to a file while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// openDatabase opens the configured SQLite database and applies connection settings.
func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	return db, nil
}

// attachCache wires the local cache into the catalog service when the
// database has been set up. Returns a closer for the underlying handle; a
// missing database is not an error, lookups simply go uncached.
func (r *Runner) attachCache() func() {
	if _, err := os.Stat(r.config.Database.Path); err != nil {
		r.logger.Debug("cache database not found, skipping", "path", r.config.Database.Path)
		return func() {}
	}

	db, err := r.openDatabase()
	if err != nil {
		r.logger.Warn("failed to open cache database", "error", err)
		return func() {}
	}

	adapter := repositories.NewCacheAdapter(
		repositories.NewTrackRepository(db),
		repositories.NewArtistRepository(db),
	)
	r.catalog.SetCache(adapter)

	return func() { db.Close() }
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, trackCommand, artistsCommand, searchCommand,
		recommendCommand, featuresCommand, releasesCommand, playlistsCommand,
		genresCommand, downloadCommand, cacheCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// saveResponse writes an API response to a local JSON file. Failures are
// logged, not fatal, matching the best-effort nature of the flag.
func (r *Runner) saveResponse(filename string, data any) {
	payload, err := shared.MarshalJSON(data, true)
	if err != nil {
		r.logger.Warn("failed to marshal response for saving", "error", err)
		return
	}
	if err := os.WriteFile(filename, payload, 0644); err != nil {
		r.logger.Warn("failed to save response", "file", filename, "error", err)
		return
	}
	r.logger.Info("response saved", "file", filename)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
