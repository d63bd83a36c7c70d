package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/polyphonic/polyphonic/internal/credentials"
	"github.com/polyphonic/polyphonic/internal/media"
	"github.com/polyphonic/polyphonic/internal/repositories"
	"github.com/polyphonic/polyphonic/internal/shared"
	"github.com/polyphonic/polyphonic/internal/subsonic"
	"github.com/polyphonic/polyphonic/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
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

	return &Runner{
		config:     opts.Config,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, libraryCommand, syncCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// deps bundles everything a command needs once the config is resolved and
// the database is open. Close releases the database handle.
type deps struct {
	config *shared.Config
	db     *sql.DB
	client *subsonic.Client
	creds  credentials.Store
	cache  *media.Cache
	repos  tasks.Repositories
	engine *tasks.LibraryEngine
}

func (d *deps) Close() error {
	return d.db.Close()
}

// open resolves the config file, opens the database, and wires the engine.
func (r *Runner) open(configPath string) (*deps, error) {
	config := r.config
	if _, err := os.Stat(configPath); err == nil {
		loaded, err := shared.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return nil, err
	}
	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	cache, err := media.NewCache(config.CoverArtDir(), config.Cache.AudioDir, r.logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	repos := tasks.Repositories{
		Libraries: repositories.NewLibraryRepository(db),
		Artists:   repositories.NewArtistRepository(db),
		Albums:    repositories.NewAlbumRepository(db),
		Songs:     repositories.NewSongRepository(db),
		Playlists: repositories.NewPlaylistRepository(db),
	}

	client := subsonic.NewClient(r.httpClient)
	creds := credentials.NewFileStore(config.Credentials.Path)
	engine := tasks.NewLibraryEngine(client, creds, cache, repos, config.Sync, r.logger)

	return &deps{
		config: config,
		db:     db,
		client: client,
		creds:  creds,
		cache:  cache,
		repos:  repos,
		engine: engine,
	}, nil
}

func (r *Runner) writeJSON(data any) error {
	output, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := fmt.Fprintf(r.output, "%s\n", output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
