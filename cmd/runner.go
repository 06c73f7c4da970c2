package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spindle/internal/models"
	"github.com/desertthunder/spindle/internal/player"
	"github.com/desertthunder/spindle/internal/repositories"
	"github.com/desertthunder/spindle/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
	store      repositories.Storage
	scheduler  player.Scheduler
	db         *sql.DB
	library    *repositories.Library
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	Storage    repositories.Storage // Defaults to the SQLite database named in Config
	Scheduler  player.Scheduler     // Defaults to [player.TickerScheduler]
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
	if opts.Scheduler == nil {
		opts.Scheduler = player.TickerScheduler{}
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		store:      opts.Storage,
		scheduler:  opts.Scheduler,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, playlistsCommand, historyCommand, searchCommand, albumCommand, artistCommand, playCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by subsequent commands.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// Close releases the database opened by [Runner.openLibrary], if any.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// openLibrary opens storage and hydrates the playlist and history repositories once per run.
//
// When the configured database cannot be opened the library runs on a throwaway in-memory database so browsing
// and playback still work.
func (r *Runner) openLibrary(ctx context.Context) (*repositories.Library, error) {
	if r.library != nil {
		return r.library, nil
	}

	if r.store == nil {
		db, err := shared.OpenDatabase(r.config.Database)
		if err != nil {
			r.logger.Warn("library storage unavailable, changes will not be saved", "path", r.config.Database.Path, "error", err)
			if db, err = shared.OpenDatabase(shared.DatabaseConfig{Path: ":memory:"}); err != nil {
				return nil, fmt.Errorf("failed to open library: %w", err)
			}
		}
		r.db = db
		r.store = repositories.NewRecordStore(db)
	}

	library := repositories.NewLibrary(r.store, shared.WithLogger(r.logger, "component", "library"))
	if err := library.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load library: %w", err)
	}

	r.library = library
	return library, nil
}

// newSession creates a playback session over the library using the configured player defaults.
func (r *Runner) newSession(ctx context.Context, library *repositories.Library, notifier player.Notifier) *player.Session {
	volume := r.config.Player.Volume
	return player.NewSession(ctx, player.SessionOpts{
		Playlists:    library.Playlists,
		History:      library.History,
		Scheduler:    r.scheduler,
		TickInterval: r.config.Player.TickInterval.Duration,
		Notifier:     notifier,
		Logger:       r.logger,
		Volume:       &volume,
	})
}

// resolvePlaylist finds a playlist by id, then by case-insensitive name.
func (r *Runner) resolvePlaylist(library *repositories.Library, ref string) (models.Playlist, error) {
	if p, ok := library.Playlists.FindByID(ref); ok {
		return p, nil
	}
	if p, ok := library.Playlists.FindByName(ref); ok {
		return p, nil
	}
	return models.Playlist{}, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, ref)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
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

// writeTracks prints a numbered track listing.
func (r *Runner) writeTracks(tracks []models.Track) {
	for i, t := range tracks {
		album := ""
		if t.Album != "" {
			album = fmt.Sprintf(" (%s)", t.Album)
		}
		r.writePlain("%2d. %s - %s%s [%s]\n", i+1, t.Artist, t.Title, album, t.Duration)
	}
}
