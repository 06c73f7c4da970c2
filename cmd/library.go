package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/spindle/internal/catalog"
	"github.com/desertthunder/spindle/internal/formatter"
	"github.com/desertthunder/spindle/internal/models"
	"github.com/desertthunder/spindle/internal/player"
	"github.com/desertthunder/spindle/internal/shared"
	"github.com/desertthunder/spindle/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PlaylistsList prints every playlist in insertion order.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	library, err := r.openLibrary(ctx)
	if err != nil {
		return err
	}

	playlists := library.Playlists.List()
	if cmd.Bool("json") {
		summaries := make([]formatter.PlaylistMetadata, len(playlists))
		for i, p := range playlists {
			summaries[i] = formatter.Metadata(p)
		}
		return r.writeJSON(summaries, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Playlists (%d)", len(playlists)))
	for _, p := range playlists {
		r.writePlain("%-36s  %-20s  %3d tracks  %s\n", p.ID, p.Name, len(p.Tracks), models.FormatTotal(p.TotalSeconds()))
	}
	return nil
}

// PlaylistsShow prints one playlist, looked up by id or name.
func (r *Runner) PlaylistsShow(ctx context.Context, cmd *cli.Command) error {
	ref := cmd.StringArg("playlist")
	if ref == "" {
		return fmt.Errorf("%w: playlist ID or name", shared.ErrMissingArgument)
	}

	library, err := r.openLibrary(ctx)
	if err != nil {
		return err
	}

	p, err := r.resolvePlaylist(library, ref)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(p, cmd.Bool("pretty"))
	}

	r.writePlainHeader(p.Name)
	if p.Description != "" {
		r.writePlain("%s\n", p.Description)
	}
	r.writePlain("%d tracks • %s • %s\n\n", len(p.Tracks), models.FormatTotal(p.TotalSeconds()), p.Color)
	r.writeTracks(p.Tracks)
	return nil
}

// PlaylistsCreate creates an empty playlist with a fresh id and a random accent.
func (r *Runner) PlaylistsCreate(ctx context.Context, cmd *cli.Command) error {
	library, err := r.openLibrary(ctx)
	if err != nil {
		return err
	}

	session := r.newSession(ctx, library, player.LogNotifier(r.logger))
	defer session.Close()

	id, err := session.CreatePlaylist(ctx, cmd.StringArg("name"), cmd.String("description"))
	if err != nil {
		return err
	}

	r.writePlain("✓ Created playlist %q\n", strings.TrimSpace(cmd.StringArg("name")))
	r.writePlain("ID: %s\n", id)
	return nil
}

// PlaylistsAdd adds a known track to a playlist. Adding a track that is already present changes nothing.
func (r *Runner) PlaylistsAdd(ctx context.Context, cmd *cli.Command) error {
	library, err := r.openLibrary(ctx)
	if err != nil {
		return err
	}

	p, err := r.resolvePlaylist(library, cmd.String("playlist"))
	if err != nil {
		return err
	}

	trackID := cmd.String("track")
	track, ok := catalog.New(library.Playlists.List()).Track(trackID)
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrTrackNotFound, trackID)
	}

	if p.Contains(track.ID) {
		r.writePlain("%s is already in %s\n", track.Title, p.Name)
		return nil
	}

	session := r.newSession(ctx, library, player.LogNotifier(r.logger))
	defer session.Close()

	if err := session.AddToPlaylist(ctx, p.ID, track); err != nil {
		return err
	}

	r.writePlain("✓ Added %s to %s\n", track.Title, p.Name)
	return nil
}

// PlaylistsExport writes a playlist to disk in the requested format.
func (r *Runner) PlaylistsExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	if cmd.Bool("all") {
		return r.exportAll(ctx, cmd, format)
	}
	if cmd.String("playlist") == "" {
		return fmt.Errorf("%w: --playlist or --all", shared.ErrMissingArgument)
	}

	library, err := r.openLibrary(ctx)
	if err != nil {
		return err
	}

	p, err := r.resolvePlaylist(library, cmd.String("playlist"))
	if err != nil {
		return err
	}

	files, err := formatter.WriteExport(p, format, cmd.String("output"))
	if err != nil {
		return fmt.Errorf("failed to export %s: %w", p.Name, err)
	}

	r.logger.Info("exported playlist", "playlist", p.ID, "format", format, "files", len(files))
	r.writePlain("✓ Exported %s (%d tracks)\n", p.Name, len(p.Tracks))
	for _, f := range files {
		r.writePlain("  %s\n", f)
	}
	return nil
}

// exportAll writes every playlist into one directory, printing progress as exports finish.
func (r *Runner) exportAll(ctx context.Context, cmd *cli.Command, format formatter.Format) error {
	workers := int(cmd.Int("workers"))
	if workers < 1 {
		return fmt.Errorf("%w: --workers must be at least 1, got %d", shared.ErrInvalidArgument, workers)
	}

	library, err := r.openLibrary(ctx)
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 16)
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := tasks.BulkExport(ctx, progress, library.Playlists.List(), tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("dir"),
		NumWorkers: workers,
	})
	close(progress)
	<-printed
	if err != nil {
		return fmt.Errorf("bulk export failed: %w", err)
	}

	r.logger.Info("exported playlists", "dir", result.OutputDirectory, "ok", result.SuccessfulExports, "failed", result.FailedExports)
	r.writePlain("✓ Exported %d/%d playlists to %s\n", result.SuccessfulExports, result.TotalPlaylists, result.OutputDirectory)
	if result.FailedExports > 0 {
		return fmt.Errorf("%d playlist exports failed", result.FailedExports)
	}
	return nil
}

// History prints the recently played list.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	library, err := r.openLibrary(ctx)
	if err != nil {
		return err
	}

	tracks := library.History.Tracks()
	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	if len(tracks) == 0 {
		r.writePlain("Nothing played yet\n")
		return nil
	}

	r.writePlainHeader("Recently Played")
	r.writeTracks(tracks)
	return nil
}

// Search finds tracks across every playlist.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	library, err := r.openLibrary(ctx)
	if err != nil {
		return err
	}

	cat := catalog.New(library.Playlists.List())
	var results []models.Track
	if cmd.Bool("fuzzy") {
		results = cat.Fuzzy(query)
	} else {
		results = cat.Search(query)
	}

	if cmd.Bool("json") {
		return r.writeJSON(results, cmd.Bool("pretty"))
	}

	if len(results) == 0 {
		r.writePlain("No tracks match %q\n", query)
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Results for %q (%d)", query, len(results)))
	r.writeTracks(results)
	return nil
}

// Album prints an album page.
func (r *Runner) Album(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: album name", shared.ErrMissingArgument)
	}

	library, err := r.openLibrary(ctx)
	if err != nil {
		return err
	}

	album, ok := catalog.New(library.Playlists.List()).FindAlbum(name)
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrAlbumNotFound, name)
	}

	if cmd.Bool("json") {
		return r.writeJSON(album, cmd.Bool("pretty"))
	}

	r.writePlainHeader(album.Name)
	r.writePlain("%s • %d tracks • %s\n\n", album.Artist, len(album.Tracks), models.FormatTotal(models.TotalSeconds(album.Tracks)))
	r.writeTracks(album.Tracks)
	return nil
}

// Artist prints an artist page with top tracks and albums.
func (r *Runner) Artist(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: artist name", shared.ErrMissingArgument)
	}

	library, err := r.openLibrary(ctx)
	if err != nil {
		return err
	}

	artist, ok := catalog.New(library.Playlists.List()).FindArtist(name)
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrArtistNotFound, name)
	}

	if cmd.Bool("json") {
		return r.writeJSON(artist, cmd.Bool("pretty"))
	}

	r.writePlainHeader(artist.Name)
	r.writePlain("Popular\n")
	r.writeTracks(artist.TopTracks)
	r.writePlainln("Albums")
	for _, a := range artist.Albums {
		r.writePlain("  %s (%d tracks)\n", a.Name, len(a.Tracks))
	}
	return nil
}
