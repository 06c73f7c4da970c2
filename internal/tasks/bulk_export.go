package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/spindle/internal/formatter"
	"github.com/desertthunder/spindle/internal/models"
	"github.com/desertthunder/spindle/internal/shared"
)

const (
	defaultWorkers = 4
	maxWorkers     = 8
	manifestName   = "export_manifest.json"
)

// BulkExportOpts contains configuration for bulk playlist exports.
type BulkExportOpts struct {
	Format     formatter.Format // Export format (default: json)
	OutputDir  string           // Base output directory (default: spindle_export_{epoch})
	NumWorkers int              // Concurrent workers (default: 4)
	Now        func() time.Time // Clock for the manifest timestamp
}

// PlaylistExportResult is the outcome of exporting one playlist.
type PlaylistExportResult struct {
	PlaylistID   string   `json:"playlist_id"`
	PlaylistName string   `json:"playlist_name"`
	Success      bool     `json:"success"`
	Files        []string `json:"files,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// BulkExportResult summarizes a bulk export. Results follow the order of the input playlists.
type BulkExportResult struct {
	TotalPlaylists    int
	SuccessfulExports int
	FailedExports     int
	Results           []PlaylistExportResult
	OutputDirectory   string
	ManifestPath      string
}

type exportJob struct {
	index    int
	playlist models.Playlist
}

type manifest struct {
	Format            formatter.Format       `json:"format"`
	ExportedAt        time.Time              `json:"exported_at"`
	TotalPlaylists    int                    `json:"total_playlists"`
	SuccessfulExports int                    `json:"successful_exports"`
	FailedExports     int                    `json:"failed_exports"`
	Results           []PlaylistExportResult `json:"results"`
}

// BulkExport exports playlists concurrently and writes a manifest summarizing the results.
//
// Individual failures are recorded in the result and do not stop the other exports. Cancelling ctx stops
// handing out work and returns the context error.
func BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	playlists []models.Playlist,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if opts.Format == "" {
		opts.Format = formatter.JSON
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("spindle_export_%d", opts.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	opts.NumWorkers = min(opts.NumWorkers, maxWorkers)

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	total := len(playlists)
	result := &BulkExportResult{
		TotalPlaylists:  total,
		OutputDirectory: opts.OutputDir,
		Results:         make([]PlaylistExportResult, total),
	}

	jobs := make(chan exportJob)
	done := make(chan exportJob, total)

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go exportWorker(ctx, &wg, jobs, done, result.Results, opts)
	}

	go func() {
		defer close(jobs)
		for i, p := range playlists {
			sendProgress(prog, exportingPlaylistUpdate(i+1, total, p.Name))
			select {
			case <-ctx.Done():
				return
			case jobs <- exportJob{index: i, playlist: p}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(done)
	}()

	completed := 0
	for job := range done {
		completed++
		res := result.Results[job.index]
		if res.Success {
			result.SuccessfulExports++
			sendProgress(prog, exportCompletedUpdate(completed, total, res.PlaylistName, len(res.Files)))
		} else {
			result.FailedExports++
			sendProgress(prog, exportFailedUpdate(completed, total, res.PlaylistName, fmt.Errorf("%s", res.Error)))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, manifestName)
	if err := writeManifest(result, opts, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	sendProgress(prog, manifestUpdate(manifestPath))

	return result, nil
}

// exportWorker exports playlists from jobs into their slot of results.
func exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan exportJob,
	done chan<- exportJob,
	results []PlaylistExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		if ctx.Err() != nil {
			return
		}
		results[job.index] = exportSinglePlaylist(job.playlist, opts)
		done <- job
	}
}

// exportSinglePlaylist writes one playlist under opts.OutputDir.
func exportSinglePlaylist(p models.Playlist, opts BulkExportOpts) PlaylistExportResult {
	result := PlaylistExportResult{
		PlaylistID:   p.ID,
		PlaylistName: p.Name,
	}

	stem := filepath.Join(opts.OutputDir, fileStem(p))
	path := stem
	switch opts.Format {
	case formatter.CSV, formatter.Markdown:
	default:
		path = fmt.Sprintf("%s.%s", stem, opts.Format)
	}

	files, err := formatter.WriteExport(p, opts.Format, path)
	if err != nil {
		result.Error = fmt.Sprintf("%s export failed: %v", opts.Format, err)
		return result
	}

	result.Files = files
	result.Success = true
	return result
}

// fileStem names a playlist's export files. The id suffix keeps playlists with equal names apart and comes
// from the random tail of time-ordered ids.
func fileStem(p models.Playlist) string {
	id := p.ID
	if len(id) > 8 {
		id = id[len(id)-8:]
	}
	return fmt.Sprintf("%s-%s", shared.Slugify(p.Name), id)
}

func writeManifest(result *BulkExportResult, opts BulkExportOpts, path string) error {
	data, err := shared.MarshalJSON(manifest{
		Format:            opts.Format,
		ExportedAt:        opts.Now().UTC(),
		TotalPlaylists:    result.TotalPlaylists,
		SuccessfulExports: result.SuccessfulExports,
		FailedExports:     result.FailedExports,
		Results:           result.Results,
	}, true)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
