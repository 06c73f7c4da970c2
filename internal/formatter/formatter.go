// package formatter exports playlists to various formats (CSV, Markdown, M3U, Audacious, JSON, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/spindle/internal/models"
	"github.com/desertthunder/spindle/internal/shared"
	"github.com/diamondburned/audpl"
	"github.com/ushis/m3u"
)

// Format is an export format.
type Format string

const (
	CSV      Format = "csv"
	Markdown Format = "md"
	M3U      Format = "m3u"
	Audpl    Format = "audpl"
	JSON     Format = "json"
	Text     Format = "txt"
)

// Formats lists every supported export format.
var Formats = []Format{CSV, Markdown, M3U, Audpl, JSON, Text}

// ParseFormat resolves a format name or common alias.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csv":
		return CSV, nil
	case "md", "markdown":
		return Markdown, nil
	case "m3u", "m3u8":
		return M3U, nil
	case "audpl", "audacious":
		return Audpl, nil
	case "json":
		return JSON, nil
	case "txt", "text", "plain":
		return Text, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q, want one of %v", shared.ErrInvalidFlag, name, Formats)
	}
}

// PlaylistMetadata is the playlist header written next to CSV exports.
type PlaylistMetadata struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Color       models.Accent `json:"color"`
	TrackCount  int           `json:"trackCount"`
	Length      string        `json:"length"`
}

// Metadata summarizes a playlist without its tracks.
func Metadata(p models.Playlist) PlaylistMetadata {
	return PlaylistMetadata{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Color:       p.Color,
		TrackCount:  len(p.Tracks),
		Length:      models.FormatTotal(p.TotalSeconds()),
	}
}

// Export renders p in the given format.
func Export(p models.Playlist, format Format) ([]byte, error) {
	switch format {
	case CSV:
		return ExportToCSV(p)
	case Markdown:
		return ExportToMarkdown(p)
	case M3U:
		return ExportToM3U(p)
	case Audpl:
		return ExportToAudpl(p)
	case JSON:
		return shared.MarshalJSON(p, true)
	case Text:
		return ExportToText(p)
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, format)
	}
}

// ExportToCSV converts a playlist to CSV with columns: ID, Title, Artist, Album, Duration
func ExportToCSV(p models.Playlist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Duration"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range p.Tracks {
		record := []string{track.ID, track.Title, track.Artist, track.Album, track.Duration}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a playlist to Markdown with an optional cover image
func ExportToMarkdown(p models.Playlist) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", p.Name)

	if p.CoverURL != "" {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", p.CoverURL)
	}

	if p.Description != "" {
		fmt.Fprintf(&buf, "**Description**: %s\n\n", p.Description)
	}

	fmt.Fprintf(&buf, "**Tracks**: %d\n", len(p.Tracks))
	fmt.Fprintf(&buf, "**Length**: %s\n\n", models.FormatTotal(p.TotalSeconds()))

	buf.WriteString("## Tracks\n\n")
	for i, track := range p.Tracks {
		albumPart := ""
		if track.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", track.Album)
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s [%s]\n", i+1, track.Artist, track.Title, albumPart, track.Duration)
	}

	return buf.Bytes(), nil
}

// ExportToM3U converts a playlist to an extended M3U list. Track locations use the spindle:track:{id} scheme;
// malformed durations are written as -1 (unknown length).
func ExportToM3U(p models.Playlist) ([]byte, error) {
	plist := make(m3u.Playlist, len(p.Tracks))
	for i, track := range p.Tracks {
		plist[i] = m3u.Track{
			Path:  trackURI(track),
			Title: fmt.Sprintf("%s - %s", track.Artist, track.Title),
			Time:  int64(secondsOrUnknown(track)),
		}
	}

	var buf bytes.Buffer
	if _, err := plist.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write M3U: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportToAudpl converts a playlist to the Audacious playlist format. Lengths are in milliseconds.
func ExportToAudpl(p models.Playlist) ([]byte, error) {
	plist := audpl.Playlist{
		Name:   p.Name,
		Tracks: make([]audpl.Track, len(p.Tracks)),
	}

	for i, track := range p.Tracks {
		plist.Tracks[i] = audpl.Track{
			Title:       track.Title,
			Artist:      track.Artist,
			Album:       track.Album,
			TrackNumber: strconv.Itoa(i + 1),
			Length:      strconv.Itoa(max(secondsOrUnknown(track), 0) * 1000),
			URI:         trackURI(track),
		}
	}

	var buf bytes.Buffer
	if err := plist.SaveTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Audacious playlist: %w", err)
	}
	return buf.Bytes(), nil
}

func trackURI(t models.Track) string {
	return "spindle:track:" + t.ID
}

func secondsOrUnknown(t models.Track) int {
	seconds, err := t.Seconds()
	if err != nil {
		return -1
	}
	return seconds
}

// ExportToText converts a playlist to plain text
func ExportToText(p models.Playlist) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", p.Name)
	if p.Description != "" {
		fmt.Fprintf(&buf, "Description: %s\n", p.Description)
	}
	fmt.Fprintf(&buf, "Tracks: %d (%s)\n\n", len(p.Tracks), models.FormatTotal(p.TotalSeconds()))

	for i, track := range p.Tracks {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, track.Artist, track.Title)
	}

	return buf.Bytes(), nil
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	TracksFile   string
	MetadataFile string
}

// WriteCSVExport exports a playlist to CSV with an accompanying metadata JSON file.
//
// Defaults to the slugified playlist name as the base path & creates {base}_tracks.csv and {base}_metadata.json
func WriteCSVExport(p models.Playlist, basePath string) (*CSVExportResult, error) {
	if basePath == "" {
		basePath = shared.Slugify(p.Name)
	}

	csvData, err := ExportToCSV(p)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	tracksFile := basePath + "_tracks.csv"
	if err := os.WriteFile(tracksFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := shared.MarshalJSON(Metadata(p), true)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := basePath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{TracksFile: tracksFile, MetadataFile: metadataFile}, nil
}

// WriteMarkdownExport exports a playlist to {dir}/README.md. The directory defaults to the slugified name.
func WriteMarkdownExport(p models.Playlist, outputDir string) (string, error) {
	if outputDir == "" {
		outputDir = shared.Slugify(p.Name)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	mdData, err := ExportToMarkdown(p)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return mdFile, nil
}

// WriteExport writes p in the given format and returns the files created.
//
// Defaults to {slug}.{format} as the filename. CSV and Markdown delegate to their dedicated writers.
func WriteExport(p models.Playlist, format Format, path string) ([]string, error) {
	switch format {
	case CSV:
		res, err := WriteCSVExport(p, strings.TrimSuffix(path, ".csv"))
		if err != nil {
			return nil, err
		}
		return []string{res.TracksFile, res.MetadataFile}, nil
	case Markdown:
		file, err := WriteMarkdownExport(p, path)
		if err != nil {
			return nil, err
		}
		return []string{file}, nil
	}

	if path == "" {
		path = fmt.Sprintf("%s.%s", shared.Slugify(p.Name), format)
	}

	data, err := Export(p, format)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return []string{path}, nil
}
