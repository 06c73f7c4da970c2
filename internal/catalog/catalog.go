// Package catalog derives read-only views (unique tracks, albums, artists, search) from playlists.
//
// Every function is pure: it neither stores nor mutates its input, and ordering is always first-seen order.
package catalog

import (
	"strings"

	"github.com/desertthunder/spindle/internal/models"
	"github.com/desertthunder/spindle/internal/shared"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// TopTrackLimit caps the top tracks shown for an artist.
const TopTrackLimit = 5

// Catalog is a deduplicated snapshot of every track across a set of playlists.
type Catalog struct {
	tracks []models.Track
}

// New builds a Catalog from playlists. The first occurrence of each track id wins.
func New(playlists []models.Playlist) *Catalog {
	var tracks []models.Track
	seen := make(map[string]bool)
	for _, p := range playlists {
		for _, t := range p.Tracks {
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			tracks = append(tracks, t)
		}
	}
	return &Catalog{tracks: tracks}
}

// AllTracks returns every unique track in first-seen order.
func (c *Catalog) AllTracks() []models.Track {
	return append([]models.Track(nil), c.tracks...)
}

// Track looks up a track by id.
func (c *Catalog) Track(id string) (models.Track, bool) {
	if i := models.IndexOf(c.tracks, id); i >= 0 {
		return c.tracks[i], true
	}
	return models.Track{}, false
}

// ByAlbum returns tracks whose album name matches exactly.
func (c *Catalog) ByAlbum(album string) []models.Track {
	return c.filter(func(t models.Track) bool { return t.Album == album })
}

// ByArtist returns tracks whose artist contains name, ignoring case. Featured credits therefore match.
func (c *Catalog) ByArtist(name string) []models.Track {
	needle := shared.NormalizeText(name)
	if needle == "" {
		return nil
	}
	return c.filter(func(t models.Track) bool {
		return strings.Contains(shared.NormalizeText(t.Artist), needle)
	})
}

// Search returns tracks whose title, artist or album contains query, ignoring case.
// A blank query matches nothing.
func (c *Catalog) Search(query string) []models.Track {
	needle := shared.NormalizeText(query)
	if needle == "" {
		return nil
	}
	return c.filter(func(t models.Track) bool {
		return strings.Contains(shared.NormalizeText(t.Title), needle) ||
			strings.Contains(shared.NormalizeText(t.Artist), needle) ||
			strings.Contains(shared.NormalizeText(t.Album), needle)
	})
}

// Fuzzy ranks tracks whose "title artist album" text fuzzily contains query, best match first.
// Ties keep first-seen order.
func (c *Catalog) Fuzzy(query string) []models.Track {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	targets := make([]string, len(c.tracks))
	for i, t := range c.tracks {
		targets[i] = strings.Join([]string{t.Title, t.Artist, t.Album}, " ")
	}

	ranks := fuzzy.RankFindFold(query, targets)
	sortRanks(ranks)

	out := make([]models.Track, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, c.tracks[r.OriginalIndex])
	}
	return out
}

// Albums groups the catalog into albums.
func (c *Catalog) Albums() []models.Album {
	return Albums(c.tracks)
}

// FindAlbum returns the album with the given name, or false if no track belongs to it.
func (c *Catalog) FindAlbum(name string) (models.Album, bool) {
	tracks := c.ByAlbum(name)
	if len(tracks) == 0 {
		return models.Album{}, false
	}
	return models.Album{Name: name, Artist: tracks[0].Artist, Tracks: tracks}, true
}

// Artist is the derived view of everything credited to an artist name.
type Artist struct {
	Name      string
	TopTracks []models.Track
	Albums    []models.Album
}

// FindArtist returns the artist view for name, or false if no track credits it.
func (c *Catalog) FindArtist(name string) (Artist, bool) {
	tracks := c.ByArtist(name)
	if len(tracks) == 0 {
		return Artist{}, false
	}

	top := tracks[:min(len(tracks), TopTrackLimit)]
	return Artist{
		Name:      name,
		TopTracks: append([]models.Track(nil), top...),
		Albums:    Albums(tracks),
	}, true
}

// Albums groups tracks by album name in first-seen order. The album artist is its first track's artist.
func Albums(tracks []models.Track) []models.Album {
	var albums []models.Album
	index := make(map[string]int)
	for _, t := range tracks {
		i, ok := index[t.Album]
		if !ok {
			i = len(albums)
			index[t.Album] = i
			albums = append(albums, models.Album{Name: t.Album, Artist: t.Artist})
		}
		albums[i].Tracks = append(albums[i].Tracks, t)
	}
	return albums
}

func (c *Catalog) filter(keep func(models.Track) bool) []models.Track {
	var out []models.Track
	for _, t := range c.tracks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
