package repositories

import "github.com/desertthunder/spindle/internal/models"

// sampleTracks is the built-in catalog seeded on first run.
var sampleTracks = []models.Track{
	{ID: "1", Title: "Blinding Lights", Artist: "The Weeknd", Album: "After Hours", Duration: "3:20"},
	{ID: "2", Title: "Shape of You", Artist: "Ed Sheeran", Album: "÷ (Divide)", Duration: "3:53"},
	{ID: "3", Title: "Dance Monkey", Artist: "Tones and I", Album: "The Kids Are Coming", Duration: "3:29"},
	{ID: "4", Title: "Watermelon Sugar", Artist: "Harry Styles", Album: "Fine Line", Duration: "2:54"},
	{ID: "5", Title: "Don't Start Now", Artist: "Dua Lipa", Album: "Future Nostalgia", Duration: "3:03"},
	{ID: "6", Title: "Bad Guy", Artist: "Billie Eilish", Album: "When We All Fall Asleep, Where Do We Go?", Duration: "3:14"},
	{ID: "7", Title: "Levitating", Artist: "Dua Lipa ft. DaBaby", Album: "Future Nostalgia", Duration: "3:23"},
	{ID: "8", Title: "Circles", Artist: "Post Malone", Album: "Hollywood's Bleeding", Duration: "3:35"},
	{ID: "9", Title: "Someone You Loved", Artist: "Lewis Capaldi", Album: "Divinely Uninspired to a Hellish Extent", Duration: "3:02"},
	{ID: "10", Title: "Memories", Artist: "Maroon 5", Album: "Memories", Duration: "3:09"},
	{ID: "11", Title: "Savage Love", Artist: "Jawsh 685 & Jason Derulo", Album: "Savage Love", Duration: "2:51"},
	{ID: "12", Title: "Mood", Artist: "24kGoldn ft. iann dior", Album: "El Dorado", Duration: "2:21"},
	{ID: "13", Title: "Dynamite", Artist: "BTS", Album: "BE", Duration: "3:19"},
	{ID: "14", Title: "Positions", Artist: "Ariana Grande", Album: "Positions", Duration: "2:52"},
	{ID: "15", Title: "Rockstar", Artist: "DaBaby ft. Roddy Ricch", Album: "Blame It on Baby", Duration: "3:01"},
	{ID: "16", Title: "Before You Go", Artist: "Lewis Capaldi", Album: "Divinely Uninspired to a Hellish Extent", Duration: "3:35"},
	{ID: "17", Title: "Kings & Queens", Artist: "Ava Max", Album: "Heaven & Hell", Duration: "2:42"},
	{ID: "18", Title: "Breaking Me", Artist: "Topic ft. A7S", Album: "Breaking Me", Duration: "2:46"},
	{ID: "19", Title: "Head & Heart", Artist: "Joel Corry ft. MNEK", Album: "Head & Heart", Duration: "2:53"},
	{ID: "20", Title: "Midnight Sky", Artist: "Miley Cyrus", Album: "Plastic Hearts", Duration: "3:43"},
}

// SampleTracks returns a copy of the built-in catalog.
func SampleTracks() []models.Track {
	return append([]models.Track(nil), sampleTracks...)
}

// DefaultPlaylists partitions the sample catalog into the three playlists seeded on first run.
func DefaultPlaylists() []models.Playlist {
	return []models.Playlist{
		{
			ID:          "1",
			Name:        "Liked Songs",
			Description: "Your liked songs",
			Tracks:      everyNth(3),
			Color:       "indigo",
		},
		{
			ID:          "2",
			Name:        "Discover Weekly",
			Description: "Your weekly mixtape of fresh music",
			Tracks:      everyNth(4),
			Color:       "purple",
		},
		{
			ID:          "3",
			Name:        "Chill Vibes",
			Description: "Relaxing tunes for your day",
			Tracks:      everyNth(2),
			Color:       "blue",
		},
	}
}

// everyNth selects the sample tracks whose index is a multiple of n.
func everyNth(n int) []models.Track {
	var tracks []models.Track
	for i, t := range sampleTracks {
		if i%n == 0 {
			tracks = append(tracks, t)
		}
	}
	return tracks
}
