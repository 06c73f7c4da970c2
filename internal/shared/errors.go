package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Storage errors
	ErrRecordNotFound     = fmt.Errorf("record not found")
	ErrCorruptRecord      = fmt.Errorf("corrupt record")
	ErrStorageUnavailable = fmt.Errorf("storage unavailable")

	// Library errors
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrTrackNotFound    = fmt.Errorf("track not found")
	ErrAlbumNotFound    = fmt.Errorf("album not found")
	ErrArtistNotFound   = fmt.Errorf("artist not found")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
