package domain

import "context"

// SpotifyItem is whatever the playback adapter reports as currently playing.
// It is a closed union: SpotifyTrack, SpotifyEpisode or SpotifyUnknown.
type SpotifyItem interface {
	spotifyItem()
}

type SpotifyArtist struct {
	Name string
}

type SpotifyTrack struct {
	Name    string
	Artists []SpotifyArtist
	Local   bool
	URI     string
}

func (SpotifyTrack) spotifyItem() {}

type SpotifyEpisode struct {
	Name  string
	Show  string
	Local bool
	URI   string
}

func (SpotifyEpisode) spotifyItem() {}

type SpotifyUnknown struct{}

func (SpotifyUnknown) spotifyItem() {}

// PlaybackPort is implemented by the Spotify adapter. Users are keyed by
// their lowercased chat name.
type PlaybackPort interface {
	CurrentItem(ctx context.Context, host string) (SpotifyItem, error)
	Mirror(ctx context.Context, listener string, item SpotifyItem) error
}

// UserFacingError is an adapter failure whose message is safe to show in
// chat ("no active device", "track unavailable", ...). Anything else coming
// out of an adapter is treated as internal and never reaches the user.
type UserFacingError struct {
	Reason string
}

func (e *UserFacingError) Error() string {
	return e.Reason
}
