// Package spotifyinfra implements the playback port over the Spotify Web API.
package spotifyinfra

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	spotify "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"teaBot/internal/domain"
)

// TokenStore provides the per-user OAuth token pairs the adapter plays with.
type TokenStore interface {
	SpotifyTokens(ctx context.Context, username string) (access, refresh string, err error)
}

type Adapter struct {
	auth   *spotifyauth.Authenticator
	tokens TokenStore
	log    *zap.Logger

	mu      sync.Mutex
	clients map[string]*spotify.Client
}

func NewAdapter(clientID, clientSecret string, tokens TokenStore, log *zap.Logger) *Adapter {
	return &Adapter{
		auth: spotifyauth.New(
			spotifyauth.WithClientID(clientID),
			spotifyauth.WithClientSecret(clientSecret),
		),
		tokens:  tokens,
		log:     log,
		clients: make(map[string]*spotify.Client),
	}
}

func (a *Adapter) CurrentItem(ctx context.Context, host string) (domain.SpotifyItem, error) {
	client, err := a.clientFor(ctx, host)
	if err != nil {
		return nil, err
	}

	cur, err := client.PlayerCurrentlyPlaying(ctx)
	if err != nil {
		return nil, classify(err)
	}
	if cur == nil || !cur.Playing || cur.Item == nil {
		return nil, &domain.UserFacingError{
			Reason: fmt.Sprintf("%s isn't listening to anything at the moment", host),
		}
	}

	track := cur.Item
	uri := string(track.URI)
	local := strings.HasPrefix(uri, "spotify:local")

	// Episodes surface with a "show" playback context; their show name comes
	// through the album field.
	if cur.PlaybackContext.Type == "show" {
		return domain.SpotifyEpisode{
			Name:  track.Name,
			Show:  track.Album.Name,
			Local: local,
			URI:   uri,
		}, nil
	}

	artists := make([]domain.SpotifyArtist, 0, len(track.Artists))
	for _, artist := range track.Artists {
		artists = append(artists, domain.SpotifyArtist{Name: artist.Name})
	}
	return domain.SpotifyTrack{
		Name:    track.Name,
		Artists: artists,
		Local:   local,
		URI:     uri,
	}, nil
}

func (a *Adapter) Mirror(ctx context.Context, listener string, item domain.SpotifyItem) error {
	var uri string
	switch it := item.(type) {
	case domain.SpotifyTrack:
		if it.Local {
			return &domain.UserFacingError{Reason: "the track can't be mirrored, because it is a local file"}
		}
		uri = it.URI
	case domain.SpotifyEpisode:
		if it.Local {
			return &domain.UserFacingError{Reason: "the episode can't be mirrored, because it is a local file"}
		}
		uri = it.URI
	default:
		return &domain.UserFacingError{Reason: "the current item type can't be mirrored"}
	}

	client, err := a.clientFor(ctx, listener)
	if err != nil {
		return err
	}

	if err := client.PlayOpt(ctx, &spotify.PlayOptions{
		URIs: []spotify.URI{spotify.URI(uri)},
	}); err != nil {
		return classify(err)
	}
	return nil
}

// clientFor returns a cached per-user client; oauth2 refreshes the access
// token under the hood, Spotify refresh tokens don't rotate.
func (a *Adapter) clientFor(ctx context.Context, username string) (*spotify.Client, error) {
	a.mu.Lock()
	client := a.clients[username]
	a.mu.Unlock()
	if client != nil {
		return client, nil
	}

	access, refresh, err := a.tokens.SpotifyTokens(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("spotify: tokens for %s: %w", username, err)
	}
	if refresh == "" {
		return nil, &domain.UserFacingError{
			Reason: fmt.Sprintf("%s hasn't linked a spotify account", username),
		}
	}

	// The stored access token is likely stale; an expiry in the past makes
	// oauth2 refresh it on first use instead of failing with a 401.
	httpClient := a.auth.Client(context.Background(), &oauth2.Token{
		AccessToken:  access,
		RefreshToken: refresh,
		Expiry:       time.Now().Add(-time.Minute),
	})
	client = spotify.New(httpClient)
	a.log.Debug("spotify client created", zap.String("user", username))

	a.mu.Lock()
	a.clients[username] = client
	a.mu.Unlock()
	return client, nil
}

// classify maps Spotify API failures the user can act on to user-facing
// errors; everything else stays internal.
func classify(err error) error {
	var serr spotify.Error
	if errors.As(err, &serr) {
		switch serr.Status {
		case http.StatusNotFound:
			return &domain.UserFacingError{Reason: "no active spotify device found"}
		case http.StatusForbidden:
			return &domain.UserFacingError{Reason: "spotify premium is required for that"}
		}
	}
	return err
}
