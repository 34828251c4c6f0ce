package domain

import (
	"context"
	"time"
)

type UserRecord struct {
	ID       string
	Username string

	// SpotifyLinked reports whether the user connected a Spotify account,
	// which is required for the listen-along feature.
	SpotifyLinked bool
}

type ChannelConfig struct {
	ChannelID string
	Prefix    *string
	Emote     *string
}

type Reminder struct {
	ID      int64
	Creator string
	Target  string
	Text    string
	SetAt   time.Time
}

type UserRepository interface {
	Get(ctx context.Context, userID string) (*UserRecord, error)
	GetByName(ctx context.Context, username string) (*UserRecord, error)
}

type ChannelRepository interface {
	GetChannel(ctx context.Context, channelID string) (*ChannelConfig, error)
	SetPrefix(ctx context.Context, channelID string, prefix *string) error
	SetEmote(ctx context.Context, channelID string, emote *string) error
}

type ReminderRepository interface {
	// Remove deletes the reminder if it exists and belongs to ownerID.
	// It reports whether a row was actually removed.
	Remove(ctx context.Context, ownerID string, reminderID int64) (bool, error)
}
