package domain

type Platform string

const (
	PlatformTwitch Platform = "twitch"
)

type Message struct {
	Platform  Platform
	ChannelID string
	UserID    string
	Username  string
	Text      string

	// Role flags filled in by the platform adapter.
	IsBroadcaster bool
	IsModerator   bool
	IsVip         bool
}
