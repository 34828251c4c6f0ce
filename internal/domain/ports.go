package domain

import "context"

type OutgoingMessagePort interface {
	SendMessage(ctx context.Context, platform Platform, channelID, text string) error
}

// UserLookupService resolves chat usernames against the platform API.
type UserLookupService interface {
	ResolveID(ctx context.Context, username string) (string, error)
}
