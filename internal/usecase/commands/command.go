package commands

import (
	"context"

	"teaBot/internal/domain"
)

// Handler runs a matched command and returns the chat response. An empty
// response means the command stays silent. A returned error is an internal
// failure: the dispatcher logs it and replies with a generic apology; user
// visible failures are returned as response text instead.
type Handler interface {
	Handle(ctx context.Context, c *Context) (string, error)
}

type Context struct {
	Message domain.Message
	Spec    *Spec

	// Prefix is the effective prefix of the channel the message came from,
	// Alias the spec alias that matched.
	Prefix string
	Alias  string
	// Args holds the whitespace-separated tokens after the alias, case
	// preserved.
	Args []string
}

// antiping inserts an invisible tag character into the middle of a username
// so responses never ping the mentioned user.
func antiping(username string) string {
	if len(username) < 2 {
		return username
	}
	half := len(username) / 2
	return username[:half] + "\U000E0000" + username[half:]
}
