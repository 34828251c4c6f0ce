package commands

import (
	"context"
	"fmt"
	"strings"

	"teaBot/internal/domain"
)

const (
	maxPrefixLength = 10
	maxEmoteLength  = 50

	noModOrBroadcaster = "you have to be a mod or the broadcaster to use this command"
)

// SetCommand changes per-channel settings: "!set prefix <p>" and
// "!set emote <e>". Both are mod/broadcaster only.
type SetCommand struct {
	channels domain.ChannelRepository
}

func NewSetCommand(channels domain.ChannelRepository) *SetCommand {
	return &SetCommand{channels: channels}
}

func (c *SetCommand) Handle(ctx context.Context, cmdCtx *Context) (string, error) {
	msg := cmdCtx.Message

	switch strings.ToLower(cmdCtx.Args[0]) {
	case "prefix":
		if !msg.IsModerator && !msg.IsBroadcaster {
			return fmt.Sprintf("%s, %s", msg.Username, noModOrBroadcaster), nil
		}
		if len(cmdCtx.Args) < 2 {
			return fmt.Sprintf("%s, no prefix given", msg.Username), nil
		}
		prefix := cmdCtx.Args[1]
		if len(prefix) > maxPrefixLength {
			prefix = prefix[:maxPrefixLength]
		}
		if err := c.channels.SetPrefix(ctx, msg.ChannelID, &prefix); err != nil {
			return "", fmt.Errorf("set prefix: %w", err)
		}
		return fmt.Sprintf("%s, prefix set to: %s", msg.Username, prefix), nil

	case "emote":
		if !msg.IsModerator && !msg.IsBroadcaster {
			return fmt.Sprintf("%s, %s", msg.Username, noModOrBroadcaster), nil
		}
		if len(cmdCtx.Args) < 2 {
			return fmt.Sprintf("%s, no emote given", msg.Username), nil
		}
		emote := cmdCtx.Args[1]
		if len(emote) > maxEmoteLength {
			emote = emote[:maxEmoteLength]
		}
		if err := c.channels.SetEmote(ctx, msg.ChannelID, &emote); err != nil {
			return "", fmt.Errorf("set emote: %w", err)
		}
		return fmt.Sprintf("%s, emote set to: %s", msg.Username, emote), nil

	default:
		return fmt.Sprintf("%s, you can't set a %q", msg.Username, cmdCtx.Args[0]), nil
	}
}
