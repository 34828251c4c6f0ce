package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"teaBot/internal/domain"
)

// UnsetCommand reverts per-channel settings and removes reminders:
// "!unset prefix", "!unset emote" (mod gated) and "!unset reminder <id>".
type UnsetCommand struct {
	channels  domain.ChannelRepository
	reminders domain.ReminderRepository
	patterns  *PatternBuilder
}

func NewUnsetCommand(channels domain.ChannelRepository, reminders domain.ReminderRepository, patterns *PatternBuilder) *UnsetCommand {
	return &UnsetCommand{
		channels:  channels,
		reminders: reminders,
		patterns:  patterns,
	}
}

func (c *UnsetCommand) Handle(ctx context.Context, cmdCtx *Context) (string, error) {
	msg := cmdCtx.Message

	switch strings.ToLower(cmdCtx.Args[0]) {
	case "prefix":
		if !msg.IsModerator && !msg.IsBroadcaster {
			return fmt.Sprintf("%s, %s", msg.Username, noModOrBroadcaster), nil
		}
		if err := c.channels.SetPrefix(ctx, msg.ChannelID, nil); err != nil {
			return "", fmt.Errorf("unset prefix: %w", err)
		}
		return fmt.Sprintf("%s, the prefix has been unset", msg.Username), nil

	case "emote":
		if !msg.IsModerator && !msg.IsBroadcaster {
			return fmt.Sprintf("%s, %s", msg.Username, noModOrBroadcaster), nil
		}
		if err := c.channels.SetEmote(ctx, msg.ChannelID, nil); err != nil {
			return "", fmt.Errorf("unset emote: %w", err)
		}
		return fmt.Sprintf("%s, the emote has been unset", msg.Username), nil

	case "reminder":
		// The id must be numeric; "!unset reminder abc" is not an invocation.
		if !c.patterns.Matches(strings.TrimSpace(msg.Text), cmdCtx.Alias, cmdCtx.Prefix, `\s+reminder\s+\d+`) {
			return fmt.Sprintf("%s, no reminder id given", msg.Username), nil
		}
		id, err := strconv.ParseInt(cmdCtx.Args[1], 10, 64)
		if err != nil {
			return fmt.Sprintf("%s, no reminder id given", msg.Username), nil
		}
		removed, err := c.reminders.Remove(ctx, msg.UserID, id)
		if err != nil {
			return "", fmt.Errorf("unset reminder: %w", err)
		}
		if !removed {
			return fmt.Sprintf("%s, the reminder couldn't be unset", msg.Username), nil
		}
		return fmt.Sprintf("%s, the reminder has been unset", msg.Username), nil

	default:
		return fmt.Sprintf("%s, you can't unset a %q", msg.Username, cmdCtx.Args[0]), nil
	}
}
