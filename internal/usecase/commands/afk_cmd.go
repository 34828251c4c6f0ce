package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"teaBot/internal/usecase/afk"
)

// AfkCommand covers the whole AFK command family (afk, brb, gn, ...). The
// matched spec carries the sub-type whose templates are used for the reply.
type AfkCommand struct {
	store *afk.Store
}

func NewAfkCommand(store *afk.Store) *AfkCommand {
	return &AfkCommand{store: store}
}

func (c *AfkCommand) Handle(ctx context.Context, cmdCtx *Context) (string, error) {
	msg := cmdCtx.Message
	reason := strings.Join(cmdCtx.Args, " ")
	rec := c.store.GoAfk(msg.UserID, msg.Username, cmdCtx.Spec.AfkKind, reason)
	return c.store.RenderGoingAway(rec), nil
}

// RafkCommand resumes the user's previous AFK status after they came back.
type RafkCommand struct {
	store *afk.Store
}

func NewRafkCommand(store *afk.Store) *RafkCommand {
	return &RafkCommand{store: store}
}

func (c *RafkCommand) Handle(ctx context.Context, cmdCtx *Context) (string, error) {
	msg := cmdCtx.Message
	rec, err := c.store.Resume(msg.UserID)
	if errors.Is(err, afk.ErrNeverAfk) {
		return fmt.Sprintf("%s, you can't resume your afk status, because you never went afk before", msg.Username), nil
	}
	if err != nil {
		return "", err
	}
	return c.store.RenderResuming(*rec), nil
}
