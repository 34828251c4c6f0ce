package commands

import (
	"context"
	"fmt"
	"time"

	"teaBot/internal/usecase/afk"
)

type PingCommand struct {
	startedAt time.Time
}

func NewPingCommand(startedAt time.Time) *PingCommand {
	return &PingCommand{startedAt: startedAt}
}

func (c *PingCommand) Handle(ctx context.Context, cmdCtx *Context) (string, error) {
	uptime := afk.FormatDuration(time.Since(c.startedAt))
	return fmt.Sprintf("%s, pong! running for %s", cmdCtx.Message.Username, uptime), nil
}
