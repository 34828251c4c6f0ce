package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"teaBot/internal/domain"
)

// IDCommand resolves a chat username to its platform user id.
type IDCommand struct {
	lookup  domain.UserLookupService
	timeout time.Duration
}

func NewIDCommand(lookup domain.UserLookupService, timeout time.Duration) *IDCommand {
	return &IDCommand{
		lookup:  lookup,
		timeout: timeout,
	}
}

func (c *IDCommand) Handle(ctx context.Context, cmdCtx *Context) (string, error) {
	msg := cmdCtx.Message
	target := strings.ToLower(cmdCtx.Args[0])

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	id, err := c.lookup.ResolveID(ctx, target)
	var ufe *domain.UserFacingError
	if errors.As(err, &ufe) {
		return fmt.Sprintf("%s, %s", msg.Username, ufe.Reason), nil
	}
	if err != nil {
		return "", fmt.Errorf("id: resolving %s: %w", target, err)
	}
	return fmt.Sprintf("%s, the id of %s is %s", msg.Username, antiping(target), id), nil
}
