package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"teaBot/internal/domain"
	"teaBot/internal/usecase/listen"
)

// ListenCommand drives the listen-along feature: "!listen <user>" joins,
// "!listen leave|stop" detaches, "!listen sync" re-mirrors the host's
// current item.
type ListenCommand struct {
	registry *listen.Registry
	users    domain.UserRepository
}

func NewListenCommand(registry *listen.Registry, users domain.UserRepository) *ListenCommand {
	return &ListenCommand{
		registry: registry,
		users:    users,
	}
}

func (c *ListenCommand) Handle(ctx context.Context, cmdCtx *Context) (string, error) {
	msg := cmdCtx.Message
	self := strings.ToLower(msg.Username)

	switch strings.ToLower(cmdCtx.Args[0]) {
	case "leave", "stop":
		if ok, err := c.registered(ctx, self); err != nil {
			return "", err
		} else if !ok {
			return fmt.Sprintf("%s, you aren't registered, you have to register first", msg.Username), nil
		}
		host, ok := c.registry.Leave(self)
		if !ok {
			return fmt.Sprintf("%s, you aren't listening along with anybody", msg.Username), nil
		}
		return fmt.Sprintf("%s, stopped listening along with %s", msg.Username, antiping(host)), nil

	case "sync":
		if ok, err := c.registered(ctx, self); err != nil {
			return "", err
		} else if !ok {
			return fmt.Sprintf("%s, you can't sync, you have to register first", msg.Username), nil
		}
		item, host, err := c.registry.Sync(ctx, self)
		if errors.Is(err, listen.ErrNotListening) {
			return fmt.Sprintf("%s, you can't sync, because you aren't listening along with anybody", msg.Username), nil
		}
		if err != nil {
			return c.playbackFailure(msg.Username, err)
		}
		return c.itemResponse(msg.Username, fmt.Sprintf("synced with %s", antiping(host)), item), nil

	default:
		target := strings.ToLower(cmdCtx.Args[0])
		if ok, err := c.registered(ctx, self); err != nil {
			return "", err
		} else if !ok {
			return fmt.Sprintf("%s, you can't listen to other users, you have to register first", msg.Username), nil
		}
		if ok, err := c.registered(ctx, target); err != nil {
			return "", err
		} else if !ok {
			return fmt.Sprintf("%s, you can't listen to %s's music, they have to register first", msg.Username, target), nil
		}

		if err := c.registry.Join(self, target); errors.Is(err, listen.ErrSelfListen) {
			return fmt.Sprintf("%s, you can't listen along with yourself", msg.Username), nil
		} else if err != nil {
			return "", err
		}

		item, host, err := c.registry.Sync(ctx, self)
		if err != nil {
			return c.playbackFailure(msg.Username, err)
		}
		return c.itemResponse(msg.Username, fmt.Sprintf("now listening along with %s", antiping(host)), item), nil
	}
}

func (c *ListenCommand) registered(ctx context.Context, username string) (bool, error) {
	user, err := c.users.GetByName(ctx, username)
	if err != nil {
		return false, fmt.Errorf("listen: looking up %s: %w", username, err)
	}
	return user != nil && user.SpotifyLinked, nil
}

// playbackFailure turns a sync error into response text. User-facing adapter
// conditions pass through; anything else bubbles up for the dispatcher to
// log and apologize for.
func (c *ListenCommand) playbackFailure(username string, err error) (string, error) {
	var ufe *domain.UserFacingError
	if errors.As(err, &ufe) {
		return fmt.Sprintf("%s, %s", username, ufe.Reason), nil
	}
	return "", err
}

func (c *ListenCommand) itemResponse(username, action string, item domain.SpotifyItem) string {
	switch it := item.(type) {
	case domain.SpotifyTrack:
		artists := strings.Join(lo.Map(it.Artists, func(a domain.SpotifyArtist, _ int) string {
			return a.Name
		}), ", ")
		return fmt.Sprintf("%s, %s and playing %s by %s || %s", username, action, it.Name, artists, itemSource(it.Local, it.URI))
	case domain.SpotifyEpisode:
		return fmt.Sprintf("%s, %s and playing %s by %s || %s", username, action, it.Name, it.Show, itemSource(it.Local, it.URI))
	default:
		return fmt.Sprintf("%s, %s and playing an unknown item type monkaS", username, action)
	}
}

func itemSource(local bool, uri string) string {
	if local {
		return "local file"
	}
	return uri
}
