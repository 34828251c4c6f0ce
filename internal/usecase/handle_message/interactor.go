// Package handle_message routes inbound chat messages to commands.
package handle_message

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"teaBot/internal/domain"
	"teaBot/internal/usecase/afk"
	"teaBot/internal/usecase/commands"
)

type Interactor struct {
	registry  *commands.Registry
	patterns  *commands.PatternBuilder
	cooldowns *commands.Cooldowns
	afk       *afk.Store
	channels  domain.ChannelRepository
	out       domain.OutgoingMessagePort
	log       *zap.Logger

	defaultPrefix string
	maxMessageLen int
}

func NewInteractor(
	registry *commands.Registry,
	patterns *commands.PatternBuilder,
	afkStore *afk.Store,
	channels domain.ChannelRepository,
	out domain.OutgoingMessagePort,
	log *zap.Logger,
	defaultPrefix string,
	maxMessageLen int,
) *Interactor {
	return &Interactor{
		registry:      registry,
		patterns:      patterns,
		cooldowns:     commands.NewCooldowns(),
		afk:           afkStore,
		channels:      channels,
		out:           out,
		log:           log,
		defaultPrefix: defaultPrefix,
		maxMessageLen: maxMessageLen,
	}
}

// Handle processes one inbound message to completion. The transport adapter
// runs it on a goroutine per message; a failing or panicking command never
// takes down anything beyond its own invocation.
func (uc *Interactor) Handle(ctx context.Context, msg domain.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			uc.log.Error("command panicked",
				zap.Any("panic", r),
				zap.String("channel", msg.ChannelID),
				zap.String("user", msg.Username),
				zap.String("text", msg.Text))
			err = uc.send(ctx, msg, apology(msg.Username))
		}
	}()

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return nil
	}

	prefix := uc.effectivePrefix(ctx, msg.ChannelID)

	for _, spec := range uc.registry.Specs() {
		alias, ok := uc.match(text, spec, prefix)
		if !ok {
			continue
		}

		if uc.cooldowns.Hit(msg.UserID, spec.ID, spec.Cooldown) {
			return nil
		}

		handler, ok := uc.registry.HandlerFor(spec.ID)
		if !ok {
			// A spec without a handler means broken wiring; scoped to this
			// one invocation.
			uc.log.Error("no handler for command", zap.String("command", spec.ID))
			return uc.send(ctx, msg, apology(msg.Username))
		}

		response, err := handler.Handle(ctx, &commands.Context{
			Message: msg,
			Spec:    spec,
			Prefix:  prefix,
			Alias:   alias,
			Args:    strings.Fields(text)[1:],
		})
		if err != nil {
			uc.log.Error("command failed",
				zap.String("command", spec.ID),
				zap.String("channel", msg.ChannelID),
				zap.String("user", msg.Username),
				zap.Error(err))
			return uc.send(ctx, msg, apology(msg.Username))
		}
		if response == "" {
			return nil
		}
		return uc.send(ctx, msg, response)
	}

	// Plain chat. Coming back from AFK clears the flag even while the
	// notification is cooldown-suppressed.
	if rec := uc.afk.ComeBack(msg.UserID); rec != nil {
		if uc.afk.CooldownActive(msg.UserID) {
			return nil
		}
		uc.afk.ArmCooldown(msg.UserID)
		return uc.send(ctx, msg, uc.afk.RenderComingBack(*rec))
	}
	return nil
}

// match tries every alias of the spec against the message text.
func (uc *Interactor) match(text string, spec *commands.Spec, prefix string) (string, bool) {
	for _, alias := range spec.Aliases {
		if uc.patterns.Matches(text, alias, prefix, spec.Body) {
			return alias, true
		}
	}
	return "", false
}

func (uc *Interactor) effectivePrefix(ctx context.Context, channelID string) string {
	cfg, err := uc.channels.GetChannel(ctx, channelID)
	if err != nil {
		uc.log.Warn("channel config lookup failed",
			zap.String("channel", channelID), zap.Error(err))
		return uc.defaultPrefix
	}
	if cfg == nil {
		return uc.defaultPrefix
	}
	return commands.Effective(cfg.Prefix, uc.defaultPrefix)
}

// send chunks the response to the transport limit and emits the parts in
// order; pacing between parts is the transport adapter's business.
func (uc *Interactor) send(ctx context.Context, msg domain.Message, text string) error {
	for _, part := range Split(text, uc.maxMessageLen) {
		if err := uc.out.SendMessage(ctx, msg.Platform, msg.ChannelID, part); err != nil {
			return fmt.Errorf("sending response: %w", err)
		}
	}
	return nil
}

func apology(username string) string {
	return username + ", something went wrong"
}
