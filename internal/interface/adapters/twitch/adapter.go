// Package twitchadapter connects the engine to Twitch chat over IRC.
package twitchadapter

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/adeithe/go-twitch/irc"
	"go.uber.org/zap"

	"teaBot/internal/domain"
)

type Config struct {
	Username   string
	OAuthToken string
	Channels   []string

	// DelayBetweenMessages paces consecutive sends to the same channel so a
	// chunked response doesn't trip Twitch's message rate limit.
	DelayBetweenMessages time.Duration
}

type MessageHandler func(ctx context.Context, msg domain.Message) error

type Adapter struct {
	cfg     Config
	log     *zap.Logger
	handler MessageHandler

	mu       sync.RWMutex
	conn     *irc.Conn
	lastSend map[string]time.Time
}

func NewAdapter(cfg Config, log *zap.Logger) *Adapter {
	return &Adapter{
		cfg:      cfg,
		log:      log,
		lastSend: make(map[string]time.Time),
	}
}

func (a *Adapter) SetHandler(h MessageHandler) {
	a.mu.Lock()
	a.handler = h
	a.mu.Unlock()
}

func (a *Adapter) Start(ctx context.Context) error {
	if len(a.cfg.Channels) == 0 {
		return errors.New("twitch: no channels configured")
	}
	if a.cfg.Username == "" || a.cfg.OAuthToken == "" {
		return errors.New("twitch: username or oauth token empty")
	}

	conn := &irc.Conn{}

	if err := conn.SetLogin(a.cfg.Username, a.cfg.OAuthToken); err != nil {
		return fmt.Errorf("twitch: SetLogin: %w", err)
	}

	conn.OnMessage(func(cm irc.ChatMessage) {
		a.mu.RLock()
		handler := a.handler
		a.mu.RUnlock()
		if handler == nil {
			return
		}

		// One task per inbound message; command failures are contained and
		// logged inside the dispatcher.
		msg := mapChatMessageToDomain(cm)
		go func() {
			if err := handler(ctx, msg); err != nil {
				a.log.Error("message handler failed",
					zap.String("channel", msg.ChannelID),
					zap.String("user", msg.Username),
					zap.Error(err))
			}
		}()
	})

	if err := conn.Connect(); err != nil {
		return fmt.Errorf("twitch: Connect: %w", err)
	}

	if err := conn.Join(a.cfg.Channels...); err != nil {
		return fmt.Errorf("twitch: Join: %w", err)
	}

	a.mu.Lock()
	a.conn = conn
	a.mu.Unlock()

	a.log.Info("twitch connected",
		zap.String("username", a.cfg.Username),
		zap.Strings("channels", a.cfg.Channels))

	<-ctx.Done()

	a.mu.Lock()
	if a.conn != nil {
		a.conn.Close()
	}
	a.mu.Unlock()

	return ctx.Err()
}

func (a *Adapter) SendMessage(ctx context.Context, platform domain.Platform, channelID, text string) error {
	if platform != domain.PlatformTwitch {
		return fmt.Errorf("twitch adapter doesn't support platform %s", platform)
	}

	a.mu.RLock()
	conn := a.conn
	a.mu.RUnlock()

	if conn == nil || !conn.IsConnected() {
		return errors.New("twitch: connection not initialized or closed")
	}

	a.pace(channelID)
	return conn.Say(channelID, text)
}

// pace keeps two sends to the same channel at least DelayBetweenMessages
// apart.
func (a *Adapter) pace(channelID string) {
	if a.cfg.DelayBetweenMessages <= 0 {
		return
	}

	a.mu.Lock()
	last := a.lastSend[channelID]
	next := last.Add(a.cfg.DelayBetweenMessages)
	now := time.Now()
	if next.Before(now) {
		next = now
	}
	a.lastSend[channelID] = next
	a.mu.Unlock()

	if wait := time.Until(next); wait > 0 {
		time.Sleep(wait)
	}
}

func mapChatMessageToDomain(cm irc.ChatMessage) domain.Message {
	sender := cm.Sender

	return domain.Message{
		Platform:  domain.PlatformTwitch,
		ChannelID: cm.Channel,
		UserID:    strconv.FormatInt(sender.ID, 10),
		Username:  sender.DisplayName,
		Text:      cm.Text,

		IsBroadcaster: sender.IsBroadcaster,
		IsModerator:   sender.IsModerator,
		IsVip:         sender.IsVIP,
	}
}
