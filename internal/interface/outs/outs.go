package outs

import (
	"context"
	"fmt"
	"sync"

	"teaBot/internal/domain"
)

// Sender is implemented by outgoing platform adapters.
type Sender interface {
	SendMessage(ctx context.Context, platform domain.Platform, channelID, text string) error
}

// MultiSender routes outgoing messages to the sender of their platform.
type MultiSender struct {
	mu      sync.RWMutex
	senders map[domain.Platform]Sender
}

func NewMultiSender() *MultiSender {
	return &MultiSender{
		senders: make(map[domain.Platform]Sender),
	}
}

func (m *MultiSender) Register(platform domain.Platform, sender Sender) {
	if m == nil || sender == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.senders[platform] = sender
}

func (m *MultiSender) Unregister(platform domain.Platform) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.senders, platform)
}

func (m *MultiSender) SendMessage(ctx context.Context, platform domain.Platform, channelID, text string) error {
	if m == nil {
		return fmt.Errorf("no multi sender configured")
	}
	m.mu.RLock()
	sender, ok := m.senders[platform]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("no sender registered for platform %s", platform)
	}

	return sender.SendMessage(ctx, platform, channelID, text)
}
