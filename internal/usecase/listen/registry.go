// Package listen tracks which user is mirroring which other user's playback.
package listen

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"teaBot/internal/domain"
)

var (
	ErrSelfListen   = errors.New("you can't listen along with yourself")
	ErrNotListening = errors.New("you aren't listening along with anybody")
)

// Registry holds the active listen-along relations. Users are keyed by
// lowercased chat name. Every mutation is a constant-time map edit, so one
// short-lived lock serializes them; the blocking playback calls in Sync never
// hold it, so syncs for unrelated users proceed independently.
type Registry struct {
	playback domain.PlaybackPort
	timeout  time.Duration

	mu       sync.RWMutex
	sessions map[string][]string // host -> listeners, join order
	hosts    map[string]string   // listener -> host
}

func NewRegistry(playback domain.PlaybackPort, timeout time.Duration) *Registry {
	return &Registry{
		playback: playback,
		timeout:  timeout,
		sessions: make(map[string][]string),
		hosts:    make(map[string]string),
	}
}

// Join attaches listener under host's session, creating it if absent. A
// listener already attached elsewhere is detached first, so a join is an
// idempotent move. Joining yourself fails and leaves the registry unchanged.
func (r *Registry) Join(listener, host string) error {
	if listener == host {
		return ErrSelfListen
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.hosts[listener]; ok {
		if prev == host {
			return nil
		}
		r.detachLocked(listener, prev)
	}

	r.sessions[host] = append(r.sessions[host], listener)
	r.hosts[listener] = host
	return nil
}

// Leave detaches the listener from its session and reports whether it was
// attached at all. The host's session stays alive even with zero listeners.
func (r *Registry) Leave(listener string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	host, ok := r.hosts[listener]
	if !ok {
		return "", false
	}
	r.detachLocked(listener, host)
	delete(r.hosts, listener)
	return host, true
}

func (r *Registry) detachLocked(listener, host string) {
	listeners := r.sessions[host]
	for i, l := range listeners {
		if l == listener {
			r.sessions[host] = append(listeners[:i], listeners[i+1:]...)
			return
		}
	}
}

func (r *Registry) HostOf(listener string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	host, ok := r.hosts[listener]
	return host, ok
}

// Listeners returns a snapshot of the host's listener set in join order.
func (r *Registry) Listeners(host string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.sessions[host]...)
}

// Sync fetches the current item of the listener's host and mirrors it onto
// the listener's account. Playback failures the user can act on come back as
// *domain.UserFacingError; everything else (including a timed out adapter
// call) is internal.
func (r *Registry) Sync(ctx context.Context, listener string) (domain.SpotifyItem, string, error) {
	host, ok := r.HostOf(listener)
	if !ok {
		return nil, "", ErrNotListening
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	item, err := r.playback.CurrentItem(ctx, host)
	if err != nil {
		return nil, host, wrapTimeout(err)
	}
	if err := r.playback.Mirror(ctx, listener, item); err != nil {
		return nil, host, wrapTimeout(err)
	}
	return item, host, nil
}

func wrapTimeout(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("playback sync timed out: %w", err)
	}
	return err
}
