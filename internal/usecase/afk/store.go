package afk

import (
	"errors"
	"strings"
	"sync"
	"time"
)

// ErrNeverAfk is returned by Resume for users that have no AFK history.
var ErrNeverAfk = errors.New("user never went afk")

// Templates holds the message texts of one AFK sub-type. Placeholders:
// {username}, {duration}, {message}.
type Templates struct {
	GoingAway  string `yaml:"going_away"`
	ComingBack string `yaml:"coming_back"`
	Resuming   string `yaml:"resuming"`
}

type Record struct {
	UserID   string
	Username string
	Kind     string
	Reason   string
	Since    time.Time
	Afk      bool
}

// Store is the process-wide AFK state. Each user gets their own entry with
// its own lock, so concurrent messages from unrelated users never contend.
type Store struct {
	cooldown  time.Duration
	templates map[string]Templates
	now       func() time.Time

	mu    sync.RWMutex
	users map[string]*entry
}

type entry struct {
	mu            sync.Mutex
	rec           Record
	cooldownUntil time.Time
}

func NewStore(templates map[string]Templates, cooldown time.Duration) *Store {
	return &Store{
		cooldown:  cooldown,
		templates: templates,
		now:       time.Now,
		users:     make(map[string]*entry),
	}
}

func (s *Store) entryFor(userID string) *entry {
	s.mu.RLock()
	e := s.users[userID]
	s.mu.RUnlock()
	if e != nil {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e = s.users[userID]; e == nil {
		e = &entry{}
		s.users[userID] = e
	}
	return e
}

// lookup returns the entry without creating one.
func (s *Store) lookup(userID string) *entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users[userID]
}

// GoAfk marks the user as away. Re-invoking while already AFK refreshes
// kind, reason and timestamp.
func (s *Store) GoAfk(userID, username, kind, reason string) Record {
	e := s.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	e.rec = Record{
		UserID:   userID,
		Username: username,
		Kind:     kind,
		Reason:   reason,
		Since:    s.now(),
		Afk:      true,
	}
	return e.rec
}

// ComeBack clears the AFK flag and returns the prior record, or nil if the
// user wasn't AFK. The caller decides whether the comeback notification may
// be emitted (see CooldownActive / ArmCooldown); the flag is cleared either
// way.
func (s *Store) ComeBack(userID string) *Record {
	e := s.lookup(userID)
	if e == nil {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.rec.Afk {
		return nil
	}
	prior := e.rec
	e.rec.Afk = false
	return &prior
}

// Resume re-raises the AFK flag with the user's previous kind and reason.
func (s *Store) Resume(userID string) (*Record, error) {
	e := s.lookup(userID)
	if e == nil {
		return nil, ErrNeverAfk
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.rec.Kind == "" {
		return nil, ErrNeverAfk
	}
	e.rec.Afk = true
	rec := e.rec
	return &rec, nil
}

func (s *Store) IsAfk(userID string) bool {
	e := s.lookup(userID)
	if e == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rec.Afk
}

// CooldownActive reports whether a comeback notification for the user is
// currently suppressed.
func (s *Store) CooldownActive(userID string) bool {
	e := s.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return s.now().Before(e.cooldownUntil)
}

// ArmCooldown (re)creates the user's cooldown entry, expiring at now plus
// the configured window.
func (s *Store) ArmCooldown(userID string) {
	e := s.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cooldownUntil = s.now().Add(s.cooldown)
}

func (s *Store) RenderGoingAway(rec Record) string {
	return s.render(s.templates[rec.Kind].GoingAway, rec)
}

func (s *Store) RenderComingBack(rec Record) string {
	return s.render(s.templates[rec.Kind].ComingBack, rec)
}

func (s *Store) RenderResuming(rec Record) string {
	return s.render(s.templates[rec.Kind].Resuming, rec)
}

func (s *Store) render(template string, rec Record) string {
	text := strings.NewReplacer(
		"{username}", rec.Username,
		"{duration}", FormatDuration(s.now().Sub(rec.Since)),
		"{message}", rec.Reason,
	).Replace(template)

	// Without a reason the template would leave "...: (5min ago)"; drop the
	// colon and collapse the doubled whitespace instead.
	if rec.Reason == "" {
		text = strings.Join(strings.Fields(strings.ReplaceAll(text, ":", "")), " ")
	}
	return text
}
