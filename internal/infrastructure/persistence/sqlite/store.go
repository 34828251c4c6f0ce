package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"teaBot/internal/domain"
)

// Store persists users, channel configs and reminders. It implements
// domain.UserRepository, domain.ChannelRepository and
// domain.ReminderRepository, plus the token lookups the Spotify adapter
// needs.
type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite: empty db path")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite: creating dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	const usersTable = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL,
	spotify_access_token TEXT,
	spotify_refresh_token TEXT,
	updated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);`

	if _, err := db.Exec(usersTable); err != nil {
		return fmt.Errorf("sqlite: migrate users: %w", err)
	}

	const channelsTable = `
CREATE TABLE IF NOT EXISTS channels (
	id TEXT PRIMARY KEY,
	prefix TEXT,
	emote TEXT,
	updated_at TIMESTAMP NOT NULL
);`

	if _, err := db.Exec(channelsTable); err != nil {
		return fmt.Errorf("sqlite: migrate channels: %w", err)
	}
	if _, err := db.Exec(`ALTER TABLE channels ADD COLUMN emote TEXT;`); err != nil {
		if !strings.Contains(strings.ToLower(err.Error()), "duplicate column") {
			return fmt.Errorf("sqlite: add emote column: %w", err)
		}
	}

	const remindersTable = `
CREATE TABLE IF NOT EXISTS reminders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	creator TEXT NOT NULL,
	target TEXT NOT NULL,
	message TEXT,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_reminders_target ON reminders(target);`

	if _, err := db.Exec(remindersTable); err != nil {
		return fmt.Errorf("sqlite: migrate reminders: %w", err)
	}

	return nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, userID string) (*domain.UserRecord, error) {
	return s.getUser(ctx, `SELECT id, username, COALESCE(spotify_refresh_token, '') FROM users WHERE id = ?`, userID)
}

func (s *Store) GetByName(ctx context.Context, username string) (*domain.UserRecord, error) {
	return s.getUser(ctx, `SELECT id, username, COALESCE(spotify_refresh_token, '') FROM users WHERE username = ?`, strings.ToLower(username))
}

func (s *Store) getUser(ctx context.Context, query, arg string) (*domain.UserRecord, error) {
	var rec domain.UserRecord
	var refresh string
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&rec.ID, &rec.Username, &refresh)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get user: %w", err)
	}
	rec.SpotifyLinked = refresh != ""
	return &rec, nil
}

func (s *Store) UpsertUser(ctx context.Context, userID, username string) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO users (id, username, updated_at) VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET username = excluded.username, updated_at = excluded.updated_at`,
		userID, strings.ToLower(username), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("sqlite: upsert user: %w", err)
	}
	return nil
}

// SpotifyTokens returns the stored token pair for a user, empty strings if
// the account was never linked.
func (s *Store) SpotifyTokens(ctx context.Context, username string) (access, refresh string, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT COALESCE(spotify_access_token, ''), COALESCE(spotify_refresh_token, '') FROM users WHERE username = ?`,
		strings.ToLower(username)).Scan(&access, &refresh)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", nil
	}
	if err != nil {
		return "", "", fmt.Errorf("sqlite: spotify tokens: %w", err)
	}
	return access, refresh, nil
}

func (s *Store) SaveSpotifyTokens(ctx context.Context, username, access, refresh string) error {
	_, err := s.db.ExecContext(ctx, `
UPDATE users SET spotify_access_token = ?, spotify_refresh_token = ?, updated_at = ? WHERE username = ?`,
		access, refresh, time.Now().UTC(), strings.ToLower(username))
	if err != nil {
		return fmt.Errorf("sqlite: save spotify tokens: %w", err)
	}
	return nil
}

func (s *Store) GetChannel(ctx context.Context, channelID string) (*domain.ChannelConfig, error) {
	var cfg domain.ChannelConfig
	err := s.db.QueryRowContext(ctx,
		`SELECT id, prefix, emote FROM channels WHERE id = ?`, channelID).
		Scan(&cfg.ChannelID, &cfg.Prefix, &cfg.Emote)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get channel: %w", err)
	}
	return &cfg, nil
}

func (s *Store) SetPrefix(ctx context.Context, channelID string, prefix *string) error {
	return s.setChannelField(ctx, channelID, "prefix", prefix)
}

func (s *Store) SetEmote(ctx context.Context, channelID string, emote *string) error {
	return s.setChannelField(ctx, channelID, "emote", emote)
}

func (s *Store) setChannelField(ctx context.Context, channelID, column string, value *string) error {
	// column is one of two compile-time constants, never user input.
	query := fmt.Sprintf(`
INSERT INTO channels (id, %[1]s, updated_at) VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET %[1]s = excluded.%[1]s, updated_at = excluded.updated_at`, column)
	if _, err := s.db.ExecContext(ctx, query, channelID, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("sqlite: set channel %s: %w", column, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, ownerID string, reminderID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM reminders WHERE id = ? AND creator = ?`, reminderID, ownerID)
	if err != nil {
		return false, fmt.Errorf("sqlite: remove reminder: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: remove reminder: %w", err)
	}
	return affected > 0, nil
}
