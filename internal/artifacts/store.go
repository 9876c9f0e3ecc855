package artifacts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"medscribe/internal/config"
	"medscribe/internal/logging"
	"medscribe/internal/services"
)

// Store persists session artifacts in SQLite behind a write-through
// in-memory overlay. The durable medium is authoritative; the overlay is a
// pure cache whose lifetime equals the process lifetime.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger

	mu      sync.Mutex
	overlay map[overlayKey]json.RawMessage
}

type overlayKey struct {
	session string
	key     Key
}

// Entry is one durable artifact record.
type Entry struct {
	SessionID string
	Key       Key
	Value     json.RawMessage
	StoredAt  time.Time
}

// Open initializes or connects to the session database and verifies the schema.
func Open(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "sessions.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:      db,
		path:    dbPath,
		logger:  logging.NewComponentLogger(logger, "artifacts"),
		overlay: make(map[overlayKey]json.RawMessage),
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the location of the session database file.
func (s *Store) Path() string {
	return s.path
}

// Store writes one artifact, overwriting any previous value for the same
// (session, key). The overlay is updated before the durable write so readers
// in the same process see the new value immediately; a crash between the two
// writes loses only the overlay. A durable write failure is a storage
// failure and the caller's stage must abort.
func (s *Store) Store(ctx context.Context, sessionID string, key Key, value any) error {
	if sessionID == "" {
		return services.Wrap(services.ErrValidation, "", "store", "session id required", nil)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return services.Wrap(services.ErrValidation, "", "store", fmt.Sprintf("encode %s", key), err)
	}

	s.mu.Lock()
	s.overlay[overlayKey{session: sessionID, key: key}] = raw
	s.mu.Unlock()

	storedAt := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO artifacts (session_id, key, value_json, stored_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT (session_id, key)
         DO UPDATE SET value_json = excluded.value_json, stored_at = excluded.stored_at`,
		sessionID,
		string(key),
		string(raw),
		storedAt,
	)
	if err != nil {
		// The overlay is a pure cache over the durable medium: a value the
		// durable write rejected must not stay visible to in-process readers,
		// or a failed stage would still unblock its downstream stage. Dropping
		// the entry makes the next Get fall back to the authoritative durable
		// value.
		s.mu.Lock()
		delete(s.overlay, overlayKey{session: sessionID, key: key})
		s.mu.Unlock()
		return services.Wrap(services.ErrStorage, "", "store", fmt.Sprintf("persist %s for session %s", key, sessionID), err)
	}
	return nil
}

// Get returns one artifact value, consulting the overlay first and falling
// back to the durable medium on a miss. Read failures are logged and
// reported as absent; callers must tolerate spurious misses.
func (s *Store) Get(ctx context.Context, sessionID string, key Key) (json.RawMessage, bool) {
	s.mu.Lock()
	if raw, ok := s.overlay[overlayKey{session: sessionID, key: key}]; ok {
		s.mu.Unlock()
		return raw, true
	}
	s.mu.Unlock()

	var value string
	row := s.db.QueryRowContext(ctx,
		`SELECT value_json FROM artifacts WHERE session_id = ? AND key = ?`,
		sessionID, string(key),
	)
	if err := row.Scan(&value); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("artifact read failed; treating as absent",
				logging.String(logging.FieldSessionID, sessionID),
				logging.String(logging.FieldArtifactKey, string(key)),
				logging.Error(err),
			)
		}
		return nil, false
	}

	raw := json.RawMessage(value)
	s.mu.Lock()
	s.overlay[overlayKey{session: sessionID, key: key}] = raw
	s.mu.Unlock()
	return raw, true
}

// GetString decodes a string-valued artifact. Absent or non-string values
// report false.
func (s *Store) GetString(ctx context.Context, sessionID string, key Key) (string, bool) {
	raw, ok := s.Get(ctx, sessionID, key)
	if !ok {
		return "", false
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false
	}
	return value, true
}

// SessionData enumerates all durable artifacts for a session. Values stored
// only in the overlay and not yet durable do not appear; orchestrator call
// paths write through before relying on enumeration.
func (s *Store) SessionData(ctx context.Context, sessionID string) (map[Key]json.RawMessage, error) {
	entries, err := s.Entries(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	data := make(map[Key]json.RawMessage, len(entries))
	for _, entry := range entries {
		data[entry.Key] = entry.Value
	}
	return data, nil
}

// Entries returns the durable artifact records for a session with their
// stored-at timestamps, ordered by key.
func (s *Store) Entries(ctx context.Context, sessionID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, key, value_json, stored_at FROM artifacts WHERE session_id = ? ORDER BY key`,
		sessionID,
	)
	if err != nil {
		s.logger.Warn("session enumeration failed",
			logging.String(logging.FieldSessionID, sessionID),
			logging.Error(err),
		)
		return nil, fmt.Errorf("enumerate session %s: %w", sessionID, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry     Entry
			key       string
			value     string
			storedRaw string
		)
		if err := rows.Scan(&entry.SessionID, &key, &value, &storedRaw); err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		entry.Key = Key(key)
		entry.Value = json.RawMessage(value)
		if stored, err := time.Parse(time.RFC3339Nano, storedRaw); err == nil {
			entry.StoredAt = stored
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// DeleteSession removes every overlay entry and every durable record for the
// session. Deleting an absent session is a no-op.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	for key := range s.overlay {
		if key.session == sessionID {
			delete(s.overlay, key)
		}
	}
	s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM artifacts WHERE session_id = ?`, sessionID); err != nil {
		return services.Wrap(services.ErrStorage, "", "delete-session", fmt.Sprintf("session %s", sessionID), err)
	}
	return nil
}

// ListSessions enumerates session identifiers that have at least one durable
// artifact, ordered by most recent write.
func (s *Store) ListSessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, MAX(stored_at) AS last FROM artifacts GROUP BY session_id ORDER BY last DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []string
	for rows.Next() {
		var id, last string
		if err := rows.Scan(&id, &last); err != nil {
			return nil, fmt.Errorf("scan session id: %w", err)
		}
		sessions = append(sessions, id)
	}
	return sessions, rows.Err()
}

// LastModified returns the latest stored-at timestamp among a session's
// artifacts. The second result is false when the session has no durable
// artifacts.
func (s *Store) LastModified(ctx context.Context, sessionID string) (time.Time, bool, error) {
	var last sql.NullString
	row := s.db.QueryRowContext(ctx,
		`SELECT MAX(stored_at) FROM artifacts WHERE session_id = ?`,
		sessionID,
	)
	if err := row.Scan(&last); err != nil {
		return time.Time{}, false, fmt.Errorf("last modified for session %s: %w", sessionID, err)
	}
	if !last.Valid || last.String == "" {
		return time.Time{}, false, nil
	}
	stored, err := time.Parse(time.RFC3339Nano, last.String)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse stored_at %q: %w", last.String, err)
	}
	return stored, true, nil
}
