// Package sqlite provides a SQLite-backed session store for local runs and tests.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"clementus360/wellness-sessions/types"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

const sessionColumns = `id, owner_id, title, tags, content_url, status, created_at, updated_at`

// Store persists sessions and author profiles in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

type Option func(*Store)

// WithClock overrides the clock used for created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func toNanos(value time.Time) int64 {
	return value.UTC().UnixNano()
}

func fromNanos(value int64) time.Time {
	return time.Unix(0, value).UTC()
}

// Open opens (creating if needed) the database at path and applies the schema.
// The special path ":memory:" opens a private in-memory database.
func Open(path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	var dsn string
	if path == ":memory:" {
		dsn = path
	} else {
		cleanPath := filepath.Clean(path)
		if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
		dsn = cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == ":memory:" {
		// every connection would otherwise get its own empty database
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	s := &Store{sqlDB: sqlDB, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner, extra ...any) (types.Session, error) {
	var (
		session   types.Session
		tagsJSON  string
		status    string
		createdAt int64
		updatedAt int64
	)
	dest := append([]any{
		&session.ID,
		&session.OwnerID,
		&session.Title,
		&tagsJSON,
		&session.ContentURL,
		&status,
		&createdAt,
		&updatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return types.Session{}, err
	}
	if err := json.Unmarshal([]byte(tagsJSON), &session.Tags); err != nil {
		return types.Session{}, fmt.Errorf("decode tags for session %s: %w", session.ID, err)
	}
	session.Status = types.Status(status)
	session.CreatedAt = fromNanos(createdAt)
	session.UpdatedAt = fromNanos(updatedAt)
	return session, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(data), nil
}

// Create inserts a new draft owned by ownerID.
func (s *Store) Create(ctx context.Context, ownerID string, fields types.SessionFields) (types.Session, error) {
	if strings.TrimSpace(ownerID) == "" {
		return types.Session{}, fmt.Errorf("owner id is required")
	}
	fields, err := fields.Normalize()
	if err != nil {
		return types.Session{}, err
	}
	tags, err := encodeTags(fields.Tags)
	if err != nil {
		return types.Session{}, err
	}

	now := toNanos(s.now())
	row := s.sqlDB.QueryRowContext(ctx,
		`INSERT INTO sessions (`+sessionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+sessionColumns,
		uuid.NewString(),
		ownerID,
		fields.Title,
		tags,
		fields.ContentURL,
		string(types.StatusDraft),
		now,
		now,
	)
	session, err := scanSession(row)
	if err != nil {
		return types.Session{}, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// Update rewrites the editable fields of the owner's session. Status is left untouched.
func (s *Store) Update(ctx context.Context, id, ownerID string, fields types.SessionFields) (types.Session, error) {
	fields, err := fields.Normalize()
	if err != nil {
		return types.Session{}, err
	}
	tags, err := encodeTags(fields.Tags)
	if err != nil {
		return types.Session{}, err
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`UPDATE sessions
		 SET title = ?, tags = ?, content_url = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ?
		 RETURNING `+sessionColumns,
		fields.Title,
		tags,
		fields.ContentURL,
		toNanos(s.now()),
		id,
		ownerID,
	)
	return s.ownedResult(row, "update session")
}

// Publish moves the owner's session to published. Already published sessions stay published.
func (s *Store) Publish(ctx context.Context, id, ownerID string) (types.Session, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`UPDATE sessions
		 SET status = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ?
		 RETURNING `+sessionColumns,
		string(types.StatusPublished),
		toNanos(s.now()),
		id,
		ownerID,
	)
	return s.ownedResult(row, "publish session")
}

func (s *Store) Get(ctx context.Context, id, ownerID string) (types.Session, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ? AND owner_id = ?`,
		id,
		ownerID,
	)
	return s.ownedResult(row, "get session")
}

func (s *Store) ownedResult(row *sql.Row, op string) (types.Session, error) {
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Session{}, types.ErrNotFound
		}
		return types.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	return session, nil
}

// Delete removes the owner's session and reports whether a row was removed.
func (s *Store) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM sessions WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return n > 0, nil
}

// ListByOwner returns drafts and published sessions of ownerID, most recently updated first.
func (s *Store) ListByOwner(ctx context.Context, ownerID string) ([]types.Session, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE owner_id = ?
		 ORDER BY updated_at DESC, rowid DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []types.Session{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// ListPublished returns published sessions joined with the author's email, newest first.
func (s *Store) ListPublished(ctx context.Context) ([]types.PublicSession, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT s.id, s.owner_id, s.title, s.tags, s.content_url, s.status, s.created_at, s.updated_at,
		        COALESCE(p.email, '')
		 FROM sessions s
		 LEFT JOIN profiles p ON p.id = s.owner_id
		 WHERE s.status = ?
		 ORDER BY s.created_at DESC, s.rowid DESC`,
		string(types.StatusPublished),
	)
	if err != nil {
		return nil, fmt.Errorf("list published sessions: %w", err)
	}
	defer rows.Close()

	out := []types.PublicSession{}
	for rows.Next() {
		var author string
		session, err := scanSession(rows, &author)
		if err != nil {
			return nil, fmt.Errorf("list published sessions: %w", err)
		}
		out = append(out, types.PublicSession{SessionView: session.View(), Author: author})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list published sessions: %w", err)
	}
	return out, nil
}

// UpsertProfile records the public identity of a user. An empty email never
// overwrites a known one.
func (s *Store) UpsertProfile(ctx context.Context, profile types.Profile) error {
	if strings.TrimSpace(profile.ID) == "" {
		return fmt.Errorf("profile id is required")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO profiles (id, email) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   email = CASE WHEN excluded.email <> '' THEN excluded.email ELSE profiles.email END`,
		profile.ID,
		strings.TrimSpace(profile.Email),
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
