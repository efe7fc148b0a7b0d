package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"clementus360/wellness-sessions/types"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

const (
	sessionsTable = "sessions"
	profilesTable = "profiles"

	sessionColumns = "id, owner_id, title, tags, content_url, status, created_at, updated_at"
	publicColumns  = "id, title, tags, content_url, status, created_at, updated_at, author:profiles(email)"
)

// SessionStore keeps sessions in the Supabase "sessions" table through PostgREST.
// See schema.sql for the expected tables.
type SessionStore struct {
	client *supabase.Client
	now    func() time.Time
}

func NewSessionStore(client *supabase.Client) *SessionStore {
	return &SessionStore{client: client, now: time.Now}
}

// Ids are uuid columns; anything else cannot match and would only make
// PostgREST fail with a cast error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func decodeSessions(resp []byte) ([]types.Session, error) {
	var sessions []types.Session
	if err := json.Unmarshal(resp, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode session data: %w", err)
	}
	return sessions, nil
}

func firstOrNotFound(resp []byte) (types.Session, error) {
	sessions, err := decodeSessions(resp)
	if err != nil {
		return types.Session{}, err
	}
	if len(sessions) == 0 {
		return types.Session{}, types.ErrNotFound
	}
	return sessions[0], nil
}

func (s *SessionStore) Create(ctx context.Context, ownerID string, fields types.SessionFields) (types.Session, error) {
	if strings.TrimSpace(ownerID) == "" {
		return types.Session{}, fmt.Errorf("missing owner ID")
	}
	fields, err := fields.Normalize()
	if err != nil {
		return types.Session{}, err
	}

	now := s.now().UTC()
	row := map[string]interface{}{
		"owner_id":    ownerID,
		"title":       fields.Title,
		"tags":        fields.Tags,
		"content_url": fields.ContentURL,
		"status":      types.StatusDraft,
		"created_at":  now,
		"updated_at":  now,
	}

	resp, _, err := s.client.From(sessionsTable).
		Insert(row, false, "", "representation", "").
		Execute()
	if err != nil {
		return types.Session{}, fmt.Errorf("failed to insert session: %w", err)
	}

	created, err := firstOrNotFound(resp)
	if err != nil {
		return types.Session{}, fmt.Errorf("failed to read inserted session: %w", err)
	}
	return created, nil
}

// Update rewrites title, tags and content_url. Status is never part of the patch.
func (s *SessionStore) Update(ctx context.Context, id, ownerID string, fields types.SessionFields) (types.Session, error) {
	fields, err := fields.Normalize()
	if err != nil {
		return types.Session{}, err
	}
	if !validID(id) {
		return types.Session{}, types.ErrNotFound
	}

	resp, _, err := s.client.From(sessionsTable).
		Update(map[string]interface{}{
			"title":       fields.Title,
			"tags":        fields.Tags,
			"content_url": fields.ContentURL,
			"updated_at":  s.now().UTC(),
		}, "representation", "").
		Eq("id", id).
		Eq("owner_id", ownerID).
		Execute()
	if err != nil {
		return types.Session{}, fmt.Errorf("failed to update session: %w", err)
	}
	return firstOrNotFound(resp)
}

func (s *SessionStore) Publish(ctx context.Context, id, ownerID string) (types.Session, error) {
	if !validID(id) {
		return types.Session{}, types.ErrNotFound
	}

	resp, _, err := s.client.From(sessionsTable).
		Update(map[string]interface{}{
			"status":     types.StatusPublished,
			"updated_at": s.now().UTC(),
		}, "representation", "").
		Eq("id", id).
		Eq("owner_id", ownerID).
		Execute()
	if err != nil {
		return types.Session{}, fmt.Errorf("failed to publish session: %w", err)
	}
	return firstOrNotFound(resp)
}

func (s *SessionStore) Get(ctx context.Context, id, ownerID string) (types.Session, error) {
	if !validID(id) {
		return types.Session{}, types.ErrNotFound
	}

	resp, _, err := s.client.From(sessionsTable).
		Select(sessionColumns, "", false).
		Eq("id", id).
		Eq("owner_id", ownerID).
		Limit(1, "").
		Execute()
	if err != nil {
		return types.Session{}, fmt.Errorf("failed to fetch session: %w", err)
	}
	return firstOrNotFound(resp)
}

func (s *SessionStore) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	if !validID(id) {
		return false, nil
	}

	resp, _, err := s.client.From(sessionsTable).
		Delete("representation", "").
		Eq("id", id).
		Eq("owner_id", ownerID).
		Execute()
	if err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}

	deleted, err := decodeSessions(resp)
	if err != nil {
		return false, err
	}
	return len(deleted) > 0, nil
}

func (s *SessionStore) ListByOwner(ctx context.Context, ownerID string) ([]types.Session, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("missing owner ID")
	}

	resp, _, err := s.client.From(sessionsTable).
		Select(sessionColumns, "", false).
		Eq("owner_id", ownerID).
		Order("updated_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sessions: %w", err)
	}

	sessions, err := decodeSessions(resp)
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []types.Session{}
	}
	return sessions, nil
}

// publicRow is a published session with the owner's profile embedded by PostgREST.
type publicRow struct {
	types.SessionView
	Author *struct {
		Email string `json:"email"`
	} `json:"author"`
}

func (s *SessionStore) ListPublished(ctx context.Context) ([]types.PublicSession, error) {
	resp, _, err := s.client.From(sessionsTable).
		Select(publicColumns, "", false).
		Eq("status", string(types.StatusPublished)).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch published sessions: %w", err)
	}

	var rows []publicRow
	if err := json.Unmarshal(resp, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode published sessions: %w", err)
	}

	out := make([]types.PublicSession, 0, len(rows))
	for _, row := range rows {
		ps := types.PublicSession{SessionView: row.SessionView}
		if ps.Tags == nil {
			ps.Tags = []string{}
		}
		if row.Author != nil {
			ps.Author = row.Author.Email
		}
		out = append(out, ps)
	}
	return out, nil
}

// UpsertProfile records the caller's email. The row must exist before the
// caller's first session is inserted (sessions.owner_id references it).
func (s *SessionStore) UpsertProfile(ctx context.Context, profile types.Profile) error {
	if profile.ID == "" {
		return fmt.Errorf("missing profile ID")
	}

	_, _, err := s.client.From(profilesTable).
		Upsert(profile, "id", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}
