// Package sessions holds the session lifecycle rules: drafts are saved by their
// owner, published once, and removed only by the owner.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clementus360/wellness-sessions/config"
	"clementus360/wellness-sessions/types"

	"github.com/sirupsen/logrus"
)

// Store persists sessions. Every owner-scoped method must match on id and
// owner together and return types.ErrNotFound when nothing matches.
type Store interface {
	Create(ctx context.Context, ownerID string, fields types.SessionFields) (types.Session, error)
	Update(ctx context.Context, id, ownerID string, fields types.SessionFields) (types.Session, error)
	Get(ctx context.Context, id, ownerID string) (types.Session, error)
	Publish(ctx context.Context, id, ownerID string) (types.Session, error)
	Delete(ctx context.Context, id, ownerID string) (bool, error)
	ListByOwner(ctx context.Context, ownerID string) ([]types.Session, error)
	ListPublished(ctx context.Context) ([]types.PublicSession, error)
	UpsertProfile(ctx context.Context, profile types.Profile) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// DraftInput is a full snapshot of the editor form. Tags is the raw comma-separated string.
type DraftInput struct {
	Title      string
	Tags       string
	ContentURL string
	SessionID  string
}

// ParseTags splits a comma-separated list, trimming each piece and dropping empties.
func ParseTags(raw string) []string {
	tags := []string{}
	for _, piece := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(piece); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// SaveDraft creates a new draft for the caller, or updates the caller's session
// when in.SessionID is set. Updating never moves a published session back to draft.
func (s *Service) SaveDraft(ctx context.Context, caller types.Caller, in DraftInput) (types.Session, error) {
	if caller.UserID == "" {
		return types.Session{}, errors.New("missing caller identity")
	}

	fields := types.SessionFields{
		Title:      in.Title,
		Tags:       ParseTags(in.Tags),
		ContentURL: in.ContentURL,
	}

	if err := s.store.UpsertProfile(ctx, types.Profile{ID: caller.UserID, Email: caller.Email}); err != nil {
		return types.Session{}, fmt.Errorf("failed to record author profile: %w", err)
	}

	if in.SessionID == "" {
		session, err := s.store.Create(ctx, caller.UserID, fields)
		if err != nil {
			return types.Session{}, err
		}
		config.Logger.WithFields(logrus.Fields{
			"session_id": session.ID,
			"owner_id":   caller.UserID,
		}).Info("Draft created")
		return session, nil
	}

	session, err := s.store.Update(ctx, in.SessionID, caller.UserID, fields)
	if err != nil {
		return types.Session{}, err
	}
	config.Logger.WithField("session_id", session.ID).Debug("Draft updated")
	return session, nil
}

// Publish makes the caller's session publicly visible. Publishing twice is a no-op.
func (s *Service) Publish(ctx context.Context, callerID, sessionID string) (types.Session, error) {
	session, err := s.store.Publish(ctx, sessionID, callerID)
	if err != nil {
		return types.Session{}, err
	}
	config.Logger.WithFields(logrus.Fields{
		"session_id": session.ID,
		"owner_id":   callerID,
	}).Info("Session published")
	return session, nil
}

// Delete permanently removes the caller's session.
func (s *Service) Delete(ctx context.Context, callerID, sessionID string) error {
	deleted, err := s.store.Delete(ctx, sessionID, callerID)
	if err != nil {
		return err
	}
	if !deleted {
		return types.ErrNotFound
	}
	config.Logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"owner_id":   callerID,
	}).Info("Session deleted")
	return nil
}

func (s *Service) Get(ctx context.Context, callerID, sessionID string) (types.Session, error) {
	return s.store.Get(ctx, sessionID, callerID)
}

// ListPublic returns published sessions, newest first, with their author.
func (s *Service) ListPublic(ctx context.Context) ([]types.PublicSession, error) {
	return s.store.ListPublished(ctx)
}

// ListMine returns all of the caller's sessions, most recently updated first.
func (s *Service) ListMine(ctx context.Context, callerID string) ([]types.Session, error) {
	return s.store.ListByOwner(ctx, callerID)
}
