package types

import "time"

// Status is the lifecycle state of a session. It only moves from draft to published.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

const (
	MaxTitleLength = 100
	MaxTags        = 10
)

// Session is the stored record. OwnerID never leaves the server in API responses;
// handlers convert to SessionView or PublicSession first.
type Session struct {
	ID         string    `json:"id,omitempty"` // <-- omitempty so inserts let the db assign it
	OwnerID    string    `json:"owner_id"`
	Title      string    `json:"title"`
	Tags       []string  `json:"tags"`
	ContentURL string    `json:"content_url"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SessionFields are the user-editable parts of a session.
type SessionFields struct {
	Title      string
	Tags       []string
	ContentURL string
}

// Profile is the public identity of a user, shown as the author of published sessions.
type Profile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Caller is the identity resolved by the authentication boundary.
type Caller struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
}

// SessionView is the owner-facing shape of a session.
type SessionView struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Tags       []string  `json:"tags"`
	ContentURL string    `json:"content_url"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PublicSession is a published session joined with its author's public identity.
type PublicSession struct {
	SessionView
	Author string `json:"author"`
}

func (s Session) View() SessionView {
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	return SessionView{
		ID:         s.ID,
		Title:      s.Title,
		Tags:       tags,
		ContentURL: s.ContentURL,
		Status:     s.Status,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

func Views(sessions []Session) []SessionView {
	out := make([]SessionView, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.View())
	}
	return out
}

// Request bodies

type SaveDraftRequest struct {
	Title      string `json:"title"`
	Tags       string `json:"tags"` // comma-separated
	ContentURL string `json:"content_url"`
	SessionID  string `json:"sessionId,omitempty"`
}

type PublishRequest struct {
	SessionID string `json:"sessionId"`
}

// Responses

type GetSessionsResponse struct {
	Success  bool          `json:"success"`
	Sessions []SessionView `json:"sessions"`
}

type GetPublicSessionsResponse struct {
	Success  bool            `json:"success"`
	Sessions []PublicSession `json:"sessions"`
}

type SessionResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Session SessionView `json:"session"`
}

type DeleteSessionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type MeResponse struct {
	Success bool   `json:"success"`
	User    Caller `json:"user"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error"`
	Message      string `json:"message,omitempty"` // underlying error, outside production only
}
