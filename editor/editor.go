// Package editor implements the session form's auto-save behavior: every edit
// restarts an inactivity timer, and a draft is saved when the timer expires or
// when the user asks for it explicitly.
package editor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"clementus360/wellness-sessions/types"
)

const (
	DefaultDelay          = 5 * time.Second
	defaultRequestTimeout = 15 * time.Second
)

var (
	ErrNotSaved   = errors.New("please save as draft first")
	ErrIncomplete = errors.New("title and content URL are required")
	ErrClosed     = errors.New("editor is closed")
)

type State int

const (
	Idle State = iota
	Editing
	Saving
	Saved
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	case Saved:
		return "saved"
	default:
		return "unknown"
	}
}

type Field int

const (
	Title Field = iota
	Tags
	ContentURL
)

// Form is the editor's local copy of the session. Tags is kept as typed,
// comma-separated; the server does the splitting.
type Form struct {
	Title      string
	Tags       string
	ContentURL string
}

// Complete reports whether the form has the fields a save needs.
func (f Form) Complete() bool {
	return strings.TrimSpace(f.Title) != "" && strings.TrimSpace(f.ContentURL) != ""
}

// API is the subset of the session API the editor calls.
type API interface {
	SaveDraft(ctx context.Context, req types.SaveDraftRequest) (types.SessionView, error)
	Publish(ctx context.Context, id string) (types.SessionView, error)
	GetMine(ctx context.Context, id string) (types.SessionView, error)
}

type Editor struct {
	api            API
	notifier       Notifier
	delay          time.Duration
	requestTimeout time.Duration
	now            func() time.Time

	mu        sync.Mutex
	form      Form
	sessionID string
	state     State
	lastSaved time.Time
	closed    bool
	inflight  int

	timer *time.Timer
	// gen identifies the current timer; a timer that fires after being
	// superseded sees a different value and does nothing.
	gen uint64
}

type Option func(*Editor)

func WithDelay(d time.Duration) Option {
	return func(e *Editor) {
		if d > 0 {
			e.delay = d
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(e *Editor) { e.notifier = n }
}

func WithRequestTimeout(d time.Duration) Option {
	return func(e *Editor) {
		if d > 0 {
			e.requestTimeout = d
		}
	}
}

func New(api API, opts ...Option) *Editor {
	e := &Editor{
		api:            api,
		notifier:       LogNotifier{},
		delay:          DefaultDelay,
		requestTimeout: defaultRequestTimeout,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load fills the form from an existing session owned by the caller.
func (e *Editor) Load(ctx context.Context, id string) error {
	session, err := e.api.GetMine(ctx, id)
	if err != nil {
		e.notifier.Failure("Failed to load session", err)
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.form = Form{
		Title:      session.Title,
		Tags:       strings.Join(session.Tags, ", "),
		ContentURL: session.ContentURL,
	}
	e.sessionID = session.ID
	e.state = Idle
	return nil
}

// Edit updates one field and restarts the inactivity timer.
func (e *Editor) Edit(field Field, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}

	switch field {
	case Title:
		e.form.Title = value
	case Tags:
		e.form.Tags = value
	case ContentURL:
		e.form.ContentURL = value
	}
	e.state = Editing
	e.rescheduleLocked()
}

func (e *Editor) rescheduleLocked() {
	e.stopTimerLocked()
	gen := e.gen
	e.timer = time.AfterFunc(e.delay, func() { e.autoSave(gen) })
}

func (e *Editor) stopTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.gen++
}

func (e *Editor) autoSave(gen uint64) {
	e.mu.Lock()
	if e.closed || gen != e.gen {
		e.mu.Unlock()
		return
	}
	e.timer = nil
	form := e.form
	e.mu.Unlock()

	if !form.Complete() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.requestTimeout)
	defer cancel()
	_, _ = e.save(ctx, form, "Draft saved automatically")
}

// SaveNow saves the current form immediately and cancels any pending auto-save.
func (e *Editor) SaveNow(ctx context.Context) (types.SessionView, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return types.SessionView{}, ErrClosed
	}
	e.stopTimerLocked()
	form := e.form
	e.mu.Unlock()

	if !form.Complete() {
		return types.SessionView{}, ErrIncomplete
	}
	return e.save(ctx, form, "Draft saved")
}

func (e *Editor) save(ctx context.Context, form Form, successMsg string) (types.SessionView, error) {
	e.mu.Lock()
	e.state = Saving
	e.inflight++
	id := e.sessionID
	e.mu.Unlock()

	view, err := e.api.SaveDraft(ctx, types.SaveDraftRequest{
		Title:      form.Title,
		Tags:       form.Tags,
		ContentURL: form.ContentURL,
		SessionID:  id,
	})

	e.mu.Lock()
	e.inflight--
	if err != nil {
		if e.state == Saving {
			e.state = Editing
		}
		e.mu.Unlock()
		e.notifier.Failure("Failed to save draft", err)
		return types.SessionView{}, err
	}
	if e.sessionID == "" {
		e.sessionID = view.ID
	}
	e.lastSaved = e.now()
	// an edit made while the request was in flight keeps the editor in Editing
	if e.state == Saving && e.inflight == 0 {
		e.state = Saved
	}
	e.mu.Unlock()

	e.notifier.Success(successMsg)
	return view, nil
}

// Publish publishes the saved session. It fails with ErrNotSaved until a draft
// has been saved at least once.
func (e *Editor) Publish(ctx context.Context) (types.SessionView, error) {
	e.mu.Lock()
	id := e.sessionID
	e.mu.Unlock()

	if id == "" {
		e.notifier.Failure("Please save as draft first", ErrNotSaved)
		return types.SessionView{}, ErrNotSaved
	}

	view, err := e.api.Publish(ctx, id)
	if err != nil {
		e.notifier.Failure("Failed to publish session", err)
		return types.SessionView{}, err
	}
	e.notifier.Success("Session published successfully!")
	return view, nil
}

// Close cancels the pending auto-save. Requests already in flight are not cancelled.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.stopTimerLocked()
}

func (e *Editor) CanPublish() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessionID != ""
}

func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Editor) SessionID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessionID
}

func (e *Editor) Form() Form {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.form
}

// LastSaved is zero until the first successful save.
func (e *Editor) LastSaved() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSaved
}
