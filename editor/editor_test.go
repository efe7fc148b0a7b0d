package editor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"clementus360/wellness-sessions/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testDelay = 40 * time.Millisecond
	settle    = 200 * time.Millisecond
	waitFor   = 2 * time.Second
	tick      = 5 * time.Millisecond
)

type fakeAPI struct {
	mu       sync.Mutex
	saves    []types.SaveDraftRequest
	publish  []string
	saveErr  error
	release  chan struct{}
	sessions map[string]types.SessionView
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{sessions: map[string]types.SessionView{}}
}

func (f *fakeAPI) SaveDraft(ctx context.Context, req types.SaveDraftRequest) (types.SessionView, error) {
	f.mu.Lock()
	f.saves = append(f.saves, req)
	release := f.release
	err := f.saveErr
	f.mu.Unlock()

	if release != nil {
		<-release
	}
	if err != nil {
		return types.SessionView{}, err
	}

	id := req.SessionID
	if id == "" {
		id = "session-1"
	}
	return types.SessionView{ID: id, Title: req.Title, ContentURL: req.ContentURL, Status: types.StatusDraft}, nil
}

func (f *fakeAPI) Publish(ctx context.Context, id string) (types.SessionView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.publish = append(f.publish, id)
	return types.SessionView{ID: id, Status: types.StatusPublished}, nil
}

func (f *fakeAPI) GetMine(ctx context.Context, id string) (types.SessionView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return types.SessionView{}, types.ErrNotFound
	}
	return s, nil
}

func (f *fakeAPI) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

func (f *fakeAPI) lastSave() types.SaveDraftRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves[len(f.saves)-1]
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	failures  []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	n.successes = append(n.successes, msg)
	n.mu.Unlock()
}

func (n *recordingNotifier) Failure(msg string, err error) {
	n.mu.Lock()
	n.failures = append(n.failures, msg)
	n.mu.Unlock()
}

func (n *recordingNotifier) failureCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.failures)
}

func newEditor(t *testing.T, api *fakeAPI) (*Editor, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	e := New(api, WithDelay(testDelay), WithNotifier(n))
	t.Cleanup(e.Close)
	return e, n
}

func TestBurstOfEditsSavesOnce(t *testing.T) {
	api := newFakeAPI()
	e, n := newEditor(t, api)

	e.Edit(Title, "Morning")
	e.Edit(Title, "Morning Yoga")
	e.Edit(Tags, "yoga, morning")
	e.Edit(ContentURL, "https://x/y.json")
	assert.Equal(t, Editing, e.State())

	require.Eventually(t, func() bool { return api.saveCount() == 1 }, waitFor, tick)
	require.Eventually(t, func() bool { return e.State() == Saved }, waitFor, tick)
	time.Sleep(settle)
	assert.Equal(t, 1, api.saveCount())

	saved := api.lastSave()
	assert.Equal(t, "Morning Yoga", saved.Title)
	assert.Equal(t, "yoga, morning", saved.Tags)
	assert.Equal(t, "https://x/y.json", saved.ContentURL)
	assert.Empty(t, saved.SessionID)

	assert.Equal(t, "session-1", e.SessionID())
	assert.True(t, e.CanPublish())
	assert.False(t, e.LastSaved().IsZero())
	n.mu.Lock()
	assert.Equal(t, []string{"Draft saved automatically"}, n.successes)
	n.mu.Unlock()
}

func TestIncompleteFormIsNotSaved(t *testing.T) {
	api := newFakeAPI()
	e, _ := newEditor(t, api)

	e.Edit(Title, "Only a title")
	assert.Never(t, func() bool { return api.saveCount() > 0 }, settle, tick)
	assert.Equal(t, Editing, e.State())

	_, err := e.SaveNow(context.Background())
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Equal(t, 0, api.saveCount())
}

func TestSaveNowCancelsPendingTimer(t *testing.T) {
	api := newFakeAPI()
	e, _ := newEditor(t, api)

	e.Edit(Title, "Breathwork")
	e.Edit(ContentURL, "https://x/b.json")

	view, err := e.SaveNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "session-1", view.ID)
	assert.Equal(t, Saved, e.State())

	time.Sleep(settle)
	assert.Equal(t, 1, api.saveCount())
}

func TestLaterSavesReuseSessionID(t *testing.T) {
	api := newFakeAPI()
	e, _ := newEditor(t, api)
	ctx := context.Background()

	e.Edit(Title, "Breathwork")
	e.Edit(ContentURL, "https://x/b.json")
	_, err := e.SaveNow(ctx)
	require.NoError(t, err)

	e.Edit(Title, "Breathwork v2")
	require.Eventually(t, func() bool { return api.saveCount() == 2 }, waitFor, tick)
	assert.Equal(t, "session-1", api.lastSave().SessionID)
	assert.Equal(t, "Breathwork v2", api.lastSave().Title)
}

func TestPublishRequiresSavedDraft(t *testing.T) {
	api := newFakeAPI()
	e, n := newEditor(t, api)
	ctx := context.Background()

	assert.False(t, e.CanPublish())
	_, err := e.Publish(ctx)
	assert.ErrorIs(t, err, ErrNotSaved)
	assert.Equal(t, 1, n.failureCount())
	assert.Empty(t, api.publish)

	e.Edit(Title, "Breathwork")
	e.Edit(ContentURL, "https://x/b.json")
	_, err = e.SaveNow(ctx)
	require.NoError(t, err)

	view, err := e.Publish(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.StatusPublished, view.Status)
	assert.Equal(t, []string{"session-1"}, api.publish)
}

func TestCloseCancelsPendingSave(t *testing.T) {
	api := newFakeAPI()
	e, _ := newEditor(t, api)

	e.Edit(Title, "Breathwork")
	e.Edit(ContentURL, "https://x/b.json")
	e.Close()
	e.Edit(Title, "after close")

	assert.Never(t, func() bool { return api.saveCount() > 0 }, settle, tick)
	assert.Equal(t, "Breathwork", e.Form().Title)

	_, err := e.SaveNow(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestFailedSaveReturnsToEditingWithoutRetry(t *testing.T) {
	api := newFakeAPI()
	api.saveErr = errors.New("network down")
	e, n := newEditor(t, api)

	e.Edit(Title, "Breathwork")
	e.Edit(ContentURL, "https://x/b.json")

	require.Eventually(t, func() bool { return n.failureCount() == 1 }, waitFor, tick)
	assert.Equal(t, Editing, e.State())
	assert.Empty(t, e.SessionID())
	assert.Never(t, func() bool { return api.saveCount() > 1 }, settle, tick)
}

func TestEditDuringSaveStaysEditing(t *testing.T) {
	api := newFakeAPI()
	api.release = make(chan struct{})
	e, _ := newEditor(t, api)

	e.Edit(Title, "Breathwork")
	e.Edit(ContentURL, "https://x/b.json")

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = e.SaveNow(context.Background())
	}()
	require.Eventually(t, func() bool { return e.State() == Saving }, waitFor, tick)

	e.Edit(Tags, "calm")
	e.Close()
	close(api.release)
	<-done

	assert.Equal(t, Editing, e.State())
	assert.Equal(t, "session-1", e.SessionID())
}

func TestLoadFillsForm(t *testing.T) {
	api := newFakeAPI()
	api.sessions["abc"] = types.SessionView{ID: "abc", Title: "Evening", Tags: []string{"sleep", "calm"}, ContentURL: "https://x/e.json"}
	e, n := newEditor(t, api)

	require.NoError(t, e.Load(context.Background(), "abc"))
	assert.Equal(t, Form{Title: "Evening", Tags: "sleep, calm", ContentURL: "https://x/e.json"}, e.Form())
	assert.Equal(t, "abc", e.SessionID())
	assert.True(t, e.CanPublish())
	assert.Equal(t, Idle, e.State())

	err := e.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Equal(t, 1, n.failureCount())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "saving", Saving.String())
	assert.Equal(t, "unknown", State(42).String())
}
