package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"clementus360/wellness-sessions/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePostgREST answers /rest/v1/<table> requests with the handler's body.
func fakePostgREST(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*SessionStore, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.True(t, strings.Contains(r.URL.Path, "/rest/v1/"), "unexpected path %s", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, "service-key")
	require.NoError(t, err)
	return NewSessionStore(client), &calls
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient("", "key")
	assert.Error(t, err)
	_, err = NewClient("http://localhost", "")
	assert.Error(t, err)
}

func TestSessionStoreGetIsOwnerScoped(t *testing.T) {
	id := uuid.NewString()
	store, _ := fakePostgREST(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/sessions"))
		assert.Equal(t, "eq."+id, r.URL.Query().Get("id"))
		if r.URL.Query().Get("owner_id") != "eq.owner" {
			w.Write([]byte(`[]`))
			return
		}
		w.Write([]byte(`[{"id":"` + id + `","owner_id":"owner","title":"Morning Yoga","tags":["yoga"],"content_url":"https://x/y.json","status":"draft","created_at":"2026-01-01T09:00:00Z","updated_at":"2026-01-01T09:00:00Z"}]`))
	})

	got, err := store.Get(context.Background(), id, "owner")
	require.NoError(t, err)
	assert.Equal(t, "Morning Yoga", got.Title)
	assert.Equal(t, types.StatusDraft, got.Status)

	_, err = store.Get(context.Background(), id, "someone-else")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestSessionStoreRejectsMalformedIDsLocally(t *testing.T) {
	store, calls := fakePostgREST(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	ctx := context.Background()

	_, err := store.Get(ctx, "not-a-uuid", "owner")
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = store.Publish(ctx, "not-a-uuid", "owner")
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = store.Update(ctx, "not-a-uuid", "owner", types.SessionFields{Title: "t", ContentURL: "u"})
	assert.ErrorIs(t, err, types.ErrNotFound)
	deleted, err := store.Delete(ctx, "not-a-uuid", "owner")
	require.NoError(t, err)
	assert.False(t, deleted)

	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestSessionStoreValidatesBeforeWriting(t *testing.T) {
	store, calls := fakePostgREST(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	tags := make([]string, 11)
	for i := range tags {
		tags[i] = "t"
	}
	_, err := store.Create(context.Background(), "owner", types.SessionFields{Title: "t", ContentURL: "u", Tags: tags})
	assert.True(t, types.IsValidationError(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestSessionStoreCreateSendsDraft(t *testing.T) {
	store, _ := fakePostgREST(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "owner", body["owner_id"])
		assert.Equal(t, "draft", body["status"])
		assert.Equal(t, "Morning Yoga", body["title"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`[{"id":"11111111-1111-1111-1111-111111111111","owner_id":"owner","title":"Morning Yoga","tags":[],"content_url":"https://x/y.json","status":"draft","created_at":"2026-01-01T09:00:00Z","updated_at":"2026-01-01T09:00:00Z"}]`))
	})

	created, err := store.Create(context.Background(), "owner", types.SessionFields{Title: " Morning Yoga ", ContentURL: "https://x/y.json"})
	require.NoError(t, err)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", created.ID)
}

func TestSessionStoreListPublishedEmbedsAuthor(t *testing.T) {
	store, _ := fakePostgREST(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "eq.published", r.URL.Query().Get("status"))
		assert.Contains(t, r.URL.Query().Get("select"), "author:profiles(email)")
		w.Write([]byte(`[
			{"id":"a","title":"A","tags":null,"content_url":"u","status":"published","created_at":"2026-01-02T09:00:00Z","updated_at":"2026-01-02T09:00:00Z","author":{"email":"ana@example.com"}},
			{"id":"b","title":"B","tags":["x"],"content_url":"u","status":"published","created_at":"2026-01-01T09:00:00Z","updated_at":"2026-01-01T09:00:00Z","author":null}
		]`))
	})

	list, err := store.ListPublished(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ana@example.com", list[0].Author)
	assert.Equal(t, []string{}, list[0].Tags)
	assert.Equal(t, "", list[1].Author)
}

func TestSessionStoreDelete(t *testing.T) {
	id := uuid.NewString()
	store, _ := fakePostgREST(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		if r.URL.Query().Get("owner_id") == "eq.owner" {
			w.Write([]byte(`[{"id":"` + id + `","owner_id":"owner","title":"t","tags":[],"content_url":"u","status":"draft","created_at":"2026-01-01T09:00:00Z","updated_at":"2026-01-01T09:00:00Z"}]`))
			return
		}
		w.Write([]byte(`[]`))
	})

	deleted, err := store.Delete(context.Background(), id, "owner")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.Delete(context.Background(), id, "other")
	require.NoError(t, err)
	assert.False(t, deleted)
}
