// Copyright (c) 2026 Forgeline. All rights reserved.
// Author: dev@forgeline.io

package notifications_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeline/console/internal/apiclient"
	"github.com/forgeline/console/internal/notifications"
)

// staticToken satisfies apiclient.TokenSource for tests.
type staticToken string

func (t staticToken) Token(_ context.Context) (string, error) { return string(t), nil }

// mesBackend is a minimal mock of the /notifications endpoints. It records
// which mutation calls arrived so tests can assert remote-first behavior.
type mesBackend struct {
	mu          sync.Mutex
	listBody    string
	failMutate  bool
	markedIDs   []string
	markedAll   int
	deletedIDs  []string
	listQueries []string
}

func (backend *mesBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	backend.mu.Lock()
	defer backend.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/notifications":
		backend.listQueries = append(backend.listQueries, r.URL.RawQuery)
		_, _ = w.Write([]byte(backend.listBody))

	case r.Method == http.MethodPatch && r.URL.Path == "/notifications/read-all":
		if backend.failMutate {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"boom"}`))
			return
		}
		backend.markedAll++
		_, _ = w.Write([]byte(`{"success":true}`))

	case r.Method == http.MethodPatch:
		if backend.failMutate {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"boom"}`))
			return
		}
		// /notifications/:id/read
		id := r.URL.Path[len("/notifications/") : len(r.URL.Path)-len("/read")]
		backend.markedIDs = append(backend.markedIDs, id)
		_, _ = w.Write([]byte(`{"success":true}`))

	case r.Method == http.MethodDelete:
		if backend.failMutate {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"boom"}`))
			return
		}
		backend.deletedIDs = append(backend.deletedIDs, r.URL.Path[len("/notifications/"):])
		_, _ = w.Write([]byte(`{"success":true}`))

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

const twoItemPage = `{
	"success": true,
	"pagination": {"page": 1, "limit": 50, "total": 2, "totalPages": 1},
	"data": [
		{"id": "n1", "userId": "u1", "type": "alert", "title": "Line stoppage", "message": "Line 3 halted", "status": "unread", "createdAt": "2026-08-30T10:00:00Z", "updatedAt": "2026-08-30T10:00:00Z"},
		{"id": "n2", "userId": "u1", "type": "info", "title": "Shift report", "message": "Ready", "status": "read", "readAt": "2026-08-30T09:00:00Z", "createdAt": "2026-08-30T08:00:00Z", "updatedAt": "2026-08-30T09:00:00Z"}
	]
}`

func newTestStore(t *testing.T, backend *mesBackend) *notifications.Store {
	t.Helper()

	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	client := apiclient.New(server.URL, staticToken("tok1"))
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return notifications.NewStore(notifications.NewService(client), log)
}

/*
TestStore_Fetch loads a page and derives the unread counter from it.
*/
func TestStore_Fetch(t *testing.T) {
	backend := &mesBackend{listBody: twoItemPage}
	store := newTestStore(t, backend)

	require.NoError(t, store.Fetch(context.Background(), 1, 50))

	state := store.State()
	require.Len(t, state.Notifications, 2)
	assert.Equal(t, 1, state.UnreadCount)
	assert.Equal(t, 2, state.Pagination.Total)
	assert.False(t, state.IsLoading)

	// Newest-first paging parameters go out on the wire.
	backend.mu.Lock()
	require.Len(t, backend.listQueries, 1)
	query := backend.listQueries[0]
	backend.mu.Unlock()
	assert.Contains(t, query, "page=1")
	assert.Contains(t, query, "limit=50")
	assert.Contains(t, query, "sortBy=createdAt")
	assert.Contains(t, query, "sortOrder=desc")
}

/*
TestStore_Fetch_ReplacesWholesale: a refetch replaces the cached page, it
never merges with the previous one.
*/
func TestStore_Fetch_ReplacesWholesale(t *testing.T) {
	backend := &mesBackend{listBody: twoItemPage}
	store := newTestStore(t, backend)

	require.NoError(t, store.Fetch(context.Background(), 1, 50))
	require.Len(t, store.State().Notifications, 2)

	backend.mu.Lock()
	backend.listBody = `{"success":true,"pagination":{"page":1,"limit":50,"total":1,"totalPages":1},"data":[
		{"id":"n3","userId":"u1","type":"success","title":"Order done","message":"OK","status":"unread","createdAt":"2026-08-31T10:00:00Z","updatedAt":"2026-08-31T10:00:00Z"}
	]}`
	backend.mu.Unlock()

	require.NoError(t, store.Fetch(context.Background(), 1, 50))

	state := store.State()
	require.Len(t, state.Notifications, 1)
	assert.Equal(t, "n3", state.Notifications[0].ID)
	assert.Equal(t, 1, state.UnreadCount)
}

/*
TestStore_Fetch_FailureKeepsCache: a failed refetch keeps the last good page
and drops the loading flag.
*/
func TestStore_Fetch_FailureKeepsCache(t *testing.T) {
	backend := &mesBackend{listBody: twoItemPage}
	store := newTestStore(t, backend)

	require.NoError(t, store.Fetch(context.Background(), 1, 50))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	failing := notifications.NewStore(
		notifications.NewService(apiclient.New(server.URL, staticToken("tok1"))),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	require.Error(t, failing.Fetch(context.Background(), 1, 50))
	assert.False(t, failing.State().IsLoading)

	// The original store still holds its page.
	assert.Len(t, store.State().Notifications, 2)
}

/*
TestStore_MarkAsRead flips one record and re-derives the counter.
*/
func TestStore_MarkAsRead(t *testing.T) {
	backend := &mesBackend{listBody: twoItemPage}
	store := newTestStore(t, backend)
	require.NoError(t, store.Fetch(context.Background(), 1, 50))
	require.Equal(t, 1, store.State().UnreadCount)

	require.NoError(t, store.MarkAsRead(context.Background(), "n1"))

	state := store.State()
	assert.Equal(t, 0, state.UnreadCount)
	assert.Equal(t, notifications.StatusRead, state.Notifications[0].Status)
	assert.NotNil(t, state.Notifications[0].ReadAt)

	backend.mu.Lock()
	assert.Equal(t, []string{"n1"}, backend.markedIDs)
	backend.mu.Unlock()
}

/*
TestStore_MarkAsRead_RemoteFailure: no optimistic update — the local record
stays unread when the endpoint fails.
*/
func TestStore_MarkAsRead_RemoteFailure(t *testing.T) {
	backend := &mesBackend{listBody: twoItemPage}
	store := newTestStore(t, backend)
	require.NoError(t, store.Fetch(context.Background(), 1, 50))

	backend.mu.Lock()
	backend.failMutate = true
	backend.mu.Unlock()

	require.Error(t, store.MarkAsRead(context.Background(), "n1"))

	state := store.State()
	assert.Equal(t, 1, state.UnreadCount)
	assert.Equal(t, notifications.StatusUnread, state.Notifications[0].Status)
}

/*
TestStore_MarkAllAsRead_Idempotent: the second call changes nothing, and
pre-existing ReadAt stamps survive.
*/
func TestStore_MarkAllAsRead_Idempotent(t *testing.T) {
	backend := &mesBackend{listBody: twoItemPage}
	store := newTestStore(t, backend)
	require.NoError(t, store.Fetch(context.Background(), 1, 50))

	originalReadAt := *store.State().Notifications[1].ReadAt

	require.NoError(t, store.MarkAllAsRead(context.Background()))
	first := store.State()
	assert.Equal(t, 0, first.UnreadCount)
	require.NotNil(t, first.Notifications[0].ReadAt)
	firstStamp := *first.Notifications[0].ReadAt

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, store.MarkAllAsRead(context.Background()))

	second := store.State()
	assert.Equal(t, 0, second.UnreadCount)
	assert.True(t, second.Notifications[0].ReadAt.Equal(firstStamp))
	assert.True(t, second.Notifications[1].ReadAt.Equal(originalReadAt))
}

/*
TestStore_Remove deletes remotely and drops the local record.
*/
func TestStore_Remove(t *testing.T) {
	backend := &mesBackend{listBody: twoItemPage}
	store := newTestStore(t, backend)
	require.NoError(t, store.Fetch(context.Background(), 1, 50))

	require.NoError(t, store.Remove(context.Background(), "n1"))

	state := store.State()
	require.Len(t, state.Notifications, 1)
	assert.Equal(t, "n2", state.Notifications[0].ID)
	assert.Equal(t, 0, state.UnreadCount)
}

/*
TestStore_Remove_UnknownID: the remote call still goes out, the local list
is unchanged, and no error is surfaced.
*/
func TestStore_Remove_UnknownID(t *testing.T) {
	backend := &mesBackend{listBody: twoItemPage}
	store := newTestStore(t, backend)
	require.NoError(t, store.Fetch(context.Background(), 1, 50))

	require.NoError(t, store.Remove(context.Background(), "ghost"))

	state := store.State()
	assert.Len(t, state.Notifications, 2)
	assert.Equal(t, 1, state.UnreadCount)

	backend.mu.Lock()
	assert.Equal(t, []string{"ghost"}, backend.deletedIDs)
	backend.mu.Unlock()
}

/*
TestStore_ClearAll is purely local: the list empties, the counter zeroes,
and no endpoint is called.
*/
func TestStore_ClearAll(t *testing.T) {
	backend := &mesBackend{listBody: twoItemPage}
	store := newTestStore(t, backend)
	require.NoError(t, store.Fetch(context.Background(), 1, 50))

	store.ClearAll()

	state := store.State()
	assert.Empty(t, state.Notifications)
	assert.Equal(t, 0, state.UnreadCount)

	backend.mu.Lock()
	assert.Empty(t, backend.deletedIDs)
	assert.Equal(t, 0, backend.markedAll)
	backend.mu.Unlock()
}

/*
TestStore_Subscribe: every mutation notifies, and the snapshot slice is a
copy the subscriber can hold.
*/
func TestStore_Subscribe(t *testing.T) {
	backend := &mesBackend{listBody: twoItemPage}
	store := newTestStore(t, backend)

	var mu sync.Mutex
	var last notifications.State
	calls := 0
	unsubscribe := store.Subscribe(func(state notifications.State) {
		mu.Lock()
		last = state
		calls++
		mu.Unlock()
	})

	require.NoError(t, store.Fetch(context.Background(), 1, 50))

	mu.Lock()
	// Loading-on, then the page landing.
	assert.Equal(t, 2, calls)
	assert.Len(t, last.Notifications, 2)
	assert.Equal(t, 1, last.UnreadCount)
	mu.Unlock()

	unsubscribe()
	store.ClearAll()
	mu.Lock()
	assert.Equal(t, 2, calls)
	mu.Unlock()
}
