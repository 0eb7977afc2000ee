// Copyright (c) 2026 Forgeline. All rights reserved.
// Author: dev@forgeline.io

package notifications

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/forgeline/console/internal/platform/constants"
)

// State is the observable panel snapshot handed to subscribers.
//
// # Invariant
//
// UnreadCount always equals the number of unread items in Notifications.
// The count is recomputed from the loaded page after every mutation — it is
// NOT a server-side global count, so with many unread items spanning
// multiple pages the badge undercounts. Known approximation, preserved.
type State struct {
	Notifications []Notification
	UnreadCount   int
	Pagination    Pagination
	IsLoading     bool
}

// Store is the notification page cache.
//
// # Concurrency
//
// Same model as the session store: mutex-guarded single-step mutations,
// subscriber callbacks outside the lock. The displayed list is exactly the
// last successful fetch merged with subsequent local mutations by id.
type Store struct {
	mu          sync.Mutex
	state       State
	subscribers map[uint64]func(State)
	nextSubID   uint64

	service *Service
	log     *slog.Logger
}

// NewStore constructs a notification [Store].
func NewStore(service *Service, log *slog.Logger) *Store {
	return &Store{
		state:       State{Notifications: []Notification{}},
		subscribers: make(map[uint64]func(State)),
		service:     service,
		log:         log,
	}
}

// # Observation

// State returns a snapshot of the current panel state.
// The notification slice is copied so callers can range safely.
func (store *Store) State() State {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.snapshotLocked()
}

// Subscribe registers a callback invoked after every state mutation.
// It returns an unsubscribe function.
func (store *Store) Subscribe(callback func(State)) (unsubscribe func()) {
	store.mu.Lock()
	defer store.mu.Unlock()

	id := store.nextSubID
	store.nextSubID++
	store.subscribers[id] = callback

	return func() {
		store.mu.Lock()
		defer store.mu.Unlock()
		delete(store.subscribers, id)
	}
}

// mutate applies a state change under the lock, then notifies subscribers.
// The unread counter is re-derived after every mutation to hold the
// invariant regardless of what apply did.
func (store *Store) mutate(apply func(state *State)) {
	store.mu.Lock()
	apply(&store.state)
	store.state.UnreadCount = countUnread(store.state.Notifications)
	snapshot := store.snapshotLocked()

	callbacks := make([]func(State), 0, len(store.subscribers))
	for _, callback := range store.subscribers {
		callbacks = append(callbacks, callback)
	}
	store.mu.Unlock()

	for _, callback := range callbacks {
		callback(snapshot)
	}
}

func (store *Store) snapshotLocked() State {
	snapshot := store.state
	snapshot.Notifications = make([]Notification, len(store.state.Notifications))
	copy(snapshot.Notifications, store.state.Notifications)
	return snapshot
}

func countUnread(items []Notification) int {
	count := 0
	for _, item := range items {
		if item.IsUnread() {
			count++
		}
	}
	return count
}

// # Fetching

/*
Fetch loads one page, newest first, replacing the cached list wholesale.

The previous page is never merged or appended — the panel shows exactly the
last successful fetch. The loading flag wraps the call for the panel spinner.
*/
func (store *Store) Fetch(ctx context.Context, page, limit int) error {
	store.mutate(func(state *State) {
		state.IsLoading = true
	})

	result, err := store.service.List(ctx, page, limit,
		constants.NotificationsSortBy, constants.NotificationsSortOrder)
	if err != nil {
		store.log.Error("notifications_fetch_failed", slog.Any("error", err))
		store.mutate(func(state *State) {
			state.IsLoading = false
		})
		return err
	}

	store.mutate(func(state *State) {
		state.Notifications = result.Items
		state.Pagination = result.Pagination
		state.IsLoading = false
	})

	return nil
}

// Refresh fetches the default first page. It satisfies the session store's
// post-login prefetch contract.
func (store *Store) Refresh(ctx context.Context) error {
	return store.Fetch(ctx, constants.NotificationsDefaultPage, constants.NotificationsDefaultLimit)
}

// # Mutations

/*
MarkAsRead marks one notification as read.

The remote call goes first; only on success does the local record flip, with
ReadAt stamped if not already set. On failure the local state is untouched
and the error is logged — there is no optimistic update to roll back.
*/
func (store *Store) MarkAsRead(ctx context.Context, id string) error {
	if err := store.service.MarkRead(ctx, id); err != nil {
		store.log.Error("notification_mark_read_failed",
			slog.String("id", id), slog.Any("error", err))
		return err
	}

	now := time.Now().UTC()
	store.mutate(func(state *State) {
		for i := range state.Notifications {
			if state.Notifications[i].ID != id {
				continue
			}
			state.Notifications[i].Status = StatusRead
			if state.Notifications[i].ReadAt == nil {
				state.Notifications[i].ReadAt = &now
			}
			break
		}
	})

	return nil
}

/*
MarkAllAsRead marks the whole list as read via the bulk endpoint.

Idempotent: pre-existing ReadAt stamps are preserved, so a second call
changes nothing. On failure the local state is untouched.
*/
func (store *Store) MarkAllAsRead(ctx context.Context) error {
	if err := store.service.MarkAllRead(ctx); err != nil {
		store.log.Error("notification_mark_all_read_failed", slog.Any("error", err))
		return err
	}

	now := time.Now().UTC()
	store.mutate(func(state *State) {
		for i := range state.Notifications {
			state.Notifications[i].Status = StatusRead
			if state.Notifications[i].ReadAt == nil {
				state.Notifications[i].ReadAt = &now
			}
		}
	})

	return nil
}

/*
Remove deletes one notification.

The remote call is always attempted; the local record is removed only if the
id was present in the loaded page. Removing an unknown id is not an error.
*/
func (store *Store) Remove(ctx context.Context, id string) error {
	if err := store.service.Delete(ctx, id); err != nil {
		store.log.Error("notification_delete_failed",
			slog.String("id", id), slog.Any("error", err))
		return err
	}

	store.mutate(func(state *State) {
		for i := range state.Notifications {
			if state.Notifications[i].ID == id {
				state.Notifications = append(state.Notifications[:i], state.Notifications[i+1:]...)
				break
			}
		}
	})

	return nil
}

/*
ClearAll empties the local cache and zeroes the counter.

Purely local: no remote endpoint is called, so the next fetch resurrects
whatever the server still holds. Kept as-is pending product clarification —
see DESIGN.md.
*/
func (store *Store) ClearAll() {
	store.mutate(func(state *State) {
		state.Notifications = []Notification{}
		state.Pagination = Pagination{}
	})
}
