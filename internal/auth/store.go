// Copyright (c) 2026 Forgeline. All rights reserved.
// Author: dev@forgeline.io

package auth

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/forgeline/console/internal/platform/apperr"
	"github.com/forgeline/console/internal/platform/validate"
	"github.com/forgeline/console/internal/users"
)

// Fallback messages when an upstream failure carries no message body.
const (
	loginFallbackMessage  = "Login failed"
	signupFallbackMessage = "Signup failed"
)

// ProfileFetcher is the slice of the users service the store depends on.
//
// # Why an interface?
//
// It decouples the session store from the users package's full surface and
// lets tests substitute a canned profile source.
type ProfileFetcher interface {
	CurrentProfile(ctx context.Context) (*users.DetailedProfile, error)
}

// NotificationRefresher triggers the post-login notification prefetch.
//
// Wired after construction (see [Store.SetNotificationRefresher]) because the
// notification store is built on top of the same API client.
type NotificationRefresher interface {
	Refresh(ctx context.Context) error
}

// State is the observable session snapshot handed to subscribers.
//
// # Invariant
//
// IsAuthenticated implies Token is non-empty. The reverse does not hold:
// a non-empty token may already be dead server-side — that is discovered
// lazily when the next API call answers 401.
type State struct {
	User            *User
	DetailedProfile *users.DetailedProfile
	Token           string
	IsAuthenticated bool
	IsLoading       bool
	Error           string
}

// Store is the session state container.
//
// # Concurrency
//
// All mutations take the internal mutex and are single-step replacements of
// state fields. Background refreshes after login are detached tasks with no
// ordering guarantee; a logout always wins over an in-flight profile fetch.
type Store struct {
	mu          sync.Mutex
	state       State
	subscribers map[uint64]func(State)
	nextSubID   uint64

	service   *Service
	profiles  ProfileFetcher
	vault     Vault
	refresher NotificationRefresher
	log       *slog.Logger
}

// NewStore constructs a session [Store] with its dependencies.
//
// Lifecycle is scoped to the caller: there are no package-level singletons.
func NewStore(service *Service, profiles ProfileFetcher, vault Vault, log *slog.Logger) *Store {
	return &Store{
		state:       State{},
		subscribers: make(map[uint64]func(State)),
		service:     service,
		profiles:    profiles,
		vault:       vault,
		log:         log,
	}
}

// SetNotificationRefresher wires the post-login notification prefetch.
// Optional: a nil refresher simply skips that background task.
func (store *Store) SetNotificationRefresher(refresher NotificationRefresher) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.refresher = refresher
}

// # Observation

// State returns a snapshot of the current session state.
// Subscribers and callers must treat the contained pointers as read-only.
func (store *Store) State() State {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.state
}

// Subscribe registers a callback invoked after every state mutation.
// It returns an unsubscribe function. Callbacks run outside the store lock
// and may safely call back into the store.
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

// mutate applies a single-step state change under the lock, then notifies
// subscribers with the resulting snapshot outside of it.
func (store *Store) mutate(apply func(state *State)) {
	store.mu.Lock()
	apply(&store.state)
	snapshot := store.state

	callbacks := make([]func(State), 0, len(store.subscribers))
	for _, callback := range store.subscribers {
		callbacks = append(callbacks, callback)
	}
	store.mu.Unlock()

	for _, callback := range callbacks {
		callback(snapshot)
	}
}

// # Rehydration

/*
Rehydrate restores the session from the durable vault record at startup.

An absent record leaves the store anonymous. A corrupt or unreadable record
is logged and treated as anonymous — the operator just logs in again.

Because the vault itself is the API client's token source, restoring state
here requires no separate token mirroring step.
*/
func (store *Store) Rehydrate(ctx context.Context) {
	record, err := store.vault.Load(ctx)
	if err != nil {
		store.log.Warn("session_rehydrate_failed", slog.Any("error", err))
		return
	}
	if record == nil {
		return
	}

	store.mutate(func(state *State) {
		state.User = record.User
		state.DetailedProfile = record.DetailedProfile
		state.Token = record.Token
		// Never resurrect an authenticated flag without its credential.
		state.IsAuthenticated = record.IsAuthenticated && record.Token != ""
	})

	store.log.Info("session_rehydrated",
		slog.Bool("authenticated", record.IsAuthenticated),
	)
}

// # Authentication Actions

/*
Login authenticates against the MES API and establishes the local session.

Flow:
 1. Normalize the email (trim + lowercase) before sending.
 2. On success: persist the session record, then flip the in-memory state.
 3. Kick off detached background tasks: profile fetch and notification
    prefetch. Their failures are logged, never propagated — a login never
    fails because a side refresh did.

On failure the previously persisted session (if any) is left untouched, the
error message is surfaced in state, and the error is returned so the form
can react.
*/
func (store *Store) Login(ctx context.Context, email, password string) error {
	store.mutate(func(state *State) {
		state.IsLoading = true
		state.Error = ""
	})

	response, err := store.service.Login(ctx, validate.NormalizeEmail(email), password)
	if err != nil {
		store.mutate(func(state *State) {
			state.Error = apperr.APIMessage(err, loginFallbackMessage)
			state.IsLoading = false
		})
		return err
	}

	store.establishSession(ctx, response.User, response.AccessToken)
	return nil
}

/*
Signup registers a new account and establishes a provisional session.

The signup endpoint answers with only an email confirmation — no profile.
A provisional [User] (empty ID, unverified, current timestamps) is
synthesized so the shell has something to render immediately; the detached
profile fetch reconciles it shortly after.
*/
func (store *Store) Signup(ctx context.Context, input SignupInput) error {
	store.mutate(func(state *State) {
		state.IsLoading = true
		state.Error = ""
	})

	input.Email = validate.NormalizeEmail(input.Email)

	response, err := store.service.Signup(ctx, input)
	if err != nil {
		store.mutate(func(state *State) {
			state.Error = apperr.APIMessage(err, signupFallbackMessage)
			state.IsLoading = false
		})
		return err
	}

	email := response.Email
	if email == "" {
		email = input.Email
	}

	now := time.Now().UTC()
	provisional := &User{
		Email:       email,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		FactoryName: input.FactoryName,
		Phone:       input.Phone,
		IsVerified:  false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	store.establishSession(ctx, provisional, response.AccessToken)
	return nil
}

// establishSession persists and applies a freshly authenticated session,
// then launches the detached refresh tasks.
func (store *Store) establishSession(ctx context.Context, user *User, token string) {
	store.persist(ctx, &Record{
		User:            user,
		Token:           token,
		IsAuthenticated: true,
	})

	store.mutate(func(state *State) {
		state.User = user
		state.DetailedProfile = nil
		state.Token = token
		state.IsAuthenticated = true
		state.IsLoading = false
	})

	// Detached: these outlive the initiating request and carry no ordering
	// guarantee relative to later user actions. Logout always wins.
	background := context.WithoutCancel(ctx)
	go func() {
		if err := store.FetchProfile(background); err != nil {
			store.log.Warn("background_profile_fetch_failed", slog.Any("error", err))
		}
	}()

	store.mu.Lock()
	refresher := store.refresher
	store.mu.Unlock()
	if refresher != nil {
		go func() {
			if err := refresher.Refresh(background); err != nil {
				store.log.Warn("background_notification_refresh_failed", slog.Any("error", err))
			}
		}()
	}
}

/*
Logout tears down the session.

The remote logout call is attempted but any failure there is non-fatal: a
network outage must never trap an operator in a session. The vault record
and the in-memory state are always cleared, including any surfaced error.
*/
func (store *Store) Logout(ctx context.Context) {
	store.mutate(func(state *State) {
		state.IsLoading = true
	})

	if err := store.service.Logout(ctx); err != nil {
		store.log.Warn("remote_logout_failed", slog.Any("error", err))
	}

	if err := store.vault.Clear(ctx); err != nil {
		store.log.Warn("session_clear_failed", slog.Any("error", err))
	}

	store.mutate(func(state *State) {
		*state = State{}
	})

	store.log.Info("session_cleared")
}

// # Profile Reconciliation

/*
FetchProfile fetches the detailed profile and reconciles the identity.

Failure policy:
  - HTTP 401: the token is dead — force a full [Store.Logout] so the next
    guarded request redirects to login.
  - Anything else: logged; the stale profile (if any) is retained.

A response arriving after a logout has already cleared the session is
discarded rather than resurrecting a dead session.
*/
func (store *Store) FetchProfile(ctx context.Context) error {
	profile, err := store.profiles.CurrentProfile(ctx)
	if err != nil {
		if apperr.APIStatus(err) == http.StatusUnauthorized {
			store.log.Warn("profile_fetch_unauthorized_forcing_logout")
			store.Logout(ctx)
			return err
		}
		store.log.Error("profile_fetch_failed", slog.Any("error", err))
		return err
	}

	applied := false
	store.mutate(func(state *State) {
		if !state.IsAuthenticated {
			// Late arrival racing a logout: drop it.
			return
		}
		state.DetailedProfile = profile
		state.User = userFromProfile(profile)
		applied = true
	})

	if applied {
		store.mu.Lock()
		record := &Record{
			User:            store.state.User,
			DetailedProfile: store.state.DetailedProfile,
			Token:           store.state.Token,
			IsAuthenticated: store.state.IsAuthenticated,
		}
		store.mu.Unlock()
		store.persist(ctx, record)
	}

	return nil
}

// userFromProfile rebuilds the identity summary from the detailed profile,
// replacing any provisional record synthesized at signup.
func userFromProfile(profile *users.DetailedProfile) *User {
	user := &User{
		ID:         profile.ID,
		Email:      profile.Email,
		FirstName:  profile.FirstName,
		LastName:   profile.LastName,
		IsVerified: profile.IsVerified,
		CreatedAt:  profile.CreatedAt,
		UpdatedAt:  profile.UpdatedAt,
	}
	if profile.Factory != nil {
		user.FactoryName = profile.Factory.Name
	}
	return user
}

// # Small Mutations

// ClearError clears the surfaced error message only.
func (store *Store) ClearError() {
	store.mutate(func(state *State) {
		state.Error = ""
	})
}

// SetUser replaces the identity summary after a profile update and persists
// the refreshed record.
func (store *Store) SetUser(ctx context.Context, user *User) {
	store.mutate(func(state *State) {
		state.User = user
	})

	store.mu.Lock()
	record := &Record{
		User:            store.state.User,
		DetailedProfile: store.state.DetailedProfile,
		Token:           store.state.Token,
		IsAuthenticated: store.state.IsAuthenticated,
	}
	store.mu.Unlock()
	store.persist(ctx, record)
}

// persist writes the durable record. Best-effort: a failed write degrades to
// a memory-only session and is logged.
func (store *Store) persist(ctx context.Context, record *Record) {
	if err := store.vault.Save(ctx, record); err != nil {
		store.log.Warn("session_persist_failed", slog.Any("error", err))
	}
}
