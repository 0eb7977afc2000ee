// Copyright (c) 2026 Forgeline. All rights reserved.
// Author: dev@forgeline.io

package web_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeline/console/internal/apiclient"
	"github.com/forgeline/console/internal/auth"
	"github.com/forgeline/console/internal/notifications"
	"github.com/forgeline/console/internal/platform/config"
	"github.com/forgeline/console/internal/users"
	"github.com/forgeline/console/internal/web"
)

// handle registers h for method+path; the Go 1.21 ServeMux has no
// method patterns, so the method is checked inside the handler.
func handle(mux *http.ServeMux, method, path string, h http.HandlerFunc) {
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	})
}

// mesHandler mocks the slice of the MES API the shell exercises.
func mesHandler() http.Handler {
	mux := http.NewServeMux()
	handle(mux, http.MethodPost, "/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		if body["password"] != "Passw0rd" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid login credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"accessToken":"tok1","user":{"id":"u1","email":"a@b.com","firstName":"Ada","lastName":"Byron","isVerified":true}}`))
	})
	handle(mux, http.MethodGet, "/users/profile", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"u1","email":"a@b.com","firstName":"Ada","lastName":"Byron","isVerified":true}`))
	})
	handle(mux, http.MethodGet, "/notifications", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"pagination":{"page":1,"limit":50,"total":1,"totalPages":1},"data":[
			{"id":"n1","userId":"u1","type":"alert","title":"Line stoppage","message":"Line 3 halted","status":"unread","createdAt":"2026-08-30T10:00:00Z","updatedAt":"2026-08-30T10:00:00Z"}
		]}`))
	})
	handle(mux, http.MethodDelete, "/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

// newTestShell wires a full shell server over a mock MES backend.
func newTestShell(t *testing.T) http.Handler {
	t.Helper()

	backend := httptest.NewServer(mesHandler())
	t.Cleanup(backend.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	vault := auth.NewFileVault(filepath.Join(t.TempDir(), "session.json"))
	api := apiclient.New(backend.URL, vault)

	authService := auth.NewService(api)
	usersService := users.NewService(api)
	notificationStore := notifications.NewStore(notifications.NewService(api), log)
	sessionStore := auth.NewStore(authService, usersService, vault, log)
	sessionStore.SetNotificationRefresher(notificationStore)

	cfg := &config.Config{ServerPort: "0", Environment: "test", APIBaseURL: backend.URL}

	server, err := web.NewServer(context.Background(), cfg, log, web.Dependencies{
		Sessions:      sessionStore,
		Notifications: notificationStore,
		Auth:          authService,
		Users:         usersService,
	})
	require.NoError(t, err)

	return server.Handler()
}

func postForm(handler http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	handler.ServeHTTP(recorder, request)
	return recorder
}

func get(handler http.Handler, target string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
	return recorder
}

/*
TestServer_HealthEndpoints: liveness always answers, readiness reports ready
when no checkers are wired.
*/
func TestServer_HealthEndpoints(t *testing.T) {
	shell := newTestShell(t)

	assert.Equal(t, http.StatusOK, get(shell, "/health").Code)
	assert.Equal(t, http.StatusOK, get(shell, "/ready").Code)
}

/*
TestServer_AnonymousFlow: public pages render, guarded pages redirect, the
panel XHR answers 401.
*/
func TestServer_AnonymousFlow(t *testing.T) {
	shell := newTestShell(t)

	assert.Equal(t, http.StatusOK, get(shell, "/").Code)
	assert.Equal(t, http.StatusOK, get(shell, "/login").Code)
	assert.Equal(t, http.StatusOK, get(shell, "/signup").Code)
	assert.Equal(t, http.StatusOK, get(shell, "/forgot-password").Code)

	dashboard := get(shell, "/dashboard")
	require.Equal(t, http.StatusFound, dashboard.Code)
	assert.True(t, strings.HasPrefix(dashboard.Header().Get("Location"), "/login?from="))

	panel := get(shell, "/shell/notifications")
	assert.Equal(t, http.StatusUnauthorized, panel.Code)
}

/*
TestServer_LoginFlow: a successful form login opens the guarded surface and
the notification panel.
*/
func TestServer_LoginFlow(t *testing.T) {
	shell := newTestShell(t)

	login := postForm(shell, "/login", url.Values{
		"email":    {"a@b.com"},
		"password": {"Passw0rd"},
	})
	require.Equal(t, http.StatusFound, login.Code)
	assert.Equal(t, "/dashboard", login.Header().Get("Location"))

	assert.Equal(t, http.StatusOK, get(shell, "/dashboard").Code)

	// Entry forms now bounce to the dashboard.
	bounced := get(shell, "/login")
	require.Equal(t, http.StatusFound, bounced.Code)
	assert.Equal(t, "/dashboard", bounced.Header().Get("Location"))

	// Panel fetch: one unread item drives the badge.
	panel := get(shell, "/shell/notifications")
	require.Equal(t, http.StatusOK, panel.Code)

	var envelope struct {
		Data struct {
			UnreadCount   int `json:"unreadCount"`
			Notifications []struct {
				ID string `json:"id"`
			} `json:"notifications"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(panel.Body.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.Data.UnreadCount)
	require.Len(t, envelope.Data.Notifications, 1)
	assert.Equal(t, "n1", envelope.Data.Notifications[0].ID)

	// Session snapshot never exposes the bearer token.
	session := get(shell, "/shell/session")
	require.Equal(t, http.StatusOK, session.Code)
	assert.NotContains(t, session.Body.String(), "tok1")
}

/*
TestServer_LoginFailureRendersForm: the upstream message lands in the page
and the session stays anonymous.
*/
func TestServer_LoginFailureRendersForm(t *testing.T) {
	shell := newTestShell(t)

	login := postForm(shell, "/login", url.Values{
		"email":    {"a@b.com"},
		"password": {"WrongPass1"},
	})
	require.Equal(t, http.StatusUnauthorized, login.Code)
	assert.Contains(t, login.Body.String(), "Invalid login credentials")

	assert.Equal(t, http.StatusFound, get(shell, "/dashboard").Code)
}

/*
TestServer_ValidationRejectsBeforeUpstream: a malformed signup never leaves
the shell — field messages render straight back.
*/
func TestServer_ValidationRejectsBeforeUpstream(t *testing.T) {
	shell := newTestShell(t)

	response := postForm(shell, "/signup", url.Values{
		"firstName":   {"Ada"},
		"lastName":    {"Byron"},
		"factoryName": {"X"},
		"email":       {"not-an-email"},
		"password":    {"short"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, response.Code)
	body := response.Body.String()
	assert.Contains(t, body, "Minimum 2 characters")
	assert.Contains(t, body, "Must be a valid email address")
}

/*
TestServer_LogoutClosesSession: after logout the guarded surface redirects
again, even while background refreshes may still be in flight.
*/
func TestServer_LogoutClosesSession(t *testing.T) {
	shell := newTestShell(t)

	require.Equal(t, http.StatusFound, postForm(shell, "/login", url.Values{
		"email":    {"a@b.com"},
		"password": {"Passw0rd"},
	}).Code)

	logout := postForm(shell, "/logout", url.Values{})
	require.Equal(t, http.StatusFound, logout.Code)
	assert.Equal(t, "/login", logout.Header().Get("Location"))

	require.Eventually(t, func() bool {
		return get(shell, "/dashboard").Code == http.StatusFound
	}, 2*time.Second, 10*time.Millisecond)
}
