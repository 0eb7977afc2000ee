// Copyright (c) 2026 Forgeline. All rights reserved.
// Author: dev@forgeline.io

package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeline/console/internal/auth"
)

type fakeSessions struct {
	authenticated bool
}

func (f *fakeSessions) State() auth.State {
	return auth.State{IsAuthenticated: f.authenticated, Token: "tok"}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("guarded"))
	})
}

/*
TestRequireSession_AllowsAuthenticated passes the request through untouched.
*/
func TestRequireSession_AllowsAuthenticated(t *testing.T) {
	guard := RequireSession(&fakeSessions{authenticated: true})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	guard(okHandler()).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "guarded", recorder.Body.String())
}

/*
TestRequireSession_RedirectsPages sends anonymous page requests to /login
with the original URL preserved in the "from" parameter.
*/
func TestRequireSession_RedirectsPages(t *testing.T) {
	guard := RequireSession(&fakeSessions{})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/dashboard/users?sort=name", nil)
	guard(okHandler()).ServeHTTP(recorder, request)

	require.Equal(t, http.StatusFound, recorder.Code)
	location := recorder.Header().Get("Location")
	assert.Equal(t, "/login?from=%2Fdashboard%2Fusers%3Fsort%3Dname", location)
}

/*
TestRequireSession_JSONGets401 answers XHR calls with a JSON 401 instead
of a redirect.
*/
func TestRequireSession_JSONGets401(t *testing.T) {
	guard := RequireSession(&fakeSessions{})

	tests := []struct {
		name   string
		target string
		accept string
	}{
		{name: "shell_path", target: "/shell/notifications", accept: ""},
		{name: "accept_header", target: "/dashboard", accept: "application/json"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, testCase.target, nil)
			if testCase.accept != "" {
				request.Header.Set("Accept", testCase.accept)
			}
			guard(okHandler()).ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
			assert.Contains(t, recorder.Header().Get("Content-Type"), "application/json")
		})
	}
}

/*
TestRedirectIfAuthenticated bounces signed-in operators off the entry forms.
*/
func TestRedirectIfAuthenticated(t *testing.T) {
	middleware := RedirectIfAuthenticated(&fakeSessions{authenticated: true})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/login", nil)
	middleware(okHandler()).ServeHTTP(recorder, request)

	require.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, "/dashboard", recorder.Header().Get("Location"))

	// Anonymous visitors still reach the form.
	recorder = httptest.NewRecorder()
	RedirectIfAuthenticated(&fakeSessions{})(okHandler()).ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestSafeReturnPath rejects external and protocol-relative redirect targets.
*/
func TestSafeReturnPath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: "/dashboard"},
		{name: "local_path", input: "/dashboard/users", want: "/dashboard/users"},
		{name: "absolute_url", input: "https://evil.example/", want: "/dashboard"},
		{name: "protocol_relative", input: "//evil.example/", want: "/dashboard"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, safeReturnPath(testCase.input))
		})
	}
}
