// Copyright (c) 2026 Forgeline. All rights reserved.
// Author: dev@forgeline.io

/*
Package web is the console shell: the local HTTP surface the operator's
browser talks to. It renders the page skeletons, guards the dashboard
routes, and exposes the JSON endpoints the notification panel polls.

# Architecture

  - This package is the topmost presentation boundary.
  - It acts as the composition root for the HTTP transport (chi router).
  - All MES state flows through the injected stores — no handler talks to
    the remote API directly except via the typed services.
*/
package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/forgeline/console/internal/auth"
	"github.com/forgeline/console/internal/platform/apperr"
	"github.com/forgeline/console/internal/platform/respond"
)

// SessionSource is the slice of the session store the guard depends on.
type SessionSource interface {
	State() auth.State
}

// # Route Guarding

/*
RequireSession gates the dashboard routes behind an authenticated session.

Unauthenticated page requests are redirected to /login with the original
URL carried in the "from" query parameter, so a successful login can land
the operator exactly where they were headed. JSON endpoints answer 401
instead — a redirect inside an XHR response is useless to the panel.

The guard checks local session state only. A token that is already dead
server-side passes here and fails on the first upstream call, which then
tears the session down (see the session store's profile reconciliation).
*/
func RequireSession(sessions SessionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if sessions.State().IsAuthenticated {
				next.ServeHTTP(writer, request)
				return
			}

			if wantsJSON(request) {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			target := "/login?from=" + url.QueryEscape(request.URL.RequestURI())
			http.Redirect(writer, request, target, http.StatusFound)
		})
	}
}

/*
RedirectIfAuthenticated keeps signed-in operators off the login and signup
pages, bouncing them straight to the dashboard.
*/
func RedirectIfAuthenticated(sessions SessionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if sessions.State().IsAuthenticated {
				http.Redirect(writer, request, "/dashboard", http.StatusFound)
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// wantsJSON reports whether the request came from the panel's XHR layer
// rather than a full-page navigation.
func wantsJSON(request *http.Request) bool {
	if strings.HasPrefix(request.URL.Path, "/shell/") {
		return true
	}
	accept := request.Header.Get("Accept")
	return strings.Contains(accept, "application/json")
}

// safeReturnPath validates a "from" redirect target: it must be a local
// absolute path, never a scheme-qualified or protocol-relative URL.
func safeReturnPath(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return "/dashboard"
	}
	return raw
}
