// Copyright (c) 2026 Forgeline. All rights reserved.
// Author: dev@forgeline.io

package web

import (
	"net/http"

	"github.com/forgeline/console/internal/auth"
	"github.com/forgeline/console/internal/notifications"
	"github.com/forgeline/console/internal/platform/constants"
	requestutil "github.com/forgeline/console/internal/platform/request"
	"github.com/forgeline/console/internal/platform/respond"
	"github.com/forgeline/console/internal/platform/validate"
)

// # Definitions & Constructors

// PanelHandler serves the JSON endpoints the browser shell polls: the
// session snapshot and the notification panel actions.
type PanelHandler struct {
	sessions      *auth.Store
	notifications *notifications.Store
	authService   *auth.Service
}

// NewPanelHandler constructs a [PanelHandler] with its store dependencies.
func NewPanelHandler(sessions *auth.Store, notificationStore *notifications.Store, authService *auth.Service) *PanelHandler {
	return &PanelHandler{
		sessions:      sessions,
		notifications: notificationStore,
		authService:   authService,
	}
}

// sessionView is the session snapshot exposed to page scripts.
// The bearer token never crosses into browser-readable JSON.
type sessionView struct {
	IsAuthenticated bool        `json:"isAuthenticated"`
	IsLoading       bool        `json:"isLoading"`
	Error           string      `json:"error,omitempty"`
	User            *auth.User  `json:"user,omitempty"`
	DetailedProfile interface{} `json:"detailedProfile,omitempty"`
}

// panelView is the notification panel snapshot.
type panelView struct {
	Notifications []notifications.Notification `json:"notifications"`
	UnreadCount   int                          `json:"unreadCount"`
	Pagination    notifications.Pagination     `json:"pagination"`
	IsLoading     bool                         `json:"isLoading"`
}

func newPanelView(state notifications.State) panelView {
	return panelView{
		Notifications: state.Notifications,
		UnreadCount:   state.UnreadCount,
		Pagination:    state.Pagination,
		IsLoading:     state.IsLoading,
	}
}

// # Session Endpoints

/*
Session handles GET /shell/session.

Description: Returns the current session snapshot for the page scripts
(badge rendering, verified banner, user menu).
*/
func (handler *PanelHandler) Session(writer http.ResponseWriter, request *http.Request) {
	state := handler.sessions.State()
	respond.OK(writer, sessionView{
		IsAuthenticated: state.IsAuthenticated,
		IsLoading:       state.IsLoading,
		Error:           state.Error,
		User:            state.User,
		DetailedProfile: state.DetailedProfile,
	})
}

/*
VerificationStatus handles GET /shell/verification/status/{email}.

Description: Proxies the resend-cooldown check so the verify page can
enable its resend button at the right moment. Public — the operator is
not signed in while verifying.
*/
func (handler *PanelHandler) VerificationStatus(writer http.ResponseWriter, request *http.Request) {
	email := validate.NormalizeEmail(requestutil.Param(request, "email"))

	validator := &validate.Validator{}
	validator.Required("email", email).Email("email", email)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	status, err := handler.authService.VerificationStatus(request.Context(), email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, status)
}

// # Notification Endpoints

/*
List handles GET /shell/notifications.

Description: Fetches one page (newest first) into the panel store and
answers with the resulting snapshot. The panel calls this on every open —
that re-fetch is the staleness bound.

Query:
  - page:  1-based page number (default 1)
  - limit: page size (default 50)

Response:
  - 200: panelView
  - 4xx/5xx: Upstream failure passed through
*/
func (handler *PanelHandler) List(writer http.ResponseWriter, request *http.Request) {
	page := requestutil.QueryInt(request, "page", constants.NotificationsDefaultPage)
	limit := requestutil.QueryInt(request, "limit", constants.NotificationsDefaultLimit)

	if err := handler.notifications.Fetch(request.Context(), page, limit); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, newPanelView(handler.notifications.State()))
}

/*
MarkRead handles POST /shell/notifications/{id}/read.

Response:
  - 200: panelView with the updated unread counter
*/
func (handler *PanelHandler) MarkRead(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	if err := handler.notifications.MarkAsRead(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, newPanelView(handler.notifications.State()))
}

/*
MarkAllRead handles POST /shell/notifications/read-all.

Response:
  - 200: panelView with a zero unread counter
*/
func (handler *PanelHandler) MarkAllRead(writer http.ResponseWriter, request *http.Request) {
	if err := handler.notifications.MarkAllAsRead(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, newPanelView(handler.notifications.State()))
}

/*
Delete handles DELETE /shell/notifications/{id}.

Description: Deletes server-side, then drops the local record if the page
held it. Deleting an id outside the loaded page still succeeds.
*/
func (handler *PanelHandler) Delete(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	if err := handler.notifications.Remove(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, newPanelView(handler.notifications.State()))
}

/*
Clear handles DELETE /shell/notifications.

Description: Empties the local panel cache only — no server-side deletion
happens, so the next fetch shows whatever the server still holds.
*/
func (handler *PanelHandler) Clear(writer http.ResponseWriter, request *http.Request) {
	handler.notifications.ClearAll()
	respond.OK(writer, newPanelView(handler.notifications.State()))
}
