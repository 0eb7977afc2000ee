// Copyright (c) 2026 Forgeline. All rights reserved.
// Author: dev@forgeline.io

package web

import (
	"net/http"

	"github.com/forgeline/console/internal/platform/apperr"
	requestutil "github.com/forgeline/console/internal/platform/request"
	"github.com/forgeline/console/internal/users"
	"github.com/forgeline/console/pkg/pointer"
)

// # Dashboard Pages

// sectionTitles maps dashboard URL sections to their display names.
// Sections listed here render the coming-soon placeholder.
var sectionTitles = map[string]string{
	"orders":    "Production orders",
	"inventory": "Inventory",
	"reports":   "Reports",
	"lines":     "Line status",
	"settings":  "Settings",
}

// Dashboard handles GET /dashboard.
func (handler *PageHandler) Dashboard(writer http.ResponseWriter, request *http.Request) {
	handler.templates.render(writer, http.StatusOK, "dashboard", handler.page("Dashboard"))
}

// ComingSoon handles GET /dashboard/{section} for sections that have no
// implementation yet. Unknown sections 404 rather than pretending.
func (handler *PageHandler) ComingSoon(writer http.ResponseWriter, request *http.Request) {
	section := requestutil.Param(request, "section")
	title, known := sectionTitles[section]
	if !known {
		http.NotFound(writer, request)
		return
	}

	data := handler.page(title)
	data.Data = title
	handler.templates.render(writer, http.StatusOK, "coming_soon", data)
}

// UserList handles GET /dashboard/users.
func (handler *PageHandler) UserList(writer http.ResponseWriter, request *http.Request) {
	data := handler.page("Users")

	list, err := handler.usersService.ListUsers(request.Context())
	if err != nil {
		data.Error = apperr.APIMessage(err, "Could not load the user list")
		data.Data = []users.UserListItem{}
		handler.templates.render(writer, http.StatusBadGateway, "users", data)
		return
	}

	data.Data = list
	handler.templates.render(writer, http.StatusOK, "users", data)
}

// UserDetail handles GET /dashboard/users/{id}, reusing the profile page
// in read-only fashion for other users.
func (handler *PageHandler) UserDetail(writer http.ResponseWriter, request *http.Request) {
	data := handler.page("User")

	profile, err := handler.usersService.UserByID(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		data.Error = apperr.APIMessage(err, "Could not load the user")
		handler.templates.render(writer, http.StatusBadGateway, "profile", data)
		return
	}

	data.Title = profile.FirstName + " " + profile.LastName
	data.Data = profile
	handler.templates.render(writer, http.StatusOK, "profile", data)
}

/*
Profile handles GET /dashboard/profile.

The cached detailed profile renders when present; otherwise a synchronous
fetch fills it in (first visit can outrun the post-login background fetch).
*/
func (handler *PageHandler) Profile(writer http.ResponseWriter, request *http.Request) {
	data := handler.page("My profile")

	if data.Session.DetailedProfile == nil {
		if err := handler.sessions.FetchProfile(request.Context()); err != nil {
			data.Error = apperr.APIMessage(err, "Could not load your profile")
			handler.templates.render(writer, http.StatusBadGateway, "profile", data)
			return
		}
		data.Session = handler.sessions.State()
	}

	data.Data = data.Session.DetailedProfile
	handler.templates.render(writer, http.StatusOK, "profile", data)
}

/*
UpdateProfile handles POST /dashboard/profile.

The upstream answers with the fresh profile; a follow-up reconciliation
through the session store keeps the identity summary and the durable
record in sync with it.
*/
func (handler *PageHandler) UpdateProfile(writer http.ResponseWriter, request *http.Request) {
	state := handler.sessions.State()
	if state.User == nil || state.User.ID == "" {
		http.Redirect(writer, request, "/dashboard/profile", http.StatusFound)
		return
	}

	input := users.UpdateProfileInput{}
	if firstName := request.FormValue("firstName"); firstName != "" {
		input.FirstName = pointer.To(firstName)
	}
	if lastName := request.FormValue("lastName"); lastName != "" {
		input.LastName = pointer.To(lastName)
	}

	data := handler.page("My profile")
	data.Data = state.DetailedProfile

	if _, err := handler.usersService.UpdateProfile(request.Context(), state.User.ID, input); err != nil {
		data.Error = apperr.APIMessage(err, "Could not save your profile")
		handler.templates.render(writer, http.StatusUnprocessableEntity, "profile", data)
		return
	}

	if err := handler.sessions.FetchProfile(request.Context()); err != nil {
		handler.log.Warn("profile_refresh_after_update_failed")
	}

	http.Redirect(writer, request, "/dashboard/profile", http.StatusFound)
}

// Logout handles POST /logout. Teardown never fails from the operator's
// point of view — they always land back on the login page.
func (handler *PageHandler) Logout(writer http.ResponseWriter, request *http.Request) {
	handler.sessions.Logout(request.Context())
	http.Redirect(writer, request, "/login", http.StatusFound)
}
