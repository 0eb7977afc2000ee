// Copyright (c) 2026 Forgeline. All rights reserved.
// Author: dev@forgeline.io

package users

import (
	"context"
	"net/url"

	"github.com/forgeline/console/internal/apiclient"
)

const usersBase = "/users"

// Service is the typed wrapper over the MES users endpoints.
//
// It performs no caching and no state mutation — callers (the session store,
// the dashboard user list) decide what to retain.
type Service struct {
	api *apiclient.Client
}

// NewService constructs a users [Service] over the shared API client.
func NewService(api *apiclient.Client) *Service {
	return &Service{api: api}
}

/*
CurrentProfile fetches the detailed profile of the authenticated user.

GET /users/profile

Returns:
  - *DetailedProfile: Role and factory assignment included when present.
  - error: [*apperr.APIError] on non-2xx (401 means the token is dead).
*/
func (service *Service) CurrentProfile(ctx context.Context) (*DetailedProfile, error) {
	profile := &DetailedProfile{}
	if err := service.api.Get(ctx, usersBase+"/profile", profile); err != nil {
		return nil, err
	}
	return profile, nil
}

/*
UserByID fetches a specific user's detailed profile.

GET /users/:userId
*/
func (service *Service) UserByID(ctx context.Context, userID string) (*DetailedProfile, error) {
	profile := &DetailedProfile{}
	if err := service.api.Get(ctx, usersBase+"/"+url.PathEscape(userID), profile); err != nil {
		return nil, err
	}
	return profile, nil
}

/*
UpdateProfile updates mutable profile fields and returns the fresh profile.

PUT /users/profile/:userId
*/
func (service *Service) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*DetailedProfile, error) {
	profile := &DetailedProfile{}
	if err := service.api.Put(ctx, usersBase+"/profile/"+url.PathEscape(userID), input, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

/*
ListUsers fetches the full user list for the dashboard's admin view.

GET /users
*/
func (service *Service) ListUsers(ctx context.Context) ([]UserListItem, error) {
	items := []UserListItem{}
	if err := service.api.Get(ctx, usersBase, &items); err != nil {
		return nil, err
	}
	return items, nil
}
