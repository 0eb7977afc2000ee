// Copyright (c) 2026 Forgeline. All rights reserved.
// Author: dev@forgeline.io

// Package users provides the typed surface over the MES users endpoints:
// the detailed profile, profile updates, and the admin user list.
//
// # Architecture
//
// Entities in this package mirror the wire shapes the MES API answers with.
// They carry no behavior — the session store owns all lifecycle decisions.
package users

import "time"

// Role is the authorization record attached to a detailed profile.
type Role struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions,omitempty"`
}

// Factory is the production site a user is assigned to.
type Factory struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}

// DetailedProfile is the extended identity record, fetched lazily after
// authentication. Role and Factory may be absent for unassigned accounts.
type DetailedProfile struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	IsVerified bool      `json:"isVerified"`
	Role       *Role     `json:"role,omitempty"`
	Factory    *Factory  `json:"factory,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// UpdateProfileInput holds the mutable profile fields for PUT /users/profile/:id.
// Nil fields are omitted from the payload and left untouched server-side.
type UpdateProfileInput struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     *string `json:"email,omitempty"`
}

// UserListItem is a row in the admin user list view.
type UserListItem struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
}
