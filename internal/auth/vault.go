// Copyright (c) 2026 Forgeline. All rights reserved.
// Author: dev@forgeline.io

package auth

import (
	"context"

	"github.com/forgeline/console/internal/users"
)

// Record is the single durable session snapshot.
//
// # Design
//
// One record serves both consumers: the session store rehydrates full state
// from it at startup, and the API client reads Token from it on every call.
// Collapsing to a single record removes the torn-write risk a separate
// token mirror would carry.
type Record struct {
	User            *User                  `json:"user"`
	DetailedProfile *users.DetailedProfile `json:"detailedProfile,omitempty"`
	Token           string                 `json:"token"`
	IsAuthenticated bool                   `json:"isAuthenticated"`
}

// Vault is the durable storage contract for the session record.
//
// # Implementations
//
//   - [FileVault]: JSON on local disk (default, single-operator consoles).
//   - [RedisVault]: shared Redis record (multi-instance deployments).
//
// Writes are best-effort: a failed save degrades to a memory-only session
// and is logged, never fatal.
type Vault interface {
	// Load returns the persisted record, or nil when none exists.
	Load(ctx context.Context) (*Record, error)

	// Save replaces the persisted record wholesale.
	Save(ctx context.Context, record *Record) error

	// Clear removes the persisted record. Clearing an empty vault is a no-op.
	Clear(ctx context.Context) error

	// Token reads the current bearer credential directly from durable
	// storage. It satisfies [apiclient.TokenSource], and is consulted on
	// every request so a rotated token applies to the very next call.
	Token(ctx context.Context) (string, error)
}
