// Copyright (c) 2026 Forgeline. All rights reserved.
// Author: dev@forgeline.io

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileVault persists the session record as a JSON file on local disk.
//
// # Concurrency
//
// A mutex serializes access: the API client's per-call Token() read may race
// a store-triggered Save() otherwise. File permissions are owner-only since
// the record contains a live bearer credential.
type FileVault struct {
	mu   sync.Mutex
	path string
}

// NewFileVault creates a [FileVault] at the given path. Parent directories
// are created on the first save, not here.
func NewFileVault(path string) *FileVault {
	return &FileVault{path: path}
}

/*
Load reads and decodes the persisted record.

Returns:
  - nil, nil when no record has ever been saved (fresh install).
  - error on an unreadable or corrupt record.
*/
func (vault *FileVault) Load(_ context.Context) (*Record, error) {
	vault.mu.Lock()
	defer vault.mu.Unlock()

	raw, err := os.ReadFile(vault.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("vault: read session record: %w", err)
	}

	record := &Record{}
	if err := json.Unmarshal(raw, record); err != nil {
		return nil, fmt.Errorf("vault: decode session record: %w", err)
	}

	return record, nil
}

// Save writes the record atomically (temp file + rename) so a crash mid-write
// never leaves a half-written record behind.
func (vault *FileVault) Save(_ context.Context, record *Record) error {
	vault.mu.Lock()
	defer vault.mu.Unlock()

	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("vault: encode session record: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(vault.path), 0o700); err != nil {
		return fmt.Errorf("vault: create session directory: %w", err)
	}

	tempPath := vault.path + ".tmp"
	if err := os.WriteFile(tempPath, raw, 0o600); err != nil {
		return fmt.Errorf("vault: write session record: %w", err)
	}

	if err := os.Rename(tempPath, vault.path); err != nil {
		return fmt.Errorf("vault: commit session record: %w", err)
	}

	return nil
}

// Clear removes the persisted record.
func (vault *FileVault) Clear(_ context.Context) error {
	vault.mu.Lock()
	defer vault.mu.Unlock()

	if err := os.Remove(vault.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("vault: clear session record: %w", err)
	}
	return nil
}

// Token reads the current bearer credential from the durable record.
// An absent or cleared record yields an empty (anonymous) token.
func (vault *FileVault) Token(ctx context.Context) (string, error) {
	record, err := vault.Load(ctx)
	if err != nil || record == nil {
		return "", err
	}
	return record.Token, nil
}
