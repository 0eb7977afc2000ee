// Copyright (c) 2026 Forgeline. All rights reserved.
// Author: dev@forgeline.io

package ctxutil_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forgeline/console/internal/platform/ctxutil"
)

/*
TestRequestID verifies the round trip of the correlation ID through context.
*/
func TestRequestID(t *testing.T) {
	ctx := context.Background()

	// Empty context yields an empty ID, never panics.
	assert.Equal(t, "", ctxutil.GetRequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "req-123")
	assert.Equal(t, "req-123", ctxutil.GetRequestID(ctx))
}

/*
TestLogger verifies that a context-scoped logger is retrievable, and that
the default logger is used as a fallback.
*/
func TestLogger(t *testing.T) {
	ctx := context.Background()

	// Fallback: never nil.
	assert.NotNil(t, ctxutil.GetLogger(ctx))

	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx = ctxutil.WithLogger(ctx, custom)
	assert.Same(t, custom, ctxutil.GetLogger(ctx))
}
