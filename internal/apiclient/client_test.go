// Copyright (c) 2026 Forgeline. All rights reserved.
// Author: dev@forgeline.io

package apiclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeline/console/internal/apiclient"
	"github.com/forgeline/console/internal/platform/apperr"
)

// rotatingTokenSource mimics the durable vault: the value can change
// between calls and must be picked up without rebuilding the client.
type rotatingTokenSource struct {
	mu    sync.Mutex
	token string
}

func (s *rotatingTokenSource) Token(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *rotatingTokenSource) set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

/*
TestClient_AttachesFreshToken verifies that the bearer header always reflects
the current vault value, including rotations between calls.
*/
func TestClient_AttachesFreshToken(t *testing.T) {
	var seenAuth []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenAuth = append(seenAuth, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	defer server.Close()

	tokens := &rotatingTokenSource{}
	client := apiclient.New(server.URL, tokens)

	// Anonymous call: no header at all.
	require.NoError(t, client.Get(context.Background(), "/ping", nil))

	// Authenticated call.
	tokens.set("tok1")
	require.NoError(t, client.Get(context.Background(), "/ping", nil))

	// Rotated token takes effect on the very next call.
	tokens.set("tok2")
	require.NoError(t, client.Get(context.Background(), "/ping", nil))

	require.Len(t, seenAuth, 3)
	assert.Equal(t, "", seenAuth[0])
	assert.Equal(t, "Bearer tok1", seenAuth[1])
	assert.Equal(t, "Bearer tok2", seenAuth[2])
}

/*
TestClient_DecodesSuccessBody verifies that a 2xx body is decoded as-is into
the caller-typed shape (no envelope unwrapping at this layer).
*/
func TestClient_DecodesSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"accessToken":"tok1","user":{"id":"u1"}}`))
	}))
	defer server.Close()

	client := apiclient.New(server.URL, nil)

	var out struct {
		AccessToken string `json:"accessToken"`
		User        struct {
			ID string `json:"id"`
		} `json:"user"`
	}

	err := client.Post(context.Background(), "/auth/login", map[string]string{"email": "a@b.com"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "tok1", out.AccessToken)
	assert.Equal(t, "u1", out.User.ID)
}

/*
TestClient_NormalizesErrors covers the non-2xx → APIError mapping, including
the generic fallback when the body carries no message.
*/
func TestClient_NormalizesErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantCode    string
	}{
		{"server_message", http.StatusUnauthorized, `{"message":"Invalid credentials","error":"Unauthorized"}`, "Invalid credentials", "Unauthorized"},
		{"fallback_message", http.StatusInternalServerError, `{}`, "An error occurred", ""},
		{"non_json_body", http.StatusBadGateway, `<html>bad gateway</html>`, "An error occurred", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := apiclient.New(server.URL, nil)
			err := client.Get(context.Background(), "/whatever", nil)
			require.Error(t, err)

			assert.Equal(t, tt.status, apperr.APIStatus(err))
			assert.Equal(t, tt.wantMessage, apperr.APIMessage(err, "fallback"))

			var apiErr *apperr.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantCode, apiErr.Code)
		})
	}
}

/*
TestClient_TransportErrorIsNotAPIError verifies that a network failure does
not masquerade as an upstream status.
*/
func TestClient_TransportErrorIsNotAPIError(t *testing.T) {
	// Port 0 is never listening.
	client := apiclient.New("http://127.0.0.1:0", nil)

	err := client.Get(context.Background(), "/ping", nil)
	require.Error(t, err)
	assert.Equal(t, 0, apperr.APIStatus(err))
	assert.Equal(t, "fallback", apperr.APIMessage(err, "fallback"))
}
