// Copyright (c) 2026 Forgeline. All rights reserved.
// Author: dev@forgeline.io

/*
Package apiclient implements the generic HTTP request wrapper over the remote
MES REST API.

It is the single network boundary of the console: every store action goes
through this client. The client itself is stateless — it never mutates any
store and never retries.

Architecture:

  - Serialization: JSON bodies in both directions, no envelope unwrapping.
  - Authorization: The bearer token is read fresh from a [TokenSource] on
    every call, so a token rotation takes effect on the very next request.
  - Normalization: Every non-2xx answer becomes a [*apperr.APIError] with the
    server-provided message when the body carries one.
*/
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/forgeline/console/internal/platform/apperr"
	"github.com/forgeline/console/internal/platform/constants"
)

// fallbackMessage is surfaced when an error body carries no "message" field.
const fallbackMessage = "An error occurred"

// TokenSource supplies the current bearer credential at call time.
//
// # Contract
//
// Token is consulted on EVERY request — implementations must read the durable
// session record, not a cached copy. An empty string means anonymous.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client is the typed HTTP gateway to the MES API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// New constructs a [Client] for the given API base URL.
//
// # Parameters
//   - baseURL: e.g. "http://localhost:4000/api" (no trailing slash needed).
//   - tokens: The durable token lookup; may be nil for an anonymous client.
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: constants.UpstreamRequestTimeout,
		},
		tokens: tokens,
	}
}

// # Verb Helpers

// Get performs a GET request and decodes the response into out.
func (client *Client) Get(ctx context.Context, path string, out interface{}) error {
	return client.do(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST request with an optional JSON body.
func (client *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return client.do(ctx, http.MethodPost, path, body, out)
}

// Put performs a PUT request with an optional JSON body.
func (client *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return client.do(ctx, http.MethodPut, path, body, out)
}

// Patch performs a PATCH request with an optional JSON body.
func (client *Client) Patch(ctx context.Context, path string, body, out interface{}) error {
	return client.do(ctx, http.MethodPatch, path, body, out)
}

// Delete performs a DELETE request and decodes the response into out.
func (client *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return client.do(ctx, http.MethodDelete, path, nil, out)
}

// # Request Pipeline

/*
do executes a single request against the MES API.

Flow:
 1. Marshal the optional JSON body.
 2. Attach Content-Type and, when a token is available, the bearer header.
 3. Execute with the context deadline.
 4. Non-2xx: normalize the body into a [*apperr.APIError].
 5. 2xx: decode the body as-is into out (callers type the expected shape).
*/
func (client *Client) do(ctx context.Context, method, path string, body, out interface{}) error {

	// ── 1. Body Serialization ─────────────────────────────────────────────
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient: encode body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("apiclient: build request: %w", err)
	}

	// ── 2. Headers ────────────────────────────────────────────────────────
	request.Header.Set(constants.HeaderContentType, "application/json")

	// The token is read fresh on every call, never cached in the client.
	if client.tokens != nil {
		token, err := client.tokens.Token(ctx)
		if err == nil && token != "" {
			request.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
		}
	}

	// ── 3. Execution ──────────────────────────────────────────────────────
	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	defer func() {
		_ = response.Body.Close()
	}()

	rawBody, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("apiclient: read response: %w", err)
	}

	// ── 4. Error Normalization ────────────────────────────────────────────
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return normalizeError(response.StatusCode, rawBody)
	}

	// ── 5. Success Decoding ───────────────────────────────────────────────
	if out == nil || len(rawBody) == 0 {
		return nil
	}

	if err := json.Unmarshal(rawBody, out); err != nil {
		return fmt.Errorf("apiclient: decode response: %w", err)
	}

	return nil
}

// errorBody is the error shape the MES API answers with.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// normalizeError builds the canonical [*apperr.APIError] from a failed response.
// A body that is not JSON (proxies, load balancers) still yields a usable error.
func normalizeError(statusCode int, rawBody []byte) *apperr.APIError {
	parsed := errorBody{}
	_ = json.Unmarshal(rawBody, &parsed)

	message := parsed.Message
	if message == "" {
		message = fallbackMessage
	}

	return &apperr.APIError{
		Message:    message,
		StatusCode: statusCode,
		Code:       parsed.Error,
	}
}
