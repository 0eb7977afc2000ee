// Copyright (c) 2026 Forgeline. All rights reserved.
// Author: dev@forgeline.io

// Package notifications implements the client side of the MES notification
// panel: typed wrappers over the /notifications endpoints and the observable
// store holding the fetched page plus its unread counter.
//
// # Architecture
//
//   - Service: Thin, typed endpoint wrappers (no state).
//   - Store: The in-memory page cache the panel subscribes to.
//
// There is no background polling: staleness is bounded by the panel
// re-fetching on every open.
package notifications

import "time"

// Type classifies a notification for display.
type Type string

const (
	TypeSystem  Type = "system"
	TypeAlert   Type = "alert"
	TypeInfo    Type = "info"
	TypeSuccess Type = "success"
	TypeWarning Type = "warning"
	TypeError   Type = "error"
)

// Status is the read/unread lifecycle state.
type Status string

const (
	StatusUnread Status = "unread"
	StatusRead   Status = "read"
)

// Notification is a single server-created notification record.
//
// # Rules
//   - Created server-side only; the console never fabricates one.
//   - Transitions unread→read via explicit or bulk action, never back.
type Notification struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"userId"`
	Type      Type                   `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Status    Status                 `json:"status"`
	ReadAt    *time.Time             `json:"readAt,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

// IsUnread reports whether the notification still awaits the reader.
func (n Notification) IsUnread() bool {
	return n.Status == StatusUnread
}

// Pagination is the page metadata the list endpoint answers with.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// # Wire Envelopes

// listResponse is the answer to GET /notifications.
type listResponse struct {
	Success    bool           `json:"success"`
	Pagination Pagination     `json:"pagination"`
	Data       []Notification `json:"data"`
}

// mutationResponse is the answer to the read/read-all/delete endpoints.
type mutationResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}
