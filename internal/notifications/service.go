// Copyright (c) 2026 Forgeline. All rights reserved.
// Author: dev@forgeline.io

package notifications

import (
	"context"
	"fmt"
	"net/url"

	"github.com/forgeline/console/internal/apiclient"
)

const notificationsBase = "/notifications"

// Service is the typed wrapper over the MES /notifications endpoints.
type Service struct {
	api *apiclient.Client
}

// NewService constructs a notifications [Service] over the shared API client.
func NewService(api *apiclient.Client) *Service {
	return &Service{api: api}
}

// ListResult is a fetched page with its metadata.
type ListResult struct {
	Items      []Notification
	Pagination Pagination
}

/*
List fetches one page of notifications.

GET /notifications?page&limit&sortBy&sortOrder
*/
func (service *Service) List(ctx context.Context, page, limit int, sortBy, sortOrder string) (*ListResult, error) {
	query := url.Values{}
	query.Set("page", fmt.Sprintf("%d", page))
	query.Set("limit", fmt.Sprintf("%d", limit))
	query.Set("sortBy", sortBy)
	query.Set("sortOrder", sortOrder)

	response := &listResponse{}
	if err := service.api.Get(ctx, notificationsBase+"?"+query.Encode(), response); err != nil {
		return nil, err
	}

	return &ListResult{
		Items:      response.Data,
		Pagination: response.Pagination,
	}, nil
}

/*
MarkRead marks a single notification as read server-side.

PATCH /notifications/:id/read
*/
func (service *Service) MarkRead(ctx context.Context, id string) error {
	response := &mutationResponse{}
	return service.api.Patch(ctx, notificationsBase+"/"+url.PathEscape(id)+"/read", struct{}{}, response)
}

/*
MarkAllRead marks every notification as read server-side.

PATCH /notifications/read-all
*/
func (service *Service) MarkAllRead(ctx context.Context) error {
	response := &mutationResponse{}
	return service.api.Patch(ctx, notificationsBase+"/read-all", struct{}{}, response)
}

/*
Delete removes a notification server-side.

DELETE /notifications/:id
*/
func (service *Service) Delete(ctx context.Context, id string) error {
	response := &mutationResponse{}
	return service.api.Delete(ctx, notificationsBase+"/"+url.PathEscape(id), response)
}
