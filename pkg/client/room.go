package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"roombook/pkg/model"
)

// APIError is returned when the scheduler answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Message)
}

// RoomClient is used by physical room consoles, which only know the room's access code.
type RoomClient struct {
	httpClient *HttpClient
}

func NewRoomClient(baseURL string) *RoomClient {
	return &RoomClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *RoomClient) Lock(ctx context.Context, accessCode string) (*model.Room, error) {
	return c.toggle(ctx, "/api/v1/rooms/lock", accessCode)
}

func (c *RoomClient) Unlock(ctx context.Context, accessCode string) (*model.Room, error) {
	return c.toggle(ctx, "/api/v1/rooms/unlock", accessCode)
}

func (c *RoomClient) CheckLock(ctx context.Context, accessCode string) (*model.RoomLockStatus, error) {
	resp, err := c.httpClient.GET(ctx, "/api/v1/rooms/check-lock/"+url.PathEscape(accessCode))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var status model.RoomLockStatus
	if err := resp.DecodeData(&status); err != nil {
		return nil, fmt.Errorf("failed to decode lock status: %w", err)
	}
	return &status, nil
}

func (c *RoomClient) toggle(ctx context.Context, path, accessCode string) (*model.Room, error) {
	resp, err := c.httpClient.POST(ctx, path, model.RoomAccessRequest{AccessCode: accessCode})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var room model.Room
	if err := resp.DecodeData(&room); err != nil {
		return nil, fmt.Errorf("failed to decode room: %w", err)
	}
	return &room, nil
}

func apiError(resp *Response) error {
	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	_ = resp.DecodeJSON(&body)
	return &APIError{
		StatusCode: resp.StatusCode,
		Code:       body.Code,
		Message:    GetErrorMessage(resp),
	}
}
