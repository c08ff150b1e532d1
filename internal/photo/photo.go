// Package photo is the port to the external image store. The store is an
// opaque collaborator: upload failures block report creation, delete failures
// are the caller's to ignore.
package photo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Upload is the stored photo's public URL and the handle used to delete it.
type Upload struct {
	URL string `json:"url"`
	ID  string `json:"id"`
}

// Store stores and deletes report photos.
type Store interface {
	Store(ctx context.Context, data []byte, contentType string) (*Upload, error)
	Delete(ctx context.Context, id string) error
}

// HTTPStore talks to an image service over HTTP with bounded timeouts.
type HTTPStore struct {
	endpoint string
	token    string
	client   *http.Client
}

// NewHTTPStore creates a store client for the given upload endpoint.
func NewHTTPStore(endpoint, token string) *HTTPStore {
	return &HTTPStore{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Store uploads image bytes and returns the public URL and handle.
func (s *HTTPStore) Store(ctx context.Context, data []byte, contentType string) (*Upload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload photo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("photo store returned status %d", resp.StatusCode)
	}

	var upload Upload
	if err := json.NewDecoder(resp.Body).Decode(&upload); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	if upload.URL == "" || upload.ID == "" {
		return nil, fmt.Errorf("photo store returned incomplete upload")
	}
	return &upload, nil
}

// Delete removes a stored photo by handle.
func (s *HTTPStore) Delete(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		s.endpoint+"/"+url.PathEscape(id), nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("photo store returned status %d", resp.StatusCode)
	}
	return nil
}
