// Package media talks to the external image-hosting service.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/learnhubhq/learnhub-api/internal/domain"
)

// Client implements domain.MediaStorage against the media service's HTTP API:
// POST /upload with {folder, data} returns {public_id, url};
// DELETE /assets/<public_id> destroys an asset.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type uploadRequest struct {
	Folder string `json:"folder"`
	Data   string `json:"data"`
}

type uploadResponse struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

func (c *Client) Upload(ctx context.Context, folder, data string) (*domain.MediaAsset, error) {
	body, err := json.Marshal(uploadRequest{Folder: folder, Data: data})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("media upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("media upload failed: status %d: %s", resp.StatusCode, msg)
	}

	var uploaded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return nil, fmt.Errorf("media upload failed: %w", err)
	}
	return &domain.MediaAsset{PublicID: uploaded.PublicID, URL: uploaded.URL}, nil
}

func (c *Client) Destroy(ctx context.Context, publicID string) error {
	endpoint := c.baseURL + "/assets/" + url.PathEscape(publicID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("media destroy failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("media destroy failed: status %d: %s", resp.StatusCode, msg)
	}
	return nil
}
