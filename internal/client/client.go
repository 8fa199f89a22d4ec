// Package client provides a Go client for the forumkit API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/forumkit/forumkit/internal/model"
)

// Client is a forumkit API client. Key is the bearer credential sent with
// every request: the master key, a thread-scoped API key, or a narrow share
// token.
type Client struct {
	BaseURL    string
	Key        string
	HTTPClient *http.Client
}

func New(baseURL, key string) *Client {
	return &Client{
		BaseURL:    baseURL,
		Key:        key,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (c *Client) do(method, path string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Key != "" {
		req.Header.Set("Authorization", "Bearer "+c.Key)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return &apiError{Status: resp.StatusCode, Message: payload.Error}
	}
	if dest == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

// StatusCode unwraps the HTTP status from an API error, or 0.
func StatusCode(err error) int {
	if e, ok := err.(*apiError); ok {
		return e.Status
	}
	return 0
}

func (c *Client) ListThreads() ([]model.Thread, error) {
	var threads []model.Thread
	err := c.do(http.MethodGet, "/api/threads", nil, &threads)
	return threads, err
}

func (c *Client) CreateThread(title, creator, initialPost string) (model.Thread, error) {
	var thread model.Thread
	err := c.do(http.MethodPost, "/api/threads", map[string]string{
		"title":        title,
		"creator":      creator,
		"initial_post": initialPost,
	}, &thread)
	return thread, err
}

func (c *Client) GetThread(id int64) (model.Thread, error) {
	var thread model.Thread
	err := c.do(http.MethodGet, fmt.Sprintf("/api/threads/%d", id), nil, &thread)
	return thread, err
}

func (c *Client) DeleteThread(id int64) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/api/threads/%d", id), nil, nil)
}

func (c *Client) CreatePost(threadID int64, author, text string) (model.Post, error) {
	var post model.Post
	err := c.do(http.MethodPost, fmt.Sprintf("/api/threads/%d/posts", threadID), map[string]string{
		"author": author,
		"text":   text,
	}, &post)
	return post, err
}

func (c *Client) GetPost(id int64) (model.Post, error) {
	var post model.Post
	err := c.do(http.MethodGet, fmt.Sprintf("/api/posts/%d", id), nil, &post)
	return post, err
}

// LatestPosts polls posts strictly newer than the after cursor.
func (c *Client) LatestPosts(threadID int64, limit int, after int64) ([]model.Post, int64, error) {
	var resp struct {
		Posts  []model.Post `json:"posts"`
		Cursor int64        `json:"cursor"`
	}
	path := fmt.Sprintf("/api/threads/latest/%d?limit=%d&after=%d", threadID, limit, after)
	err := c.do(http.MethodGet, path, nil, &resp)
	return resp.Posts, resp.Cursor, err
}

func (c *Client) CreateDocument(threadID int64, title, docType string, content any) (model.Document, error) {
	var doc model.Document
	err := c.do(http.MethodPost, "/api/documents", map[string]any{
		"thread_id": threadID,
		"title":     title,
		"type":      docType,
		"content":   content,
	}, &doc)
	return doc, err
}

func (c *Client) CreateWebhook(threadID int64, url, secret string) (model.Webhook, error) {
	var hook model.Webhook
	err := c.do(http.MethodPost, fmt.Sprintf("/api/threads/%d/webhooks", threadID), map[string]string{
		"url":     url,
		"api_key": secret,
	}, &hook)
	return hook, err
}

func (c *Client) CreateAPIKey(threadID int64, name string, perms model.Permissions) (model.APIKey, error) {
	var key model.APIKey
	err := c.do(http.MethodPost, fmt.Sprintf("/api/threads/%d/keys", threadID), map[string]any{
		"key_name":    name,
		"permissions": perms,
	}, &key)
	return key, err
}

// CreateShare generates (or rotates) the thread's share link and returns
// the narrow credential.
func (c *Client) CreateShare(threadID int64) (string, error) {
	var resp struct {
		Credential string `json:"credential"`
	}
	err := c.do(http.MethodPost, fmt.Sprintf("/api/threads/%d/share", threadID), nil, &resp)
	return resp.Credential, err
}
