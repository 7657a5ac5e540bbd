// Package client talks to the remote item store over HTTP/JSON. Every
// response follows the {ok, error} envelope; ok:false or a non-2xx status
// is reported as an error so callers can roll their optimistic state back.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yazicigil/RateStuff-sub000/internal/feed"
	"github.com/yazicigil/RateStuff-sub000/internal/models"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken swaps the session token, e.g. after re-authentication.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Authenticated reports whether a session token is present.
func (c *Client) Authenticated() bool {
	return c.token != ""
}

// envelope is the common response wrapper.
type envelope struct {
	Ok          bool            `json:"ok"`
	Error       string          `json:"error,omitempty"`
	Items       []models.Item   `json:"items,omitempty"`
	Item        *models.Item    `json:"item,omitempty"`
	Rating      *models.Rating  `json:"rating,omitempty"`
	Comment     *models.Comment `json:"comment,omitempty"`
	Suggestions []string        `json:"suggestions,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*envelope, error) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RemoteError{Err: err}
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrAuthRequired
	case resp.StatusCode == http.StatusConflict:
		return nil, &ConflictError{Message: env.Error}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &RemoteError{Status: resp.StatusCode, Message: env.Error}
	case decodeErr != nil:
		return nil, &RemoteError{Status: resp.StatusCode, Err: decodeErr}
	case !env.Ok:
		return nil, &RemoteError{Status: resp.StatusCode, Message: env.Error}
	}
	return &env, nil
}

// ListItems fetches the feed. The server pre-sorts, but callers are free to
// re-sort locally with the same engine.
func (c *Client) ListItems(ctx context.Context, query string, order feed.Order, tags []string) ([]models.Item, error) {
	q := url.Values{}
	q.Set("order", string(order))
	if query != "" {
		q.Set("q", query)
	}
	if len(tags) > 0 {
		q.Set("tags", strings.Join(tags, ","))
	}
	env, err := c.do(ctx, http.MethodGet, "/api/items?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	return env.Items, nil
}

// CreateItem submits a new item. A duplicate name comes back as
// *ConflictError.
func (c *Client) CreateItem(ctx context.Context, item models.Item) (*models.Item, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/items", item)
	if err != nil {
		return nil, err
	}
	return env.Item, nil
}

// UpsertRating sets the caller's rating on an item.
func (c *Client) UpsertRating(ctx context.Context, itemID string, value int) (*models.Rating, error) {
	env, err := c.do(ctx, http.MethodPut, "/api/items/"+itemID+"/rating", map[string]int{"value": value})
	if err != nil {
		return nil, err
	}
	return env.Rating, nil
}

// SetVote sets the caller's vote on a comment, -1, 0 or 1.
func (c *Client) SetVote(ctx context.Context, commentID string, value int) error {
	_, err := c.do(ctx, http.MethodPost, "/api/comments/"+commentID+"/vote", map[string]int{"value": value})
	return err
}

// ToggleSaved adds (POST) or removes (DELETE) the saved mark.
func (c *Client) ToggleSaved(ctx context.Context, itemID string, saved bool) error {
	method := http.MethodPost
	if !saved {
		method = http.MethodDelete
	}
	_, err := c.do(ctx, method, "/api/items/"+itemID+"/saved", nil)
	return err
}

// ReportItem files a report against an item.
func (c *Client) ReportItem(ctx context.Context, itemID, reason string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/items/"+itemID+"/report", map[string]string{"reason": reason})
	return err
}

type commentRequest struct {
	Text   string   `json:"text"`
	Rating int      `json:"rating"`
	Images []string `json:"images,omitempty"`
}

// UpsertComment creates or replaces the caller's comment on an item.
func (c *Client) UpsertComment(ctx context.Context, itemID, text string, rating int, images []string) (*models.Comment, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/items/"+itemID+"/comments", commentRequest{Text: text, Rating: rating, Images: images})
	if err != nil {
		return nil, err
	}
	return env.Comment, nil
}

// EditComment updates the caller's comment text and rating.
func (c *Client) EditComment(ctx context.Context, commentID, text string, rating int) (*models.Comment, error) {
	env, err := c.do(ctx, http.MethodPut, "/api/comments/"+commentID, commentRequest{Text: text, Rating: rating})
	if err != nil {
		return nil, err
	}
	return env.Comment, nil
}

// DeleteComment removes the caller's comment.
func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/comments/"+commentID, nil)
	return err
}

// SearchSuggestions fetches deduplicated name completions for a prefix.
func (c *Client) SearchSuggestions(ctx context.Context, prefix string, limit int) ([]string, error) {
	q := url.Values{}
	q.Set("q", prefix)
	q.Set("limit", strconv.Itoa(limit))
	env, err := c.do(ctx, http.MethodGet, "/api/suggestions?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	return env.Suggestions, nil
}
