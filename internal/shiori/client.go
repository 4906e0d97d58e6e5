// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package shiori is a thin client for the Shiori bookmark service API.
package shiori

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/DeadAt0m/arxiv-companion/internal/httputil"
	"github.com/DeadAt0m/arxiv-companion/pkg/types"
)

// Tag is a bookmark tag.
type Tag struct {
	Name string `json:"name"`
}

// Bookmark is one saved link in Shiori.
type Bookmark struct {
	ID      int    `json:"id,omitempty"`
	URL     string `json:"url"`
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	Public  int    `json:"public"`
	Tags    []Tag  `json:"tags"`

	// CreateArchive asks the server to archive the page on creation.
	CreateArchive bool `json:"createArchive,omitempty"`
}

// StatusError reports a non-2xx response from the Shiori API.
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("shiori %s: HTTP %d", e.Op, e.Code)
}

// Client issues authenticated calls against a Shiori instance. Call
// Login before any other method.
type Client struct {
	httpClient *http.Client
	cfg        types.ShioriConfig
	session    string
}

// New returns a client for the configured Shiori instance. A trailing
// slash on the address is tolerated.
func New(cfg types.ShioriConfig) *Client {
	cfg.Address = strings.TrimSuffix(cfg.Address, "/")
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
	Owner    bool   `json:"owner"`
}

type loginResponse struct {
	Message struct {
		Session string `json:"session"`
	} `json:"message"`
}

// Login authenticates against /api/v1/auth/login and stores the session
// ID for later calls.
func (c *Client) Login(ctx context.Context) error {
	body := loginRequest{
		Username: c.cfg.Username,
		Password: c.cfg.Password,
		Remember: true,
		Owner:    true,
	}

	var out loginResponse
	if err := c.call(ctx, http.MethodPost, "/api/v1/auth/login", body, &out); err != nil {
		return err
	}
	if out.Message.Session == "" {
		return fmt.Errorf("shiori login: empty session in response")
	}
	c.session = out.Message.Session
	return nil
}

type bookmarksPage struct {
	MaxPage   int        `json:"maxPage"`
	Page      int        `json:"page"`
	Bookmarks []Bookmark `json:"bookmarks"`
}

// Bookmarks pages through GET /api/bookmarks and returns every bookmark
// on the server.
func (c *Client) Bookmarks(ctx context.Context) ([]Bookmark, error) {
	var all []Bookmark
	page, maxPage := 1, 1
	for page <= maxPage {
		var out bookmarksPage
		path := fmt.Sprintf("/api/bookmarks?keyword=&tags=&exclude=&page=%d", page)
		if err := c.call(ctx, http.MethodGet, path, nil, &out); err != nil {
			return nil, fmt.Errorf("listing page %d: %w", page, err)
		}
		all = append(all, out.Bookmarks...)
		if out.MaxPage > maxPage {
			maxPage = out.MaxPage
		}
		page++
	}
	return all, nil
}

// CreateBookmark saves a new bookmark via POST /api/bookmarks and
// returns the stored entry.
func (c *Client) CreateBookmark(ctx context.Context, b Bookmark) (Bookmark, error) {
	if b.Tags == nil {
		b.Tags = []Tag{}
	}
	var out Bookmark
	if err := c.call(ctx, http.MethodPost, "/api/bookmarks", b, &out); err != nil {
		return Bookmark{}, err
	}
	return out, nil
}

// DeleteBookmarks removes bookmarks by ID via DELETE /api/bookmarks.
func (c *Client) DeleteBookmarks(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	return c.call(ctx, http.MethodDelete, "/api/bookmarks", ids, nil)
}

// call issues one API request. A non-nil in is sent as a JSON body; a
// non-nil out receives the decoded JSON response. The session header is
// attached when present.
func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.Address+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if c.session != "" {
		req.Header.Set("X-Session-Id", c.session)
	}

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, 0)
	if err != nil {
		return fmt.Errorf("shiori %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Op: method + " " + path, Code: resp.StatusCode}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("parsing shiori response: %w", err)
		}
	}
	return nil
}
