// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arxiv fetches preprint metadata from the arXiv export API.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/DeadAt0m/arxiv-companion/internal/httputil"
	"github.com/DeadAt0m/arxiv-companion/internal/ident"
	"github.com/DeadAt0m/arxiv-companion/pkg/types"
)

// apiBase is the arXiv query endpoint. Declared as a var so tests can
// substitute an httptest server.
var apiBase = "https://export.arxiv.org/api/query"

const defaultChunkSize = 10

// Client queries the arXiv export API for preprint metadata.
type Client struct {
	httpClient *http.Client
	cfg        types.ArxivConfig
}

// New returns a client using cfg. A nil-safe HTTP client is built from
// the configured timeout.
func New(cfg types.ArxivConfig) *Client {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = defaultChunkSize
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
	}
}

// Fetch retrieves metadata for the given arXiv IDs, issuing id_list
// queries in chunks with a delay between requests. IDs the API does not
// return entries for are simply absent from the result; the caller can
// diff against its input.
func (c *Client) Fetch(ctx context.Context, ids []string) ([]types.PrePrint, error) {
	var records []types.PrePrint
	for i, chunk := range chunkStrings(ids, c.cfg.ChunkSize) {
		if i > 0 && c.cfg.RequestDelay > 0 {
			select {
			case <-ctx.Done():
				return records, ctx.Err()
			case <-time.After(c.cfg.RequestDelay):
			}
		}
		batch, err := c.fetchChunk(ctx, chunk)
		if err != nil {
			return records, err
		}
		records = append(records, batch...)
	}
	return records, nil
}

func (c *Client) fetchChunk(ctx context.Context, ids []string) ([]types.PrePrint, error) {
	url := fmt.Sprintf("%s?id_list=%s&max_results=%d", apiBase, strings.Join(ids, ","), len(ids))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, 0)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	var records []types.PrePrint
	for _, entry := range feed.Entries {
		r, ok := entry.record()
		if !ok {
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

// arXiv Atom feed XML structures.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID        string     `xml:"id"`
	Title     string     `xml:"title"`
	Summary   string     `xml:"summary"`
	Published string     `xml:"published"`
	Authors   []atomAuthor `xml:"author"`
	Links     []atomLink `xml:"link"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
}

// record converts an Atom entry into a PrePrint. Entries without a
// parsable arXiv ID (the API emits an empty entry for unknown IDs) are
// skipped.
func (e atomEntry) record() (types.PrePrint, bool) {
	id, version, ok := ident.Parse(e.ID)
	if !ok {
		return types.PrePrint{}, false
	}

	r := types.PrePrint{
		ID:      id,
		Title:   collapseSpace(e.Title),
		Summary: collapseSpace(e.Summary),
		Version: version,
		URL:     ident.PDFURL(id, version),
	}

	// Prefer the PDF link reported by the feed.
	for _, l := range e.Links {
		if l.Title == "pdf" && l.Href != "" {
			r.URL = l.Href
			break
		}
	}

	for _, a := range e.Authors {
		r.Authors = append(r.Authors, strings.TrimSpace(a.Name))
	}

	if t, parseErr := time.Parse(time.RFC3339, e.Published); parseErr == nil {
		r.Published = t
	}
	return r, true
}

// collapseSpace joins the Atom feed's wrapped text onto one line.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// chunkStrings splits xs into slices of at most size elements.
func chunkStrings(xs []string, size int) [][]string {
	var chunks [][]string
	for len(xs) > size {
		chunks = append(chunks, xs[:size])
		xs = xs[size:]
	}
	if len(xs) > 0 {
		chunks = append(chunks, xs)
	}
	return chunks
}
