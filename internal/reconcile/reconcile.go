// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reconcile keeps the local library and the Shiori bookmark
// service in agreement. Entries are matched by arXiv ID, so running any
// direction twice changes nothing the second time.
package reconcile

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/DeadAt0m/arxiv-companion/internal/ident"
	"github.com/DeadAt0m/arxiv-companion/internal/library"
	"github.com/DeadAt0m/arxiv-companion/internal/shiori"
	"github.com/DeadAt0m/arxiv-companion/pkg/types"
)

// MetadataFetcher retrieves preprint metadata for a set of arXiv IDs.
// *arxiv.Client satisfies this; tests use a stub.
type MetadataFetcher interface {
	Fetch(ctx context.Context, ids []string) ([]types.PrePrint, error)
}

// BookmarkService is the remote side of the reconciliation.
// *shiori.Client satisfies this; tests use a stub.
type BookmarkService interface {
	Bookmarks(ctx context.Context) ([]shiori.Bookmark, error)
	CreateBookmark(ctx context.Context, b shiori.Bookmark) (shiori.Bookmark, error)
	DeleteBookmarks(ctx context.Context, ids []int) error
}

// Result summarizes one reconciliation pass.
type Result struct {
	// Added counts records pulled into the local library.
	Added int
	// Created counts bookmarks uploaded to the service.
	Created int
	// Deleted counts bookmarks pruned from the service.
	Deleted int
	// Unchanged counts entries already present on both sides.
	Unchanged int
	// Failed counts per-item failures that did not abort the pass.
	Failed int
}

// HasFailures reports whether any items failed.
func (r Result) HasFailures() bool { return r.Failed > 0 }

// merge folds another pass summary into r.
func (r *Result) merge(o Result) {
	r.Added += o.Added
	r.Created += o.Created
	r.Deleted += o.Deleted
	r.Unchanged += o.Unchanged
	r.Failed += o.Failed
}

// remoteIndex maps arXiv IDs found in bookmark URLs to bookmark IDs.
// Bookmarks that are not arXiv links are ignored.
func remoteIndex(bookmarks []shiori.Bookmark) map[string]int {
	index := make(map[string]int)
	for _, b := range bookmarks {
		if id, _, ok := ident.ParseURL(b.URL); ok {
			index[id] = b.ID
		}
	}
	return index
}

// Pull scans the service's bookmarks for arXiv links absent from the
// library, fetches their metadata, and adds them. The caller saves the
// library afterwards.
func Pull(ctx context.Context, svc BookmarkService, fetcher MetadataFetcher, lib *library.Library, w io.Writer) (Result, error) {
	bookmarks, err := svc.Bookmarks(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("listing bookmarks: %w", err)
	}

	var result Result
	var missing []string
	for id := range remoteIndex(bookmarks) {
		if lib.Has(id) {
			result.Unchanged++
			continue
		}
		missing = append(missing, id)
	}
	sort.Strings(missing)

	if len(missing) == 0 {
		fmt.Fprintln(w, "pull: nothing new on the service")
		return result, nil
	}

	records, err := fetcher.Fetch(ctx, missing)
	if err != nil {
		return result, fmt.Errorf("fetching metadata: %w", err)
	}

	fetched := make(map[string]bool, len(records))
	for _, r := range records {
		lib.Add(r)
		fetched[r.ID] = true
		result.Added++
		fmt.Fprintf(w, "pulled:  %s  %s\n", r.ID, r.Title)
	}
	for _, id := range missing {
		if !fetched[id] {
			fmt.Fprintf(w, "failed:  %s (no metadata returned)\n", id)
			result.Failed++
		}
	}
	return result, nil
}

// Push uploads library records that have no bookmark on the service
// yet. Remote entries are listed first so existing bookmarks are never
// duplicated; a second Push creates nothing.
func Push(ctx context.Context, svc BookmarkService, lib *library.Library, w io.Writer) (Result, error) {
	bookmarks, err := svc.Bookmarks(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("listing bookmarks: %w", err)
	}
	remote := remoteIndex(bookmarks)

	var result Result
	for _, r := range lib.Records() {
		if _, ok := remote[r.ID]; ok {
			result.Unchanged++
			continue
		}
		_, err := svc.CreateBookmark(ctx, shiori.Bookmark{
			URL:           r.AbsURL(),
			Title:         r.Title,
			Excerpt:       r.Summary,
			Public:        1,
			CreateArchive: true,
		})
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", r.ID, err)
			result.Failed++
			continue
		}
		result.Created++
		fmt.Fprintf(w, "pushed:  %s  %s\n", r.ID, r.Title)
	}
	return result, nil
}

// Prune deletes arXiv bookmarks whose ID is no longer in the library.
// Bookmarks for other sites are left alone.
func Prune(ctx context.Context, svc BookmarkService, lib *library.Library, w io.Writer) (Result, error) {
	bookmarks, err := svc.Bookmarks(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("listing bookmarks: %w", err)
	}

	var result Result
	var stale []int
	for arxivID, bookmarkID := range remoteIndex(bookmarks) {
		if lib.Has(arxivID) {
			result.Unchanged++
			continue
		}
		stale = append(stale, bookmarkID)
		fmt.Fprintf(w, "pruning: %s (bookmark %d)\n", arxivID, bookmarkID)
	}
	sort.Ints(stale)

	if len(stale) == 0 {
		return result, nil
	}
	if err := svc.DeleteBookmarks(ctx, stale); err != nil {
		result.Failed += len(stale)
		return result, fmt.Errorf("deleting bookmarks: %w", err)
	}
	result.Deleted = len(stale)
	return result, nil
}

// Sync runs Pull then Push, and Prune when asked. It keeps going after
// per-item failures and reports them in the combined result.
func Sync(ctx context.Context, svc BookmarkService, fetcher MetadataFetcher, lib *library.Library, prune bool, w io.Writer) (Result, error) {
	var total Result

	pulled, err := Pull(ctx, svc, fetcher, lib, w)
	total.merge(pulled)
	if err != nil {
		return total, err
	}

	pushed, err := Push(ctx, svc, lib, w)
	total.merge(pushed)
	if err != nil {
		return total, err
	}

	if prune {
		pruned, err := Prune(ctx, svc, lib, w)
		total.merge(pruned)
		if err != nil {
			return total, err
		}
	}

	fmt.Fprintf(w, "\nSync summary: %d pulled, %d pushed, %d pruned, %d unchanged, %d failed\n",
		total.Added, total.Created, total.Deleted, total.Unchanged, total.Failed)
	return total, nil
}
