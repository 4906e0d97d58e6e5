// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package importer extracts arXiv IDs from external bookmark exports.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/DeadAt0m/arxiv-companion/internal/ident"
)

// PocketCSV reads a getpocket.com CSV export and returns the arXiv IDs
// found in its url column, in file order and deduplicated. Rows for
// other sites are skipped.
func PocketCSV(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	urlCol := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), "url") {
			urlCol = i
			break
		}
	}
	if urlCol < 0 {
		return nil, fmt.Errorf("CSV has no url column (header: %v)", header)
	}

	var ids []string
	seen := make(map[string]bool)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}
		if urlCol >= len(rec) {
			continue
		}
		id, _, ok := ident.ParseURL(rec[urlCol])
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// IDFile reads a plain-text file of arXiv IDs split by sep and returns
// the parsed IDs, deduplicated. Entries that are not arXiv IDs are
// ignored.
func IDFile(r io.Reader, sep string) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading ID file: %w", err)
	}

	var ids []string
	seen := make(map[string]bool)
	for _, field := range strings.Split(strings.TrimRight(string(data), "\n"), sep) {
		id, _, ok := ident.Parse(field)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}
