// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library persists the preprint record store as a flat JSON file.
package library

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/DeadAt0m/arxiv-companion/pkg/types"
)

// Library is the in-memory record store, a mapping from arXiv ID to
// record. The zero value is not usable; call New or Load.
type Library struct {
	path    string
	records map[string]types.PrePrint
}

// New returns an empty library that saves to path.
func New(path string) *Library {
	return &Library{path: path, records: make(map[string]types.PrePrint)}
}

// Load reads the JSON database at path. A missing file yields an empty
// library; any other read or decode failure is an error. The path must
// end in .json.
func Load(path string) (*Library, error) {
	if strings.ToLower(filepath.Ext(path)) != ".json" {
		return nil, fmt.Errorf("database must be a .json file, got %q", path)
	}

	lib := New(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return lib, nil
		}
		return nil, fmt.Errorf("reading database %s: %w", path, err)
	}

	var records []types.PrePrint
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing database %s: %w", path, err)
	}
	for _, r := range records {
		lib.records[r.ID] = r
	}
	return lib, nil
}

// Save writes the library back to its path as a JSON array sorted by
// published date. The file is written to a temp file in the same
// directory and renamed into place.
func (l *Library) Save() error {
	data, err := json.MarshalIndent(l.Records(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling database: %w", err)
	}
	return writeAtomic(l.path, data)
}

// Path returns the database file path.
func (l *Library) Path() string { return l.path }

// Len returns the number of records.
func (l *Library) Len() int { return len(l.records) }

// Has reports whether an ID is already in the library.
func (l *Library) Has(id string) bool {
	_, ok := l.records[id]
	return ok
}

// Get returns the record for id, if present.
func (l *Library) Get(id string) (types.PrePrint, bool) {
	r, ok := l.records[id]
	return r, ok
}

// Add inserts a record, replacing any existing record with the same ID.
func (l *Library) Add(r types.PrePrint) {
	l.records[r.ID] = r
}

// IDs returns all record IDs in published order.
func (l *Library) IDs() []string {
	records := l.Records()
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}

// Records returns all records sorted by published date, ties broken by
// ID so the on-disk order is deterministic.
func (l *Library) Records() []types.PrePrint {
	records := make([]types.PrePrint, 0, len(l.records))
	for _, r := range l.records {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Published.Equal(records[j].Published) {
			return records[i].Published.Before(records[j].Published)
		}
		return records[i].ID < records[j].ID
	})
	return records
}

// Export writes a snapshot of the library to path in the given format
// ("json" or "yaml").
func (l *Library) Export(path, format string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "json":
		data, err = json.MarshalIndent(l.Records(), "", "  ")
	case "yaml":
		data, err = yaml.Marshal(l.Records())
	default:
		return fmt.Errorf("unknown export format %q (want json or yaml)", format)
	}
	if err != nil {
		return fmt.Errorf("marshaling export: %w", err)
	}
	return writeAtomic(path, data)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".library-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
