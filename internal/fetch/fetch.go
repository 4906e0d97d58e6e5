// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads preprint PDFs into a local directory.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/DeadAt0m/arxiv-companion/internal/httputil"
	"github.com/DeadAt0m/arxiv-companion/internal/ident"
	"github.com/DeadAt0m/arxiv-companion/pkg/types"
)

const metadataDir = "metadata"

// BatchResult holds the outcome of a batch download run.
type BatchResult struct {
	Downloaded int
	Skipped    int
	Failed     int

	// FailedIDs lists the records that could not be downloaded.
	FailedIDs []string
}

// Total returns the total number of records processed.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// HasFailures reports whether any downloads failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// versionKey identifies a preprint at a specific version. Version -1
// stands for "unversioned".
type versionKey struct {
	id  string
	ver int
}

func keyOf(id string, version *int) versionKey {
	k := versionKey{id: id, ver: -1}
	if version != nil {
		k.ver = *version
	}
	return k
}

// existingPDFs scans dir for previously downloaded PDFs and returns the
// versioned IDs recovered from their filenames.
func existingPDFs(dir string) (map[versionKey]bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[versionKey]bool{}, nil
		}
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	existing := make(map[versionKey]bool)
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if id, version, ok := ident.Parse(stem); ok {
			existing[keyOf(id, version)] = true
		}
	}
	return existing, nil
}

// Batch downloads the given records into cfg.Dir, skipping IDs already
// present (at the same version) when cfg.SkipExisting is set. It
// continues after individual failures and applies a delay between
// consecutive downloads.
func Batch(ctx context.Context, client *http.Client, records []types.PrePrint, cfg types.FetchConfig, w io.Writer) (BatchResult, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return BatchResult{}, fmt.Errorf("creating directory %s: %w", cfg.Dir, err)
	}

	existing := map[versionKey]bool{}
	if cfg.SkipExisting {
		var err error
		existing, err = existingPDFs(cfg.Dir)
		if err != nil {
			return BatchResult{}, err
		}
	}

	var result BatchResult
	for _, r := range records {
		if existing[keyOf(r.ID, r.Version)] {
			result.Skipped++
			continue
		}

		if result.Downloaded > 0 && cfg.DownloadDelay > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(cfg.DownloadDelay):
			}
		}

		if err := fetchOne(ctx, client, r, cfg); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", r.ID, err)
			result.Failed++
			result.FailedIDs = append(result.FailedIDs, r.ID)
			continue
		}
		result.Downloaded++
		fmt.Fprintf(w, "saved:   %s\n", ident.FilenameStem(r))
	}

	fmt.Fprintf(w, "\nDownload summary: %d downloaded, %d skipped, %d failed (total: %d)\n",
		result.Downloaded, result.Skipped, result.Failed, result.Total())
	return result, nil
}

// fetchOne downloads one PDF to a temp file, renames it into place, and
// writes a YAML metadata sidecar under metadata/.
func fetchOne(ctx context.Context, client *http.Client, r types.PrePrint, cfg types.FetchConfig) error {
	url := r.URL
	if url == "" {
		url = ident.PDFURL(r.ID, r.Version)
	}

	destPath := filepath.Join(cfg.Dir, ident.FilenameStem(r)+".pdf")
	if err := downloadFile(ctx, client, url, destPath, cfg); err != nil {
		return err
	}

	if err := writeSidecar(r, cfg.Dir); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}
	return nil
}

// downloadFile fetches url to destPath using a temporary file. It sets
// User-Agent and requests PDF via the Accept header; the HTTP client
// handles redirect following.
func downloadFile(ctx context.Context, client *http.Client, url, destPath string, cfg types.FetchConfig) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// writeSidecar records the preprint metadata next to its PDF, named by
// versioned ID so re-downloads overwrite rather than accumulate.
func writeSidecar(r types.PrePrint, dir string) error {
	metaDir := filepath.Join(dir, metadataDir)
	if err := os.MkdirAll(metaDir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", metaDir, err)
	}

	name := r.ID
	if r.Version != nil {
		name = fmt.Sprintf("%sv%d", name, *r.Version)
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	return os.WriteFile(filepath.Join(metaDir, name+".yaml"), data, 0o644)
}
