// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DeadAt0m/arxiv-companion/internal/ident"
	"github.com/DeadAt0m/arxiv-companion/pkg/types"
)

func record(id string, version *int, url string) types.PrePrint {
	return types.PrePrint{
		ID:        id,
		Version:   version,
		Authors:   []string{"Alice Smith"},
		Title:     "Paper " + id,
		URL:       url,
		Summary:   "Summary " + id,
		Published: time.Date(2023, 1, 17, 0, 0, 0, 0, time.UTC),
	}
}

func intPtr(v int) *int { return &v }

func TestBatchDownloadsAndWritesSidecar(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "%PDF-1.5 fake body")
	}))
	defer ts.Close()

	dir := t.TempDir()
	r := record("2301.07041", intPtr(2), ts.URL+"/pdf/2301.07041v2")

	result, err := Batch(context.Background(), ts.Client(), []types.PrePrint{r},
		types.FetchConfig{Dir: dir}, io.Discard)
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if result.Downloaded != 1 || result.Failed != 0 {
		t.Fatalf("result = %+v", result)
	}

	pdfPath := filepath.Join(dir, ident.FilenameStem(r)+".pdf")
	data, err := os.ReadFile(pdfPath)
	if err != nil {
		t.Fatalf("reading PDF: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Errorf("unexpected PDF contents: %q", data)
	}

	sidecar := filepath.Join(dir, "metadata", "2301.07041v2.yaml")
	if _, err := os.Stat(sidecar); err != nil {
		t.Errorf("sidecar missing: %v", err)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".fetch-") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestBatchSkipsExisting(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, "%PDF-1.5")
	}))
	defer ts.Close()

	dir := t.TempDir()
	records := []types.PrePrint{
		record("2301.07041", intPtr(2), ts.URL+"/a"),
		record("2301.00001", nil, ts.URL+"/b"),
	}
	cfg := types.FetchConfig{Dir: dir, SkipExisting: true}

	first, err := Batch(context.Background(), ts.Client(), records, cfg, io.Discard)
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if first.Downloaded != 2 {
		t.Fatalf("first run: %+v", first)
	}

	second, err := Batch(context.Background(), ts.Client(), records, cfg, io.Discard)
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if second.Downloaded != 0 || second.Skipped != 2 {
		t.Errorf("second run: %+v", second)
	}
	if calls != 2 {
		t.Errorf("server saw %d calls, want 2", calls)
	}
}

func TestBatchRedownloadsNewVersion(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "%PDF-1.5")
	}))
	defer ts.Close()

	dir := t.TempDir()
	cfg := types.FetchConfig{Dir: dir, SkipExisting: true}

	v2 := record("2301.07041", intPtr(2), ts.URL+"/a")
	if _, err := Batch(context.Background(), ts.Client(), []types.PrePrint{v2}, cfg, io.Discard); err != nil {
		t.Fatal(err)
	}

	v3 := record("2301.07041", intPtr(3), ts.URL+"/a")
	result, err := Batch(context.Background(), ts.Client(), []types.PrePrint{v3}, cfg, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if result.Downloaded != 1 || result.Skipped != 0 {
		t.Errorf("new version run: %+v", result)
	}
}

func TestBatchContinuesAfterFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "missing") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, "%PDF-1.5")
	}))
	defer ts.Close()

	dir := t.TempDir()
	records := []types.PrePrint{
		record("2301.00001", nil, ts.URL+"/missing"),
		record("2301.00002", nil, ts.URL+"/ok"),
	}

	result, err := Batch(context.Background(), ts.Client(), records, types.FetchConfig{Dir: dir}, io.Discard)
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if result.Failed != 1 || result.Downloaded != 1 {
		t.Errorf("result = %+v", result)
	}
	if len(result.FailedIDs) != 1 || result.FailedIDs[0] != "2301.00001" {
		t.Errorf("FailedIDs = %v", result.FailedIDs)
	}
	if !result.HasFailures() {
		t.Error("HasFailures = false")
	}
}

func TestExistingPDFsIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"[2301.07041v2] Smith, A. Paper.pdf",
		"notes.txt",
		"unparsable.pdf",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	existing, err := existingPDFs(dir)
	if err != nil {
		t.Fatalf("existingPDFs: %v", err)
	}
	if len(existing) != 1 {
		t.Fatalf("existing = %v", existing)
	}
	if !existing[keyOf("2301.07041", intPtr(2))] {
		t.Error("versioned key missing")
	}
}
