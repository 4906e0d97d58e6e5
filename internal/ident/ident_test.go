// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ident

import (
	"testing"

	"github.com/DeadAt0m/arxiv-companion/pkg/types"
)

func intPtr(v int) *int { return &v }

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantID  string
		wantVer *int
		wantOK  bool
	}{
		{"bare id", "2301.07041", "2301.07041", nil, true},
		{"bare id versioned", "2301.07041v2", "2301.07041", intPtr(2), true},
		{"arxiv prefix", "arXiv:2301.07041", "2301.07041", nil, true},
		{"four digit suffix", "0704.0001", "0704.0001", nil, true},
		{"bracketed filename", "[2301.07041v3] Smith, A. A Title", "2301.07041", intPtr(3), true},
		{"abs url", "https://arxiv.org/abs/2301.07041v1", "2301.07041", intPtr(1), true},
		{"entry url", "http://arxiv.org/abs/2301.07041v2", "2301.07041", intPtr(2), true},
		{"whitespace trimmed", "  2301.07041  ", "2301.07041", nil, true},
		{"not an id", "not-an-id", "", nil, false},
		{"empty", "", "", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ver, ok := Parse(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("Parse(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if id != tt.wantID {
				t.Errorf("Parse(%q) id = %q, want %q", tt.input, id, tt.wantID)
			}
			if !versionEqual(ver, tt.wantVer) {
				t.Errorf("Parse(%q) version = %v, want %v", tt.input, deref(ver), deref(tt.wantVer))
			}
		})
	}
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantID string
		wantOK bool
	}{
		{"bare id", "2301.07041", "2301.07041", true},
		{"abs url", "https://arxiv.org/abs/2301.07041", "2301.07041", true},
		{"pdf url", "https://arxiv.org/pdf/2301.07041v2", "2301.07041", true},
		{"pdf url with extension", "http://arxiv.org/pdf/2301.07041v2.pdf", "2301.07041", true},
		{"www host", "https://www.arxiv.org/abs/2301.07041", "2301.07041", true},
		{"unrelated url", "https://example.com/2301.07041", "", false},
		{"page mentioning an id", "https://example.com/blog/about-2301.07041.html", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, _, ok := ParseURL(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseURL(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if id != tt.wantID {
				t.Errorf("ParseURL(%q) id = %q, want %q", tt.input, id, tt.wantID)
			}
		})
	}
}

func TestPDFURL(t *testing.T) {
	if got := PDFURL("2301.07041", nil); got != arxivPDFBase+"2301.07041" {
		t.Errorf("PDFURL unversioned = %q", got)
	}
	if got := PDFURL("2301.07041", intPtr(2)); got != arxivPDFBase+"2301.07041v2" {
		t.Errorf("PDFURL versioned = %q", got)
	}
}

func TestPrettyAuthors(t *testing.T) {
	tests := []struct {
		name    string
		authors []string
		want    string
	}{
		{"single", []string{"Alice Smith"}, "Smith, A."},
		{"two", []string{"Alice Smith", "Bob Jones"}, "Smith, A., Jones, B."},
		{"three", []string{"Alice Smith", "Bob Jones", "Carol White"}, "Smith, A., Jones, B., White, C."},
		{"four truncated", []string{"Alice Smith", "Bob Jones", "Carol White", "Dave Brown"}, "Smith, A., Jones, B., White, C., etc."},
		{"middle names", []string{"John von Neumann"}, "Neumann, J."},
		{"none", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PrettyAuthors(tt.authors); got != tt.want {
				t.Errorf("PrettyAuthors(%v) = %q, want %q", tt.authors, got, tt.want)
			}
		})
	}
}

func TestFilenameStem(t *testing.T) {
	v := 2
	p := types.PrePrint{
		ID:      "2301.07041",
		Version: &v,
		Authors: []string{"Alice Smith", "Bob Jones"},
		Title:   "Attention: A Survey/Review.",
	}
	want := "[2301.07041v2] Smith, A., Jones, B. Attention. A Survey Review"
	if got := FilenameStem(p); got != want {
		t.Errorf("FilenameStem = %q, want %q", got, want)
	}

	// The stem must round-trip through Parse so on-disk scans can
	// recover the versioned ID.
	id, ver, ok := Parse(FilenameStem(p))
	if !ok || id != p.ID || ver == nil || *ver != v {
		t.Errorf("Parse(FilenameStem) = %q, %v, %v", id, deref(ver), ok)
	}
}

func versionEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func deref(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
