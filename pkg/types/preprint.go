// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for arxiv-companion.
package types

import "time"

// PrePrint is one library record describing a single arXiv preprint.
// JSON field names match the on-disk database produced by earlier
// versions of the tool, so an existing arxiv_db.json loads unchanged.
type PrePrint struct {
	// ID is the bare arXiv identifier (e.g. "2301.07041").
	ID string `json:"aid" yaml:"aid"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Title is the paper title with newlines collapsed to spaces.
	Title string `json:"title" yaml:"title"`

	// URL is the PDF download URL reported by the arXiv API.
	URL string `json:"url" yaml:"url"`

	// Summary is the abstract with newlines collapsed to spaces.
	Summary string `json:"summary" yaml:"summary"`

	// Published is the first-submission timestamp.
	Published time.Time `json:"published" yaml:"published"`

	// Version is the preprint version, when known (nil otherwise).
	Version *int `json:"version,omitempty" yaml:"version,omitempty"`
}

// AbsURL returns the canonical abstract page URL for the record.
// Bookmarks are stored against this URL rather than the PDF endpoint.
func (p PrePrint) AbsURL() string {
	return "https://arxiv.org/abs/" + p.ID
}
