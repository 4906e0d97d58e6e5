// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ident parses and formats arXiv identifiers.
package ident

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/DeadAt0m/arxiv-companion/pkg/types"
)

// arxivPDFBase is the arXiv PDF endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivPDFBase = "https://arxiv.org/pdf/"

// loosePattern finds an arXiv ID anywhere in a string: bare IDs,
// "arXiv:2301.07041v2", bracketed download filenames
// ("[2301.07041v2] Smith, A. Some Title"), and Atom entry URLs.
var loosePattern = regexp.MustCompile(`(?:^|[^\d.])(\d{4}\.\d{4,5})(?:v(\d+))?`)

// urlPattern matches either a bare ID or an arxiv.org abs/pdf URL,
// anchored at both ends. Used when scanning bookmark URLs so that
// arbitrary pages merely mentioning an ID are not mistaken for papers.
var urlPattern = regexp.MustCompile(`^(?:https?://(?:www\.)?arxiv\.org/(?:abs|pdf)/)?(\d{4}\.\d{4,5})(?:v(\d+))?(?:\.pdf)?$`)

// Parse extracts an arXiv ID and optional version from s, matching
// loosely (prefixes, brackets and surrounding text are ignored).
func Parse(s string) (id string, version *int, ok bool) {
	return submatch(loosePattern.FindStringSubmatch(strings.TrimSpace(s)))
}

// ParseURL extracts an arXiv ID from a bare ID or an arxiv.org URL.
// Non-arXiv URLs return ok == false.
func ParseURL(s string) (id string, version *int, ok bool) {
	return submatch(urlPattern.FindStringSubmatch(strings.TrimSpace(s)))
}

func submatch(m []string) (string, *int, bool) {
	if m == nil {
		return "", nil, false
	}
	var version *int
	if m[2] != "" {
		v, err := strconv.Atoi(m[2])
		if err == nil {
			version = &v
		}
	}
	return m[1], version, true
}

// PDFURL returns the PDF download URL for an ID, pinned to a version
// when one is given.
func PDFURL(id string, version *int) string {
	if version != nil {
		return fmt.Sprintf("%s%sv%d", arxivPDFBase, id, *version)
	}
	return arxivPDFBase + id
}

// titleSanitizer maps characters that are awkward in filenames.
var titleSanitizer = strings.NewReplacer(":", ".", "\t", " ", "/", " ", "\n", "")

// FilenameStem returns the filesystem name (without extension) used for
// a downloaded PDF: "[<id>v<ver>] <authors> <title>". The stem embeds
// the versioned ID so Parse can recover it from directory listings.
func FilenameStem(p types.PrePrint) string {
	name := p.ID
	if p.Version != nil {
		name = fmt.Sprintf("%sv%d", name, *p.Version)
	}
	title := strings.TrimSuffix(titleSanitizer.Replace(p.Title), ".")
	return fmt.Sprintf("[%s] %s %s", name, PrettyAuthors(p.Authors), title)
}

// PrettyAuthors renders an author list as "Surname, F." entries,
// truncated to three with "etc." appended when there are more.
func PrettyAuthors(authors []string) string {
	shown := authors
	if len(shown) > 3 {
		shown = shown[:3]
	}
	parts := make([]string, 0, len(shown)+1)
	for _, a := range shown {
		parts = append(parts, standardizeAuthor(a))
	}
	if len(authors) > 3 {
		parts = append(parts, "etc.")
	}
	return strings.Join(parts, ", ")
}

// standardizeAuthor turns "John von Neumann" into "Neumann, J.".
func standardizeAuthor(author string) string {
	fields := strings.Fields(author)
	if len(fields) == 0 {
		return ""
	}
	surname := fields[len(fields)-1]
	surname = strings.ToUpper(surname[:1]) + surname[1:]
	initial := strings.ToUpper(fields[0][:1])
	return fmt.Sprintf("%s, %s.", surname, initial)
}
