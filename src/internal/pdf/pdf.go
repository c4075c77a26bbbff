// Package pdf finds DOIs printed in PDF files.
package pdf

import (
	"errors"
	"fmt"

	"github.com/ledongthuc/pdf"

	"doiproxy/src/internal/doi"
)

// DefaultPages is how many leading pages FindDOI searches; the DOI is
// nearly always on the first page.
const DefaultPages = 3

// ErrNoDOI is returned when no DOI-shaped text is found.
var ErrNoDOI = errors.New("pdf: no DOI found")

// FindDOI opens the PDF at path and returns the first DOI found in its first
// maxPages pages (DefaultPages when maxPages <= 0).
func FindDOI(path string, maxPages int) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("pdf: opening %s: %w", path, err)
	}
	defer f.Close()

	if maxPages <= 0 {
		maxPages = DefaultPages
	}
	pages := make([]string, 0, maxPages)
	for i := 1; i <= r.NumPage() && i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, text)
	}
	return findInPages(pages)
}

// findInPages returns the first DOI across pages in order.
func findInPages(pages []string) (string, error) {
	for _, text := range pages {
		if d := doi.Find(text); d != "" {
			return d, nil
		}
	}
	return "", ErrNoDOI
}
