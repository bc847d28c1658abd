// Copyright Wang Wei, 2026. All rights reserved.

// Package info fetches the GEO accession display page and prints a
// human-readable summary of its description fields (title, organism,
// samples, and so on).
package info

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ww/downloadgeo/internal/httputil"
	"github.com/ww/downloadgeo/pkg/types"
)

// accViewBase is the GEO accession display endpoint. Declared as a var so
// tests can substitute an httptest server.
var accViewBase = "https://www.ncbi.nlm.nih.gov/geo/query/acc.cgi"

const separator = "======================================================================"

// PageURL returns the accession display URL, attaching the NCBI API key
// when one is configured.
func PageURL(accession string, cfg types.InfoConfig) string {
	q := url.Values{}
	q.Set("acc", accession)
	if cfg.APIKey != "" {
		q.Set("api_key", cfg.APIKey)
	}
	return accViewBase + "?" + q.Encode()
}

// Show fetches the accession page and writes its description fields to w.
// The page lays summaries out as table rows with a label cell and a value
// cell; nested value tables (e.g. the samples list) are flattened with a
// " | " separator.
func Show(client *http.Client, accession string, cfg types.InfoConfig, w io.Writer) error {
	req, err := http.NewRequest(http.MethodGet, PageURL(accession, cfg), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(context.Background(), client, req, 0)
	if err != nil {
		return fmt.Errorf("fetching info for %s: %w", accession, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d fetching info for %s", resp.StatusCode, accession)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fmt.Errorf("parsing info page for %s: %w", accession, err)
	}

	fmt.Fprintf(w, "\nGEO information for %s\n%s\n", accession, separator)

	found := false
	doc.Find(`tr[valign="top"]`).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		key := collapse(cells.Eq(0).Text())
		valCell := cells.Eq(1)

		var val string
		if valCell.Find("table").Length() > 0 {
			var parts []string
			valCell.Find("td").Each(func(_ int, cell *goquery.Selection) {
				if text := collapse(cell.Text()); text != "" {
					parts = append(parts, text)
				}
			})
			val = strings.Join(parts, " | ")
		} else {
			val = collapse(valCell.Text())
		}

		if key != "" && val != "" {
			fmt.Fprintf(w, "\n%s\n%s\n", key, val)
			found = true
		}
	})

	if !found {
		fmt.Fprintln(w, "no structured GEO description fields found")
	}
	fmt.Fprintln(w, separator)
	return nil
}

// collapse trims s and squeezes internal whitespace runs to single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
