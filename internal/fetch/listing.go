// Copyright Wang Wei, 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ww/downloadgeo/internal/httputil"
)

// ListDir fetches an FTP-over-HTTPS directory listing page and returns the
// file names it links to, in page order. Directory links, absolute links,
// and the listing's own sort links are skipped. When keyword is non-empty
// only names containing it are returned.
func ListDir(client *http.Client, dirURL, userAgent, keyword string) ([]string, error) {
	req, err := http.NewRequest(http.MethodGet, dirURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httputil.DoWithRetry(context.Background(), client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dirURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, dirURL)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing listing %s: %w", dirURL, err)
	}

	var files []string
	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}
		if strings.HasSuffix(href, "/") ||
			strings.HasPrefix(href, "http") ||
			strings.HasPrefix(href, "/") ||
			strings.HasPrefix(href, "?") {
			return
		}
		if keyword != "" && !strings.Contains(href, keyword) {
			return
		}
		files = append(files, href)
	})
	return files, nil
}
