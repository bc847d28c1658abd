// Package fetch downloads GEO series files by GSE accession: series-matrix
// files from the matrix/ directory and raw supplementary files from suppl/.
// File sets are discovered from the server's directory listing, falling back
// to the well-known direct URLs when the listing is unavailable.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/ww/downloadgeo/internal/extract"
	"github.com/ww/downloadgeo/internal/httputil"
	"github.com/ww/downloadgeo/pkg/types"
)

// BatchResult holds the outcome of a batch fetch run.
type BatchResult struct {
	Fetched int
	Skipped int
	Failed  int
	Series  []*types.Series
}

// Total returns the total number of accessions processed.
func (r BatchResult) Total() int {
	return r.Fetched + r.Skipped + r.Failed
}

// HasFailures reports whether any accessions failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// category describes one file group to fetch for a series.
type category struct {
	dirURL   string
	keyword  string
	fallback string
}

// FetchSeries downloads the requested file categories for one accession into
// cfg.OutDir/<accession>. Files already present on disk are not downloaded
// again. The skipped return value reports that every requested file already
// existed. A per-file failure does not stop the remaining files; FetchSeries
// returns an error when any file failed.
func FetchSeries(client *http.Client, accession string, mode Mode, cfg types.FetchConfig, w io.Writer) (series *types.Series, skipped bool, err error) {
	destDir := filepath.Join(cfg.OutDir, accession)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, false, fmt.Errorf("creating directory %s: %w", destDir, err)
	}

	var categories []category
	if mode.WantsRaw() {
		categories = append(categories, category{
			dirURL:   SupplDirURL(accession),
			fallback: RawFallbackName(accession),
		})
	}
	if mode.WantsMatrix() {
		categories = append(categories, category{
			dirURL:   MatrixDirURL(accession),
			keyword:  "series_matrix",
			fallback: MatrixFallbackName(accession),
		})
	}

	series = &types.Series{Accession: accession, Mode: mode.String()}
	var downloaded, failed int

	for _, cat := range categories {
		names, listErr := ListDir(client, cat.dirURL, cfg.UserAgent, cat.keyword)
		if listErr != nil || len(names) == 0 {
			fmt.Fprintf(w, "listing unavailable at %s, trying direct URL\n", cat.dirURL)
			names = []string{cat.fallback}
		}

		for _, name := range names {
			dest := filepath.Join(destDir, name)
			fileURL := cat.dirURL + name

			if _, statErr := os.Stat(dest); statErr == nil {
				fmt.Fprintf(w, "exists: %s (skipped)\n", name)
			} else {
				fmt.Fprintf(w, "downloading: %s\n", name)
				size, dlErr := downloadFile(client, fileURL, dest, cfg.UserAgent)
				if dlErr != nil {
					fmt.Fprintf(w, "failed: %s (%v)\n", name, dlErr)
					failed++
					continue
				}
				downloaded++
				series.Files = append(series.Files, types.SeriesFile{
					Name:      name,
					SourceURL: fileURL,
					Size:      size,
				})
			}

			if cfg.Extract {
				if exErr := extract.File(dest, w); exErr != nil {
					fmt.Fprintf(w, "failed: extracting %s (%v)\n", name, exErr)
					failed++
				}
			}
		}
	}

	if downloaded > 0 && failed == 0 {
		series.FetchedAt = time.Now().UTC()
		sidecar := filepath.Join(destDir, accession+".yaml")
		if err := writeSidecar(series, sidecar); err != nil {
			return nil, false, fmt.Errorf("writing record for %s: %w", accession, err)
		}
	}

	if failed > 0 {
		return series, false, fmt.Errorf("%d file(s) failed", failed)
	}
	return series, downloaded == 0, nil
}

// Batch processes multiple accessions sequentially, printing per-item status
// and returning a summary. It continues after individual failures and
// applies a delay between consecutive accessions.
func Batch(client *http.Client, accessions []string, mode Mode, cfg types.FetchConfig, w io.Writer) BatchResult {
	var result BatchResult
	for i, accession := range accessions {
		if i > 0 && cfg.DownloadDelay > 0 {
			time.Sleep(cfg.DownloadDelay)
		}
		fmt.Fprintf(w, "\n[%s] fetching %s files\n", accession, mode)
		series, wasSkipped, err := FetchSeries(client, accession, mode, cfg, w)
		if err != nil {
			fmt.Fprintf(w, "failed: %s (%v)\n", accession, err)
			result.Failed++
			continue
		}
		if wasSkipped {
			result.Skipped++
		} else {
			result.Fetched++
		}
		result.Series = append(result.Series, series)
	}
	fmt.Fprintf(w, "\nBatch summary: %d fetched, %d skipped, %d failed (total: %d)\n",
		result.Fetched, result.Skipped, result.Failed, result.Total())
	return result
}

// downloadFile streams url to destPath using a temporary file that is
// renamed into place on success, so an interrupted download never leaves a
// truncated file under the final name.
func downloadFile(client *http.Client, url, destPath, userAgent string) (int64, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httputil.DoWithRetry(context.Background(), client, req, 0)
	if err != nil {
		return 0, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".downloadgeo-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	n, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("renaming temp file: %w", err)
	}
	return n, nil
}

// writeSidecar writes the Series record to a YAML file next to the downloads.
func writeSidecar(series *types.Series, path string) error {
	data, err := yaml.Marshal(series)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
