// Copyright Wang Wei, 2026. All rights reserved.

package types

import "time"

// SeriesFile describes one downloaded file belonging to a series.
type SeriesFile struct {
	// Name is the file name as published on the GEO FTP server.
	Name string `json:"name" yaml:"name"`

	// SourceURL is the URL from which the file was downloaded.
	SourceURL string `json:"source_url" yaml:"source_url"`

	// Size is the downloaded size in bytes.
	Size int64 `json:"size" yaml:"size"`
}

// Series records the outcome of fetching one GEO series. It is written as
// a YAML sidecar next to the downloaded files.
type Series struct {
	// Accession is the normalized GSE accession (e.g. "GSE76275").
	Accession string `json:"accession" yaml:"accession"`

	// Mode names which file categories were requested: "matrix", "raw", or "both".
	Mode string `json:"mode" yaml:"mode"`

	// FetchedAt is the time the fetch completed.
	FetchedAt time.Time `json:"fetched_at" yaml:"fetched_at"`

	// Files lists the files downloaded in this run. Files that already
	// existed on disk are not repeated here.
	Files []SeriesFile `json:"files" yaml:"files"`
}
