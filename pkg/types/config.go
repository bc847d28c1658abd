package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "downloadgeo/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for downloading series files.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// DownloadDelay is the delay between consecutive accessions (default 1s).
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`

	// OutDir is the base directory for downloads; each accession gets a
	// subdirectory named after it (default ".").
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// Extract controls whether downloaded archives are unpacked in place.
	Extract bool `json:"extract" yaml:"extract"`
}

// InfoConfig holds settings for fetching accession summary pages.
type InfoConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is an optional NCBI API key attached to requests for higher
	// rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}
