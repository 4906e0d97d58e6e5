package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "arxiv-companion/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// LibraryConfig holds settings for the local record store.
type LibraryConfig struct {
	// Path is the JSON database file (must end in .json).
	Path string `json:"path" yaml:"path"`
}

// ArxivConfig holds settings for the arXiv metadata client.
type ArxivConfig struct {
	HTTPConfig `yaml:",inline"`

	// ChunkSize is how many IDs go into a single id_list query (default 10).
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`

	// RequestDelay is the pause between consecutive API requests (default 1s).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`
}

// ShioriConfig holds connection settings for the Shiori bookmark service.
type ShioriConfig struct {
	HTTPConfig `yaml:",inline"`

	// Address is the base URL of the Shiori instance, without trailing slash.
	Address string `json:"address" yaml:"address"`

	// Username and Password authenticate against /api/v1/auth/login.
	Username string `json:"username" yaml:"username"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
}

// FetchConfig holds settings for PDF downloads.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Dir is the directory PDFs are saved into.
	Dir string `json:"dir" yaml:"dir"`

	// DownloadDelay is the pause between consecutive downloads (default 1s).
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`

	// SkipExisting scans Dir first and skips IDs already on disk.
	SkipExisting bool `json:"skip_existing" yaml:"skip_existing"`
}

// IndexConfig holds settings for the full-text search index.
type IndexConfig struct {
	// Path is the SQLite index database file.
	Path string `json:"path" yaml:"path"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
