package descriptor

import (
	"context"
	"io/fs"
	"net/http"
	"time"
)

// Loader fetches spec documents from different sources (filesystem, fs.FS,
// HTTP). Implementations live under internal/descriptor but satisfy this
// contract.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// LoaderOptions configures how a Loader resolves sources.
type LoaderOptions struct {
	// FileSystem enables loading from an abstract filesystem.
	FileSystem fs.FS

	// HTTPClient allows callers to inject custom HTTP behaviour. Nil means HTTP
	// sources are disabled unless AllowHTTPFallback is true.
	HTTPClient *http.Client

	// AllowHTTPFallback toggles the default HTTP loader when no client is
	// supplied.
	AllowHTTPFallback bool

	// RequestTimeout caps remote fetch durations.
	RequestTimeout time.Duration
}

// LoaderOption mutates LoaderOptions prior to construction.
type LoaderOption func(*LoaderOptions)

// WithFileSystem injects an fs.FS implementation for SourceFromFS lookups.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.FileSystem = files
	}
}

// WithHTTPClient injects a custom HTTP client for remote documents.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.HTTPClient = client
	}
}

// WithHTTPFallback enables HTTP loading with a fresh client and an optional
// timeout.
func WithHTTPFallback(timeout time.Duration) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.AllowHTTPFallback = true
		opts.RequestTimeout = timeout
	}
}

// NewLoaderOptions applies a set of LoaderOption values and returns the
// resulting configuration.
func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	cfg := LoaderOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Construction helpers live in the top-level formengine package to prevent
// import cycles.
