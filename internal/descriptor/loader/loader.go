package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-formengine/pkg/descriptor"
)

// Loader implements descriptor.Loader by delegating to file, fs.FS, or HTTP
// strategies. Construction helpers live in the top-level formengine package.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

var _ descriptor.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options descriptor.LoaderOptions) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
	}
}

// Load fetches the raw payload for src and decodes it into a validated
// Document.
func (l *Loader) Load(ctx context.Context, src descriptor.Source) (descriptor.Document, error) {
	if src == nil {
		return descriptor.Document{}, errors.New("descriptor loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case descriptor.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case descriptor.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case descriptor.SourceKindURL:
		if !l.allowHTTP {
			return descriptor.Document{}, errors.New("descriptor loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		err = errors.New("descriptor loader: unsupported source kind")
	}
	if err != nil {
		return descriptor.Document{}, err
	}

	return descriptor.Decode(src, data)
}
